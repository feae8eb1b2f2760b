package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/insightdelivered/cc-statement-consolidator/internal/logger"
)

// Output formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// Sheet naming strategies.
const (
	NamingSegment  = "segment"
	NamingFilename = "filename"
	NamingIndex    = "index"
)

// Decoders.
const (
	DecoderAuto      = "auto"
	DecoderPDF       = "pdf"
	DecoderPdftotext = "pdftotext"
	DecoderOCR       = "ocr"
)

type Config struct {
	// Batch
	StatementsDir   string
	OutputPath      string
	OutputFormat    string
	Decoder         string
	SheetNaming     string
	SheetPrefix     string
	Workers         int
	DocumentTimeout time.Duration
	Strict          bool

	// HTTP server
	ServerAddr string

	// S3 upload (optional)
	S3Bucket    string
	S3Region    string
	S3Prefix    string
	AWSEndpoint string // For LocalStack in development

	// Logging
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads the configuration from the environment. Call godotenv.Load
// first to pick up a .env file.
func Load() (*Config, error) {
	cfg := &Config{
		StatementsDir:   getEnv("STATEMENTS_DIR", ""),
		OutputPath:      getEnv("OUTPUT_PATH", "Consolidated_Statements.xlsx"),
		OutputFormat:    getEnv("OUTPUT_FORMAT", FormatXLSX),
		Decoder:         getEnv("PDF_DECODER", DecoderAuto),
		SheetNaming:     getEnv("SHEET_NAMING", NamingSegment),
		SheetPrefix:     getEnv("SHEET_PREFIX", "Statements_"),
		Workers:         getEnvInt("BATCH_WORKERS", 1),
		DocumentTimeout: getEnvDuration("DOCUMENT_TIMEOUT", 0),
		Strict:          getEnvBool("STRICT", false),
		ServerAddr:      getEnv("SERVER_ADDR", ":8080"),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Region:        getEnv("S3_REGION", "me-central-1"),
		S3Prefix:        getEnv("S3_PREFIX", "statements"),
		AWSEndpoint:     getEnv("AWS_ENDPOINT", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:   getEnv("LOG_TIME_FORMAT", time.RFC3339),
		LogOutput:       getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks enum values and limits. It is called again after CLI
// flags have been applied.
func (c *Config) Validate() error {
	c.OutputFormat = strings.ToLower(c.OutputFormat)
	c.Decoder = strings.ToLower(c.Decoder)
	c.SheetNaming = strings.ToLower(c.SheetNaming)

	if !oneOf(c.OutputFormat, FormatXLSX, FormatCSV) {
		return fmt.Errorf("unknown output format %q (use xlsx or csv)", c.OutputFormat)
	}
	if !oneOf(c.Decoder, DecoderAuto, DecoderPDF, DecoderPdftotext, DecoderOCR) {
		return fmt.Errorf("unknown decoder %q (use auto, pdf, pdftotext or ocr)", c.Decoder)
	}
	if !oneOf(c.SheetNaming, NamingSegment, NamingFilename, NamingIndex) {
		return fmt.Errorf("unknown sheet naming %q (use segment, filename or index)", c.SheetNaming)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.DocumentTimeout < 0 {
		return fmt.Errorf("document timeout must not be negative, got %s", c.DocumentTimeout)
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}
	return nil
}

// UploadEnabled reports whether the finished output should go to S3.
func (c *Config) UploadEnabled() bool {
	return c.S3Bucket != ""
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
