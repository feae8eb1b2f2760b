package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"STATEMENTS_DIR", "OUTPUT_PATH", "OUTPUT_FORMAT", "PDF_DECODER", "SHEET_NAMING",
		"SHEET_PREFIX", "BATCH_WORKERS", "DOCUMENT_TIMEOUT", "STRICT", "S3_BUCKET", "SERVER_ADDR",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Consolidated_Statements.xlsx", cfg.OutputPath)
	assert.Equal(t, FormatXLSX, cfg.OutputFormat)
	assert.Equal(t, DecoderAuto, cfg.Decoder)
	assert.Equal(t, NamingSegment, cfg.SheetNaming)
	assert.Equal(t, "Statements_", cfg.SheetPrefix)
	assert.Equal(t, 1, cfg.Workers)
	assert.Zero(t, cfg.DocumentTimeout)
	assert.False(t, cfg.Strict)
	assert.False(t, cfg.UploadEnabled())
	assert.Equal(t, ":8080", cfg.ServerAddr)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STATEMENTS_DIR", "/data/cc")
	t.Setenv("OUTPUT_FORMAT", "CSV")
	t.Setenv("PDF_DECODER", "pdftotext")
	t.Setenv("BATCH_WORKERS", "4")
	t.Setenv("DOCUMENT_TIMEOUT", "45s")
	t.Setenv("STRICT", "true")
	t.Setenv("S3_BUCKET", "statements-archive")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/cc", cfg.StatementsDir)
	assert.Equal(t, FormatCSV, cfg.OutputFormat)
	assert.Equal(t, DecoderPdftotext, cfg.Decoder)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 45*time.Second, cfg.DocumentTimeout)
	assert.True(t, cfg.Strict)
	assert.True(t, cfg.UploadEnabled())
}

func TestLoad_IgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("BATCH_WORKERS", "many")
	t.Setenv("DOCUMENT_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Workers)
	assert.Zero(t, cfg.DocumentTimeout)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			OutputPath:   "out.xlsx",
			OutputFormat: FormatXLSX,
			Decoder:      DecoderPDF,
			SheetNaming:  NamingIndex,
			Workers:      1,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"upper case enums", func(c *Config) { c.OutputFormat = "XLSX"; c.Decoder = "OCR" }, false},
		{"bad format", func(c *Config) { c.OutputFormat = "ods" }, true},
		{"bad decoder", func(c *Config) { c.Decoder = "docconv" }, true},
		{"bad naming", func(c *Config) { c.SheetNaming = "month" }, true},
		{"zero workers", func(c *Config) { c.Workers = 0 }, true},
		{"negative timeout", func(c *Config) { c.DocumentTimeout = -time.Second }, true},
		{"no output", func(c *Config) { c.OutputPath = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGetLoggerConfig(t *testing.T) {
	c := &Config{LogLevel: "debug", LogFormat: "json", LogOutput: "stdout"}
	lc := c.GetLoggerConfig()
	assert.Equal(t, "debug", lc.Level)
	assert.Equal(t, "json", lc.Format)
	assert.Equal(t, "stdout", lc.Output)
}
