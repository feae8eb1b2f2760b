// Package api exposes consolidation over HTTP.
package api

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/insightdelivered/cc-statement-consolidator/internal/consolidator"
	"github.com/insightdelivered/cc-statement-consolidator/internal/extractor"
	"github.com/insightdelivered/cc-statement-consolidator/internal/logger"
	"github.com/insightdelivered/cc-statement-consolidator/internal/models"
	"github.com/insightdelivered/cc-statement-consolidator/internal/parser"
	"github.com/insightdelivered/cc-statement-consolidator/internal/writer"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Version is reported by the health endpoint.
var Version = "1.0.0"

// InspectResponse is the JSON response from /api/inspect.
type InspectResponse struct {
	Success      bool                     `json:"success"`
	Error        string                   `json:"error,omitempty"`
	File         string                   `json:"file,omitempty"`
	Metadata     models.StatementMetadata `json:"metadata"`
	Transactions []models.Transaction     `json:"transactions"`
	Count        int                      `json:"count"`
	TotalDebit   string                   `json:"totalDebit"`
	TotalCredit  string                   `json:"totalCredit"`
	Stats        models.ExtractionStats   `json:"stats"`
	RawText      string                   `json:"rawText,omitempty"`
}

// Handler holds the settings used to extract uploaded statements.
type Handler struct {
	Decoder         extractor.Decoder
	Parser          parser.Parser
	SheetNaming     string
	SheetPrefix     string
	Workers         int
	DocumentTimeout time.Duration
}

// NewApp returns a fiber app with the API routes registered.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:             64 << 20,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	app.Get("/api/health", HandleHealth)
	app.Post("/api/inspect", h.HandleInspect)
	app.Post("/api/consolidate", h.HandleConsolidate)
	return app
}

// HandleHealth reports that the server is up.
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": Version,
	})
}

// HandleInspect extracts a single uploaded statement (form field "file") and
// returns its metadata and transactions as JSON.
func (h *Handler) HandleInspect(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	if !isPDF(fh.Filename) {
		return writeError(c, fiber.StatusBadRequest, "Only PDF files are supported.")
	}

	tmpDir, err := os.MkdirTemp("", "inspect-*")
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to create temp dir.")
	}
	defer os.RemoveAll(tmpDir)

	name := filepath.Base(fh.Filename)
	path := filepath.Join(tmpDir, name)
	if err := c.SaveFile(fh, path); err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to save uploaded file.")
	}

	doc, err := h.Decoder.Open(path)
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("PDF extraction failed: %v", err))
	}
	defer doc.Close()

	pages, failed, err := extractor.ReadPages(c.UserContext(), doc, nil)
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("PDF extraction failed: %v", err))
	}

	st := h.Parser.Parse(pages)
	st.SourceFile = name
	st.Metadata.SourceFileName = name
	st.Stats.PagesDecoded = len(pages)
	st.Stats.PagesFailed = failed

	// nil marshals to JSON null, not []
	txns := st.Transactions
	if txns == nil {
		txns = []models.Transaction{}
	}
	debit, credit := st.Totals()

	return c.JSON(InspectResponse{
		Success:      true,
		File:         name,
		Metadata:     st.Metadata,
		Transactions: txns,
		Count:        len(txns),
		TotalDebit:   debit.StringFixed(2),
		TotalCredit:  credit.StringFixed(2),
		Stats:        st.Stats,
		RawText:      strings.Join(pages, "\n--- PAGE BREAK ---\n"),
	})
}

// HandleConsolidate consolidates every uploaded statement (form field
// "files") and returns the workbook. Uploads are processed in file name order.
func (h *Handler) HandleConsolidate(c *fiber.Ctx) error {
	log := logger.WithComponent("api")

	form, err := c.MultipartForm()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
	}
	files := form.File["files"]
	if len(files) == 0 {
		return writeError(c, fiber.StatusBadRequest, "No files uploaded. Use form field 'files'.")
	}

	tmpDir, err := os.MkdirTemp("", "consolidate-*")
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to create temp dir.")
	}
	defer os.RemoveAll(tmpDir)

	seen := make(map[string]bool)
	for _, fh := range files {
		name := filepath.Base(fh.Filename)
		if !isPDF(name) {
			return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Only PDF files are supported: %s", name))
		}
		if seen[name] {
			return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Duplicate file name: %s", name))
		}
		seen[name] = true
		if err := c.SaveFile(fh, filepath.Join(tmpDir, name)); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "Failed to save uploaded file.")
		}
	}

	namer, err := consolidator.NewSheetNamer(h.SheetNaming, h.SheetPrefix)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	wb, report, err := consolidator.Run(ctx, consolidator.Options{
		Dir:             tmpDir,
		Decoder:         h.Decoder,
		Parser:          h.Parser,
		Namer:           namer,
		Workers:         h.Workers,
		DocumentTimeout: h.DocumentTimeout,
	})
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}

	var buf bytes.Buffer
	if err := (&writer.XLSXWriter{}).Write(&buf, wb); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("Workbook generation failed: %v", err))
	}

	log.Info().
		Int("documents", len(report.Documents)).
		Int("failed", report.Count(consolidator.StatusFailed)).
		Msg("Consolidated upload")

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="Consolidated_Statements.xlsx"`)
	c.Set("X-Documents-Failed", strconv.Itoa(report.Count(consolidator.StatusFailed)))
	c.Set("X-Transactions", strconv.Itoa(report.TransactionCount()))
	return c.Send(buf.Bytes())
}

func isPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), consolidator.Extension)
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(InspectResponse{
		Success: false,
		Error:   msg,
	})
}
