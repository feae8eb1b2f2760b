package extractor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// OCRDecoder renders each page with pdftoppm and runs Tesseract on it.
// This handles scanned statements that have no text layer.
// Requires: pdftoppm, pdfinfo (poppler-utils) and tesseract.
type OCRDecoder struct {
	// DPI for page rendering; 300 when zero.
	DPI int
}

func (d *OCRDecoder) Name() string { return "ocr" }

// IsOCRAvailable reports whether the OCR toolchain is installed.
func IsOCRAvailable() bool {
	return lookTools("pdftoppm", "pdfinfo", "tesseract") == nil
}

func (d *OCRDecoder) Open(path string) (Document, error) {
	if err := lookTools("pdftoppm", "pdfinfo", "tesseract"); err != nil {
		return nil, err
	}
	n, err := pdfinfoPageCount(path)
	if err != nil {
		return nil, err
	}
	tmpDir, err := os.MkdirTemp("", "ocr-pages-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	dpi := d.DPI
	if dpi == 0 {
		dpi = 300
	}
	return &ocrDocument{path: path, pages: n, dpi: dpi, tmpDir: tmpDir}, nil
}

type ocrDocument struct {
	path   string
	pages  int
	dpi    int
	tmpDir string
}

func (d *ocrDocument) NumPages() int { return d.pages }

// Close removes the rendered page images.
func (d *ocrDocument) Close() error { return os.RemoveAll(d.tmpDir) }

func (d *ocrDocument) PageText(n int) (string, error) {
	if err := checkPage(n, d.pages); err != nil {
		return "", err
	}
	pageStr := strconv.Itoa(n)
	prefix := filepath.Join(d.tmpDir, "page-"+pageStr)

	// -singlefile writes exactly <prefix>.png for the selected page.
	cmd := exec.Command("pdftoppm", "-r", strconv.Itoa(d.dpi), "-png", "-singlefile",
		"-f", pageStr, "-l", pageStr, d.path, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("pdftoppm page %d: %v (output: %s)", n, err, strings.TrimSpace(string(out)))
	}

	// PSM 4 = assume a single column of text of variable sizes.
	outBase := prefix + "-ocr"
	cmd = exec.Command("tesseract", prefix+".png", outBase, "-l", "eng", "--psm", "4")
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("tesseract page %d: %v (output: %s)", n, err, strings.TrimSpace(string(out)))
	}

	data, err := os.ReadFile(outBase + ".txt")
	if err != nil {
		return "", fmt.Errorf("read OCR output for page %d: %w", n, err)
	}
	return sanitizeOCRAmounts(strings.TrimSpace(string(data))), nil
}
