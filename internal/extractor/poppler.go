package extractor

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// PopplerDecoder shells out to pdftotext (poppler-utils), one invocation per
// page so page boundaries are preserved.
type PopplerDecoder struct {
	// Layout passes -layout so table columns stay on one line.
	Layout bool
}

func (d *PopplerDecoder) Name() string { return "pdftotext" }

func (d *PopplerDecoder) Open(path string) (Document, error) {
	if err := lookTools("pdftotext", "pdfinfo"); err != nil {
		return nil, err
	}
	n, err := pdfinfoPageCount(path)
	if err != nil {
		return nil, err
	}
	return &popplerDocument{path: path, pages: n, layout: d.Layout}, nil
}

type popplerDocument struct {
	path   string
	pages  int
	layout bool
}

func (d *popplerDocument) NumPages() int { return d.pages }

func (d *popplerDocument) Close() error { return nil }

func (d *popplerDocument) PageText(n int) (string, error) {
	if err := checkPage(n, d.pages); err != nil {
		return "", err
	}
	pageStr := strconv.Itoa(n)
	args := []string{"-f", pageStr, "-l", pageStr}
	if d.layout {
		args = append(args, "-layout")
	}
	args = append(args, d.path, "-")

	out, err := exec.Command("pdftotext", args...).Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext page %d: %w", n, err)
	}
	// pdftotext ends every page with a form feed.
	return strings.TrimRight(string(out), "\f\n"), nil
}
