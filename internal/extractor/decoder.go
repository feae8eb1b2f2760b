package extractor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var (
	// ErrToolMissing is returned when an external decoding tool is not on PATH.
	ErrToolMissing = errors.New("required external tool not installed")
	// ErrNoPages is returned when a document opens but reports no pages.
	ErrNoPages = errors.New("document has no pages")
	// ErrPageOutOfRange is returned for a page number outside 1..NumPages.
	ErrPageOutOfRange = errors.New("page number out of range")
)

// Document is an open source document whose pages are decoded one at a
// time. Pages are numbered from 1. A failed PageText call affects only that
// page; the document stays usable. Close must be called on every path.
type Document interface {
	NumPages() int
	PageText(n int) (string, error)
	Close() error
}

// Decoder opens source documents for page-by-page text extraction.
type Decoder interface {
	Open(path string) (Document, error)
	Name() string
}

// NewDecoder returns the decoder registered under name.
func NewDecoder(name string) (Decoder, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return &AutoDecoder{Primary: &PDFDecoder{}, Fallback: &PopplerDecoder{}}, nil
	case "pdf":
		return &PDFDecoder{}, nil
	case "pdftotext":
		return &PopplerDecoder{}, nil
	case "ocr":
		return &OCRDecoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported decoder: %q", name)
	}
}

// ReadPages decodes every page of doc in page order. A page that fails to
// decode is passed to onError and left out of pages. ctx is checked before
// each page; on cancellation the pages read so far are returned with the
// context error.
func ReadPages(ctx context.Context, doc Document, onError func(page int, err error)) (pages []string, failed int, err error) {
	for n := 1; n <= doc.NumPages(); n++ {
		if err := ctx.Err(); err != nil {
			return pages, failed, err
		}
		text, err := doc.PageText(n)
		if err != nil {
			failed++
			if onError != nil {
				onError(n, err)
			}
			continue
		}
		pages = append(pages, text)
	}
	return pages, failed, nil
}

func checkPage(n, total int) error {
	if n < 1 || n > total {
		return fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, n, total)
	}
	return nil
}

func lookTools(names ...string) error {
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			return fmt.Errorf("%w: %s", ErrToolMissing, name)
		}
	}
	return nil
}

// pdfinfoPageCount returns the number of pages reported by pdfinfo.
func pdfinfoPageCount(path string) (int, error) {
	out, err := exec.Command("pdfinfo", path).Output()
	if err != nil {
		return 0, fmt.Errorf("pdfinfo failed: %w", err)
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.HasPrefix(line, "Pages:") {
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:")))
			if err != nil {
				return 0, fmt.Errorf("pdfinfo page count: %w", err)
			}
			if n == 0 {
				return 0, ErrNoPages
			}
			return n, nil
		}
	}
	return 0, fmt.Errorf("pdfinfo reported no page count for %s", path)
}
