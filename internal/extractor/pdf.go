package extractor

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFDecoder extracts page text with the ledongthuc/pdf library. Each page
// is rebuilt row by row; pages the row method cannot read fall back to
// coordinate-based reconstruction from the raw text objects.
type PDFDecoder struct{}

func (d *PDFDecoder) Name() string { return "pdf" }

// openPDF is swapped in tests.
var openPDF = pdf.Open

func (d *PDFDecoder) Open(path string) (doc Document, err error) {
	var f *os.File
	defer func() {
		if r := recover(); r != nil {
			if f != nil {
				f.Close()
			}
			doc = nil
			err = fmt.Errorf("PDF library crashed opening %s: %v", path, r)
		}
	}()

	var r *pdf.Reader
	f, r, err = openPDF(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	n := r.NumPage()
	if n == 0 {
		f.Close()
		return nil, ErrNoPages
	}
	return &pdfDocument{file: f, reader: r, pages: n}, nil
}

type pdfDocument struct {
	file   *os.File
	reader *pdf.Reader
	pages  int
}

func (d *pdfDocument) NumPages() int { return d.pages }

func (d *pdfDocument) Close() error { return d.file.Close() }

// PageText decodes one page. A panic inside the library is turned into an
// error for that page only.
func (d *pdfDocument) PageText(n int) (text string, err error) {
	if err := checkPage(n, d.pages); err != nil {
		return "", err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed on page %d: %v", n, r)
		}
	}()

	page := d.reader.Page(n)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d has no content object", n)
	}

	if text, err := pageTextByRow(page); err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	return pageTextByContent(page), nil
}

// pageTextByRow uses GetTextByRow, which keeps the layout of well-formed PDFs.
func pageTextByRow(page pdf.Page) (string, error) {
	rows, err := page.GetTextByRow()
	if err != nil {
		return "", err
	}
	var lines []string
	for _, row := range rows {
		var parts []string
		for _, word := range row.Content {
			parts = append(parts, word.S)
		}
		if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// pageTextByContent groups text pieces by Y coordinate to reconstruct rows,
// then sorts each row by X.
func pageTextByContent(page pdf.Page) string {
	content := page.Content()

	type textItem struct {
		x float64
		s string
	}
	rowMap := make(map[int][]textItem)
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		yKey := int(math.Round(t.Y))
		rowMap[yKey] = append(rowMap[yKey], textItem{x: t.X, s: t.S})
	}

	// PDF Y grows upwards, so the top row has the largest key.
	yKeys := make([]int, 0, len(rowMap))
	for y := range rowMap {
		yKeys = append(yKeys, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

	var lines []string
	for _, y := range yKeys {
		items := rowMap[y]
		sort.Slice(items, func(a, b int) bool {
			return items[a].x < items[b].x
		})

		var parts []string
		var prevX float64
		for j, item := range items {
			if j > 0 && item.x-prevX > 15 {
				parts = append(parts, " ")
			}
			parts = append(parts, item.s)
			prevX = item.x
		}
		if line := strings.TrimSpace(strings.Join(parts, "")); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
