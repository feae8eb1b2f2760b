// Package writer persists a consolidated workbook.
package writer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/insightdelivered/cc-statement-consolidator/internal/models"
)

// ErrOutput is returned when the output destination cannot be written.
var ErrOutput = errors.New("output not writable")

// Writer persists a workbook to path.
type Writer interface {
	WriteToFile(path string, wb *models.Workbook) error
}

// New returns the writer for an output format: xlsx or csv.
func New(format string) (Writer, error) {
	switch format {
	case "", "xlsx":
		return &XLSXWriter{}, nil
	case "csv":
		return &CSVWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %q", format)
	}
}

// writeAtomic writes to a temp file next to path and renames it into place,
// so a failed write never leaves a truncated file at path.
func writeAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutput, err)
	}
	tmpName := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", ErrOutput, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %v", ErrOutput, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrOutput, err)
	}
	return nil
}

func metadataRow(m models.StatementMetadata) []string {
	fields := m.Fields()
	row := make([]string, len(fields))
	for i, f := range fields {
		row[i] = f.Value
	}
	return row
}
