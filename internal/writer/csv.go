package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/insightdelivered/cc-statement-consolidator/internal/models"
)

// CSVWriter writes a workbook as a directory of CSV files: one per sheet,
// named after the sheet, plus Metadata.csv.
type CSVWriter struct{}

// WriteToFile writes the workbook into the directory dir, creating it if
// needed.
func (w *CSVWriter) WriteToFile(dir string, wb *models.Workbook) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrOutput, err)
	}

	for _, sheet := range wb.Sheets {
		path := filepath.Join(dir, sheet.Name+".csv")
		err := writeAtomic(path, func(out io.Writer) error {
			return w.WriteSheet(out, sheet)
		})
		if err != nil {
			return err
		}
	}

	path := filepath.Join(dir, models.MetadataSheetName+".csv")
	return writeAtomic(path, func(out io.Writer) error {
		return w.WriteMetadata(out, wb.Metadata)
	})
}

// WriteSheet writes one document's transactions in CSV format.
func (w *CSVWriter) WriteSheet(out io.Writer, sheet models.Sheet) error {
	writer := csv.NewWriter(out)

	if err := writer.Write(models.TransactionColumns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, txn := range sheet.Transactions {
		row := []string{
			txn.FullText,
			txn.TransactionDate,
			txn.PostingDate,
			txn.Description,
			txn.Amount.StringFixed(2),
			string(txn.Kind),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteMetadata writes the combined metadata table, one row per document.
func (w *CSVWriter) WriteMetadata(out io.Writer, rows []models.StatementMetadata) error {
	writer := csv.NewWriter(out)

	if err := writer.Write(models.MetadataColumns()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, m := range rows {
		if err := writer.Write(metadataRow(m)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
