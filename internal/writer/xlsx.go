package writer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/cc-statement-consolidator/internal/models"
)

const defaultSheet = "Sheet1"

// XLSXWriter writes a workbook with one sheet per document followed by the
// Metadata sheet.
type XLSXWriter struct{}

// WriteToFile saves the workbook at path. The file is replaced only once the
// whole workbook has been written.
func (w *XLSXWriter) WriteToFile(path string, wb *models.Workbook) error {
	return writeAtomic(path, func(out io.Writer) error {
		return w.Write(out, wb)
	})
}

// Write encodes the workbook as XLSX to out.
func (w *XLSXWriter) Write(out io.Writer, wb *models.Workbook) error {
	f, err := w.build(wb)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Write(out)
}

func (w *XLSXWriter) build(wb *models.Workbook) (*excelize.File, error) {
	f := excelize.NewFile()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}
	// Built-in format 4 is #,##0.00.
	amount, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("amount style: %w", err)
	}

	// The first sheet takes over the default one, so a document sheet that
	// happens to be called Sheet1 is never merged into it.
	first := true
	newSheet := func(name string) error {
		if first {
			first = false
			return f.SetSheetName(defaultSheet, name)
		}
		_, err := f.NewSheet(name)
		return err
	}

	for _, sheet := range wb.Sheets {
		if err := writeTransactionSheet(f, newSheet, sheet, header, amount); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q: %w", sheet.Name, err)
		}
	}
	if err := writeMetadataSheet(f, newSheet, wb.Metadata, header); err != nil {
		f.Close()
		return nil, fmt.Errorf("sheet %q: %w", models.MetadataSheetName, err)
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeTransactionSheet(f *excelize.File, newSheet func(string) error, sheet models.Sheet, header, amount int) error {
	if err := newSheet(sheet.Name); err != nil {
		return err
	}
	if err := f.SetColStyle(sheet.Name, "E", amount); err != nil {
		return err
	}
	if err := writeHeader(f, sheet.Name, models.TransactionColumns, header); err != nil {
		return err
	}

	for i, txn := range sheet.Transactions {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			txn.FullText,
			txn.TransactionDate,
			txn.PostingDate,
			txn.Description,
			txn.Amount.InexactFloat64(),
			string(txn.Kind),
		}
		if err := f.SetSheetRow(sheet.Name, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet.Name, "A", "A", 60); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet.Name, "B", "C", 16); err != nil {
		return err
	}
	return f.SetColWidth(sheet.Name, "D", "D", 40)
}

func writeMetadataSheet(f *excelize.File, newSheet func(string) error, rows []models.StatementMetadata, header int) error {
	name := models.MetadataSheetName
	if err := newSheet(name); err != nil {
		return err
	}
	if err := writeHeader(f, name, models.MetadataColumns(), header); err != nil {
		return err
	}

	for i, m := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := metadataRow(m)
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

// writeHeader writes the column names in row 1 and freezes that row.
func writeHeader(f *excelize.File, sheet string, columns []string, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &columns); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
