package writer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/insightdelivered/cc-statement-consolidator/internal/models"
)

func TestCSVWriter_WriteSheet(t *testing.T) {
	wb := sampleWorkbook()

	var buf bytes.Buffer
	w := &CSVWriter{}
	if err := w.WriteSheet(&buf, wb.Sheets[0]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Full TX String,Transaction Date,Posting Date,Description,Amount,Type") {
		t.Error("expected column headers")
	}
	if !strings.Contains(output, "GROCERY STORE PURCHASE,-123.45,Debit") {
		t.Error("expected debit row with negative amount")
	}
	if !strings.Contains(output, "PAYMENT RECEIVED,1234.56,Credit") {
		t.Error("expected credit row without thousands separator")
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	// 1 header + 2 transactions
	if len(lines) != 3 {
		t.Errorf("expected 3 lines, got %d", len(lines))
	}
}

func TestCSVWriter_WriteMetadata(t *testing.T) {
	wb := sampleWorkbook()

	var buf bytes.Buffer
	w := &CSVWriter{}
	if err := w.WriteMetadata(&buf, wb.Metadata); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Card Number,Statement Period") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	// Credit limit keeps its separator, so the field is quoted.
	if !strings.Contains(lines[1], `"5,000.00"`) {
		t.Errorf("expected quoted credit limit, got %s", lines[1])
	}
	if !strings.HasSuffix(lines[2], ",Card_Statement_Feb2024.pdf") {
		t.Errorf("expected blank fields then file name, got %s", lines[2])
	}
}

func TestCSVWriter_WriteToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	w := &CSVWriter{}
	if err := w.WriteToFile(dir, sampleWorkbook()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"Statements_Jan2024.csv", "Statements_Feb2024.csv", "Metadata.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "Statements_Feb2024.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(data)); got != strings.Join(models.TransactionColumns, ",") {
		t.Errorf("expected header only, got %q", got)
	}
}
