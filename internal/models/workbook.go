package models

// TransactionColumns is the header row of every per-document sheet.
var TransactionColumns = []string{
	"Full TX String", "Transaction Date", "Posting Date", "Description", "Amount", "Type",
}

// MetadataSheetName is the name of the combined metadata sheet.
const MetadataSheetName = "Metadata"

// Sheet is the transaction table of one source document.
type Sheet struct {
	Name         string
	SourceFile   string
	Transactions []Transaction
}

// Workbook accumulates the output tables of a batch run. Sheets keep the
// order in which documents were listed; Metadata has one row per document in
// the same order and is written last.
type Workbook struct {
	Sheets   []Sheet
	Metadata []StatementMetadata
}

// Add appends the tables produced for one document.
func (w *Workbook) Add(sheetName string, st *Statement) {
	w.Sheets = append(w.Sheets, Sheet{
		Name:         sheetName,
		SourceFile:   st.SourceFile,
		Transactions: st.Transactions,
	})
	w.Metadata = append(w.Metadata, st.Metadata)
}
