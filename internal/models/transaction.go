package models

import "github.com/shopspring/decimal"

// TransactionKind marks a card transaction as a debit or a credit.
type TransactionKind string

const (
	KindDebit  TransactionKind = "Debit"
	KindCredit TransactionKind = "Credit"
)

// Transaction is one card transaction matched in a page of statement text.
// Amount is negative (or zero) for debits and positive (or zero) for credits.
type Transaction struct {
	FullText        string          `json:"fullText"`
	TransactionDate string          `json:"transactionDate"` // DD/MM/YYYY, not validated
	PostingDate     string          `json:"postingDate"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Kind            TransactionKind `json:"type"`
}

// ExtractionStats counts the soft failures met while extracting one document.
type ExtractionStats struct {
	PagesDecoded      int      `json:"pagesDecoded"`
	PagesFailed       int      `json:"pagesFailed"`
	SkippedCandidates int      `json:"skippedCandidates"`
	MissingFields     []string `json:"missingFields,omitempty"`
}

// Statement is everything extracted from a single source document.
type Statement struct {
	SourceFile   string
	Metadata     StatementMetadata
	Transactions []Transaction
	Stats        ExtractionStats
}

// Totals sums debits and credits separately. Debits are returned as a
// non-positive value.
func (s *Statement) Totals() (debit, credit decimal.Decimal) {
	for _, txn := range s.Transactions {
		if txn.Kind == KindCredit {
			credit = credit.Add(txn.Amount)
		} else {
			debit = debit.Add(txn.Amount)
		}
	}
	return debit, credit
}
