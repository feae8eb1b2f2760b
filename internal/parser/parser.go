package parser

import (
	"github.com/insightdelivered/cc-statement-consolidator/internal/models"
)

// Parser defines the interface for statement parsers.
type Parser interface {
	// Parse takes the decoded text of each page and returns the statement
	// data. Pages that failed to decode are simply not passed in.
	Parse(pages []string) *models.Statement
	// LayoutName returns the human-readable layout name.
	LayoutName() string
}

// CardStatementParser handles credit card statements laid out as a
// card-number-anchored summary block followed by transaction rows.
//
// Transaction rows look like:
//
//	01/02/2024 02/02/2024 GROCERY STORE PURCHASE 123.45
//	03/02/2024 04/02/2024 PAYMENT RECEIVED 1,234.56CR
type CardStatementParser struct{}

var _ Parser = (*CardStatementParser)(nil)

func (p *CardStatementParser) LayoutName() string {
	return "Card statement (card number anchor)"
}

func (p *CardStatementParser) Parse(pages []string) *models.Statement {
	st := &models.Statement{}

	for _, page := range pages {
		txns, skipped := ExtractTransactions(page)
		st.Transactions = append(st.Transactions, txns...)
		st.Stats.SkippedCandidates += skipped
	}

	st.Metadata = NormalizeMetadataDates(ExtractMetadata(splitLines(pages)))
	st.Stats.MissingFields = st.Metadata.Missing()
	return st
}
