package parser

import (
	"time"

	"github.com/insightdelivered/cc-statement-consolidator/internal/models"
)

const (
	// 05-Mar-23; the day may also be a single digit.
	periodDateLayout = "2-Jan-06"
	outputDateLayout = "02/01/2006"
)

// NormalizeDate rewrites a DD-Mon-YY date as DD/MM/YYYY. Input in any other
// form is returned unchanged.
func NormalizeDate(s string) string {
	t, err := time.Parse(periodDateLayout, s)
	if err != nil {
		return s
	}
	return t.Format(outputDateLayout)
}

// NormalizeMetadataDates normalizes the statement start and end dates. No
// other field is touched.
func NormalizeMetadataDates(m models.StatementMetadata) models.StatementMetadata {
	if m.StatementStartDate != "" {
		m.StatementStartDate = NormalizeDate(m.StatementStartDate)
	}
	if m.StatementEndDate != "" {
		m.StatementEndDate = NormalizeDate(m.StatementEndDate)
	}
	return m
}
