package consolidator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/cc-statement-consolidator/internal/models"
)

// Status is the outcome of one document in a batch.
type Status string

const (
	// StatusOK means every page decoded, no candidate was skipped and
	// metadata was found.
	StatusOK Status = "ok"
	// StatusPartial means the document was extracted with gaps.
	StatusPartial Status = "partial"
	// StatusFailed means the document produced no output.
	StatusFailed Status = "failed"
)

// DocumentResult describes what happened to one source document.
type DocumentResult struct {
	File         string
	Sheet        string
	Status       Status
	Transactions int
	Debit        decimal.Decimal
	Credit       decimal.Decimal
	Stats        models.ExtractionStats
	Err          error
	Duration     time.Duration
}

// Report summarises a batch run. Documents are in listing order.
type Report struct {
	Dir       string
	Documents []DocumentResult
	Elapsed   time.Duration
}

// Count returns the number of documents with the given status.
func (r *Report) Count(s Status) int {
	n := 0
	for _, d := range r.Documents {
		if d.Status == s {
			n++
		}
	}
	return n
}

// Totals sums debits and credits over all extracted documents.
func (r *Report) Totals() (debit, credit decimal.Decimal) {
	for _, d := range r.Documents {
		debit = debit.Add(d.Debit)
		credit = credit.Add(d.Credit)
	}
	return debit, credit
}

// TransactionCount is the number of transactions across the batch.
func (r *Report) TransactionCount() int {
	n := 0
	for _, d := range r.Documents {
		n += d.Transactions
	}
	return n
}

func statusOf(st *models.Statement) Status {
	if st.Stats.PagesFailed > 0 || st.Stats.SkippedCandidates > 0 || st.Metadata.IsEmpty() {
		return StatusPartial
	}
	return StatusOK
}
