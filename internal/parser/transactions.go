package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/cc-statement-consolidator/internal/models"
)

// transactionPattern matches one card transaction:
//
//	TXN_DATE  POSTING_DATE  DESCRIPTION [(NOTE)]  AMOUNT[CR]
//
// The separators are \s+, so a record may run over several physical lines
// as long as the description itself stays on one line. The amount must end
// the line.
var transactionPattern = regexp.MustCompile(`(?m)` +
	`(?P<txn_date>\d{2}/\d{2}/\d{4})\s+` +
	`(?P<posting_date>\d{2}/\d{2}/\d{4})\s+` +
	`(?P<description>.*?(?:\s*\(.*?\))?)\s+` +
	`(?P<amount>\d{1,3}(?:,\d{3})*\.\d{2}(?:CR)?)$`,
)

var (
	txnDateIdx     = transactionPattern.SubexpIndex("txn_date")
	postingDateIdx = transactionPattern.SubexpIndex("posting_date")
	descriptionIdx = transactionPattern.SubexpIndex("description")
	amountIdx      = transactionPattern.SubexpIndex("amount")
)

const creditSuffix = "CR"

// ExtractTransactions returns the transactions found in one page of text, in
// the order they appear. Candidates whose amount cannot be parsed are left
// out and counted in skipped.
func ExtractTransactions(page string) (txns []models.Transaction, skipped int) {
	for _, m := range transactionPattern.FindAllStringSubmatch(page, -1) {
		amount, kind, err := parseCardAmount(m[amountIdx])
		if err != nil {
			skipped++
			continue
		}
		txns = append(txns, models.Transaction{
			FullText:        m[0],
			TransactionDate: m[txnDateIdx],
			PostingDate:     m[postingDateIdx],
			Description:     m[descriptionIdx],
			Amount:          amount,
			Kind:            kind,
		})
	}
	return txns, skipped
}

// parseCardAmount turns "1,234.56" or "1,234.56CR" into a signed amount.
// A CR suffix marks a credit and forces a non-negative sign; anything else
// is a debit and forced non-positive.
func parseCardAmount(token string) (decimal.Decimal, models.TransactionKind, error) {
	kind := models.KindDebit
	if strings.HasSuffix(token, creditSuffix) {
		kind = models.KindCredit
		token = strings.TrimSuffix(token, creditSuffix)
	}

	amount, err := decimal.NewFromString(stripThousands(token))
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("invalid amount %q: %w", token, err)
	}

	if kind == models.KindCredit {
		return amount.Abs(), kind, nil
	}
	return amount.Abs().Neg(), kind, nil
}
