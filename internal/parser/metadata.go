package parser

import (
	"strings"

	"github.com/insightdelivered/cc-statement-consolidator/internal/models"
)

// closingBalanceAnchor is the label line that precedes the five
// statement-summary values.
const closingBalanceAnchor = "Closing Balance"

// scanState is a step of the metadata scan. Every read is optional: a state
// whose line is out of range or has the wrong shape leaves its field empty
// and hands over to the next state.
type scanState int

const (
	stateSeekAnchor scanState = iota
	stateReadPeriod
	stateReadLimits
	stateSeekDates
	stateReadMinPayment
	stateSeekClosingBalance
	stateReadSummary
	stateDone
)

var stateNames = [...]string{
	"SeekAnchor", "ReadPeriod", "ReadLimits", "SeekDates",
	"ReadMinPayment", "SeekClosingBalance", "ReadSummary", "Done",
}

func (s scanState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

type metadataScan struct {
	lines   []string
	anchor  int // index of the card number line
	dueDate int // index of the payment due date line
	closing int // index of the Closing Balance label
	meta    models.StatementMetadata
}

// ExtractMetadata reads the statement summary block anchored on the first
// card number line. Only the first anchor is used; a document with no card
// number line yields empty metadata.
func ExtractMetadata(lines []string) models.StatementMetadata {
	s := &metadataScan{lines: lines}
	for state := stateSeekAnchor; state != stateDone; {
		state = s.step(state)
	}
	return s.meta
}

func (s *metadataScan) step(state scanState) scanState {
	switch state {
	case stateSeekAnchor:
		return s.seekAnchor()
	case stateReadPeriod:
		return s.readPeriod()
	case stateReadLimits:
		return s.readLimits()
	case stateSeekDates:
		return s.seekDates()
	case stateReadMinPayment:
		return s.readMinPayment()
	case stateSeekClosingBalance:
		return s.seekClosingBalance()
	case stateReadSummary:
		return s.readSummary()
	default:
		return stateDone
	}
}

// line returns the trimmed line at i, or false when i is out of range.
func (s *metadataScan) line(i int) (string, bool) {
	if i < 0 || i >= len(s.lines) {
		return "", false
	}
	return strings.TrimSpace(s.lines[i]), true
}

func (s *metadataScan) seekAnchor() scanState {
	for i := range s.lines {
		l, _ := s.line(i)
		if isCardNumber(l) {
			s.anchor = i
			s.meta.CardNumber = l
			return stateReadPeriod
		}
	}
	return stateDone
}

func (s *metadataScan) readPeriod() scanState {
	period, ok := s.line(s.anchor + 1)
	if !ok {
		return stateReadLimits
	}
	s.meta.StatementPeriod = period
	if start, end, found := strings.Cut(period, " to "); found {
		s.meta.StatementStartDate = start
		s.meta.StatementEndDate = end
	}
	return stateReadLimits
}

func (s *metadataScan) readLimits() scanState {
	if l, ok := s.line(s.anchor + 2); ok && isAmount(l) {
		s.meta.CreditLimit = l
	}
	if l, ok := s.line(s.anchor + 3); ok && isAmount(l) {
		s.meta.AvailableCreditLimit = stripThousands(l)
	}
	return stateSeekDates
}

// seekDates takes the first two date lines after the limits as the
// statement date and the payment due date. Both must be present.
func (s *metadataScan) seekDates() scanState {
	var found []int
	for j := s.anchor + 4; j < len(s.lines) && len(found) < 2; j++ {
		if l, _ := s.line(j); isDate(l) {
			found = append(found, j)
		}
	}
	if len(found) < 2 {
		return stateSeekClosingBalance
	}

	s.meta.StatementDate, _ = s.line(found[0])
	s.meta.PaymentDueDate, _ = s.line(found[1])
	s.dueDate = found[1]
	return stateReadMinPayment
}

func (s *metadataScan) readMinPayment() scanState {
	if l, ok := s.line(s.dueDate + 1); ok && isAmount(l) {
		s.meta.MinimumPaymentDue = stripThousands(l)
	}
	return stateSeekClosingBalance
}

func (s *metadataScan) seekClosingBalance() scanState {
	for k := range s.lines {
		if l, _ := s.line(k); l == closingBalanceAnchor {
			s.closing = k
			return stateReadSummary
		}
	}
	return stateDone
}

func (s *metadataScan) readSummary() scanState {
	summary := []*string{
		&s.meta.PreviousBalance,
		&s.meta.PurchaseOrCashAdvance,
		&s.meta.InterestOrCharges,
		&s.meta.PaymentsOrCredits,
		&s.meta.CurrentBalance,
	}
	for n, dst := range summary {
		if l, ok := s.line(s.closing + 1 + n); ok {
			*dst = stripThousands(l)
		}
	}
	return stateDone
}
