package models

// StatementMetadata holds the statement-level fields read from the summary
// block that follows the card number. An empty string means the field could
// not be located.
type StatementMetadata struct {
	CardNumber            string `json:"cardNumber,omitempty"`
	StatementPeriod       string `json:"statementPeriod,omitempty"`
	StatementStartDate    string `json:"statementStartDate,omitempty"`
	StatementEndDate      string `json:"statementEndDate,omitempty"`
	CreditLimit           string `json:"creditLimit,omitempty"`
	AvailableCreditLimit  string `json:"availableCreditLimit,omitempty"`
	StatementDate         string `json:"statementDate,omitempty"`
	PaymentDueDate        string `json:"paymentDueDate,omitempty"`
	MinimumPaymentDue     string `json:"minimumPaymentDue,omitempty"`
	PreviousBalance       string `json:"previousBalance,omitempty"`
	PurchaseOrCashAdvance string `json:"purchaseOrCashAdvance,omitempty"`
	InterestOrCharges     string `json:"interestOrCharges,omitempty"`
	PaymentsOrCredits     string `json:"paymentsOrCredits,omitempty"`
	CurrentBalance        string `json:"currentBalance,omitempty"`
	SourceFileName        string `json:"sourceFileName,omitempty"`
}

// Field is a named metadata value, in workbook column order.
type Field struct {
	Name  string
	Value string
}

// Metadata column headers, in the order they appear on the Metadata sheet.
const (
	ColCardNumber            = "Card Number"
	ColStatementPeriod       = "Statement Period"
	ColStatementStartDate    = "Statement Start Date"
	ColStatementEndDate      = "Statement End Date"
	ColCreditLimit           = "Credit Limit"
	ColAvailableCreditLimit  = "Available Credit Limit (AED)"
	ColStatementDate         = "Statement Date"
	ColPaymentDueDate        = "Payment Due Date"
	ColMinimumPaymentDue     = "Minimum Payment Due"
	ColPreviousBalance       = "Previous Statement Due"
	ColPurchaseOrCashAdvance = "Purchase / Cash Advance"
	ColInterestOrCharges     = "Interest / Other Charges"
	ColPaymentsOrCredits     = "Payments / Credits"
	ColCurrentBalance        = "Current Balance"
	ColFileName              = "File Name"
)

// Fields returns every metadata field in column order, absent ones included
// with an empty value.
func (m StatementMetadata) Fields() []Field {
	return []Field{
		{ColCardNumber, m.CardNumber},
		{ColStatementPeriod, m.StatementPeriod},
		{ColStatementStartDate, m.StatementStartDate},
		{ColStatementEndDate, m.StatementEndDate},
		{ColCreditLimit, m.CreditLimit},
		{ColAvailableCreditLimit, m.AvailableCreditLimit},
		{ColStatementDate, m.StatementDate},
		{ColPaymentDueDate, m.PaymentDueDate},
		{ColMinimumPaymentDue, m.MinimumPaymentDue},
		{ColPreviousBalance, m.PreviousBalance},
		{ColPurchaseOrCashAdvance, m.PurchaseOrCashAdvance},
		{ColInterestOrCharges, m.InterestOrCharges},
		{ColPaymentsOrCredits, m.PaymentsOrCredits},
		{ColCurrentBalance, m.CurrentBalance},
		{ColFileName, m.SourceFileName},
	}
}

// MetadataColumns returns the Metadata sheet header row.
func MetadataColumns() []string {
	fields := StatementMetadata{}.Fields()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}
	return cols
}

// IsEmpty reports whether no field extracted from the document is populated.
// SourceFileName is ignored since it is attached by the caller.
func (m StatementMetadata) IsEmpty() bool {
	m.SourceFileName = ""
	return m == StatementMetadata{}
}

// Missing lists the extracted fields that are absent, by column name.
func (m StatementMetadata) Missing() []string {
	var missing []string
	for _, f := range m.Fields() {
		if f.Name == ColFileName {
			continue
		}
		if f.Value == "" {
			missing = append(missing, f.Name)
		}
	}
	return missing
}
