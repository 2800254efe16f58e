package models

import "github.com/shopspring/decimal"

// MemberTotal is one payer's summed expenses within a period.
type MemberTotal struct {
	UserID      string
	DisplayName string
	Email       string
	Total       decimal.Decimal
}

// Transfer is a payment that moves one payer closer to the fair share.
type Transfer struct {
	FromUserID string
	ToUserID   string
	Amount     decimal.Decimal
}

// MonthlySummary aggregates a book's expenses for one calendar month.
type MonthlySummary struct {
	BookID string
	Year   int
	Month  int

	// Total is the exact sum of all matching expense amounts.
	Total decimal.Decimal

	// MemberTotals has one entry per payer with at least one matching expense.
	MemberTotals []MemberTotal

	// Average is Total divided by the number of payers, rounded to cents.
	// It is invalid (JSON null) when no expenses matched.
	Average decimal.NullDecimal

	// Transfers settle every payer to Average. Because Average is rounded to
	// cents, up to a cent per payer can remain unsettled.
	Transfers []Transfer
}
