package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money going out from money coming in.
type TransactionType string

const (
	TypeExpense TransactionType = "expense"
	TypeIncome  TransactionType = "income"
)

// DateLayout is the wire and storage format of TransactionDate.
const DateLayout = "2006-01-02"

// Transaction is one ledger line recorded against a book.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// BookID is the book this transaction belongs to.
	BookID string

	// PayerID is the user who paid. Set from the caller on creation.
	PayerID string

	// Amount is a non-negative, currency-agnostic value.
	Amount decimal.Decimal

	Type     TransactionType
	Category string

	// TransactionDate is the business date of the transaction (UTC midnight).
	// Listing order uses CreatedAt, not this field.
	TransactionDate time.Time

	Description string
	Notes       string

	// CreatedAt is the Unix timestamp (microseconds) when the row was inserted.
	CreatedAt int64
}

// TransactionInput holds client-supplied fields for a new transaction.
// There is no payer field: the payer is always the caller.
type TransactionInput struct {
	Amount          decimal.Decimal `validate:"gte=0"`
	Type            TransactionType `validate:"required,oneof=expense income"`
	Category        string          `validate:"max=64"`
	TransactionDate time.Time       `validate:"required"`
	Description     string          `validate:"max=255"`
	Notes           string          `validate:"max=1000"`
}

// TransactionPatch carries the fields to change on an existing transaction.
// Nil fields are left untouched. BookID and PayerID cannot be changed.
type TransactionPatch struct {
	Amount          *decimal.Decimal
	Type            *TransactionType
	Category        *string
	TransactionDate *time.Time
	Description     *string
	Notes           *string
}

// Apply returns the input that results from applying p to t.
func (p TransactionPatch) Apply(t *Transaction) TransactionInput {
	in := TransactionInput{
		Amount:          t.Amount,
		Type:            t.Type,
		Category:        t.Category,
		TransactionDate: t.TransactionDate,
		Description:     t.Description,
		Notes:           t.Notes,
	}
	if p.Amount != nil {
		in.Amount = *p.Amount
	}
	if p.Type != nil {
		in.Type = *p.Type
	}
	if p.Category != nil {
		in.Category = *p.Category
	}
	if p.TransactionDate != nil {
		in.TransactionDate = *p.TransactionDate
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Notes != nil {
		in.Notes = *p.Notes
	}
	return in
}

// LedgerResult is returned by every ledger mutation: the affected row (nil for
// deletes) and the book's transaction list read back after the write.
type LedgerResult struct {
	Transaction  *Transaction
	Transactions []*Transaction
}
