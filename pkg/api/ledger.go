package api

import "github.com/shopspring/decimal"

// Transaction is one ledger line.
type Transaction struct {
	ID              string          `json:"id"`
	BookID          string          `json:"bookId"`
	PayerID         string          `json:"payerId"`
	Amount          decimal.Decimal `json:"amount"`
	Type            string          `json:"type"`
	Category        string          `json:"category,omitempty"`
	TransactionDate string          `json:"transactionDate"`
	Description     string          `json:"description,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       int64           `json:"createdAt"`
}

type ListTransactionsRequest struct {
	BookID string `json:"bookId"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

// CreateTransactionRequest has no payer: the payer is the caller.
type CreateTransactionRequest struct {
	BookID          string          `json:"bookId"`
	Amount          decimal.Decimal `json:"amount"`
	Type            string          `json:"type"`
	Category        string          `json:"category,omitempty"`
	TransactionDate string          `json:"transactionDate"`
	Description     string          `json:"description,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

type CreateTransactionResponse struct {
	Transaction  *Transaction   `json:"transaction"`
	Transactions []*Transaction `json:"transactions"`
}

// UpdateTransactionRequest changes only the fields that are present.
type UpdateTransactionRequest struct {
	TransactionID   string           `json:"transactionId"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	Type            *string          `json:"type,omitempty"`
	Category        *string          `json:"category,omitempty"`
	TransactionDate *string          `json:"transactionDate,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

type UpdateTransactionResponse struct {
	Transaction  *Transaction   `json:"transaction"`
	Transactions []*Transaction `json:"transactions"`
}

type DeleteTransactionRequest struct {
	TransactionID string `json:"transactionId"`
}

type DeleteTransactionResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

type MemberTotal struct {
	UserID      string          `json:"userId"`
	DisplayName string          `json:"displayName,omitempty"`
	Email       string          `json:"email,omitempty"`
	Total       decimal.Decimal `json:"total"`
}

type Transfer struct {
	FromUserID string          `json:"fromUserId"`
	ToUserID   string          `json:"toUserId"`
	Amount     decimal.Decimal `json:"amount"`
}

type GetMonthlySummaryRequest struct {
	BookID string `json:"bookId"`
	Year   int    `json:"year"`
	Month  int    `json:"month"`
}

// GetMonthlySummaryResponse.Average is null when the month has no expenses.
type GetMonthlySummaryResponse struct {
	BookID       string              `json:"bookId"`
	Year         int                 `json:"year"`
	Month        int                 `json:"month"`
	Total        decimal.Decimal     `json:"total"`
	MemberTotals []*MemberTotal      `json:"memberTotals"`
	Average      decimal.NullDecimal `json:"average"`
	Transfers    []*Transfer         `json:"transfers"`
}
