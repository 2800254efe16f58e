// Package ledger records transactions against books and summarizes them.
package ledger

import (
	"context"
	"log/slog"

	"github.com/mmynk/ledgerbook/internal/access"
	"github.com/mmynk/ledgerbook/internal/errs"
	"github.com/mmynk/ledgerbook/internal/metrics"
	"github.com/mmynk/ledgerbook/internal/models"
	"github.com/mmynk/ledgerbook/internal/storage"
	"github.com/mmynk/ledgerbook/internal/validate"
)

// Engine is the transaction ledger. Every call is authorized against the
// explicit caller before anything is read or written.
type Engine struct {
	store    storage.Store
	authz    *access.Authorizer
	validate *validate.Validator
	metrics  *metrics.Metrics
}

// NewEngine creates an Engine. m may be nil.
func NewEngine(store storage.Store, authz *access.Authorizer, v *validate.Validator, m *metrics.Metrics) *Engine {
	return &Engine{store: store, authz: authz, validate: v, metrics: m}
}

// List returns the transactions of bookID, newest first.
func (e *Engine) List(ctx context.Context, caller models.Caller, bookID string) ([]*models.Transaction, error) {
	if err := e.authz.RequireView(ctx, caller, bookID); err != nil {
		return nil, err
	}
	return e.store.ListTransactions(ctx, storage.TransactionFilter{BookID: bookID})
}

// Create records a transaction paid by caller and returns it with the
// book's transaction list read back after the insert.
func (e *Engine) Create(ctx context.Context, caller models.Caller, bookID string, in models.TransactionInput) (*models.LedgerResult, error) {
	if err := e.authz.RequireView(ctx, caller, bookID); err != nil {
		return nil, err
	}
	if err := e.validate.Struct(in); err != nil {
		return nil, err
	}

	t := &models.Transaction{BookID: bookID, PayerID: caller.UserID}
	apply(t, in)
	if err := e.store.CreateTransaction(ctx, t); err != nil {
		return nil, err
	}
	e.metrics.LedgerMutation("create")
	slog.Info("Transaction created", "transaction_id", t.ID, "book_id", bookID, "payer_id", t.PayerID)

	return e.readBack(ctx, t)
}

// Update changes a transaction. Only its payer or a manager of its book may do so.
func (e *Engine) Update(ctx context.Context, caller models.Caller, transactionID string, patch models.TransactionPatch) (*models.LedgerResult, error) {
	t, err := e.authorizeWrite(ctx, caller, transactionID)
	if err != nil {
		return nil, err
	}

	in := patch.Apply(t)
	if err := e.validate.Struct(in); err != nil {
		return nil, err
	}
	apply(t, in)
	if err := e.store.UpdateTransaction(ctx, t); err != nil {
		return nil, err
	}
	e.metrics.LedgerMutation("update")
	slog.Info("Transaction updated", "transaction_id", t.ID, "book_id", t.BookID, "user_id", caller.UserID)

	return e.readBack(ctx, t)
}

// Delete removes a transaction under the same rule as Update. The result
// carries no transaction, only the book's remaining list.
func (e *Engine) Delete(ctx context.Context, caller models.Caller, transactionID string) (*models.LedgerResult, error) {
	t, err := e.authorizeWrite(ctx, caller, transactionID)
	if err != nil {
		return nil, err
	}
	if err := e.store.DeleteTransaction(ctx, t.ID); err != nil {
		return nil, err
	}
	e.metrics.LedgerMutation("delete")
	slog.Info("Transaction deleted", "transaction_id", t.ID, "book_id", t.BookID, "user_id", caller.UserID)

	list, err := e.store.ListTransactions(ctx, storage.TransactionFilter{BookID: t.BookID})
	if err != nil {
		return nil, err
	}
	return &models.LedgerResult{Transactions: list}, nil
}

// authorizeWrite loads a transaction and checks that caller paid it or can manage its book.
// The payer keeps the right to change their own rows after leaving the book.
func (e *Engine) authorizeWrite(ctx context.Context, caller models.Caller, transactionID string) (*models.Transaction, error) {
	if !caller.Authenticated() {
		return nil, errs.ErrUnauthenticated
	}
	t, err := e.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if t.PayerID == caller.UserID || e.authz.CanManage(ctx, caller, t.BookID) {
		return t, nil
	}
	e.metrics.Denied("transaction")
	return nil, errs.Forbidden("user %s cannot change transaction %s", caller.UserID, transactionID)
}

func (e *Engine) readBack(ctx context.Context, t *models.Transaction) (*models.LedgerResult, error) {
	list, err := e.store.ListTransactions(ctx, storage.TransactionFilter{BookID: t.BookID})
	if err != nil {
		return nil, err
	}
	return &models.LedgerResult{Transaction: t, Transactions: list}, nil
}

func apply(t *models.Transaction, in models.TransactionInput) {
	t.Amount = in.Amount
	t.Type = in.Type
	t.Category = in.Category
	t.TransactionDate = in.TransactionDate
	t.Description = in.Description
	t.Notes = in.Notes
}
