package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/ledgerbook/internal/errs"
	"github.com/mmynk/ledgerbook/internal/models"
	"github.com/mmynk/ledgerbook/internal/storage"
)

const transactionColumns = `id, book_id, payer_id, amount, type, category, transaction_date, description, notes, created_at`

// CreateTransaction persists a new transaction to the database.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().UnixMicro()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.BookID, t.PayerID, t.Amount.String(), t.Type, t.Category,
		t.TransactionDate.Format(models.DateLayout), t.Description, t.Notes, t.CreatedAt,
	)
	if err != nil {
		return errs.Store("insert transaction", err)
	}
	return nil
}

// GetTransaction retrieves a transaction by ID.
func (s *SQLiteStore) GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`,
		transactionID,
	)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("transaction", transactionID)
	}
	if err != nil {
		return nil, errs.Store("get transaction", err)
	}
	return t, nil
}

// UpdateTransaction overwrites the mutable fields of a transaction.
// book_id and payer_id are never rewritten.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions
		 SET amount = ?, type = ?, category = ?, transaction_date = ?, description = ?, notes = ?
		 WHERE id = ?`,
		t.Amount.String(), t.Type, t.Category, t.TransactionDate.Format(models.DateLayout),
		t.Description, t.Notes, t.ID,
	)
	if err != nil {
		return errs.Store("update transaction", err)
	}
	return requireAffected(res, "transaction", t.ID)
}

// DeleteTransaction removes a transaction by ID.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, transactionID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", transactionID)
	if err != nil {
		return errs.Store("delete transaction", err)
	}
	return requireAffected(res, "transaction", transactionID)
}

// ListTransactions retrieves the transactions matching filter, newest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context, filter storage.TransactionFilter) ([]*models.Transaction, error) {
	where := []string{"book_id = ?"}
	args := []any{filter.BookID}
	if filter.Type != "" {
		where = append(where, "type = ?")
		args = append(args, filter.Type)
	}
	// ISO dates compare correctly as text.
	if !filter.From.IsZero() {
		where = append(where, "transaction_date >= ?")
		args = append(args, filter.From.Format(models.DateLayout))
	}
	if !filter.To.IsZero() {
		where = append(where, "transaction_date <= ?")
		args = append(args, filter.To.Format(models.DateLayout))
	}

	query := fmt.Sprintf(
		`SELECT %s FROM transactions WHERE %s ORDER BY created_at DESC, rowid DESC`,
		transactionColumns, strings.Join(where, " AND "),
	)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.Store("list transactions", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, errs.Store("scan transaction", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store("iterate transactions", err)
	}
	return transactions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	t := &models.Transaction{}
	var date string
	if err := row.Scan(&t.ID, &t.BookID, &t.PayerID, &t.Amount, &t.Type, &t.Category,
		&date, &t.Description, &t.Notes, &t.CreatedAt); err != nil {
		return nil, err
	}
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("parse transaction_date %q: %w", date, err)
	}
	t.TransactionDate = d
	return t, nil
}
