package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mmynk/ledgerbook/internal/errs"
	"github.com/mmynk/ledgerbook/internal/models"
	"github.com/mmynk/ledgerbook/internal/storage"
)

// amount is read as text so no precision is lost on the way to decimal.Decimal.
const transactionColumns = `id, book_id, payer_id, amount::text, type, category, transaction_date, description, notes, created_at`

// CreateTransaction persists a new transaction.
func (s *PostgresStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().UnixMicro()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO transactions
		 (id, book_id, payer_id, amount, type, category, transaction_date, description, notes, created_at)
		 VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.BookID, t.PayerID, t.Amount.String(), string(t.Type), t.Category,
		t.TransactionDate, t.Description, t.Notes, t.CreatedAt,
	)
	if err != nil {
		return errs.Store("insert transaction", err)
	}
	return nil
}

// GetTransaction retrieves a transaction by ID.
func (s *PostgresStore) GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, transactionID)
	t, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NotFound("transaction", transactionID)
	}
	if err != nil {
		return nil, errs.Store("get transaction", err)
	}
	return t, nil
}

// UpdateTransaction overwrites the mutable fields of a transaction.
func (s *PostgresStore) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE transactions
		 SET amount = $1::numeric, type = $2, category = $3, transaction_date = $4, description = $5, notes = $6
		 WHERE id = $7`,
		t.Amount.String(), string(t.Type), t.Category, t.TransactionDate, t.Description, t.Notes, t.ID,
	)
	if err != nil {
		return errs.Store("update transaction", err)
	}
	return requireAffected(tag, "transaction", t.ID)
}

// DeleteTransaction removes a transaction by ID.
func (s *PostgresStore) DeleteTransaction(ctx context.Context, transactionID string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM transactions WHERE id = $1", transactionID)
	if err != nil {
		return errs.Store("delete transaction", err)
	}
	return requireAffected(tag, "transaction", transactionID)
}

// ListTransactions retrieves the transactions matching filter, newest first.
func (s *PostgresStore) ListTransactions(ctx context.Context, filter storage.TransactionFilter) ([]*models.Transaction, error) {
	where := []string{"book_id = $1"}
	args := []any{filter.BookID}
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if filter.Type != "" {
		add("type = $%d", string(filter.Type))
	}
	if !filter.From.IsZero() {
		add("transaction_date >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("transaction_date <= $%d", filter.To)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM transactions WHERE %s ORDER BY created_at DESC, seq DESC`,
		transactionColumns, strings.Join(where, " AND "),
	)
	rows, err := s.pool.Query(ctx, query, args...)
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

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	t := &models.Transaction{}
	var amount, typ string
	if err := row.Scan(&t.ID, &t.BookID, &t.PayerID, &amount, &typ, &t.Category,
		&t.TransactionDate, &t.Description, &t.Notes, &t.CreatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	t.Amount = d
	t.Type = models.TransactionType(typ)
	return t, nil
}
