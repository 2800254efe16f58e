// Package postgres provides a PostgreSQL-backed implementation of the storage.Store interface.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmynk/ledgerbook/internal/errs"
	"github.com/mmynk/ledgerbook/internal/models"
	"github.com/mmynk/ledgerbook/internal/storage"
)

var _ storage.Store = (*PostgresStore)(nil)

// PostgresStore implements storage.Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// New connects to databaseURL, verifies the connection and runs migrations.
func New(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if err := runMigrations(databaseURL); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// CreateBook inserts the book and the owner's admin membership in one transaction.
func (s *PostgresStore) CreateBook(ctx context.Context, book *models.AccountBook) error {
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	if book.CreatedAt == 0 {
		book.CreatedAt = time.Now().UnixMicro()
	}

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO account_books (id, name, description, is_personal, owner_id, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			book.ID, book.Name, book.Description, book.IsPersonal, book.OwnerID, book.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert book: %w", err)
		}
		if _, err := tx.Exec(ctx,
			"INSERT INTO book_members (book_id, user_id, role, created_at) VALUES ($1, $2, $3, $4)",
			book.ID, book.OwnerID, string(models.RoleAdmin), book.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert owner membership: %w", err)
		}
		return nil
	})
	return errs.Store("create book", err)
}

// GetBook retrieves a book by ID.
func (s *PostgresStore) GetBook(ctx context.Context, bookID string) (*models.AccountBook, error) {
	book := &models.AccountBook{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, description, is_personal, owner_id, created_at
		 FROM account_books WHERE id = $1`,
		bookID,
	).Scan(&book.ID, &book.Name, &book.Description, &book.IsPersonal, &book.OwnerID, &book.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NotFound("book", bookID)
	}
	if err != nil {
		return nil, errs.Store("get book", err)
	}
	return book, nil
}

// UpdateBook changes name and description only.
func (s *PostgresStore) UpdateBook(ctx context.Context, book *models.AccountBook) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE account_books SET name = $1, description = $2 WHERE id = $3",
		book.Name, book.Description, book.ID,
	)
	if err != nil {
		return errs.Store("update book", err)
	}
	return requireAffected(tag, "book", book.ID)
}

// DeleteBook removes a book. Memberships and transactions cascade.
func (s *PostgresStore) DeleteBook(ctx context.Context, bookID string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM account_books WHERE id = $1", bookID)
	if err != nil {
		return errs.Store("delete book", err)
	}
	return requireAffected(tag, "book", bookID)
}

// ListOwnedBooks returns the books owned by userID.
func (s *PostgresStore) ListOwnedBooks(ctx context.Context, userID string) ([]*models.AccountBook, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, description, is_personal, owner_id, created_at
		 FROM account_books WHERE owner_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, errs.Store("list owned books", err)
	}
	defer rows.Close()

	var books []*models.AccountBook
	for rows.Next() {
		book := &models.AccountBook{}
		if err := rows.Scan(&book.ID, &book.Name, &book.Description, &book.IsPersonal, &book.OwnerID, &book.CreatedAt); err != nil {
			return nil, errs.Store("scan owned book", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store("iterate owned books", err)
	}
	return books, nil
}

// ListMemberBooks returns userID's membership rows joined with their books.
func (s *PostgresStore) ListMemberBooks(ctx context.Context, userID string) ([]*models.MemberBook, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT b.id, b.name, b.description, b.is_personal, b.owner_id, b.created_at, m.role
		 FROM book_members m
		 JOIN account_books b ON b.id = m.book_id
		 WHERE m.user_id = $1
		 ORDER BY b.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, errs.Store("list member books", err)
	}
	defer rows.Close()

	var result []*models.MemberBook
	for rows.Next() {
		mb := &models.MemberBook{}
		b := &mb.Book
		var role string
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.IsPersonal, &b.OwnerID, &b.CreatedAt, &role); err != nil {
			return nil, errs.Store("scan member book", err)
		}
		mb.Role = models.Role(role)
		result = append(result, mb)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store("iterate member books", err)
	}
	return result, nil
}

// GetMembership retrieves the membership row for (bookID, userID).
func (s *PostgresStore) GetMembership(ctx context.Context, bookID, userID string) (*models.Membership, error) {
	m := &models.Membership{}
	var role string
	err := s.pool.QueryRow(ctx,
		"SELECT book_id, user_id, role, created_at FROM book_members WHERE book_id = $1 AND user_id = $2",
		bookID, userID,
	).Scan(&m.BookID, &m.UserID, &role, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NotFound("membership", bookID+"/"+userID)
	}
	if err != nil {
		return nil, errs.Store("get membership", err)
	}
	m.Role = models.Role(role)
	return m, nil
}

// ListMembers returns all membership rows of a book.
func (s *PostgresStore) ListMembers(ctx context.Context, bookID string) ([]*models.Membership, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT book_id, user_id, role, created_at FROM book_members WHERE book_id = $1 ORDER BY created_at, user_id",
		bookID,
	)
	if err != nil {
		return nil, errs.Store("list members", err)
	}
	defer rows.Close()

	var members []*models.Membership
	for rows.Next() {
		m := &models.Membership{}
		var role string
		if err := rows.Scan(&m.BookID, &m.UserID, &role, &m.CreatedAt); err != nil {
			return nil, errs.Store("scan member", err)
		}
		m.Role = models.Role(role)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store("iterate members", err)
	}
	return members, nil
}

// AddMember inserts a membership row, replacing the role if the row exists.
func (s *PostgresStore) AddMember(ctx context.Context, m *models.Membership) error {
	if m.CreatedAt == 0 {
		m.CreatedAt = time.Now().UnixMicro()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO book_members (book_id, user_id, role, created_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (book_id, user_id) DO UPDATE SET role = EXCLUDED.role`,
		m.BookID, m.UserID, string(m.Role), m.CreatedAt,
	)
	if err != nil {
		return errs.Store("add member", err)
	}
	return nil
}

// RemoveMember deletes a membership row.
func (s *PostgresStore) RemoveMember(ctx context.Context, bookID, userID string) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM book_members WHERE book_id = $1 AND user_id = $2",
		bookID, userID,
	)
	if err != nil {
		return errs.Store("remove member", err)
	}
	return requireAffected(tag, "membership", bookID+"/"+userID)
}

func requireAffected(tag pgconn.CommandTag, entity, id string) error {
	if tag.RowsAffected() == 0 {
		return errs.NotFound(entity, id)
	}
	return nil
}
