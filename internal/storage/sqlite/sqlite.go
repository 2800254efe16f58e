// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/ledgerbook/internal/errs"
	"github.com/mmynk/ledgerbook/internal/models"
	"github.com/mmynk/ledgerbook/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas in the DSN apply to every pooled connection.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	if err := runMigrations(dsn); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateBook inserts the book and the owner's admin membership in one transaction,
// so a failure never leaves a book without an admin row.
func (s *SQLiteStore) CreateBook(ctx context.Context, book *models.AccountBook) error {
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	if book.CreatedAt == 0 {
		book.CreatedAt = time.Now().UnixMicro()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.Store("begin create book", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO account_books (id, name, description, is_personal, owner_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		book.ID, book.Name, book.Description, book.IsPersonal, book.OwnerID, book.CreatedAt,
	)
	if err != nil {
		return errs.Store("insert book", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO book_members (book_id, user_id, role, created_at) VALUES (?, ?, ?, ?)",
		book.ID, book.OwnerID, models.RoleAdmin, book.CreatedAt,
	)
	if err != nil {
		return errs.Store("insert owner membership", err)
	}

	if err := tx.Commit(); err != nil {
		return errs.Store("commit create book", err)
	}
	return nil
}

// GetBook retrieves a book by ID.
func (s *SQLiteStore) GetBook(ctx context.Context, bookID string) (*models.AccountBook, error) {
	book := &models.AccountBook{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, is_personal, owner_id, created_at
		 FROM account_books WHERE id = ?`,
		bookID,
	).Scan(&book.ID, &book.Name, &book.Description, &book.IsPersonal, &book.OwnerID, &book.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("book", bookID)
	}
	if err != nil {
		return nil, errs.Store("get book", err)
	}
	return book, nil
}

// UpdateBook changes name and description only.
func (s *SQLiteStore) UpdateBook(ctx context.Context, book *models.AccountBook) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE account_books SET name = ?, description = ? WHERE id = ?",
		book.Name, book.Description, book.ID,
	)
	if err != nil {
		return errs.Store("update book", err)
	}
	return requireAffected(res, "book", book.ID)
}

// DeleteBook removes a book. Memberships and transactions cascade.
func (s *SQLiteStore) DeleteBook(ctx context.Context, bookID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM account_books WHERE id = ?", bookID)
	if err != nil {
		return errs.Store("delete book", err)
	}
	return requireAffected(res, "book", bookID)
}

// ListOwnedBooks returns the books owned by userID.
func (s *SQLiteStore) ListOwnedBooks(ctx context.Context, userID string) ([]*models.AccountBook, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, is_personal, owner_id, created_at
		 FROM account_books WHERE owner_id = ? ORDER BY created_at DESC`,
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
func (s *SQLiteStore) ListMemberBooks(ctx context.Context, userID string) ([]*models.MemberBook, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT b.id, b.name, b.description, b.is_personal, b.owner_id, b.created_at, m.role
		 FROM book_members m
		 JOIN account_books b ON b.id = m.book_id
		 WHERE m.user_id = ?
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
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.IsPersonal, &b.OwnerID, &b.CreatedAt, &mb.Role); err != nil {
			return nil, errs.Store("scan member book", err)
		}
		result = append(result, mb)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store("iterate member books", err)
	}
	return result, nil
}

// GetMembership retrieves the membership row for (bookID, userID).
func (s *SQLiteStore) GetMembership(ctx context.Context, bookID, userID string) (*models.Membership, error) {
	m := &models.Membership{}
	err := s.db.QueryRowContext(ctx,
		"SELECT book_id, user_id, role, created_at FROM book_members WHERE book_id = ? AND user_id = ?",
		bookID, userID,
	).Scan(&m.BookID, &m.UserID, &m.Role, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("membership", bookID+"/"+userID)
	}
	if err != nil {
		return nil, errs.Store("get membership", err)
	}
	return m, nil
}

// ListMembers returns all membership rows of a book.
func (s *SQLiteStore) ListMembers(ctx context.Context, bookID string) ([]*models.Membership, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT book_id, user_id, role, created_at FROM book_members WHERE book_id = ? ORDER BY created_at, user_id",
		bookID,
	)
	if err != nil {
		return nil, errs.Store("list members", err)
	}
	defer rows.Close()

	var members []*models.Membership
	for rows.Next() {
		m := &models.Membership{}
		if err := rows.Scan(&m.BookID, &m.UserID, &m.Role, &m.CreatedAt); err != nil {
			return nil, errs.Store("scan member", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store("iterate members", err)
	}
	return members, nil
}

// AddMember inserts a membership row, replacing the role if the row exists.
func (s *SQLiteStore) AddMember(ctx context.Context, m *models.Membership) error {
	if m.CreatedAt == 0 {
		m.CreatedAt = time.Now().UnixMicro()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO book_members (book_id, user_id, role, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (book_id, user_id) DO UPDATE SET role = excluded.role`,
		m.BookID, m.UserID, m.Role, m.CreatedAt,
	)
	if err != nil {
		return errs.Store("add member", err)
	}
	return nil
}

// RemoveMember deletes a membership row.
func (s *SQLiteStore) RemoveMember(ctx context.Context, bookID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM book_members WHERE book_id = ? AND user_id = ?",
		bookID, userID,
	)
	if err != nil {
		return errs.Store("remove member", err)
	}
	return requireAffected(res, "membership", bookID+"/"+userID)
}

// requireAffected turns a zero-row write into a not-found error.
func requireAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errs.Store("rows affected", err)
	}
	if n == 0 {
		return errs.NotFound(entity, id)
	}
	return nil
}
