// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"github.com/mmynk/ledgerbook/internal/models"
)

// TransactionFilter selects transactions of one book.
// Zero-valued optional fields do not filter.
type TransactionFilter struct {
	BookID string

	// Type restricts results to one transaction type when non-empty.
	Type models.TransactionType

	// From and To bound TransactionDate, both inclusive.
	From time.Time
	To   time.Time
}

// Store defines the record store used by the access and ledger engines.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the engines or the service layer.
//
// Missing rows are reported with errs.ErrNotFound; every other failure
// matches errs.ErrStore.
type Store interface {
	// CreateBook persists a new book together with the owner's admin
	// membership, atomically. The book.ID and CreatedAt fields are populated.
	CreateBook(ctx context.Context, book *models.AccountBook) error

	// GetBook retrieves a book by its ID.
	GetBook(ctx context.Context, bookID string) (*models.AccountBook, error)

	// UpdateBook changes the name and description of an existing book.
	UpdateBook(ctx context.Context, book *models.AccountBook) error

	// DeleteBook removes a book with its memberships and transactions.
	DeleteBook(ctx context.Context, bookID string) error

	// ListOwnedBooks returns the books owned by userID, newest first.
	ListOwnedBooks(ctx context.Context, userID string) ([]*models.AccountBook, error)

	// ListMemberBooks returns userID's membership rows joined with their books, newest first.
	ListMemberBooks(ctx context.Context, userID string) ([]*models.MemberBook, error)

	// GetMembership retrieves the membership row for (bookID, userID).
	GetMembership(ctx context.Context, bookID, userID string) (*models.Membership, error)

	// ListMembers returns the stored membership rows of a book, oldest first.
	ListMembers(ctx context.Context, bookID string) ([]*models.Membership, error)

	// AddMember inserts or replaces a membership row.
	AddMember(ctx context.Context, m *models.Membership) error

	// RemoveMember deletes a membership row.
	RemoveMember(ctx context.Context, bookID, userID string) error

	// CreateTransaction persists a new transaction. ID and CreatedAt are populated.
	CreateTransaction(ctx context.Context, t *models.Transaction) error

	// GetTransaction retrieves a transaction by its ID.
	GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error)

	// UpdateTransaction overwrites the mutable fields of an existing transaction.
	UpdateTransaction(ctx context.Context, t *models.Transaction) error

	// DeleteTransaction removes a transaction by ID.
	DeleteTransaction(ctx context.Context, transactionID string) error

	// ListTransactions returns the matching transactions ordered by creation time, newest first.
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]*models.Transaction, error)

	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs returns the users that exist among ids, keyed by ID.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
