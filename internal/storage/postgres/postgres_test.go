package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/ledgerbook/internal/errs"
	"github.com/mmynk/ledgerbook/internal/models"
	"github.com/mmynk/ledgerbook/internal/storage"
)

// newTestStore connects to LEDGERBOOK_TEST_DATABASE_URL or skips.
func newTestStore(t *testing.T) *PostgresStore {
	t.Helper()

	url := os.Getenv("LEDGERBOOK_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("LEDGERBOOK_TEST_DATABASE_URL not set")
	}
	store, err := New(context.Background(), url)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestMigrateURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgres://u:p@localhost/db", "pgx5://u:p@localhost/db"},
		{"postgresql://localhost/db?sslmode=disable", "pgx5://localhost/db?sslmode=disable"},
		{"pgx5://localhost/db", "pgx5://localhost/db"},
	}
	for _, tt := range tests {
		if got := migrateURL(tt.in); got != tt.want {
			t.Errorf("migrateURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPostgresStore_BookLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := models.NewUser("pg-owner-"+time.Now().Format("150405.000000")+"@example.com", "Owner", "hash")
	if err := store.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	book := &models.AccountBook{Name: "PG", OwnerID: owner.ID}
	if err := store.CreateBook(ctx, book); err != nil {
		t.Fatalf("CreateBook failed: %v", err)
	}
	t.Cleanup(func() { store.DeleteBook(ctx, book.ID) })

	m, err := store.GetMembership(ctx, book.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetMembership failed: %v", err)
	}
	if m.Role != models.RoleAdmin {
		t.Errorf("owner role = %s, want admin", m.Role)
	}

	d := func(s string) time.Time {
		v, _ := time.Parse(models.DateLayout, s)
		return v
	}
	first := &models.Transaction{BookID: book.ID, PayerID: owner.ID, Amount: decimal.RequireFromString("0.10"),
		Type: models.TypeExpense, TransactionDate: d("2024-03-01")}
	second := &models.Transaction{BookID: book.ID, PayerID: owner.ID, Amount: decimal.RequireFromString("0.20"),
		Type: models.TypeExpense, TransactionDate: d("2024-03-31")}
	for _, tx := range []*models.Transaction{first, second} {
		if err := store.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
	}

	got, err := store.ListTransactions(ctx, storage.TransactionFilter{
		BookID: book.ID, Type: models.TypeExpense, From: d("2024-03-01"), To: d("2024-03-31"),
	})
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != second.ID {
		t.Fatalf("expected newest first, got %+v", got)
	}
	if sum := got[0].Amount.Add(got[1].Amount); !sum.Equal(decimal.RequireFromString("0.30")) {
		t.Errorf("sum = %s, want 0.30", sum)
	}

	if err := store.DeleteTransaction(ctx, first.ID); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}
	if _, err := store.GetTransaction(ctx, first.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
