package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/ledgerbook/internal/access"
	"github.com/mmynk/ledgerbook/internal/errs"
	"github.com/mmynk/ledgerbook/internal/models"
	"github.com/mmynk/ledgerbook/internal/storage/sqlite"
	"github.com/mmynk/ledgerbook/internal/validate"
)

type fixture struct {
	engine *Engine
	authz  *access.Authorizer
	store  *sqlite.SQLiteStore
	ctx    context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	v := validate.New()
	authz := access.NewAuthorizer(store, v, nil, access.CacheConfig{Size: 16, TTL: time.Minute})
	return &fixture{
		engine: NewEngine(store, authz, v, nil),
		authz:  authz,
		store:  store,
		ctx:    context.Background(),
	}
}

func (f *fixture) user(t *testing.T, name string) models.Caller {
	t.Helper()
	u := models.NewUser(name+"@example.com", name, "hash")
	if err := f.store.CreateUser(f.ctx, u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return models.Caller{UserID: u.ID}
}

// sharedBook creates a book owned by owner with the given members.
func (f *fixture) sharedBook(t *testing.T, owner models.Caller, members map[models.Caller]models.Role) string {
	t.Helper()
	book, err := f.authz.CreateBook(f.ctx, owner, models.BookInput{Name: "Shared"})
	if err != nil {
		t.Fatalf("CreateBook failed: %v", err)
	}
	for c, role := range members {
		if _, err := f.authz.AddMember(f.ctx, owner, book.ID, models.MemberRef{UserID: c.UserID}, role); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
	}
	return book.ID
}

func day(s string) time.Time {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func expenseInput(amount, date string) models.TransactionInput {
	return models.TransactionInput{
		Amount:          decimal.RequireFromString(amount),
		Type:            models.TypeExpense,
		Category:        "groceries",
		TransactionDate: day(date),
	}
}

func TestEngine_Create(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	member := f.user(t, "member")
	stranger := f.user(t, "stranger")
	bookID := f.sharedBook(t, owner, map[models.Caller]models.Role{member: models.RoleMember})

	t.Run("payer is the caller and the list is read back", func(t *testing.T) {
		res, err := f.engine.Create(f.ctx, member, bookID, expenseInput("12.34", "2024-03-02"))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if res.Transaction.PayerID != member.UserID {
			t.Errorf("payer = %s, want %s", res.Transaction.PayerID, member.UserID)
		}
		if len(res.Transactions) != 1 || res.Transactions[0].ID != res.Transaction.ID {
			t.Errorf("read-back list does not contain the new row: %+v", res.Transactions)
		}
	})

	t.Run("newest first", func(t *testing.T) {
		res, err := f.engine.Create(f.ctx, owner, bookID, expenseInput("1", "2020-01-01"))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if res.Transactions[0].ID != res.Transaction.ID {
			t.Error("latest insert should lead the list regardless of transaction date")
		}
	})

	tests := []struct {
		name    string
		caller  models.Caller
		input   models.TransactionInput
		wantErr error
	}{
		{"negative amount", member, expenseInput("-5", "2024-03-02"), errs.ErrValidation},
		{"negative amount below float precision", member, models.TransactionInput{
			Amount:          decimal.New(-1, -400),
			Type:            models.TypeExpense,
			TransactionDate: day("2024-03-02"),
		}, errs.ErrValidation},
		{"stranger", stranger, expenseInput("5", "2024-03-02"), errs.ErrForbidden},
		{"anonymous", models.Caller{}, expenseInput("5", "2024-03-02"), errs.ErrUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.Create(f.ctx, tt.caller, bookID, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Create error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	list, err := f.engine.List(f.ctx, owner, bookID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("rejected creates must not write: got %d rows", len(list))
	}
}

func TestEngine_UpdateDelete(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	admin := f.user(t, "admin")
	payer := f.user(t, "payer")
	other := f.user(t, "other")
	bookID := f.sharedBook(t, owner, map[models.Caller]models.Role{
		admin: models.RoleAdmin,
		payer: models.RoleMember,
		other: models.RoleMember,
	})

	created, err := f.engine.Create(f.ctx, payer, bookID, expenseInput("10", "2024-03-02"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	txID := created.Transaction.ID

	t.Run("other member is forbidden and nothing changes", func(t *testing.T) {
		amount := decimal.NewFromInt(99)
		_, err := f.engine.Update(f.ctx, other, txID, models.TransactionPatch{Amount: &amount})
		if !errors.Is(err, errs.ErrForbidden) {
			t.Fatalf("Update error = %v, want ErrForbidden", err)
		}
		if _, err := f.engine.Delete(f.ctx, other, txID); !errors.Is(err, errs.ErrForbidden) {
			t.Fatalf("Delete error = %v, want ErrForbidden", err)
		}
		got, err := f.store.GetTransaction(f.ctx, txID)
		if err != nil {
			t.Fatalf("GetTransaction failed: %v", err)
		}
		if !got.Amount.Equal(decimal.NewFromInt(10)) {
			t.Errorf("amount changed to %s", got.Amount)
		}
	})

	t.Run("payer updates own row", func(t *testing.T) {
		note := "split with flatmates"
		res, err := f.engine.Update(f.ctx, payer, txID, models.TransactionPatch{Notes: &note})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if res.Transaction.Notes != note || !res.Transaction.Amount.Equal(decimal.NewFromInt(10)) {
			t.Errorf("unexpected row: %+v", res.Transaction)
		}
		if res.Transactions[0].Notes != note {
			t.Error("read-back list should reflect the update")
		}
	})

	t.Run("admin updates any row but payer is kept", func(t *testing.T) {
		amount := decimal.RequireFromString("11.50")
		res, err := f.engine.Update(f.ctx, admin, txID, models.TransactionPatch{Amount: &amount})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if res.Transaction.PayerID != payer.UserID {
			t.Errorf("payer = %s, want %s", res.Transaction.PayerID, payer.UserID)
		}
	})

	t.Run("invalid patch is rejected", func(t *testing.T) {
		amount := decimal.NewFromInt(-1)
		if _, err := f.engine.Update(f.ctx, payer, txID, models.TransactionPatch{Amount: &amount}); !errors.Is(err, errs.ErrValidation) {
			t.Errorf("Update error = %v, want ErrValidation", err)
		}
	})

	t.Run("missing transaction", func(t *testing.T) {
		if _, err := f.engine.Delete(f.ctx, owner, "missing"); !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("Delete error = %v, want ErrNotFound", err)
		}
	})

	t.Run("removed payer still edits own row", func(t *testing.T) {
		if err := f.authz.RemoveMember(f.ctx, owner, bookID, payer.UserID); err != nil {
			t.Fatalf("RemoveMember failed: %v", err)
		}
		note := "paid before leaving"
		res, err := f.engine.Update(f.ctx, payer, txID, models.TransactionPatch{Notes: &note})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if res.Transaction.Notes != note {
			t.Errorf("notes = %q, want %q", res.Transaction.Notes, note)
		}
		if _, err := f.engine.List(f.ctx, payer, bookID); !errors.Is(err, errs.ErrForbidden) {
			t.Errorf("List error = %v, want ErrForbidden", err)
		}
	})

	t.Run("owner deletes", func(t *testing.T) {
		res, err := f.engine.Delete(f.ctx, owner, txID)
		if err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if res.Transaction != nil || len(res.Transactions) != 0 {
			t.Errorf("unexpected result: %+v", res)
		}
	})
}

func TestEngine_MonthlySummary(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	stranger := f.user(t, "stranger")
	bookID := f.sharedBook(t, alice, map[models.Caller]models.Role{bob: models.RoleMember})

	seed := []struct {
		caller models.Caller
		input  models.TransactionInput
	}{
		{alice, expenseInput("30", "2024-03-01")},
		{alice, expenseInput("20", "2024-03-31")},
		{bob, expenseInput("50", "2024-03-15")},
		{bob, expenseInput("500", "2024-04-01")},
		{bob, expenseInput("7", "2024-02-29")},
		{alice, models.TransactionInput{Amount: decimal.NewFromInt(1000), Type: models.TypeIncome, TransactionDate: day("2024-03-10")}},
	}
	for _, s := range seed {
		if _, err := f.engine.Create(f.ctx, s.caller, bookID, s.input); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	t.Run("march", func(t *testing.T) {
		sum, err := f.engine.MonthlySummary(f.ctx, bob, bookID, 2024, 3)
		if err != nil {
			t.Fatalf("MonthlySummary failed: %v", err)
		}
		if !sum.Total.Equal(decimal.NewFromInt(100)) {
			t.Errorf("total = %s, want 100", sum.Total)
		}
		if len(sum.MemberTotals) != 2 {
			t.Fatalf("expected 2 member totals, got %d", len(sum.MemberTotals))
		}
		for _, mt := range sum.MemberTotals {
			if !mt.Total.Equal(decimal.NewFromInt(50)) {
				t.Errorf("%s total = %s, want 50", mt.DisplayName, mt.Total)
			}
			if mt.Email == "" || mt.DisplayName == "" {
				t.Errorf("missing display identity: %+v", mt)
			}
		}
		if !sum.Average.Valid || !sum.Average.Decimal.Equal(decimal.NewFromInt(50)) {
			t.Errorf("average = %+v, want 50", sum.Average)
		}
		if len(sum.Transfers) != 0 {
			t.Errorf("expected no transfers, got %+v", sum.Transfers)
		}
	})

	t.Run("leap february", func(t *testing.T) {
		sum, err := f.engine.MonthlySummary(f.ctx, alice, bookID, 2024, 2)
		if err != nil {
			t.Fatalf("MonthlySummary failed: %v", err)
		}
		if !sum.Total.Equal(decimal.NewFromInt(7)) {
			t.Errorf("total = %s, want 7", sum.Total)
		}
	})

	t.Run("empty month has null average", func(t *testing.T) {
		sum, err := f.engine.MonthlySummary(f.ctx, alice, bookID, 2024, 5)
		if err != nil {
			t.Fatalf("MonthlySummary failed: %v", err)
		}
		if !sum.Total.IsZero() || len(sum.MemberTotals) != 0 || sum.Average.Valid {
			t.Errorf("unexpected empty summary: %+v", sum)
		}
	})

	t.Run("invalid month", func(t *testing.T) {
		if _, err := f.engine.MonthlySummary(f.ctx, alice, bookID, 2024, 13); !errors.Is(err, errs.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("stranger", func(t *testing.T) {
		if _, err := f.engine.MonthlySummary(f.ctx, stranger, bookID, 2024, 3); !errors.Is(err, errs.ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})
}
