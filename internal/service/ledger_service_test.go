package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/ledgerbook/pkg/api"
	"github.com/mmynk/ledgerbook/pkg/api/apiconnect"
)

func TestLedgerService(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	alice := ts.register(t, "alice")
	bob := ts.register(t, "bob")
	carol := ts.register(t, "carol")
	book := ts.createBook(t, alice, "Trip")
	ts.addMember(t, alice, book.ID, bob.UserID, "member")

	create := func(t *testing.T, s session, amount, date string) *api.CreateTransactionResponse {
		t.Helper()
		resp, err := ts.Ledger.CreateTransaction(ctx, authed(s, &api.CreateTransactionRequest{
			BookID:          book.ID,
			Amount:          decimal.RequireFromString(amount),
			Type:            "expense",
			TransactionDate: date,
		}))
		if err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
		return resp.Msg
	}

	first := create(t, alice, "30", "2024-03-05")
	second := create(t, bob, "70.50", "2024-03-20")

	t.Run("create returns the refreshed list", func(t *testing.T) {
		if second.Transaction.PayerID != bob.UserID {
			t.Errorf("payer = %s, want %s", second.Transaction.PayerID, bob.UserID)
		}
		if len(second.Transactions) != 2 || second.Transactions[0].ID != second.Transaction.ID {
			t.Errorf("expected 2 transactions, newest first; got %+v", second.Transactions)
		}
	})

	t.Run("create errors", func(t *testing.T) {
		tests := []struct {
			name string
			s    session
			req  *api.CreateTransactionRequest
			want connect.Code
		}{
			{"negative amount", alice, &api.CreateTransactionRequest{
				BookID: book.ID, Amount: decimal.NewFromInt(-1), Type: "expense", TransactionDate: "2024-03-01",
			}, connect.CodeInvalidArgument},
			{"bad date", alice, &api.CreateTransactionRequest{
				BookID: book.ID, Amount: decimal.NewFromInt(1), Type: "expense", TransactionDate: "03/01/2024",
			}, connect.CodeInvalidArgument},
			{"bad type", alice, &api.CreateTransactionRequest{
				BookID: book.ID, Amount: decimal.NewFromInt(1), Type: "refund", TransactionDate: "2024-03-01",
			}, connect.CodeInvalidArgument},
			{"stranger", carol, &api.CreateTransactionRequest{
				BookID: book.ID, Amount: decimal.NewFromInt(1), Type: "expense", TransactionDate: "2024-03-01",
			}, connect.CodePermissionDenied},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := ts.Ledger.CreateTransaction(ctx, authed(tt.s, tt.req))
				wantCode(t, err, tt.want)
			})
		}
	})

	t.Run("member cannot edit someone else's transaction", func(t *testing.T) {
		amount := decimal.NewFromInt(1)
		_, err := ts.Ledger.UpdateTransaction(ctx, authed(bob, &api.UpdateTransactionRequest{
			TransactionID: first.Transaction.ID, Amount: &amount,
		}))
		wantCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("payer edits own transaction", func(t *testing.T) {
		notes := "train tickets"
		resp, err := ts.Ledger.UpdateTransaction(ctx, authed(bob, &api.UpdateTransactionRequest{
			TransactionID: second.Transaction.ID, Notes: &notes,
		}))
		if err != nil {
			t.Fatalf("UpdateTransaction failed: %v", err)
		}
		if resp.Msg.Transaction.Notes != notes {
			t.Errorf("notes = %q, want %q", resp.Msg.Transaction.Notes, notes)
		}
		if !resp.Msg.Transaction.Amount.Equal(decimal.RequireFromString("70.5")) {
			t.Errorf("amount changed to %s", resp.Msg.Transaction.Amount)
		}
	})

	t.Run("monthly summary", func(t *testing.T) {
		resp, err := ts.Ledger.GetMonthlySummary(ctx, authed(bob, &api.GetMonthlySummaryRequest{
			BookID: book.ID, Year: 2024, Month: 3,
		}))
		if err != nil {
			t.Fatalf("GetMonthlySummary failed: %v", err)
		}
		sum := resp.Msg
		if !sum.Total.Equal(decimal.RequireFromString("100.5")) {
			t.Errorf("total = %s, want 100.5", sum.Total)
		}
		if !sum.Average.Valid || !sum.Average.Decimal.Equal(decimal.RequireFromString("50.25")) {
			t.Errorf("average = %+v, want 50.25", sum.Average)
		}
		if len(sum.MemberTotals) != 2 || sum.MemberTotals[0].UserID != bob.UserID || sum.MemberTotals[0].DisplayName != "bob" {
			t.Errorf("unexpected member totals: %+v", sum.MemberTotals)
		}
		if len(sum.Transfers) != 1 {
			t.Fatalf("expected 1 transfer, got %+v", sum.Transfers)
		}
		tr := sum.Transfers[0]
		if tr.FromUserID != alice.UserID || tr.ToUserID != bob.UserID || !tr.Amount.Equal(decimal.RequireFromString("20.25")) {
			t.Errorf("unexpected transfer: %+v", tr)
		}

		_, err = ts.Ledger.GetMonthlySummary(ctx, authed(bob, &api.GetMonthlySummaryRequest{
			BookID: book.ID, Year: 2024, Month: 13,
		}))
		wantCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("empty month has a null average on the wire", func(t *testing.T) {
		body := strings.NewReader(`{"bookId":"` + book.ID + `","year":2024,"month":5}`)
		req, err := http.NewRequest(http.MethodPost, ts.URL+apiconnect.LedgerServiceGetMonthlySummaryProcedure, body)
		if err != nil {
			t.Fatal(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+alice.Token)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			t.Fatalf("status = %d: %s", resp.StatusCode, b)
		}

		var raw map[string]json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if string(raw["average"]) != "null" {
			t.Errorf("average = %s, want null", raw["average"])
		}
		if string(raw["total"]) != `"0"` {
			t.Errorf("total = %s, want \"0\"", raw["total"])
		}
	})

	t.Run("delete", func(t *testing.T) {
		_, err := ts.Ledger.DeleteTransaction(ctx, authed(bob, &api.DeleteTransactionRequest{TransactionID: first.Transaction.ID}))
		wantCode(t, err, connect.CodePermissionDenied)

		resp, err := ts.Ledger.DeleteTransaction(ctx, authed(alice, &api.DeleteTransactionRequest{TransactionID: second.Transaction.ID}))
		if err != nil {
			t.Fatalf("DeleteTransaction failed: %v", err)
		}
		if len(resp.Msg.Transactions) != 1 || resp.Msg.Transactions[0].ID != first.Transaction.ID {
			t.Errorf("remaining = %+v, want only %s", resp.Msg.Transactions, first.Transaction.ID)
		}

		_, err = ts.Ledger.DeleteTransaction(ctx, authed(alice, &api.DeleteTransactionRequest{TransactionID: second.Transaction.ID}))
		wantCode(t, err, connect.CodeNotFound)
	})
}
