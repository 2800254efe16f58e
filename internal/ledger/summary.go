package ledger

import (
	"context"

	"github.com/mmynk/ledgerbook/internal/calculator"
	"github.com/mmynk/ledgerbook/internal/models"
	"github.com/mmynk/ledgerbook/internal/storage"
)

// MonthlySummary totals the expenses of bookID dated within the given month.
func (e *Engine) MonthlySummary(ctx context.Context, caller models.Caller, bookID string, year, month int) (*models.MonthlySummary, error) {
	if err := e.authz.RequireView(ctx, caller, bookID); err != nil {
		return nil, err
	}
	from, to, err := calculator.MonthWindow(year, month)
	if err != nil {
		return nil, err
	}

	expenses, err := e.store.ListTransactions(ctx, storage.TransactionFilter{
		BookID: bookID,
		Type:   models.TypeExpense,
		From:   from,
		To:     to,
	})
	if err != nil {
		return nil, err
	}

	s := calculator.Summarize(expenses)

	ids := make([]string, len(s.MemberTotals))
	for i, mt := range s.MemberTotals {
		ids[i] = mt.UserID
	}
	users, err := e.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range s.MemberTotals {
		if u, ok := users[s.MemberTotals[i].UserID]; ok {
			s.MemberTotals[i].DisplayName = u.DisplayName
			s.MemberTotals[i].Email = u.Email
		}
	}

	return &models.MonthlySummary{
		BookID:       bookID,
		Year:         year,
		Month:        month,
		Total:        s.Total,
		MemberTotals: s.MemberTotals,
		Average:      s.Average,
		Transfers:    s.Transfers,
	}, nil
}
