// Package calculator holds the arithmetic behind monthly summaries:
// period windows, per-payer totals, the fair-share average and settlement transfers.
package calculator

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/ledgerbook/internal/errs"
	"github.com/mmynk/ledgerbook/internal/models"
)

// MonthWindow returns the first and last day of a calendar month, both inclusive.
func MonthWindow(year, month int) (from, to time.Time, err error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, errs.Validation("month %d is out of range 1..12", month)
	}
	if year < 1 || year > 9999 {
		return time.Time{}, time.Time{}, errs.Validation("year %d is out of range", year)
	}
	from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of the next month normalises to the last day of this one.
	to = time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return from, to, nil
}

// Summary is the arithmetic part of a monthly summary.
// MemberTotals carry only UserID and Total; display identity is attached by the caller.
type Summary struct {
	Total        decimal.Decimal
	MemberTotals []models.MemberTotal
	Average      decimal.NullDecimal

	// Transfers settle every payer to the rounded Average. When the total does
	// not split evenly into cents, up to a cent per payer stays unsettled.
	Transfers []models.Transfer
}

// Summarize aggregates expenses by payer.
//
// Total is the exact sum of all amounts. Average is Total divided by the
// number of distinct payers, rounded half away from zero to two places; it
// is left invalid when there are no expenses.
func Summarize(expenses []*models.Transaction) Summary {
	total := decimal.Zero
	byPayer := make(map[string]decimal.Decimal)
	for _, t := range expenses {
		total = total.Add(t.Amount)
		byPayer[t.PayerID] = byPayer[t.PayerID].Add(t.Amount)
	}

	memberTotals := make([]models.MemberTotal, 0, len(byPayer))
	for userID, sum := range byPayer {
		memberTotals = append(memberTotals, models.MemberTotal{UserID: userID, Total: sum})
	}
	sort.Slice(memberTotals, func(i, j int) bool {
		if c := memberTotals[i].Total.Cmp(memberTotals[j].Total); c != 0 {
			return c > 0
		}
		return memberTotals[i].UserID < memberTotals[j].UserID
	})

	s := Summary{Total: total, MemberTotals: memberTotals}
	if len(memberTotals) == 0 {
		return s
	}
	avg := total.Div(decimal.NewFromInt(int64(len(memberTotals)))).Round(2)
	s.Average = decimal.NullDecimal{Decimal: avg, Valid: true}
	s.Transfers = Transfers(memberTotals, avg)
	return s
}
