package calculator

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/ledgerbook/internal/errs"
	"github.com/mmynk/ledgerbook/internal/models"
)

func expense(payer, amount string) *models.Transaction {
	return &models.Transaction{
		PayerID: payer,
		Amount:  decimal.RequireFromString(amount),
		Type:    models.TypeExpense,
	}
}

func TestMonthWindow(t *testing.T) {
	tests := []struct {
		name     string
		year     int
		month    int
		wantFrom string
		wantTo   string
		wantErr  bool
	}{
		{name: "march", year: 2024, month: 3, wantFrom: "2024-03-01", wantTo: "2024-03-31"},
		{name: "leap february", year: 2024, month: 2, wantFrom: "2024-02-01", wantTo: "2024-02-29"},
		{name: "common february", year: 2023, month: 2, wantFrom: "2023-02-01", wantTo: "2023-02-28"},
		{name: "december rolls year", year: 2024, month: 12, wantFrom: "2024-12-01", wantTo: "2024-12-31"},
		{name: "april has 30 days", year: 2024, month: 4, wantFrom: "2024-04-01", wantTo: "2024-04-30"},
		{name: "month zero", year: 2024, month: 0, wantErr: true},
		{name: "month thirteen", year: 2024, month: 13, wantErr: true},
		{name: "year zero", year: 0, month: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := MonthWindow(tt.year, tt.month)
			if tt.wantErr {
				if !errors.Is(err, errs.ErrValidation) {
					t.Errorf("MonthWindow() error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("MonthWindow() unexpected error: %v", err)
			}
			if got := from.Format(models.DateLayout); got != tt.wantFrom {
				t.Errorf("from = %s, want %s", got, tt.wantFrom)
			}
			if got := to.Format(models.DateLayout); got != tt.wantTo {
				t.Errorf("to = %s, want %s", got, tt.wantTo)
			}
			if !to.Before(from.AddDate(0, 1, 0)) {
				t.Errorf("to %s is not inside the month starting %s", to, from)
			}
		})
	}

	t.Run("window contains last day and excludes next", func(t *testing.T) {
		from, to, _ := MonthWindow(2024, 3)
		last := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
		next := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
		if last.Before(from) || last.After(to) {
			t.Errorf("March 31 should be inside [%s, %s]", from, to)
		}
		if !next.After(to) {
			t.Errorf("April 1 should be after %s", to)
		}
	})
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name         string
		expenses     []*models.Transaction
		wantTotal    string
		wantMembers  []models.MemberTotal
		wantAverage  string // empty means null
		wantTransfer int
	}{
		{
			name:      "two payers with equal totals",
			expenses:  []*models.Transaction{expense("A", "30"), expense("A", "20"), expense("B", "50")},
			wantTotal: "100",
			wantMembers: []models.MemberTotal{
				{UserID: "A", Total: decimal.NewFromInt(50)},
				{UserID: "B", Total: decimal.NewFromInt(50)},
			},
			wantAverage:  "50",
			wantTransfer: 0,
		},
		{
			name:        "no expenses",
			expenses:    nil,
			wantTotal:   "0",
			wantMembers: []models.MemberTotal{},
			wantAverage: "",
		},
		{
			name:      "sorted by total descending",
			expenses:  []*models.Transaction{expense("A", "10"), expense("B", "90.50"), expense("C", "0")},
			wantTotal: "100.50",
			wantMembers: []models.MemberTotal{
				{UserID: "B", Total: decimal.RequireFromString("90.50")},
				{UserID: "A", Total: decimal.NewFromInt(10)},
				{UserID: "C", Total: decimal.Zero},
			},
			wantAverage:  "33.5",
			wantTransfer: 2,
		},
		{
			name:      "cents are summed exactly",
			expenses:  []*models.Transaction{expense("A", "0.10"), expense("A", "0.20")},
			wantTotal: "0.3",
			wantMembers: []models.MemberTotal{
				{UserID: "A", Total: decimal.RequireFromString("0.3")},
			},
			wantAverage: "0.3",
		},
		{
			name:      "uneven split leaves a cent with the creditor",
			expenses:  []*models.Transaction{expense("A", "100"), expense("B", "0"), expense("C", "0")},
			wantTotal: "100",
			wantMembers: []models.MemberTotal{
				{UserID: "A", Total: decimal.NewFromInt(100)},
				{UserID: "B", Total: decimal.Zero},
				{UserID: "C", Total: decimal.Zero},
			},
			wantAverage:  "33.33",
			wantTransfer: 2,
		},
		{
			name:      "average rounds half away from zero",
			expenses:  []*models.Transaction{expense("A", "0.01"), expense("B", "0"), expense("C", "0.01"), expense("D", "0.00")},
			wantTotal: "0.02",
			wantMembers: []models.MemberTotal{
				{UserID: "A", Total: decimal.RequireFromString("0.01")},
				{UserID: "C", Total: decimal.RequireFromString("0.01")},
				{UserID: "B", Total: decimal.Zero},
				{UserID: "D", Total: decimal.Zero},
			},
			wantAverage:  "0.01",
			wantTransfer: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.expenses)

			if !got.Total.Equal(decimal.RequireFromString(tt.wantTotal)) {
				t.Errorf("Total = %s, want %s", got.Total, tt.wantTotal)
			}

			if len(got.MemberTotals) != len(tt.wantMembers) {
				t.Fatalf("len(MemberTotals) = %d, want %d", len(got.MemberTotals), len(tt.wantMembers))
			}
			sum := decimal.Zero
			for i, want := range tt.wantMembers {
				mt := got.MemberTotals[i]
				if mt.UserID != want.UserID || !mt.Total.Equal(want.Total) {
					t.Errorf("MemberTotals[%d] = {%s %s}, want {%s %s}", i, mt.UserID, mt.Total, want.UserID, want.Total)
				}
				sum = sum.Add(mt.Total)
			}
			if !sum.Equal(got.Total) {
				t.Errorf("sum of member totals %s != total %s", sum, got.Total)
			}

			if tt.wantAverage == "" {
				if got.Average.Valid {
					t.Errorf("Average = %s, want null", got.Average.Decimal)
				}
			} else {
				if !got.Average.Valid {
					t.Fatalf("Average is null, want %s", tt.wantAverage)
				}
				if !got.Average.Decimal.Equal(decimal.RequireFromString(tt.wantAverage)) {
					t.Errorf("Average = %s, want %s", got.Average.Decimal, tt.wantAverage)
				}
			}

			if len(got.Transfers) != tt.wantTransfer {
				t.Errorf("len(Transfers) = %d, want %d: %+v", len(got.Transfers), tt.wantTransfer, got.Transfers)
			}
		})
	}
}
