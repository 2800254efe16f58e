package validate

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/ledgerbook/internal/errs"
	"github.com/mmynk/ledgerbook/internal/models"
)

func TestValidator_Struct(t *testing.T) {
	v := New()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    any
		wantErr  bool
		contains string
	}{
		{
			name:  "valid expense",
			input: models.TransactionInput{Amount: decimal.RequireFromString("12.50"), Type: models.TypeExpense, TransactionDate: day},
		},
		{
			name:  "zero amount is allowed",
			input: models.TransactionInput{Amount: decimal.Zero, Type: models.TypeIncome, TransactionDate: day},
		},
		{
			name:     "negative amount",
			input:    models.TransactionInput{Amount: decimal.RequireFromString("-0.01"), Type: models.TypeExpense, TransactionDate: day},
			wantErr:  true,
			contains: "amount must be >= 0",
		},
		{
			name:     "negative amount below float precision",
			input:    models.TransactionInput{Amount: decimal.New(-1, -400), Type: models.TypeExpense, TransactionDate: day},
			wantErr:  true,
			contains: "amount must be >= 0",
		},
		{
			name:  "positive amount below float precision",
			input: models.TransactionInput{Amount: decimal.New(1, -400), Type: models.TypeExpense, TransactionDate: day},
		},
		{
			name:     "unknown type",
			input:    models.TransactionInput{Amount: decimal.NewFromInt(1), Type: "transfer", TransactionDate: day},
			wantErr:  true,
			contains: "type must be one of",
		},
		{
			name:     "missing date",
			input:    models.TransactionInput{Amount: decimal.NewFromInt(1), Type: models.TypeExpense},
			wantErr:  true,
			contains: "transactiondate is required",
		},
		{
			name:  "valid book",
			input: models.BookInput{Name: "Flat"},
		},
		{
			name:     "book without name",
			input:    models.BookInput{Description: "x"},
			wantErr:  true,
			contains: "name is required",
		},
		{
			name:     "book name too long",
			input:    models.BookInput{Name: strings.Repeat("n", 101)},
			wantErr:  true,
			contains: "name must be at most 100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Struct() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, errs.ErrValidation) {
				t.Fatalf("Struct() error = %v, want ErrValidation", err)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q does not contain %q", err, tt.contains)
			}
		})
	}
}
