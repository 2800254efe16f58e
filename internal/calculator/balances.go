package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/ledgerbook/internal/models"
)

// balance is how far one payer is from the fair share.
// Positive = is owed money, negative = owes money.
type balance struct {
	userID string
	amount decimal.Decimal
}

// Transfers computes the payments that bring every payer to average.
//
// Algorithm:
// - Net balance per payer: total - average
// - Split into creditors (positive) and debtors (negative)
// - Greedy: match the largest debt with the largest credit until one side runs out
//
// Fewer than two payers need no transfers.
func Transfers(totals []models.MemberTotal, average decimal.Decimal) []models.Transfer {
	if len(totals) < 2 {
		return nil
	}

	var creditors, debtors []balance
	for _, mt := range totals {
		net := mt.Total.Sub(average)
		switch net.Sign() {
		case 1:
			creditors = append(creditors, balance{userID: mt.UserID, amount: net})
		case -1:
			debtors = append(debtors, balance{userID: mt.UserID, amount: net.Neg()})
		}
	}
	sortBalances(creditors)
	sortBalances(debtors)

	var transfers []models.Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := &debtors[i], &creditors[j]

		amount := decimal.Min(debtor.amount, creditor.amount)
		if amount.IsPositive() {
			transfers = append(transfers, models.Transfer{
				FromUserID: debtor.userID,
				ToUserID:   creditor.userID,
				Amount:     amount,
			})
		}

		debtor.amount = debtor.amount.Sub(amount)
		creditor.amount = creditor.amount.Sub(amount)

		if !debtor.amount.IsPositive() {
			i++
		}
		if !creditor.amount.IsPositive() {
			j++
		}
	}
	return transfers
}

// sortBalances orders by amount descending, then user ID for stable output.
func sortBalances(b []balance) {
	sort.Slice(b, func(i, j int) bool {
		if c := b[i].amount.Cmp(b[j].amount); c != 0 {
			return c > 0
		}
		return b[i].userID < b[j].userID
	})
}
