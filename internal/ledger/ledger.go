// Package ledger derives the billing triple (grand total, deposit, remaining
// balance) from an order's line items. Every write path to the orders table
// goes through Compute so the three persisted fields never drift apart.
package ledger

import "go-konveksi-orders/internal/model"

// Summary is the derived billing state of one order.
type Summary struct {
	GrandTotal       int64 `json:"grand_total"`
	DpAmount         int64 `json:"dp_amount"`
	RemainingBalance int64 `json:"remaining_balance"`
}

// GrandTotal sums quantity * price_per_unit over all items.
// Zero items yields zero.
func GrandTotal(items []model.OrderItem) int64 {
	var total int64
	for _, item := range items {
		total += int64(item.Quantity) * item.PricePerUnit
	}
	return total
}

// Remaining is grand total minus the cumulative deposit. A negative result
// means overpayment and is valid; display layers render it as LUNAS, not as
// negative debt.
func Remaining(grandTotal, dpAmount int64) int64 {
	return grandTotal - dpAmount
}

// Compute derives the full billing triple from items and a deposit.
func Compute(items []model.OrderItem, dpAmount int64) Summary {
	total := GrandTotal(items)
	return Summary{
		GrandTotal:       total,
		DpAmount:         dpAmount,
		RemainingBalance: Remaining(total, dpAmount),
	}
}

// IsPaid reports whether a remaining balance counts as settled.
func IsPaid(remainingBalance int64) bool {
	return remainingBalance <= 0
}

// SettleDeposit returns the new cumulative deposit after a pay-off action.
// When nothing is owed the deposit is returned unchanged (pay-off is a no-op).
func SettleDeposit(dpAmount, remainingBalance int64) int64 {
	if remainingBalance <= 0 {
		return dpAmount
	}
	return dpAmount + remainingBalance
}
