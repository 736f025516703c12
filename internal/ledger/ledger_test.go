package ledger

import (
	"testing"

	"go-konveksi-orders/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestGrandTotal(t *testing.T) {
	items := []model.OrderItem{
		{Quantity: 2, PricePerUnit: 50000},
		{Quantity: 1, PricePerUnit: 30000},
	}
	assert.Equal(t, int64(130000), GrandTotal(items))
}

func TestGrandTotal_NoItems(t *testing.T) {
	assert.Equal(t, int64(0), GrandTotal(nil))
	assert.Equal(t, int64(0), GrandTotal([]model.OrderItem{}))
}

func TestRemaining(t *testing.T) {
	assert.Equal(t, int64(80000), Remaining(130000, 50000))
	assert.Equal(t, int64(0), Remaining(100000, 100000))
}

func TestRemaining_OverpaymentIsNegative(t *testing.T) {
	// Overpayment is valid; the display layer renders it as LUNAS
	assert.Equal(t, int64(-20000), Remaining(100000, 120000))
}

func TestCompute(t *testing.T) {
	items := []model.OrderItem{
		{Quantity: 2, PricePerUnit: 50000},
		{Quantity: 1, PricePerUnit: 30000},
	}
	bill := Compute(items, 50000)

	assert.Equal(t, int64(130000), bill.GrandTotal)
	assert.Equal(t, int64(50000), bill.DpAmount)
	assert.Equal(t, int64(80000), bill.RemainingBalance)
	assert.Equal(t, bill.RemainingBalance, bill.GrandTotal-bill.DpAmount)
}

func TestIsPaid(t *testing.T) {
	assert.False(t, IsPaid(1))
	assert.True(t, IsPaid(0))
	assert.True(t, IsPaid(-5000))
}

func TestSettleDeposit(t *testing.T) {
	// dp 50.000 + sisa 80.000 -> 130.000, sisa 0
	assert.Equal(t, int64(130000), SettleDeposit(50000, 80000))
}

func TestSettleDeposit_NoOpWhenSettled(t *testing.T) {
	assert.Equal(t, int64(130000), SettleDeposit(130000, 0))
	assert.Equal(t, int64(150000), SettleDeposit(150000, -20000))
}
