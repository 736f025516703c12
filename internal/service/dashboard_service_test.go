package service

import (
	"testing"
	"time"

	"go-konveksi-orders/internal/model"
	"go-konveksi-orders/internal/repository"

	"github.com/stretchr/testify/assert"
)

// fixtureOrders spans multiple statuses, paid/unpaid states and months so
// every filter predicate has something to bite on.
func fixtureOrders() []model.Order {
	created := func(year int, month time.Month) time.Time {
		return time.Date(year, month, 10, 9, 0, 0, 0, time.UTC)
	}
	orders := []model.Order{
		{
			OrderNumber: "INV-202608-0001", ClientName: "Budi Santoso",
			CurrentStatus: model.StatusPending,
			GrandTotal:    100000, DpAmount: 0, RemainingBalance: 100000,
			Items: []model.OrderItem{{Quantity: 2, Category: model.CategoryAtasan}},
		},
		{
			OrderNumber: "INV-202608-0002", ClientName: "Siti Aminah",
			CurrentStatus: model.StatusCutting,
			GrandTotal:    250000, DpAmount: 250000, RemainingBalance: 0,
			Items: []model.OrderItem{{Quantity: 10, Category: model.CategorySetelan}},
		},
		{
			OrderNumber: "INV-202607-0003", ClientName: "Budi Hartono",
			CurrentStatus: model.StatusProduction,
			GrandTotal:    500000, DpAmount: 200000, RemainingBalance: 300000,
			Items: []model.OrderItem{{Quantity: 20, Category: model.CategoryBawahan}},
		},
		{
			OrderNumber: "INV-202607-0004", ClientName: "Dewi Lestari",
			CurrentStatus: model.StatusCompleted,
			GrandTotal:    75000, DpAmount: 100000, RemainingBalance: -25000,
			Items: []model.OrderItem{{Quantity: 3, Category: model.CategoryAksesoris}},
		},
		{
			OrderNumber: "INV-202606-0005", ClientName: "Agus Salim",
			CurrentStatus: model.StatusPacking,
			GrandTotal:    150000, DpAmount: 50000, RemainingBalance: 100000,
			Items: []model.OrderItem{{Quantity: 5, Category: model.CategoryAtasan}},
		},
	}
	orders[0].CreatedAt = created(2026, time.August)
	orders[1].CreatedAt = created(2026, time.August)
	orders[2].CreatedAt = created(2026, time.July)
	orders[3].CreatedAt = created(2026, time.July)
	orders[4].CreatedAt = created(2026, time.June)
	return orders
}

func orderNumbers(orders []model.Order) []string {
	numbers := make([]string, len(orders))
	for i, o := range orders {
		numbers[i] = o.OrderNumber
	}
	return numbers
}

func TestFilterOrders_Wildcards(t *testing.T) {
	orders := fixtureOrders()
	got := FilterOrders(orders, ListFilter{Status: "all", Payment: "all"})
	assert.Len(t, got, len(orders))
}

func TestFilterOrders_SearchMatchesNameOrNumber(t *testing.T) {
	orders := fixtureOrders()

	byName := FilterOrders(orders, ListFilter{Search: "budi"})
	assert.ElementsMatch(t, []string{"INV-202608-0001", "INV-202607-0003"}, orderNumbers(byName))

	byNumber := FilterOrders(orders, ListFilter{Search: "202607"})
	assert.ElementsMatch(t, []string{"INV-202607-0003", "INV-202607-0004"}, orderNumbers(byNumber))
}

func TestFilterOrders_PaymentPredicate(t *testing.T) {
	orders := fixtureOrders()

	lunas := FilterOrders(orders, ListFilter{Payment: "lunas"})
	// Remaining <= 0 counts as paid, overpayment included
	assert.ElementsMatch(t, []string{"INV-202608-0002", "INV-202607-0004"}, orderNumbers(lunas))

	belum := FilterOrders(orders, ListFilter{Payment: "belum_lunas"})
	assert.Len(t, belum, 3)
}

func TestFilterOrders_PredicatesIntersect(t *testing.T) {
	orders := fixtureOrders()

	got := FilterOrders(orders, ListFilter{Search: "budi", Status: "production", Payment: "belum_lunas"})
	assert.Equal(t, []string{"INV-202607-0003"}, orderNumbers(got))

	// Same search, conflicting payment predicate -> empty intersection
	got = FilterOrders(orders, ListFilter{Search: "budi", Status: "production", Payment: "lunas"})
	assert.Empty(t, got)
}

func TestFilterByPeriod(t *testing.T) {
	orders := fixtureOrders()

	august := FilterByPeriod(orders, "8", "2026")
	assert.Len(t, august, 2)

	all := FilterByPeriod(orders, "all", "all")
	assert.Len(t, all, 5)

	year := FilterByPeriod(orders, "all", "2026")
	assert.Len(t, year, 5)

	none := FilterByPeriod(orders, "12", "2026")
	assert.Empty(t, none)
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats(fixtureOrders())

	assert.Equal(t, 5, stats.OrderCount)
	assert.Equal(t, int64(1075000), stats.TotalRevenue)
	assert.Equal(t, int64(600000), stats.TotalDeposit)
	assert.Equal(t, int64(475000), stats.TotalReceivables)
	assert.Equal(t, 40, stats.TotalItems)
	// cutting + production + packing
	assert.Equal(t, 3, stats.OnProcessCount)
	assert.Equal(t, 1, stats.StatusCounts["pending"])
	assert.Equal(t, 1, stats.StatusCounts["completed"])
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil)
	assert.Equal(t, 0, stats.OrderCount)
	assert.Equal(t, int64(0), stats.TotalRevenue)
	assert.Empty(t, stats.StatusCounts)
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "Agu 26", MonthKey(2026, 8))
	assert.Equal(t, "Jan 25", MonthKey(2025, 1))
	assert.Equal(t, "Des 24", MonthKey(2024, 12))
}

func TestLastSixMonths(t *testing.T) {
	series := []repository.MonthlyRevenue{
		{Year: 2026, Month: 1, Total: 10},
		{Year: 2026, Month: 2, Total: 20},
		{Year: 2026, Month: 3, Total: 30},
		{Year: 2026, Month: 4, Total: 40},
		{Year: 2026, Month: 5, Total: 50},
		{Year: 2026, Month: 6, Total: 60},
		{Year: 2026, Month: 7, Total: 70},
		{Year: 2026, Month: 8, Total: 80},
	}

	points := LastSixMonths(series)
	assert.Len(t, points, 6)
	assert.Equal(t, "Mar 26", points[0].Name)
	assert.Equal(t, int64(30), points[0].Total)
	assert.Equal(t, "Agu 26", points[5].Name)
	assert.Equal(t, int64(80), points[5].Total)
}

func TestLastSixMonths_ShortSeries(t *testing.T) {
	series := []repository.MonthlyRevenue{{Year: 2026, Month: 8, Total: 80}}
	points := LastSixMonths(series)
	assert.Len(t, points, 1)
	assert.Equal(t, "Agu 26", points[0].Name)
}
