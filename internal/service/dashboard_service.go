package service

import (
	"fmt"
	"strings"

	"go-konveksi-orders/internal/model"
	"go-konveksi-orders/internal/repository"
)

// ListFilter composes the three independent listing predicates. Empty or
// "all" values are wildcards.
type ListFilter struct {
	Search  string // substring of client name or order number, case-insensitive
	Status  string // exact status match
	Payment string // "lunas" | "belum_lunas"
}

// FilterOrders keeps only the orders matching all three predicates.
func FilterOrders(orders []model.Order, filter ListFilter) []model.Order {
	searchLower := strings.ToLower(filter.Search)
	filtered := make([]model.Order, 0, len(orders))

	for _, order := range orders {
		matchesSearch := searchLower == "" ||
			strings.Contains(strings.ToLower(order.ClientName), searchLower) ||
			strings.Contains(strings.ToLower(order.OrderNumber), searchLower)

		matchesStatus := filter.Status == "" || filter.Status == "all" ||
			string(order.CurrentStatus) == filter.Status

		isPaid := order.IsPaid()
		matchesPayment := filter.Payment == "" || filter.Payment == "all" ||
			(filter.Payment == "lunas" && isPaid) ||
			(filter.Payment == "belum_lunas" && !isPaid)

		if matchesSearch && matchesStatus && matchesPayment {
			filtered = append(filtered, order)
		}
	}
	return filtered
}

// FilterByPeriod keeps orders created in the given calendar month/year.
// Month is 1-12; either side can be "all".
func FilterByPeriod(orders []model.Order, month, year string) []model.Order {
	filtered := make([]model.Order, 0, len(orders))
	for _, order := range orders {
		orderMonth := fmt.Sprintf("%d", int(order.CreatedAt.Month()))
		orderYear := fmt.Sprintf("%d", order.CreatedAt.Year())

		matchMonth := month == "" || month == "all" || orderMonth == month
		matchYear := year == "" || year == "all" || orderYear == year

		if matchMonth && matchYear {
			filtered = append(filtered, order)
		}
	}
	return filtered
}

// ProductionStats is the dashboard summary for a working set of orders.
type ProductionStats struct {
	OrderCount       int            `json:"order_count"`
	TotalRevenue     int64          `json:"total_revenue"`
	TotalDeposit     int64          `json:"total_deposit"`
	TotalReceivables int64          `json:"total_receivables"`
	TotalItems       int            `json:"total_items"`
	OnProcessCount   int            `json:"on_process_count"`
	StatusCounts     map[string]int `json:"status_counts"`
}

// ComputeStats aggregates revenue, deposits, receivables, produced quantity
// and status counts over the given orders.
func ComputeStats(orders []model.Order) ProductionStats {
	stats := ProductionStats{StatusCounts: make(map[string]int)}

	for _, order := range orders {
		stats.OrderCount++
		stats.TotalRevenue += order.GrandTotal
		stats.TotalDeposit += order.DpAmount
		stats.TotalReceivables += order.RemainingBalance
		stats.TotalItems += order.TotalQuantity()

		status := order.CurrentStatus
		if status == "" {
			status = model.StatusPending
		}
		stats.StatusCounts[string(status)]++

		if status.IsOnProcess() {
			stats.OnProcessCount++
		}
	}
	return stats
}

// RevenuePoint is one month on the revenue trend chart.
type RevenuePoint struct {
	Name  string `json:"name"` // "Agu 25"
	Total int64  `json:"total"`
}

// CategoryCount is one slice of the best-selling category chart.
type CategoryCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// AnalyticsReport is the analytics view over all non-cancelled orders.
type AnalyticsReport struct {
	TotalRevenue      int64           `json:"total_revenue"`
	TotalOrders       int             `json:"total_orders"`
	TotalReceivables  int64           `json:"total_receivables"`
	AverageOrderValue int64           `json:"average_order_value"`
	RevenueTrend      []RevenuePoint  `json:"revenue_trend"`
	Categories        []CategoryCount `json:"categories"`
	StatusCounts      map[string]int  `json:"status_counts"`
}

var shortMonths = [...]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

// MonthKey formats a year/month pair the way the dashboard charts label
// buckets: short Indonesian month plus two-digit year.
func MonthKey(year, month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("%d-%d", year, month)
	}
	return fmt.Sprintf("%s %02d", shortMonths[month-1], year%100)
}

// LastSixMonths trims a chronological revenue series to its most recent six
// buckets, keeping chronological order.
func LastSixMonths(series []repository.MonthlyRevenue) []RevenuePoint {
	if len(series) > 6 {
		series = series[len(series)-6:]
	}
	points := make([]RevenuePoint, len(series))
	for i, bucket := range series {
		points[i] = RevenuePoint{Name: MonthKey(bucket.Year, bucket.Month), Total: bucket.Total}
	}
	return points
}

type DashboardService interface {
	List(filter ListFilter) ([]model.Order, error)
	Stats(month, year string) (*ProductionStats, error)
	Analytics() (*AnalyticsReport, error)
}

type dashboardService struct {
	orderRepo repository.OrderRepository
}

func NewDashboardService(orderRepo repository.OrderRepository) DashboardService {
	return &dashboardService{orderRepo: orderRepo}
}

// List fetches all orders and applies the composed listing predicates.
func (s *dashboardService) List(filter ListFilter) ([]model.Order, error) {
	orders, err := s.orderRepo.FindAll()
	if err != nil {
		return nil, err
	}
	return FilterOrders(orders, filter), nil
}

// Stats summarizes the period-filtered working set. The period filter is
// independent of the listing search filter on purpose.
func (s *dashboardService) Stats(month, year string) (*ProductionStats, error) {
	orders, err := s.orderRepo.FindAll()
	if err != nil {
		return nil, err
	}
	stats := ComputeStats(FilterByPeriod(orders, month, year))
	return &stats, nil
}

// Analytics reports over all non-cancelled orders: headline metrics, the
// six-month revenue trend, category volumes and status distribution.
func (s *dashboardService) Analytics() (*AnalyticsReport, error) {
	orders, err := s.orderRepo.FindAllActive()
	if err != nil {
		return nil, err
	}

	report := &AnalyticsReport{
		TotalOrders:  len(orders),
		StatusCounts: make(map[string]int),
	}
	categoryTotals := make(map[model.ItemCategory]int)

	for _, order := range orders {
		report.TotalRevenue += order.GrandTotal
		report.TotalReceivables += order.RemainingBalance
		report.StatusCounts[string(order.CurrentStatus)]++
		for _, item := range order.Items {
			categoryTotals[item.Category] += item.Quantity
		}
	}
	if report.TotalOrders > 0 {
		report.AverageOrderValue = report.TotalRevenue / int64(report.TotalOrders)
	}

	for _, category := range []model.ItemCategory{
		model.CategorySetelan, model.CategoryAtasan, model.CategoryBawahan, model.CategoryAksesoris,
	} {
		if qty, ok := categoryTotals[category]; ok {
			name := strings.ToUpper(string(category[:1])) + string(category[1:])
			report.Categories = append(report.Categories, CategoryCount{Name: name, Value: qty})
		}
	}

	series, err := s.orderRepo.MonthlyRevenue()
	if err != nil {
		return nil, err
	}
	report.RevenueTrend = LastSixMonths(series)

	return report, nil
}
