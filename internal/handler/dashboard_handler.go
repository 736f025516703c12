package handler

import (
	"go-konveksi-orders/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetOrders returns the listing working set, newest first, optionally
// narrowed by the three independent filters.
// Query params: search, status (default all), payment (lunas|belum_lunas).
func (h *DashboardHandler) GetOrders(c *fiber.Ctx) error {
	filter := service.ListFilter{
		Search:  c.Query("search"),
		Status:  c.Query("status", "all"),
		Payment: c.Query("payment", "all"),
	}

	orders, err := h.service.List(filter)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(orders)
}

// GetStats returns the production summary for a calendar period.
// Query params: month (1-12 or all), year (or all).
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	month := c.Query("month", "all")
	year := c.Query("year", "all")

	stats, err := h.service.Stats(month, year)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}

	return c.JSON(fiber.Map{
		"month": month,
		"year":  year,
		"stats": stats,
	})
}

// GetAnalytics returns headline metrics, the six-month revenue trend and the
// category/status breakdowns over all non-cancelled orders.
func (h *DashboardHandler) GetAnalytics(c *fiber.Ctx) error {
	report, err := h.service.Analytics()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch analytics"})
	}
	return c.JSON(report)
}
