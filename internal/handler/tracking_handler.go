package handler

import (
	"errors"

	"go-konveksi-orders/internal/service"

	"github.com/gofiber/fiber/v2"
)

// TrackingHandler serves the public, unauthenticated order lookup.
type TrackingHandler struct {
	service service.OrderService
}

func NewTrackingHandler(s service.OrderService) *TrackingHandler {
	return &TrackingHandler{service: s}
}

// Track accepts either an order number or an internal id as path parameter
// and returns the customer projection with the phone number masked.
func (h *TrackingHandler) Track(c *fiber.Ctx) error {
	tracking, err := h.service.Track(c.Params("orderParam"))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Pesanan tidak ditemukan."})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(tracking)
}
