package handler

import (
	"errors"

	"go-konveksi-orders/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// Helper untuk ambil actor name dari JWT Context (set by auth middleware)
func getActorName(c *fiber.Ctx) string {
	userName := c.Locals("user_name")
	if userName == nil {
		return "Admin"
	}
	if name, ok := userName.(string); ok && name != "" {
		return name
	}
	return "Admin"
}

func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req service.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.Create(&req, getActorName(c))
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid status"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Pesanan dibuat", "data": order})
}

func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	orderNumber := c.Params("orderNumber")

	var req service.UpdateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.Update(orderNumber, &req, getActorName(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "Order not found"})
		case errors.Is(err, service.ErrInvalidStatus):
			return c.Status(400).JSON(fiber.Map{"error": "Invalid status"})
		default:
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"message": "Pesanan diperbarui", "data": order})
}

// ChangeStatus handles PATCH /orders/:orderNumber/status.
// Response contract is fixed: 200 {ok:true}, 400 invalid status,
// 404 unknown order, 500 store failure.
func (h *OrderHandler) ChangeStatus(c *fiber.Ctx) error {
	orderNumber := c.Params("orderNumber")

	var body struct {
		Status      string `json:"status"`
		Description string `json:"description"`
	}
	// Malformed bodies fall through with an empty status, which the
	// allow-list rejects.
	_ = c.BodyParser(&body)

	err := h.service.ChangeStatus(orderNumber, body.Status, body.Description)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			return c.Status(400).JSON(fiber.Map{"error": "Invalid status"})
		case errors.Is(err, service.ErrOrderNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "Order not found"})
		default:
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"ok": true})
}

func (h *OrderHandler) PayOff(c *fiber.Ctx) error {
	orderNumber := c.Params("orderNumber")

	order, err := h.service.PayOff(orderNumber, getActorName(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "Order not found"})
		case errors.Is(err, service.ErrAlreadySettled):
			return c.Status(409).JSON(fiber.Map{"error": "Tagihan sudah lunas"})
		default:
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"message": "Pembayaran berhasil dilunasi", "data": order})
}

func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	if err := h.service.Delete(id, getActorName(c)); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Order not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Pesanan berhasil dihapus"})
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	order, err := h.service.GetByNumber(c.Params("orderNumber"))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Order not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(order)
}
