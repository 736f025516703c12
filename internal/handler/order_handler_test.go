package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"go-konveksi-orders/internal/model"
	"go-konveksi-orders/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOrderService lets the handlers be tested without a database.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Create(req *service.CreateOrderRequest, actor string) (*model.Order, error) {
	args := m.Called(req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) Update(orderNumber string, req *service.UpdateOrderRequest, actor string) (*model.Order, error) {
	args := m.Called(orderNumber, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) ChangeStatus(orderNumber, rawStatus, description string) error {
	args := m.Called(orderNumber, rawStatus, description)
	return args.Error(0)
}

func (m *MockOrderService) PayOff(orderNumber, actor string) (*model.Order, error) {
	args := m.Called(orderNumber, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) Delete(id uuid.UUID, actor string) error {
	args := m.Called(id, actor)
	return args.Error(0)
}

func (m *MockOrderService) GetAll() ([]model.Order, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) GetByNumber(orderNumber string) (*model.Order, error) {
	args := m.Called(orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) Track(param string) (*service.TrackingResponse, error) {
	args := m.Called(param)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TrackingResponse), args.Error(1)
}

func newStatusApp(svc service.OrderService) *fiber.App {
	h := NewOrderHandler(svc)
	app := fiber.New()
	app.Patch("/orders/:orderNumber/status", h.ChangeStatus)
	app.Post("/orders/:orderNumber/payoff", h.PayOff)
	app.Post("/orders", h.CreateOrder)
	return app
}

func TestChangeStatus_OK(t *testing.T) {
	mockSvc := new(MockOrderService)
	mockSvc.On("ChangeStatus", "INV-202608-0042", "completed", "").Return(nil)

	app := newStatusApp(mockSvc)

	payload, _ := json.Marshal(map[string]string{"status": "completed"})
	req := httptest.NewRequest("PATCH", "/orders/INV-202608-0042/status", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]bool
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body["ok"])

	mockSvc.AssertExpectations(t)
}

func TestChangeStatus_InvalidStatus(t *testing.T) {
	mockSvc := new(MockOrderService)
	mockSvc.On("ChangeStatus", "INV-202608-0042", "archived", "").Return(service.ErrInvalidStatus)

	app := newStatusApp(mockSvc)

	payload, _ := json.Marshal(map[string]string{"status": "archived"})
	req := httptest.NewRequest("PATCH", "/orders/INV-202608-0042/status", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Invalid status", body["error"])

	mockSvc.AssertExpectations(t)
}

func TestChangeStatus_OrderNotFound(t *testing.T) {
	mockSvc := new(MockOrderService)
	mockSvc.On("ChangeStatus", "INV-000000-0000", "completed", "").Return(service.ErrOrderNotFound)

	app := newStatusApp(mockSvc)

	payload, _ := json.Marshal(map[string]string{"status": "completed"})
	req := httptest.NewRequest("PATCH", "/orders/INV-000000-0000/status", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Order not found", body["error"])
}

func TestChangeStatus_StoreFailure(t *testing.T) {
	mockSvc := new(MockOrderService)
	mockSvc.On("ChangeStatus", "INV-202608-0042", "packing", "").Return(errors.New("connection reset"))

	app := newStatusApp(mockSvc)

	payload, _ := json.Marshal(map[string]string{"status": "packing"})
	req := httptest.NewRequest("PATCH", "/orders/INV-202608-0042/status", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	// Store errors surface verbatim
	var body map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "connection reset", body["error"])
}

func TestChangeStatus_DescriptionOverride(t *testing.T) {
	mockSvc := new(MockOrderService)
	mockSvc.On("ChangeStatus", "INV-202608-0042", "confirmed", "DP diterima via transfer").Return(nil)

	app := newStatusApp(mockSvc)

	payload, _ := json.Marshal(map[string]string{
		"status":      "confirmed",
		"description": "DP diterima via transfer",
	})
	req := httptest.NewRequest("PATCH", "/orders/INV-202608-0042/status", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	mockSvc.AssertExpectations(t)
}

func TestPayOff_AlreadySettled(t *testing.T) {
	mockSvc := new(MockOrderService)
	mockSvc.On("PayOff", "INV-202608-0042", "Admin").Return(nil, service.ErrAlreadySettled)

	app := newStatusApp(mockSvc)

	req := httptest.NewRequest("POST", "/orders/INV-202608-0042/payoff", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestCreateOrder_Success(t *testing.T) {
	mockSvc := new(MockOrderService)
	expected := &model.Order{
		OrderNumber:      "INV-202608-0042",
		ClientName:       "Budi Santoso",
		CurrentStatus:    model.StatusPending,
		GrandTotal:       130000,
		DpAmount:         50000,
		RemainingBalance: 80000,
	}
	mockSvc.On("Create", mock.AnythingOfType("*service.CreateOrderRequest"), "Admin").Return(expected, nil)

	app := newStatusApp(mockSvc)

	payload, _ := json.Marshal(service.CreateOrderRequest{
		OrderNumber: "INV-202608-0042",
		ClientName:  "Budi Santoso",
		ClientPhone: "08123456789",
		DpAmount:    50000,
		Items: []service.OrderItemInput{
			{ProductName: "Kemeja Seragam", Category: model.CategoryAtasan, Quantity: 2, PricePerUnit: 50000},
			{ProductName: "Celana", Category: model.CategoryBawahan, Quantity: 1, PricePerUnit: 30000},
		},
	})
	req := httptest.NewRequest("POST", "/orders", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Data model.Order `json:"data"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(130000), body.Data.GrandTotal)
	assert.Equal(t, int64(80000), body.Data.RemainingBalance)

	mockSvc.AssertExpectations(t)
}

func TestCreateOrder_ValidationFailure(t *testing.T) {
	mockSvc := new(MockOrderService)
	mockSvc.On("Create", mock.AnythingOfType("*service.CreateOrderRequest"), "Admin").
		Return(nil, errors.New("validation failed: field 'CreateOrderRequest.ClientName' failed on tag 'required'"))

	app := newStatusApp(mockSvc)

	payload, _ := json.Marshal(map[string]interface{}{"client_phone": "0812"})
	req := httptest.NewRequest("POST", "/orders", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
