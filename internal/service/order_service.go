package service

import (
	"errors"
	"fmt"
	"time"

	"go-konveksi-orders/internal/ledger"
	"go-konveksi-orders/internal/model"
	"go-konveksi-orders/internal/repository"
	"go-konveksi-orders/internal/ws"
	"go-konveksi-orders/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrAlreadySettled = errors.New("order is already settled")
)

// OrderItemInput is one line item as submitted by the admin forms.
type OrderItemInput struct {
	ProductName  string             `json:"product_name" validate:"required"`
	Category     model.ItemCategory `json:"category" validate:"required,oneof=setelan atasan bawahan aksesoris"`
	Quantity     int                `json:"quantity" validate:"required,gt=0"`
	Notes        string             `json:"notes"`
	PricePerUnit int64              `json:"price_per_unit" validate:"gte=0"`
}

// CreateOrderRequest carries the new-order form. Phone is required here even
// though the column allows empty: the form insists on a WhatsApp contact.
type CreateOrderRequest struct {
	OrderNumber   string           `json:"order_number"` // generated when empty
	ClientName    string           `json:"client_name" validate:"required"`
	ClientPhone   string           `json:"client_phone" validate:"required,digits"`
	CurrentStatus string           `json:"current_status"`
	EstimatedDate string           `json:"estimated_date"` // YYYY-MM-DD, optional
	DpAmount      int64            `json:"dp_amount" validate:"gte=0"`
	Items         []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderRequest carries the edit form. The order number comes from the
// path and is immutable through this flow.
type UpdateOrderRequest struct {
	ClientName    string           `json:"client_name" validate:"required"`
	ClientPhone   string           `json:"client_phone" validate:"omitempty,digits"`
	CurrentStatus string           `json:"current_status"`
	EstimatedDate string           `json:"estimated_date"`
	DpAmount      int64            `json:"dp_amount" validate:"gte=0"`
	Items         []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

// TrackingResponse is the customer-facing projection of one order.
type TrackingResponse struct {
	OrderNumber      string               `json:"order_number"`
	ClientName       string               `json:"client_name"`
	ClientPhone      string               `json:"client_phone"` // masked
	CurrentStatus    model.OrderStatus    `json:"current_status"`
	StatusLabel      string               `json:"status_label"`
	ProgressPercent  float64              `json:"progress_percent"`
	Cancelled        bool                 `json:"cancelled"`
	EstimatedDate    *time.Time           `json:"estimated_date,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	GrandTotal       int64                `json:"grand_total"`
	DpAmount         int64                `json:"dp_amount"`
	RemainingBalance int64                `json:"remaining_balance"`
	IsPaid           bool                 `json:"is_paid"`
	Items            []model.OrderItem    `json:"order_items"`
	History          []model.OrderHistory `json:"order_history"`
}

type OrderService interface {
	Create(req *CreateOrderRequest, actor string) (*model.Order, error)
	Update(orderNumber string, req *UpdateOrderRequest, actor string) (*model.Order, error)
	ChangeStatus(orderNumber, rawStatus, description string) error
	PayOff(orderNumber, actor string) (*model.Order, error)
	Delete(id uuid.UUID, actor string) error
	GetAll() ([]model.Order, error)
	GetByNumber(orderNumber string) (*model.Order, error)
	Track(param string) (*TrackingResponse, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	historyRepo repository.HistoryRepository
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewOrderService(oRepo repository.OrderRepository, hRepo repository.HistoryRepository, db *gorm.DB, hub *ws.Hub) OrderService {
	return &orderService{
		orderRepo:   oRepo,
		historyRepo: hRepo,
		db:          db,
		wsHub:       hub,
	}
}

func firstValidationError(errs []*validator.ErrorResponse) error {
	first := errs[0]
	return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
}

func buildItems(inputs []OrderItemInput) []model.OrderItem {
	items := make([]model.OrderItem, len(inputs))
	for i, in := range inputs {
		items[i] = model.OrderItem{
			ProductName:  in.ProductName,
			Category:     in.Category,
			Quantity:     in.Quantity,
			Notes:        in.Notes,
			PricePerUnit: in.PricePerUnit,
			TotalPrice:   int64(in.Quantity) * in.PricePerUnit,
		}
	}
	return items
}

func (s *orderService) broadcast(action string, order *model.Order, actor, message string) {
	if s.wsHub == nil {
		return
	}
	go s.wsHub.BroadcastEvent(ws.Event{
		Type:   "order_update",
		Action: action,
		Order: map[string]interface{}{
			"id":             order.ID,
			"order_number":   order.OrderNumber,
			"client_name":    order.ClientName,
			"current_status": order.CurrentStatus,
			"grand_total":    order.GrandTotal,
		},
		Actor:   actor,
		Message: message,
	})
}

// Create validates the form, derives the ledger and writes header + items +
// the initial history entry in one transaction.
func (s *orderService) Create(req *CreateOrderRequest, actor string) (*model.Order, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, firstValidationError(errs)
	}

	status := model.StatusPending
	if req.CurrentStatus != "" {
		status = model.NormalizeStatus(req.CurrentStatus)
		if !model.IsValidStatus(status) {
			return nil, ErrInvalidStatus
		}
	}

	estimated, err := parseDate(req.EstimatedDate)
	if err != nil {
		return nil, err
	}

	orderNumber := req.OrderNumber
	if orderNumber == "" {
		orderNumber = model.GenerateOrderNumber(time.Now())
	}

	items := buildItems(req.Items)
	bill := ledger.Compute(items, req.DpAmount)

	order := &model.Order{
		OrderNumber:      orderNumber,
		ClientName:       req.ClientName,
		ClientPhone:      req.ClientPhone,
		CurrentStatus:    status,
		EstimatedDate:    estimated,
		GrandTotal:       bill.GrandTotal,
		DpAmount:         bill.DpAmount,
		RemainingBalance: bill.RemainingBalance,
		Items:            items,
	}
	order.CreatedBy = actor
	order.UpdatedBy = actor

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(tx, order); err != nil {
			return err
		}
		entry := &model.OrderHistory{
			OrderID: order.ID,
			Title:   "Pesanan Dibuat",
			Description: fmt.Sprintf("Order baru dibuat oleh %s. Total: Rp %s",
				actor, model.FormatRupiah(bill.GrandTotal)),
			Status:    status,
			ActorName: actor,
		}
		return s.historyRepo.Append(tx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.broadcast("order_created", order, actor,
		fmt.Sprintf("%s membuat pesanan %s untuk %s", actor, order.OrderNumber, order.ClientName))

	return order, nil
}

// Update reloads the order, diffs against a snapshot, recomputes the ledger,
// fully replaces the item set and appends the change-log entry, all in one
// transaction so a failed reinsert can no longer strand an empty order.
func (s *orderService) Update(orderNumber string, req *UpdateOrderRequest, actor string) (*model.Order, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, firstValidationError(errs)
	}

	status := model.NormalizeStatus(req.CurrentStatus)
	if !model.IsValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	estimated, err := parseDate(req.EstimatedDate)
	if err != nil {
		return nil, err
	}

	existing, err := s.orderRepo.FindByNumber(orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	original := SnapshotOf(existing)

	items := buildItems(req.Items)
	bill := ledger.Compute(items, req.DpAmount)

	edited := OrderSnapshot{
		ClientName:    req.ClientName,
		ClientPhone:   req.ClientPhone,
		Status:        status,
		EstimatedDate: req.EstimatedDate,
		DpAmount:      req.DpAmount,
		GrandTotal:    bill.GrandTotal,
	}
	changeLog := GenerateChangeLog(original, edited, actor)

	existing.ClientName = req.ClientName
	existing.ClientPhone = req.ClientPhone
	existing.CurrentStatus = status
	existing.EstimatedDate = estimated
	existing.GrandTotal = bill.GrandTotal
	existing.DpAmount = bill.DpAmount
	existing.RemainingBalance = bill.RemainingBalance
	existing.UpdatedBy = actor

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.UpdateHeader(tx, existing); err != nil {
			return err
		}
		if err := s.orderRepo.ReplaceItems(tx, existing.ID, items); err != nil {
			return err
		}
		entry := &model.OrderHistory{
			OrderID:     existing.ID,
			Title:       "Order Diperbarui",
			Description: changeLog,
			Status:      status,
			ActorName:   actor,
		}
		return s.historyRepo.Append(tx, entry)
	})
	if err != nil {
		return nil, err
	}

	existing.Items = items
	s.broadcast("order_updated", existing, actor,
		fmt.Sprintf("%s memperbarui pesanan %s", actor, existing.OrderNumber))

	return existing, nil
}

// ChangeStatus is the narrow server-side transition: allow-list check, then a
// status-only update plus one canned history entry. Invalid status or a
// missing order mutate nothing.
func (s *orderService) ChangeStatus(orderNumber, rawStatus, description string) error {
	status := model.NormalizeStatus(rawStatus)
	if !model.IsValidStatus(status) {
		return ErrInvalidStatus
	}

	order, err := s.orderRepo.FindByNumber(orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	if description == "" {
		description = fmt.Sprintf("Status diubah ke: %s", status)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.UpdateStatus(tx, order.ID, status); err != nil {
			return err
		}
		entry := &model.OrderHistory{
			OrderID:     order.ID,
			Title:       status.HistoryTitle(),
			Description: description,
			Status:      status,
		}
		return s.historyRepo.Append(tx, entry)
	})
	if err != nil {
		return err
	}

	order.CurrentStatus = status
	s.broadcast("status_changed", order, "",
		fmt.Sprintf("Status %s menjadi %s", order.OrderNumber, status))

	return nil
}

// PayOff settles the remaining balance: deposit absorbs the outstanding
// amount, remaining drops to zero, grand total stays untouched.
func (s *orderService) PayOff(orderNumber, actor string) (*model.Order, error) {
	order, err := s.orderRepo.FindByNumber(orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if ledger.IsPaid(order.RemainingBalance) {
		return nil, ErrAlreadySettled
	}

	newDp := ledger.SettleDeposit(order.DpAmount, order.RemainingBalance)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.UpdatePayment(tx, order.ID, newDp, 0); err != nil {
			return err
		}
		entry := &model.OrderHistory{
			OrderID: order.ID,
			Title:   "Pelunasan Pembayaran",
			Description: fmt.Sprintf("Pembayaran lunas via Admin. Total masuk: Rp %s.",
				model.FormatRupiah(newDp)),
			Status:    order.CurrentStatus,
			ActorName: actor,
		}
		return s.historyRepo.Append(tx, entry)
	})
	if err != nil {
		return nil, err
	}

	order.DpAmount = newDp
	order.RemainingBalance = 0
	s.broadcast("payment_settled", order, actor,
		fmt.Sprintf("Pesanan %s lunas", order.OrderNumber))

	return order, nil
}

// Delete removes an order permanently; items and history go with it through
// the FK cascade.
func (s *orderService) Delete(id uuid.UUID, actor string) error {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	if err := s.orderRepo.Delete(id); err != nil {
		return err
	}

	s.broadcast("order_deleted", order, actor,
		fmt.Sprintf("%s menghapus pesanan %s", actor, order.OrderNumber))

	return nil
}

func (s *orderService) GetAll() ([]model.Order, error) {
	return s.orderRepo.FindAll()
}

func (s *orderService) GetByNumber(orderNumber string) (*model.Order, error) {
	order, err := s.orderRepo.FindByNumber(orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// Track resolves an order for the public page: by order number first, by id
// only when the parameter is long enough to be id-shaped.
func (s *orderService) Track(param string) (*TrackingResponse, error) {
	order, err := s.orderRepo.FindByNumber(param)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if len(param) <= 20 {
			return nil, ErrOrderNotFound
		}
		id, parseErr := uuid.Parse(param)
		if parseErr != nil {
			return nil, ErrOrderNotFound
		}
		order, err = s.orderRepo.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrOrderNotFound
			}
			return nil, err
		}
	}

	return &TrackingResponse{
		OrderNumber:      order.OrderNumber,
		ClientName:       order.ClientName,
		ClientPhone:      model.MaskPhone(order.ClientPhone),
		CurrentStatus:    order.CurrentStatus,
		StatusLabel:      order.CurrentStatus.Label(),
		ProgressPercent:  order.CurrentStatus.ProgressPercent(),
		Cancelled:        order.CurrentStatus == model.StatusCancelled,
		EstimatedDate:    order.EstimatedDate,
		CreatedAt:        order.CreatedAt,
		GrandTotal:       order.GrandTotal,
		DpAmount:         order.DpAmount,
		RemainingBalance: order.RemainingBalance,
		IsPaid:           order.IsPaid(),
		Items:            order.Items,
		History:          order.History,
	}, nil
}
