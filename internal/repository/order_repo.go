package repository

import (
	"go-konveksi-orders/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	FindAll() ([]model.Order, error)
	FindAllActive() ([]model.Order, error)
	FindByID(id uuid.UUID) (*model.Order, error)
	FindByNumber(orderNumber string) (*model.Order, error)
	UpdateHeader(tx *gorm.DB, order *model.Order) error
	UpdateStatus(tx *gorm.DB, id uuid.UUID, status model.OrderStatus) error
	UpdatePayment(tx *gorm.DB, id uuid.UUID, dpAmount, remainingBalance int64) error
	ReplaceItems(tx *gorm.DB, orderID uuid.UUID, items []model.OrderItem) error
	Delete(id uuid.UUID) error
	MonthlyRevenue() ([]MonthlyRevenue, error)
}

// MonthlyRevenue is one bucket of the revenue trend chart.
type MonthlyRevenue struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Total int64 `json:"total"`
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) Create(tx *gorm.DB, order *model.Order) error {
	return tx.Create(order).Error
}

// FindAll returns every order with nested items and history, newest first.
func (r *orderRepo) FindAll() ([]model.Order, error) {
	var orders []model.Order
	err := r.db.
		Preload("Items").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// FindAllActive excludes cancelled orders, for the analytics view.
func (r *orderRepo) FindAllActive() ([]model.Order, error) {
	var orders []model.Order
	err := r.db.
		Preload("Items").
		Where("current_status <> ?", model.StatusCancelled).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.
		Preload("Items").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindByNumber(orderNumber string) (*model.Order, error) {
	var order model.Order
	err := r.db.
		Preload("Items").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&order, "order_number = ?", orderNumber).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateHeader writes the editable header fields plus the ledger triple.
// Callers must have recomputed the triple together before calling.
func (r *orderRepo) UpdateHeader(tx *gorm.DB, order *model.Order) error {
	return tx.Model(&model.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"client_name":       order.ClientName,
			"client_phone":      order.ClientPhone,
			"current_status":    order.CurrentStatus,
			"estimated_date":    order.EstimatedDate,
			"grand_total":       order.GrandTotal,
			"dp_amount":         order.DpAmount,
			"remaining_balance": order.RemainingBalance,
			"updated_by":        order.UpdatedBy,
		}).Error
}

func (r *orderRepo) UpdateStatus(tx *gorm.DB, id uuid.UUID, status model.OrderStatus) error {
	return tx.Model(&model.Order{}).
		Where("id = ?", id).
		Update("current_status", status).Error
}

func (r *orderRepo) UpdatePayment(tx *gorm.DB, id uuid.UUID, dpAmount, remainingBalance int64) error {
	return tx.Model(&model.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"dp_amount":         dpAmount,
			"remaining_balance": remainingBalance,
		}).Error
}

// ReplaceItems deletes every existing item and reinserts the given set.
// Full replace, not merge: per-item id reconciliation is deliberately avoided.
func (r *orderRepo) ReplaceItems(tx *gorm.DB, orderID uuid.UUID, items []model.OrderItem) error {
	if err := tx.Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	return tx.Create(&items).Error
}

func (r *orderRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Order{}, "id = ?", id).Error
}

// MonthlyRevenue aggregates grand totals of non-cancelled orders per creation
// month, oldest first.
func (r *orderRepo) MonthlyRevenue() ([]MonthlyRevenue, error) {
	var results []MonthlyRevenue

	rows, err := r.db.Model(&model.Order{}).
		Select(`
			EXTRACT(YEAR FROM created_at)::int as year,
			EXTRACT(MONTH FROM created_at)::int as month,
			COALESCE(SUM(grand_total), 0) as total
		`).
		Where("current_status <> ?", model.StatusCancelled).
		Group("1, 2").
		Order("1 ASC, 2 ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data MonthlyRevenue
		if err := rows.Scan(&data.Year, &data.Month, &data.Total); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}
