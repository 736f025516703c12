package repository

import (
	"go-konveksi-orders/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryRepository appends audit entries. There is no update or delete on
// purpose: the trail is append-only.
type HistoryRepository interface {
	Append(tx *gorm.DB, entry *model.OrderHistory) error
	FindByOrderID(orderID uuid.UUID) ([]model.OrderHistory, error)
}

type historyRepo struct {
	db *gorm.DB
}

func NewHistoryRepo(db *gorm.DB) HistoryRepository {
	return &historyRepo{db}
}

func (r *historyRepo) Append(tx *gorm.DB, entry *model.OrderHistory) error {
	return tx.Create(entry).Error
}

func (r *historyRepo) FindByOrderID(orderID uuid.UUID) ([]model.OrderHistory, error) {
	var entries []model.OrderHistory
	err := r.db.
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
