package model

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ItemCategory is the small fixed vocabulary of garment categories.
type ItemCategory string

const (
	CategorySetelan   ItemCategory = "setelan"
	CategoryAtasan    ItemCategory = "atasan"
	CategoryBawahan   ItemCategory = "bawahan"
	CategoryAksesoris ItemCategory = "aksesoris"
)

// Order is one customer order (header). The ledger triple grand_total /
// dp_amount / remaining_balance is always written together, never partially.
type Order struct {
	BaseModel
	OrderNumber   string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_number" validate:"required"`
	ClientName    string      `gorm:"type:varchar(255);not null" json:"client_name" validate:"required"`
	ClientPhone   string      `gorm:"type:varchar(20)" json:"client_phone" validate:"omitempty,digits"`
	CurrentStatus OrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"current_status"`
	EstimatedDate *time.Time  `gorm:"type:date" json:"estimated_date,omitempty"`

	GrandTotal       int64 `gorm:"not null;default:0" json:"grand_total"`
	DpAmount         int64 `gorm:"not null;default:0" json:"dp_amount"`
	RemainingBalance int64 `gorm:"not null;default:0" json:"remaining_balance"`

	// Relasi (hard delete cascades ke anak)
	Items   []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
	History []OrderHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_history,omitempty"`
}

// OrderItem is one line of an order. Items never outlive their order and are
// fully replaced (delete + reinsert) on every edit.
type OrderItem struct {
	BaseModel
	OrderID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductName  string       `gorm:"type:varchar(255);not null" json:"product_name" validate:"required"`
	Category     ItemCategory `gorm:"type:varchar(20);not null;default:'atasan'" json:"category" validate:"required,oneof=setelan atasan bawahan aksesoris"`
	Quantity     int          `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Notes        string       `gorm:"type:text" json:"notes"`
	PricePerUnit int64        `gorm:"not null;default:0" json:"price_per_unit" validate:"gte=0"`
	TotalPrice   int64        `gorm:"not null;default:0" json:"total_price"` // Snapshot quantity * price_per_unit
}

// OrderHistory is an append-only audit entry for one order. Normal flows
// never update or delete rows here; display order is created_at DESC.
type OrderHistory struct {
	BaseModel
	OrderID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"order_id"`
	Title       string      `gorm:"type:varchar(255);not null" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	Status      OrderStatus `gorm:"type:varchar(20)" json:"status"`
	ActorName   string      `gorm:"type:varchar(255);default:'Admin'" json:"actor_name"`
}

func (OrderHistory) TableName() string {
	return "order_history"
}

// GenerateOrderNumber builds the conventional human-facing invoice id,
// INV-<year><month>-<random4>. Uniqueness is still the DB constraint's job.
func GenerateOrderNumber(now time.Time) string {
	return fmt.Sprintf("INV-%d%02d-%04d", now.Year(), int(now.Month()), rand.Intn(10000))
}

// FormatRupiah renders an amount with Indonesian thousand separators.
func FormatRupiah(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	if negative {
		return "-" + b.String()
	}
	return b.String()
}

// MaskPhone censors a phone number for the public tracking page:
// first 4 digits, stars, last 3 digits.
func MaskPhone(phone string) string {
	if len(phone) < 8 {
		return "-"
	}
	return phone[:4] + "****" + phone[len(phone)-3:]
}

// WhatsAppPhone rewrites a local number (08xx) to international form (628xx)
// for wa.me deep links. Non-digit characters are stripped first.
func WhatsAppPhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	p := digits.String()
	if strings.HasPrefix(p, "0") {
		return "62" + p[1:]
	}
	return p
}

// EstimationInfo summarizes how close an order is to its deadline.
type EstimationInfo struct {
	Severity string `json:"severity"` // late | today | soon | scheduled
	Text     string `json:"text"`
}

// EstimationStatus classifies the estimated date against today. Orders that
// are done or cancelled, or have no target date, report nothing.
func (o *Order) EstimationStatus(now time.Time) *EstimationInfo {
	if o.EstimatedDate == nil {
		return nil
	}
	if o.CurrentStatus == StatusCompleted || o.CurrentStatus == StatusCancelled {
		return nil
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	target := time.Date(o.EstimatedDate.Year(), o.EstimatedDate.Month(), o.EstimatedDate.Day(), 0, 0, 0, 0, now.Location())
	diffDays := int(target.Sub(today).Hours() / 24)

	switch {
	case diffDays < 0:
		return &EstimationInfo{Severity: "late", Text: fmt.Sprintf("Telat %d Hari", -diffDays)}
	case diffDays == 0:
		return &EstimationInfo{Severity: "today", Text: "Deadline Hari Ini"}
	case diffDays <= 3:
		return &EstimationInfo{Severity: "soon", Text: fmt.Sprintf("%d Hari Lagi", diffDays)}
	default:
		return &EstimationInfo{Severity: "scheduled", Text: target.Format("2 Jan")}
	}
}

// TotalQuantity sums the produced quantity across all line items.
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// IsPaid reports whether the invoice is settled (LUNAS), overpayment included.
func (o *Order) IsPaid() bool {
	return o.RemainingBalance <= 0
}
