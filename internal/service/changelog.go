package service

import (
	"fmt"
	"strings"
	"time"

	"go-konveksi-orders/internal/ledger"
	"go-konveksi-orders/internal/model"
)

// OrderSnapshot is an immutable copy of the diffable header state, captured
// at edit-load time. GrandTotal is recomputed from the item snapshot, not
// read from the stored column.
type OrderSnapshot struct {
	ClientName    string
	ClientPhone   string
	Status        model.OrderStatus
	EstimatedDate string // "2006-01-02" or empty
	DpAmount      int64
	GrandTotal    int64
}

// SnapshotOf captures the diffable state of an order and its items.
func SnapshotOf(order *model.Order) OrderSnapshot {
	estimated := ""
	if order.EstimatedDate != nil {
		estimated = order.EstimatedDate.Format("2006-01-02")
	}
	return OrderSnapshot{
		ClientName:    order.ClientName,
		ClientPhone:   order.ClientPhone,
		Status:        order.CurrentStatus,
		EstimatedDate: estimated,
		DpAmount:      order.DpAmount,
		GrandTotal:    ledger.GrandTotal(order.Items),
	}
}

func formatSnapshotDate(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// GenerateChangeLog builds the human-readable audit description for an edit.
// Sentences are emitted in a fixed order and joined with periods. Deposit
// decreases are intentionally silent; only fresh payments are newsworthy.
func GenerateChangeLog(original, edited OrderSnapshot, actor string) string {
	var changes []string

	if edited.ClientName != original.ClientName {
		changes = append(changes,
			fmt.Sprintf("Nama klien berubah: %q -> %q", original.ClientName, edited.ClientName))
	}

	if edited.ClientPhone != original.ClientPhone {
		changes = append(changes,
			fmt.Sprintf("No HP berubah: %q -> %q", original.ClientPhone, edited.ClientPhone))
	}

	if edited.Status != original.Status {
		changes = append(changes,
			fmt.Sprintf("Status berubah: %s -> %s", original.Status, edited.Status))
	}

	if edited.EstimatedDate != original.EstimatedDate {
		changes = append(changes,
			fmt.Sprintf("Estimasi selesai berubah: %s -> %s",
				formatSnapshotDate(original.EstimatedDate), edited.EstimatedDate))
	}

	if dpDiff := edited.DpAmount - original.DpAmount; dpDiff > 0 {
		changes = append(changes,
			fmt.Sprintf("Menambahkan pembayaran DP sebesar Rp %s", model.FormatRupiah(dpDiff)))
	}

	if edited.GrandTotal != original.GrandTotal {
		changes = append(changes,
			fmt.Sprintf("Nilai proyek berubah: Rp %s", model.FormatRupiah(edited.GrandTotal-original.GrandTotal)))
	}

	if len(changes) == 0 {
		return fmt.Sprintf("Data disimpan ulang oleh %s tanpa perubahan signifikan.", actor)
	}
	return strings.Join(changes, ". ") + "."
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return &t, nil
}
