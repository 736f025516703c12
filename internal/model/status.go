package model

import "strings"

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusCutting    OrderStatus = "cutting"
	StatusProduction OrderStatus = "production"
	StatusPacking    OrderStatus = "packing"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// StatusSteps is the ordered production pipeline shown on the tracking
// progress bar. Cancelled sits outside the pipeline on purpose.
var StatusSteps = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusCutting,
	StatusProduction,
	StatusPacking,
	StatusCompleted,
}

// allowedStatuses is the only guard on status changes. Transitions are
// deliberately any-to-any: the shop skips or rewinds steps in practice.
var allowedStatuses = map[OrderStatus]bool{
	StatusPending:    true,
	StatusConfirmed:  true,
	StatusCutting:    true,
	StatusProduction: true,
	StatusPacking:    true,
	StatusCompleted:  true,
	StatusCancelled:  true,
}

// historyTitles maps a status to the title used for its history entry.
var historyTitles = map[OrderStatus]string{
	StatusPending:    "Menunggu DP",
	StatusConfirmed:  "DP Masuk / Pesanan Dikonfirmasi",
	StatusCutting:    "Pemotongan Kain",
	StatusProduction: "Proses Sablon & Jahit",
	StatusPacking:    "QC & Packing",
	StatusCompleted:  "Pesanan Selesai",
}

// statusLabels are the customer-facing labels on the tracking page.
var statusLabels = map[OrderStatus]string{
	StatusPending:    "Menunggu Konfirmasi",
	StatusConfirmed:  "Dikonfirmasi",
	StatusCutting:    "Proses Potong",
	StatusProduction: "Proses Jahit",
	StatusPacking:    "Packing",
	StatusCompleted:  "Selesai",
}

// NormalizeStatus lower-cases raw input so "PENDING" and "pending" match.
func NormalizeStatus(raw string) OrderStatus {
	return OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
}

// IsValidStatus reports whether the (already normalized) status is allowed.
func IsValidStatus(s OrderStatus) bool {
	return allowedStatuses[s]
}

// HistoryTitle returns the canned history title for a status.
// Unmapped statuses (cancelled included) fall back to a generic label.
func (s OrderStatus) HistoryTitle() string {
	if title, ok := historyTitles[s]; ok {
		return title
	}
	return "Update Status"
}

// Label returns the customer-facing label, falling back to the raw value.
func (s OrderStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// StepIndex returns the position of s in the pipeline, or -1 when s is not
// part of it (cancelled).
func (s OrderStatus) StepIndex() int {
	for i, step := range StatusSteps {
		if step == s {
			return i
		}
	}
	return -1
}

// ProgressPercent returns the tracking progress bar fill for s.
// Cancelled has no position in the pipeline, so it reports 0.
func (s OrderStatus) ProgressPercent() float64 {
	idx := s.StepIndex()
	if idx < 0 {
		return 0
	}
	return float64(idx+1) / float64(len(StatusSteps)) * 100
}

// IsOnProcess reports whether the order sits in the active production group.
func (s OrderStatus) IsOnProcess() bool {
	return s == StatusCutting || s == StatusProduction || s == StatusPacking
}
