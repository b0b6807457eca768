package domain

import (
	"time"

	"restaurant-pos/pkg/money"
)

// Event types carried on the order topic and consumed by the print
// worker and any downstream subscriber.
const (
	EventOrderSubmitted     = "order_submitted"
	EventOrderUpdated       = "order_updated"
	EventOrderStatusChanged = "order_status_changed"
	EventPrintRequested     = "print_requested"
)

type OrderSubmitted struct {
	OrderID       string      `json:"order_id"`
	OrderType     OrderType   `json:"order_type"`
	TableNumber   *int        `json:"table_number,omitempty"`
	CustomerName  string      `json:"customer_name,omitempty"`
	SubtotalCents money.Cents `json:"subtotal_cents"`
	ItemCount     int         `json:"item_count"`
	StaffName     string      `json:"staff_name,omitempty"`
	SubmittedAt   time.Time   `json:"submitted_at"`
}

type OrderUpdated struct {
	OrderID       string      `json:"order_id"`
	SubtotalCents money.Cents `json:"subtotal_cents"`
	ItemCount     int         `json:"item_count"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type OrderStatusChanged struct {
	OrderID   string    `json:"order_id"`
	From      Status    `json:"from"`
	To        Status    `json:"to"`
	StaffName string    `json:"staff_name,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}

// PrintRequest is the payload the print worker consumes. It carries
// the whole order so tickets can be rendered without a read back.
type PrintRequest struct {
	JobID       string    `json:"job_id"`
	Order       Order     `json:"order"`
	Totals      Totals    `json:"totals"`
	RequestedAt time.Time `json:"requested_at"`
}
