package domain

import (
	"time"

	"restaurant-pos/pkg/money"
)

type OrderType string

const (
	DineIn   OrderType = "dine_in"
	TakeOut  OrderType = "take_out"
	Delivery OrderType = "delivery"
)

// Status is the order lifecycle state. Pending exists only in memory:
// submission writes InProgress directly, so the persisted states are
// InProgress, Completed and Canceled.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCanceled   Status = "canceled"
)

// CanTransition reports whether the move to target is legal.
// Completed and Canceled are terminal.
func (s Status) CanTransition(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusInProgress || target == StatusCanceled
	case StatusInProgress:
		return target == StatusCompleted || target == StatusCanceled
	default:
		return false
	}
}

// Staff attributes an order to the employee who took it.
type Staff struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Order is a draft in client memory until submission, then a persisted
// aggregate. SubtotalCents always equals the sum of line totals; every
// mutation path recomputes it.
type Order struct {
	ID            string          `json:"id,omitempty"`
	CustomerName  string          `json:"customer_name,omitempty"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	Type          OrderType       `json:"order_type"`
	TableNumber   *int            `json:"table_number,omitempty"`
	Guests        int             `json:"guests,omitempty"`
	Staff         *Staff          `json:"staff,omitempty"`
	Items         []OrderLineItem `json:"items"`
	SubtotalCents money.Cents     `json:"subtotal_cents"`
	Status        Status          `json:"status"`
	Printed       bool            `json:"printed"`
	PrintQueued   bool            `json:"print_queued"`
	ReadyMinutes  int             `json:"ready_minutes,omitempty"`
	IsPreorder    bool            `json:"is_preorder"`
	PreorderAt    *time.Time      `json:"preorder_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewDraft starts an empty in-memory order. Take-out drafts default
// to a twenty minute ready time, matching the ordering screen.
func NewDraft(orderType OrderType) *Order {
	o := &Order{
		Type:   orderType,
		Status: StatusPending,
	}
	if orderType == TakeOut {
		o.ReadyMinutes = 20
	}
	return o
}

// AddItem appends a composed line item and recomputes the subtotal.
func (o *Order) AddItem(li OrderLineItem) {
	o.Items = append(o.Items, li)
	o.recompute()
}

// UpdateQuantity applies the collection semantics of UpdateQuantity
// to this order and recomputes the subtotal.
func (o *Order) UpdateQuantity(lineItemID string, quantity int) {
	o.Items = UpdateQuantity(o.Items, lineItemID, quantity)
	o.recompute()
}

// RemoveItem drops the matching line item and recomputes the subtotal.
func (o *Order) RemoveItem(lineItemID string) {
	o.Items = RemoveLineItem(o.Items, lineItemID)
	o.recompute()
}

// ReplaceItems swaps the full line-item list (edit-order flow).
func (o *Order) ReplaceItems(items []OrderLineItem) {
	o.Items = items
	o.recompute()
}

func (o *Order) recompute() {
	var sum money.Cents
	for _, li := range o.Items {
		sum += li.LineTotalCents()
	}
	o.SubtotalCents = sum
}

// TotalItems is the number of dishes across all lines.
func (o *Order) TotalItems() int {
	n := 0
	for _, li := range o.Items {
		n += li.Quantity
	}
	return n
}

// Transition moves the order to target if the state machine allows
// it. Illegal requests fail with InvalidTransitionError and leave the
// order untouched; they are never coerced to a legal state.
func (o *Order) Transition(target Status) error {
	if !o.Status.CanTransition(target) {
		return InvalidTransitionError{From: o.Status, To: target}
	}
	o.Status = target
	return nil
}

// TaxRates carries the two regional sales-tax rates in basis points.
// The defaults mirror the province the app shipped in, but they are
// configuration, not constants.
type TaxRates struct {
	PST money.Rate
	GST money.Rate
}

// DefaultTaxRates is PST 6%, GST 5%.
var DefaultTaxRates = TaxRates{PST: 600, GST: 500}

// Totals is the receipt breakdown. Total always equals
// Subtotal + PST + GST exactly.
type Totals struct {
	SubtotalCents money.Cents `json:"subtotal_cents"`
	PSTCents      money.Cents `json:"pst_cents"`
	GSTCents      money.Cents `json:"gst_cents"`
	TotalCents    money.Cents `json:"total_cents"`
}

// AggregateTotals sums line totals and applies both taxes to the
// subtotal.
func AggregateTotals(items []OrderLineItem, rates TaxRates) Totals {
	var subtotal money.Cents
	for _, li := range items {
		subtotal += li.LineTotalCents()
	}
	pst := money.Tax(subtotal, rates.PST)
	gst := money.Tax(subtotal, rates.GST)
	return Totals{
		SubtotalCents: subtotal,
		PSTCents:      pst,
		GSTCents:      gst,
		TotalCents:    subtotal + pst + gst,
	}
}
