package domain

import "fmt"

type Status string

const (
	StatusOpen     Status = "open"
	StatusOccupied Status = "occupied"
)

// Table is one dine-in table. CurrentOrderID points at the active
// order while the table is occupied.
type Table struct {
	Number         int    `json:"number"`
	Status         Status `json:"status"`
	Guests         int    `json:"guests"`
	CurrentOrderID string `json:"current_order_id,omitempty"`
}

// ConflictError reports an occupy/release request that contradicts
// the table's current state.
type ConflictError struct {
	Number  int
	Message string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("table %d: %s", e.Number, e.Message)
}

// Occupy binds the table to an order. An already-occupied table
// cannot take a second order.
func (t *Table) Occupy(orderID string) error {
	if t.Status == StatusOccupied {
		return ConflictError{Number: t.Number, Message: "already occupied"}
	}
	t.Status = StatusOccupied
	t.CurrentOrderID = orderID
	return nil
}

// Release frees the table after its order completes or cancels. The
// order id must match so a stale release cannot clear a newer order.
func (t *Table) Release(orderID string) error {
	if t.CurrentOrderID != "" && t.CurrentOrderID != orderID {
		return ConflictError{Number: t.Number, Message: "held by a different order"}
	}
	t.Status = StatusOpen
	t.CurrentOrderID = ""
	t.Guests = 0
	return nil
}
