package application

import (
	"context"

	catalog "restaurant-pos/internal/catalog/domain"
	"restaurant-pos/internal/order/domain"
)

// EventRecord is an outbox row captured alongside an order write.
type EventRecord struct {
	Type        string
	Topic       string
	Payload     []byte
	Traceparent string
}

// TableAction tells the repository what to do with the order's table
// inside the same transaction as the order write.
type TableAction int

const (
	TableNone TableAction = iota
	TableOccupy
	TableRelease
)

// ListFilter selects orders for the live and history screens.
type ListFilter struct {
	Bucket string // "live" or "history"
	Type   domain.OrderType
}

type OrderRepository interface {
	// Submit persists a new order, its line items, and the outbox
	// event in one transaction, occupying the table for dine-in.
	Submit(ctx context.Context, o domain.Order, evt EventRecord, table TableAction) error
	Get(ctx context.Context, id string) (domain.Order, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Order, error)
	// Update rewrites the order row and items. A zero-valued
	// EventRecord skips the outbox insert.
	Update(ctx context.Context, o domain.Order, evt EventRecord, table TableAction) error
}

// CatalogResolver hands the composer its catalog slice.
type CatalogResolver interface {
	Resolve(ctx context.Context, itemID string) (catalog.ResolvedItem, error)
}

// SeenStore dedupes submission requests.
type SeenStore interface {
	Seen(ctx context.Context, key string) (bool, error)
}
