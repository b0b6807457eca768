package application

import (
	"context"

	"restaurant-pos/internal/catalog/domain"
)

// Repository is the Postgres-backed source of truth for menu data.
type Repository interface {
	Version(ctx context.Context) (int64, error)
	BumpVersion(ctx context.Context) (int64, error)
	LoadMenu(ctx context.Context) (domain.Menu, error)
}

// Cache holds a menu bundle keyed by its version so the read path
// skips Postgres until the version advances.
type Cache interface {
	Get(ctx context.Context, version int64) (domain.Menu, bool, error)
	Set(ctx context.Context, menu domain.Menu) error
}
