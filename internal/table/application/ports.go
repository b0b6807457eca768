package application

import (
	"context"

	"restaurant-pos/internal/table/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Table, error)
	Get(ctx context.Context, number int) (domain.Table, error)
	Save(ctx context.Context, t domain.Table) error
	Count(ctx context.Context) (int, error)
	SeedRange(ctx context.Context, from, to int) error
}
