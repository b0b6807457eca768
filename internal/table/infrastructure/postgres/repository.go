package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	orderdomain "restaurant-pos/internal/order/domain"
	"restaurant-pos/internal/table/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) List(ctx context.Context) ([]domain.Table, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT number, status, guests, COALESCE(current_order_id, '') FROM tables ORDER BY number`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []domain.Table
	for rows.Next() {
		var t domain.Table
		if err := rows.Scan(&t.Number, &t.Status, &t.Guests, &t.CurrentOrderID); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (r *Repository) Get(ctx context.Context, number int) (domain.Table, error) {
	var t domain.Table
	err := r.pool.QueryRow(ctx,
		`SELECT number, status, guests, COALESCE(current_order_id, '') FROM tables WHERE number = $1`,
		number).Scan(&t.Number, &t.Status, &t.Guests, &t.CurrentOrderID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Table{}, orderdomain.NotFoundError{Kind: "table", ID: fmt.Sprint(number)}
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("get table %d: %w", number, err)
	}
	return t, nil
}

func (r *Repository) Save(ctx context.Context, t domain.Table) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tables SET status = $2, guests = $3, current_order_id = NULLIF($4, '') WHERE number = $1`,
		t.Number, t.Status, t.Guests, t.CurrentOrderID)
	if err != nil {
		return fmt.Errorf("save table %d: %w", t.Number, err)
	}
	if tag.RowsAffected() == 0 {
		return orderdomain.NotFoundError{Kind: "table", ID: fmt.Sprint(t.Number)}
	}
	return nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM tables`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *Repository) SeedRange(ctx context.Context, from, to int) error {
	batch := &pgx.Batch{}
	for n := from; n <= to; n++ {
		batch.Queue(`INSERT INTO tables (number, status, guests) VALUES ($1, 'open', 0)
			ON CONFLICT (number) DO NOTHING`, n)
	}
	return r.pool.SendBatch(ctx, batch).Close()
}
