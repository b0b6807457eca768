package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-pos/internal/catalog/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Version(ctx context.Context) (int64, error) {
	var v int64
	err := r.pool.QueryRow(ctx, `SELECT version FROM menu_version WHERE id = 1`).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("read menu version: %w", err)
	}
	return v, nil
}

func (r *Repository) BumpVersion(ctx context.Context) (int64, error) {
	var v int64
	err := r.pool.QueryRow(ctx,
		`UPDATE menu_version SET version = version + 1 WHERE id = 1 RETURNING version`).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("bump menu version: %w", err)
	}
	return v, nil
}

func (r *Repository) LoadMenu(ctx context.Context) (domain.Menu, error) {
	var menu domain.Menu

	rows, err := r.pool.Query(ctx,
		`SELECT id, name, position, item_ids FROM categories ORDER BY position`)
	if err != nil {
		return domain.Menu{}, fmt.Errorf("load categories: %w", err)
	}
	for rows.Next() {
		var c domain.FoodCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Position, &c.ItemIDs); err != nil {
			rows.Close()
			return domain.Menu{}, err
		}
		menu.Categories = append(menu.Categories, c)
	}
	rows.Close()
	if rows.Err() != nil {
		return domain.Menu{}, rows.Err()
	}

	rows, err = r.pool.Query(ctx,
		`SELECT id, name, price_cents, kitchen_type, option_group_ids, category_ids FROM menu_items`)
	if err != nil {
		return domain.Menu{}, fmt.Errorf("load menu items: %w", err)
	}
	for rows.Next() {
		var it domain.MenuItem
		if err := rows.Scan(&it.ID, &it.Name, &it.PriceCents, &it.KitchenType,
			&it.OptionGroupIDs, &it.CategoryIDs); err != nil {
			rows.Close()
			return domain.Menu{}, err
		}
		menu.Items = append(menu.Items, it)
	}
	rows.Close()
	if rows.Err() != nil {
		return domain.Menu{}, rows.Err()
	}

	rows, err = r.pool.Query(ctx,
		`SELECT id, name, min_selection, max_selection, option_ids FROM option_groups`)
	if err != nil {
		return domain.Menu{}, fmt.Errorf("load option groups: %w", err)
	}
	for rows.Next() {
		var g domain.OptionGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.MinSelection, &g.MaxSelection, &g.OptionIDs); err != nil {
			rows.Close()
			return domain.Menu{}, err
		}
		menu.Groups = append(menu.Groups, g)
	}
	rows.Close()
	if rows.Err() != nil {
		return domain.Menu{}, rows.Err()
	}

	rows, err = r.pool.Query(ctx,
		`SELECT id, name, price_cents, group_ids FROM item_options`)
	if err != nil {
		return domain.Menu{}, fmt.Errorf("load item options: %w", err)
	}
	for rows.Next() {
		var o domain.ItemOption
		if err := rows.Scan(&o.ID, &o.Name, &o.PriceCents, &o.GroupIDs); err != nil {
			rows.Close()
			return domain.Menu{}, err
		}
		menu.Options = append(menu.Options, o)
	}
	rows.Close()
	if rows.Err() != nil {
		return domain.Menu{}, rows.Err()
	}

	return menu, nil
}
