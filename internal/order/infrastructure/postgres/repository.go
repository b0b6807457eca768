package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-pos/internal/order/application"
	"restaurant-pos/internal/order/domain"
	tabledomain "restaurant-pos/internal/table/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Submit(ctx context.Context, o domain.Order, evt application.EventRecord, table application.TableAction) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, customer_name, customer_phone, order_type, table_number, guests,
			staff_id, staff_name, subtotal_cents, status, printed, print_queued,
			ready_minutes, is_preorder, preorder_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		o.ID, o.CustomerName, o.CustomerPhone, o.Type, o.TableNumber, o.Guests,
		staffID(o.Staff), staffName(o.Staff), o.SubtotalCents, o.Status, o.Printed, o.PrintQueued,
		o.ReadyMinutes, o.IsPreorder, o.PreorderAt, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if err := insertItems(ctx, tx, o); err != nil {
		return err
	}
	if err := applyTableAction(ctx, tx, o, table); err != nil {
		return err
	}
	if err := insertOutbox(ctx, tx, o.ID, evt); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repository) Update(ctx context.Context, o domain.Order, evt application.EventRecord, table application.TableAction) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx, `
		UPDATE orders SET customer_name=$2, customer_phone=$3, subtotal_cents=$4, status=$5,
			printed=$6, print_queued=$7, staff_id=$8, staff_name=$9, updated_at=$10
		WHERE id=$1`,
		o.ID, o.CustomerName, o.CustomerPhone, o.SubtotalCents, o.Status,
		o.Printed, o.PrintQueued, staffID(o.Staff), staffName(o.Staff), o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundError{Kind: "order", ID: o.ID}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id=$1`, o.ID); err != nil {
		return fmt.Errorf("clear order items: %w", err)
	}
	if err := insertItems(ctx, tx, o); err != nil {
		return err
	}
	if err := applyTableAction(ctx, tx, o, table); err != nil {
		return err
	}
	if evt.Type != "" {
		if err := insertOutbox(ctx, tx, o.ID, evt); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func insertItems(ctx context.Context, tx pgx.Tx, o domain.Order) error {
	batch := &pgx.Batch{}
	for pos, li := range o.Items {
		extrasJSON, err := json.Marshal(li.Extras)
		if err != nil {
			return err
		}
		changesJSON, err := json.Marshal(li.Changes)
		if err != nil {
			return err
		}
		optionsJSON, err := json.Marshal(li.Options)
		if err != nil {
			return err
		}
		batch.Queue(`
			INSERT INTO order_items (id, order_id, position, name, unit_price_cents, quantity,
				instructions, options, extras, changes, is_to_go, is_appetizer, kitchen_type)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			li.ID, o.ID, pos, li.Name, li.UnitPriceCents, li.Quantity,
			li.Instructions, optionsJSON, extrasJSON, changesJSON,
			li.IsToGo, li.IsAppetizer, li.KitchenType)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}

func applyTableAction(ctx context.Context, tx pgx.Tx, o domain.Order, action application.TableAction) error {
	if action == application.TableNone || o.TableNumber == nil {
		return nil
	}
	switch action {
	case application.TableOccupy:
		tag, err := tx.Exec(ctx, `
			UPDATE tables SET status='occupied', current_order_id=$2, guests=$3
			WHERE number=$1 AND (status='open' OR current_order_id=$2)`,
			*o.TableNumber, o.ID, o.Guests)
		if err != nil {
			return fmt.Errorf("occupy table: %w", err)
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM tables WHERE number=$1)`,
				*o.TableNumber).Scan(&exists); err != nil {
				return fmt.Errorf("occupy table: %w", err)
			}
			if !exists {
				return domain.NotFoundError{Kind: "table", ID: fmt.Sprint(*o.TableNumber)}
			}
			return tabledomain.ConflictError{Number: *o.TableNumber, Message: "already occupied"}
		}
	case application.TableRelease:
		_, err := tx.Exec(ctx, `
			UPDATE tables SET status='open', current_order_id=NULL, guests=0
			WHERE number=$1 AND current_order_id=$2`,
			*o.TableNumber, o.ID)
		if err != nil {
			return fmt.Errorf("release table: %w", err)
		}
	}
	return nil
}

func insertOutbox(ctx context.Context, tx pgx.Tx, orderID string, evt application.EventRecord) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO outbox (aggregate_type, aggregate_id, type, topic, payload, traceparent, status)
		VALUES ('order', $1, $2, $3, $4, $5, 'pending')`,
		orderID, evt.Type, evt.Topic, evt.Payload, evt.Traceparent)
	if err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}
	return nil
}

const orderColumns = `id, customer_name, customer_phone, order_type, table_number, guests,
	COALESCE(staff_id,''), COALESCE(staff_name,''), subtotal_cents, status,
	printed, print_queued, ready_minutes, is_preorder, preorder_at, created_at, updated_at`

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	var staffID, staffName string
	err := row.Scan(
		&o.ID, &o.CustomerName, &o.CustomerPhone, &o.Type, &o.TableNumber, &o.Guests,
		&staffID, &staffName, &o.SubtotalCents, &o.Status,
		&o.Printed, &o.PrintQueued, &o.ReadyMinutes, &o.IsPreorder, &o.PreorderAt,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return domain.Order{}, err
	}
	if staffID != "" || staffName != "" {
		o.Staff = &domain.Staff{ID: staffID, Name: staffName}
	}
	return o, nil
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.NotFoundError{Kind: "order", ID: id}
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	o.Items = items
	return o, nil
}

func (r *Repository) List(ctx context.Context, filter application.ListFilter) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}
	where := ""
	switch filter.Bucket {
	case "live":
		where = ` WHERE status = 'in_progress'`
	case "history":
		where = ` WHERE status IN ('completed','canceled')`
	}
	if filter.Type != "" {
		if where == "" {
			where = ` WHERE order_type = $1`
		} else {
			where += ` AND order_type = $1`
		}
		args = append(args, filter.Type)
	}
	query += where + ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *Repository) loadItems(ctx context.Context, orderID string) ([]domain.OrderLineItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, unit_price_cents, quantity, instructions,
			options, extras, changes, is_to_go, is_appetizer, kitchen_type
		FROM order_items WHERE order_id=$1 ORDER BY position`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderLineItem
	for rows.Next() {
		var li domain.OrderLineItem
		var optionsJSON, extrasJSON, changesJSON []byte
		if err := rows.Scan(&li.ID, &li.Name, &li.UnitPriceCents, &li.Quantity, &li.Instructions,
			&optionsJSON, &extrasJSON, &changesJSON, &li.IsToGo, &li.IsAppetizer, &li.KitchenType); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(optionsJSON, &li.Options); err != nil {
			return nil, fmt.Errorf("decode options for item %s: %w", li.ID, err)
		}
		if err := json.Unmarshal(extrasJSON, &li.Extras); err != nil {
			return nil, fmt.Errorf("decode extras for item %s: %w", li.ID, err)
		}
		if err := json.Unmarshal(changesJSON, &li.Changes); err != nil {
			return nil, fmt.Errorf("decode changes for item %s: %w", li.ID, err)
		}
		items = append(items, li)
	}
	return items, rows.Err()
}

func staffID(s *domain.Staff) *string {
	if s == nil || s.ID == "" {
		return nil
	}
	return &s.ID
}

func staffName(s *domain.Staff) *string {
	if s == nil || s.Name == "" {
		return nil
	}
	return &s.Name
}
