package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"restaurant-pos/internal/order/domain"
	"restaurant-pos/pkg/idempotency"
	"restaurant-pos/pkg/tracing"
)

var ErrDuplicateRequest = errors.New("duplicate request")

// Config carries the deployment-specific knobs: tax rates and the two
// kafka topics the outbox routes to.
type Config struct {
	Rates       domain.TaxRates
	OrdersTopic string
	PrintTopic  string
}

type Service struct {
	log     *slog.Logger
	repo    OrderRepository
	catalog CatalogResolver
	seen    SeenStore
	cfg     Config
}

func NewService(log *slog.Logger, repo OrderRepository, catalog CatalogResolver, seen SeenStore, cfg Config) *Service {
	return &Service{log: log, repo: repo, catalog: catalog, seen: seen, cfg: cfg}
}

// LineRequest is one raw line of a submission: a menu item plus the
// user's selection, exactly as the ordering screen collected it.
type LineRequest struct {
	MenuItemID string
	Selection  domain.Selection
}

// BuildLineItems resolves each request against the catalog and runs
// it through the composer. The first failing line aborts the build.
func (s *Service) BuildLineItems(ctx context.Context, reqs []LineRequest) ([]domain.OrderLineItem, error) {
	items := make([]domain.OrderLineItem, 0, len(reqs))
	for _, req := range reqs {
		resolved, err := s.catalog.Resolve(ctx, req.MenuItemID)
		if err != nil {
			return nil, err
		}
		li, err := domain.ComposeLineItem(resolved, req.Selection)
		if err != nil {
			return nil, err
		}
		items = append(items, li)
	}
	return items, nil
}

// Totals prices a line-item list with the configured tax rates.
func (s *Service) Totals(items []domain.OrderLineItem) domain.Totals {
	return domain.AggregateTotals(items, s.cfg.Rates)
}

// Submit validates a draft, dedupes the request, and persists the
// order as InProgress together with its submission event. Dine-in
// orders occupy their table in the same transaction.
func (s *Service) Submit(ctx context.Context, draft domain.Order, staff domain.Staff, requestID string) (domain.Order, error) {
	if err := validateDraft(&draft); err != nil {
		return domain.Order{}, err
	}

	if requestID != "" {
		dup, err := s.seen.Seen(ctx, idempotency.SubmitKey(requestID))
		if err != nil {
			return domain.Order{}, fmt.Errorf("idempotency check: %w", err)
		}
		if dup {
			return domain.Order{}, ErrDuplicateRequest
		}
	}

	now := time.Now().UTC()
	draft.ID = uuid.NewString()
	draft.Staff = &staff
	draft.Status = domain.StatusPending
	draft.Printed = false
	draft.PrintQueued = false
	draft.CreatedAt = now
	draft.UpdatedAt = now
	draft.ReplaceItems(draft.Items) // recompute subtotal before persisting

	// Pending never reaches storage: submission goes straight to
	// InProgress.
	if err := draft.Transition(domain.StatusInProgress); err != nil {
		return domain.Order{}, err
	}

	evt, err := s.event(ctx, domain.EventOrderSubmitted, s.cfg.OrdersTopic, domain.OrderSubmitted{
		OrderID:       draft.ID,
		OrderType:     draft.Type,
		TableNumber:   draft.TableNumber,
		CustomerName:  draft.CustomerName,
		SubtotalCents: draft.SubtotalCents,
		ItemCount:     draft.TotalItems(),
		StaffName:     staff.Name,
		SubmittedAt:   now,
	})
	if err != nil {
		return domain.Order{}, err
	}

	table := TableNone
	if draft.Type == domain.DineIn {
		table = TableOccupy
	}
	if err := s.repo.Submit(ctx, draft, evt, table); err != nil {
		return domain.Order{}, fmt.Errorf("submit order: %w", err)
	}

	s.log.Info("order submitted",
		"order_id", draft.ID,
		"order_type", draft.Type,
		"subtotal_cents", draft.SubtotalCents,
		"items", draft.TotalItems())
	return draft, nil
}

func validateDraft(o *domain.Order) error {
	if len(o.Items) == 0 {
		return domain.ValidationError{Field: "items", Message: "cannot submit an empty order"}
	}
	switch o.Type {
	case domain.DineIn:
		if o.TableNumber == nil {
			return domain.ValidationError{Field: "table_number", Message: "required for dine-in orders"}
		}
	case domain.TakeOut, domain.Delivery:
		if o.CustomerName == "" && o.CustomerPhone == "" {
			return domain.ValidationError{Field: "customer", Message: "name or phone number is required"}
		}
	default:
		return domain.ValidationError{Field: "order_type", Message: fmt.Sprintf("unknown order type %q", o.Type)}
	}
	if o.IsPreorder {
		if o.PreorderAt == nil {
			return domain.ValidationError{Field: "preorder_at", Message: "required for preorders"}
		}
		if o.ReadyMinutes != 0 {
			return domain.ValidationError{Field: "ready_minutes", Message: "mutually exclusive with a preorder time"}
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, orderID string) (domain.Order, error) {
	return s.repo.Get(ctx, orderID)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]domain.Order, error) {
	return s.repo.List(ctx, filter)
}

// UpdateItems replaces a live order's line items (edit-order flow).
func (s *Service) UpdateItems(ctx context.Context, orderID string, items []domain.OrderLineItem, staff domain.Staff) (domain.Order, error) {
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if o.Status != domain.StatusInProgress {
		return domain.Order{}, domain.InvalidTransitionError{From: o.Status, To: o.Status}
	}
	if len(items) == 0 {
		return domain.Order{}, domain.ValidationError{Field: "items", Message: "an order cannot be emptied; cancel it instead"}
	}

	o.ReplaceItems(items)
	o.Staff = &staff
	o.UpdatedAt = time.Now().UTC()

	evt, err := s.event(ctx, domain.EventOrderUpdated, s.cfg.OrdersTopic, domain.OrderUpdated{
		OrderID:       o.ID,
		SubtotalCents: o.SubtotalCents,
		ItemCount:     o.TotalItems(),
		UpdatedAt:     o.UpdatedAt,
	})
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.repo.Update(ctx, o, evt, TableNone); err != nil {
		return domain.Order{}, fmt.Errorf("update order: %w", err)
	}
	return o, nil
}

// AdjustQuantity applies the draft quantity semantics to a persisted
// live order: zero removes the line, an unknown line id is a no-op.
// Removing the last line is refused; an order never persists empty.
func (s *Service) AdjustQuantity(ctx context.Context, orderID, lineItemID string, quantity int) (domain.Order, error) {
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if o.Status != domain.StatusInProgress {
		return domain.Order{}, domain.InvalidTransitionError{From: o.Status, To: o.Status}
	}

	// Unknown line ids pass through as a no-op; the rewrite below is
	// then a harmless identity write.
	o.UpdateQuantity(lineItemID, quantity)
	if len(o.Items) == 0 {
		return domain.Order{}, domain.ValidationError{Field: "items", Message: "an order cannot be emptied; cancel it instead"}
	}
	o.UpdatedAt = time.Now().UTC()

	evt, err := s.event(ctx, domain.EventOrderUpdated, s.cfg.OrdersTopic, domain.OrderUpdated{
		OrderID:       o.ID,
		SubtotalCents: o.SubtotalCents,
		ItemCount:     o.TotalItems(),
		UpdatedAt:     o.UpdatedAt,
	})
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.repo.Update(ctx, o, evt, TableNone); err != nil {
		return domain.Order{}, fmt.Errorf("adjust quantity: %w", err)
	}
	return o, nil
}

// Complete finishes a live order; dine-in tables are released in the
// same transaction.
func (s *Service) Complete(ctx context.Context, orderID string, staff domain.Staff) (domain.Order, error) {
	return s.transition(ctx, orderID, domain.StatusCompleted, staff)
}

// Cancel aborts a live order and releases its table.
func (s *Service) Cancel(ctx context.Context, orderID string, staff domain.Staff) (domain.Order, error) {
	return s.transition(ctx, orderID, domain.StatusCanceled, staff)
}

func (s *Service) transition(ctx context.Context, orderID string, target domain.Status, staff domain.Staff) (domain.Order, error) {
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	from := o.Status
	if err := o.Transition(target); err != nil {
		return domain.Order{}, err
	}
	o.UpdatedAt = time.Now().UTC()

	evt, err := s.event(ctx, domain.EventOrderStatusChanged, s.cfg.OrdersTopic, domain.OrderStatusChanged{
		OrderID:   o.ID,
		From:      from,
		To:        target,
		StaffName: staff.Name,
		ChangedAt: o.UpdatedAt,
	})
	if err != nil {
		return domain.Order{}, err
	}

	table := TableNone
	if o.Type == domain.DineIn {
		table = TableRelease
	}
	if err := s.repo.Update(ctx, o, evt, table); err != nil {
		return domain.Order{}, fmt.Errorf("transition order: %w", err)
	}

	s.log.Info("order status changed", "order_id", o.ID, "from", from, "to", target)
	return o, nil
}

// EnqueuePrint marks the order queued and emits a print job carrying
// the full ticket. Already-queued orders are left alone.
func (s *Service) EnqueuePrint(ctx context.Context, orderID string) (domain.Order, error) {
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if o.PrintQueued {
		return o, nil
	}

	o.PrintQueued = true
	o.UpdatedAt = time.Now().UTC()

	evt, err := s.event(ctx, domain.EventPrintRequested, s.cfg.PrintTopic, domain.PrintRequest{
		JobID:       uuid.NewString(),
		Order:       o,
		Totals:      s.Totals(o.Items),
		RequestedAt: o.UpdatedAt,
	})
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.repo.Update(ctx, o, evt, TableNone); err != nil {
		return domain.Order{}, fmt.Errorf("enqueue print: %w", err)
	}
	return o, nil
}

// MarkPrinted records that the kitchen ticket came off the printer.
// Called by the print worker after rendering.
func (s *Service) MarkPrinted(ctx context.Context, orderID string) error {
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return err
	}
	o.Printed = true
	o.PrintQueued = false
	o.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, o, EventRecord{}, TableNone)
}

func (s *Service) event(ctx context.Context, eventType, topic string, payload any) (EventRecord, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return EventRecord{}, fmt.Errorf("marshal %s: %w", eventType, err)
	}
	return EventRecord{
		Type:        eventType,
		Topic:       topic,
		Payload:     raw,
		Traceparent: tracing.Traceparent(ctx),
	}, nil
}
