package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"restaurant-pos/internal/order/application"
	"restaurant-pos/internal/order/domain"
	tabledomain "restaurant-pos/internal/table/domain"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("order-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.createOrder)
	r.Get("/", h.listOrders)
	r.Get("/{id}", h.getOrder)
	r.Put("/{id}/items", h.updateItems)
	r.Patch("/{id}/items/{itemID}", h.adjustQuantity)
	r.Post("/{id}/complete", h.complete)
	r.Post("/{id}/cancel", h.cancel)
	r.Post("/{id}/print", h.requestPrint)
	return r
}

// lineReq is one menu item plus the raw selection off the ordering
// screen; the server composes and prices it.
type lineReq struct {
	MenuItemID   string              `json:"menu_item_id"`
	Quantity     int                 `json:"quantity"`
	Options      map[string][]string `json:"options,omitempty"`
	Instructions string              `json:"instructions,omitempty"`
	Extras       []domain.AddExtra   `json:"extras,omitempty"`
	Changes      []domain.ItemChange `json:"changes,omitempty"`
	Flag         domain.SpecialFlag  `json:"flag,omitempty"`
}

type staffReq struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type createOrderReq struct {
	OrderType     domain.OrderType `json:"order_type"`
	CustomerName  string           `json:"customer_name,omitempty"`
	CustomerPhone string           `json:"customer_phone,omitempty"`
	TableNumber   *int             `json:"table_number,omitempty"`
	Guests        int              `json:"guests,omitempty"`
	ReadyMinutes  int              `json:"ready_minutes,omitempty"`
	IsPreorder    bool             `json:"is_preorder,omitempty"`
	PreorderAt    *time.Time       `json:"preorder_at,omitempty"`
	Staff         staffReq         `json:"staff"`
	Lines         []lineReq        `json:"lines"`
}

type orderResp struct {
	Order  domain.Order  `json:"order"`
	Totals domain.Totals `json:"totals"`
}

func (h *Handler) respond(w http.ResponseWriter, status int, o domain.Order) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(orderResp{Order: o, Totals: h.service.Totals(o.Items)})
}

func toLineRequests(lines []lineReq) []application.LineRequest {
	reqs := make([]application.LineRequest, 0, len(lines))
	for _, l := range lines {
		reqs = append(reqs, application.LineRequest{
			MenuItemID: l.MenuItemID,
			Selection: domain.Selection{
				Quantity:     l.Quantity,
				Options:      l.Options,
				Instructions: l.Instructions,
				Extras:       l.Extras,
				Changes:      l.Changes,
				Flag:         l.Flag,
			},
		})
	}
	return reqs
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateOrder")
	defer span.End()

	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ValidationError{Field: "body", Message: "invalid JSON"})
		return
	}

	items, err := h.service.BuildLineItems(ctx, toLineRequests(req.Lines))
	if err != nil {
		writeComposeError(w, err)
		return
	}

	draft := domain.NewDraft(req.OrderType)
	draft.CustomerName = req.CustomerName
	draft.CustomerPhone = req.CustomerPhone
	draft.TableNumber = req.TableNumber
	draft.Guests = req.Guests
	draft.Items = items
	if req.ReadyMinutes != 0 {
		draft.ReadyMinutes = req.ReadyMinutes
	}
	if req.IsPreorder {
		// A preorder pins a pickup time instead of a ready countdown.
		draft.IsPreorder = true
		draft.PreorderAt = req.PreorderAt
		draft.ReadyMinutes = 0
	}

	o, err := h.service.Submit(ctx, *draft, domain.Staff{ID: req.Staff.ID, Name: req.Staff.Name}, r.Header.Get("Idempotency-Key"))
	if err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, o)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListOrders")
	defer span.End()

	bucket := r.URL.Query().Get("bucket")
	if bucket == "" {
		bucket = "live"
	}
	if bucket != "live" && bucket != "history" {
		writeError(w, domain.ValidationError{Field: "bucket", Message: `must be "live" or "history"`})
		return
	}

	orders, err := h.service.List(ctx, application.ListFilter{
		Bucket: bucket,
		Type:   domain.OrderType(r.URL.Query().Get("type")),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"orders": orders})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetOrder")
	defer span.End()

	o, err := h.service.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, http.StatusOK, o)
}

type updateItemsReq struct {
	Staff staffReq  `json:"staff"`
	Lines []lineReq `json:"lines"`
}

func (h *Handler) updateItems(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateOrderItems")
	defer span.End()

	var req updateItemsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ValidationError{Field: "body", Message: "invalid JSON"})
		return
	}

	items, err := h.service.BuildLineItems(ctx, toLineRequests(req.Lines))
	if err != nil {
		writeComposeError(w, err)
		return
	}

	o, err := h.service.UpdateItems(ctx, chi.URLParam(r, "id"), items, domain.Staff{ID: req.Staff.ID, Name: req.Staff.Name})
	if err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, http.StatusOK, o)
}

type adjustQuantityReq struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) adjustQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AdjustQuantity")
	defer span.End()

	var req adjustQuantityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ValidationError{Field: "body", Message: "invalid JSON"})
		return
	}

	o, err := h.service.AdjustQuantity(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "itemID"), req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, http.StatusOK, o)
}

type statusChangeReq struct {
	Staff staffReq `json:"staff"`
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	h.statusChange(w, r, "CompleteOrder", h.service.Complete)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	h.statusChange(w, r, "CancelOrder", h.service.Cancel)
}

func (h *Handler) statusChange(w http.ResponseWriter, r *http.Request, span string,
	fn func(ctx context.Context, orderID string, staff domain.Staff) (domain.Order, error),
) {
	ctx, sp := h.tracer.Start(r.Context(), span)
	defer sp.End()

	var req statusChangeReq
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, domain.ValidationError{Field: "body", Message: "invalid JSON"})
			return
		}
	}

	o, err := fn(ctx, chi.URLParam(r, "id"), domain.Staff{ID: req.Staff.ID, Name: req.Staff.Name})
	if err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, http.StatusOK, o)
}

func (h *Handler) requestPrint(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RequestPrint")
	defer span.End()

	o, err := h.service.EnqueuePrint(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, http.StatusAccepted, o)
}

// writeError maps domain errors onto status codes. Lookups that miss
// are 404s; state-machine violations, occupied tables, and duplicate
// submissions are conflicts.
func writeError(w http.ResponseWriter, err error) {
	var (
		verr domain.ValidationError
		nerr domain.NotFoundError
		terr domain.InvalidTransitionError
		cerr tabledomain.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		writeJSONError(w, http.StatusBadRequest, verr.Error())
	case errors.As(err, &nerr):
		writeJSONError(w, http.StatusNotFound, nerr.Error())
	case errors.As(err, &terr):
		writeJSONError(w, http.StatusConflict, terr.Error())
	case errors.As(err, &cerr):
		writeJSONError(w, http.StatusConflict, cerr.Error())
	case errors.Is(err, application.ErrDuplicateRequest):
		writeJSONError(w, http.StatusConflict, err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeComposeError is writeError for line-item composition: here a
// NotFoundError means the request body referenced a catalog record
// that does not exist, which is the caller's data being stale, not a
// missing route target.
func writeComposeError(w http.ResponseWriter, err error) {
	var nerr domain.NotFoundError
	if errors.As(err, &nerr) {
		writeJSONError(w, http.StatusUnprocessableEntity, nerr.Error())
		return
	}
	writeError(w, err)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
