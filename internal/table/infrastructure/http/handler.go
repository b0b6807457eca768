package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	orderdomain "restaurant-pos/internal/order/domain"
	"restaurant-pos/internal/table/application"
	"restaurant-pos/internal/table/domain"
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
		tracer:  otel.Tracer("table-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.listTables)
	r.Get("/{number}", h.getTable)
	r.Put("/{number}/guests", h.setGuests)
	r.Put("/{number}/status", h.setStatus)
	return r
}

func (h *Handler) listTables(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListTables")
	defer span.End()

	tables, err := h.service.List(ctx)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if tables == nil {
		tables = []domain.Table{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"tables": tables})
}

func (h *Handler) getTable(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetTable")
	defer span.End()

	number, err := tableNumber(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	t, err := h.service.Get(ctx, number)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, t)
}

type setGuestsReq struct {
	Guests int `json:"guests"`
}

func (h *Handler) setGuests(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SetTableGuests")
	defer span.End()

	number, err := tableNumber(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req setGuestsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, orderdomain.ValidationError{Field: "body", Message: "invalid JSON"})
		return
	}
	t, err := h.service.SetGuests(ctx, number, req.Guests)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, t)
}

type setStatusReq struct {
	Status domain.Status `json:"status"`
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SetTableStatus")
	defer span.End()

	number, err := tableNumber(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req setStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, orderdomain.ValidationError{Field: "body", Message: "invalid JSON"})
		return
	}
	if req.Status != domain.StatusOpen && req.Status != domain.StatusOccupied {
		h.writeError(w, orderdomain.ValidationError{Field: "status", Message: `must be "open" or "occupied"`})
		return
	}
	t, err := h.service.SetStatus(ctx, number, req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, t)
}

func (h *Handler) respond(w http.ResponseWriter, t domain.Table) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(t)
}

func tableNumber(r *http.Request) (int, error) {
	n, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || n < 1 {
		return 0, orderdomain.ValidationError{Field: "number", Message: "must be a positive integer"}
	}
	return n, nil
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var (
		verr orderdomain.ValidationError
		nerr orderdomain.NotFoundError
		cerr domain.ConflictError
	)
	w.Header().Set("Content-Type", "application/json")
	switch {
	case errors.As(err, &verr):
		w.WriteHeader(http.StatusBadRequest)
	case errors.As(err, &nerr):
		w.WriteHeader(http.StatusNotFound)
	case errors.As(err, &cerr):
		w.WriteHeader(http.StatusConflict)
	default:
		h.log.Error("table request failed", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal error"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
