package application

import (
	"context"
	"log/slog"

	"restaurant-pos/internal/order/domain"
)

// OrderMarker flips the printed flag on an order once its ticket
// has been rendered.
type OrderMarker interface {
	MarkPrinted(ctx context.Context, orderID string) error
}

type Service struct {
	log    *slog.Logger
	marker OrderMarker
}

func NewService(log *slog.Logger, marker OrderMarker) *Service {
	return &Service{log: log, marker: marker}
}

// Process renders one kitchen ticket per station and marks the order
// printed. Rendering to the log stands in for the thermal printer.
func (s *Service) Process(ctx context.Context, req domain.PrintRequest) error {
	for _, ticket := range RenderTickets(req) {
		s.log.Info("kitchen ticket",
			"job_id", req.JobID,
			"order_id", req.Order.ID,
			"station", string(ticket.Station),
			"ticket", ticket.Body,
		)
	}
	return s.marker.MarkPrinted(ctx, req.Order.ID)
}
