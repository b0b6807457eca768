package application

import (
	"context"
	"fmt"
	"log/slog"

	"restaurant-pos/internal/table/domain"
)

// The floor has a fixed table set; first boot seeds it.
const seededTables = 15

type Service struct {
	log  *slog.Logger
	repo Repository
}

func NewService(log *slog.Logger, repo Repository) *Service {
	return &Service{log: log, repo: repo}
}

// EnsureSeeded creates tables 1..15 when the table set is empty.
func (s *Service) EnsureSeeded(ctx context.Context) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count tables: %w", err)
	}
	if n > 0 {
		return nil
	}
	if err := s.repo.SeedRange(ctx, 1, seededTables); err != nil {
		return fmt.Errorf("seed tables: %w", err)
	}
	s.log.Info("seeded tables", "count", seededTables)
	return nil
}

func (s *Service) List(ctx context.Context) ([]domain.Table, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, number int) (domain.Table, error) {
	return s.repo.Get(ctx, number)
}

// SetGuests records the party size for a table.
func (s *Service) SetGuests(ctx context.Context, number, guests int) (domain.Table, error) {
	t, err := s.repo.Get(ctx, number)
	if err != nil {
		return domain.Table{}, err
	}
	t.Guests = guests
	if err := s.repo.Save(ctx, t); err != nil {
		return domain.Table{}, err
	}
	return t, nil
}

// SetStatus forces a table open or occupied from the floor screen,
// without touching any order linkage.
func (s *Service) SetStatus(ctx context.Context, number int, status domain.Status) (domain.Table, error) {
	t, err := s.repo.Get(ctx, number)
	if err != nil {
		return domain.Table{}, err
	}
	t.Status = status
	if status == domain.StatusOpen {
		t.CurrentOrderID = ""
		t.Guests = 0
	}
	if err := s.repo.Save(ctx, t); err != nil {
		return domain.Table{}, err
	}
	return t, nil
}
