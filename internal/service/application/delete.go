package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/scholarship-backend/internal/domain"
)

// Delete removes one application. Without confirmation nothing changes and
// domain.ErrConfirmationRequired is returned.
func (s *Service) Delete(ctx context.Context, input DeleteInput) (domain.Application, error) {
	if !input.Confirmed {
		return domain.Application{}, domain.ErrConfirmationRequired
	}
	if err := input.Validate(); err != nil {
		return domain.Application{}, err
	}

	removed, err := s.store.RemoveByID(ctx, input.ID)
	if err != nil {
		return domain.Application{}, fmt.Errorf("delete application: %w", err)
	}

	if s.metrics != nil {
		s.metrics.Deleted.Inc()
	}

	s.log.InfoContext(ctx, "application deleted",
		slog.String("id", removed.ID),
		slog.String("reg", removed.Reg),
	)

	return removed, nil
}

// DeleteAt removes the application at position index; later ones shift down.
func (s *Service) DeleteAt(ctx context.Context, index int, confirmed bool) error {
	if !confirmed {
		return domain.ErrConfirmationRequired
	}

	if err := s.store.RemoveAt(ctx, index); err != nil {
		return fmt.Errorf("delete application: %w", err)
	}

	if s.metrics != nil {
		s.metrics.Deleted.Inc()
	}

	s.log.InfoContext(ctx, "application deleted", slog.Int("index", index))

	return nil
}

// Clear removes every application and returns how many there were.
func (s *Service) Clear(ctx context.Context, confirmed bool) (int, error) {
	if !confirmed {
		return 0, domain.ErrConfirmationRequired
	}

	n, err := s.store.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear applications: %w", err)
	}

	if s.metrics != nil {
		s.metrics.Cleared.Inc()
		s.metrics.Deleted.Add(float64(n))
	}

	s.log.InfoContext(ctx, "all applications cleared", slog.Int("deleted_count", n))

	return n, nil
}
