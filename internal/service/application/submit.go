package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/heartmarshall/scholarship-backend/internal/domain"
)

// Submit validates and stores a new application with status Pending.
// A missing name or reg yields a *domain.ValidationError and nothing is stored.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (domain.Application, error) {
	if err := input.Validate(); err != nil {
		return domain.Application{}, err
	}

	now := s.clock.Now().UTC().Truncate(time.Millisecond)

	app := domain.Application{
		ID:        s.nextID(now.UnixMilli()),
		Name:      strings.TrimSpace(input.Name),
		Reg:       strings.TrimSpace(input.Reg),
		Dept:      strings.TrimSpace(input.Dept),
		Income:    domain.ParseIncome(input.Income),
		Reason:    strings.TrimSpace(input.Reason),
		Status:    domain.StatusPending,
		Submitted: now,
	}

	if err := s.store.Append(ctx, app); err != nil {
		return domain.Application{}, fmt.Errorf("append application: %w", err)
	}

	if s.metrics != nil {
		s.metrics.Submitted.Inc()
	}

	s.log.InfoContext(ctx, "application submitted",
		slog.String("id", app.ID),
		slog.String("reg", app.Reg),
	)

	return app, nil
}
