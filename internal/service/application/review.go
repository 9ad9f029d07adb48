package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/scholarship-backend/internal/domain"
)

// Approve sets the status of application id to Approved.
func (s *Service) Approve(ctx context.Context, id string) (domain.Application, error) {
	return s.setStatus(ctx, id, domain.StatusApproved)
}

// Reject sets the status of application id to Rejected.
func (s *Service) Reject(ctx context.Context, id string) (domain.Application, error) {
	return s.setStatus(ctx, id, domain.StatusRejected)
}

// ApproveAt sets the status of the application at position index to Approved.
func (s *Service) ApproveAt(ctx context.Context, index int) error {
	return s.setStatusAt(ctx, index, domain.StatusApproved)
}

// RejectAt sets the status of the application at position index to Rejected.
func (s *Service) RejectAt(ctx context.Context, index int) error {
	return s.setStatusAt(ctx, index, domain.StatusRejected)
}

// Any status may overwrite any other; there is no transition table.
func (s *Service) setStatus(ctx context.Context, id string, status domain.ApplicationStatus) (domain.Application, error) {
	app, err := s.store.UpdateByID(ctx, id, func(a *domain.Application) {
		a.Status = status
	})
	if err != nil {
		return domain.Application{}, fmt.Errorf("set status: %w", err)
	}

	s.reviewed(ctx, status, slog.String("id", id))
	return app, nil
}

func (s *Service) setStatusAt(ctx context.Context, index int, status domain.ApplicationStatus) error {
	err := s.store.UpdateAt(ctx, index, func(a *domain.Application) {
		a.Status = status
	})
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}

	s.reviewed(ctx, status, slog.Int("index", index))
	return nil
}

func (s *Service) reviewed(ctx context.Context, status domain.ApplicationStatus, target slog.Attr) {
	if s.metrics != nil {
		s.metrics.Reviewed.WithLabelValues(status.String()).Inc()
	}
	s.log.InfoContext(ctx, "application reviewed",
		target,
		slog.String("status", status.String()),
	)
}
