package application

import (
	"context"
	"strings"

	"github.com/heartmarshall/scholarship-backend/internal/domain"
)

// Lookup returns the earliest application whose registration number equals
// reg (after trimming). Matching is exact and case-sensitive.
func (s *Service) Lookup(ctx context.Context, reg string) (domain.Application, error) {
	reg = strings.TrimSpace(reg)
	if reg == "" {
		return domain.Application{}, domain.NewValidationError("reg", "required")
	}

	return s.store.FindByReg(ctx, reg)
}

// List returns every application in submission order.
func (s *Service) List(ctx context.Context) ([]domain.Application, error) {
	return s.store.Load(ctx)
}
