// Package application implements the apply, status and admin use-cases over
// the record store.
package application

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/scholarship-backend/internal/domain"
	"github.com/heartmarshall/scholarship-backend/internal/metrics"
)

// IDPrefix starts every generated application id.
const IDPrefix = "APP"

type recordStore interface {
	Load(ctx context.Context) ([]domain.Application, error)
	Append(ctx context.Context, app domain.Application) error
	UpdateAt(ctx context.Context, index int, mutator func(*domain.Application)) error
	UpdateByID(ctx context.Context, id string, mutator func(*domain.Application)) (domain.Application, error)
	RemoveAt(ctx context.Context, index int) error
	RemoveByID(ctx context.Context, id string) (domain.Application, error)
	Clear(ctx context.Context) (int, error)
	FindByReg(ctx context.Context, reg string) (domain.Application, error)
}

// Service provides application intake, lookup and review.
type Service struct {
	store   recordStore
	clock   clockwork.Clock
	metrics *metrics.ApplicationMetrics
	log     *slog.Logger

	idMu     sync.Mutex
	lastIDMs int64
}

// NewService creates a new application service.
func NewService(
	log *slog.Logger,
	store recordStore,
	clock clockwork.Clock,
	m *metrics.ApplicationMetrics,
) *Service {
	return &Service{
		store:   store,
		clock:   clock,
		metrics: m,
		log:     log.With("service", "application"),
	}
}

// nextID returns "APP" + unix milliseconds. Two calls in the same
// millisecond still get distinct, increasing ids.
func (s *Service) nextID(ms int64) string {
	s.idMu.Lock()
	defer s.idMu.Unlock()

	if ms <= s.lastIDMs {
		ms = s.lastIDMs + 1
	}
	s.lastIDMs = ms
	return IDPrefix + strconv.FormatInt(ms, 10)
}
