// Package store implements RecordStore, the only data-access surface for
// application records. The whole ordered list of records lives as one JSON
// array under a single key of a versioned Backend; every change is a full
// load-modify-save round trip guarded by an optimistic version check.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/scholarship-backend/internal/domain"
	"github.com/heartmarshall/scholarship-backend/pkg/retry"
)

// AnyVersion makes Backend.Put overwrite unconditionally.
const AnyVersion int64 = -1

// Backend persists opaque values under string keys. Every successful Put
// bumps the key's version; a missing key has version 0.
type Backend interface {
	// Get returns the value and its version. A missing key yields (nil, 0, nil).
	Get(ctx context.Context, key string) ([]byte, int64, error)
	// Put stores value if the current version equals expectedVersion (or
	// expectedVersion is AnyVersion) and returns the new version. On mismatch
	// it returns domain.ErrVersionConflict and leaves the value untouched.
	Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error)
	Ping(ctx context.Context) error
}

// Options configures a RecordStore.
type Options struct {
	Key            string
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// OnConflict, if set, is called each time a save loses a version race
	// and the operation is retried.
	OnConflict func()
}

// RecordStore reads and writes the ordered application list.
type RecordStore struct {
	backend    Backend
	key        string
	policy     retry.Policy
	onConflict func()
	log        *slog.Logger
}

// New creates a RecordStore over backend.
func New(backend Backend, log *slog.Logger, opts Options) *RecordStore {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	s := &RecordStore{
		backend:    backend,
		key:        opts.Key,
		onConflict: opts.OnConflict,
		log:        log.With("component", "record_store", "key", opts.Key),
	}
	s.policy = retry.Policy{
		MaxAttempts:    opts.MaxAttempts,
		InitialBackoff: opts.InitialBackoff,
		MaxBackoff:     opts.MaxBackoff,
		OnRetry:        s.retried,
	}
	return s
}

// Key returns the storage key the records live under.
func (s *RecordStore) Key() string { return s.key }

// Ping checks that the backend is reachable.
func (s *RecordStore) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// Load returns the stored records in insertion order. A missing or
// unparseable value loads as an empty list; backend failures are returned.
func (s *RecordStore) Load(ctx context.Context) ([]domain.Application, error) {
	apps, _, err := s.load(ctx)
	return apps, err
}

// Save overwrites the stored list wholesale, ignoring concurrent writers.
func (s *RecordStore) Save(ctx context.Context, apps []domain.Application) error {
	data, err := encode(apps)
	if err != nil {
		return err
	}
	if _, err := s.backend.Put(ctx, s.key, data, AnyVersion); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	return nil
}

// Append adds app to the end of the list. An app whose ID is already stored
// is rejected with domain.ErrAlreadyExists.
func (s *RecordStore) Append(ctx context.Context, app domain.Application) error {
	return s.mutate(ctx, func(apps []domain.Application) ([]domain.Application, error) {
		if domain.IndexByID(apps, app.ID) >= 0 {
			return nil, fmt.Errorf("application %s: %w", app.ID, domain.ErrAlreadyExists)
		}
		return append(apps, app), nil
	})
}

// UpdateAt applies mutator to the record at position index.
func (s *RecordStore) UpdateAt(ctx context.Context, index int, mutator func(*domain.Application)) error {
	return s.mutate(ctx, func(apps []domain.Application) ([]domain.Application, error) {
		if index < 0 || index >= len(apps) {
			return nil, fmt.Errorf("application at index %d: %w", index, domain.ErrNotFound)
		}
		apply(&apps[index], mutator)
		return apps, nil
	})
}

// UpdateByID applies mutator to the record with the given id and returns
// the updated record.
func (s *RecordStore) UpdateByID(ctx context.Context, id string, mutator func(*domain.Application)) (domain.Application, error) {
	var updated domain.Application
	err := s.mutate(ctx, func(apps []domain.Application) ([]domain.Application, error) {
		i := domain.IndexByID(apps, id)
		if i < 0 {
			return nil, fmt.Errorf("application %s: %w", id, domain.ErrNotFound)
		}
		apply(&apps[i], mutator)
		updated = apps[i]
		return apps, nil
	})
	return updated, err
}

// RemoveAt deletes the record at position index; later records shift down.
func (s *RecordStore) RemoveAt(ctx context.Context, index int) error {
	return s.mutate(ctx, func(apps []domain.Application) ([]domain.Application, error) {
		if index < 0 || index >= len(apps) {
			return nil, fmt.Errorf("application at index %d: %w", index, domain.ErrNotFound)
		}
		return append(apps[:index], apps[index+1:]...), nil
	})
}

// RemoveByID deletes the record with the given id and returns it.
func (s *RecordStore) RemoveByID(ctx context.Context, id string) (domain.Application, error) {
	var removed domain.Application
	err := s.mutate(ctx, func(apps []domain.Application) ([]domain.Application, error) {
		i := domain.IndexByID(apps, id)
		if i < 0 {
			return nil, fmt.Errorf("application %s: %w", id, domain.ErrNotFound)
		}
		removed = apps[i]
		return append(apps[:i], apps[i+1:]...), nil
	})
	return removed, err
}

// Clear empties the list and returns how many records it held.
func (s *RecordStore) Clear(ctx context.Context) (int, error) {
	var n int
	err := s.mutate(ctx, func(apps []domain.Application) ([]domain.Application, error) {
		n = len(apps)
		return []domain.Application{}, nil
	})
	return n, err
}

// FindByReg returns the first record whose registration number equals reg.
func (s *RecordStore) FindByReg(ctx context.Context, reg string) (domain.Application, error) {
	apps, err := s.Load(ctx)
	if err != nil {
		return domain.Application{}, err
	}
	app, ok := domain.FirstByReg(apps, reg)
	if !ok {
		return domain.Application{}, fmt.Errorf("application reg %q: %w", reg, domain.ErrNotFound)
	}
	return app, nil
}

// mutate runs a load-modify-save cycle, retrying the whole cycle when the
// save loses a version race. fn receives a private copy of the list.
func (s *RecordStore) mutate(ctx context.Context, fn func([]domain.Application) ([]domain.Application, error)) error {
	return retry.DoVoid(ctx, s.policy, classify, func(ctx context.Context) error {
		apps, version, err := s.load(ctx)
		if err != nil {
			return err
		}

		next, err := fn(apps)
		if err != nil {
			return err
		}

		data, err := encode(next)
		if err != nil {
			return err
		}

		if _, err := s.backend.Put(ctx, s.key, data, version); err != nil {
			return fmt.Errorf("save records: %w", err)
		}
		return nil
	})
}

func (s *RecordStore) load(ctx context.Context) ([]domain.Application, int64, error) {
	data, version, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return nil, 0, fmt.Errorf("load records: %w", err)
	}

	apps := []domain.Application{}
	if len(data) == 0 {
		return apps, version, nil
	}

	if err := json.Unmarshal(data, &apps); err != nil {
		s.log.WarnContext(ctx, "stored records are unreadable, treating as empty",
			slog.Int64("version", version),
			slog.String("error", err.Error()),
		)
		return []domain.Application{}, version, nil
	}
	if apps == nil {
		apps = []domain.Application{}
	}

	return apps, version, nil
}

func (s *RecordStore) retried(attempt int, err error, backoff time.Duration) {
	if s.onConflict != nil {
		s.onConflict()
	}
	s.log.Debug("record store version conflict, retrying",
		slog.Int("attempt", attempt),
		slog.Duration("backoff", backoff),
		slog.String("error", err.Error()),
	)
}

func classify(err error) retry.Action {
	if errors.Is(err, domain.ErrVersionConflict) {
		return retry.Retry
	}
	return retry.Stop
}

// apply runs mutator on app while keeping the identity fields fixed.
func apply(app *domain.Application, mutator func(*domain.Application)) {
	id, submitted := app.ID, app.Submitted
	mutator(app)
	app.ID, app.Submitted = id, submitted
}

func encode(apps []domain.Application) ([]byte, error) {
	if apps == nil {
		apps = []domain.Application{}
	}
	data, err := json.Marshal(apps)
	if err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	return data, nil
}
