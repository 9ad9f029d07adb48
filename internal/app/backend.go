package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/scholarship-backend/internal/adapter/memory"
	"github.com/heartmarshall/scholarship-backend/internal/adapter/postgres"
	"github.com/heartmarshall/scholarship-backend/internal/adapter/postgres/kvstore"
	"github.com/heartmarshall/scholarship-backend/internal/adapter/redis"
	"github.com/heartmarshall/scholarship-backend/internal/config"
	"github.com/heartmarshall/scholarship-backend/internal/metrics"
	"github.com/heartmarshall/scholarship-backend/internal/store"
	"github.com/heartmarshall/scholarship-backend/migrations"
)

// BackendOpener has the signature of OpenBackend.
type BackendOpener func(ctx context.Context, cfg *config.Config, log *slog.Logger, m *metrics.StorageMetrics) (store.Backend, func(), error)

// OpenBackend connects the storage backend selected by cfg.Storage.Driver.
// The returned close function releases its connections and is never nil.
func OpenBackend(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
	m *metrics.StorageMetrics,
) (store.Backend, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		log.Warn("using in-memory storage, applications are lost on restart")
		return instrument(memory.New(), m), func() {}, nil

	case config.DriverRedis:
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			if m != nil {
				m.DialErrors.Inc()
			}
			return nil, nil, err
		}
		if m != nil {
			client.AddHook(redis.NewMetricsHook(m))
		}
		log.Info("connected to redis")
		return redis.New(client), func() { _ = client.Close() }, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			if m != nil {
				m.DialErrors.Inc()
			}
			return nil, nil, err
		}
		log.Info("connected to postgres",
			slog.Int("max_conns", int(cfg.Database.MaxConns)),
		)
		if !cfg.Database.SkipMigrate {
			if err := postgres.Migrate(ctx, pool, migrations.FS, log); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		repo := kvstore.New(pool, postgres.NewTxManager(pool, postgres.WithLockTimeout(cfg.Database.LockTimeout)))
		return instrument(repo, m), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// instrument wraps b so each call is recorded in m. A nil m returns b as is.
func instrument(b store.Backend, m *metrics.StorageMetrics) store.Backend {
	if m == nil {
		return b
	}
	return &observedBackend{next: b, m: m}
}

type observedBackend struct {
	next store.Backend
	m    *metrics.StorageMetrics
}

func (o *observedBackend) Get(ctx context.Context, key string) ([]byte, int64, error) {
	start := time.Now()
	value, version, err := o.next.Get(ctx, key)
	o.m.Observe("get", time.Since(start).Seconds(), err)
	return value, version, err
}

func (o *observedBackend) Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	start := time.Now()
	version, err := o.next.Put(ctx, key, value, expectedVersion)
	o.m.Observe("put", time.Since(start).Seconds(), err)
	return version, err
}

func (o *observedBackend) Ping(ctx context.Context) error {
	start := time.Now()
	err := o.next.Ping(ctx)
	o.m.Observe("ping", time.Since(start).Seconds(), err)
	return err
}
