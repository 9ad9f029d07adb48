package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/scholarship-backend/internal/config"
	"github.com/heartmarshall/scholarship-backend/internal/metrics"
	"github.com/heartmarshall/scholarship-backend/internal/service/application"
	"github.com/heartmarshall/scholarship-backend/internal/store"
	"github.com/heartmarshall/scholarship-backend/internal/transport/middleware"
	"github.com/heartmarshall/scholarship-backend/internal/transport/rest"
	"github.com/heartmarshall/scholarship-backend/internal/transport/web"
)

// Run is the application entry point. It loads configuration, connects the
// storage backend, and serves HTTP until ctx is cancelled, then shuts the
// server down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("storage_driver", cfg.Storage.Driver),
	)

	registry := metrics.NewRegistry()
	storageMetrics := metrics.NewStorageMetrics(registry)

	backend, closeBackend, err := OpenBackend(ctx, cfg, logger, storageMetrics)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer closeBackend()

	clock := clockwork.NewRealClock()
	records := NewRecordStore(cfg.Storage, backend, logger, storageMetrics)
	svc := application.NewService(logger, records, clock, metrics.NewApplicationMetrics(registry))

	pages, err := web.NewHandler(svc, logger)
	if err != nil {
		return fmt.Errorf("init pages: %w", err)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval, clock)
	defer limiter.Stop()

	handler := newRouter(routes{
		cfg:      cfg,
		web:      pages,
		api:      rest.NewApplicationHandler(svc, logger),
		health:   rest.NewHealthHandler(records, cfg.Storage.Driver, BuildVersion(), clock),
		registry: registry,
		http:     metrics.NewHTTPMetrics(registry),
		limiter:  limiter,
	},
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
	)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// NewRecordStore creates the record store for cfg, counting version
// conflicts in m when m is not nil.
func NewRecordStore(
	cfg config.StorageConfig,
	backend store.Backend,
	log *slog.Logger,
	m *metrics.StorageMetrics,
) *store.RecordStore {
	opts := store.Options{
		Key:            cfg.Key,
		MaxAttempts:    cfg.RetryAttempts,
		InitialBackoff: cfg.RetryBackoff,
		MaxBackoff:     cfg.RetryMaxBackoff,
	}
	if m != nil {
		opts.OnConflict = m.Conflicts.Inc
	}
	return store.New(backend, log, opts)
}
