package redis

import (
	"context"
	"errors"
	"net"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/heartmarshall/scholarship-backend/internal/metrics"
)

// MetricsHook records every Redis command in StorageMetrics.
type MetricsHook struct {
	m *metrics.StorageMetrics
}

var _ goredis.Hook = (*MetricsHook)(nil)

// NewMetricsHook creates a hook that reports into m.
func NewMetricsHook(m *metrics.StorageMetrics) *MetricsHook {
	return &MetricsHook{m: m}
}

func (h *MetricsHook) DialHook(next goredis.DialHook) goredis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			h.m.DialErrors.Inc()
		}
		return conn, err
	}
}

func (h *MetricsHook) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.m.Observe(cmd.Name(), time.Since(start).Seconds(), ignoreNil(err))
		return err
	}
}

// Pipelines, including MULTI/EXEC, count as one operation.
func (h *MetricsHook) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []goredis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		h.m.Observe("pipeline", time.Since(start).Seconds(), ignoreNil(err))
		return err
	}
}

func ignoreNil(err error) error {
	if errors.Is(err, goredis.Nil) {
		return nil
	}
	return err
}
