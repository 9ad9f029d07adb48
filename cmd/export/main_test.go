package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/scholarship-backend/internal/adapter/memory"
	"github.com/heartmarshall/scholarship-backend/internal/app"
	"github.com/heartmarshall/scholarship-backend/internal/config"
	"github.com/heartmarshall/scholarship-backend/internal/domain"
	"github.com/heartmarshall/scholarship-backend/internal/metrics"
	"github.com/heartmarshall/scholarship-backend/internal/store"
)

// useEnvConfig makes config.Load read only defaults plus a memory driver.
func useEnvConfig(t *testing.T) {
	t.Helper()
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("STORAGE_DRIVER", config.DriverMemory)
	t.Setenv("STORAGE_KEY", "applications_v1")
	t.Setenv("LOG_LEVEL", "error")
}

func backendWith(t *testing.T, apps ...domain.Application) app.BackendOpener {
	t.Helper()
	b := memory.New()
	rs := store.New(b, slog.New(slog.DiscardHandler), store.Options{Key: "applications_v1", MaxAttempts: 1})
	for _, a := range apps {
		require.NoError(t, rs.Append(context.Background(), a))
	}
	return func(context.Context, *config.Config, *slog.Logger, *metrics.StorageMetrics) (store.Backend, func(), error) {
		return b, func() {}, nil
	}
}

var asha = domain.Application{
	ID:        "APP1709287200000",
	Name:      "Asha",
	Reg:       "R100",
	Dept:      "CS",
	Income:    50000,
	Status:    domain.StatusPending,
	Submitted: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
}

func TestRun_ExitCodes(t *testing.T) {
	brokenStorage := func(context.Context, *config.Config, *slog.Logger, *metrics.StorageMetrics) (store.Backend, func(), error) {
		return nil, nil, errors.New("dial tcp: connection refused")
	}

	tests := []struct {
		name string
		args []string
		open func(t *testing.T) app.BackendOpener
		want int
	}{
		{"nothing to export", nil, func(t *testing.T) app.BackendOpener { return backendWith(t) }, exitNothing},
		{"unknown flag", []string{"--bogus"}, func(t *testing.T) app.BackendOpener { return backendWith(t, asha) }, exitError},
		{"unknown format", []string{"--format=pdf"}, func(t *testing.T) app.BackendOpener { return backendWith(t, asha) }, exitError},
		{"storage unreachable", nil, func(*testing.T) app.BackendOpener { return brokenStorage }, exitError},
		{"unwritable output", []string{"--out=" + filepath.Join("missing-dir", "x.csv")}, func(t *testing.T) app.BackendOpener { return backendWith(t, asha) }, exitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useEnvConfig(t)
			var stderr bytes.Buffer

			got := run(context.Background(), tt.args, &stderr, tt.open(t))

			assert.Equal(t, tt.want, got, stderr.String())
		})
	}
}

func TestRun_WritesCSV(t *testing.T) {
	useEnvConfig(t)
	out := filepath.Join(t.TempDir(), "apps.csv")

	code := run(context.Background(), []string{"--out=" + out}, &bytes.Buffer{}, backendWith(t, asha))

	require.Equal(t, exitOK, code)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"R100"`)
	assert.Contains(t, string(data), `"Asha"`)
}

func TestRun_WritesXLSX(t *testing.T) {
	useEnvConfig(t)
	out := filepath.Join(t.TempDir(), "apps.xlsx")

	code := run(context.Background(), []string{"--format=xlsx", "--out=" + out}, &bytes.Buffer{}, backendWith(t, asha))

	require.Equal(t, exitOK, code)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")), "xlsx is a zip archive")
}
