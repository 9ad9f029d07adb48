// Command export writes every stored application to a CSV or XLSX file.
// It reads the same configuration as the server, so it can be run against
// a Redis or PostgreSQL backend, e.g. from a nightly cron job.
//
// Usage:
//
//	export --format=xlsx --out=applications.xlsx
//
// Exit codes: 0 = success, 1 = error, 2 = nothing to export.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/scholarship-backend/internal/app"
	"github.com/heartmarshall/scholarship-backend/internal/config"
	"github.com/heartmarshall/scholarship-backend/internal/domain"
	"github.com/heartmarshall/scholarship-backend/internal/service/application"
)

const (
	exitOK      = 0
	exitError   = 1
	exitNothing = 2
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	code := run(ctx, os.Args[1:], os.Stderr, app.OpenBackend)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer, open app.BackendOpener) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", "csv", "export format: csv or xlsx")
	out := fs.String("out", "", "output file (default applications.<format>)")
	if err := fs.Parse(args); err != nil {
		return exitError
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return exitError
	}

	logger := app.NewLogger(cfg.Log)

	backend, closeBackend, err := open(ctx, cfg, logger, nil)
	if err != nil {
		logger.Error("open storage", slog.String("error", err.Error()))
		return exitError
	}
	defer closeBackend()

	records := app.NewRecordStore(cfg.Storage, backend, logger, nil)
	svc := application.NewService(logger, records, clockwork.NewRealClock(), nil)

	res, err := svc.Export(ctx, domain.ExportFormat(*format))
	if errors.Is(err, domain.ErrNothingToExport) {
		logger.Warn("no applications to export")
		return exitNothing
	}
	if err != nil {
		logger.Error("export failed", slog.String("error", err.Error()))
		return exitError
	}

	path := *out
	if path == "" {
		path = res.Filename
	}
	if err := os.WriteFile(path, res.Data, 0o644); err != nil {
		logger.Error("write export", slog.String("path", path), slog.String("error", err.Error()))
		return exitError
	}

	logger.Info("export completed",
		slog.String("path", path),
		slog.Int("count", res.Count),
	)
	return exitOK
}
