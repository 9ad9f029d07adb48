// Command clear removes every stored application. It refuses to run
// without --yes.
//
// Usage:
//
//	clear --yes
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/scholarship-backend/internal/app"
	"github.com/heartmarshall/scholarship-backend/internal/config"
	"github.com/heartmarshall/scholarship-backend/internal/service/application"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, app.OpenBackend)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, open app.BackendOpener) int {
	fs := flag.NewFlagSet("clear", flag.ContinueOnError)
	fs.SetOutput(stderr)
	yes := fs.Bool("yes", false, "confirm removal of all applications")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if !*yes {
		fmt.Fprintln(stderr, "Usage: clear --yes")
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}

	logger := app.NewLogger(cfg.Log)

	backend, closeBackend, err := open(ctx, cfg, logger, nil)
	if err != nil {
		logger.Error("open storage", slog.String("error", err.Error()))
		return 1
	}
	defer closeBackend()

	records := app.NewRecordStore(cfg.Storage, backend, logger, nil)
	svc := application.NewService(logger, records, clockwork.NewRealClock(), nil)

	n, err := svc.Clear(ctx, *yes)
	if err != nil {
		logger.Error("clear failed", slog.String("error", err.Error()))
		return 1
	}

	fmt.Fprintf(stdout, "Removed %d application(s).\n", n)
	return 0
}
