// Command server runs the scholarship application portal: HTML pages, the
// JSON API, health checks and Prometheus metrics.
//
// Configuration is read from CONFIG_PATH (default ./config.yaml) and the
// environment. SIGINT or SIGTERM triggers a graceful shutdown.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/scholarship-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}
