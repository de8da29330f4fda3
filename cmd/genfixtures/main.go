// Command genfixtures writes the anndata fixture stores into
// ./<major.minor>/ of the current directory.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/arloliu/annfix/fixture"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Error("fixture generation failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	w, err := fixture.NewWriter(fixture.WithLogger(logger))
	if err != nil {
		return err
	}

	return w.Run(ctx)
}
