package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"pubmedbot/internal/app"
	"pubmedbot/internal/config"
	"pubmedbot/internal/logging"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging.Level)
	application := app.New(cfg, logger)

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
