package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Najib632/Polly-API/internal/app"
	"github.com/Najib632/Polly-API/internal/config"
	"github.com/Najib632/Polly-API/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pollyclient failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.DebugObj("pollyclient starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	driver, err := app.NewDriver(ctx, cfg, log, os.Stdout)
	if err != nil {
		logger.ErrorObj("failed to initialize driver", "error", err)
		return err
	}
	defer func() {
		if cerr := driver.Close(); cerr != nil {
			logger.WarnObj("driver close failed", "error", cerr)
		}
	}()

	if err := driver.Run(ctx, app.DefaultScenario()); err != nil {
		return fmt.Errorf("driver run: %w", err)
	}

	return nil
}
