package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-address-dispatch/config"
	"github.com/oksasatya/go-address-dispatch/internal/container"
	"github.com/oksasatya/go-address-dispatch/pkg/helpers"
)

// reindex rebuilds the address search index from the store. Run it once after
// deploying against an empty cluster, or whenever rows were written with
// events disabled.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-reindex", cfg.Env)
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("init: %v", err)
	}
	defer c.Close()

	if c.AddressSvc.Search == nil {
		logger.Fatal("elasticsearch not configured")
	}

	start := time.Now()
	n, err := c.AddressSvc.ReindexAll(ctx)
	if err != nil {
		logger.Fatalf("reindex failed after %d rows: %v", n, err)
	}
	logger.WithField("rows", n).WithField("took", time.Since(start).String()).Info("reindex complete")
}
