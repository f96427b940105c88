// Command recompute re-derives paid amount, balance due and status for every
// invoice from its confirmed payments. Safe to run repeatedly.
// Usage: go run ./cmd/recompute [-batch 100]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	"quotecrm/internal/config"
	"quotecrm/internal/logger"
	"quotecrm/internal/repository/postgres"
	"quotecrm/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	batchSize := flag.Int("batch", 100, "invoices reconciled per batch")
	flag.Parse()
	if *batchSize <= 0 {
		return fmt.Errorf("batch must be positive, got %d", *batchSize)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	zapLog := logger.New(cfg.Log)
	defer func() { _ = zapLog.Sync() }()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	settingsRepo := postgres.NewSettingsRepo(db)
	invoiceSvc := service.NewInvoiceService(
		postgres.NewTxManager(db),
		postgres.NewInvoiceRepo(db),
		postgres.NewEstimationRepo(db),
		postgres.NewPaymentRepo(db),
		service.NewNumberingService(settingsRepo),
		zapLog,
	)

	start := time.Now()
	changed, err := invoiceSvc.RecomputeAll(context.Background(), *batchSize)
	if err != nil {
		return fmt.Errorf("recomputing invoices: %w", err)
	}

	zapLog.Info("recompute complete", zap.Int("changed", changed), zap.Duration("elapsed", time.Since(start)))
	return nil
}
