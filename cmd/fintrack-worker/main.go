package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	applog "fintrack/internal/log"
	"fintrack/internal/notify"
	"fintrack/internal/sheets"
	gsheet "fintrack/internal/sheets/google"
	mem "fintrack/internal/sheets/memory"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), applog.ComponentWorker)
	logger.Info("Starting fintrack-worker")

	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateWorker)

	ctx, cancel := cli.SignalContext(logger)
	err := run(ctx, logger, cfg)
	cancel()
	if err != nil {
		logger.Error("Worker failed", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}

// run returns only after every resource it opened is released.
func run(ctx context.Context, logger *applog.Logger, cfg *config.Config) error {
	ledger := cli.InitBackend(ctx, logger, cfg)
	defer closeLedger(logger, ledger.Cleanup)

	var (
		writer sheets.ReportWriter
		lister sheets.ReportLister
	)
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			ReportsSheet:    cfg.GoogleReportsSheet,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			return fmt.Errorf("initialize Google Sheets client: %w", err)
		}
		writer, lister = client, client
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		store := mem.New()
		writer, lister = store, store
		logger.Info("Google Sheets disabled - reports are kept in memory")
	}

	amqpClient, err := amqp.NewClient(ctx, amqp.Config{
		URL:          cfg.AMQPURL,
		Exchange:     cfg.AMQPExchange,
		NotifyQueue:  cfg.AMQPNotifyQueue,
		ExportQueue:  cfg.AMQPExportQueue,
		DialAttempts: 10,
	})
	if err != nil {
		return fmt.Errorf("initialize AMQP client: %w", err)
	}
	defer amqpClient.Close()

	w := worker.NewExportWorker(ledger.Store, writer, lister, notify.LogNotifier{})

	// Reports generated while the worker was down are still in the ledger.
	logger.Info("Performing startup export check...")
	if err := w.StartupExportCheck(ctx, time.Now().In(cfg.Location()).Year()); err != nil {
		logger.Error("Failed startup export check", applog.FieldError, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return amqpClient.ConsumeReportExports(gctx, w.HandleReportExport) })
	g.Go(func() error { return amqpClient.ConsumeNotifications(gctx, w.HandleNotification) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("consume messages: %w", err)
	}
	return nil
}

func closeLedger(logger *applog.Logger, cleanup backend.CleanupFunc) {
	if err := cleanup(); err != nil {
		logger.Error("Failed to close ledger backend", applog.FieldError, err)
	}
}
