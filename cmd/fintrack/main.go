package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/auth"
	"fintrack/internal/cache"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	apphttp "fintrack/internal/http"
	applog "fintrack/internal/log"
	"fintrack/internal/notify"
	"fintrack/internal/rates"
	"fintrack/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := cli.SignalContext(logger)
	err := run(ctx, cancel, logger, cfg)
	cancel()
	if err != nil {
		logger.Error("Server failed", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

// run returns only after every resource it opened is released.
func run(ctx context.Context, cancel context.CancelFunc, logger *applog.Logger, cfg *config.Config) error {
	ledger := cli.InitBackend(ctx, logger, cfg)
	defer func() {
		if err := ledger.Cleanup(); err != nil {
			logger.Error("Failed to close ledger backend", applog.FieldError, err)
		}
	}()

	policy, err := services.ParseAllocationPolicy(cfg.AllocationPolicy)
	if err != nil {
		return fmt.Errorf("allocation policy: %w", err)
	}

	// Events go to AMQP when configured; otherwise notifications are only logged.
	var (
		notifier notify.Notifier = notify.LogNotifier{}
		exporter services.ReportExporter
	)
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(ctx, amqp.Config{
			URL:         cfg.AMQPURL,
			Exchange:    cfg.AMQPExchange,
			NotifyQueue: cfg.AMQPNotifyQueue,
			ExportQueue: cfg.AMQPExportQueue,
		})
		if err != nil {
			return fmt.Errorf("initialize AMQP client: %w", err)
		}
		defer amqpClient.Close()
		notifier, exporter = amqpClient, amqpClient
		logger.Info("AMQP publishing enabled", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("AMQP disabled - notifications are logged and reports are not exported")
	}

	rateClient := rates.NewClient(rates.Config{
		BaseURL:  cfg.RatesBaseURL,
		Timeout:  cfg.RatesTimeout,
		CacheTTL: cfg.RatesCacheTTL,
	})
	go cache.NewJanitor(cfg.RatesCacheTTL, rateClient.Cache()).Run(ctx)

	dispatcher := notify.NewDispatcher(10 * time.Second)
	opts := []services.Option{
		services.WithLocation(cfg.Location()),
		services.WithDispatcher(dispatcher),
	}
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	svc := apphttp.Services{
		Users:        services.NewUserService(ledger.Store, tokens, auth.NewPasswords(cfg.BcryptCost), opts...),
		Transactions: services.NewTransactionService(ledger.Store, notifier, opts...),
		Currency:     services.NewCurrencyService(ledger.Store, rateClient),
		Budgets:      services.NewBudgetService(ledger.Store, opts...),
		Goals:        services.NewGoalService(ledger.Store, policy, opts...),
		Reports:      services.NewReportService(ledger.Store, exporter, opts...),
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc, tokens, apphttp.Options{
		CORSOrigins:        cfg.CORSOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Ready:              ledger.Ping,
		Logger:             logger,
	})

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
	}()

	logger.Info("Starting fintrack server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"allocation_policy", policy.Name(),
		"timezone", cfg.Timezone)
	err = srv.ListenAndServe()
	cancel()
	<-stopped
	dispatcher.Wait()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on port %s: %w", cfg.Port, err)
	}
	return nil
}
