// cmd/wizard-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"licensure-service/internal/common/aws"
	"licensure-service/internal/common/config"
	"licensure-service/internal/common/database"
	"licensure-service/internal/common/logger"
	"licensure-service/internal/common/observability"
	"licensure-service/internal/notify"
	"licensure-service/internal/pricing"
	"licensure-service/internal/reminder"
	"licensure-service/internal/server"
	"licensure-service/internal/store"
	"licensure-service/internal/submission"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting wizard server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	if cfg.Observability.TracingEnabled {
		tracing, err := observability.NewTracing(cfg.App.Name, cfg.Observability.JaegerEndpoint)
		if err != nil {
			zapLog.Warn("tracing init failed, continuing without it", zap.Error(err))
		} else {
			defer tracing.Shutdown()
		}
	}

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Notification Clients ---
	var emailSender notify.EmailSender
	if cfg.Notifications.Email.Enabled {
		ses, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Warn("SES client init failed, email notifications disabled", zap.Error(err))
		} else {
			emailSender = ses
		}
	}
	var smsSender notify.SMSSender
	if cfg.Notifications.SMS.Enabled {
		sns, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Warn("SNS client init failed, SMS notifications disabled", zap.Error(err))
		} else {
			smsSender = sns
		}
	}
	notifier := notify.New(emailSender, smsSender, cfg.Notifications.Email.FromEmail, log)

	// --- Stores ---
	applications := store.NewApplicationStore(pg, log)
	services := store.NewServiceStore(pg, log)
	payments := store.NewPaymentStore(pg, log)
	quotations := store.NewQuotationStore(pg, log)
	profiles := store.NewUserDetailsStore(pg, log)
	documents := store.NewDocumentStore(pg,
		cfg.Documents.SigningSecret,
		cfg.Documents.SignedURLBase,
		time.Duration(cfg.Documents.SignedURLTTLSecs)*time.Second,
		log)

	// --- Domain services ---
	engine := pricing.NewEngine(cfg.Pricing.TaxRate)
	submitter := submission.NewSubmitter(applications, payments, services, engine, notifier, log)
	quoteFinalizer := submission.NewQuoteFinalizer(quotations, services, engine, notifier, log)

	var reminders *reminder.Scheduler
	if cfg.Reminders.Enabled {
		interval := time.Duration(cfg.Reminders.IntervalMins) * time.Minute
		reminders = reminder.NewScheduler(redis, notifier, interval, log)
	}

	// --- HTTP server ---
	factories := server.Factories(server.Deps{
		Applications:   applications,
		Profiles:       profiles,
		Submitter:      submitter,
		QuoteFinalizer: quoteFinalizer,
		Reminders:      reminders,
		Logger:         log,
	})

	srv := server.New(server.NewManager(factories), server.Backends{
		Quotes:       quoteFinalizer,
		Quotations:   quotations,
		Documents:    documents,
		Profiles:     profiles,
		Applications: applications,
		Payments:     payments,
	}, obs, log)
	httpServer := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      srv.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.HTTP.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining connections...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Wizard server stopped gracefully")
}
