package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"quillie/internal/config"
	"quillie/internal/events"
	"quillie/internal/log"
	"quillie/internal/reports"
	"quillie/internal/scheduler"
	"quillie/internal/services"
	"quillie/internal/session"
	"quillie/internal/storage"
	"quillie/internal/telegram"
)

func main() {
	// Load .env for local development; in production the variables
	// come from the environment.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New(log.Config{
		Level:     logLevel(cfg.LogLevel),
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("failed to open database", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// AMQP is optional: without a URL the nil publisher drops events.
	var publisher *events.Publisher
	if cfg.AMQPURL != "" {
		publisher, err = events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without event publishing", log.FieldError, err)
			publisher = nil
		} else {
			defer publisher.Close()
			logger.Info("AMQP event publishing enabled", "exchange", cfg.AMQPExchange)
		}
	}

	loc := cfg.Location()
	now := func() time.Time { return time.Now().In(loc) }

	expenseSvc := services.NewExpenseService(repo, publisher, logger)
	reportSvc := reports.NewService(repo, now, logger)

	tgBot, err := telegram.New(
		telegram.Config{Token: cfg.BotToken},
		repo,
		session.NewManager(),
		expenseSvc,
		reportSvc,
		now,
		logger,
	)
	if err != nil {
		logger.Error("failed to create telegram bot", log.FieldError, err)
		os.Exit(1)
	}

	dispatcher := reports.NewDispatcher(repo, tgBot, reportSvc, publisher, cfg.DispatchWorkers, logger)
	sched, err := scheduler.New(dispatcher, loc, cfg.ReportHour, cfg.ReportWeekday, logger)
	if err != nil {
		logger.Error("failed to create scheduler", log.FieldError, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("shutdown signal received", "signal", sig.String())
		cancel()
	}()

	sched.Start()
	defer sched.Stop()

	logger.Info("starting quillie",
		"db", cfg.SQLiteDBPath,
		"timezone", cfg.ReportTimezone,
		"workers", cfg.DispatchWorkers)

	if err := tgBot.Start(ctx); err != nil {
		logger.Error("bot stopped with error", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("quillie stopped gracefully")
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
