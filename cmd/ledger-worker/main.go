package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"oink/internal/amqp"
	"oink/internal/cache"
	"oink/internal/cli"
	"oink/internal/core"
	"oink/internal/log"
	"oink/internal/middleware/trace"
	"oink/internal/services"
	"oink/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ledger-worker:", err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg, log.ComponentWorker)

	if !cfg.EventsEnabled() {
		logger.Error("AMQP_URL is required for the ledger worker")
		os.Exit(1)
	}

	repo, err := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	if err != nil {
		os.Exit(1)
	}
	defer repo.Close()

	client, err := cli.InitAMQP(logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err, "url", cfg.AMQPURL)
		os.Exit(1)
	}
	defer client.Close()

	seen := cache.NewLRUCache[time.Time](cfg.EventDedupSize, cfg.EventDedupTTL)
	caches := cache.NewManager(logger)
	caches.Register(seen)

	budgets := services.NewBudgetEvaluator(repo, logger)
	watcher := worker.NewBudgetWatcher(budgets, seen, logger)

	tracer := trace.NewMiddleware(logger, services.ClassifyError)

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, func() {
		caches.Stop()
		m := tracer.GetMetrics()
		logger.Info("Ledger events handled",
			"total", m.TotalRuns,
			"failed", m.FailedRuns,
			"avg_duration_us", m.AverageDuration)
	})

	caches.Start(ctx, time.Minute)

	logger.Info("Starting ledger worker",
		"db_path", cfg.SQLiteDBPath,
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	// Check the current month once so overspending that happened while the
	// worker was down is still reported.
	if current, err := budgets.ListForMonth(ctx, core.YearMonthOf(time.Now())); err != nil {
		logger.Warn("Startup budget check failed", log.FieldError, err)
	} else {
		for _, b := range current {
			if b.Overspent() {
				logger.Warn("Budget overspent", log.FieldBudgetID, b.ID, log.FieldPeriod, b.Period.String())
			}
		}
	}

	go func() {
		err := client.ConsumeLedgerEvents(ctx, func(ctx context.Context, event *amqp.LedgerEvent) error {
			handle := tracer.Wrap(string(event.Kind), func(ctx context.Context) error {
				return watcher.HandleLedgerEvent(ctx, event)
			})
			return handle(trace.WithRunID(ctx, event.ID))
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Ledger event consumer stopped", log.FieldError, err)
		}
	}()

	cli.WaitForShutdown(ctx, done)
}
