package main

import (
	"context"
	"fmt"
	"os"

	"oink/internal/cli"
	"oink/internal/core"
	"oink/internal/log"
	"oink/internal/middleware/trace"
	"oink/internal/services"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "oink:", err)
		return 1
	}
	logger := cli.SetupLogger(cfg, log.ComponentCLI)

	repo, err := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.Message(err))
		return 1
	}
	defer repo.Close()

	// A nil *amqp.Client must not reach the engine as a non-nil interface.
	var publisher services.EventPublisher
	client, err := cli.InitAMQP(logger, cfg)
	if err != nil {
		logger.Warn("Ledger events disabled", log.FieldError, err)
	} else if client != nil {
		defer client.Close()
		publisher = client
	}

	app := &cli.App{
		Accounts:   services.NewAccountStore(repo, logger),
		Categories: services.NewCategoryRegistry(repo, logger),
		Ledger:     services.NewLedgerEngine(repo, publisher, logger),
		Budgets:    services.NewBudgetEvaluator(repo, logger),
		Reports:    services.NewReportAggregator(repo, logger),
		DBPath:     cfg.SQLiteDBPath,
		ListLimit:  core.Limit(cfg.ListLimit),
		Out:        os.Stdout,
		Err:        os.Stderr,
		Tracer:     trace.NewMiddleware(logger, services.ClassifyError),
	}

	err = app.Run(context.Background(), args)
	if msg := cli.Message(err); msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}
	return cli.ExitCode(err)
}
