package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"expensetracker/internal/amqp"
	"expensetracker/internal/backend"
	"expensetracker/internal/cli"
	"expensetracker/internal/config"
	applog "expensetracker/internal/log"
	"expensetracker/internal/storage"
	"expensetracker/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err == nil {
		err = cfg.ValidateMirror()
	}
	if err != nil {
		cli.Fatal(cli.SetupLogger("info"), "Invalid configuration", err)
	}
	logger := cli.SetupLogger(cfg.LogLevel)

	if err := run(logger, cfg); err != nil && !errors.Is(err, context.Canceled) {
		cli.Fatal(logger, "Mirror stopped", err)
	}
	logger.Info("Mirror stopped gracefully")
}

func run(logger *applog.Logger, cfg *config.Config) error {
	logger.Info("Starting expense mirror", "mirror_db", cfg.MirrorDBPath)

	ctx, stop := cli.ShutdownContext(context.Background())
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	primary, closePrimary, err := backend.OpenStore(backendCfg)
	if err != nil {
		return fmt.Errorf("open primary store: %w", err)
	}
	defer closePrimary()

	replica, err := storage.NewSQLiteStore(cfg.MirrorDBPath)
	if err != nil {
		return fmt.Errorf("open mirror database: %w", err)
	}
	defer replica.Close()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("initialize AMQP client: %w", err)
	}
	defer client.Close()

	mirror := worker.NewMirrorWorker(primary, replica, logger)

	// Catch up on anything missed while the worker was down.
	if _, err := mirror.Reconcile(ctx); err != nil {
		logger.Error("Startup reconcile failed", applog.FieldError, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return client.ConsumeExpenseAdded(gctx, mirror.HandleExpenseAdded)
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if _, err := mirror.Reconcile(gctx); err != nil {
					logger.Error("Periodic reconcile failed", applog.FieldError, err)
				}
			}
		}
	})

	return g.Wait()
}
