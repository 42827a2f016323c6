package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/gestio-erp/gestio-erp/internal/app"
	"github.com/gestio-erp/gestio-erp/internal/finance/accounts"
	"github.com/gestio-erp/gestio-erp/internal/finance/balance"
	"github.com/gestio-erp/gestio-erp/internal/finance/transactions"
	jobmetrics "github.com/gestio-erp/gestio-erp/internal/jobs"
	"github.com/gestio-erp/gestio-erp/internal/masterdata/companies"
	"github.com/gestio-erp/gestio-erp/internal/platform/cache"
	"github.com/gestio-erp/gestio-erp/internal/platform/db"
	"github.com/gestio-erp/gestio-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := jobmetrics.NewMetrics(nil)
	notifier := balance.NewNotifier(redisClient, logger)

	companiesRepo := companies.NewRepository(pool)
	accountsRepo := accounts.NewRepository(pool)
	transactionsRepo := transactions.NewRepository(pool)
	orphanScan := jobs.NewOrphanScanJob(companiesRepo, accountsRepo, transactionsRepo, logger, metrics)

	scanTask, err := jobs.NewOrphanScanTask(jobs.OrphanScanPayload{})
	if err != nil {
		logger.Error("build orphan scan task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskLedgerBump, Handler: jobs.NewLedgerBumpHandler(notifier)},
			{Type: jobs.TaskOrphanScan, Handler: orphanScan.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.BalanceScanCron, Task: scanTask},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker started")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker stopped")
}
