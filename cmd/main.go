package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/dokyun-kim/gorich/config"
	"github.com/dokyun-kim/gorich/data"
	"github.com/dokyun-kim/gorich/data/cache"
	"github.com/dokyun-kim/gorich/data/repository"
	"github.com/dokyun-kim/gorich/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/dokyun-kim/gorich/internal/externalApi/finnhubApi"
	"github.com/dokyun-kim/gorich/internal/externalApi/naverApi"
	"github.com/dokyun-kim/gorich/internal/externalApi/upbitApi"
	"github.com/dokyun-kim/gorich/internal/reportGenerator/xlsxGenerator"
	"github.com/dokyun-kim/gorich/internal/scheduler"
	"github.com/dokyun-kim/gorich/internal/service/portfolioService"
	"github.com/dokyun-kim/gorich/internal/transport/cli"
	"github.com/google/subcommands"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgClient := data.NewPostgresClient(cfg)
	defer pgClient.Close()

	pgRepo := repository.NewPostgres(cfg, pgClient)

	redisClient := data.NewRedisClient(cfg)
	defer redisClient.Close()

	redisCache := cache.NewRedisCache(redisClient, cfg)

	finnhub := finnhubApi.New(cfg)
	upbit := upbitApi.New(cfg)
	naver := naverApi.New(cfg)

	reportGenerator := xlsxGenerator.New()

	// cloud storage is optional: without credentials the export command
	// still writes local files, only -upload is unavailable.
	var storage portfolioService.CloudStorage
	if cfg.GoogleDrive.CredentialsFile != "" {
		storage = googleDriveApi.New(ctx, cfg)
	}

	portfolioSrv := portfolioService.New(pgRepo, redisCache, finnhub, naver, upbit, finnhub, naver, reportGenerator, storage)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	cli.Register(commander, portfolioSrv, &daemonRunner{cfg: cfg, svc: portfolioSrv, storage: storage})

	flag.Parse()
	os.Exit(int(commander.Execute(ctx)))
}

// daemonRunner owns the scheduler lifecycle for the daemon subcommand.
type daemonRunner struct {
	cfg     *config.Config
	svc     *portfolioService.PortfolioService
	storage portfolioService.CloudStorage
}

func (d *daemonRunner) Run(ctx context.Context) error {
	sched := scheduler.New()
	sched.NewCrontabJob("asset snapshot", func(ctx context.Context) error {
		_, _, err := d.svc.SnapshotAsset(ctx)
		return err
	}, d.cfg.Jobs.AssetSnapshotCrontab, true)
	sched.NewIntervalJob("refresh quote cache", d.svc.WarmQuoteCache, d.cfg.Jobs.QuoteRefreshInterval, true)

	if cleaner, ok := d.storage.(interface {
		DeleteOldFiles(ctx context.Context) error
	}); ok {
		sched.NewIntervalJob("cleanup drive reports", cleaner.DeleteOldFiles, d.cfg.GoogleDrive.FileTTL, false)
	}

	sched.Start()
	defer sched.Stop()

	slog.Info("daemon started")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	select {
	case <-interrupt:
	case <-ctx.Done():
	}

	slog.Info("daemon stopped")
	return nil
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
