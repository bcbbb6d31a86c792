package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/KotFed0t/stock_sync/config"
	"github.com/KotFed0t/stock_sync/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/KotFed0t/stock_sync/internal/externalApi/feedApi"
	"github.com/KotFed0t/stock_sync/internal/externalApi/ozonApi"
	"github.com/KotFed0t/stock_sync/internal/externalApi/yandexMarketApi"
	"github.com/KotFed0t/stock_sync/internal/reportGenerator/xslsxGenerator"
	"github.com/KotFed0t/stock_sync/internal/scheduler"
	"github.com/KotFed0t/stock_sync/internal/service/reportService"
	"github.com/KotFed0t/stock_sync/internal/service/syncService"
	"github.com/KotFed0t/stock_sync/internal/tgbot"
	"github.com/KotFed0t/stock_sync/internal/transport/telegram"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	channels := syncService.BuildChannels(cfg, ozonApi.New(cfg), yandexMarketApi.New(cfg))
	if len(channels) == 0 {
		slog.Warn("no marketplace channel configured, nothing will be pushed")
	}

	// nil-интерфейсы означают, что доставка отчёта отключена
	var storage reportService.CloudStorage
	var drive *googleDriveApi.GoogleDriveApi
	if cfg.GoogleDrive.Enabled() {
		var err error
		drive, err = googleDriveApi.New(ctx, cfg)
		if err != nil {
			slog.Error("google drive init failed", slog.String("err", err.Error()))
			os.Exit(1)
		}
		storage = drive
	}

	var notifier reportService.Notifier
	var bot *tgbot.TGBot
	if cfg.Telegram.Enabled() {
		var err error
		bot, err = tgbot.New(cfg)
		if err != nil {
			os.Exit(1)
		}
		notifier = bot
	}

	reportSrv := reportService.New(xslsxGenerator.New(), storage, notifier)
	syncSrv := syncService.New(feedApi.New(cfg), channels, reportSrv)

	if cfg.RunMode == config.RunModeOnce {
		report, err := syncSrv.Run(ctx)
		if err != nil || report.Failed() {
			os.Exit(1)
		}
		return
	}

	sched, err := scheduler.New()
	if err != nil {
		slog.Error("scheduler init failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	err = sched.NewIntervalJob("sync", func(ctx context.Context) error {
		_, err := syncSrv.Run(ctx)
		return err
	}, cfg.Jobs.SyncInterval, true)
	if err != nil {
		os.Exit(1)
	}

	if drive != nil {
		err = sched.NewCrontabJob("cleanup reports", drive.DeleteOldFiles, cfg.Jobs.CleanupReportsCron, false)
		if err != nil {
			os.Exit(1)
		}
	}

	sched.Start()
	defer sched.Stop()

	if bot != nil {
		bot.Start(telegram.NewController(syncSrv))
		defer bot.Stop()
	}

	slog.Info("daemon started", slog.String("syncInterval", cfg.Jobs.SyncInterval.String()), slog.Int("channels", len(channels)))

	// Waiting interruption signal
	<-ctx.Done()
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

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
