package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adsbot/internal/util"
	"adsbot/services/bot/internal/app"
	"adsbot/services/bot/internal/config"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel, cfg.LogFormat)

	appCore, err := app.New(app.Config{
		Token:              cfg.Token,
		StoreDriver:        cfg.StoreDriver,
		DatabaseURL:        cfg.DatabaseURL,
		RedisAddr:          cfg.RedisAddr,
		RedisPassword:      cfg.RedisPassword,
		AdminIDs:           cfg.AdminIDs,
		ResumeGroup:        cfg.ResumeAdminGroupID,
		VacancyGroup:       cfg.VacancyAdminGroupID,
		QuestionGroup:      cfg.QuestionAdminGroupID,
		MainChannel:        cfg.MainChannel,
		ResumeDir:          cfg.ResumeDir,
		MaxFileSize:        cfg.MaxFileSize,
		AllowedFormats:     cfg.AllowedFileFormats,
		FileMaxAge:         time.Duration(cfg.FileCleanupHours) * time.Hour,
		CleanupInterval:    time.Duration(cfg.CleanupIntervalHours) * time.Hour,
		OrphanGrace:        time.Duration(cfg.OrphanGraceMinutes) * time.Minute,
		SessionTTL:         time.Duration(cfg.SessionTTLMinutes) * time.Minute,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		SendPerSecond:      cfg.SendPerSecond,
		MaxAdsPerUser:      cfg.MaxAdsPerUser,
		BrowseLimit:        cfg.BrowseLimit,
		QueueStream:        cfg.QueueStream,
		QueueGroup:         cfg.QueueGroup,
		QueueConcurrency:   cfg.QueueConcurrency,
		QueueMaxRetries:    cfg.QueueMaxRetries,
		MinioEndpoint:      cfg.MinioEndpoint,
		MinioAccessKey:     cfg.MinioAccessKey,
		MinioSecretKey:     cfg.MinioSecretKey,
		MinioBucket:        cfg.MinioBucket,
		MinioUseSSL:        cfg.MinioUseSSL,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}
	defer func() {
		if err := appCore.Close(); err != nil {
			logger.Warn("close app", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("bot starting", "store", cfg.StoreDriver, "redis", cfg.RedisAddr != "")
	if err := appCore.Run(ctx); err != nil {
		logger.Error("bot stopped", "err", err)
	}
}
