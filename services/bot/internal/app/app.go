// Package app wires the bot's stores, engines and workers together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"adsbot/internal/ratelimit"
	"adsbot/pkg/queue"
	"adsbot/pkg/storage"
	"adsbot/pkg/store"
	"adsbot/services/bot/internal/admin"
	"adsbot/services/bot/internal/category"
	"adsbot/services/bot/internal/chat"
	"adsbot/services/bot/internal/cleanup"
	"adsbot/services/bot/internal/conversation"
	"adsbot/services/bot/internal/lifecycle"
	"adsbot/services/bot/internal/moderation"
	"adsbot/services/bot/internal/server"
)

// Config holds runtime configuration.
type Config struct {
	Token   string
	Offline bool
	// Store overrides the driver selection, for tests.
	Store       store.Store
	StoreDriver string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string

	AdminIDs      []int64
	ResumeGroup   string
	VacancyGroup  string
	QuestionGroup string
	MainChannel   string

	ResumeDir      string
	MaxFileSize    int64
	AllowedFormats []string

	FileMaxAge      time.Duration
	CleanupInterval time.Duration
	OrphanGrace     time.Duration

	SessionTTL         time.Duration
	RateLimitPerMinute int
	SendPerSecond      int
	MaxAdsPerUser      int
	BrowseLimit        int

	QueueStream      string
	QueueGroup       string
	QueueConcurrency int
	QueueMaxRetries  int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

// App owns the long-running parts of the bot.
type App struct {
	store      store.Store
	redis      *redis.Client
	queue      *queue.Outbox
	dispatcher *admin.Dispatcher
	server     *server.Server
	sweeper    *cleanup.Sweeper
	workers    int
}

// New constructs the bot with persistence, transport and workers.
func New(cfg Config) (*App, error) {
	dataStore, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	registry := category.NewRegistry(dataStore)
	if _, err := registry.EnsureDefaults(); err != nil {
		return nil, fmt.Errorf("seed categories: %w", err)
	}

	a := &App{store: dataStore, workers: cfg.QueueConcurrency}
	perMinute := cfg.RateLimitPerMinute
	if perMinute <= 0 {
		perMinute = 30
	}

	var (
		sessions conversation.SessionStore = conversation.NewMemorySessionStore(cfg.SessionTTL)
		limiter  ratelimit.Limiter         = ratelimit.NewLocalLimiter(perMinute)
		enqueuer admin.Enqueuer
	)
	if cfg.RedisAddr != "" {
		a.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := a.redis.Ping(ctx).Err()
		cancel()
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		sessions = conversation.NewRedisSessionStore(a.redis, "", cfg.SessionTTL)
		limiter, err = ratelimit.NewUserWindow(a.redis, "adsbot:ratelimit", perMinute, time.Minute)
		if err != nil {
			return nil, fmt.Errorf("init rate limiter: %w", err)
		}
		a.queue, err = queue.NewOutbox(a.redis, queue.OutboxConfig{
			Stream:      cfg.QueueStream,
			Group:       cfg.QueueGroup,
			MaxAttempts: cfg.QueueMaxRetries,
		})
		if err != nil {
			return nil, fmt.Errorf("init job queue: %w", err)
		}
		enqueuer = a.queue
	}

	files, err := storage.NewFileStore(cfg.ResumeDir)
	if err != nil {
		return nil, fmt.Errorf("init resume dir: %w", err)
	}
	var archive storage.Archive
	if cfg.MinioEndpoint != "" {
		archive, err = storage.NewMinioArchive(context.Background(), storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("init minio archive: %w", err)
		}
	}

	bot, err := server.NewBot(server.BotConfig{
		Token:         cfg.Token,
		SendPerSecond: cfg.SendPerSecond,
		Offline:       cfg.Offline,
	})
	if err != nil {
		return nil, err
	}

	ads := lifecycle.NewEngine(dataStore)
	queries := moderation.NewQueries(dataStore)
	adminSvc, err := admin.NewService(admin.Config{
		Store:         dataStore,
		Ads:           ads,
		Categories:    registry,
		Queries:       queries,
		Messenger:     bot,
		AdminIDs:      cfg.AdminIDs,
		ResumeGroup:   chat.Target(cfg.ResumeGroup),
		VacancyGroup:  chat.Target(cfg.VacancyGroup),
		QuestionGroup: chat.Target(cfg.QuestionGroup),
		MainChannel:   chat.Target(cfg.MainChannel),
	})
	if err != nil {
		return nil, err
	}
	a.dispatcher = admin.NewDispatcher(adminSvc, enqueuer)

	conv, err := conversation.NewEngine(conversation.Config{
		Store:          dataStore,
		Sessions:       sessions,
		Ads:            ads,
		Categories:     registry,
		Queries:        queries,
		Files:          files,
		Archive:        archive,
		Fetcher:        bot,
		Forwarder:      a.dispatcher,
		Messenger:      bot,
		QuestionGroup:  chat.Target(cfg.QuestionGroup),
		AdminIDs:       cfg.AdminIDs,
		MaxAdsPerUser:  cfg.MaxAdsPerUser,
		MaxFileSize:    cfg.MaxFileSize,
		AllowedFormats: cfg.AllowedFormats,
		BrowseLimit:    cfg.BrowseLimit,
	})
	if err != nil {
		return nil, err
	}

	a.server, err = server.New(server.Config{
		Bot:          bot,
		Conversation: conv,
		Admin:        adminSvc,
		Limiter:      limiter,
	})
	if err != nil {
		return nil, err
	}

	a.sweeper, err = cleanup.New(cleanup.Config{
		Files:       files,
		Ads:         dataStore,
		MaxAge:      cfg.FileMaxAge,
		OrphanGrace: cfg.OrphanGrace,
		Interval:    cfg.CleanupInterval,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func openStore(cfg Config) (store.Store, error) {
	if cfg.Store != nil {
		return cfg.Store, nil
	}
	switch cfg.StoreDriver {
	case "memory":
		slog.Warn("using in-memory store; data is lost on restart")
		return store.NewMemoryStore(), nil
	case "", "postgres":
		if cfg.DatabaseURL == "" {
			return nil, errors.New("database URL required")
		}
		s, err := store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// Run starts polling, the file sweeper and the queue consumers, and blocks
// until ctx is cancelled or one of them fails.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	if a.queue != nil {
		g.Go(func() error { return a.queue.Run(ctx, a.workers, a.dispatcher.HandleJob) })
	}
	g.Go(func() error { return a.server.Run(ctx) })
	g.Go(func() error { return a.sweeper.Run(ctx) })
	return g.Wait()
}

// Close releases connections.
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if c, ok := a.store.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
