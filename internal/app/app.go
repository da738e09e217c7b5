package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/propintel/internal/config"
	"github.com/MrSnakeDoc/propintel/internal/extract"
	"github.com/MrSnakeDoc/propintel/internal/extraction"
	"github.com/MrSnakeDoc/propintel/internal/fetch"
	"github.com/MrSnakeDoc/propintel/internal/httpserver"
	"github.com/MrSnakeDoc/propintel/internal/httpserver/deps"
	"github.com/MrSnakeDoc/propintel/internal/logger"
	"github.com/MrSnakeDoc/propintel/internal/metrics"
	"github.com/MrSnakeDoc/propintel/internal/records"
	"github.com/MrSnakeDoc/propintel/internal/redis"
	"github.com/MrSnakeDoc/propintel/internal/scheduler"
	redisstore "github.com/MrSnakeDoc/propintel/internal/store/redis"
	"github.com/MrSnakeDoc/propintel/internal/utils"
	"github.com/MrSnakeDoc/propintel/internal/version"
	"github.com/MrSnakeDoc/propintel/internal/workspace"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	records     *records.Gateway
	hydrator    *scheduler.Hydrator
	pruner      *scheduler.RetentionPruner
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Redis holds every saved property; without it nothing survives a restart.
	loggerClient.Info("connecting to redis", logger.String("addr", cfg.RedisAddr))
	redisClient, err := redis.Connect(context.Background(), redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		DB:             cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("failed to connect to redis: %v", err)
		os.Exit(1)
	}

	m := metrics.New()

	gateway := records.NewGateway(redisstore.NewStore(redisClient), loggerClient, records.Options{
		Retention: cfg.HistoryRetention,
		Metrics:   m,
	})

	gemini, err := extract.NewGemini(cfg.GeminiAPIKey, extract.Options{
		BaseURL:    cfg.GeminiBaseURL,
		Model:      cfg.GeminiModel,
		HTTPClient: &http.Client{Timeout: cfg.GeminiTimeout},
	})
	if err != nil {
		loggerClient.Errorf("failed to create extractor: %v", err)
		os.Exit(1)
	}

	fetcher := fetch.New(fetch.Config{
		ProxyURL:    cfg.FetchProxyURL,
		Timeout:     cfg.FetchTimeout,
		MaxBytes:    cfg.FetchMaxBytes,
		UserAgent:   cfg.FetchUserAgent,
		ConvertHTML: cfg.FetchConvertHTML,
	}, nil)
	if cfg.FetchProxyURL == "" {
		loggerClient.Info("fetching listing pages directly, no proxy")
	}

	ws := workspace.New()
	service := extraction.NewService(gemini, fetcher, gateway, ws, loggerClient, m)

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		RedisClient:   redisClient,
		Records:       gateway,
		Extraction:    service,
		Workspace:     ws,
		Metrics:       m,
		SampleText:    extraction.SampleListing,
		ExtractBurst:  cfg.RateLimitBurst,
		ExtractPerMin: cfg.RateLimitPerMin,
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, loggerClient, d),
		redisClient: redisClient,
		records:     gateway,
		hydrator:    scheduler.NewHydrator(gateway, loggerClient),
		pruner:      scheduler.NewRetentionPruner(gateway, loggerClient, cfg.PruneInterval),
	}
}

func (a *App) Run() error {
	a.logger.Info(version.String())
	a.logger.Infof("🚀 starting propintel on %s", a.cfg.ListenPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Records must be in memory before the first request is served.
	a.hydrator.Sync(ctx)

	a.pruner.Start(ctx)
	a.logger.Info("history retention sweeper started",
		logger.Duration("interval", a.cfg.PruneInterval),
		logger.Duration("retention", a.cfg.HistoryRetention))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ shutting down gracefully...")
	case err := <-errCh:
		a.pruner.Stop()
		utils.CloseLogged(a.redisClient, a.logger, "redis")
		return err
	}

	a.pruner.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	history, saved := a.records.Counts()
	a.logger.Info("records at shutdown",
		logger.Int("history", history),
		logger.Int("saved", saved))

	utils.CloseLogged(a.redisClient, a.logger, "redis")

	a.logger.Info("✅ propintel stopped cleanly")
	_ = a.logger.Sync()
	return nil
}
