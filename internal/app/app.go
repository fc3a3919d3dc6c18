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

	"github.com/MrSnakeDoc/contentideas/internal/config"
	"github.com/MrSnakeDoc/contentideas/internal/generation"
	"github.com/MrSnakeDoc/contentideas/internal/httpserver"
	"github.com/MrSnakeDoc/contentideas/internal/httpserver/deps"
	"github.com/MrSnakeDoc/contentideas/internal/httpserver/mw"
	"github.com/MrSnakeDoc/contentideas/internal/leads"
	"github.com/MrSnakeDoc/contentideas/internal/llm"
	"github.com/MrSnakeDoc/contentideas/internal/logger"
	"github.com/MrSnakeDoc/contentideas/internal/normalize"
	"github.com/MrSnakeDoc/contentideas/internal/prompt"
	"github.com/MrSnakeDoc/contentideas/internal/redis"
	"github.com/MrSnakeDoc/contentideas/internal/scheduler"
	"github.com/MrSnakeDoc/contentideas/internal/session"
	redisstore "github.com/MrSnakeDoc/contentideas/internal/store/redis"
	"github.com/MrSnakeDoc/contentideas/internal/version"
	"github.com/MrSnakeDoc/contentideas/internal/website"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	deps        deps.Deps
	server      *httpserver.Server
	redisClient *goredis.Client
	capturer    *leads.Capturer
	mixReloader *scheduler.MixReloader
	sweeper     *scheduler.SessionSweeper
}

func New() *App {
	cfg := config.Load()
	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	a, err := build(context.Background(), cfg, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to initialize: %v", err)
		os.Exit(1)
	}
	return a
}

// build wires every component from cfg.
func build(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: loggerClient}

	// Sessions: Redis when configured, memory otherwise
	var repo session.Repository
	repoKind := "memory"
	if cfg.RedisAddr != "" {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.Connect(ctx, redis.ConnectOptions{
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
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.redisClient = client
		repo = redisstore.NewStore(client, cfg.SessionTTL)
		repoKind = "redis"
		loggerClient.Info("Redis initialized successfully")
	} else {
		loggerClient.Info("no redis configured, sessions are kept in memory")
		repo = session.NewMemoryRepository(cfg.SessionTTL)
	}

	prompts := prompt.NewBuilder()

	// Generation: local model client, or a remote deployment of the edge endpoint
	mailchimp := leads.NewMailchimp(leads.MailchimpOptions{
		APIKey:  cfg.MailchimpAPIKey,
		ListID:  cfg.MailchimpListID,
		Tag:     cfg.MailchimpTag,
		BaseURL: cfg.MailchimpBaseURL,
	})
	webhook := leads.NewWebhook(cfg.WebhookURL, nil)
	leadTargets := map[string]bool{
		"mailchimp": mailchimp.Enabled(),
		"webhook":   webhook.Enabled(),
	}

	var gen generation.Generator
	modelName := cfg.OpenAIModel
	if cfg.UpstreamURL != "" {
		loggerClient.Info("delegating generation upstream", logger.String("url", cfg.UpstreamURL))
		gen = generation.NewRemote(cfg.UpstreamURL, &http.Client{Timeout: cfg.ModelTimeout})
		modelName = "upstream"
		leadTargets = map[string]bool{"mailchimp": false, "webhook": false}
	} else {
		model := llm.NewOpenAI(llm.Options{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.OpenAIModel,
			BaseURL:     cfg.OpenAIBaseURL,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.ModelTimeout,
		})
		a.capturer = leads.NewCapturer(mailchimp, webhook, loggerClient, cfg.LeadTimeout)
		gen = generation.NewService(model, prompts, normalize.New(), a.capturer, loggerClient)
	}

	// Website extraction is optional
	var (
		extractor *website.Extractor
		site      session.WebsiteExtractor
	)
	if cfg.WebsiteEnabled {
		extractor = website.NewExtractor(website.Options{
			MetadataURL: cfg.WebsiteMetadataURL,
			ReaderURL:   cfg.WebsiteReaderURL,
			Timeout:     cfg.WebsiteTimeout,
		}, loggerClient)
		site = extractor
	}

	manager := session.NewManager(repo, gen, site, loggerClient, session.ManagerOptions{
		StaleAfter: cfg.StaleAfter,
	})

	reloadTrigger := make(chan struct{}, 1)
	a.mixReloader = scheduler.NewMixReloader(cfg.MixFile, prompts, loggerClient, cfg.MixReloadInterval, reloadTrigger)
	a.sweeper = scheduler.NewSessionSweeper(repo, loggerClient, cfg.SweepInterval)

	var throttle func(http.Handler) http.Handler
	if cfg.RateBurst > 0 {
		throttle = mw.RateLimit(mw.RateLimitConfig{
			Burst:             cfg.RateBurst,
			RefillPerIPPerMin: cfg.RateRefillPerMin,
			MaxEntries:        10000,
			TrustProxy:        cfg.TrustProxy,
		})
	}

	a.deps = deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRs:   cfg.AllowedCIDRs,
		TrustProxy:     cfg.TrustProxy,
		Generator:      gen,
		Sessions:       manager,
		Website:        extractor,
		Prompts:        prompts,
		RepositoryKind: repoKind,
		ModelName:      modelName,
		LeadTargets:    leadTargets,
		Mix:            a.mixReloader,
		ReloadTrigger:  reloadTrigger,
		Throttle:       throttle,
		MaxBodyBytes:   cfg.MaxBodyBytes,
	}
	a.server = httpserver.New(cfg, loggerClient, a.deps)

	return a, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting contentideas %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("contentideas %s", version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.mixReloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start content mix reloader: %w", err)
	}
	a.logger.Info("content mix reloader started",
		logger.Bool("file", a.mixReloader.Enabled()),
		logger.Duration("interval", a.cfg.MixReloadInterval))

	if err := a.sweeper.Start(ctx); err != nil {
		return fmt.Errorf("failed to start session sweeper: %w", err)
	}
	a.logger.Info("session sweeper started",
		logger.Duration("interval", a.cfg.SweepInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.mixReloader.Stop()
	a.sweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	// lead side effects outlive their requests; let them finish
	if a.capturer != nil {
		if err := a.capturer.Wait(shutdownCtx); err != nil {
			a.logger.Warn("lead capture still pending at shutdown", logger.Error(err))
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ contentideas stopped cleanly")
	_ = a.logger.Sync()
	return nil
}
