package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/darknebula/leadchat/cmd/mainconfig"
	"github.com/darknebula/leadchat/internal/api/router"
	appconfig "github.com/darknebula/leadchat/internal/config"
	"github.com/darknebula/leadchat/internal/conversation"
	"github.com/darknebula/leadchat/internal/leads"
	"github.com/darknebula/leadchat/internal/notify"
	"github.com/darknebula/leadchat/internal/observability/metrics"
	"github.com/darknebula/leadchat/internal/webchat"
	"github.com/darknebula/leadchat/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting leadchat API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Session persistence: Redis when configured, in-process otherwise.
	var sessionStore conversation.SessionStore
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("redis unreachable", "error", err, "addr", cfg.RedisAddr)
			os.Exit(1)
		}
		sessionStore = conversation.NewRedisSessionStore(redisClient, cfg.SessionTTL)
		logger.Info("using redis session store", "addr", cfg.RedisAddr)
	} else {
		sessionStore = conversation.NewMemoryStore()
		logger.Warn("REDIS_ADDR not set, sessions will not survive restarts")
	}

	// Phrasing LLM: OpenAI primary, Bedrock fallback. Both optional; the
	// engine degrades to scripted questions without them.
	phraser := buildPhraser(ctx, cfg, logger)

	convMetrics := metrics.NewConversationMetrics(prometheus.DefaultRegisterer)

	engineFactory := func(sessionID string) *conversation.Engine {
		opts := []conversation.EngineOption{
			conversation.WithStore(sessionStore),
			conversation.WithLogger(logger),
			conversation.WithMetrics(convMetrics),
			conversation.WithContactPath(cfg.ContactFormPath),
			conversation.WithHistoryWindow(cfg.HistoryWindow),
			conversation.WithLLMTimeout(cfg.LLMTimeout),
		}
		if phraser != nil {
			opts = append(opts, conversation.WithPhraser(phraser, cfg.OpenAIModel))
		}
		return conversation.NewEngine(sessionID, opts...)
	}
	chatHandler := webchat.NewHandler(engineFactory, logger)

	// Lead storage: Postgres when configured, in-memory otherwise.
	var leadsRepo leads.Repository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		leadsRepo = leads.NewPostgresRepository(pool)
		logger.Info("using postgres lead repository")
	} else {
		leadsRepo = leads.NewInMemoryRepository()
		logger.Warn("DATABASE_URL not set, leads will not survive restarts")
	}

	var emailSender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		emailSender = sg
	} else {
		emailSender = notify.NewStubEmailSender(logger)
	}
	notifier := notify.NewService(emailSender, cfg.LeadNotifyEmail, cfg.LeadNotifyName, logger)
	leadsHandler := leads.NewHandler(leadsRepo, notifier, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		ChatHandler:        chatHandler,
		LeadsHandler:       leadsHandler,
		MetricsHandler:     promhttp.Handler(),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildPhraser wires the optional text-generation backends.
func buildPhraser(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) conversation.LLMClient {
	var primary, fallback conversation.LLMClient

	if cfg.OpenAIAPIKey != "" {
		primary = conversation.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		logger.Info("openai phrasing enabled", "model", cfg.OpenAIModel)
	}

	if cfg.BedrockModelID != "" {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config, bedrock disabled", "error", err)
		} else {
			brClient := bedrockruntime.NewFromConfig(awsCfg)
			fallback = conversation.NewBedrockClient(brClient, cfg.BedrockModelID)
			logger.Info("bedrock phrasing enabled", "model", cfg.BedrockModelID)
		}
	}

	switch {
	case primary != nil && fallback != nil:
		return conversation.NewFallbackClient(primary, fallback, logger)
	case primary != nil:
		return primary
	case fallback != nil:
		return fallback
	default:
		logger.Warn("no LLM configured, replies use scripted questions only")
		return nil
	}
}
