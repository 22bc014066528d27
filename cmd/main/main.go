package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gitlab.com/witness-archive/api/archive-ingest/internal/cache"
	"gitlab.com/witness-archive/api/archive-ingest/internal/config"
	"gitlab.com/witness-archive/api/archive-ingest/internal/handler"
	"gitlab.com/witness-archive/api/archive-ingest/internal/localization"
	"gitlab.com/witness-archive/api/archive-ingest/internal/observer"
	"gitlab.com/witness-archive/api/archive-ingest/internal/server"
	"gitlab.com/witness-archive/api/archive-ingest/internal/storage"
	"gitlab.com/witness-archive/api/archive-ingest/internal/usecase"
	"gitlab.com/witness-archive/api/archive-ingest/pkg/logger"
	"gitlab.com/witness-archive/api/archive-ingest/pkg/utils"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 30 * time.Second

func main() {
	// Set timezone to UTC
	time.Local = time.UTC

	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.Environment); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	observer.InitMetrics(cfg.Metrics.Enabled)

	logger.Log.Info("Starting witness archive ingest",
		zap.String("environment", cfg.Environment),
		zap.String("version", version),
		zap.String("webhook_path", cfg.Webhook.Path),
		zap.Bool("webhook_secret_enabled", cfg.Webhook.Secret != ""),
		zap.String("webhook_max_body", utils.ByteCountSI(cfg.Webhook.MaxBodyBytes)),
	)

	postgresRepo, err := initPostgresRepo(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize Postgres repository", zap.Error(err))
	}

	translationCache, closeCache := initTranslationCache(cfg.Cache)

	ingestService := usecase.NewIngestService(storage.NewIngestRepoAdapter(postgresRepo))
	translationService := localization.NewService(storage.NewTranslationRepoAdapter(postgresRepo), translationCache)

	httpServer := server.NewServer(cfg, version, postgresRepo, server.Handlers{
		Webhook:      handler.NewWebhookHandler(ingestService, cfg.Webhook),
		Translations: handler.NewTranslationHandler(translationService),
	})
	httpServer.Start()

	logger.Log.Info("HTTP endpoints available",
		zap.String("webhook", fmt.Sprintf("http://localhost:%d%s", cfg.Server.Port, cfg.Webhook.Path)),
		zap.String("health", fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port)),
		zap.String("readiness", fmt.Sprintf("http://localhost:%d/ready", cfg.Server.Port)),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Log.Info("Received termination signal", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	logger.Log.Info("Starting graceful shutdown", zap.Duration("timeout", shutdownTimeout))

	// The HTTP server drains first so in-flight transactions can still commit
	utils.SafeGo(func() {
		logger.Log.Info("[shutdown] Stopping HTTP server")
		start := time.Now()
		if err := httpServer.Stop(shutdownCtx); err != nil {
			logger.Log.Error("[shutdown] Error stopping HTTP server", zap.Error(err))
		} else {
			logger.Log.Info("[shutdown] HTTP server stopped", zap.Duration("duration", time.Since(start)))
		}

		var wg sync.WaitGroup
		wg.Add(2)

		utils.SafeGo(func() {
			defer wg.Done()
			closeCache()
		}, func(r interface{}, stack []byte) {
			logger.Log.Error("[shutdown] Panic while closing Redis client",
				zap.Any("panic", r),
				zap.ByteString("stack", stack),
			)
		})

		utils.SafeGo(func() {
			defer wg.Done()
			logger.Log.Info("[shutdown] Closing PostgreSQL connection")
			pgStart := time.Now()
			if err := postgresRepo.Close(shutdownCtx); err != nil {
				logger.Log.Error("[shutdown] Failed to close PostgreSQL connection", zap.Error(err))
			} else {
				logger.Log.Info("[shutdown] PostgreSQL connection closed",
					zap.Duration("duration", time.Since(pgStart)))
			}
		}, func(r interface{}, stack []byte) {
			logger.Log.Error("[shutdown] Panic while closing PostgreSQL connection",
				zap.Any("panic", r),
				zap.ByteString("stack", stack),
			)
		})

		wg.Wait()
		shutdownCancel()
	}, func(r interface{}, stack []byte) {
		logger.Log.Error("[shutdown] Panic during shutdown",
			zap.Any("panic", r),
			zap.ByteString("stack", stack),
		)
		shutdownCancel()
	})

	<-shutdownCtx.Done()
	if shutdownCtx.Err() == context.DeadlineExceeded {
		logger.Log.Warn("[shutdown] Graceful shutdown timed out, forcing exit")
	} else {
		logger.Log.Info("[shutdown] All components stopped gracefully")
	}

	logger.Log.Info("Witness archive ingest shutdown complete")
}

// initPostgresRepo connects to PostgreSQL and migrates the schema when enabled
func initPostgresRepo(cfg *config.Config) (*storage.PostgresRepo, error) {
	if cfg.Database.PostgresDSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	repo, err := storage.NewPostgresRepo(cfg.Database.PostgresDSN, cfg.Database.AutoMigrate, storage.PoolOptions{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres repository: %w", err)
	}

	logger.Log.Info("Initialized PostgreSQL repository")
	return repo, nil
}

// initTranslationCache connects to Redis when configured. Translations are
// served straight from the database when Redis is absent or unreachable.
func initTranslationCache(cfg config.CacheConfig) (localization.Cache, func()) {
	noop := func() {}
	if cfg.RedisAddr == "" {
		logger.Log.Info("Translation cache disabled, no Redis address configured")
		return nil, noop
	}

	client, err := cache.NewRedisClient(context.Background(), cfg)
	if err != nil {
		logger.Log.Warn("Redis unavailable, translation cache disabled",
			zap.String("addr", cfg.RedisAddr), zap.Error(err))
		return nil, noop
	}

	logger.Log.Info("Translation cache enabled",
		zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.TranslationTTL))
	return cache.NewTranslationCache(client, cfg.TranslationTTL), func() {
		logger.Log.Info("[shutdown] Closing Redis client")
		if err := client.Close(); err != nil {
			logger.Log.Error("[shutdown] Failed to close Redis client", zap.Error(err))
		}
	}
}
