package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/api"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/clock"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/config"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/database"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/domain"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/events"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/export"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/logging"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/metrics"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/notify"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/poller"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/repository"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/schedule"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/service"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/worker"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	redisClient := initRedis(cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	clk := clock.NewReal(cfg.Location())
	eventBus := events.NewEventBus()

	telegramClient, err := notify.NewBot(cfg.Telegram, logger)
	if err != nil {
		logger.Error().Err(err).Msg("init telegram bot")
		return err
	}

	retry := worker.RetryPolicy{
		MaxRetries:    5,
		InitialDelay:  2 * time.Second,
		MaxDelay:      5 * time.Minute,
		BackoffFactor: 2,
	}
	notifyWorker := worker.NewNotifyWorker(db, telegramClient, redisClient, retry, cfg.Location(), logger)

	bookingService := service.NewBookingService(db, eventBus, notifyWorker, clk, logger)
	leadService := service.NewLeadService(db, eventBus, notifyWorker, logger)
	partService := service.NewPartService(db, logger)

	stateRepo := buildStateRepository(redisClient, logger)
	gate := poller.NewSoundGate()
	agg := schedule.NewAggregator(clk)
	bookingPoller := poller.New(db, stateRepo, gate, eventBus, clk, cfg.PollInterval(), logger)

	exporter := export.NewExporter(clk, logger)

	httpServer := api.NewHTTPServer(cfg, bookingService, leadService, partService, agg, bookingPoller, gate, exporter, notifyWorker, clk, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go notifyWorker.Start(ctx)
	go bookingPoller.Start(ctx)

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, logger)
		go backupService.Start(ctx)
	}

	startMetrics(ctx, cfg, logger)

	return startServer(ctx, httpServer, logger)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, &logger, closer, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// buildStateRepository prefers redis-backed poller state with an
// in-memory fallback; without redis the state is memory only and a
// restart re-seeds silently.
func buildStateRepository(redisClient *redis.Client, logger *zerolog.Logger) domain.StateRepository {
	memory := repository.NewMemoryStateRepository()
	if redisClient == nil {
		return memory
	}
	return repository.NewFailoverStateRepository(repository.NewRedisStateRepository(redisClient), memory, logger)
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
