package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"

	"carprice/internal/adapters/config"
	"carprice/internal/adapters/errors/noop"
	"carprice/internal/adapters/errors/sentry"
	"carprice/internal/adapters/postgres"
	"carprice/internal/adapters/redis"
	"carprice/internal/api"
	"carprice/internal/api/health"
	"carprice/internal/artifacts"
	"carprice/internal/metrics"
	pgrepo "carprice/internal/repository/postgres"
	redisrepo "carprice/internal/repository/redis"
	"carprice/internal/services/prediction"
	"carprice/internal/vision"
	"carprice/pkg/errors"
	"carprice/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	metrics.Init()

	// Model artifacts are mandatory; the service cannot start without them.
	bundle, err := artifacts.Load(cfg.Artifacts.Dir)
	if err != nil {
		log.Fatalf("Failed to load model artifacts from %s: %v (run the trainer first)", cfg.Artifacts.Dir, err)
	}
	log.Infof("✓ Model loaded: %s (trained %s, R2=%.4f)",
		bundle.Model.Name(),
		bundle.Mappings.TrainedAt.Format(time.RFC3339),
		bundle.Mappings.Scores[bundle.Mappings.BestModel].R2,
	)

	onnxExtractor := initExtractor(cfg, log)
	// A nil *ONNXExtractor must stay a nil interface inside the service.
	var extractor vision.Extractor
	if onnxExtractor != nil {
		extractor = onnxExtractor
	}

	pgClient, journal := initJournal(cfg, log)
	if pgClient != nil {
		defer pgClient.Close()
	}
	redisClient, cache := initCache(cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	service := prediction.NewService(bundle, extractor, journal, cache)

	healthHandler := health.New(log, dbOrNil(pgClient), redisOrNil(redisClient),
		bundle.Model.Name(), cfg.App.Name, cfg.App.Version)

	handlers := api.NewHandlers(service, cfg.Server.MaxUploadBytes)
	server := api.NewServer(api.ServerConfig{
		Port:         cfg.Server.Port,
		ServiceName:  cfg.App.Name,
		Version:      cfg.App.Version,
		Model:        bundle.Model.Name(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		RateLimit:    cfg.RateLimit,
	}, handlers, healthHandler, log)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	log.Info("System initialized successfully")

	waitForShutdown(server, serverErr, errorTracker, onnxExtractor, log)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// initExtractor loads the optional ONNX image model. A missing model path
// disables /predict_image instead of failing startup.
func initExtractor(cfg *config.Config, log *logger.Logger) *vision.ONNXExtractor {
	if cfg.Vision.ModelPath == "" {
		log.Info("Image prediction disabled (no VISION_MODEL_PATH)")
		return nil
	}

	extractor, err := vision.NewONNXExtractor(cfg.Vision)
	if err != nil {
		log.Warnf("Failed to load image model, image prediction disabled: %v", err)
		return nil
	}

	log.Infof("✓ Image model loaded: %s", cfg.Vision.ModelPath)
	return extractor
}

// initJournal connects the optional prediction journal.
func initJournal(cfg *config.Config, log *logger.Logger) (*postgres.Client, prediction.Journal) {
	if !cfg.Postgres.Enabled {
		return nil, nil
	}

	client, err := postgres.NewClient(cfg.Postgres)
	if err != nil {
		log.Warnf("Failed to connect to PostgreSQL, prediction journal disabled: %v", err)
		return nil, nil
	}

	log.Info("✓ Prediction journal enabled (PostgreSQL)")
	return client, pgrepo.NewPredictionRepository(client.DB())
}

// initCache connects the optional prediction cache.
func initCache(cfg *config.Config, log *logger.Logger) (*redis.Client, prediction.Cache) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}

	client, err := redis.NewClient(cfg.Redis)
	if err != nil {
		log.Warnf("Failed to connect to Redis, prediction cache disabled: %v", err)
		return nil, nil
	}

	log.Info("✓ Prediction cache enabled (Redis)")
	return client, redisrepo.NewPredictionCache(client, cfg.Redis.CacheTTL)
}

func dbOrNil(client *postgres.Client) *sqlx.DB {
	if client == nil {
		return nil
	}
	return client.DB()
}

func redisOrNil(client *redis.Client) *goredis.Client {
	if client == nil {
		return nil
	}
	return client.Client()
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func waitForShutdown(server *api.Server, serverErr chan error, errorTracker errors.Tracker, extractor *vision.ONNXExtractor, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("Shutting down...")
	case err := <-serverErr:
		if err != nil {
			log.Errorf("HTTP server error: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Shutdown error: %v", err)
	}

	if extractor != nil {
		extractor.Destroy()
	}

	if errorTracker != nil {
		if err := errorTracker.Flush(shutdownCtx); err != nil {
			log.Warnf("Failed to flush error tracker: %v", err)
		}
	}

	log.Info("Shutdown complete")
}
