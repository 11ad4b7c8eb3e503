package main

import (
	"carprice/internal/adapters/config"
	"carprice/internal/adapters/errors/noop"
	"carprice/internal/adapters/errors/sentry"
	"carprice/internal/training"
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
	log.Infof("Starting %s training in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	pipeline := training.NewPipeline(*cfg)
	result, err := pipeline.Run()
	if err != nil {
		log.Fatalf("Training failed: %v", err)
	}

	log.Infof("✓ Trained on %d rows (%d dropped), best model: %s",
		result.TrainRows+result.TestRows, result.Dropped, result.BestModel)
	for name, score := range result.Scores {
		log.Infof("  %s: MAE=%.2f RMSE=%.2f R2=%.4f", name, score.MAE, score.RMSE, score.R2)
	}
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
