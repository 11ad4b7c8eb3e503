package training

import (
	"time"

	"carprice/internal/adapters/config"
	"carprice/internal/artifacts"
	"carprice/internal/dataset"
	"carprice/internal/features"
	"carprice/internal/ml"
	"carprice/pkg/errors"
	"carprice/pkg/logger"
)

// Result summarizes one training run.
type Result struct {
	Rows          int
	Dropped       int
	TrainRows     int
	TestRows      int
	ReferenceYear int
	BestModel     string
	Scores        map[string]ml.Score
}

// Pipeline runs the full training flow: load, clean, encode, split, scale,
// fit the candidate models, pick the best by held-out R² and persist the
// artifact bundle.
type Pipeline struct {
	cfg config.Config
	log *logger.Logger
}

// NewPipeline creates a pipeline from the loaded configuration.
func NewPipeline(cfg config.Config) *Pipeline {
	return &Pipeline{
		cfg: cfg,
		log: logger.Get().With("component", "training"),
	}
}

// Run executes the pipeline and writes the artifacts into the configured
// directory. Rows with unparseable price, mileage or model year are dropped
// and counted, never fatal.
func (p *Pipeline) Run() (*Result, error) {
	start := time.Now()

	raw, err := dataset.Load(p.cfg.Training.DatasetPath)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.Newf("dataset %s contains no rows", p.cfg.Training.DatasetPath)
	}
	p.log.Infow("dataset loaded", "path", p.cfg.Training.DatasetPath, "rows", len(raw))

	cleaned := dataset.Clean(raw, p.cfg.Currency.Rate)
	if len(cleaned.Records) == 0 {
		return nil, errors.New("no usable rows after cleaning")
	}
	p.log.Infow("dataset cleaned",
		"kept", len(cleaned.Records),
		"dropped", cleaned.Dropped,
		"filled_fuel", cleaned.FilledFuel,
		"filled_horsepower", cleaned.FilledHorsepower,
		"filled_engine_size", cleaned.FilledEngineSize,
	)

	brand, fuelType, transmission := features.FitEncoders(cleaned.Records)
	assembler := &features.Assembler{
		Brand:         brand,
		FuelType:      fuelType,
		Transmission:  transmission,
		ReferenceYear: time.Now().Year(),
	}

	X, y := features.BuildMatrix(cleaned.Records, assembler)
	XTrain, XTest, yTrain, yTest := ml.TrainTestSplit(X, y, p.cfg.Training.TestSize, p.cfg.Training.Seed)
	p.log.Infow("dataset split", "train", len(XTrain), "test", len(XTest))

	scaler := &features.StandardScaler{}
	if err := scaler.Fit(XTrain); err != nil {
		return nil, err
	}
	XTrainScaled, err := scaler.TransformMatrix(XTrain)
	if err != nil {
		return nil, err
	}
	XTestScaled, err := scaler.TransformMatrix(XTest)
	if err != nil {
		return nil, err
	}

	candidates := []ml.Regressor{
		ml.NewLinearRegression(),
		ml.NewKNNRegressor(p.cfg.Training.KNNNeighbors),
		ml.NewRandomForest(p.cfg.Training.ForestTrees, p.cfg.Training.ForestDepth, p.cfg.Training.Seed),
	}

	scores := make(map[string]ml.Score, len(candidates))
	var best ml.Regressor
	var bestScore ml.Score

	for _, candidate := range candidates {
		fitStart := time.Now()
		if err := candidate.Fit(XTrainScaled, yTrain); err != nil {
			return nil, errors.Wrapf(err, "failed to fit %s", candidate.Name())
		}

		score, err := ml.Evaluate(candidate, XTestScaled, yTest)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to evaluate %s", candidate.Name())
		}
		scores[candidate.Name()] = score

		p.log.Infow("model evaluated",
			"model", candidate.Name(),
			"mae", score.MAE,
			"rmse", score.RMSE,
			"r2", score.R2,
			"fit_duration", time.Since(fitStart),
		)

		// Strictly greater: on an exact tie the earlier candidate wins.
		if best == nil || score.R2 > bestScore.R2 {
			best = candidate
			bestScore = score
		}
	}

	bundle := &artifacts.Bundle{
		Model:  best,
		Scaler: scaler,
		Encoders: artifacts.Encoders{
			Brand:        brand,
			FuelType:     fuelType,
			Transmission: transmission,
		},
		Mappings: artifacts.Mappings{
			Brands:         brand.Classes,
			FuelTypes:      fuelType.Classes,
			Transmissions:  transmission.Classes,
			ReferenceYear:  assembler.ReferenceYear,
			CurrencySymbol: p.cfg.Currency.Symbol,
			CurrencyRate:   p.cfg.Currency.Rate,
			TrainedAt:      time.Now().UTC(),
			BestModel:      best.Name(),
			Scores:         scores,
		},
	}

	if err := artifacts.Save(p.cfg.Artifacts.Dir, bundle); err != nil {
		return nil, err
	}

	p.log.Infow("training complete",
		"best_model", best.Name(),
		"r2", bestScore.R2,
		"artifacts_dir", p.cfg.Artifacts.Dir,
		"duration", time.Since(start),
	)

	return &Result{
		Rows:          len(raw),
		Dropped:       cleaned.Dropped,
		TrainRows:     len(XTrain),
		TestRows:      len(XTest),
		ReferenceYear: assembler.ReferenceYear,
		BestModel:     best.Name(),
		Scores:        scores,
	}, nil
}
