package prediction

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"image"
	"sort"

	"carprice/internal/artifacts"
	"carprice/internal/features"
	"carprice/internal/metrics"
	"carprice/internal/vision"
	"carprice/pkg/errors"
	"carprice/pkg/logger"
)

// Prediction sources, used in logs, metrics and the journal.
const (
	SourceForm  = "form"
	SourceImage = "image"
)

// Journal persists served predictions for later analysis. Writes are
// best-effort: a journal failure never fails the request.
type Journal interface {
	Record(ctx context.Context, source string, in features.CarInput, price float64) error
}

// Cache stores resolved form predictions keyed by input. Get returns
// errors.ErrNotFound on a miss.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
}

// Prediction is one served price.
type Prediction struct {
	Price     float64           `json:"predicted_price"`
	Formatted string            `json:"predicted_price_formatted"`
	Input     features.CarInput `json:"input_data"`
	CarAge    int               `json:"car_age"`
}

// ImagePrediction extends Prediction with the attributes the image path
// resolved for the request: the image-derived estimates with any explicit
// overrides already applied.
type ImagePrediction struct {
	Prediction
	Estimated vision.Estimate `json:"estimated_features"`
}

// Overrides are the optional form fields accompanying an image upload.
// Nil means the field was absent; present values beat the image-derived
// estimates, which beat the static defaults.
type Overrides struct {
	Brand        *string
	ModelYear    *int
	Mileage      *float64
	FuelType     *string
	Transmission *string
	HasAccident  *int
	IsCleanTitle *int
	Horsepower   *float64
	EngineSize   *float64
}

// Options is the response of the form-options endpoint.
type Options struct {
	Brands        []string `json:"brands"`
	FuelTypes     []string `json:"fuel_types"`
	Transmissions []string `json:"transmissions"`
}

// Service serves price predictions from a loaded artifact bundle. The
// bundle is immutable for the service lifetime, so the service is safe for
// concurrent use.
type Service struct {
	bundle    *artifacts.Bundle
	assembler *features.Assembler
	extractor vision.Extractor
	journal   Journal
	cache     Cache
	symbol    string
	log       *logger.Logger
}

// NewService wires a service around the bundle. extractor, journal and
// cache may be nil; the corresponding behavior is then disabled.
func NewService(bundle *artifacts.Bundle, extractor vision.Extractor, journal Journal, cache Cache) *Service {
	return &Service{
		bundle: bundle,
		assembler: &features.Assembler{
			Brand:         bundle.Encoders.Brand,
			FuelType:      bundle.Encoders.FuelType,
			Transmission:  bundle.Encoders.Transmission,
			ReferenceYear: bundle.Mappings.ReferenceYear,
		},
		extractor: extractor,
		journal:   journal,
		cache:     cache,
		symbol:    bundle.Mappings.CurrencySymbol,
		log:       logger.Get().With("component", "prediction"),
	}
}

// ModelName returns the family name of the loaded regressor.
func (s *Service) ModelName() string {
	return s.bundle.Model.Name()
}

// ImageEnabled reports whether the image prediction path is available.
func (s *Service) ImageEnabled() bool {
	return s.extractor != nil
}

// Options returns the fitted category values, each list sorted.
func (s *Service) Options() Options {
	return Options{
		Brands:        sortedCopy(s.bundle.Mappings.Brands),
		FuelTypes:     sortedCopy(s.bundle.Mappings.FuelTypes),
		Transmissions: sortedCopy(s.bundle.Mappings.Transmissions),
	}
}

// PredictForm serves a prediction for a fully resolved form input.
func (s *Service) PredictForm(ctx context.Context, in features.CarInput) (*Prediction, error) {
	if s.cache != nil {
		var cached Prediction
		key := cacheKey(in)
		switch err := s.cache.Get(ctx, key, &cached); {
		case err == nil:
			metrics.RecordCacheLookup("hit")
			return &cached, nil
		case errors.Is(err, errors.ErrNotFound):
			metrics.RecordCacheLookup("miss")
		default:
			metrics.RecordCacheLookup("error")
			s.log.Warnw("prediction cache lookup failed", "error", err)
		}
	}

	pred, err := s.predict(ctx, SourceForm, in)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey(in), pred); err != nil {
			s.log.Warnw("prediction cache write failed", "error", err)
		}
	}
	return pred, nil
}

// PredictImage derives car attributes from an uploaded image, resolves them
// against the explicit overrides and serves a prediction.
func (s *Service) PredictImage(ctx context.Context, img image.Image, ov Overrides) (*ImagePrediction, error) {
	if s.extractor == nil {
		return nil, errors.ErrImageModelDisabled
	}

	vec, err := s.extractor.Extract(img)
	if err != nil {
		metrics.RecordPrediction(SourceImage, 0, err)
		return nil, err
	}
	est := vision.EstimateCarFeatures(vec)

	in := resolveImageInput(est, ov)
	pred, err := s.predict(ctx, SourceImage, in)
	if err != nil {
		return nil, err
	}

	// Echo the resolved values, not the raw estimates: an explicit
	// override replaces the estimate in estimated_features too.
	return &ImagePrediction{
		Prediction: *pred,
		Estimated: vision.Estimate{
			ModelYear:  in.ModelYear,
			Mileage:    in.Mileage,
			Horsepower: in.Horsepower,
		},
	}, nil
}

func (s *Service) predict(ctx context.Context, source string, in features.CarInput) (*Prediction, error) {
	s.countUnknownLabels(in)

	scaled, err := s.bundle.Scaler.Transform(s.assembler.Assemble(in))
	if err != nil {
		metrics.RecordPrediction(source, 0, err)
		return nil, err
	}

	price, err := s.bundle.Model.Predict(scaled)
	if err != nil {
		metrics.RecordPrediction(source, 0, err)
		return nil, err
	}
	price = Round2(price)
	metrics.RecordPrediction(source, price, nil)

	if s.journal != nil {
		if err := s.journal.Record(ctx, source, in, price); err != nil {
			s.log.Warnw("prediction journal write failed", "error", err)
		}
	}

	return &Prediction{
		Price:     price,
		Formatted: FormatPrice(s.symbol, price),
		Input:     in,
		CarAge:    s.assembler.CarAge(in.ModelYear),
	}, nil
}

func (s *Service) countUnknownLabels(in features.CarInput) {
	if !s.assembler.Brand.Known(in.Brand) {
		metrics.UnknownLabels.WithLabelValues("brand").Inc()
		s.log.Debugw("unknown brand mapped to fallback code", "brand", in.Brand)
	}
	if !s.assembler.FuelType.Known(in.FuelType) {
		metrics.UnknownLabels.WithLabelValues("fuel_type").Inc()
	}
	if !s.assembler.Transmission.Known(in.Transmission) {
		metrics.UnknownLabels.WithLabelValues("transmission").Inc()
	}
}

// resolveImageInput layers overrides on top of the image estimates and the
// static defaults.
func resolveImageInput(est vision.Estimate, ov Overrides) features.CarInput {
	in := features.CarInput{
		Brand:        features.DefaultBrand,
		ModelYear:    est.ModelYear,
		Mileage:      est.Mileage,
		FuelType:     features.DefaultFuelType,
		Transmission: features.DefaultTransmission,
		HasAccident:  features.DefaultHasAccident,
		IsCleanTitle: features.DefaultIsCleanTitle,
		Horsepower:   est.Horsepower,
		EngineSize:   features.DefaultEngineSize,
	}

	if ov.Brand != nil {
		in.Brand = *ov.Brand
	}
	if ov.ModelYear != nil {
		in.ModelYear = *ov.ModelYear
	}
	if ov.Mileage != nil {
		in.Mileage = *ov.Mileage
	}
	if ov.FuelType != nil {
		in.FuelType = *ov.FuelType
	}
	if ov.Transmission != nil {
		in.Transmission = *ov.Transmission
	}
	if ov.HasAccident != nil {
		in.HasAccident = *ov.HasAccident
	}
	if ov.IsCleanTitle != nil {
		in.IsCleanTitle = *ov.IsCleanTitle
	}
	if ov.Horsepower != nil {
		in.Horsepower = *ov.Horsepower
	}
	if ov.EngineSize != nil {
		in.EngineSize = *ov.EngineSize
	}
	return in
}

// cacheKey hashes the resolved input so equal requests share an entry.
func cacheKey(in features.CarInput) string {
	data, _ := json.Marshal(in)
	sum := sha256.Sum256(data)
	return "prediction:" + hex.EncodeToString(sum[:])
}

func sortedCopy(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}
