package artifacts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"carprice/internal/features"
	"carprice/internal/ml"
	"carprice/pkg/errors"
)

// The four named artifacts a training run produces. The inference service
// loads all of them at startup; any one missing or unparseable is fatal.
const (
	ModelFile    = "model.json"
	ScalerFile   = "scaler.json"
	EncodersFile = "label_encoders.json"
	MappingsFile = "mappings.json"
)

// Encoders bundles the three fitted category encoders.
type Encoders struct {
	Brand        *features.LabelEncoder `json:"brand"`
	FuelType     *features.LabelEncoder `json:"fuel_type"`
	Transmission *features.LabelEncoder `json:"transmission"`
}

// Mappings records the fitted class lists plus training-run metadata. The
// reference year used for the car-age feature is persisted here so
// inference derives car age against the same year training did.
type Mappings struct {
	Brands         []string            `json:"brands"`
	FuelTypes      []string            `json:"fuel_types"`
	Transmissions  []string            `json:"transmissions"`
	ReferenceYear  int                 `json:"reference_year"`
	CurrencySymbol string              `json:"currency_symbol"`
	CurrencyRate   float64             `json:"currency_rate"`
	TrainedAt      time.Time           `json:"trained_at"`
	BestModel      string              `json:"best_model"`
	Scores         map[string]ml.Score `json:"scores"`
}

// Bundle is the immutable set of artifacts the service holds for its
// lifetime. Constructed once at startup, never mutated afterwards.
type Bundle struct {
	Model    ml.Regressor
	Scaler   *features.StandardScaler
	Encoders Encoders
	Mappings Mappings
}

// Save writes all four artifacts into dir, creating it if needed.
func Save(dir string, b *Bundle) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create artifacts dir %s", dir)
	}

	modelData, err := ml.Marshal(b.Model)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, ModelFile), modelData, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", ModelFile)
	}

	if err := writeJSON(dir, ScalerFile, b.Scaler); err != nil {
		return err
	}
	if err := writeJSON(dir, EncodersFile, b.Encoders); err != nil {
		return err
	}
	return writeJSON(dir, MappingsFile, b.Mappings)
}

// Load reads all four artifacts from dir. Errors name the failing
// artifact so startup failures are diagnosable.
func Load(dir string) (*Bundle, error) {
	b := &Bundle{Scaler: &features.StandardScaler{}}

	modelData, err := readArtifact(dir, ModelFile)
	if err != nil {
		return nil, err
	}
	if b.Model, err = ml.Unmarshal(modelData); err != nil {
		return nil, errors.Wrapf(err, "artifact %s", ModelFile)
	}

	if err := readJSON(dir, ScalerFile, b.Scaler); err != nil {
		return nil, err
	}
	if err := readJSON(dir, EncodersFile, &b.Encoders); err != nil {
		return nil, err
	}
	if err := readJSON(dir, MappingsFile, &b.Mappings); err != nil {
		return nil, err
	}

	if b.Encoders.Brand == nil || b.Encoders.FuelType == nil || b.Encoders.Transmission == nil {
		return nil, errors.Wrapf(errors.ErrArtifactCorrupt, "artifact %s is missing an encoder", EncodersFile)
	}
	if len(b.Scaler.Mean) != features.NumFeatures {
		return nil, errors.Wrapf(errors.ErrArtifactCorrupt, "artifact %s has %d dimensions, want %d", ScalerFile, len(b.Scaler.Mean), features.NumFeatures)
	}

	return b, nil
}

func writeJSON(dir, name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "failed to marshal %s", name)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", name)
	}
	return nil
}

func readArtifact(dir, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(errors.ErrArtifactNotFound, "artifact %s", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read artifact %s", name)
	}
	return data, nil
}

func readJSON(dir, name string, dest interface{}) error {
	data, err := readArtifact(dir, name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Wrapf(errors.ErrArtifactCorrupt, "artifact %s: %v", name, err)
	}
	return nil
}
