package ml

import (
	"encoding/json"

	"carprice/pkg/errors"
)

// Regressor is a fitted function from a scaled feature vector to a price.
// Implementations must be safe for concurrent Predict calls once fitted;
// nothing is mutated after Fit.
type Regressor interface {
	// Fit trains the model on the feature matrix X and target y.
	Fit(X [][]float64, y []float64) error

	// Predict returns the predicted price for one feature vector.
	Predict(x []float64) (float64, error)

	// Name identifies the model family in artifacts and logs.
	Name() string
}

// Model family names used in the persisted envelope.
const (
	NameLinear = "linear_regression"
	NameKNN    = "knn_regressor"
	NameForest = "random_forest"
)

const formatVersion = "1.0"

// envelope is the persisted model format: a spec naming the family plus
// family-specific parameters.
type envelope struct {
	ModelSpec modelSpec       `json:"model_spec"`
	Params    json.RawMessage `json:"params"`
}

type modelSpec struct {
	Name          string `json:"name"`
	FormatVersion string `json:"format_version"`
}

// Marshal serializes a fitted regressor into the envelope format.
func Marshal(r Regressor) ([]byte, error) {
	params, err := json.Marshal(r)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal %s params", r.Name())
	}

	return json.MarshalIndent(envelope{
		ModelSpec: modelSpec{Name: r.Name(), FormatVersion: formatVersion},
		Params:    params,
	}, "", "  ")
}

// Unmarshal restores a regressor from envelope bytes. The family named in
// the spec selects the concrete type.
func Unmarshal(data []byte) (Regressor, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(errors.ErrArtifactCorrupt, err.Error())
	}
	if env.ModelSpec.FormatVersion != formatVersion {
		return nil, errors.Wrapf(errors.ErrArtifactCorrupt, "unsupported model format version %q", env.ModelSpec.FormatVersion)
	}

	var r Regressor
	switch env.ModelSpec.Name {
	case NameLinear:
		r = &LinearRegression{}
	case NameKNN:
		r = &KNNRegressor{}
	case NameForest:
		r = &RandomForest{}
	default:
		return nil, errors.Wrapf(errors.ErrArtifactCorrupt, "unknown model family %q", env.ModelSpec.Name)
	}

	if err := json.Unmarshal(env.Params, r); err != nil {
		return nil, errors.Wrapf(errors.ErrArtifactCorrupt, "failed to decode %s params: %v", env.ModelSpec.Name, err)
	}
	return r, nil
}
