package ml

import (
	"math"
	"sort"

	"carprice/pkg/errors"
)

// KNNRegressor predicts the mean price of the K nearest training samples
// under Euclidean distance. Fit just memorizes the (scaled) training set.
type KNNRegressor struct {
	K int         `json:"k"`
	X [][]float64 `json:"x"`
	Y []float64   `json:"y"`
}

// NewKNNRegressor creates an unfitted model with the given neighbour count.
func NewKNNRegressor(k int) *KNNRegressor {
	return &KNNRegressor{K: k}
}

// Name implements Regressor.
func (m *KNNRegressor) Name() string {
	return NameKNN
}

// Fit stores copies of the training data.
func (m *KNNRegressor) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 || len(X) != len(y) {
		return errors.New("knn requires a non-empty matrix matching the target length")
	}
	if m.K <= 0 {
		return errors.Newf("knn requires k > 0, got %d", m.K)
	}

	m.X = make([][]float64, len(X))
	for i, row := range X {
		m.X[i] = append([]float64(nil), row...)
	}
	m.Y = append([]float64(nil), y...)
	return nil
}

// Predict implements Regressor.
func (m *KNNRegressor) Predict(x []float64) (float64, error) {
	if len(m.X) == 0 {
		return 0, errors.ErrNotFitted
	}
	if len(x) != len(m.X[0]) {
		return 0, errors.Wrapf(errors.ErrDimensionMismatch, "got %d features, want %d", len(x), len(m.X[0]))
	}

	type neighbour struct {
		dist float64
		val  float64
	}
	neighbours := make([]neighbour, len(m.X))
	for i, row := range m.X {
		neighbours[i] = neighbour{dist: euclidean(x, row), val: m.Y[i]}
	}
	sort.Slice(neighbours, func(a, b int) bool {
		return neighbours[a].dist < neighbours[b].dist
	})

	k := m.K
	if k > len(neighbours) {
		k = len(neighbours)
	}

	var sum float64
	for i := 0; i < k; i++ {
		sum += neighbours[i].val
	}
	return sum / float64(k), nil
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
