package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carprice/pkg/errors"
)

func TestKNNRegressorPredictsNeighbourMean(t *testing.T) {
	X := [][]float64{
		{0}, {1}, {10}, {11},
	}
	y := []float64{100, 200, 1000, 1100}

	m := NewKNNRegressor(2)
	require.NoError(t, m.Fit(X, y))

	// Nearest two to 0.5 are {0} and {1}.
	pred, err := m.Predict([]float64{0.5})
	require.NoError(t, err)
	assert.InDelta(t, 150, pred, 1e-9)

	pred, err = m.Predict([]float64{10.5})
	require.NoError(t, err)
	assert.InDelta(t, 1050, pred, 1e-9)
}

func TestKNNRegressorKLargerThanTrainingSet(t *testing.T) {
	m := NewKNNRegressor(10)
	require.NoError(t, m.Fit([][]float64{{0}, {1}}, []float64{10, 20}))

	pred, err := m.Predict([]float64{0})
	require.NoError(t, err)
	assert.InDelta(t, 15, pred, 1e-9)
}

func TestKNNRegressorCopiesTrainingData(t *testing.T) {
	X := [][]float64{{1}, {2}}
	y := []float64{10, 20}

	m := NewKNNRegressor(1)
	require.NoError(t, m.Fit(X, y))

	X[0][0] = 999
	y[0] = 999

	pred, err := m.Predict([]float64{1})
	require.NoError(t, err)
	assert.InDelta(t, 10, pred, 1e-9)
}

func TestKNNRegressorNotFitted(t *testing.T) {
	m := NewKNNRegressor(3)
	_, err := m.Predict([]float64{1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFitted))
}

func TestKNNRegressorRejectsBadK(t *testing.T) {
	m := NewKNNRegressor(0)
	require.Error(t, m.Fit([][]float64{{1}}, []float64{1}))
}
