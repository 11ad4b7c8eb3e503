package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carprice/pkg/errors"
)

func TestLinearRegressionRecoversLine(t *testing.T) {
	// y = 3 + 2*x1 - x2, exactly representable.
	X := [][]float64{
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 1},
		{5, 5},
	}
	y := make([]float64, len(X))
	for i, row := range X {
		y[i] = 3 + 2*row[0] - row[1]
	}

	m := NewLinearRegression()
	require.NoError(t, m.Fit(X, y))

	assert.InDelta(t, 3, m.Intercept, 1e-4)
	assert.InDelta(t, 2, m.Coefficients[0], 1e-4)
	assert.InDelta(t, -1, m.Coefficients[1], 1e-4)

	pred, err := m.Predict([]float64{10, 4})
	require.NoError(t, err)
	assert.InDelta(t, 3+20-4, pred, 1e-3)
}

func TestLinearRegressionNotFitted(t *testing.T) {
	m := NewLinearRegression()
	_, err := m.Predict([]float64{1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFitted))
}

func TestLinearRegressionDimensionMismatch(t *testing.T) {
	m := NewLinearRegression()
	require.NoError(t, m.Fit([][]float64{{1}, {2}, {3}}, []float64{1, 2, 3}))

	_, err := m.Predict([]float64{1, 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDimensionMismatch))
}

func TestLinearRegressionEmptyInput(t *testing.T) {
	m := NewLinearRegression()
	require.Error(t, m.Fit(nil, nil))
}
