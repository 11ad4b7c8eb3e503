package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carprice/pkg/errors"
)

func TestStandardScalerFitTransform(t *testing.T) {
	X := [][]float64{
		{1, 10},
		{2, 20},
		{3, 30},
	}

	s := &StandardScaler{}
	require.NoError(t, s.Fit(X))

	assert.InDelta(t, 2, s.Mean[0], 1e-9)
	assert.InDelta(t, 20, s.Mean[1], 1e-9)

	out, err := s.Transform([]float64{2, 20})
	require.NoError(t, err)
	assert.InDelta(t, 0, out[0], 1e-9)
	assert.InDelta(t, 0, out[1], 1e-9)

	scaled, err := s.TransformMatrix(X)
	require.NoError(t, err)
	// Standardized columns have zero mean and unit spread.
	var sum float64
	for _, row := range scaled {
		sum += row[0]
	}
	assert.InDelta(t, 0, sum, 1e-9)
}

func TestStandardScalerConstantColumn(t *testing.T) {
	X := [][]float64{{5, 1}, {5, 2}, {5, 3}}

	s := &StandardScaler{}
	require.NoError(t, s.Fit(X))
	assert.Equal(t, 1.0, s.Std[0])

	out, err := s.Transform([]float64{5, 2})
	require.NoError(t, err)
	assert.Equal(t, 0.0, out[0])
}

func TestStandardScalerDimensionMismatch(t *testing.T) {
	s := &StandardScaler{}
	require.NoError(t, s.Fit([][]float64{{1, 2}, {3, 4}}))

	_, err := s.Transform([]float64{1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDimensionMismatch))
}
