package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMAE(t *testing.T) {
	yTrue := []float64{1, 2, 3}
	yPred := []float64{2, 2, 5}
	assert.InDelta(t, 1, MAE(yTrue, yPred), 1e-9)
}

func TestRMSE(t *testing.T) {
	yTrue := []float64{0, 0}
	yPred := []float64{3, 4}
	assert.InDelta(t, 3.5355339, RMSE(yTrue, yPred), 1e-6)
}

func TestR2PerfectFit(t *testing.T) {
	y := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1, R2(y, y), 1e-9)
}

func TestR2MeanPredictor(t *testing.T) {
	yTrue := []float64{1, 2, 3, 4}
	yPred := []float64{2.5, 2.5, 2.5, 2.5}
	assert.InDelta(t, 0, R2(yTrue, yPred), 1e-9)
}

func TestR2ConstantTarget(t *testing.T) {
	yTrue := []float64{5, 5, 5}
	yPred := []float64{4, 5, 6}
	assert.Equal(t, 0.0, R2(yTrue, yPred))
}

func TestEvaluate(t *testing.T) {
	m := NewLinearRegression()
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{2, 4, 6, 8}
	require.NoError(t, m.Fit(X, y))

	score, err := Evaluate(m, X, y)
	require.NoError(t, err)
	assert.InDelta(t, 1, score.R2, 1e-6)
	assert.InDelta(t, 0, score.MAE, 1e-4)
	assert.InDelta(t, 0, score.RMSE, 1e-4)
}
