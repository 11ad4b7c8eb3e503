package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func splitFixture(n int) ([][]float64, []float64) {
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		X[i] = []float64{float64(i)}
		y[i] = float64(i) * 10
	}
	return X, y
}

func TestTrainTestSplitSizes(t *testing.T) {
	X, y := splitFixture(100)

	XTrain, XTest, yTrain, yTest := TrainTestSplit(X, y, 0.2, 42)
	assert.Len(t, XTrain, 80)
	assert.Len(t, XTest, 20)
	assert.Len(t, yTrain, 80)
	assert.Len(t, yTest, 20)
}

func TestTrainTestSplitDeterministic(t *testing.T) {
	X, y := splitFixture(50)

	_, testA, _, _ := TrainTestSplit(X, y, 0.2, 42)
	_, testB, _, _ := TrainTestSplit(X, y, 0.2, 42)
	assert.Equal(t, testA, testB)

	_, testC, _, _ := TrainTestSplit(X, y, 0.2, 7)
	assert.NotEqual(t, testA, testC)
}

func TestTrainTestSplitKeepsPairsAligned(t *testing.T) {
	X, y := splitFixture(30)

	XTrain, XTest, yTrain, yTest := TrainTestSplit(X, y, 0.3, 1)
	for i, row := range XTrain {
		assert.Equal(t, row[0]*10, yTrain[i])
	}
	for i, row := range XTest {
		assert.Equal(t, row[0]*10, yTest[i])
	}
}

func TestTrainTestSplitSmallSet(t *testing.T) {
	X, y := splitFixture(3)

	XTrain, XTest, _, _ := TrainTestSplit(X, y, 0.1, 1)
	require.Len(t, XTest, 1)
	require.Len(t, XTrain, 2)
}
