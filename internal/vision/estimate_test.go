package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateCarFeaturesDeterministic(t *testing.T) {
	features := make([]float64, 200)
	for i := range features {
		features[i] = float64(i) * 0.01
	}

	a := EstimateCarFeatures(features)
	b := EstimateCarFeatures(features)
	assert.Equal(t, a, b)
}

func TestEstimateCarFeaturesRanges(t *testing.T) {
	cases := [][]float64{
		{},
		{0.5},
		make([]float64, 100),
		{-3.7, 12.2, 0.01, -9.9},
		{1e6},
		{-1e6},
	}
	for i := range cases {
		for j := range cases[i] {
			if cases[i][j] == 0 {
				cases[i][j] = float64(i*31+j) * 0.37
			}
		}
	}

	for _, features := range cases {
		est := EstimateCarFeatures(features)
		assert.GreaterOrEqual(t, est.ModelYear, 2015)
		assert.LessOrEqual(t, est.ModelYear, 2024)
		assert.GreaterOrEqual(t, est.Mileage, 50000.0)
		assert.Less(t, est.Mileage, 150000.0)
		assert.GreaterOrEqual(t, est.Horsepower, 200.0)
		assert.Less(t, est.Horsepower, 500.0)
	}
}

func TestEstimateCarFeaturesOnlyUsesPrefix(t *testing.T) {
	base := make([]float64, 150)
	for i := range base {
		base[i] = float64(i) * 0.1
	}
	longer := append(append([]float64(nil), base...), 999, 999)

	assert.Equal(t, EstimateCarFeatures(base), EstimateCarFeatures(longer))
}

func TestFloorModNegativeInput(t *testing.T) {
	assert.Equal(t, 7.0, floorMod(-3, 10))
	assert.Equal(t, 3.0, floorMod(3, 10))
	assert.Equal(t, 0.0, floorMod(-10, 10))
}
