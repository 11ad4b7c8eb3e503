package vision

import (
	"math"
)

// Estimate carries the placeholder car attributes derived from an image
// feature vector. These are NOT predictions from a trained estimator: the
// values are an arbitrary deterministic function of the feature sum.
// Explicit form fields always take precedence over them.
type Estimate struct {
	ModelYear  int     `json:"model_year"`
	Mileage    float64 `json:"mileage"`
	Horsepower float64 `json:"horsepower"`
}

// featureSumWindow limits the sum to a fixed prefix of the classifier
// output so the estimate does not depend on the model's class count.
const featureSumWindow = 100

// EstimateCarFeatures derives placeholder year/mileage/horsepower from the
// image feature vector: year in 2015-2024, mileage in 50k-150k, horsepower
// in 200-500.
func EstimateCarFeatures(features []float64) Estimate {
	n := featureSumWindow
	if n > len(features) {
		n = len(features)
	}

	var sum float64
	for _, v := range features[:n] {
		sum += v
	}

	return Estimate{
		ModelYear:  int(2015 + floorMod(sum, 10)),
		Mileage:    math.Abs(math.Trunc(50000 + floorMod(sum*1000, 100000))),
		Horsepower: math.Abs(math.Trunc(200 + floorMod(sum*10, 300))),
	}
}

// floorMod is modulo with the divisor's sign, so the result is never
// negative for a positive divisor.
func floorMod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}
