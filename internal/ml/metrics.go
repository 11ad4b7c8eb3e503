package ml

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Score bundles the held-out evaluation metrics for one candidate model.
type Score struct {
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
}

// MAE returns the mean absolute error.
func MAE(yTrue, yPred []float64) float64 {
	var sum float64
	for i := range yTrue {
		sum += math.Abs(yTrue[i] - yPred[i])
	}
	return sum / float64(len(yTrue))
}

// RMSE returns the root mean squared error.
func RMSE(yTrue, yPred []float64) float64 {
	var sum float64
	for i := range yTrue {
		d := yTrue[i] - yPred[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(yTrue)))
}

// R2 returns the coefficient of determination.
func R2(yTrue, yPred []float64) float64 {
	mean := stat.Mean(yTrue, nil)

	var ssRes, ssTot float64
	for i := range yTrue {
		r := yTrue[i] - yPred[i]
		ssRes += r * r
		t := yTrue[i] - mean
		ssTot += t * t
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// Evaluate predicts every row of X and scores against y.
func Evaluate(r Regressor, X [][]float64, y []float64) (Score, error) {
	preds := make([]float64, len(X))
	for i, row := range X {
		p, err := r.Predict(row)
		if err != nil {
			return Score{}, err
		}
		preds[i] = p
	}

	return Score{
		MAE:  MAE(y, preds),
		RMSE: RMSE(y, preds),
		R2:   R2(y, preds),
	}, nil
}
