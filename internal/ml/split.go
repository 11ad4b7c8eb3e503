package ml

import (
	"math"
	"math/rand"
)

// TrainTestSplit shuffles the rows with the given seed and carves off the
// trailing testSize fraction as the held-out partition. The same seed
// always produces the same partitioning.
func TrainTestSplit(X [][]float64, y []float64, testSize float64, seed int64) (XTrain, XTest [][]float64, yTrain, yTest []float64) {
	n := len(X)
	perm := rand.New(rand.NewSource(seed)).Perm(n)

	nTest := int(math.Round(float64(n) * testSize))
	if nTest < 1 && n > 1 {
		nTest = 1
	}
	nTrain := n - nTest

	XTrain = make([][]float64, 0, nTrain)
	yTrain = make([]float64, 0, nTrain)
	XTest = make([][]float64, 0, nTest)
	yTest = make([]float64, 0, nTest)

	for i, idx := range perm {
		if i < nTrain {
			XTrain = append(XTrain, X[idx])
			yTrain = append(yTrain, y[idx])
		} else {
			XTest = append(XTest, X[idx])
			yTest = append(yTest, y[idx])
		}
	}
	return XTrain, XTest, yTrain, yTest
}
