package ml

import (
	"gonum.org/v1/gonum/mat"

	"carprice/pkg/errors"
)

// LinearRegression is least squares with an intercept term, solved via the
// normal equations with a tiny ridge term. The regularization keeps the
// solve well posed when features are collinear (the age feature is a linear
// function of the model year).
type LinearRegression struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// ridgeLambda is small enough to leave coefficients unchanged to several
// significant digits on well conditioned data.
const ridgeLambda = 1e-8

// NewLinearRegression creates an unfitted model.
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

// Name implements Regressor.
func (m *LinearRegression) Name() string {
	return NameLinear
}

// Fit solves (AᵀA + λI)·β = Aᵀy for β, where A is X augmented with an
// intercept column.
func (m *LinearRegression) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 || n != len(y) {
		return errors.New("linear regression requires a non-empty matrix matching the target length")
	}
	p := len(X[0])

	a := mat.NewDense(n, p+1, nil)
	for i, row := range X {
		if len(row) != p {
			return errors.Wrapf(errors.ErrDimensionMismatch, "row %d has %d features, want %d", i, len(row), p)
		}
		a.Set(i, 0, 1)
		for j, v := range row {
			a.Set(i, j+1, v)
		}
	}
	b := mat.NewDense(n, 1, y)

	var ata mat.Dense
	ata.Mul(a.T(), a)
	lambda := ridgeLambda * float64(n)
	for j := 0; j < p+1; j++ {
		ata.Set(j, j, ata.At(j, j)+lambda)
	}

	var atb mat.Dense
	atb.Mul(a.T(), b)

	var beta mat.Dense
	if err := beta.Solve(&ata, &atb); err != nil {
		return errors.Wrap(err, "least squares solve failed")
	}

	m.Intercept = beta.At(0, 0)
	m.Coefficients = make([]float64, p)
	for j := 0; j < p; j++ {
		m.Coefficients[j] = beta.At(j+1, 0)
	}
	return nil
}

// Predict implements Regressor.
func (m *LinearRegression) Predict(x []float64) (float64, error) {
	if len(m.Coefficients) == 0 {
		return 0, errors.ErrNotFitted
	}
	if len(x) != len(m.Coefficients) {
		return 0, errors.Wrapf(errors.ErrDimensionMismatch, "got %d features, want %d", len(x), len(m.Coefficients))
	}

	pred := m.Intercept
	for j, v := range x {
		pred += m.Coefficients[j] * v
	}
	return pred, nil
}
