package features

import (
	"gonum.org/v1/gonum/stat"

	"carprice/pkg/errors"
)

// StandardScaler standardizes each feature dimension to zero mean and unit
// variance using moments computed over the training matrix. Applied
// identically at inference: (x - mean) / std per dimension.
type StandardScaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// Fit computes per-column mean and population standard deviation.
// Columns with zero spread scale by 1 so constant features pass through.
func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return errors.New("cannot fit scaler on empty matrix")
	}

	cols := len(X[0])
	s.Mean = make([]float64, cols)
	s.Std = make([]float64, cols)

	column := make([]float64, len(X))
	for j := 0; j < cols; j++ {
		for i, row := range X {
			if len(row) != cols {
				return errors.Wrapf(errors.ErrDimensionMismatch, "row %d has %d features, want %d", i, len(row), cols)
			}
			column[i] = row[j]
		}

		s.Mean[j] = stat.Mean(column, nil)
		s.Std[j] = stat.PopStdDev(column, nil)
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}

	return nil
}

// Transform standardizes a single feature vector.
func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) {
		return nil, errors.Wrapf(errors.ErrDimensionMismatch, "got %d features, want %d", len(x), len(s.Mean))
	}

	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out, nil
}

// TransformMatrix standardizes every row of X.
func (s *StandardScaler) TransformMatrix(X [][]float64) ([][]float64, error) {
	out := make([][]float64, len(X))
	for i, row := range X {
		scaled, err := s.Transform(row)
		if err != nil {
			return nil, err
		}
		out[i] = scaled
	}
	return out, nil
}
