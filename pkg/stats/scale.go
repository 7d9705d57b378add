package stats

import (
	"math"

	"github.com/rotisserie/eris"
)

// StandardScaler standardizes columns to zero mean and unit variance using
// the population standard deviation. Constant columns keep a scale of 1.
type StandardScaler struct {
	Mean []float64
	Std  []float64
	fit  bool
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return eris.New("scaler: no rows to fit")
	}
	r, c := len(X), len(X[0])
	s.Mean = make([]float64, c)
	s.Std = make([]float64, c)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			s.Mean[j] += X[i][j]
		}
		s.Mean[j] /= float64(r)
		v := 0.0
		for i := 0; i < r; i++ {
			d := X[i][j] - s.Mean[j]
			v += d * d
		}
		v /= float64(r)
		s.Std[j] = math.Sqrt(v)
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	s.fit = true
	return nil
}

func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	if !s.fit {
		return nil, eris.New("scaler: not fitted")
	}
	Y := make([][]float64, len(X))
	for i, x := range X {
		if len(x) != len(s.Mean) {
			return nil, eris.Errorf("scaler: row %d has %d columns, want %d", i, len(x), len(s.Mean))
		}
		row := make([]float64, len(x))
		for j := range x {
			row[j] = (x[j] - s.Mean[j]) / s.Std[j]
		}
		Y[i] = row
	}
	return Y, nil
}

func (s *StandardScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
