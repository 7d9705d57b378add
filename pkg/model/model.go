package model

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
)

// Classifier is a binary classifier over dense feature rows with 0/1 labels.
type Classifier interface {
	Fit(ctx context.Context, X [][]float64, y []int) error
	Predict(X [][]float64) []int
	PredictProba(X [][]float64) []float64 // p(y=1) per row
	String() string
}

// Transformer is a preprocessing step fitted on training data only.
type Transformer interface {
	Fit(X [][]float64) error
	Transform(X [][]float64) ([][]float64, error)
	FitTransform(X [][]float64) ([][]float64, error)
}

// checkXY validates shapes shared by every classifier.
func checkXY(prefix string, X [][]float64, y []int) (nFeatures int, err error) {
	if len(X) == 0 {
		return 0, eris.Errorf("%s: empty X", prefix)
	}
	if len(y) != len(X) {
		return 0, eris.Errorf("%s: X has %d rows, y has %d", prefix, len(X), len(y))
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return 0, eris.Errorf("%s: row %d has %d features, want %d", prefix, i, len(X[i]), p)
		}
	}
	for i, v := range y {
		if v != 0 && v != 1 {
			return 0, eris.Errorf("%s: label %d at row %d is not 0 or 1", prefix, v, i)
		}
	}
	return p, nil
}

// checkWidth panics unless every row of X has p features. Call it before
// fanning rows out to workers.
func checkWidth(prefix string, X [][]float64, p int) {
	for i, row := range X {
		if len(row) != p {
			panic(fmt.Sprintf("%s: row %d has %d features, model expects %d", prefix, i, len(row), p))
		}
	}
}
