package dataprep

import (
	"sort"

	"github.com/rotisserie/eris"
)

// OneHotEncoder maps a categorical column to indicator vectors.
// Categories seen only at transform time encode to the all-zero vector.
type OneHotEncoder struct {
	Name       string
	categories []string
	index      map[string]int
}

// NewOneHotEncoder returns an unfitted encoder for the named column.
func NewOneHotEncoder(name string) *OneHotEncoder {
	return &OneHotEncoder{Name: name}
}

// Fit learns the sorted set of distinct categories.
func (e *OneHotEncoder) Fit(values []string) error {
	if len(values) == 0 {
		return eris.Errorf("onehot: no values to fit for %q", e.Name)
	}
	seen := map[string]struct{}{}
	cats := make([]string, 0)
	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			cats = append(cats, v)
		}
	}
	sort.Strings(cats)

	e.categories = cats
	e.index = make(map[string]int, len(cats))
	for i, c := range cats {
		e.index[c] = i
	}
	return nil
}

// Transform encodes values; unknown categories produce all zeros.
func (e *OneHotEncoder) Transform(values []string) ([][]float64, error) {
	if e.index == nil {
		return nil, eris.Errorf("onehot: encoder for %q is not fitted", e.Name)
	}
	out := make([][]float64, len(values))
	for i, v := range values {
		vec := make([]float64, len(e.categories))
		if j, ok := e.index[v]; ok {
			vec[j] = 1
		}
		out[i] = vec
	}
	return out, nil
}

// FeatureNames returns "<name>_<category>" for each output column.
func (e *OneHotEncoder) FeatureNames() []string {
	out := make([]string, len(e.categories))
	for i, c := range e.categories {
		out[i] = e.Name + "_" + c
	}
	return out
}
