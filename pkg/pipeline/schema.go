package pipeline

import (
	"github.com/rotisserie/eris"

	"github.com/maliblgn/imdb-movie-classifier/pkg/dataprep"
)

// Schema names the numeric and categorical feature columns of a model.
type Schema struct {
	Numeric     []string
	Categorical []string
}

// DefaultSchema is the feature set used by both classifiers.
func DefaultSchema() Schema {
	return Schema{
		Numeric:     []string{dataprep.ColStartYear, dataprep.ColRuntimeMinutes, dataprep.ColNumVotesLog},
		Categorical: []string{dataprep.ColPrimaryGenre},
	}
}

// Source exposes named columns; *dataprep.Table implements it.
type Source interface {
	Len() int
	Column(name string) ([]float64, error)
	Categorical(name string) ([]string, error)
}

// Frame holds the schema's columns row by row.
type Frame struct {
	Numeric     [][]float64 // rows x len(Schema.Numeric)
	Categorical [][]string  // rows x len(Schema.Categorical)
}

// NewFrame extracts the schema's columns from src.
func NewFrame(src Source, s Schema) (*Frame, error) {
	n := src.Len()
	f := &Frame{Numeric: make([][]float64, n), Categorical: make([][]string, n)}
	for i := 0; i < n; i++ {
		f.Numeric[i] = make([]float64, len(s.Numeric))
		f.Categorical[i] = make([]string, len(s.Categorical))
	}
	for j, name := range s.Numeric {
		col, err := src.Column(name)
		if err != nil {
			return nil, eris.Wrapf(err, "pipeline: numeric feature %q", name)
		}
		for i, v := range col {
			f.Numeric[i][j] = v
		}
	}
	for j, name := range s.Categorical {
		col, err := src.Categorical(name)
		if err != nil {
			return nil, eris.Wrapf(err, "pipeline: categorical feature %q", name)
		}
		for i, v := range col {
			f.Categorical[i][j] = v
		}
	}
	return f, nil
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Numeric) }

// Subset returns the rows at idx, sharing row storage with f.
func (f *Frame) Subset(idx []int) *Frame {
	out := &Frame{Numeric: make([][]float64, len(idx)), Categorical: make([][]string, len(idx))}
	for i, j := range idx {
		out.Numeric[i] = f.Numeric[j]
		out.Categorical[i] = f.Categorical[j]
	}
	return out
}

// categoricalColumn returns column j of the categorical block.
func (f *Frame) categoricalColumn(j int) []string {
	out := make([]string, len(f.Categorical))
	for i, row := range f.Categorical {
		out[i] = row[j]
	}
	return out
}
