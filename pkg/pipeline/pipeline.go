package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/maliblgn/imdb-movie-classifier/pkg/dataprep"
	"github.com/maliblgn/imdb-movie-classifier/pkg/model"
	"github.com/maliblgn/imdb-movie-classifier/pkg/stats"
)

// Preprocessor standardizes the numeric block and one-hot encodes each
// categorical column, concatenating the results in schema order.
type Preprocessor struct {
	Schema   Schema
	scaler   model.Transformer
	encoders []*dataprep.OneHotEncoder
	fitted   bool
}

func NewPreprocessor(s Schema) *Preprocessor {
	p := &Preprocessor{Schema: s, scaler: stats.NewStandardScaler()}
	for _, name := range s.Categorical {
		p.encoders = append(p.encoders, dataprep.NewOneHotEncoder(name))
	}
	return p
}

// Fit learns scaling statistics and category sets from f.
func (p *Preprocessor) Fit(f *Frame) error {
	if f.Len() == 0 {
		return eris.New("preprocess: no rows to fit")
	}
	if len(p.Schema.Numeric) > 0 {
		if err := p.scaler.Fit(f.Numeric); err != nil {
			return eris.Wrap(err, "preprocess: numeric")
		}
	}
	for j, enc := range p.encoders {
		if err := enc.Fit(f.categoricalColumn(j)); err != nil {
			return eris.Wrapf(err, "preprocess: categorical %q", enc.Name)
		}
	}
	p.fitted = true
	return nil
}

// Transform produces the model matrix for f.
func (p *Preprocessor) Transform(f *Frame) ([][]float64, error) {
	if !p.fitted {
		return nil, eris.New("preprocess: not fitted")
	}
	out := make([][]float64, f.Len())
	for i := range out {
		out[i] = make([]float64, 0, p.Width())
	}
	if len(p.Schema.Numeric) > 0 {
		scaled, err := p.scaler.Transform(f.Numeric)
		if err != nil {
			return nil, eris.Wrap(err, "preprocess: numeric")
		}
		for i := range out {
			out[i] = append(out[i], scaled[i]...)
		}
	}
	for j, enc := range p.encoders {
		block, err := enc.Transform(f.categoricalColumn(j))
		if err != nil {
			return nil, eris.Wrapf(err, "preprocess: categorical %q", enc.Name)
		}
		for i := range out {
			out[i] = append(out[i], block[i]...)
		}
	}
	return out, nil
}

// FitTransform fits on f and transforms it.
func (p *Preprocessor) FitTransform(f *Frame) ([][]float64, error) {
	if err := p.Fit(f); err != nil {
		return nil, err
	}
	return p.Transform(f)
}

// FeatureNames lists the output columns; categorical names exist once fitted.
func (p *Preprocessor) FeatureNames() []string {
	names := append([]string(nil), p.Schema.Numeric...)
	for _, enc := range p.encoders {
		names = append(names, enc.FeatureNames()...)
	}
	return names
}

// Width is the number of output columns.
func (p *Preprocessor) Width() int { return len(p.FeatureNames()) }

func (p *Preprocessor) String() string {
	return fmt.Sprintf("ColumnTransformer(num=StandardScaler%v, cat=OneHotEncoder(handle_unknown=ignore)%v)",
		p.Schema.Numeric, p.Schema.Categorical)
}

// Pipeline is a preprocessing step followed by a classifier.
type Pipeline struct {
	Name string
	Pre  *Preprocessor
	Clf  model.Classifier
}

// New returns an untrained pipeline with its own preprocessor for schema s.
func New(name string, s Schema, clf model.Classifier) *Pipeline {
	return &Pipeline{Name: name, Pre: NewPreprocessor(s), Clf: clf}
}

// Fit fits the preprocessor on f, then the classifier on the transformed rows.
func (p *Pipeline) Fit(ctx context.Context, f *Frame, y []int) error {
	if f.Len() != len(y) {
		return eris.Errorf("pipeline %s: %d rows but %d labels", p.Name, f.Len(), len(y))
	}
	X, err := p.Pre.FitTransform(f)
	if err != nil {
		return eris.Wrapf(err, "pipeline %s", p.Name)
	}
	zap.L().Debug("pipeline: fitting",
		zap.String("model", p.Name),
		zap.Int("rows", len(X)),
		zap.Int("features", p.Pre.Width()),
	)
	if err := p.Clf.Fit(ctx, X, y); err != nil {
		return eris.Wrapf(err, "pipeline %s", p.Name)
	}
	return nil
}

// Predict returns class labels for f.
func (p *Pipeline) Predict(f *Frame) ([]int, error) {
	X, err := p.Pre.Transform(f)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline %s", p.Name)
	}
	return p.Clf.Predict(X), nil
}

// PredictProba returns p(y=1) for f.
func (p *Pipeline) PredictProba(f *Frame) ([]float64, error) {
	X, err := p.Pre.Transform(f)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline %s", p.Name)
	}
	return p.Clf.PredictProba(X), nil
}

// String lists the steps in order.
func (p *Pipeline) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pipeline(steps=[\n")
	fmt.Fprintf(&b, "  ('preprocess', %s),\n", p.Pre)
	fmt.Fprintf(&b, "  ('clf', %s),\n", p.Clf)
	b.WriteString("])")
	return b.String()
}
