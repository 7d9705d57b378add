package report

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/maliblgn/imdb-movie-classifier/pkg/config"
	"github.com/maliblgn/imdb-movie-classifier/pkg/dataprep"
	"github.com/maliblgn/imdb-movie-classifier/pkg/loader"
	"github.com/maliblgn/imdb-movie-classifier/pkg/model"
	"github.com/maliblgn/imdb-movie-classifier/pkg/pipeline"
)

// ModelResult holds the test-set scores of one fitted pipeline.
type ModelResult struct {
	Name      string                     `yaml:"name"`
	Pipeline  string                     `yaml:"pipeline"`
	Accuracy  float64                    `yaml:"accuracy"`
	Precision float64                    `yaml:"precision"`
	Recall    float64                    `yaml:"recall"`
	F1        float64                    `yaml:"f1"`
	Report    model.ClassificationReport `yaml:"classification_report"`
	Confusion model.ConfusionMatrix      `yaml:"confusion_matrix,flow"`
}

// Evaluation is the split summary plus one result per pipeline, in the
// order the pipelines were given.
type Evaluation struct {
	Rows          int           `yaml:"rows"`
	Features      []string      `yaml:"features"`
	Stratified    bool          `yaml:"stratified"`
	TrainSize     int           `yaml:"train_size"`
	TestSize      int           `yaml:"test_size"`
	TrainPositive int           `yaml:"train_positive"`
	TestPositive  int           `yaml:"test_positive"`
	Models        []ModelResult `yaml:"models"`
}

// Evaluate splits t, fits every pipeline on the training part concurrently
// and scores each on the test part.
func Evaluate(ctx context.Context, t *dataprep.Table, s pipeline.Schema, pipes []*pipeline.Pipeline, cfg config.SplitConfig) (*Evaluation, error) {
	frame, err := pipeline.NewFrame(t, s)
	if err != nil {
		return nil, eris.Wrap(err, "evaluate: features")
	}
	y := t.Labels()

	var train, test []int
	if cfg.Stratify {
		train, test, err = loader.StratifiedSplit(y, cfg.TestSize, cfg.Seed)
	} else {
		train, test, err = loader.TrainTestSplit(len(y), cfg.TestSize, cfg.Seed)
	}
	if err != nil {
		return nil, eris.Wrap(err, "evaluate: split")
	}

	yTrain, yTest := loader.Take(y, train), loader.Take(y, test)
	trainFrame, testFrame := frame.Subset(train), frame.Subset(test)

	ev := &Evaluation{
		Rows:          t.Len(),
		Features:      append(append([]string(nil), s.Numeric...), s.Categorical...),
		Stratified:    cfg.Stratify,
		TrainSize:     len(train),
		TestSize:      len(test),
		TrainPositive: sum(yTrain),
		TestPositive:  sum(yTest),
		Models:        make([]ModelResult, len(pipes)),
	}
	zap.L().Info("evaluate: split",
		zap.Int("train", ev.TrainSize),
		zap.Int("test", ev.TestSize),
		zap.Bool("stratified", ev.Stratified),
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range pipes {
		g.Go(func() error {
			if err := p.Fit(gctx, trainFrame, yTrain); err != nil {
				return err
			}
			pred, err := p.Predict(testFrame)
			if err != nil {
				return err
			}
			ev.Models[i] = score(p, yTest, pred)
			zap.L().Info("evaluate: model scored",
				zap.String("model", p.Name),
				zap.Float64("accuracy", ev.Models[i].Accuracy),
				zap.Float64("f1", ev.Models[i].F1),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "evaluate")
	}
	return ev, nil
}

func score(p *pipeline.Pipeline, yTrue, yPred []int) ModelResult {
	prec, rec, f1 := model.PrecisionRecallF1(yTrue, yPred)
	return ModelResult{
		Name:      p.Name,
		Pipeline:  p.String(),
		Accuracy:  model.Accuracy(yTrue, yPred),
		Precision: prec,
		Recall:    rec,
		F1:        f1,
		Report:    model.Report(yTrue, yPred),
		Confusion: model.Confusion(yTrue, yPred),
	}
}

func sum(y []int) int {
	s := 0
	for _, v := range y {
		s += v
	}
	return s
}
