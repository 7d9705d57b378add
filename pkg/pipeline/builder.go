package pipeline

import (
	"github.com/maliblgn/imdb-movie-classifier/pkg/config"
	"github.com/maliblgn/imdb-movie-classifier/pkg/model"
)

// Model names, in report order.
const (
	NameLogistic = "Logistic Regression"
	NameForest   = "Random Forest"
)

// Build returns the untrained logistic regression and random forest
// pipelines. Each pipeline gets its own preprocessor.
func Build(s Schema, cfg config.ModelConfig) []*Pipeline {
	lr := model.NewLogisticRegression(
		model.WithSolver(cfg.Logistic.Solver),
		model.WithMaxIter(cfg.Logistic.MaxIter),
		model.WithC(cfg.Logistic.C),
		model.WithLearningRate(cfg.Logistic.LearningRate),
		model.WithBatchSize(cfg.Logistic.BatchSize),
		model.WithSeed(cfg.Logistic.Seed),
	)
	rf := model.NewRandomForest(
		model.WithNEstimators(cfg.Forest.NEstimators),
		model.WithForestSeed(cfg.Forest.Seed),
		model.WithForestMaxDepth(cfg.Forest.MaxDepth),
		model.WithForestMinSamplesSplit(cfg.Forest.MinSamplesSplit),
		model.WithForestMinSamplesLeaf(cfg.Forest.MinSamplesLeaf),
		model.WithForestMaxFeatures(cfg.Forest.MaxFeatures),
		model.WithForestCriterion(cfg.Forest.Criterion),
		model.WithForestMinImpurityDecrease(cfg.Forest.MinImpurityDecrease),
		model.WithBootstrap(cfg.Forest.Bootstrap),
	)
	return []*Pipeline{
		New(NameLogistic, s, lr),
		New(NameForest, s, rf),
	}
}
