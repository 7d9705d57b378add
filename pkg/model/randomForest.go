package model

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Max-features rules for RandomForest.
const (
	MaxFeaturesSqrt = "sqrt"
	MaxFeaturesLog2 = "log2"
	MaxFeaturesAll  = "all"
)

// RandomForest for binary classification.
type RandomForest struct {
	NEstimators         int
	MaxDepth            int
	MinSamplesSplit     int
	MinSamplesLeaf      int
	MaxFeatures         string
	Criterion           string
	MinImpurityDecrease float64
	Bootstrap           bool
	RandomState         int64

	Trees     []*DecisionTreeClassifier
	nFeatures int
}

// RandomForestOption functional config for RandomForest
type RandomForestOption func(*RandomForest)

func WithNEstimators(n int) RandomForestOption { return func(rf *RandomForest) { rf.NEstimators = n } }
func WithBootstrap(b bool) RandomForestOption  { return func(rf *RandomForest) { rf.Bootstrap = b } }
func WithForestSeed(seed int64) RandomForestOption {
	return func(rf *RandomForest) { rf.RandomState = seed }
}
func WithForestMaxDepth(d int) RandomForestOption {
	return func(rf *RandomForest) { rf.MaxDepth = d }
}
func WithForestMinSamplesSplit(n int) RandomForestOption {
	return func(rf *RandomForest) { rf.MinSamplesSplit = n }
}
func WithForestMinSamplesLeaf(n int) RandomForestOption {
	return func(rf *RandomForest) { rf.MinSamplesLeaf = n }
}
func WithForestMaxFeatures(rule string) RandomForestOption {
	return func(rf *RandomForest) { rf.MaxFeatures = rule }
}
func WithForestCriterion(c string) RandomForestOption {
	return func(rf *RandomForest) { rf.Criterion = c }
}
func WithForestMinImpurityDecrease(v float64) RandomForestOption {
	return func(rf *RandomForest) { rf.MinImpurityDecrease = v }
}

// NewRandomForest returns 200 bootstrapped, fully grown trees that each
// consider sqrt(p) features per split, seeded with 42.
func NewRandomForest(opts ...RandomForestOption) *RandomForest {
	rf := &RandomForest{
		NEstimators:     200,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     MaxFeaturesSqrt,
		Criterion:       "gini",
		Bootstrap:       true,
		RandomState:     42,
	}
	for _, o := range opts {
		o(rf)
	}
	return rf
}

func (rf *RandomForest) String() string {
	return fmt.Sprintf("RandomForestClassifier(n_estimators=%d, max_features=%s, bootstrap=%t, random_state=%d)",
		rf.NEstimators, rf.MaxFeatures, rf.Bootstrap, rf.RandomState)
}

// featuresPerSplit resolves the MaxFeatures rule for p features.
func (rf *RandomForest) featuresPerSplit(p int) (int, error) {
	switch rf.MaxFeatures {
	case MaxFeaturesSqrt:
		return max(1, int(math.Sqrt(float64(p)))), nil
	case MaxFeaturesLog2:
		return max(1, int(math.Log2(float64(p)))), nil
	case MaxFeaturesAll, "":
		return p, nil
	default:
		return 0, eris.Errorf("randomforest: unknown max_features %q", rf.MaxFeatures)
	}
}

// Fit trains the trees in parallel. Tree i draws its bootstrap sample and its
// split features from a source seeded with RandomState+i, so the result does
// not depend on scheduling.
func (rf *RandomForest) Fit(ctx context.Context, X [][]float64, y []int) error {
	p, err := checkXY("randomforest", X, y)
	if err != nil {
		return err
	}
	if rf.NEstimators <= 0 {
		return eris.Errorf("randomforest: n_estimators must be positive, got %d", rf.NEstimators)
	}
	k, err := rf.featuresPerSplit(p)
	if err != nil {
		return err
	}
	n := len(X)

	trees := make([]*DecisionTreeClassifier, rf.NEstimators)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < rf.NEstimators; i++ {
		g.Go(func() error {
			seed := rf.RandomState + int64(i)
			treeRand := rand.New(rand.NewSource(seed))

			// Bootstrap sampling: an index slice, not a copy of the data.
			sampleIndices := make([]int, n)
			for j := range sampleIndices {
				if rf.Bootstrap {
					sampleIndices[j] = treeRand.Intn(n)
				} else {
					sampleIndices[j] = j
				}
			}

			tree := NewDecisionTreeClassifier(
				WithMaxDepth(rf.MaxDepth),
				WithMinSamplesSplit(rf.MinSamplesSplit),
				WithMinSamplesLeaf(rf.MinSamplesLeaf),
				WithMaxFeatures(k),
				WithCriterion(rf.Criterion),
				WithMinImpurityDecrease(rf.MinImpurityDecrease),
				WithRandomState(seed),
			)
			if err := tree.FitIndices(gctx, X, y, sampleIndices, treeRand); err != nil {
				return eris.Wrapf(err, "randomforest: tree %d", i)
			}
			trees[i] = tree
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	rf.Trees = trees
	rf.nFeatures = p
	zap.L().Debug("randomforest: fitted",
		zap.Int("trees", len(trees)),
		zap.String("criterion", rf.Criterion),
		zap.Int("max_tree_depth", rf.MaxTreeDepth()),
	)
	return nil
}

// MaxTreeDepth returns the depth of the deepest fitted tree.
func (rf *RandomForest) MaxTreeDepth() int {
	d := 0
	for _, tree := range rf.Trees {
		d = max(d, tree.Depth())
	}
	return d
}

// PredictProba averages p(y=1) over all trees.
func (rf *RandomForest) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	if len(rf.Trees) == 0 {
		return out
	}
	checkWidth("randomforest", X, rf.nFeatures)
	perTree := make([][]float64, len(rf.Trees))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, tree := range rf.Trees {
		g.Go(func() error {
			perTree[i] = tree.PredictProba(X)
			return nil
		})
	}
	_ = g.Wait()

	// summed in tree order for reproducible rounding
	for _, probs := range perTree {
		for r, v := range probs {
			out[r] += v
		}
	}
	for r := range out {
		out[r] /= float64(len(rf.Trees))
	}
	return out
}

// Predict returns class 1 where the averaged probability exceeds 0.5.
func (rf *RandomForest) Predict(X [][]float64) []int {
	return BinaryPredFromProba(rf.PredictProba(X), 0.5)
}
