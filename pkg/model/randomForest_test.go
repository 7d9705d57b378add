package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomForest_Fit(t *testing.T) {
	X, y := generateBlobs(300, 4, 1, 1)
	rf := NewRandomForest(WithNEstimators(25))
	require.NoError(t, rf.Fit(context.Background(), X, y))

	assert.Len(t, rf.Trees, 25)
	for _, tree := range rf.Trees {
		assert.Equal(t, 2, tree.MaxFeatures)
	}
	assert.Greater(t, Accuracy(y, rf.Predict(X)), 0.95)
	for _, p := range rf.PredictProba(X) {
		assert.True(t, p >= 0 && p <= 1)
	}
}

func TestRandomForest_Deterministic(t *testing.T) {
	X, y := generateBlobs(200, 3, 0.7, 2)
	a := NewRandomForest(WithNEstimators(15), WithForestSeed(7))
	b := NewRandomForest(WithNEstimators(15), WithForestSeed(7))
	require.NoError(t, a.Fit(context.Background(), X, y))
	require.NoError(t, b.Fit(context.Background(), X, y))
	assert.Equal(t, a.PredictProba(X), b.PredictProba(X))

	c := NewRandomForest(WithNEstimators(15), WithForestSeed(8))
	require.NoError(t, c.Fit(context.Background(), X, y))
	assert.NotEqual(t, a.PredictProba(X), c.PredictProba(X))
}

func TestRandomForest_Defaults(t *testing.T) {
	rf := NewRandomForest()
	assert.Equal(t, 200, rf.NEstimators)
	assert.Equal(t, int64(42), rf.RandomState)
	assert.Equal(t, MaxFeaturesSqrt, rf.MaxFeatures)
	assert.True(t, rf.Bootstrap)
	assert.Equal(t, "RandomForestClassifier(n_estimators=200, max_features=sqrt, bootstrap=true, random_state=42)", rf.String())
}

func TestRandomForest_FeaturesPerSplit(t *testing.T) {
	tests := []struct {
		rule string
		p    int
		want int
	}{
		{MaxFeaturesSqrt, 16, 4},
		{MaxFeaturesSqrt, 30, 5},
		{MaxFeaturesSqrt, 1, 1},
		{MaxFeaturesLog2, 8, 3},
		{MaxFeaturesLog2, 1, 1},
		{MaxFeaturesAll, 9, 9},
	}
	for _, tt := range tests {
		rf := NewRandomForest(WithForestMaxFeatures(tt.rule))
		k, err := rf.featuresPerSplit(tt.p)
		require.NoError(t, err)
		assert.Equal(t, tt.want, k, "%s(%d)", tt.rule, tt.p)
	}
	_, err := NewRandomForest(WithForestMaxFeatures("half")).featuresPerSplit(4)
	assert.Error(t, err)
}

func TestRandomForest_NoBootstrapSameTrees(t *testing.T) {
	X, y := generateBlobs(60, 1, 1, 3)
	rf := NewRandomForest(WithNEstimators(3), WithBootstrap(false))
	require.NoError(t, rf.Fit(context.Background(), X, y))
	// one feature: every tree sees the same rows and the same feature
	p0 := rf.Trees[0].PredictProba(X)
	assert.Equal(t, p0, rf.Trees[1].PredictProba(X))
	assert.Equal(t, p0, rf.Trees[2].PredictProba(X))
}

func TestRandomForest_Errors(t *testing.T) {
	ctx := context.Background()
	X, y := generateBlobs(20, 2, 1, 4)
	assert.Error(t, NewRandomForest().Fit(ctx, nil, nil))
	assert.Error(t, NewRandomForest(WithNEstimators(0)).Fit(ctx, X, y))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, NewRandomForest(WithNEstimators(5)).Fit(cancelled, X, y))

	assert.Equal(t, []float64{0, 0}, NewRandomForest().PredictProba([][]float64{{1, 2}, {3, 4}}))
}

func TestRandomForest_PredictWrongWidth(t *testing.T) {
	X, y := generateBlobs(60, 3, 1.5, 4)
	rf := NewRandomForest(WithNEstimators(5))
	require.NoError(t, rf.Fit(context.Background(), X, y))

	assert.Panics(t, func() { rf.Predict([][]float64{{1}}) })
	assert.Equal(t, []float64{0, 0}, NewRandomForest().PredictProba([][]float64{{1}, {2}}))
}

func TestRandomForest_CriterionReachesTrees(t *testing.T) {
	X, y := generateBlobs(80, 2, 1.5, 5)
	rf := NewRandomForest(WithNEstimators(4), WithForestCriterion("entropy"), WithForestMaxDepth(3))
	require.NoError(t, rf.Fit(context.Background(), X, y))
	for _, tree := range rf.Trees {
		assert.Equal(t, "entropy", tree.Criterion)
	}
	assert.LessOrEqual(t, rf.MaxTreeDepth(), 3)
	assert.Positive(t, rf.MaxTreeDepth())

	err := NewRandomForest(WithNEstimators(2), WithForestCriterion("mse")).Fit(context.Background(), X, y)
	assert.Error(t, err)

	// a threshold no split can reach leaves every tree a single leaf
	stump := NewRandomForest(WithNEstimators(3), WithForestMinImpurityDecrease(1))
	require.NoError(t, stump.Fit(context.Background(), X, y))
	assert.Equal(t, 0, stump.MaxTreeDepth())
}
