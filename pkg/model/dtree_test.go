package model

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecisionTree_Threshold(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []int{0, 0, 1, 1}
	tree := NewDecisionTreeClassifier()
	require.NoError(t, tree.Fit(context.Background(), X, y))

	assert.Equal(t, 1, tree.Depth())
	assert.Equal(t, []int{0, 0, 1, 1}, tree.Predict([][]float64{{2.4}, {2.5}, {2.6}, {100}}))
	assert.Equal(t, []float64{0, 1}, tree.PredictProba([][]float64{{0}, {5}}))
}

func TestDecisionTree_Interval(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}, {5}, {6}}
	y := []int{0, 0, 1, 1, 0, 0}
	tree := NewDecisionTreeClassifier()
	require.NoError(t, tree.Fit(context.Background(), X, y))
	assert.Equal(t, 2, tree.Depth())
	assert.Equal(t, 1.0, Accuracy(y, tree.Predict(X)))
}

func TestDecisionTree_MaxDepth(t *testing.T) {
	X, y := generateBlobs(200, 2, 0.5, 1)
	tree := NewDecisionTreeClassifier(WithMaxDepth(2))
	require.NoError(t, tree.Fit(context.Background(), X, y))
	assert.LessOrEqual(t, tree.Depth(), 2)

	for _, p := range tree.PredictProba(X) {
		assert.True(t, p >= 0 && p <= 1)
	}
}

func TestDecisionTree_PureAndConstant(t *testing.T) {
	tree := NewDecisionTreeClassifier()
	require.NoError(t, tree.Fit(context.Background(), [][]float64{{1}, {2}}, []int{1, 1}))
	assert.Equal(t, 0, tree.Depth())
	assert.Equal(t, []int{1}, tree.Predict([][]float64{{-5}}))

	// identical rows cannot be split
	require.NoError(t, tree.Fit(context.Background(), [][]float64{{3}, {3}, {3}}, []int{0, 1, 1}))
	assert.Equal(t, 0, tree.Depth())
	assert.InDelta(t, 2.0/3.0, tree.PredictProba([][]float64{{3}})[0], 1e-12)
}

func TestDecisionTree_MinSamplesLeaf(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}, {5}}
	y := []int{1, 0, 0, 0, 0}
	tree := NewDecisionTreeClassifier(WithMinSamplesLeaf(2))
	require.NoError(t, tree.Fit(context.Background(), X, y))
	// the only pure split isolates one row, which is too small
	assert.Equal(t, []int{0}, tree.Predict([][]float64{{1}}))
}

func TestDecisionTree_FitIndices(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []int{0, 0, 1, 1}
	tree := NewDecisionTreeClassifier()
	// only the positive rows: a single leaf predicting 1
	require.NoError(t, tree.FitIndices(context.Background(), X, y, []int{2, 3, 3}, rand.New(rand.NewSource(1))))
	assert.Equal(t, []int{1}, tree.Predict([][]float64{{1}}))

	assert.Error(t, tree.FitIndices(context.Background(), X, y, nil, rand.New(rand.NewSource(1))))
}

func TestDecisionTree_Entropy(t *testing.T) {
	X, y := generateBlobs(100, 2, 2, 3)
	tree := NewDecisionTreeClassifier(WithCriterion("entropy"))
	require.NoError(t, tree.Fit(context.Background(), X, y))
	assert.Equal(t, 1.0, Accuracy(y, tree.Predict(X)))

	assert.Error(t, NewDecisionTreeClassifier(WithCriterion("mse")).Fit(context.Background(), X, y))
}

func TestImpurity(t *testing.T) {
	assert.Equal(t, 0.5, giniFromCounts([2]int{5, 5}))
	assert.Equal(t, 0.0, giniFromCounts([2]int{0, 5}))
	assert.Equal(t, 1.0, entropyFromCounts([2]int{3, 3}))
	assert.Equal(t, 0.0, entropyFromCounts([2]int{0, 0}))
}
