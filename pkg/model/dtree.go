package model

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/rotisserie/eris"
)

// DecisionTreeClassifier is a CART-style binary classifier with numeric
// threshold splits.
type DecisionTreeClassifier struct {
	MaxDepth            int     // 0 => no limit
	MinSamplesSplit     int     // minimum samples to attempt a split
	MinSamplesLeaf      int     // minimum samples required in each leaf
	Criterion           string  // "gini" (default) or "entropy"
	MaxFeatures         int     // features tried per split, 0 => all
	MinImpurityDecrease float64 // minimal impurity decrease to accept a split
	RandomState         int64   // seed for feature subsampling

	root *dtNode
}

// dtNode is a node of the fitted tree; x[feature] <= threshold goes left.
type dtNode struct {
	isLeaf    bool
	feature   int
	threshold float64
	left      *dtNode
	right     *dtNode

	n     int
	proba float64 // fraction of class 1 among the node's samples
}

// Option functional config
type Option func(*DecisionTreeClassifier)

func WithMaxDepth(d int) Option { return func(t *DecisionTreeClassifier) { t.MaxDepth = d } }
func WithMinSamplesSplit(n int) Option {
	return func(t *DecisionTreeClassifier) { t.MinSamplesSplit = n }
}
func WithMinSamplesLeaf(n int) Option {
	return func(t *DecisionTreeClassifier) { t.MinSamplesLeaf = n }
}
func WithCriterion(c string) Option { return func(t *DecisionTreeClassifier) { t.Criterion = c } }
func WithMaxFeatures(k int) Option  { return func(t *DecisionTreeClassifier) { t.MaxFeatures = k } }
func WithMinImpurityDecrease(v float64) Option {
	return func(t *DecisionTreeClassifier) { t.MinImpurityDecrease = v }
}
func WithRandomState(seed int64) Option {
	return func(t *DecisionTreeClassifier) { t.RandomState = seed }
}

// NewDecisionTreeClassifier returns a fully grown Gini tree over all
// features unless options say otherwise.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	d := &DecisionTreeClassifier{
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Criterion:       "gini",
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (t *DecisionTreeClassifier) String() string {
	return fmt.Sprintf("DecisionTreeClassifier(criterion=%s, max_depth=%d, max_features=%d)", t.Criterion, t.MaxDepth, t.MaxFeatures)
}

// Fit trains the tree on every row of X.
func (t *DecisionTreeClassifier) Fit(ctx context.Context, X [][]float64, y []int) error {
	if _, err := checkXY("dtree", X, y); err != nil {
		return err
	}
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	return t.FitIndices(ctx, X, y, idx, rand.New(rand.NewSource(t.RandomState)))
}

// FitIndices trains the tree on the rows of X named by idx, which may repeat
// (bootstrap samples). rnd drives feature subsampling.
func (t *DecisionTreeClassifier) FitIndices(ctx context.Context, X [][]float64, y []int, idx []int, rnd *rand.Rand) error {
	if len(idx) == 0 {
		return eris.New("dtree: no samples")
	}
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "dtree: fit cancelled")
	}
	impurity := giniFromCounts
	switch t.Criterion {
	case "gini", "":
	case "entropy":
		impurity = entropyFromCounts
	default:
		return eris.Errorf("dtree: unknown criterion %q", t.Criterion)
	}
	b := &treeBuilder{tree: t, X: X, y: y, p: len(X[0]), impurity: impurity, rnd: rnd}
	t.root = b.build(append([]int(nil), idx...), 0)
	return nil
}

// PredictProba returns p(y=1) for each row.
func (t *DecisionTreeClassifier) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i := range X {
		out[i] = t.predictOne(X[i])
	}
	return out
}

// Predict returns the majority class of the leaf each row falls in.
func (t *DecisionTreeClassifier) Predict(X [][]float64) []int {
	return BinaryPredFromProba(t.PredictProba(X), 0.5)
}

// Depth returns the depth of the fitted tree (a single leaf has depth 0).
func (t *DecisionTreeClassifier) Depth() int { return depth(t.root) }

func depth(n *dtNode) int {
	if n == nil || n.isLeaf {
		return 0
	}
	return 1 + max(depth(n.left), depth(n.right))
}

func (t *DecisionTreeClassifier) predictOne(x []float64) float64 {
	node := t.root
	if node == nil {
		return 0.5
	}
	for !node.isLeaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.proba
}

type treeBuilder struct {
	tree     *DecisionTreeClassifier
	X        [][]float64
	y        []int
	p        int
	impurity func(counts [2]int) float64
	rnd      *rand.Rand
}

// splitResult is the best split found for a node.
type splitResult struct {
	gain      float64
	feature   int
	threshold float64
	nLeft     int // rows of the sorted idx that go left
}

func (b *treeBuilder) leaf(counts [2]int) *dtNode {
	n := counts[0] + counts[1]
	return &dtNode{isLeaf: true, n: n, proba: float64(counts[1]) / float64(n)}
}

func (b *treeBuilder) build(idx []int, depth int) *dtNode {
	t := b.tree
	var counts [2]int
	for _, i := range idx {
		counts[b.y[i]]++
	}
	if isPure(counts) || len(idx) < t.MinSamplesSplit || len(idx) < 2*max(t.MinSamplesLeaf, 1) {
		return b.leaf(counts)
	}
	if t.MaxDepth > 0 && depth >= t.MaxDepth {
		return b.leaf(counts)
	}

	features := b.candidateFeatures()
	parent := b.impurity(counts)
	best := splitResult{feature: -1}
	for _, f := range features {
		if r := b.bestSplit(idx, f, counts, parent); r.feature >= 0 && r.gain > best.gain {
			best = r
		}
	}
	if best.feature < 0 || best.gain <= 0 || best.gain < t.MinImpurityDecrease {
		return b.leaf(counts)
	}

	sortByFeature(b.X, idx, best.feature)
	left := append([]int(nil), idx[:best.nLeft]...)
	right := append([]int(nil), idx[best.nLeft:]...)

	node := &dtNode{feature: best.feature, threshold: best.threshold, n: len(idx)}
	node.proba = float64(counts[1]) / float64(len(idx))
	node.left = b.build(left, depth+1)
	node.right = b.build(right, depth+1)
	return node
}

// candidateFeatures returns MaxFeatures distinct features drawn at random, or
// all features in order.
func (b *treeBuilder) candidateFeatures() []int {
	k := b.tree.MaxFeatures
	feats := make([]int, b.p)
	for j := range feats {
		feats[j] = j
	}
	if k <= 0 || k >= b.p {
		return feats
	}
	for i := 0; i < k; i++ {
		j := i + b.rnd.Intn(b.p-i)
		feats[i], feats[j] = feats[j], feats[i]
	}
	return feats[:k]
}

// bestSplit sweeps the sorted values of feature f once, moving one row at a
// time from the right child to the left.
func (b *treeBuilder) bestSplit(idx []int, f int, counts [2]int, parent float64) splitResult {
	res := splitResult{feature: -1}
	sorted := append([]int(nil), idx...)
	sortByFeature(b.X, sorted, f)

	n := len(sorted)
	minLeaf := max(b.tree.MinSamplesLeaf, 1)
	var left [2]int
	right := counts
	for s := 1; s < n; s++ {
		c := b.y[sorted[s-1]]
		left[c]++
		right[c]--
		if s < minLeaf || n-s < minLeaf {
			continue
		}
		lo, hi := b.X[sorted[s-1]][f], b.X[sorted[s]][f]
		if lo == hi {
			continue
		}
		wl, wr := float64(s)/float64(n), float64(n-s)/float64(n)
		gain := parent - wl*b.impurity(left) - wr*b.impurity(right)
		if gain > res.gain {
			thr := (lo + hi) / 2
			if thr == hi {
				thr = lo
			}
			res = splitResult{gain: gain, feature: f, threshold: thr, nLeft: s}
		}
	}
	return res
}

func sortByFeature(X [][]float64, idx []int, f int) {
	sort.SliceStable(idx, func(a, b int) bool { return X[idx[a]][f] < X[idx[b]][f] })
}

func giniFromCounts(counts [2]int) float64 {
	n := float64(counts[0] + counts[1])
	if n == 0 {
		return 0
	}
	res := 1.0
	for _, c := range counts {
		p := float64(c) / n
		res -= p * p
	}
	return res
}

func entropyFromCounts(counts [2]int) float64 {
	n := float64(counts[0] + counts[1])
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		res -= p * math.Log2(p)
	}
	return res
}

func isPure(counts [2]int) bool { return counts[0] == 0 || counts[1] == 0 }
