package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	s := Describe("x", []float64{4, 1, 3, 2})
	assert.Empty(t, s.Error)
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3.0), s.Std, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.InDelta(t, 1.75, s.Q25, 1e-12)
	assert.InDelta(t, 2.5, s.Q50, 1e-12)
	assert.InDelta(t, 3.25, s.Q75, 1e-12)
	assert.Equal(t, 4.0, s.Max)
}

func TestDescribe_Degenerate(t *testing.T) {
	empty := Describe("x", nil)
	assert.NotEmpty(t, empty.Error)
	assert.Equal(t, 0, empty.Count)

	one := Describe("x", []float64{7})
	assert.NotEmpty(t, one.Error)
	assert.Equal(t, 7.0, one.Mean)
	assert.True(t, math.IsNaN(one.Std))
}

func TestDispersion(t *testing.T) {
	s := Dispersion("x", []float64{1, 2, 3, 4, 10})
	assert.Empty(t, s.Error)
	assert.InDelta(t, 12.5, s.Variance, 1e-12)
	assert.InDelta(t, math.Sqrt(12.5), s.Std, 1e-12)
	assert.Equal(t, 9.0, s.Range)
	assert.InDelta(t, 1.697056274847714, s.Skewness, 1e-9)
	assert.InDelta(t, 3.152, s.Kurtosis, 1e-9)
}

func TestDispersion_Degenerate(t *testing.T) {
	constant := Dispersion("x", []float64{2, 2, 2, 2})
	assert.Equal(t, "zero variance", constant.Error)
	assert.Equal(t, 0.0, constant.Variance)
	assert.True(t, math.IsNaN(constant.Skewness))

	short := Dispersion("x", []float64{1, 2, 4})
	assert.NotEmpty(t, short.Error)
	assert.False(t, math.IsNaN(short.Skewness))
	assert.True(t, math.IsNaN(short.Kurtosis))

	assert.NotEmpty(t, Dispersion("x", nil).Error)
}

func TestModes(t *testing.T) {
	assert.Equal(t, []float64{6.5}, Modes([]float64{6.5, 7, 6.5, 8}))
	assert.Equal(t, []float64{6.1, 7.2}, Modes([]float64{7.2, 6.1, 7.2, 6.1, 5}))
	assert.Nil(t, Modes(nil))
}

func TestMeanBy(t *testing.T) {
	groups := MeanBy(
		[]string{"Drama", "Comedy", "Drama", "Action"},
		[]float64{8, 6, 6, 5},
	)
	require.Len(t, groups, 3)
	assert.Equal(t, Group{Key: "Action", Count: 1, Mean: 5}, groups[0])
	assert.Equal(t, Group{Key: "Comedy", Count: 1, Mean: 6}, groups[1])
	assert.Equal(t, Group{Key: "Drama", Count: 2, Mean: 7}, groups[2])
}

func TestTopByMean(t *testing.T) {
	groups := []Group{
		{Key: "a", Mean: 5},
		{Key: "b", Mean: 7},
		{Key: "c", Mean: 5},
		{Key: "d", Mean: 9},
	}
	top := TopByMean(groups, 3)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"d", "b", "a"}, []string{top[0].Key, top[1].Key, top[2].Key})
	assert.Equal(t, "a", groups[0].Key)

	assert.Len(t, TopByMean(groups, 10), 4)
}

func TestCorrelationMatrix(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	c := CorrelationMatrix(
		[]string{"x", "double", "neg"},
		[][]float64{x, {2, 4, 6, 8, 10}, {5, 4, 3, 2, 1}},
	)
	require.Empty(t, c.Error)
	require.Len(t, c.Values, 3)
	for i := range c.Values {
		assert.InDelta(t, 1.0, c.Values[i][i], 1e-12)
	}
	assert.InDelta(t, 1.0, c.Values[0][1], 1e-12)
	assert.InDelta(t, -1.0, c.Values[0][2], 1e-12)
	assert.InDelta(t, c.Values[1][2], c.Values[2][1], 1e-12)

	row, ok := c.Row("neg")
	require.True(t, ok)
	assert.InDelta(t, -1.0, row[0], 1e-12)
	_, ok = c.Row("missing")
	assert.False(t, ok)
}

func TestCorrelationMatrix_Degenerate(t *testing.T) {
	c := CorrelationMatrix([]string{"x", "flat"}, [][]float64{{1, 2, 3}, {4, 4, 4}})
	assert.Equal(t, "constant column", c.Error)
	assert.True(t, math.IsNaN(c.Values[0][1]))

	assert.NotEmpty(t, CorrelationMatrix([]string{"a", "b"}, [][]float64{{1, 2}, {1}}).Error)
	assert.NotEmpty(t, CorrelationMatrix(nil, nil).Error)
}

func TestPercentile(t *testing.T) {
	x := []float64{10, 20, 30, 40}
	assert.Equal(t, 10.0, Percentile(x, 0))
	assert.Equal(t, 40.0, Percentile(x, 100))
	assert.InDelta(t, 25.0, Percentile(x, 50), 1e-12)
	assert.InDelta(t, 17.5, Percentile(x, 25), 1e-12)
	assert.Equal(t, 0.0, Percentile(nil, 50))
}

func TestMinMax(t *testing.T) {
	lo, hi := MinMax([]float64{3, -1, 8, 2})
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 8.0, hi)
}
