package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestShapiroWilk_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		w, p float64
	}{
		{"three equally spaced", []float64{1, 2, 3}, 1.0, 1.0},
		{"four equally spaced", []float64{1, 2, 3, 4}, 0.99291, 0.97188},
		{"ten equally spaced", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.97016, 0.89237},
		{"heights", []float64{148, 154, 158, 160, 161, 162, 166, 170, 182, 195, 236}, 0.78881, 0.00670},
		{"five skewed", []float64{2, 1, 1, 0.5, 8}, 0.70033, 0.00965},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, p, err := ShapiroWilk(tt.x)
			require.NoError(t, err)
			assert.InDelta(t, tt.w, w, 1e-4)
			assert.InDelta(t, tt.p, p, 1e-4)
		})
	}
}

func TestShapiroWilk_LargeSamples(t *testing.T) {
	n := 100
	normal := make([]float64, n)
	expo := make([]float64, n)
	for i := range normal {
		q := (float64(i) + 0.5) / float64(n)
		normal[i] = distuv.UnitNormal.Quantile(q)
		expo[i] = -math.Log(1 - q)
	}

	w, p, err := ShapiroWilk(normal)
	require.NoError(t, err)
	assert.Greater(t, w, 0.99)
	assert.Greater(t, p, 0.5)

	w, p, err = ShapiroWilk(expo)
	require.NoError(t, err)
	assert.InDelta(t, 0.82910, w, 1e-4)
	assert.Less(t, p, 1e-6)
}

func TestShapiroWilk_FarTailPValue(t *testing.T) {
	n := 2000
	uniform := make([]float64, n)
	for i := range uniform {
		uniform[i] = 60 + 120*(float64(i)+0.5)/float64(n)
	}

	w, p, err := ShapiroWilk(uniform)
	require.NoError(t, err)
	assert.InDelta(t, 0.955, w, 0.01)
	assert.Greater(t, p, 0.0)
	assert.Less(t, p, 1e-20)
}

func TestShapiroPValue_Monotonic(t *testing.T) {
	prev := 1.0
	for _, w := range []float64{0.999, 0.99, 0.97, 0.95, 0.9, 0.8} {
		p := shapiroPValue(w, 2000)
		assert.Greater(t, p, 0.0, "w=%v", w)
		assert.LessOrEqual(t, p, prev, "w=%v", w)
		prev = p
	}
}

func TestShapiroWilk_DoesNotModifyInput(t *testing.T) {
	x := []float64{3, 1, 2, 5, 4}
	_, _, err := ShapiroWilk(x)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2, 5, 4}, x)
}

func TestShapiroWilk_Errors(t *testing.T) {
	_, _, err := ShapiroWilk([]float64{1, 2})
	assert.Error(t, err)
	_, _, err = ShapiroWilk([]float64{4, 4, 4, 4})
	assert.Error(t, err)
	_, _, err = ShapiroWilk([]float64{1, math.NaN(), 3})
	assert.Error(t, err)
}

func TestNormalityTest(t *testing.T) {
	r := NormalityTest("rating", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.05)
	assert.Empty(t, r.Error)
	assert.Equal(t, 10, r.N)
	assert.True(t, r.Normal)
	assert.Equal(t, "normal", r.Verdict())

	r = NormalityTest("votes", []float64{148, 154, 158, 160, 161, 162, 166, 170, 182, 195, 236}, 0.05)
	assert.False(t, r.Normal)
	assert.Equal(t, "not normal", r.Verdict())

	r = NormalityTest("flat", []float64{1, 1, 1}, 0.05)
	assert.NotEmpty(t, r.Error)
	assert.Equal(t, "not computed", r.Verdict())
}

func TestNormalityTest_LargeSampleWarning(t *testing.T) {
	n := MaxShapiroN + 1
	x := make([]float64, n)
	for i := range x {
		x[i] = distuv.UnitNormal.Quantile((float64(i) + 0.5) / float64(n))
	}
	r := NormalityTest("big", x, 0.05)
	assert.Empty(t, r.Error)
	assert.NotEmpty(t, r.Warning)
	assert.True(t, r.Normal)
}
