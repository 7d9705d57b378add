package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Summary is the count/mean/std/quartile description of one column.
type Summary struct {
	Column string  `yaml:"column"`
	Count  int     `yaml:"count"`
	Mean   float64 `yaml:"mean"`
	Std    float64 `yaml:"std"`
	Min    float64 `yaml:"min"`
	Q25    float64 `yaml:"q25"`
	Q50    float64 `yaml:"q50"`
	Q75    float64 `yaml:"q75"`
	Max    float64 `yaml:"max"`
	Error  string  `yaml:"error,omitempty"`
}

// Shape describes the spread and shape of one column.
type Shape struct {
	Column   string  `yaml:"column"`
	Variance float64 `yaml:"variance"`
	Std      float64 `yaml:"std"`
	Min      float64 `yaml:"min"`
	Max      float64 `yaml:"max"`
	Range    float64 `yaml:"range"`
	Skewness float64 `yaml:"skewness"`
	Kurtosis float64 `yaml:"kurtosis"`
	Error    string  `yaml:"error,omitempty"`
}

// Group is the mean of a column within one key.
type Group struct {
	Key   string  `yaml:"key"`
	Count int     `yaml:"count"`
	Mean  float64 `yaml:"mean"`
}

// Describe computes count, mean, sample std, min, quartiles and max.
// Std needs at least two values; with one value it is NaN and Error is set.
func Describe(name string, x []float64) Summary {
	s := Summary{Column: name, Count: len(x)}
	if len(x) == 0 {
		s.Error = "no values"
		return s
	}
	s.Mean = stat.Mean(x, nil)
	s.Min, s.Max = MinMax(x)
	s.Q25 = Percentile(x, 25)
	s.Q50 = Percentile(x, 50)
	s.Q75 = Percentile(x, 75)
	if len(x) < 2 {
		s.Std = math.NaN()
		s.Error = "std needs at least 2 values"
		return s
	}
	s.Std = stat.StdDev(x, nil)
	return s
}

// Dispersion computes sample variance, std, range, bias-corrected skewness
// and excess kurtosis. Skewness needs 3 values and kurtosis needs 4.
func Dispersion(name string, x []float64) Shape {
	s := Shape{Column: name}
	if len(x) == 0 {
		s.Error = "no values"
		return s
	}
	s.Min, s.Max = MinMax(x)
	s.Range = s.Max - s.Min
	s.Variance, s.Std, s.Skewness, s.Kurtosis = math.NaN(), math.NaN(), math.NaN(), math.NaN()
	switch {
	case len(x) < 2:
		s.Error = "variance needs at least 2 values"
		return s
	case len(x) < 4:
		s.Error = "kurtosis needs at least 4 values"
	}
	_, s.Variance = stat.MeanVariance(x, nil)
	s.Std = math.Sqrt(s.Variance)
	if s.Variance == 0 {
		s.Error = "zero variance"
		return s
	}
	if len(x) >= 3 {
		s.Skewness = stat.Skew(x, nil)
	}
	if len(x) >= 4 {
		s.Kurtosis = stat.ExKurtosis(x, nil)
	}
	return s
}

// Modes returns every most frequent value in ascending order.
func Modes(x []float64) []float64 {
	if len(x) == 0 {
		return nil
	}
	counts := make(map[float64]int)
	maxCount := 0
	for _, v := range x {
		counts[v]++
		if counts[v] > maxCount {
			maxCount = counts[v]
		}
	}
	var out []float64
	for v, c := range counts {
		if c == maxCount {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

// MeanBy groups x by key and returns the per-key mean, ordered by key.
func MeanBy(keys []string, x []float64) []Group {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i, k := range keys {
		sums[k] += x[i]
		counts[k]++
	}
	out := make([]Group, 0, len(sums))
	for k, s := range sums {
		out = append(out, Group{Key: k, Count: counts[k], Mean: s / float64(counts[k])})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// TopByMean orders groups by descending mean, keeping the incoming order for
// ties, and returns at most n of them.
func TopByMean(groups []Group, n int) []Group {
	out := append([]Group(nil), groups...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Mean > out[j].Mean })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Correlation is a Pearson correlation matrix over named columns.
type Correlation struct {
	Columns []string    `yaml:"columns"`
	Values  [][]float64 `yaml:"values"`
	Error   string      `yaml:"error,omitempty"`
}

// CorrelationMatrix computes pairwise Pearson correlations of equal-length
// columns. Constant columns produce NaN entries and set Error.
func CorrelationMatrix(names []string, cols [][]float64) Correlation {
	c := Correlation{Columns: append([]string(nil), names...)}
	if len(cols) == 0 {
		c.Error = "no columns"
		return c
	}
	n := len(cols[0])
	for _, col := range cols {
		if len(col) != n {
			c.Error = "columns differ in length"
			return c
		}
	}
	if n < 2 {
		c.Error = "correlation needs at least 2 rows"
		return c
	}

	x := mat.NewDense(n, len(cols), nil)
	for j, col := range cols {
		x.SetCol(j, col)
	}
	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, x, nil)

	c.Values = make([][]float64, len(cols))
	for i := range cols {
		c.Values[i] = make([]float64, len(cols))
		for j := range cols {
			v := corr.At(i, j)
			if math.IsNaN(v) {
				c.Error = "constant column"
			}
			c.Values[i][j] = v
		}
	}
	return c
}

// Row returns the correlations of the named column with every column.
func (c Correlation) Row(name string) ([]float64, bool) {
	for i, col := range c.Columns {
		if col == name && i < len(c.Values) {
			return append([]float64(nil), c.Values[i]...), true
		}
	}
	return nil, false
}

// MinMax returns the minimum and maximum values in the slice.
func MinMax(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	min, max := x[0], x[0]
	for i := 1; i < len(x); i++ {
		if x[i] < min {
			min = x[i]
		} else if x[i] > max {
			max = x[i]
		}
	}
	return min, max
}

// Percentile returns the p-th percentile (0 <= p <= 100) using linear
// interpolation between closest ranks.
func Percentile(x []float64, p float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	min, max := MinMax(x)
	if p <= 0 {
		return min
	}
	if p >= 100 {
		return max
	}
	cp := make([]float64, n)
	copy(cp, x)
	sort.Float64s(cp)
	rank := p / 100 * float64(n-1)
	lower := int(rank)
	upper := lower + 1
	weight := rank - float64(lower)
	if upper >= n {
		return cp[lower]
	}
	return cp[lower]*(1-weight) + cp[upper]*weight
}
