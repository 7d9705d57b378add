package stats

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/stat/distuv"
)

// MaxShapiroN is the largest sample for which the Shapiro-Wilk p-value is
// considered accurate.
const MaxShapiroN = 5000

// Polynomial coefficients of Royston's approximation (Applied Statistics
// algorithm R94).
var (
	swC1 = []float64{0, 0.221157, -0.147981, -2.071190, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.5440, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
	swG  = []float64{-2.273, 0.459}
)

// NormalityResult is the outcome of a Shapiro-Wilk test on one column.
type NormalityResult struct {
	Column    string  `yaml:"column"`
	N         int     `yaml:"n"`
	Statistic float64 `yaml:"statistic"`
	PValue    float64 `yaml:"p_value"`
	Normal    bool    `yaml:"normal"`
	Warning   string  `yaml:"warning,omitempty"`
	Error     string  `yaml:"error,omitempty"`
}

// Verdict reads the result the way the report prints it.
func (r NormalityResult) Verdict() string {
	switch {
	case r.Error != "":
		return "not computed"
	case r.Normal:
		return "normal"
	default:
		return "not normal"
	}
}

// NormalityTest runs ShapiroWilk on x and classifies the column as normal
// when the p-value is at least alpha.
func NormalityTest(name string, x []float64, alpha float64) NormalityResult {
	r := NormalityResult{Column: name, N: len(x)}
	w, p, err := ShapiroWilk(x)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.Statistic, r.PValue = w, p
	r.Normal = p >= alpha
	if len(x) > MaxShapiroN {
		r.Warning = "p-value may not be accurate for n > 5000"
	}
	return r
}

// ShapiroWilk returns the W statistic and p-value of the Shapiro-Wilk test
// for normality. x is not modified.
func ShapiroWilk(x []float64) (w, p float64, err error) {
	n := len(x)
	if n < 3 {
		return 0, 0, eris.Errorf("shapiro: need at least 3 values, got %d", n)
	}
	xs := append([]float64(nil), x...)
	sort.Float64s(xs)
	for _, v := range xs {
		if math.IsNaN(v) {
			return 0, 0, eris.New("shapiro: values contain NaN")
		}
	}
	rng := xs[n-1] - xs[0]
	if rng == 0 {
		return 0, 0, eris.New("shapiro: all values are identical")
	}

	a := shapiroCoefficients(n)

	// Antisymmetric weight vector over the order statistics.
	half := n / 2
	A := make([]float64, n)
	for i := 0; i < half; i++ {
		A[i] = -a[i]
		A[n-1-i] = a[i]
	}

	mean := 0.0
	for _, v := range xs {
		mean += v / rng
	}
	mean /= float64(n)

	var sax, ssa, ssx float64
	for i, v := range xs {
		xi := v/rng - mean
		sax += A[i] * xi
		ssa += A[i] * A[i]
		ssx += xi * xi
	}
	w = sax * sax / (ssa * ssx)
	if w > 1 {
		w = 1
	}
	return w, shapiroPValue(w, n), nil
}

// shapiroCoefficients returns the first n/2 weights, largest first.
func shapiroCoefficients(n int) []float64 {
	half := n / 2
	a := make([]float64, half)
	if n == 3 {
		a[0] = math.Sqrt(0.5)
		return a
	}

	an25 := float64(n) + 0.25
	m := make([]float64, half)
	summ2 := 0.0
	for i := range m {
		m[i] = distuv.UnitNormal.Quantile((float64(i+1) - 0.375) / an25)
		summ2 += m[i] * m[i]
	}
	summ2 *= 2
	ssumm2 := math.Sqrt(summ2)
	rsn := 1 / math.Sqrt(float64(n))

	a1 := poly(swC1, rsn) - m[0]/ssumm2
	a[0] = a1
	start := 1
	var fac float64
	if n > 5 {
		a2 := -m[1]/ssumm2 + poly(swC2, rsn)
		fac = math.Sqrt((summ2 - 2*m[0]*m[0] - 2*m[1]*m[1]) / (1 - 2*a1*a1 - 2*a2*a2))
		a[1] = a2
		start = 2
	} else {
		fac = math.Sqrt((summ2 - 2*m[0]*m[0]) / (1 - 2*a1*a1))
	}
	for i := start; i < half; i++ {
		a[i] = -m[i] / fac
	}
	return a
}

func shapiroPValue(w float64, n int) float64 {
	if n == 3 {
		p := (6 / math.Pi) * (math.Asin(math.Sqrt(w)) - math.Pi/3)
		return math.Max(p, 0)
	}
	w1 := 1 - w
	if w1 <= 0 {
		return 1
	}
	an := float64(n)
	y := math.Log(w1)
	var mu, sigma float64
	if n <= 11 {
		gamma := poly(swG, an)
		if y >= gamma {
			return 1e-99
		}
		y = -math.Log(gamma - y)
		mu = poly(swC3, an)
		sigma = math.Exp(poly(swC4, an))
	} else {
		ln := math.Log(an)
		mu = poly(swC5, ln)
		sigma = math.Exp(poly(swC6, ln))
	}
	// Survival(z) cancels to 0 past z of about 8; CDF(-z) goes through Erfc.
	return distuv.UnitNormal.CDF(-(y - mu) / sigma)
}

// poly evaluates c[0] + c[1]x + c[2]x² + ...
func poly(c []float64, x float64) float64 {
	out := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		out = out*x + c[i]
	}
	return out
}
