package model

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/optimize"

	"github.com/maliblgn/imdb-movie-classifier/pkg/NeuralNetwork"
	"github.com/maliblgn/imdb-movie-classifier/pkg/data"
	"github.com/maliblgn/imdb-movie-classifier/pkg/optim"
)

// Logistic regression solvers.
const (
	SolverLBFGS = "lbfgs"
	SolverSGD   = "sgd"
)

// LogisticRegression is a binary L2-regularised logistic regression. It
// minimises 0.5*||w||² + C*Σ logloss; the intercept is not penalised.
type LogisticRegression struct {
	C            float64
	MaxIter      int
	Solver       string
	LearningRate float64 // sgd only
	BatchSize    int     // sgd only
	Seed         int64   // sgd only

	W []float64 // weights
	B float64   // bias

	Iterations int
	Converged  bool
}

// LogisticOption functional config for LogisticRegression.
type LogisticOption func(*LogisticRegression)

func WithC(c float64) LogisticOption     { return func(m *LogisticRegression) { m.C = c } }
func WithMaxIter(n int) LogisticOption   { return func(m *LogisticRegression) { m.MaxIter = n } }
func WithSolver(s string) LogisticOption { return func(m *LogisticRegression) { m.Solver = s } }
func WithBatchSize(n int) LogisticOption { return func(m *LogisticRegression) { m.BatchSize = n } }
func WithSeed(seed int64) LogisticOption { return func(m *LogisticRegression) { m.Seed = seed } }
func WithLearningRate(lr float64) LogisticOption {
	return func(m *LogisticRegression) { m.LearningRate = lr }
}

// NewLogisticRegression returns an unfitted model with C=1, 1000 iterations
// and the L-BFGS solver.
func NewLogisticRegression(opts ...LogisticOption) *LogisticRegression {
	m := &LogisticRegression{
		C:            1.0,
		MaxIter:      1000,
		Solver:       SolverLBFGS,
		LearningRate: 0.1,
		BatchSize:    64,
		Seed:         42,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *LogisticRegression) String() string {
	return fmt.Sprintf("LogisticRegression(C=%g, max_iter=%d, solver=%s)", m.C, m.MaxIter, m.Solver)
}

// Fit trains the model. Hitting the iteration cap logs a warning and keeps
// the last coefficients.
func (m *LogisticRegression) Fit(ctx context.Context, X [][]float64, y []int) error {
	p, err := checkXY("logistic", X, y)
	if err != nil {
		return err
	}
	if m.C <= 0 {
		return eris.Errorf("logistic: C must be positive, got %v", m.C)
	}
	if m.MaxIter <= 0 {
		return eris.Errorf("logistic: max_iter must be positive, got %d", m.MaxIter)
	}
	yf := make([]float64, len(y))
	for i, v := range y {
		yf[i] = float64(v)
	}

	switch m.Solver {
	case SolverLBFGS:
		err = m.fitLBFGS(ctx, X, yf, p)
	case SolverSGD:
		err = m.fitSGD(ctx, X, yf, p)
	default:
		return eris.Errorf("logistic: unknown solver %q", m.Solver)
	}
	if err != nil {
		return err
	}
	if !m.Converged {
		zap.L().Warn("logistic: solver did not converge, increase max_iter",
			zap.String("solver", m.Solver),
			zap.Int("iterations", m.Iterations),
		)
	}
	return nil
}

// objective returns the loss and gradient, scaled by 1/n, at params = [w..., b].
func (m *LogisticRegression) objective(X [][]float64, y []float64, params, grad []float64) float64 {
	p := len(params) - 1
	n := float64(len(X))
	z := make([]float64, len(X))
	for i, row := range X {
		s := params[p]
		for j, v := range row {
			s += params[j] * v
		}
		z[i] = s
	}
	loss, dz := NeuralNetwork.BCEWithLogits(y, z)

	reg := 0.0
	for j := 0; j < p; j++ {
		reg += params[j] * params[j]
	}
	f := (0.5*reg + m.C*loss) / n

	if grad != nil {
		for j := range grad {
			grad[j] = 0
		}
		for i, row := range X {
			d := dz[i]
			for j, v := range row {
				grad[j] += d * v
			}
			grad[p] += d
		}
		for j := 0; j < p; j++ {
			grad[j] = (params[j] + m.C*grad[j]) / n
		}
		grad[p] = m.C * grad[p] / n
	}
	return f
}

func (m *LogisticRegression) fitLBFGS(ctx context.Context, X [][]float64, y []float64, p int) error {
	problem := optimize.Problem{
		Func: func(params []float64) float64 { return m.objective(X, y, params, nil) },
		Grad: func(grad, params []float64) { m.objective(X, y, params, grad) },
	}
	settings := &optimize.Settings{
		MajorIterations:   m.MaxIter,
		GradientThreshold: 1e-6,
		Recorder:          ctxRecorder{ctx},
	}
	res, err := optimize.Minimize(problem, make([]float64, p+1), settings, &optimize.LBFGS{})
	if ctx.Err() != nil {
		return eris.Wrap(ctx.Err(), "logistic: fit cancelled")
	}
	if res == nil {
		return eris.Wrap(err, "logistic: lbfgs")
	}
	if err != nil {
		zap.L().Debug("logistic: lbfgs stopped early", zap.Error(err), zap.String("status", res.Status.String()))
	}
	m.W = append([]float64(nil), res.X[:p]...)
	m.B = res.X[p]
	m.Iterations = res.MajorIterations
	m.Converged = res.Status != optimize.IterationLimit
	return nil
}

// fitSGD trains with shuffled mini-batches streamed through data.Batcher. It
// runs exactly MaxIter epochs.
func (m *LogisticRegression) fitSGD(ctx context.Context, X [][]float64, y []float64, p int) error {
	if m.BatchSize <= 0 {
		return eris.Errorf("logistic: batch size must be positive, got %d", m.BatchSize)
	}
	m.W = make([]float64, p)
	m.B = 0
	n := float64(len(X))
	opt := optim.NewSGD(m.LearningRate, 1/(m.C*n))
	rnd := rand.New(rand.NewSource(m.Seed))

	for ep := 0; ep < m.MaxIter; ep++ {
		in := make(chan data.Sample)
		out := make(chan data.Batch)
		done := data.Batcher(in, m.BatchSize, out)

		go func(order []int) {
			defer close(in)
			for _, i := range order {
				select {
				case in <- data.Sample{X: X[i], Y: y[i]}:
				case <-done:
					return
				}
			}
		}(rnd.Perm(len(X)))

		for batch := range out {
			if ctx.Err() != nil {
				close(done)
				return eris.Wrap(ctx.Err(), "logistic: fit cancelled")
			}
			proba := m.PredictProba(batch.X)
			_, dy := NeuralNetwork.BCE(batch.Y, proba)

			gW := make([]float64, p)
			gb := 0.0
			for i, row := range batch.X {
				d := dy[i]
				for j, xij := range row {
					gW[j] += d * xij
				}
				gb += d
			}
			opt.Step(m.W, gW)
			m.B -= m.LearningRate * gb
		}
		close(done)
	}
	m.Iterations = m.MaxIter
	m.Converged = true
	return nil
}

// PredictProba returns p(y=1) for each row, computed in parallel chunks.
// An unfitted model returns zeros. It panics if a row's width differs from
// the fitted weights.
func (m *LogisticRegression) PredictProba(X [][]float64) []float64 {
	if len(X) == 0 {
		return nil
	}
	out := make([]float64, len(X))
	if m.W == nil {
		return out
	}
	checkWidth("logistic", X, len(m.W))
	var wg sync.WaitGroup

	workers := runtime.GOMAXPROCS(0)
	rowsPerWorker := (len(X) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := min(start+rowsPerWorker, len(X))
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				sum := m.B
				for j, v := range X[i] {
					sum += m.W[j] * v
				}
				out[i] = NeuralNetwork.Sigmoid(sum)
			}
		}(start, end)
	}
	wg.Wait()
	return out
}

// Predict thresholds PredictProba at 0.5.
func (m *LogisticRegression) Predict(X [][]float64) []int {
	return BinaryPredFromProba(m.PredictProba(X), 0.5)
}

// ctxRecorder stops the optimizer once ctx is done.
type ctxRecorder struct{ ctx context.Context }

func (r ctxRecorder) Init() error { return r.ctx.Err() }

func (r ctxRecorder) Record(*optimize.Location, optimize.Operation, *optimize.Stats) error {
	return r.ctx.Err()
}
