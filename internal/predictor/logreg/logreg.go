// Package logreg implements an L2-regularized binary logistic regression
// classifier fitted with Newton iterations.
package logreg

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/go-sod/mlserve/internal/predictor"
	"github.com/go-sod/mlserve/pkg/math/matrix"
	"github.com/go-sod/mlserve/pkg/math/vector"
	"github.com/google/uuid"
)

const (
	DefaultMaxIter = 1000
	DefaultTol     = 1e-4
	DefaultC       = 1.0

	// keeps the Hessian positive definite along the unpenalized intercept
	interceptJitter = 1e-10
	armijoFactor    = 1e-4
	minStep         = 1e-10
)

var (
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrNotBinary         = errors.New("target must have exactly two classes")
	ErrEmpty             = errors.New("no samples")
	ErrNotFitted         = errors.New("model is not fitted")
	ErrNotFinite         = errors.New("input contains NaN or infinity")
)

var _ predictor.Predictor = (*Model)(nil)

type Options struct {
	maxIter int
	tol     float64
	c       float64
}

type Option func(*Model)

// WithMaxIter caps the number of Newton iterations.
func WithMaxIter(n int) Option {
	return func(m *Model) {
		m.opts.maxIter = n
	}
}

func WithTol(tol float64) Option {
	return func(m *Model) {
		m.opts.tol = tol
	}
}

// WithC sets the inverse regularization strength.
func WithC(c float64) Option {
	return func(m *Model) {
		m.opts.c = c
	}
}

func New(opts ...Option) *Model {
	m := &Model{
		opts: Options{
			maxIter: DefaultMaxIter,
			tol:     DefaultTol,
			c:       DefaultC,
		},
	}
	for _, f := range opts {
		f(m)
	}
	return m
}

type Model struct {
	opts Options

	id        uuid.UUID
	trainedAt time.Time
	classes   []float64
	coef      vector.V
	intercept float64
	nIter     int
	converged bool
	accuracy  float64
}

// Fit estimates coefficients from x and the binary target y.
func (m *Model) Fit(x [][]float64, y []float64) error {
	if len(x) == 0 {
		return ErrEmpty
	}
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d samples, %d targets", ErrDimensionMismatch, len(x), len(y))
	}
	if m.opts.maxIter <= 0 {
		return fmt.Errorf("max iterations must be positive, got %d", m.opts.maxIter)
	}
	if m.opts.c <= 0 {
		return fmt.Errorf("inverse regularization strength must be positive, got %v", m.opts.c)
	}

	d := len(x[0])
	if d == 0 {
		return fmt.Errorf("%w: samples have no features", ErrDimensionMismatch)
	}
	for i := range x {
		if len(x[i]) != d {
			return fmt.Errorf("%w: sample %d has %d features, expected %d", ErrDimensionMismatch, i, len(x[i]), d)
		}
		if !vector.New(x[i]).IsFinite() {
			return fmt.Errorf("sample %d: %w", i, ErrNotFinite)
		}
	}

	classes, err := uniqueClasses(y)
	if err != nil {
		return err
	}

	// rows are extended with a trailing 1 so the intercept is the last weight
	rows := make([]vector.V, len(x))
	targets := make([]float64, len(y))
	for i := range x {
		row := make(vector.V, d+1)
		copy(row, x[i])
		row[d] = 1
		rows[i] = row
		if y[i] == classes[1] {
			targets[i] = 1
		}
	}

	w := vector.Zeros(d + 1)
	nIter, converged, err := m.newton(rows, targets, w)
	if err != nil {
		return fmt.Errorf("newton solver: %w", err)
	}

	m.id = uuid.New()
	m.trainedAt = time.Now().UTC()
	m.classes = classes
	m.coef = w[:d].Copy()
	m.intercept = w[d]
	m.nIter = nIter
	m.converged = converged
	m.accuracy = 0
	return nil
}

func (m *Model) newton(rows []vector.V, targets []float64, w vector.V) (int, bool, error) {
	dim := len(w)
	c := m.opts.c
	loss := m.loss(rows, targets, w)

	for iter := 1; iter <= m.opts.maxIter; iter++ {
		grad := vector.Zeros(dim)
		hess := matrix.NewSym(dim)
		for j := 0; j < dim-1; j++ {
			grad[j] = w[j]
			hess.Set(j, j, 1)
		}
		hess.Set(dim-1, dim-1, interceptJitter)

		for i, row := range rows {
			p := vector.Sigmoid(w.Dot(row))
			grad.AddScaled(c*(p-targets[i]), row)
			hess.AddOuter(c*p*(1-p), row)
		}

		if grad.MaxAbs() <= m.opts.tol {
			return iter - 1, true, nil
		}

		step, err := hess.SolveCholesky(grad)
		if err != nil {
			return iter, false, err
		}

		descent := grad.Dot(step)
		t := 1.0
		next := w.Copy()
		for {
			copy(next, w)
			next.AddScaled(-t, step)
			nextLoss := m.loss(rows, targets, next)
			if nextLoss <= loss-armijoFactor*t*descent || t < minStep {
				loss = nextLoss
				break
			}
			t /= 2
		}
		copy(w, next)
	}

	return m.opts.maxIter, false, nil
}

func (m *Model) loss(rows []vector.V, targets []float64, w vector.V) float64 {
	var reg float64
	for j := 0; j < len(w)-1; j++ {
		reg += w[j] * w[j]
	}
	var ll float64
	for i, row := range rows {
		z := w.Dot(row)
		ll += vector.LogOnePlusExp(z) - targets[i]*z
	}
	return 0.5*reg + m.opts.c*ll
}

// DecisionFunction returns the signed distance of every sample to the
// separating hyperplane.
func (m *Model) DecisionFunction(x [][]float64) ([]float64, error) {
	if m.coef == nil {
		return nil, ErrNotFitted
	}
	scores := make([]float64, len(x))
	for i, sample := range x {
		if !m.coef.SizeEqual(sample) {
			return nil, fmt.Errorf(
				"%w: X has %d features, but the model is expecting %d features as input",
				ErrDimensionMismatch, len(sample), len(m.coef),
			)
		}
		scores[i] = m.coef.Dot(sample) + m.intercept
	}
	return scores, nil
}

// PredictProba returns the probability of the positive class for every sample.
func (m *Model) PredictProba(x [][]float64) ([]float64, error) {
	scores, err := m.DecisionFunction(x)
	if err != nil {
		return nil, err
	}
	for i := range scores {
		scores[i] = vector.Sigmoid(scores[i])
	}
	return scores, nil
}

// Predict returns a class label for every sample, preserving order.
func (m *Model) Predict(x [][]float64) ([]float64, error) {
	scores, err := m.DecisionFunction(x)
	if err != nil {
		return nil, err
	}
	labels := make([]float64, len(scores))
	for i, s := range scores {
		if s > 0 {
			labels[i] = m.classes[1]
		} else {
			labels[i] = m.classes[0]
		}
	}
	return labels, nil
}

// Score returns the mean accuracy on the given samples.
func (m *Model) Score(x [][]float64, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("%w: %d samples, %d targets", ErrDimensionMismatch, len(x), len(y))
	}
	pred, err := m.Predict(x)
	if err != nil {
		return 0, err
	}
	return Accuracy(y, pred)
}

// SetAccuracy records the held-out accuracy in the artifact metadata.
func (m *Model) SetAccuracy(acc float64) {
	m.accuracy = acc
}

func (m *Model) NumFeatures() int {
	return len(m.coef)
}

func (m *Model) Coef() []float64 {
	return m.coef.Copy()
}

func (m *Model) Intercept() float64 {
	return m.intercept
}

func (m *Model) Iterations() int {
	return m.nIter
}

func (m *Model) Converged() bool {
	return m.converged
}

func (m *Model) Info() predictor.Info {
	classes := make([]float64, len(m.classes))
	copy(classes, m.classes)
	return predictor.Info{
		ID:          m.id.String(),
		Algorithm:   predictor.AlgTypeLogReg,
		Classes:     classes,
		NumFeatures: len(m.coef),
		Iterations:  m.nIter,
		Converged:   m.converged,
		Accuracy:    m.accuracy,
		TrainedAt:   m.trainedAt,
	}
}

// Accuracy is the fraction of predictions equal to the true labels.
func Accuracy(yTrue, yPred []float64) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, fmt.Errorf("%w: %d labels, %d predictions", ErrDimensionMismatch, len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return 0, ErrEmpty
	}
	var correct int
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}

func uniqueClasses(y []float64) ([]float64, error) {
	seen := make(map[float64]struct{}, 2)
	for _, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("target: %w", ErrNotFinite)
		}
		seen[v] = struct{}{}
	}
	if len(seen) != 2 {
		return nil, fmt.Errorf("%w, got %d", ErrNotBinary, len(seen))
	}
	classes := make([]float64, 0, 2)
	for v := range seen {
		classes = append(classes, v)
	}
	sort.Float64s(classes)
	return classes, nil
}
