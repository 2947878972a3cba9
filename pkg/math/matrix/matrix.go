package matrix

import (
	"errors"
	"math"

	"github.com/go-sod/mlserve/pkg/math/vector"
)

var ErrNotPositiveDefinite = errors.New("matrix is not positive definite")

// Sym is a dense square matrix stored row by row.
type Sym struct {
	n    int
	data []float64
}

func NewSym(n int) *Sym {
	return &Sym{n: n, data: make([]float64, n*n)}
}

func (m *Sym) Size() int {
	return m.n
}

func (m *Sym) At(i, j int) float64 {
	return m.data[i*m.n+j]
}

func (m *Sym) Set(i, j int, v float64) {
	m.data[i*m.n+j] = v
}

func (m *Sym) Add(i, j int, v float64) {
	m.data[i*m.n+j] += v
}

// AddOuter adds alpha * x * x^T.
func (m *Sym) AddOuter(alpha float64, x vector.V) {
	for i := 0; i < m.n; i++ {
		ax := alpha * x[i]
		if ax == 0 {
			continue
		}
		row := m.data[i*m.n : (i+1)*m.n]
		for j := 0; j < m.n; j++ {
			row[j] += ax * x[j]
		}
	}
}

// SolveCholesky solves m * x = b for a symmetric positive definite m.
// m is left untouched.
func (m *Sym) SolveCholesky(b vector.V) (vector.V, error) {
	n := m.n
	if len(b) != n {
		return nil, errors.New("matrix: dimension mismatch")
	}
	l := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			s := m.data[i*n+j]
			for k := 0; k < j; k++ {
				s -= l[i*n+k] * l[j*n+k]
			}
			if i == j {
				if s <= 0 || math.IsNaN(s) {
					return nil, ErrNotPositiveDefinite
				}
				l[i*n+i] = math.Sqrt(s)
			} else {
				l[i*n+j] = s / l[j*n+j]
			}
		}
	}

	y := make(vector.V, n)
	for i := 0; i < n; i++ {
		s := b[i]
		for k := 0; k < i; k++ {
			s -= l[i*n+k] * y[k]
		}
		y[i] = s / l[i*n+i]
	}

	x := make(vector.V, n)
	for i := n - 1; i >= 0; i-- {
		s := y[i]
		for k := i + 1; k < n; k++ {
			s -= l[k*n+i] * x[k]
		}
		x[i] = s / l[i*n+i]
	}
	return x, nil
}
