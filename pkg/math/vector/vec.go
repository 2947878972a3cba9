package vector

import (
	"math"
)

type V []float64

func New(vec []float64) V {
	return vec
}

func Zeros(n int) V {
	return make(V, n)
}

func (v V) Copy() V {
	var v1 = make(V, len(v))
	copy(v1, v)
	return v1
}

// Dot panics when dimensions differ.
func (v V) Dot(vec V) float64 {
	if len(v) != len(vec) {
		panic("vector: dimension mismatch")
	}
	var s float64
	for i := range v {
		s += v[i] * vec[i]
	}
	return s
}

// AddScaled computes v += alpha * vec in place.
func (v V) AddScaled(alpha float64, vec V) {
	for i := range v {
		v[i] += alpha * vec[i]
	}
}

func (v V) MaxAbs() float64 {
	var max float64
	for i := range v {
		if a := math.Abs(v[i]); a > max {
			max = a
		}
	}
	return max
}

func (v V) SizeEqual(vec V) bool {
	return len(v) == len(vec)
}

func (v V) IsFinite() bool {
	for i := range v {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			return false
		}
	}
	return true
}

// Sigmoid is the logistic function, evaluated without overflow for large |x|.
func Sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	z := math.Exp(x)
	return z / (1 + z)
}

// LogOnePlusExp computes log(1 + e^x) without overflow.
func LogOnePlusExp(x float64) float64 {
	if x > 0 {
		return x + math.Log1p(math.Exp(-x))
	}
	return math.Log1p(math.Exp(x))
}
