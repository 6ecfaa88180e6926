package reward

import (
	"fmt"
	"math"
)

// Sigmoid determines the shape of the decay of a tolerance score once
// a value leaves the bounds of the tolerance.
type Sigmoid string

// Sigmoid shapes available for tolerances. Cosine, Linear, and
// Quadratic reach exactly 0 at a finite distance from the bounds, all
// others only approach 0 asymptotically.
const (
	Gaussian            Sigmoid = "gaussian"
	Hyperbolic          Sigmoid = "hyperbolic"
	LongTail            Sigmoid = "long_tail"
	ReciprocalQuadratic Sigmoid = "reciprocal"
	Cosine              Sigmoid = "cosine"
	Linear              Sigmoid = "linear"
	Quadratic           Sigmoid = "quadratic"
	TanhSquared         Sigmoid = "tanh_squared"
)

// finite returns whether the sigmoid has a finite cutoff after which
// it is exactly 0.
func (s Sigmoid) finite() bool {
	return s == Cosine || s == Linear || s == Quadratic
}

// Valid returns whether s names a known sigmoid shape
func (s Sigmoid) Valid() bool {
	switch s {
	case Gaussian, Hyperbolic, LongTail, ReciprocalQuadratic, Cosine,
		Linear, Quadratic, TanhSquared:
		return true
	}
	return false
}

// Eval returns the value of the sigmoid at x, where the sigmoid is
// scaled such that Eval(1, valueAt1) == valueAt1. The argument x is a
// non-negative distance measured in units of the tolerance margin.
//
// Eval panics if valueAt1 is not in (0, 1), or [0, 1) for sigmoids
// with a finite cutoff.
func (s Sigmoid) Eval(x, valueAt1 float64) float64 {
	if s.finite() {
		if valueAt1 < 0 || valueAt1 >= 1 {
			panic(fmt.Sprintf("eval: valueAt1 must be in [0, 1) for %v "+
				"sigmoid, got %v", s, valueAt1))
		}
	} else if valueAt1 <= 0 || valueAt1 >= 1 {
		panic(fmt.Sprintf("eval: valueAt1 must be in (0, 1) for %v "+
			"sigmoid, got %v", s, valueAt1))
	}

	switch s {
	case Gaussian:
		scale := math.Sqrt(-2 * math.Log(valueAt1))
		return math.Exp(-0.5 * (x * scale) * (x * scale))

	case Hyperbolic:
		scale := math.Acosh(1 / valueAt1)
		return 1 / math.Cosh(x*scale)

	case LongTail:
		scale := math.Sqrt(1/valueAt1 - 1)
		return 1 / ((x*scale)*(x*scale) + 1)

	case ReciprocalQuadratic:
		scale := 1/valueAt1 - 1
		return 1 / (math.Abs(x)*scale + 1)

	case Cosine:
		scale := math.Acos(2*valueAt1-1) / math.Pi
		scaledX := x * scale
		if math.Abs(scaledX) < 1 {
			return (1 + math.Cos(math.Pi*scaledX)) / 2
		}
		return 0

	case Linear:
		scale := 1 - valueAt1
		scaledX := x * scale
		if math.Abs(scaledX) < 1 {
			return 1 - scaledX
		}
		return 0

	case Quadratic:
		scale := math.Sqrt(1 - valueAt1)
		scaledX := x * scale
		if math.Abs(scaledX) < 1 {
			return 1 - scaledX*scaledX
		}
		return 0

	case TanhSquared:
		scale := math.Atanh(math.Sqrt(1 - valueAt1))
		t := math.Tanh(x * scale)
		return 1 - t*t
	}

	panic(fmt.Sprintf("eval: unknown sigmoid %q", string(s)))
}
