// Package reward implements the building blocks used to construct
// dense, shaped rewards for the manipulation tasks in this module.
//
// Every shaped reward is built from a small number of primitives:
//
//	Tolerance		maps an error magnitude to a score in [0, 1]
//	HamacherProduct	combines two scores in [0, 1] so that both must
//					be high for the combination to be high
//
// together with a handful of stage functions (grab effort, orientation
// clamp, floor avoidance) that tasks parameterize with their own
// geometry.
package reward

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r1"
)

// DefaultValueAtMargin is the value a tolerance takes when a value
// is exactly one margin outside of the tolerance bounds.
const DefaultValueAtMargin float64 = 0.1

// Tolerance returns a score in [0, 1] for the value x. The score is 1
// whenever x is within bounds. Outside of bounds the score decays with
// the distance to the nearest bound, measured in units of margin, with
// a shape determined by the sigmoid s. At exactly one margin away from
// the bounds, the score is DefaultValueAtMargin.
//
// If margin is 0, then Tolerance is the indicator function of bounds.
//
// Tolerance panics if bounds.Min > bounds.Max, if margin < 0, or if s
// is not a known sigmoid.
func Tolerance(x float64, bounds r1.Interval, margin float64,
	s Sigmoid) float64 {
	return ToleranceAt(x, bounds, margin, DefaultValueAtMargin, s)
}

// ToleranceAt is like Tolerance, but the value of the score at one
// margin outside of bounds is given by valueAtMargin.
func ToleranceAt(x float64, bounds r1.Interval, margin,
	valueAtMargin float64, s Sigmoid) float64 {
	if bounds.Min > bounds.Max {
		panic(fmt.Sprintf("tolerance: lower bound %v must not exceed "+
			"upper bound %v", bounds.Min, bounds.Max))
	}
	if margin < 0 {
		panic(fmt.Sprintf("tolerance: margin must be non-negative, got %v",
			margin))
	}
	if !s.Valid() {
		panic(fmt.Sprintf("tolerance: unknown sigmoid %q", string(s)))
	}

	if bounds.Min <= x && x <= bounds.Max {
		return 1.0
	}
	if margin == 0 || math.IsNaN(x) {
		return 0.0
	}

	var d float64
	if x < bounds.Min {
		d = (bounds.Min - x) / margin
	} else {
		d = (x - bounds.Max) / margin
	}

	return clamp01(s.Eval(d, valueAtMargin))
}

// clamp01 clips v to [0, 1]
func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
