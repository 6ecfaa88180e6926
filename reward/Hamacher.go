package reward

import "fmt"

// HamacherProduct returns the Hamacher t-norm of a and b:
//
//	ab / (a + b - ab)
//
// The product is symmetric, is 0 whenever either argument is 0, and
// never exceeds the smaller of its arguments, so it only rewards a
// combination of two sub-goals when both are satisfied. If the
// denominator is 0 the product is 0.
//
// HamacherProduct panics if a or b is outside [0, 1].
func HamacherProduct(a, b float64) float64 {
	if !(0 <= a && a <= 1) || !(0 <= b && b <= 1) {
		panic(fmt.Sprintf("hamacherProduct: arguments must be in [0, 1], "+
			"got (%v, %v)", a, b))
	}

	denominator := a + b - a*b
	if denominator <= 0 {
		return 0
	}
	return clamp01(a * b / denominator)
}
