// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/spatial/r1"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// Ordered returns a copy of interval with Min and Max swapped if Min
// exceeds Max.
func Ordered(interval r1.Interval) r1.Interval {
	if interval.Min > interval.Max {
		return r1.Interval{Min: interval.Max, Max: interval.Min}
	}
	return interval
}
