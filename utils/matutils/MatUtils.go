// Package matutils implements utility function for working with mat.Matrix
// structs
package matutils

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// VecClip performs an element-wise clipping of a vector's values such
// that each value is at least min and at most max
func VecClip(a *mat.VecDense, min, max float64) {
	for i := 0; i < a.Len(); i++ {
		value := a.AtVec(i)

		if value < min {
			a.SetVec(i, min)
		} else if value > max {
			a.SetVec(i, max)
		}
	}
}

// R3At returns the three consecutive elements of v starting at index i
// as an r3.Vec
func R3At(v mat.Vector, i int) r3.Vec {
	return r3.Vec{X: v.AtVec(i), Y: v.AtVec(i + 1), Z: v.AtVec(i + 2)}
}

// PutR3 stores p in dst[i:i+3]
func PutR3(dst []float64, i int, p r3.Vec) {
	dst[i], dst[i+1], dst[i+2] = p.X, p.Y, p.Z
}
