package reward

import (
	"math"

	"github.com/samuelfneumann/gometaworld/utils/floatutils"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r1"
)

// GrabEffort maps a gripper action channel, nominally in [-1, 1], to
// [0, 1]. The channel is clipped to [-1, 1] first.
func GrabEffort(a float64) float64 {
	return (floatutils.Clip(a, -1, 1) + 1) / 2
}

// ReshapeGrab switches the grab-effort stage once the approach stage
// is nearly complete. If ready exceeds threshold, the effort is
// replaced by 2 - effort. In both cases the result is halved so that it
// lies in [0, 1], with the post-switch values never below the
// pre-switch maximum.
func ReshapeGrab(effort, ready, threshold float64) float64 {
	if ready > threshold {
		effort = 2 - effort
	}
	return effort / 2
}

// QuatClamp scores the orientation q against an ideal orientation as
// max(1 - |q - ideal| / scale, 0), where |·| is the Euclidean norm of
// the quaternions viewed as 4-vectors. This is a cheap stand-in for the
// angle between the orientations and is only meaningful near ideal.
func QuatClamp(q, ideal quat.Number, scale float64) float64 {
	err := quat.Abs(quat.Sub(q, ideal))
	return math.Max(1-err/scale, 0)
}

// Floor returns the height of a logarithmic valley which is 0 within
// threshold of an object and rises as 0.01·ln(radius - threshold) + 0.1
// outside of it. The hand should stay above the floor while it is not
// yet aligned with the object.
func Floor(radius, threshold float64) float64 {
	if radius <= threshold {
		return 0
	}
	return 0.01*math.Log(radius-threshold) + 0.1
}

// AboveFloor scores how far a hand at height z has sunk below floor.
// The score is 1 at or above the floor and decays with a long tail
// below it, with a margin of half the floor height. A floor at or
// below 0 gives a zero margin, turning the score into an indicator.
func AboveFloor(z, floor float64) float64 {
	if z >= floor {
		return 1
	}
	return Tolerance(floor-z, r1.Interval{Min: 0, Max: 0.01},
		math.Max(floor/2, 0), LongTail)
}
