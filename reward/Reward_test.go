package reward

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r1"
)

var sigmoids = []Sigmoid{
	Gaussian, Hyperbolic, LongTail, ReciprocalQuadratic, Cosine, Linear,
	Quadratic, TanhSquared,
}

func TestToleranceInBounds(t *testing.T) {
	bounds := r1.Interval{Min: 0.1, Max: 0.4}
	for _, s := range sigmoids {
		for _, x := range []float64{0.1, 0.2, 0.3, 0.4} {
			assert.Equal(t, 1.0, Tolerance(x, bounds, 0.5, s), "sigmoid %v", s)
		}
	}
}

func TestToleranceBoundedProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, s := range sigmoids {
		for i := 0; i < 2000; i++ {
			lo := rng.Float64()
			bounds := r1.Interval{Min: lo, Max: lo + rng.Float64()}
			margin := rng.Float64() * 2
			x := rng.Float64() * 5
			v := Tolerance(x, bounds, margin, s)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestToleranceMonotonic(t *testing.T) {
	bounds := r1.Interval{Min: 0.2, Max: 0.3}
	for _, s := range sigmoids {
		// Above the upper bound
		prev := 1.0
		for x := 0.3; x < 3; x += 0.01 {
			v := Tolerance(x, bounds, 0.25, s)
			assert.LessOrEqual(t, v, prev, "sigmoid %v at %v", s, x)
			prev = v
		}

		// Below the lower bound, moving away from it
		prev = 1.0
		for x := 0.2; x > -3; x -= 0.01 {
			v := Tolerance(x, bounds, 0.25, s)
			assert.LessOrEqual(t, v, prev, "sigmoid %v at %v", s, x)
			prev = v
		}
	}
}

func TestToleranceValueAtMargin(t *testing.T) {
	bounds := r1.Interval{Min: 0, Max: 0.02}
	for _, s := range sigmoids {
		v := Tolerance(0.02+0.5, bounds, 0.5, s)
		assert.InDelta(t, DefaultValueAtMargin, v, 1e-9, "sigmoid %v", s)
	}
}

func TestToleranceZeroMargin(t *testing.T) {
	bounds := r1.Interval{Min: 0, Max: 1}
	assert.Equal(t, 1.0, Tolerance(1, bounds, 0, LongTail))
	assert.Equal(t, 0.0, Tolerance(1.0001, bounds, 0, LongTail))
	assert.Equal(t, 0.0, Tolerance(-0.0001, bounds, 0, Gaussian))
}

func TestToleranceCutoff(t *testing.T) {
	bounds := r1.Interval{Min: 0, Max: 0}

	// Linear with valueAtMargin 0.1 hits 0 at 1/0.9 margins
	assert.Equal(t, 0.0, Tolerance(1.2, bounds, 1, Linear))
	assert.Greater(t, Tolerance(1.1, bounds, 1, Linear), 0.0)
	assert.Equal(t, 0.0, Tolerance(5, bounds, 1, Cosine))
	assert.Equal(t, 0.0, Tolerance(5, bounds, 1, Quadratic))

	// Long tail never reaches 0
	assert.Greater(t, Tolerance(100, bounds, 1, LongTail), 0.0)
}

func TestToleranceLongTail(t *testing.T) {
	// 1 / ((d * 3)^2 + 1) with d = (0.12 - 0.02) / 0.5
	want := 1 / (math.Pow(0.2*3, 2) + 1)
	got := Tolerance(0.12, r1.Interval{Min: 0, Max: 0.02}, 0.5, LongTail)
	assert.InDelta(t, want, got, 1e-12)
}

func TestTolerancePanics(t *testing.T) {
	assert.Panics(t, func() {
		Tolerance(0, r1.Interval{Min: 1, Max: 0}, 1, LongTail)
	})
	assert.Panics(t, func() {
		Tolerance(0, r1.Interval{Min: 0, Max: 1}, -1, LongTail)
	})
	assert.Panics(t, func() {
		Tolerance(0, r1.Interval{Min: 0, Max: 1}, 1, Sigmoid("step"))
	})
	assert.Panics(t, func() {
		ToleranceAt(2, r1.Interval{Min: 0, Max: 1}, 1, 1, LongTail)
	})
}

func TestHamacherProduct(t *testing.T) {
	assert.Equal(t, 1.0, HamacherProduct(1, 1))
	assert.Equal(t, 0.0, HamacherProduct(0, 0))
	assert.Equal(t, 0.0, HamacherProduct(0, 0.7))
	assert.Equal(t, 0.0, HamacherProduct(0.7, 0))
	assert.InDelta(t, 0.5, HamacherProduct(1, 0.5), 1e-12)
	assert.InDelta(t, 1.0/3.0, HamacherProduct(0.5, 0.5), 1e-12)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 5000; i++ {
		a, b := rng.Float64(), rng.Float64()
		h := HamacherProduct(a, b)
		assert.Equal(t, h, HamacherProduct(b, a))
		assert.GreaterOrEqual(t, h, 0.0)
		assert.LessOrEqual(t, h, math.Min(a, b)+1e-12)
	}
}

func TestHamacherProductPanics(t *testing.T) {
	assert.Panics(t, func() { HamacherProduct(-0.1, 0.5) })
	assert.Panics(t, func() { HamacherProduct(0.5, 1.1) })
}

func TestGrabEffort(t *testing.T) {
	assert.Equal(t, 0.0, GrabEffort(-1))
	assert.Equal(t, 0.5, GrabEffort(0))
	assert.Equal(t, 1.0, GrabEffort(1))
	assert.Equal(t, 1.0, GrabEffort(10))
	assert.Equal(t, 0.0, GrabEffort(-10))
}

func TestReshapeGrab(t *testing.T) {
	assert.InDelta(t, 0.4, ReshapeGrab(0.8, 0.5, 0.9), 1e-12)
	assert.InDelta(t, 0.6, ReshapeGrab(0.8, 0.95, 0.9), 1e-12)
	assert.InDelta(t, 0.4, ReshapeGrab(0.8, 0.9, 0.9), 1e-12)
}

func TestQuatClamp(t *testing.T) {
	ideal := quat.Number{Real: 0.707, Kmag: 0.707}
	assert.Equal(t, 1.0, QuatClamp(ideal, ideal, 0.2))

	off := quat.Number{Real: 0.707, Kmag: 0.607}
	assert.InDelta(t, 0.5, QuatClamp(off, ideal, 0.2), 1e-9)

	flipped := quat.Number{Real: 1}
	assert.Equal(t, 0.0, QuatClamp(flipped, ideal, 0.2))
}

func TestFloor(t *testing.T) {
	assert.Equal(t, 0.0, Floor(0.01, 0.02))
	assert.Equal(t, 0.0, Floor(0.02, 0.02))
	assert.InDelta(t, 0.01*math.Log(0.08)+0.1, Floor(0.1, 0.02), 1e-12)
	assert.Greater(t, Floor(0.5, 0.02), Floor(0.1, 0.02))
}

func TestAboveFloor(t *testing.T) {
	assert.Equal(t, 1.0, AboveFloor(0.2, 0.1))
	assert.Equal(t, 1.0, AboveFloor(0.1, 0.1))

	// Within the 0.01 bound below the floor
	assert.Equal(t, 1.0, AboveFloor(0.095, 0.1))

	below := AboveFloor(0.02, 0.1)
	assert.Greater(t, below, 0.0)
	assert.Less(t, below, 1.0)
	assert.Less(t, AboveFloor(0.0, 0.1), below)

	// Non-positive floors have no margin
	assert.Equal(t, 0.0, AboveFloor(-0.5, -0.01))
}
