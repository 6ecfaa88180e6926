package environment

import (
	"math"
	"testing"

	"github.com/samuelfneumann/gometaworld/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestUniformStarterReversedBounds(t *testing.T) {
	bounds := []r1.Interval{
		{Min: 0.1, Max: 0.0},
		{Min: 0.6, Max: 0.75},
		{Min: 0.025, Max: 0.025},
	}
	s := NewUniformStarter(bounds, 12)

	for i := 0; i < 1000; i++ {
		start := s.Start()
		require.Equal(t, 3, start.Len())
		assert.GreaterOrEqual(t, start.AtVec(0), 0.0)
		assert.LessOrEqual(t, start.AtVec(0), 0.1)
		assert.GreaterOrEqual(t, start.AtVec(1), 0.6)
		assert.LessOrEqual(t, start.AtVec(1), 0.75)
		assert.Equal(t, 0.025, start.AtVec(2))
	}

	assert.Equal(t, r1.Interval{Min: 0.0, Max: 0.1}, s.Bounds()[0])
}

func TestUniformStarterSeeded(t *testing.T) {
	bounds := []r1.Interval{{Min: -1, Max: 1}, {Min: -1, Max: 1}}
	a := NewUniformStarter(bounds, 3)
	b := NewUniformStarter(bounds, 3)

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Start().RawVector().Data, b.Start().RawVector().Data)
	}
}

func TestStepLimit(t *testing.T) {
	limit := NewStepLimit(5)
	step := timestep.New(timestep.Mid, 0, 1, nil, 4)
	assert.False(t, limit.End(&step))
	assert.False(t, step.Last())

	step.Number = 5
	assert.True(t, limit.End(&step))
	assert.True(t, step.Last())
	assert.Equal(t, timestep.Timeout, step.EndType())
}

func TestSuccessEnder(t *testing.T) {
	ender := NewSuccessEnder()
	step := timestep.New(timestep.Mid, 0, 1, nil, 1)
	assert.False(t, ender.End(&step))

	step.Info.Success = true
	assert.True(t, ender.End(&step))
	assert.Equal(t, timestep.TerminalStateReached, step.EndType())
}

func TestNewSpecPanics(t *testing.T) {
	s := NewBoxSpec(3, Action, -1, 1)
	assert.Equal(t, 3, s.Shape.Len())
	assert.Equal(t, -1.0, s.LowerBound.AtVec(2))
	assert.Equal(t, Continuous, s.Cardinality)

	assert.Panics(t, func() {
		NewSpec(s.Shape, Action, NewBoxSpec(2, Action, 0, 0).LowerBound,
			s.UpperBound, Continuous)
	})

	inf := NewBoxSpec(2, Observation, math.Inf(-1), math.Inf(1))
	assert.True(t, math.IsInf(inf.UpperBound.AtVec(1), 1))
}

func TestIntervalLimit(t *testing.T) {
	limit := NewIntervalLimit([]r1.Interval{{Min: 0, Max: 1}}, []int{1},
		timestep.TerminalStateReached)

	inside := timestep.New(timestep.Mid, 0, 1,
		mat.NewVecDense(2, []float64{5, 0.5}), 1)
	assert.False(t, limit.End(&inside))
	assert.False(t, inside.Last())

	outside := timestep.New(timestep.Mid, 0, 1,
		mat.NewVecDense(2, []float64{0.5, 1.5}), 2)
	assert.True(t, limit.End(&outside))
	assert.True(t, outside.Last())
	assert.Equal(t, timestep.TerminalStateReached, outside.EndType())

	nan := timestep.New(timestep.Mid, 0, 1,
		mat.NewVecDense(2, []float64{0, math.NaN()}), 3)
	assert.True(t, limit.End(&nan))

	assert.Panics(t, func() {
		NewIntervalLimit([]r1.Interval{{Min: 0, Max: 1}}, nil, timestep.Unset)
	})
}
