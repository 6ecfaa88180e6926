package random

import (
	"math"
	"testing"

	"github.com/samuelfneumann/gometaworld/agent"
	"github.com/samuelfneumann/gometaworld/environment"
	"github.com/samuelfneumann/gometaworld/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectActionInBounds(t *testing.T) {
	spec := environment.NewBoxSpec(4, environment.Action, -1, 1)
	r, err := New(spec, 1)
	require.NoError(t, err)

	var _ agent.Agent = r
	for i := 0; i < 1000; i++ {
		action := r.SelectAction(timestep.TimeStep{})
		require.Equal(t, 4, action.Len())
		for j := 0; j < action.Len(); j++ {
			assert.GreaterOrEqual(t, action.AtVec(j), -1.0)
			assert.LessOrEqual(t, action.AtVec(j), 1.0)
		}
	}
}

func TestSeeded(t *testing.T) {
	spec := environment.NewBoxSpec(4, environment.Action, -1, 1)
	a, err := New(spec, 5)
	require.NoError(t, err)
	b, err := New(spec, 5)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.SelectAction(timestep.TimeStep{}).RawVector().Data,
			b.SelectAction(timestep.TimeStep{}).RawVector().Data)
	}
}

func TestInvalidSpec(t *testing.T) {
	_, err := New(environment.NewBoxSpec(2, environment.Observation, -1, 1), 0)
	assert.Error(t, err)

	_, err = New(environment.NewBoxSpec(2, environment.Action,
		math.Inf(-1), 1), 0)
	assert.Error(t, err)
}
