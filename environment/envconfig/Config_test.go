package envconfig

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/gometaworld/environment/sawyer"
	"github.com/samuelfneumann/gometaworld/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestJSONRoundTrip(t *testing.T) {
	c := NewConfig(Sawyer, Disassemble, 100, 0.99, true)
	c.EndOnSuccess = true

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var got Config
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, c, got)
}

func TestUnmarshalRejectsUnknownNames(t *testing.T) {
	var c Config
	err := json.Unmarshal([]byte(`{"Environment": "Hopper", "Task": "Reach"}`),
		&c)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"Environment": "Sawyer", "Task": "Hop"}`),
		&c)
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"Environment": "Sawyer",
		"Task": "Reach",
		"EpisodeCutoff": 50,
		"Discount": 1.0,
		"PartiallyObservable": true
	}`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Reach, c.Task)
	assert.Equal(t, uint(50), c.EpisodeCutoff)
	assert.True(t, c.PartiallyObservable)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestCreate(t *testing.T) {
	for _, task := range []TaskName{Disassemble, Reach} {
		c := NewConfig(Sawyer, task, 3, 0.9, false)
		e, first, err := c.Create(1)
		require.NoError(t, err, "task %v", task)
		require.True(t, first.First())
		assert.Equal(t, sawyer.ObsLen, first.Observation.Len())

		action := mat.NewVecDense(sawyer.ActionLen, nil)
		var done bool
		for i := 0; i < 3; i++ {
			_, done, err = e.Step(action)
			require.NoError(t, err)
		}
		assert.True(t, done)
	}

	_, _, err := NewConfig(Sawyer, "Hop", 3, 0.9, false).Create(1)
	assert.Error(t, err)
}

func TestObjectBounds(t *testing.T) {
	c := NewConfig(Sawyer, Disassemble, 50, 0.99, false)
	c.ObjectBounds = []r1.Interval{{Min: -1, Max: 1}, {Min: -1, Max: 2}}
	assert.Error(t, c.Validate())

	c.ObjectBounds = append(c.ObjectBounds, r1.Interval{Min: 1, Max: 0})
	assert.Error(t, c.Validate())

	// The object starts below the z bound, so the first step is terminal
	c.ObjectBounds[2] = r1.Interval{Min: 1, Max: 2}
	require.NoError(t, c.Validate())
	e, _, err := c.Create(1)
	require.NoError(t, err)

	step, done, err := e.Step(mat.NewVecDense(sawyer.ActionLen, nil))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, timestep.TerminalStateReached, step.EndType())
}
