package sawyer_test

import (
	"errors"
	"math"
	"testing"

	"github.com/samuelfneumann/gometaworld/environment"
	"github.com/samuelfneumann/gometaworld/environment/internal/kinematic"
	"github.com/samuelfneumann/gometaworld/environment/sawyer"
	"github.com/samuelfneumann/gometaworld/environment/sawyer/disassemble"
	"github.com/samuelfneumann/gometaworld/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

func newEnv(t *testing.T, opts ...sawyer.Option) *sawyer.Env {
	t.Helper()
	task := disassemble.New(0, false, 0)
	env, _, err := sawyer.New(kinematic.NutDisassemble(task.HandInit()),
		task, 0.99, opts...)
	require.NoError(t, err)
	return env
}

func TestEnvironmentInterface(t *testing.T) {
	var _ environment.Environment = newEnv(t)
}

func TestStepInvalidAction(t *testing.T) {
	env := newEnv(t)

	_, _, err := env.Step(nil)
	assert.True(t, errors.Is(err, sawyer.ErrInvalidInput))

	_, _, err = env.Step(mat.NewVecDense(3, nil))
	assert.True(t, errors.Is(err, sawyer.ErrInvalidInput))

	var sErr *sawyer.Error
	require.True(t, errors.As(err, &sErr))
	assert.Equal(t, "step", sErr.Op)

	_, _, err = env.Step(mat.NewVecDense(sawyer.ActionLen,
		[]float64{0, 0, 0, math.NaN()}))
	assert.True(t, errors.Is(err, sawyer.ErrInvalidInput))

	// Failed steps do not advance the episode
	assert.Equal(t, 0, env.CurrentTimeStep().Number)
}

func TestStepClipsHandMotion(t *testing.T) {
	env := newEnv(t)
	start := sawyer.HandPos(env.CurrentTimeStep().Observation)

	action := mat.NewVecDense(sawyer.ActionLen, []float64{5, -5, 0, 0})
	ts, _, err := env.Step(action)
	require.NoError(t, err)

	hand := sawyer.HandPos(ts.Observation)
	assert.InDelta(t, start.X+sawyer.ActionScale, hand.X, 1e-12)
	// The hand is already at the lowest y of its bounds
	assert.InDelta(t, start.Y, hand.Y, 1e-12)

	// The previous frame holds the first observation
	prev := r3.Vec{
		X: ts.Observation.AtVec(sawyer.PrevIdx + sawyer.HandIdx),
		Y: ts.Observation.AtVec(sawyer.PrevIdx + sawyer.HandIdx + 1),
		Z: ts.Observation.AtVec(sawyer.PrevIdx + sawyer.HandIdx + 2),
	}
	assert.InDelta(t, 0.0, r3.Norm(r3.Sub(start, prev)), 1e-12)
}

func TestGripperObservation(t *testing.T) {
	env := newEnv(t)
	assert.Equal(t, 1.0,
		sawyer.GripperOpening(env.CurrentTimeStep().Observation))

	grip := mat.NewVecDense(sawyer.ActionLen, []float64{0, 0, 0, 1})
	var ts timestep.TimeStep
	var err error
	for i := 0; i < 10; i++ {
		ts, _, err = env.Step(grip)
		require.NoError(t, err)
	}
	assert.Equal(t, 0.0, sawyer.GripperOpening(ts.Observation))
}

func TestResetRestoresScene(t *testing.T) {
	env := newEnv(t)
	first := env.CurrentTimeStep()

	up := mat.NewVecDense(sawyer.ActionLen, []float64{1, 1, 1, 1})
	for i := 0; i < 5; i++ {
		_, _, err := env.Step(up)
		require.NoError(t, err)
	}

	ts, err := env.Reset()
	require.NoError(t, err)
	assert.True(t, ts.First())
	assert.Equal(t, first.Observation.RawVector().Data,
		ts.Observation.RawVector().Data)
	assert.Equal(t, sawyer.Reward{}, env.LastReward())
}

func TestSuccessEnder(t *testing.T) {
	env := newEnv(t, sawyer.WithEnder(environment.NewSuccessEnder()))
	ts, done, err := env.Step(mat.NewVecDense(sawyer.ActionLen, nil))
	require.NoError(t, err)
	assert.False(t, done)
	assert.False(t, ts.Last())
}

func TestSpecs(t *testing.T) {
	env := newEnv(t)

	obs := env.ObservationSpec()
	assert.Equal(t, sawyer.ObsLen, obs.Shape.Len())
	assert.True(t, math.IsInf(obs.LowerBound.AtVec(0), -1))

	action := env.ActionSpec()
	assert.Equal(t, sawyer.ActionLen, action.Shape.Len())
	assert.Equal(t, -1.0, action.LowerBound.AtVec(sawyer.GripperChan))
	assert.Equal(t, 1.0, action.UpperBound.AtVec(sawyer.GripperChan))

	r := env.RewardSpec()
	assert.Equal(t, 0.0, r.LowerBound.AtVec(0))
	assert.Equal(t, sawyer.MaxReward, r.UpperBound.AtVec(0))

	d := env.DiscountSpec()
	assert.Equal(t, 0.99, d.LowerBound.AtVec(0))
}

func TestRewardInfo(t *testing.T) {
	r := sawyer.Reward{Reward: 3, Grasp: 0.4, NearObject: 0.7, InPlace: 0.2}
	info := r.Info()
	assert.False(t, info.GraspSuccess)
	assert.Equal(t, 0.4, info.GraspReward)
	assert.Equal(t, 0.7, info.NearObject)
	assert.Equal(t, 0.2, info.InPlaceReward)
	assert.Equal(t, 3.0, info.UnscaledReward)

	yes := true
	r.GraspSuccess = &yes
	assert.True(t, r.Info().GraspSuccess)
}

func TestToolKinds(t *testing.T) {
	assert.True(t, sawyer.Peg.PosIsStatic())
	assert.False(t, sawyer.RoundNut.PosIsStatic())
	assert.Equal(t, "RoundNutJoint", sawyer.RoundNut.JointName())
	assert.Panics(t, func() { _ = sawyer.ToolKind(42).Name() })

	tool := sawyer.NewTool(sawyer.Puck)
	assert.True(t, tool.Enabled)
	_, ok := tool.SpecifiedPos()
	assert.False(t, ok)
	pos, ok := tool.WithPos(r3.Vec{X: 1}).SpecifiedPos()
	assert.True(t, ok)
	assert.Equal(t, r3.Vec{X: 1}, pos)
	q, ok := tool.WithQuat(quat.Number{Real: 1}).SpecifiedQuat()
	assert.True(t, ok)
	assert.Equal(t, quat.Number{Real: 1}, q)
}

func TestBoxClip(t *testing.T) {
	b := sawyer.Box{Low: r3.Vec{X: -1, Y: 0, Z: 0}, High: r3.Vec{X: 1, Y: 2, Z: 3}}

	assert.Equal(t, r3.Vec{X: 1, Y: 0, Z: 1}, b.Clip(r3.Vec{X: 5, Y: -1, Z: 1}))
	assert.Equal(t, r3.Vec{X: 0, Y: 1, Z: 1}, b.Clip(r3.Vec{X: 0, Y: 1, Z: 1}))
}

// toolTask overrides the tools of a disassemble task
type toolTask struct {
	*disassemble.Task
	tools []sawyer.Tool
}

func (t toolTask) Tools() []sawyer.Tool { return t.tools }

func TestResetPlacesTools(t *testing.T) {
	tilted := quat.Number{Real: math.Sqrt2 / 2, Imag: math.Sqrt2 / 2}
	pegPos := r3.Vec{X: 0.2, Y: 0.8, Z: 0.03}

	nut := sawyer.NewTool(sawyer.RoundNut).WithPos(r3.Vec{X: 1, Y: 1, Z: 1})
	nut.Enabled = false
	task := toolTask{
		Task: disassemble.New(0, false, 0),
		tools: []sawyer.Tool{
			nut,
			sawyer.NewTool(sawyer.Peg).WithPos(pegPos).WithQuat(tilted),
		},
	}
	scene := kinematic.NutDisassemble(task.HandInit())
	_, _, err := sawyer.New(scene, task, 0.99)
	require.NoError(t, err)

	pos, err := sawyer.PositionOf(scene, sawyer.Peg)
	require.NoError(t, err)
	assert.Equal(t, pegPos, pos)
	q, err := sawyer.QuatOf(scene, sawyer.Peg)
	require.NoError(t, err)
	assert.Equal(t, tilted, q)

	// Disabled tools are left where the task put them
	pos, err = sawyer.PositionOf(scene, sawyer.RoundNut)
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{X: 0, Y: 0.7, Z: 0.025}, pos)
}

func TestResetUnknownTool(t *testing.T) {
	task := toolTask{
		Task:  disassemble.New(0, false, 0),
		tools: []sawyer.Tool{sawyer.NewTool(sawyer.Puck).WithPos(r3.Vec{})},
	}
	_, _, err := sawyer.New(kinematic.NutDisassemble(task.HandInit()), task,
		0.99)
	assert.True(t, errors.Is(err, sawyer.ErrUnknownName))
}
