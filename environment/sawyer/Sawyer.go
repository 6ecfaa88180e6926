// Package sawyer implements manipulation environments for a simulated
// Sawyer arm with a parallel gripper.
//
// The arm is driven through a mocap target: the first three action
// dimensions move the target by at most ActionScale in each direction
// per step, and the fourth action dimension opens (-1) or closes (+1)
// the gripper. Actions are clipped to [-1, 1] before being sent to the
// simulator, but rewards are computed from the unclipped action.
//
// Observations are 39-dimensional vectors whose layout is described by
// the index constants of this package (HandIdx, GripperIdx, ObjPosIdx,
// ObjQuatIdx, PrevIdx, GoalIdx).
//
// What the arm must do is determined by a Task. The physics simulation
// is an external collaborator, consumed through the Simulator
// interface.
package sawyer

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gometaworld/environment"
	ts "github.com/samuelfneumann/gometaworld/timestep"
	"github.com/samuelfneumann/gometaworld/utils/matutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// ActionScale scales the hand-motion dimensions of actions
	ActionScale float64 = 1.0 / 100.0

	// FrameSkip is the number of simulation frames per step
	FrameSkip int = 5

	// handResetSteps is the number of simulation steps used to settle
	// the hand at its initial position on reset
	handResetSteps int = 50
)

// mocapQuat is the orientation the hand is held at
var mocapQuat = quat.Number{Real: 1, Jmag: 1}

// Option configures an Env
type Option func(*Env)

// PartiallyObservable hides the goal position from observations
func PartiallyObservable(hidden bool) Option {
	return func(e *Env) {
		e.hideGoal = hidden
	}
}

// WithEnder adds an Ender which is checked after the step limit on
// every step.
func WithEnder(ender environment.Ender) Option {
	return func(e *Env) {
		e.enders = append(e.enders, ender)
	}
}

// Env implements a Sawyer arm environment with a Task to complete.
//
// Env satisfies the environment.Environment interface.
type Env struct {
	sim      Simulator
	task     Task
	discount float64
	hideGoal bool

	stepLimit *environment.StepLimit
	enders    []environment.Ender

	prevFrame       []float64
	currentTimeStep ts.TimeStep
	lastReward      Reward
}

// New returns a new Env, reset and ready to use, along with its first
// TimeStep.
func New(sim Simulator, task Task, discount float64,
	opts ...Option) (*Env, ts.TimeStep, error) {
	if sim == nil || task == nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: simulator and task " +
			"must be non-nil")
	}

	e := &Env{
		sim:       sim,
		task:      task,
		discount:  discount,
		stepLimit: environment.NewStepLimit(task.MaxPathLength()),
	}
	for _, opt := range opts {
		opt(e)
	}

	firstStep, err := e.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
	}
	return e, firstStep, nil
}

// Task returns the Task of the environment
func (e *Env) Task() Task {
	return e.task
}

// Reset resets the environment to begin a new episode
func (e *Env) Reset() (ts.TimeStep, error) {
	if err := e.sim.Reset(); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}

	if err := e.resetHand(); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}

	if err := e.task.Reset(e.sim); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}

	if err := e.placeTools(); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}

	frame, err := currentFrame(e.sim, e.task)
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}
	e.prevFrame = frame

	obs, err := e.observe(frame)
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}

	firstStep := ts.New(ts.First, 0, e.discount, obs, 0)
	e.currentTimeStep = firstStep
	e.lastReward = Reward{}

	return firstStep, nil
}

// resetHand moves the hand to the task's initial hand position with
// the gripper open.
func (e *Env) resetHand() error {
	for i := 0; i < handResetSteps; i++ {
		if err := e.sim.SetMocap(e.task.HandInit(), mocapQuat); err != nil {
			return fmt.Errorf("resetHand: %w", err)
		}
		if err := e.sim.DoSimulation([]float64{-1, 1}, FrameSkip); err != nil {
			return fmt.Errorf("resetHand: %w", err)
		}
	}
	return nil
}

// placeTools moves the enabled tools of the task to the poses the
// task specifies for the new episode.
func (e *Env) placeTools() error {
	for _, tool := range e.task.Tools() {
		if !tool.Enabled {
			continue
		}
		if _, ok := tool.SpecifiedPos(); ok {
			if err := SetPositionOf(e.sim, tool); err != nil {
				return fmt.Errorf("placeTools: %w", err)
			}
		}
		if _, ok := tool.SpecifiedQuat(); ok {
			if err := SetQuatOf(e.sim, tool); err != nil {
				return fmt.Errorf("placeTools: %w", err)
			}
		}
	}
	return nil
}

// Step takes one environmental step given some action. Step returns
// the next TimeStep and whether the episode has ended.
func (e *Env) Step(action *mat.VecDense) (ts.TimeStep, bool, error) {
	if e.currentTimeStep.Last() {
		return ts.TimeStep{}, true, newError("step", ErrPathLengthExceeded)
	}
	if action == nil {
		return ts.TimeStep{}, false, newError("step", fmt.Errorf("%w: nil "+
			"action", ErrInvalidInput))
	}
	if err := CheckAction("step", action); err != nil {
		return ts.TimeStep{}, false, err
	}

	clipped := mat.VecDenseCopyOf(action)
	matutils.VecClip(clipped, -1, 1)

	// Move the hand's mocap target
	delta := r3.Scale(ActionScale, matutils.R3At(clipped, 0))
	target := e.task.HandBounds().Clip(r3.Add(e.sim.MocapPos(), delta))
	if err := e.sim.SetMocap(target, mocapQuat); err != nil {
		return ts.TimeStep{}, false, fmt.Errorf("step: %w", err)
	}

	// Actuate the gripper
	grip := clipped.AtVec(GripperChan)
	if err := e.sim.DoSimulation([]float64{grip, -grip},
		FrameSkip); err != nil {
		return ts.TimeStep{}, false, fmt.Errorf("step: %w", err)
	}

	frame, err := currentFrame(e.sim, e.task)
	if err != nil {
		return ts.TimeStep{}, false, fmt.Errorf("step: %w", err)
	}
	obs, err := e.observe(frame)
	if err != nil {
		return ts.TimeStep{}, false, fmt.Errorf("step: %w", err)
	}
	e.prevFrame = frame

	r, err := e.task.ComputeReward(action, obs, e.sim)
	if err != nil {
		return ts.TimeStep{}, false, fmt.Errorf("step: %w", err)
	}
	e.lastReward = r

	t := ts.New(ts.Mid, r.Reward, e.discount, obs,
		e.currentTimeStep.Number+1)
	t.Info = r.Info()

	done := e.stepLimit.End(&t)
	for _, ender := range e.enders {
		if done {
			break
		}
		done = ender.End(&t)
	}
	e.currentTimeStep = t

	return t, done, nil
}

// observe builds the observation for the current frame
func (e *Env) observe(frame []float64) (*mat.VecDense, error) {
	goal, err := e.task.Target()
	if err != nil {
		return nil, fmt.Errorf("observe: %w", err)
	}
	return buildObservation(frame, e.prevFrame, goal, e.hideGoal), nil
}

// CurrentTimeStep returns the current time step
func (e *Env) CurrentTimeStep() ts.TimeStep {
	return e.currentTimeStep
}

// LastReward returns the reward and auxiliary scores of the most
// recent step
func (e *Env) LastReward() Reward {
	return e.lastReward
}

// ObsDict returns the current observation along with the desired and
// achieved goals of the task.
func (e *Env) ObsDict() (ObsDict, error) {
	desired, err := e.task.Target()
	if err != nil {
		return ObsDict{}, fmt.Errorf("obsDict: %w", err)
	}
	achieved, err := e.task.AchievedGoal(e.sim)
	if err != nil {
		return ObsDict{}, fmt.Errorf("obsDict: %w", err)
	}

	return ObsDict{
		Observation:  mat.VecDenseCopyOf(e.currentTimeStep.Observation),
		DesiredGoal:  desired,
		AchievedGoal: achieved,
	}, nil
}

// ObservationSpec returns the observation specification of the
// environment
func (e *Env) ObservationSpec() environment.Spec {
	return environment.NewBoxSpec(ObsLen, environment.Observation,
		math.Inf(-1), math.Inf(1))
}

// ActionSpec returns the action specification of the environment
func (e *Env) ActionSpec() environment.Spec {
	return environment.NewBoxSpec(ActionLen, environment.Action, -1, 1)
}

// RewardSpec returns the reward specification of the environment
func (e *Env) RewardSpec() environment.Spec {
	return environment.NewBoxSpec(1, environment.Reward, 0, MaxReward)
}

// DiscountSpec returns the discount specification of the environment
func (e *Env) DiscountSpec() environment.Spec {
	return environment.NewBoxSpec(1, environment.Discount, e.discount,
		e.discount)
}
