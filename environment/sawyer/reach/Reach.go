// Package reach implements the reach task for the Sawyer arm: the arm
// must move its hand to a goal position.
package reach

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gometaworld/environment"
	"github.com/samuelfneumann/gometaworld/environment/sawyer"
	"github.com/samuelfneumann/gometaworld/reward"
	"github.com/samuelfneumann/gometaworld/utils/matutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// MaxPathLength is the default number of steps in an episode
	MaxPathLength int = 500

	// TargetRadius is the distance from the goal within which the
	// hand has reached it
	TargetRadius float64 = 0.05

	minSampleDist float64 = 0.15
)

var (
	defaultTarget = r3.Vec{X: -0.1, Y: 0.8, Z: 0.2}
	defaultObjPos = r3.Vec{X: 0, Y: 0.6, Z: 0.02}
	handInit      = r3.Vec{X: 0, Y: 0.6, Z: 0.2}
)

var handBounds = sawyer.Box{
	Low:  r3.Vec{X: -0.5, Y: 0.40, Z: 0.05},
	High: r3.Vec{X: 0.5, Y: 1, Z: 0.5},
}

var randomResetBounds = []r1.Interval{
	{Min: -0.1, Max: 0.1},
	{Min: 0.6, Max: 0.7},
	{Min: 0.02, Max: 0.02},
	{Min: -0.1, Max: 0.1},
	{Min: 0.8, Max: 0.9},
	{Min: 0.05, Max: 0.3},
}

// Config is the configuration of an episode, fixed at reset
type Config struct {
	ObjInitPos  r3.Vec
	HandInitPos r3.Vec
	TargetPos   r3.Vec
}

// Task implements the reach task. Task satisfies the sawyer.Task
// interface.
type Task struct {
	randomInit    bool
	maxPathLength int
	starter       environment.Starter
	cfg           *Config
}

// New returns a new reach Task. If randomInit is true, the puck and
// goal positions are sampled on each reset using seed. If
// maxPathLength <= 0, MaxPathLength is used.
func New(maxPathLength int, randomInit bool, seed uint64) *Task {
	if maxPathLength <= 0 {
		maxPathLength = MaxPathLength
	}

	return &Task{
		randomInit:    randomInit,
		maxPathLength: maxPathLength,
		starter:       environment.NewUniformStarter(randomResetBounds, seed),
	}
}

// Name returns the name of the task
func (t *Task) Name() string {
	return "reach"
}

// MaxPathLength returns the number of steps in an episode
func (t *Task) MaxPathLength() int {
	return t.maxPathLength
}

// HandInit returns the position of the hand at the start of an episode
func (t *Task) HandInit() r3.Vec {
	return handInit
}

// HandBounds returns the bounds of the hand's mocap target
func (t *Task) HandBounds() sawyer.Box {
	return handBounds
}

// Tools returns the props of the scene
func (t *Task) Tools() []sawyer.Tool {
	return []sawyer.Tool{sawyer.NewTool(sawyer.Puck)}
}

// Config returns the configuration of the current episode
func (t *Task) Config() (Config, error) {
	if t.cfg == nil {
		return Config{}, &sawyer.Error{Op: "config", Err: sawyer.ErrTaskNotSet}
	}
	return *t.cfg, nil
}

// Reset places the puck and goal for a new episode
func (t *Task) Reset(sim sawyer.Simulator) error {
	target, objPos := defaultTarget, defaultObjPos
	if t.randomInit {
		for {
			s := t.starter.Start()
			objPos, target = matutils.R3At(s, 0), matutils.R3At(s, 3)
			if math.Hypot(target.X-objPos.X, target.Y-objPos.Y) >=
				minSampleDist {
				break
			}
		}
	}

	if err := sim.SetSitePos(sawyer.GoalSite, target); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	if err := sawyer.SetObjectXYZ(sim, sawyer.Puck, objPos); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	t.cfg = &Config{
		ObjInitPos:  objPos,
		HandInitPos: handInit,
		TargetPos:   target,
	}
	return nil
}

// Target returns the goal position of the hand
func (t *Task) Target() (r3.Vec, error) {
	if t.cfg == nil {
		return r3.Vec{}, &sawyer.Error{Op: "target", Err: sawyer.ErrTaskNotSet}
	}
	return t.cfg.TargetPos, nil
}

// Objects returns the pose of the puck
func (t *Task) Objects(r sawyer.PoseReader) (r3.Vec, quat.Number, error) {
	pos, err := sawyer.PositionOf(r, sawyer.Puck)
	if err != nil {
		return r3.Vec{}, quat.Number{}, fmt.Errorf("objects: %w", err)
	}
	q, err := sawyer.QuatOf(r, sawyer.Puck)
	if err != nil {
		return r3.Vec{}, quat.Number{}, fmt.Errorf("objects: %w", err)
	}
	return pos, q, nil
}

// AchievedGoal returns the position of the hand
func (t *Task) AchievedGoal(r sawyer.PoseReader) (r3.Vec, error) {
	return sawyer.TCPCenter(r)
}

// ComputeReward computes the reward for taking action and arriving at
// the observation obs
func (t *Task) ComputeReward(action, obs mat.Vector,
	_ sawyer.PoseReader) (sawyer.Reward, error) {
	if t.cfg == nil {
		return sawyer.Reward{}, &sawyer.Error{
			Op:  "computeReward",
			Err: sawyer.ErrTaskNotSet,
		}
	}
	return Evaluate(*t.cfg, action, obs)
}

// Evaluate computes the reward of a step of the reach task. The reward
// decays with the distance of the hand to the target, with a margin of
// the distance from the initial hand position to the target.
func Evaluate(cfg Config, action, obs mat.Vector) (sawyer.Reward, error) {
	if err := sawyer.CheckAction("evaluate", action); err != nil {
		return sawyer.Reward{}, err
	}
	if err := sawyer.CheckObservation("evaluate", obs); err != nil {
		return sawyer.Reward{}, err
	}

	dist := r3.Norm(r3.Sub(sawyer.HandPos(obs), cfg.TargetPos))
	margin := r3.Norm(r3.Sub(cfg.HandInitPos, cfg.TargetPos))
	inPlace := reward.Tolerance(dist, r1.Interval{Min: 0, Max: TargetRadius},
		margin, reward.LongTail)

	graspSuccess := true
	return sawyer.Reward{
		Reward:       sawyer.MaxReward * inPlace,
		Grasp:        dist,
		NearObject:   dist,
		InPlace:      inPlace,
		ObjToTarget:  dist,
		Success:      dist <= TargetRadius,
		GraspSuccess: &graspSuccess,
	}, nil
}
