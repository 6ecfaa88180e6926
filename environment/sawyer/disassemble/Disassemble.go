// Package disassemble implements the nut disassemble task for the
// Sawyer arm: the arm must grasp a wrench-shaped nut by its handle and
// lift it off of a peg.
package disassemble

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gometaworld/environment"
	"github.com/samuelfneumann/gometaworld/environment/sawyer"
	"github.com/samuelfneumann/gometaworld/utils/matutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// MaxPathLength is the default number of steps in an episode
	MaxPathLength int = 500

	// LiftThresh is how far above its resting height the nut must be
	// lifted
	LiftThresh float64 = 0.05

	// ObjInitAngle is the initial angle of the nut
	ObjInitAngle float64 = 0.3

	// minSampleDist is the minimum xy distance between the sampled nut
	// and goal positions when using random initializations
	minSampleDist float64 = 0.1
)

var (
	defaultTarget = r3.Vec{X: 0, Y: 0.8, Z: 0.17}
	defaultObjPos = r3.Vec{X: 0, Y: 0.7, Z: 0.025}
	handInit      = r3.Vec{X: 0, Y: 0.4, Z: 0.2}
	targetOffset  = r3.Vec{Z: 0.15}
	pegOffset     = r3.Vec{Z: 0.03}
	pegTopOffset  = r3.Vec{Z: 0.08}
	pegQuat       = quat.Number{Real: 1}
)

var handBounds = sawyer.Box{
	Low:  r3.Vec{X: -0.5, Y: 0.40, Z: 0.05},
	High: r3.Vec{X: 0.5, Y: 1, Z: 0.5},
}

// Bounds that random initializations are sampled from: the first three
// dimensions are the nut position, the last three a goal position.
// The nut's x bounds are given in reverse and are sampled as [0, 0.1].
var randomResetBounds = []r1.Interval{
	{Min: 0.1, Max: 0},
	{Min: 0.6, Max: 0.75},
	{Min: 0.025, Max: 0.02501},
	{Min: -0.1, Max: 0.1},
	{Min: 0.6, Max: 0.75},
	{Min: 0.1699, Max: 0.1701},
}

// Config is the configuration of an episode, fixed at reset
type Config struct {
	ObjInitPos     r3.Vec
	ObjInitAngle   float64
	HandInitPos    r3.Vec
	TargetPos      r3.Vec
	ObjHeight      float64
	HeightTarget   float64
	MaxPlacingDist float64
}

// Task implements the nut disassemble task. Task satisfies the
// sawyer.Task interface.
type Task struct {
	randomInit    bool
	maxPathLength int
	starter       environment.Starter
	cfg           *Config
}

// New returns a new disassemble Task. If randomInit is true, the nut
// and target positions are sampled on each reset using seed. If
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
	return "disassemble"
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

// Tools returns the props of the scene: the nut and the peg it rests
// on. Once the task has been reset, the peg stands upright under the
// episode's initial nut position.
func (t *Task) Tools() []sawyer.Tool {
	peg := sawyer.NewTool(sawyer.Peg).WithQuat(pegQuat)
	if t.cfg != nil {
		peg = peg.WithPos(r3.Add(t.cfg.ObjInitPos, pegOffset))
	}
	return []sawyer.Tool{sawyer.NewTool(sawyer.RoundNut), peg}
}

// Config returns the configuration of the current episode
func (t *Task) Config() (Config, error) {
	if t.cfg == nil {
		return Config{}, &sawyer.Error{Op: "config", Err: sawyer.ErrTaskNotSet}
	}
	return *t.cfg, nil
}

// Reset places the nut for a new episode and fixes the episode's
// configuration. The peg is placed through Tools.
func (t *Task) Reset(sim sawyer.Simulator) error {
	target, objPos := defaultTarget, defaultObjPos
	if t.randomInit {
		objPos = t.sample()
		target = r3.Add(objPos, targetOffset)
	}

	err := sim.SetSitePos(sawyer.PegTop, r3.Add(objPos, pegTopOffset))
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	if err := sawyer.SetObjectXYZ(sim, sawyer.RoundNut, objPos); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	handle, err := sim.SitePos(sawyer.RoundNutHandle)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	heightTarget := handle.Z + LiftThresh
	placing := r3.Vec{X: objPos.X, Y: objPos.Y, Z: heightTarget}

	t.cfg = &Config{
		ObjInitPos:     objPos,
		ObjInitAngle:   ObjInitAngle,
		HandInitPos:    handInit,
		TargetPos:      target,
		ObjHeight:      handle.Z,
		HeightTarget:   heightTarget,
		MaxPlacingDist: r3.Norm(r3.Sub(placing, target)) + heightTarget,
	}
	return nil
}

// sample samples an initial nut position, rejecting samples whose
// paired goal position is too close to the nut in the xy plane.
func (t *Task) sample() r3.Vec {
	for {
		s := t.starter.Start()
		obj, goal := matutils.R3At(s, 0), matutils.R3At(s, 3)
		if math.Hypot(obj.X-goal.X, obj.Y-goal.Y) >= minSampleDist {
			return obj
		}
	}
}

// Target returns the position the nut should be lifted to
func (t *Task) Target() (r3.Vec, error) {
	if t.cfg == nil {
		return r3.Vec{}, &sawyer.Error{Op: "target", Err: sawyer.ErrTaskNotSet}
	}
	return t.cfg.TargetPos, nil
}

// Objects returns the position of the wrench's handle and the
// orientation of the nut
func (t *Task) Objects(r sawyer.PoseReader) (r3.Vec, quat.Number, error) {
	pos, err := r.SitePos(sawyer.RoundNutHandle)
	if err != nil {
		return r3.Vec{}, quat.Number{}, fmt.Errorf("objects: %w", err)
	}
	q, err := sawyer.QuatOf(r, sawyer.RoundNut)
	if err != nil {
		return r3.Vec{}, quat.Number{}, fmt.Errorf("objects: %w", err)
	}
	return pos, q, nil
}

// AchievedGoal returns the position of the nut's body
func (t *Task) AchievedGoal(r sawyer.PoseReader) (r3.Vec, error) {
	return sawyer.PositionOf(r, sawyer.RoundNut)
}

// ComputeReward computes the reward for taking action and arriving at
// the observation obs, reading the centre of the nut through r.
func (t *Task) ComputeReward(action, obs mat.Vector,
	r sawyer.PoseReader) (sawyer.Reward, error) {
	if t.cfg == nil {
		return sawyer.Reward{}, &sawyer.Error{
			Op:  "computeReward",
			Err: sawyer.ErrTaskNotSet,
		}
	}

	center, err := r.SitePos(sawyer.RoundNutCenter)
	if err != nil {
		return sawyer.Reward{}, fmt.Errorf("computeReward: %w", err)
	}
	return Evaluate(*t.cfg, action, obs, center)
}
