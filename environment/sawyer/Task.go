package sawyer

import (
	"github.com/samuelfneumann/gometaworld/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// MaxReward is the reward given on a successful step
const MaxReward float64 = 10.0

// Task implements a manipulation task for the Sawyer arm: how the scene
// is initialized at the start of an episode and how each step is
// rewarded.
//
// A Task holds the configuration of the current episode, which is
// created by Reset and is read-only until the next call to Reset.
type Task interface {
	// Name returns the name of the task
	Name() string

	// MaxPathLength returns the number of steps in an episode
	MaxPathLength() int

	// HandInit returns the position the hand is moved to on reset
	HandInit() r3.Vec

	// HandBounds returns the box the hand's mocap target is kept in
	HandBounds() Box

	// Tools returns the props in the task's scene. After each Reset,
	// the environment moves every enabled tool with a specified pose
	// to that pose.
	Tools() []Tool

	// Reset samples a new episode configuration and places the props
	// of the scene in the simulation accordingly
	Reset(sim Simulator) error

	// Target returns the target position of the current episode
	Target() (r3.Vec, error)

	// Objects returns the pose of the task's main object
	Objects(r PoseReader) (r3.Vec, quat.Number, error)

	// AchievedGoal returns the position of the task's main object
	// used as the achieved goal
	AchievedGoal(r PoseReader) (r3.Vec, error)

	// ComputeReward returns the reward for taking action and arriving
	// at the observation obs. Simulator state that is not part of the
	// observation is read through r.
	ComputeReward(action, obs mat.Vector, r PoseReader) (Reward, error)
}

// Reward is the result of evaluating a task's reward on a step: the
// scalar reward, the auxiliary scores of the reward's stages, and
// whether the task was solved.
type Reward struct {
	Reward      float64
	Grasp       float64 // Grasp-effort score used in the reward
	NearObject  float64 // Readiness to manipulate the object
	InPlace     float64 // Progress of the object toward the target
	ObjToTarget float64
	Success     bool

	// GraspSuccess, when non-nil, overrides the grasp success
	// reported by Info
	GraspSuccess *bool
}

// Info returns the diagnostics record for r
func (r Reward) Info() timestep.Info {
	graspSuccess := r.Grasp >= 0.5
	if r.GraspSuccess != nil {
		graspSuccess = *r.GraspSuccess
	}

	return timestep.Info{
		Success:        r.Success,
		NearObject:     r.NearObject,
		GraspSuccess:   graspSuccess,
		GraspReward:    r.Grasp,
		InPlaceReward:  r.InPlace,
		ObjToTarget:    r.ObjToTarget,
		UnscaledReward: r.Reward,
	}
}
