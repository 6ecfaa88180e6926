package sawyer

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// PoseReader queries the current state of named bodies, sites, and
// joints in a simulation.
type PoseReader interface {
	BodyPos(name string) (r3.Vec, error)
	BodyQuat(name string) (quat.Number, error)
	SitePos(name string) (r3.Vec, error)
	JointQPos(name string) ([]float64, error)
	JointQVel(name string) ([]float64, error)
}

// PoseWriter sets the pose of named bodies, sites, and joints in a
// simulation.
type PoseWriter interface {
	SetBodyPos(name string, pos r3.Vec) error
	SetBodyQuat(name string, q quat.Number) error
	SetSitePos(name string, pos r3.Vec) error
	SetJointQPos(name string, qpos []float64) error
	SetJointQVel(name string, qvel []float64) error
}

// Actuator advances a simulation. The Sawyer hand is driven through a
// mocap target, and the gripper through the control vector passed to
// DoSimulation.
type Actuator interface {
	Reset() error
	MocapPos() r3.Vec
	SetMocap(pos r3.Vec, q quat.Number) error
	DoSimulation(ctrl []float64, nFrames int) error
}

// Simulator is the full set of capabilities a Sawyer environment needs
// from a physics simulation. A Simulator is always passed explicitly;
// nothing in this package holds a global simulation handle.
type Simulator interface {
	PoseReader
	PoseWriter
	Actuator
}
