package sawyer

import (
	"fmt"

	"github.com/samuelfneumann/gometaworld/utils/floatutils"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Names of the Sawyer robot's bodies and sites
const (
	Hand             string = "hand"
	RightPad         string = "rightpad"
	LeftPad          string = "leftpad"
	RightEndEffector string = "rightEndEffector"
	LeftEndEffector  string = "leftEndEffector"
)

// Names of the sites of props
const (
	RoundNutCenter string = "RoundNut"
	RoundNutHandle string = "RoundNut-8"
	PegTop         string = "pegTop"
	GoalSite       string = "goal"
)

// TCPCenter returns the tool centre point of the Sawyer gripper, the
// midpoint between its two end effector sites.
func TCPCenter(r PoseReader) (r3.Vec, error) {
	right, err := r.SitePos(RightEndEffector)
	if err != nil {
		return r3.Vec{}, fmt.Errorf("tcpCenter: %w", err)
	}
	left, err := r.SitePos(LeftEndEffector)
	if err != nil {
		return r3.Vec{}, fmt.Errorf("tcpCenter: %w", err)
	}
	return r3.Scale(0.5, r3.Add(right, left)), nil
}

// ToolKind enumerates the props that can appear in a Sawyer scene,
// other than the robot and the table.
type ToolKind int

const (
	RoundNut ToolKind = iota
	Peg
	Puck
)

var toolNames = map[ToolKind]string{
	RoundNut: "RoundNut",
	Peg:      "peg",
	Puck:     "obj",
}

// Name returns the name of the tool's body in the simulation
func (k ToolKind) Name() string {
	name, ok := toolNames[k]
	if !ok {
		panic(fmt.Sprintf("name: unknown tool kind %d", int(k)))
	}
	return name
}

// JointName returns the name of the tool's joint in the simulation
func (k ToolKind) JointName() string {
	return k.Name() + "Joint"
}

func (k ToolKind) String() string {
	return k.Name()
}

// PosIsStatic returns whether tools of this kind stay fixed in place
// over a trajectory.
func (k ToolKind) PosIsStatic() bool {
	return k == Peg
}

// RestingPosZ returns the height of the tool's body when it lies flat
// on the table
func (k ToolKind) RestingPosZ() float64 {
	switch k {
	case RoundNut:
		return 0.025
	case Puck:
		return 0.02
	default:
		return 0.0
	}
}

// Named is implemented by anything with a body in the simulation
type Named interface {
	Name() string
}

// HasPose is implemented by tools which may specify the pose they
// should be placed at.
type HasPose interface {
	Named
	SpecifiedPos() (r3.Vec, bool)
	SpecifiedQuat() (quat.Number, bool)
}

// Tool is a prop of a given kind, optionally with a specified pose.
// Tool satisfies HasPose.
type Tool struct {
	ToolKind
	Enabled bool

	pos     r3.Vec
	hasPos  bool
	quat    quat.Number
	hasQuat bool
}

// NewTool returns a new enabled Tool of kind k with no specified pose
func NewTool(k ToolKind) Tool {
	return Tool{ToolKind: k, Enabled: true}
}

// WithPos returns a copy of t with its position specified as pos
func (t Tool) WithPos(pos r3.Vec) Tool {
	t.pos, t.hasPos = pos, true
	return t
}

// WithQuat returns a copy of t with its orientation specified as q
func (t Tool) WithQuat(q quat.Number) Tool {
	t.quat, t.hasQuat = q, true
	return t
}

// SpecifiedPos returns the specified position of t and whether one
// was specified
func (t Tool) SpecifiedPos() (r3.Vec, bool) {
	return t.pos, t.hasPos
}

// SpecifiedQuat returns the specified orientation of t and whether one
// was specified
func (t Tool) SpecifiedQuat() (quat.Number, bool) {
	return t.quat, t.hasQuat
}

// PositionOf returns the position of a tool's body
func PositionOf(r PoseReader, t Named) (r3.Vec, error) {
	return r.BodyPos(t.Name())
}

// SetPositionOf moves a tool's body to its specified position
func SetPositionOf(w PoseWriter, t HasPose) error {
	pos, ok := t.SpecifiedPos()
	if !ok {
		return newError("setPositionOf", fmt.Errorf("%w: %v has no "+
			"specified position", ErrInvalidInput, t.Name()))
	}
	return w.SetBodyPos(t.Name(), pos)
}

// QuatOf returns the orientation of a tool's body
func QuatOf(r PoseReader, t Named) (quat.Number, error) {
	return r.BodyQuat(t.Name())
}

// SetQuatOf rotates a tool's body to its specified orientation
func SetQuatOf(w PoseWriter, t HasPose) error {
	q, ok := t.SpecifiedQuat()
	if !ok {
		return newError("setQuatOf", fmt.Errorf("%w: %v has no "+
			"specified orientation", ErrInvalidInput, t.Name()))
	}
	return w.SetBodyQuat(t.Name(), q)
}

// JointPosOf returns the joint positions of a tool's joint
func JointPosOf(r PoseReader, k ToolKind) ([]float64, error) {
	return r.JointQPos(k.JointName())
}

// SetJointPosOf sets the joint positions of a tool's joint
func SetJointPosOf(w PoseWriter, k ToolKind, qpos []float64) error {
	return w.SetJointQPos(k.JointName(), qpos)
}

// JointVelOf returns the joint velocities of a tool's joint
func JointVelOf(r PoseReader, k ToolKind) ([]float64, error) {
	return r.JointQVel(k.JointName())
}

// SetJointVelOf sets the joint velocities of a tool's joint
func SetJointVelOf(w PoseWriter, k ToolKind, qvel []float64) error {
	return w.SetJointQVel(k.JointName(), qvel)
}

// SetObjectXYZ places the free joint of a tool at pos, keeping its
// orientation, and brings it to rest.
func SetObjectXYZ(sim interface {
	PoseReader
	PoseWriter
}, k ToolKind, pos r3.Vec) error {
	qpos, err := JointPosOf(sim, k)
	if err != nil {
		return fmt.Errorf("setObjectXYZ: %w", err)
	}
	if len(qpos) < 3 {
		return newError("setObjectXYZ", fmt.Errorf("%w: joint %v is not "+
			"a free joint", ErrInvalidInput, k.JointName()))
	}
	qpos[0], qpos[1], qpos[2] = pos.X, pos.Y, pos.Z
	if err := SetJointPosOf(sim, k, qpos); err != nil {
		return fmt.Errorf("setObjectXYZ: %w", err)
	}

	qvel, err := JointVelOf(sim, k)
	if err != nil {
		return fmt.Errorf("setObjectXYZ: %w", err)
	}
	for i := range qvel {
		qvel[i] = 0
	}
	if err := SetJointVelOf(sim, k, qvel); err != nil {
		return fmt.Errorf("setObjectXYZ: %w", err)
	}
	return nil
}

// Box is an axis-aligned box
type Box struct {
	Low, High r3.Vec
}

// Clip returns the point of b closest to p
func (b Box) Clip(p r3.Vec) r3.Vec {
	return r3.Vec{
		X: floatutils.Clip(p.X, b.Low.X, b.High.X),
		Y: floatutils.Clip(p.Y, b.Low.Y, b.High.Y),
		Z: floatutils.Clip(p.Z, b.Low.Z, b.High.Z),
	}
}
