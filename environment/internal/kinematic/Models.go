package kinematic

import (
	"math"

	"github.com/samuelfneumann/gometaworld/environment/sawyer"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// wrenchQuat lays the wrench flat with its handle along the y axis
var wrenchQuat = quat.Number{Real: math.Sqrt2 / 2, Kmag: math.Sqrt2 / 2}

// AddTool adds an enabled prop to the scene at its specified pose,
// the origin and identity orientation if it has none. Props which are
// not static get a free joint and can be grasped at their grasp site,
// falling back to their resting height when released.
func (s *Scene) AddTool(t sawyer.Tool, graspSite string) {
	if !t.Enabled {
		return
	}

	pos, _ := t.SpecifiedPos()
	q, ok := t.SpecifiedQuat()
	if !ok {
		q = identity
	}

	s.AddBody(t.Name(), pos, q)
	if !t.PosIsStatic() {
		s.AddFreeJoint(t.JointName(), t.Name())
		s.AddGraspable(t.Name(), graspSite, t.RestingPosZ())
	}
}

// NutDisassemble returns the scene of the nut disassemble task: a
// wrench-shaped round nut resting on a peg. The wrench is grasped by
// its handle, 0.1 from the nut's centre.
func NutDisassemble(hand r3.Vec) *Scene {
	s := NewScene(hand)

	nutPos := r3.Vec{X: 0, Y: 0.7, Z: sawyer.RoundNut.RestingPosZ()}
	nut := sawyer.NewTool(sawyer.RoundNut).WithPos(nutPos).WithQuat(wrenchQuat)
	s.AddSite(sawyer.RoundNutCenter, nut.Name(), r3.Vec{})
	s.AddSite(sawyer.RoundNutHandle, nut.Name(), r3.Vec{X: -0.1})
	s.AddTool(nut, sawyer.RoundNutHandle)

	peg := sawyer.NewTool(sawyer.Peg).WithPos(r3.Add(nutPos, r3.Vec{Z: 0.03}))
	s.AddTool(peg, "")
	s.AddSite(sawyer.PegTop, "", r3.Add(nutPos, r3.Vec{Z: 0.08}))

	return s
}

// Reach returns the scene of the reach task: a puck on the table and a
// goal marker.
func Reach(hand r3.Vec) *Scene {
	s := NewScene(hand)

	puck := sawyer.NewTool(sawyer.Puck).WithPos(
		r3.Vec{X: 0, Y: 0.6, Z: sawyer.Puck.RestingPosZ()})
	s.AddSite(puck.Name(), puck.Name(), r3.Vec{})
	s.AddTool(puck, puck.Name())
	s.AddSite(sawyer.GoalSite, "", r3.Vec{X: -0.1, Y: 0.8, Z: 0.2})

	return s
}
