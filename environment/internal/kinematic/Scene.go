// Package kinematic implements a small kinematic simulation of a Sawyer
// arm and the props of its tasks. It implements sawyer.Simulator
// without any contact or dynamics: the hand follows its mocap target
// exactly, the gripper opens and closes at a fixed rate, a prop is
// carried with the hand while the gripper closes on it, and dropped
// props fall back to their resting height.
//
// Scenes are deterministic and are meant as a stand-in for a physics
// engine when exercising the reset/step lifecycle of environments.
package kinematic

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gometaworld/environment/sawyer"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// Timestep is the simulated time of one frame
	Timestep float64 = 0.0025

	// MaxOpening is the distance between the pads of an open gripper
	MaxOpening float64 = 0.1

	// GraspRadius is the largest distance between the tool centre point
	// and a grasp site at which the gripper can grab a prop
	GraspRadius float64 = 0.035

	padSpeed  float64 = 0.005 // per frame
	fallSpeed float64 = 0.01  // per frame
)

var identity = quat.Number{Real: 1}

type body struct {
	pos  r3.Vec
	quat quat.Number
	vel  [6]float64 // rotational then translational
}

type site struct {
	parent string // empty for sites fixed in the world
	offset r3.Vec
}

type graspable struct {
	body  string
	site  string
	restZ float64
}

// Scene is a kinematic simulation. Scene satisfies sawyer.Simulator.
type Scene struct {
	bodies     map[string]*body
	sites      map[string]*site
	joints     map[string]string // free joint name -> body name
	graspables []graspable

	mocap     r3.Vec
	mocapQuat quat.Number
	opening   float64
	held      string

	initBodies map[string]body
	initSites  map[string]site
	initMocap  r3.Vec
}

// NewScene returns a scene holding only a Sawyer gripper with its hand
// at hand and the gripper open.
func NewScene(hand r3.Vec) *Scene {
	s := &Scene{
		bodies:    make(map[string]*body),
		sites:     make(map[string]*site),
		joints:    make(map[string]string),
		mocap:     hand,
		mocapQuat: identity,
		opening:   MaxOpening,
	}

	s.AddBody(sawyer.Hand, hand, identity)
	s.AddBody(sawyer.RightPad, hand, identity)
	s.AddBody(sawyer.LeftPad, hand, identity)
	s.AddSite(sawyer.RightEndEffector, sawyer.RightPad, r3.Vec{})
	s.AddSite(sawyer.LeftEndEffector, sawyer.LeftPad, r3.Vec{})
	s.updatePads()

	s.initMocap = hand
	s.snapshot()
	return s
}

// AddBody adds a body to the scene
func (s *Scene) AddBody(name string, pos r3.Vec, q quat.Number) {
	s.bodies[name] = &body{pos: pos, quat: q}
	s.snapshot()
}

// AddSite adds a site to the scene at offset in the frame of the body
// parent. If parent is empty, the site is fixed in the world at offset.
func (s *Scene) AddSite(name, parent string, offset r3.Vec) {
	s.sites[name] = &site{parent: parent, offset: offset}
	s.snapshot()
}

// AddFreeJoint attaches a free joint called name to a body
func (s *Scene) AddFreeJoint(name, body string) {
	s.joints[name] = body
}

// AddGraspable marks a body as a prop which can be carried by the
// gripper when it closes near grasp site, and which falls back to
// height restZ when released.
func (s *Scene) AddGraspable(body, site string, restZ float64) {
	s.graspables = append(s.graspables, graspable{body, site, restZ})
}

// snapshot records the current state as the state restored by Reset
func (s *Scene) snapshot() {
	s.initBodies = make(map[string]body, len(s.bodies))
	for name, b := range s.bodies {
		s.initBodies[name] = *b
	}
	s.initSites = make(map[string]site, len(s.sites))
	for name, st := range s.sites {
		s.initSites[name] = *st
	}
}

// Held returns the name of the body carried by the gripper, or the
// empty string if nothing is held.
func (s *Scene) Held() string {
	return s.held
}

// Reset restores the scene to the state it was built in
func (s *Scene) Reset() error {
	for name, b := range s.initBodies {
		restored := b
		s.bodies[name] = &restored
	}
	for name, st := range s.initSites {
		restored := st
		s.sites[name] = &restored
	}
	s.mocap = s.initMocap
	s.mocapQuat = identity
	s.opening = MaxOpening
	s.held = ""
	s.updatePads()
	return nil
}

// MocapPos returns the position of the hand's mocap target
func (s *Scene) MocapPos() r3.Vec {
	return s.mocap
}

// SetMocap sets the hand's mocap target
func (s *Scene) SetMocap(pos r3.Vec, q quat.Number) error {
	s.mocap = pos
	s.mocapQuat = q
	return nil
}

// DoSimulation advances the scene by nFrames frames. The control vector
// holds the two gripper pad controls; the gripper closes when the
// first is positive.
func (s *Scene) DoSimulation(ctrl []float64, nFrames int) error {
	if len(ctrl) != 2 {
		return &sawyer.Error{Op: "doSimulation", Err: fmt.Errorf(
			"%w: invalid control dimensions \n\thave(%v) \n\twant(%v)",
			sawyer.ErrInvalidInput, len(ctrl), 2)}
	}
	if nFrames < 0 {
		return &sawyer.Error{Op: "doSimulation", Err: fmt.Errorf(
			"%w: negative frame count %v", sawyer.ErrInvalidInput, nFrames)}
	}

	closing := ctrl[0] > 0
	target := MaxOpening * (1 - (math.Max(-1, math.Min(1, ctrl[0]))+1)/2)

	before := make(map[string]r3.Vec, len(s.bodies))
	for name, b := range s.bodies {
		before[name] = b.pos
	}

	for i := 0; i < nFrames; i++ {
		s.frame(closing, target)
	}

	if nFrames > 0 {
		dt := Timestep * float64(nFrames)
		for name, b := range s.bodies {
			v := r3.Scale(1/dt, r3.Sub(b.pos, before[name]))
			b.vel = [6]float64{0, 0, 0, v.X, v.Y, v.Z}
		}
	}
	return nil
}

// frame advances the scene by a single frame
func (s *Scene) frame(closing bool, targetOpening float64) {
	hand := s.bodies[sawyer.Hand]
	delta := r3.Sub(s.mocap, hand.pos)
	hand.pos = s.mocap
	hand.quat = s.mocapQuat

	step := math.Max(-padSpeed, math.Min(padSpeed, targetOpening-s.opening))
	s.opening += step

	if s.held != "" && !closing {
		s.held = ""
	}
	if s.held == "" && closing {
		tcp := hand.pos
		for _, g := range s.graspables {
			p, err := s.SitePos(g.site)
			if err != nil {
				continue
			}
			if r3.Norm(r3.Sub(p, tcp)) <= GraspRadius {
				s.held = g.body
				break
			}
		}
	}

	for _, g := range s.graspables {
		b := s.bodies[g.body]
		if g.body == s.held {
			b.pos = r3.Add(b.pos, delta)
		} else if b.pos.Z > g.restZ {
			b.pos.Z = math.Max(g.restZ, b.pos.Z-fallSpeed)
		}
	}

	s.updatePads()
}

// updatePads places the gripper pads either side of the hand
func (s *Scene) updatePads() {
	hand := s.bodies[sawyer.Hand].pos
	half := r3.Vec{X: s.opening / 2}
	s.bodies[sawyer.RightPad].pos = r3.Add(hand, half)
	s.bodies[sawyer.LeftPad].pos = r3.Sub(hand, half)
}

// rotate rotates v by the orientation q
func rotate(q quat.Number, v r3.Vec) r3.Vec {
	q = quat.Scale(1/quat.Abs(q), q)
	p := quat.Mul(quat.Mul(q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}),
		quat.Conj(q))
	return r3.Vec{X: p.Imag, Y: p.Jmag, Z: p.Kmag}
}

func unknown(op, kind, name string) error {
	return &sawyer.Error{Op: op, Err: fmt.Errorf("%w: %v %q",
		sawyer.ErrUnknownName, kind, name)}
}

// BodyPos returns the position of a body
func (s *Scene) BodyPos(name string) (r3.Vec, error) {
	b, ok := s.bodies[name]
	if !ok {
		return r3.Vec{}, unknown("bodyPos", "body", name)
	}
	return b.pos, nil
}

// BodyQuat returns the orientation of a body
func (s *Scene) BodyQuat(name string) (quat.Number, error) {
	b, ok := s.bodies[name]
	if !ok {
		return quat.Number{}, unknown("bodyQuat", "body", name)
	}
	return b.quat, nil
}

// SitePos returns the world position of a site
func (s *Scene) SitePos(name string) (r3.Vec, error) {
	st, ok := s.sites[name]
	if !ok {
		return r3.Vec{}, unknown("sitePos", "site", name)
	}
	if st.parent == "" {
		return st.offset, nil
	}
	b, ok := s.bodies[st.parent]
	if !ok {
		return r3.Vec{}, unknown("sitePos", "body", st.parent)
	}
	return r3.Add(b.pos, rotate(b.quat, st.offset)), nil
}

// SetBodyPos moves a body
func (s *Scene) SetBodyPos(name string, pos r3.Vec) error {
	b, ok := s.bodies[name]
	if !ok {
		return unknown("setBodyPos", "body", name)
	}
	b.pos = pos
	return nil
}

// SetBodyQuat rotates a body
func (s *Scene) SetBodyQuat(name string, q quat.Number) error {
	b, ok := s.bodies[name]
	if !ok {
		return unknown("setBodyQuat", "body", name)
	}
	b.quat = q
	return nil
}

// SetSitePos moves a site to the world position pos. Sites attached to
// a body keep moving with that body afterwards.
func (s *Scene) SetSitePos(name string, pos r3.Vec) error {
	st, ok := s.sites[name]
	if !ok {
		return unknown("setSitePos", "site", name)
	}
	if st.parent == "" {
		st.offset = pos
		return nil
	}
	b := s.bodies[st.parent]
	st.offset = rotate(quat.Conj(b.quat), r3.Sub(pos, b.pos))
	return nil
}

// JointQPos returns the position of a free joint as its body's
// position followed by its orientation (w, x, y, z)
func (s *Scene) JointQPos(name string) ([]float64, error) {
	bodyName, ok := s.joints[name]
	if !ok {
		return nil, unknown("jointQPos", "joint", name)
	}
	b := s.bodies[bodyName]
	return []float64{
		b.pos.X, b.pos.Y, b.pos.Z,
		b.quat.Real, b.quat.Imag, b.quat.Jmag, b.quat.Kmag,
	}, nil
}

// JointQVel returns the velocity of a free joint, translational
// components first
func (s *Scene) JointQVel(name string) ([]float64, error) {
	bodyName, ok := s.joints[name]
	if !ok {
		return nil, unknown("jointQVel", "joint", name)
	}
	v := s.bodies[bodyName].vel
	return []float64{v[3], v[4], v[5], v[0], v[1], v[2]}, nil
}

// SetJointQPos sets the position of a free joint
func (s *Scene) SetJointQPos(name string, qpos []float64) error {
	bodyName, ok := s.joints[name]
	if !ok {
		return unknown("setJointQPos", "joint", name)
	}
	if len(qpos) != 7 {
		return &sawyer.Error{Op: "setJointQPos", Err: fmt.Errorf(
			"%w: invalid position dimensions \n\thave(%v) \n\twant(%v)",
			sawyer.ErrInvalidInput, len(qpos), 7)}
	}
	b := s.bodies[bodyName]
	b.pos = r3.Vec{X: qpos[0], Y: qpos[1], Z: qpos[2]}
	b.quat = quat.Number{Real: qpos[3], Imag: qpos[4], Jmag: qpos[5],
		Kmag: qpos[6]}
	if s.held == bodyName {
		s.held = ""
	}
	return nil
}

// SetJointQVel sets the velocity of a free joint
func (s *Scene) SetJointQVel(name string, qvel []float64) error {
	bodyName, ok := s.joints[name]
	if !ok {
		return unknown("setJointQVel", "joint", name)
	}
	if len(qvel) != 6 {
		return &sawyer.Error{Op: "setJointQVel", Err: fmt.Errorf(
			"%w: invalid velocity dimensions \n\thave(%v) \n\twant(%v)",
			sawyer.ErrInvalidInput, len(qvel), 6)}
	}
	s.bodies[bodyName].vel = [6]float64{
		qvel[3], qvel[4], qvel[5], qvel[0], qvel[1], qvel[2],
	}
	return nil
}
