package sawyer

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gometaworld/utils/floatutils"
	"github.com/samuelfneumann/gometaworld/utils/matutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Observation layout. Observations are positional; consumers index
// them with these offsets.
//
//	[0:3]	hand (TCP centre) position
//	[3]		gripper opening in [0, 1]
//	[4:7]	object position
//	[7:11]	object quaternion (w, x, y, z)
//	[11:18]	second object slot, zero padded
//	[18:36]	the above 18 values from the previous step
//	[36:39]	goal position, zero if the goal is hidden
const (
	HandIdx     int = 0
	GripperIdx  int = 3
	ObjPosIdx   int = 4
	ObjQuatIdx  int = 7
	PrevIdx     int = 18
	GoalIdx     int = 36
	FrameLen    int = 18
	ObsLen      int = 39
	ActionLen   int = 4
	GripperChan int = 3
)

// Gripper pads further apart than this read as a fully open gripper.
const maxPadDistance float64 = 0.1

// HandPos returns the hand position of an observation
func HandPos(obs mat.Vector) r3.Vec {
	return matutils.R3At(obs, HandIdx)
}

// GripperOpening returns the gripper opening of an observation
func GripperOpening(obs mat.Vector) float64 {
	return obs.AtVec(GripperIdx)
}

// ObjPos returns the object position of an observation
func ObjPos(obs mat.Vector) r3.Vec {
	return matutils.R3At(obs, ObjPosIdx)
}

// ObjQuat returns the object orientation of an observation
func ObjQuat(obs mat.Vector) quat.Number {
	return quat.Number{
		Real: obs.AtVec(ObjQuatIdx),
		Imag: obs.AtVec(ObjQuatIdx + 1),
		Jmag: obs.AtVec(ObjQuatIdx + 2),
		Kmag: obs.AtVec(ObjQuatIdx + 3),
	}
}

// GoalPos returns the goal position of an observation
func GoalPos(obs mat.Vector) r3.Vec {
	return matutils.R3At(obs, GoalIdx)
}

// ObsDict holds an observation together with the desired and achieved
// goals of the task.
type ObsDict struct {
	Observation  *mat.VecDense
	DesiredGoal  r3.Vec
	AchievedGoal r3.Vec
}

// CheckObservation returns an ErrInvalidInput error if obs does not
// have the length of a Sawyer observation or holds a NaN or infinite
// value.
func CheckObservation(op string, obs mat.Vector) error {
	if obs == nil || obs.Len() != ObsLen {
		n := 0
		if obs != nil {
			n = obs.Len()
		}
		return newError(op, fmt.Errorf("%w: observation length \n\t"+
			"have(%v) \n\twant(%v)", ErrInvalidInput, n, ObsLen))
	}
	return checkFinite(op, "observation", obs)
}

// CheckAction returns an ErrInvalidInput error if action does not
// have the length of a Sawyer action or holds a NaN or infinite value.
func CheckAction(op string, action mat.Vector) error {
	if action == nil || action.Len() != ActionLen {
		n := 0
		if action != nil {
			n = action.Len()
		}
		return newError(op, fmt.Errorf("%w: action length \n\t"+
			"have(%v) \n\twant(%v)", ErrInvalidInput, n, ActionLen))
	}
	return checkFinite(op, "action", action)
}

func checkFinite(op, what string, v mat.Vector) error {
	for i := 0; i < v.Len(); i++ {
		if x := v.AtVec(i); math.IsNaN(x) || math.IsInf(x, 0) {
			return newError(op, fmt.Errorf("%w: %v[%v] is %v",
				ErrInvalidInput, what, i, x))
		}
	}
	return nil
}

// currentFrame reads the hand, gripper, and object state of a
// simulation into an 18-value frame.
func currentFrame(r PoseReader, task Task) ([]float64, error) {
	hand, err := TCPCenter(r)
	if err != nil {
		return nil, fmt.Errorf("currentFrame: %w", err)
	}

	right, err := r.BodyPos(RightPad)
	if err != nil {
		return nil, fmt.Errorf("currentFrame: %w", err)
	}
	left, err := r.BodyPos(LeftPad)
	if err != nil {
		return nil, fmt.Errorf("currentFrame: %w", err)
	}
	opening := floatutils.Clip(r3.Norm(r3.Sub(right, left))/maxPadDistance,
		0, 1)

	objPos, objQuat, err := task.Objects(r)
	if err != nil {
		return nil, fmt.Errorf("currentFrame: %w", err)
	}

	frame := make([]float64, FrameLen)
	matutils.PutR3(frame, HandIdx, hand)
	frame[GripperIdx] = opening
	matutils.PutR3(frame, ObjPosIdx, objPos)
	frame[ObjQuatIdx] = objQuat.Real
	frame[ObjQuatIdx+1] = objQuat.Imag
	frame[ObjQuatIdx+2] = objQuat.Jmag
	frame[ObjQuatIdx+3] = objQuat.Kmag

	return frame, nil
}

// buildObservation stacks the current frame, the previous frame, and
// the goal into an observation vector.
func buildObservation(frame, prev []float64, goal r3.Vec,
	hideGoal bool) *mat.VecDense {
	obs := make([]float64, ObsLen)
	copy(obs[:FrameLen], frame)
	copy(obs[PrevIdx:PrevIdx+FrameLen], prev)
	if !hideGoal {
		matutils.PutR3(obs, GoalIdx, goal)
	}
	return mat.NewVecDense(ObsLen, obs)
}
