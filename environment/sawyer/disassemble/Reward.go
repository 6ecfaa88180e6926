package disassemble

import (
	"math"

	"github.com/samuelfneumann/gometaworld/environment/sawyer"
	"github.com/samuelfneumann/gometaworld/reward"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// HandleWidth is the width of the wrench's handle
	HandleWidth float64 = 0.04

	// ReadyThreshold is the readiness above which the grab-effort
	// stage switches to rewarding a release of the grip
	ReadyThreshold float64 = 0.9

	floorThreshold float64 = 0.02
	quatScale      float64 = 0.2
	liftedHeight   float64 = 0.04

	// pegClearance is how far above the target the wrench's centre must
	// rise to be clear of the peg
	pegClearance float64 = 0.05

	// Relative importance of trying to lift the wrench and of lifting
	// it past the top of the peg
	tryLiftWeight float64 = 0.2
	pastPegWeight float64 = 0.8
	graspWeight   float64 = 2
	liftedWeight  float64 = 8
)

// IdealQuat is the orientation of a wrench laid flat
var IdealQuat = quat.Number{Real: 0.707, Kmag: 0.707}

// Evaluate computes the reward of a step of the disassemble task from
// the action taken, the observation arrived at, and the centre of the
// wrench. Evaluate returns an ErrInvalidInput error if action or obs
// have the wrong length.
func Evaluate(cfg Config, action, obs mat.Vector,
	wrenchCenter r3.Vec) (sawyer.Reward, error) {
	if err := sawyer.CheckAction("evaluate", action); err != nil {
		return sawyer.Reward{}, err
	}
	if err := sawyer.CheckObservation("evaluate", obs); err != nil {
		return sawyer.Reward{}, err
	}

	grab := reward.GrabEffort(action.AtVec(sawyer.GripperChan))
	orientation := reward.QuatClamp(sawyer.ObjQuat(obs), IdealQuat, quatScale)

	hand, wrench := sawyer.HandPos(obs), sawyer.ObjPos(obs)
	ready := Readiness(hand, wrench)
	lifted := Lifted(wrench, wrenchCenter, cfg.TargetPos)

	grab = reward.ReshapeGrab(grab, ready, ReadyThreshold)
	r := graspWeight*reward.HamacherProduct(grab, ready) +
		liftedWeight*lifted

	success := wrenchCenter.Z > cfg.TargetPos.Z
	if success {
		r = sawyer.MaxReward
	}
	r *= orientation

	return sawyer.Reward{
		Reward:     r,
		Grasp:      grab,
		NearObject: ready,
		InPlace:    lifted,
		Success:    success,
	}, nil
}

// Readiness scores how ready the hand is to lift the wrench by its
// handle. The hand is kept above a floor stretching across the handle
// until it is aligned with the handle, and any offset along the handle
// which is smaller than half the handle's width is ignored.
func Readiness(hand, wrench r3.Vec) float64 {
	floor := reward.Floor(math.Abs(hand.Y-wrench.Y), floorThreshold)
	aboveFloor := reward.AboveFloor(hand.Z, floor)

	posErr := r3.Sub(hand, wrench)
	if posErr.X <= HandleWidth/2 {
		posErr.X = 0
	}
	inPlace := reward.Tolerance(r3.Norm(posErr),
		r1.Interval{Min: 0, Max: 0.02}, 0.5, reward.LongTail)

	return reward.HamacherProduct(aboveFloor, inPlace)
}

// Lifted scores the progress of lifting the wrench off of the peg
// toward the target.
func Lifted(wrench, wrenchCenter, target r3.Vec) float64 {
	var tried float64
	if wrench.Z > liftedHeight {
		tried = 1
	}

	errZ := target.Z + pegClearance - wrenchCenter.Z
	pastPeg := reward.Tolerance(math.Max(0, errZ),
		r1.Interval{Min: 0, Max: 0.02}, 0.1, reward.LongTail)

	return tryLiftWeight*tried + pastPegWeight*pastPeg
}
