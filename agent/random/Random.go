// Package random implements an agent which selects actions uniformly
// at random and does not learn.
package random

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gometaworld/environment"
	"github.com/samuelfneumann/gometaworld/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Random selects each dimension of its actions uniformly at random
// from the bounds of an action Spec. Random satisfies the agent.Agent
// interface.
type Random struct {
	dims []distuv.Uniform
	seed uint64
}

// New returns a new Random agent selecting actions within the bounds
// of the action Spec actions. New returns an error if the Spec is not
// an action Spec or if any of its bounds are not finite.
func New(actions environment.Spec, seed uint64) (*Random, error) {
	if actions.Type != environment.Action {
		return nil, fmt.Errorf("new: cannot use %v specification for "+
			"actions", actions.Type)
	}

	source := rand.NewSource(seed)
	dims := make([]distuv.Uniform, actions.Shape.Len())
	for i := range dims {
		low, high := actions.LowerBound.AtVec(i), actions.UpperBound.AtVec(i)
		if math.IsInf(low, 0) || math.IsInf(high, 0) || low > high {
			return nil, fmt.Errorf("new: invalid bounds [%v, %v] for "+
				"action dimension %v", low, high, i)
		}
		dims[i] = distuv.Uniform{Min: low, Max: high, Src: source}
	}

	return &Random{dims: dims, seed: seed}, nil
}

// SelectAction returns a random action
func (r *Random) SelectAction(timestep.TimeStep) *mat.VecDense {
	action := make([]float64, len(r.dims))
	for i := range r.dims {
		action[i] = r.dims[i].Rand()
	}
	return mat.NewVecDense(len(action), action)
}

// Step does nothing, Random agents do not learn
func (r *Random) Step() error { return nil }

// Observe does nothing
func (r *Random) Observe(mat.Vector, timestep.TimeStep) error { return nil }

// ObserveFirst does nothing
func (r *Random) ObserveFirst(timestep.TimeStep) error { return nil }

// EndEpisode does nothing
func (r *Random) EndEpisode() {}
