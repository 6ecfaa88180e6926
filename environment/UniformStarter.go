package environment

import (
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gometaworld/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// UniformStarter samples starting states uniformly from a box. Bounds
// given with Min > Max are treated as [Max, Min].
type UniformStarter struct {
	features int
	seed     uint64
	rand     *distmv.Uniform
}

// NewUniformStarter returns a new UniformStarter sampling dimension i
// of starting states uniformly from bounds[i].
func NewUniformStarter(bounds []r1.Interval, seed uint64) *UniformStarter {
	ordered := make([]r1.Interval, len(bounds))
	for i := range bounds {
		ordered[i] = floatutils.Ordered(bounds[i])
	}

	source := rand.NewSource(seed)
	rand := distmv.NewUniform(ordered, source)

	return &UniformStarter{len(bounds), seed, rand}
}

// Start returns a starting state vector
func (u *UniformStarter) Start() *mat.VecDense {
	return mat.NewVecDense(u.features, u.rand.Rand(nil))
}

// Bounds returns the (ordered) bounds that starting states are
// sampled from.
func (u *UniformStarter) Bounds() []r1.Interval {
	return u.rand.Bounds(nil)
}
