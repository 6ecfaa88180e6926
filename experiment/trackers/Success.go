package trackers

import (
	"github.com/samuelfneumann/gometaworld/experiment/tracker"
	"github.com/samuelfneumann/gometaworld/timestep"
	"gonum.org/v1/gonum/floats"
)

// Success tracks whether the task was solved in each episode of an
// experiment. An episode counts as solved if any of its steps
// succeeded, and is saved as 1 if solved and 0 otherwise.
type Success struct {
	solved    bool
	successes []float64
	filename  string
}

// NewSuccess returns a new Success Tracker which will save its data at
// filename
func NewSuccess(filename string) *Success {
	return &Success{filename: filename}
}

// Track records whether the task was solved on t
func (s *Success) Track(t timestep.TimeStep) {
	if t.First() {
		s.solved = false
	}
	s.solved = s.solved || t.Info.Success

	if t.Last() {
		var v float64
		if s.solved {
			v = 1
		}
		s.successes = append(s.successes, v)
		s.solved = false
	}
}

// Rate returns the fraction of completed episodes which were solved
func (s *Success) Rate() float64 {
	if len(s.successes) == 0 {
		return 0
	}
	return floats.Sum(s.successes) / float64(len(s.successes))
}

// Save saves the data tracked by the Success Tracker to disk
func (s *Success) Save() error {
	return tracker.Save(s.filename, s.successes)
}
