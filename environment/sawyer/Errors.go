package sawyer

import "errors"

// Error implements errors returned by Sawyer environments and tasks.
type Error struct {
	Op  string
	Err error
}

// Error satisifes the error interface
func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error so that errors.Is can match the
// sentinel errors of this package.
func (e *Error) Unwrap() error {
	return e.Err
}

var (
	// ErrInvalidInput reports an action or observation of the wrong
	// length.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTaskNotSet reports that a task was used before it was reset
	// and so has no episode configuration.
	ErrTaskNotSet = errors.New("task configuration not set, reset first")

	// ErrPathLengthExceeded reports a step taken after the last step
	// of an episode.
	ErrPathLengthExceeded = errors.New("maximum path length exceeded")

	// ErrUnknownName reports a body, site, or joint name unknown to
	// the simulator.
	ErrUnknownName = errors.New("unknown name")
)

// newError returns a new *Error
func newError(op string, err error) error {
	return &Error{Op: op, Err: err}
}
