// Package envconfig provides configuration structs for configuring
// environments with default physical parameters and tasks. Environment
// configurations in this package are JSON serializable.
package envconfig

import (
	"encoding/json"
	"fmt"
	"os"

	env "github.com/samuelfneumann/gometaworld/environment"
	"github.com/samuelfneumann/gometaworld/environment/internal/kinematic"
	"github.com/samuelfneumann/gometaworld/environment/sawyer"
	"github.com/samuelfneumann/gometaworld/environment/sawyer/disassemble"
	"github.com/samuelfneumann/gometaworld/environment/sawyer/reach"
	ts "github.com/samuelfneumann/gometaworld/timestep"
	"gonum.org/v1/gonum/spatial/r1"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	Sawyer EnvName = "Sawyer"
)

// TaskName stores the tasks that can be configured with this package.
// Note that not all tasks can be used with all environments. The tasks
// that can be used with each environment are as follows:
//
//	Environment			Task
//	Sawyer				Disassemble
//						Reach
type TaskName string

// Tasks available for configuration
const (
	Disassemble TaskName = "Disassemble"
	Reach       TaskName = "Reach"
)

var tasks = map[EnvName][]TaskName{
	Sawyer: {Disassemble, Reach},
}

// Config implements a specific configuration of a specific environment
// and specific task. Not all environments can have all tasks.
//
// If EpisodeCutoff is 0, the task's default episode length is used.
// If ObjectBounds is non-empty it must hold one interval per object
// coordinate (x, y, z), and episodes end as terminal once the object
// leaves them.
type Config struct {
	Environment         EnvName
	Task                TaskName
	EpisodeCutoff       uint
	Discount            float64
	RandomInit          bool
	PartiallyObservable bool
	EndOnSuccess        bool
	ObjectBounds        []r1.Interval
}

// NewConfig returns a new environment Config
func NewConfig(envName EnvName, taskName TaskName, episodeCutoff uint,
	discount float64, randomInit bool) Config {
	return Config{
		Environment:   envName,
		Task:          taskName,
		EpisodeCutoff: episodeCutoff,
		Discount:      discount,
		RandomInit:    randomInit,
	}
}

// Validate returns an error if the Config names an unknown environment
// or a task which the environment does not have.
func (c Config) Validate() error {
	envTasks, ok := tasks[c.Environment]
	if !ok {
		return fmt.Errorf("validate: no such environment %q", c.Environment)
	}
	for _, task := range envTasks {
		if task == c.Task {
			return c.validateBounds()
		}
	}
	return fmt.Errorf("validate: %v environment has no task %q",
		c.Environment, c.Task)
}

func (c Config) validateBounds() error {
	if len(c.ObjectBounds) == 0 {
		return nil
	}
	if len(c.ObjectBounds) != 3 {
		return fmt.Errorf("validate: object bounds need 3 intervals, got %v",
			len(c.ObjectBounds))
	}
	for i, bound := range c.ObjectBounds {
		if bound.Min > bound.Max {
			return fmt.Errorf("validate: object bound %v has min %v > max %v",
				i, bound.Min, bound.Max)
		}
	}
	return nil
}

// UnmarshalJSON implements the json.Unmarshaler interface, rejecting
// configurations which do not pass Validate.
func (c *Config) UnmarshalJSON(data []byte) error {
	type config Config
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return err
	}

	if err := Config(cfg).Validate(); err != nil {
		return fmt.Errorf("unmarshalJSON: %w", err)
	}
	*c = Config(cfg)
	return nil
}

// Load reads a JSON Config from the file at path
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load: %w", err)
	}

	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("load: %v: %w", path, err)
	}
	return c, nil
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment.
func (c Config) Create(seed uint64) (env.Environment, ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}

	switch c.Environment {
	case Sawyer:
		e, step, err := c.CreateSawyer(seed)
		if err != nil {
			return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
		}
		return e, step, nil
	}

	return nil, ts.TimeStep{}, fmt.Errorf("create: cannot create "+
		"environment %v, no such environment", c.Environment)
}

// CreateSawyer is a factory for creating the Sawyer environment with
// the Config's task on the kinematic scene of that task.
func (c Config) CreateSawyer(seed uint64) (*sawyer.Env, ts.TimeStep,
	error) {
	cutoff := int(c.EpisodeCutoff)

	var task sawyer.Task
	var sim sawyer.Simulator
	switch c.Task {
	case Disassemble:
		t := disassemble.New(cutoff, c.RandomInit, seed)
		task, sim = t, kinematic.NutDisassemble(t.HandInit())

	case Reach:
		t := reach.New(cutoff, c.RandomInit, seed)
		task, sim = t, kinematic.Reach(t.HandInit())

	default:
		return nil, ts.TimeStep{}, fmt.Errorf("createSawyer: Sawyer "+
			"environment has no task %v", c.Task)
	}

	opts := []sawyer.Option{sawyer.PartiallyObservable(c.PartiallyObservable)}
	if c.EndOnSuccess {
		opts = append(opts, sawyer.WithEnder(env.NewSuccessEnder()))
	}
	if len(c.ObjectBounds) > 0 {
		indices := []int{sawyer.ObjPosIdx, sawyer.ObjPosIdx + 1,
			sawyer.ObjPosIdx + 2}
		opts = append(opts, sawyer.WithEnder(env.NewIntervalLimit(
			c.ObjectBounds, indices, ts.TerminalStateReached)))
	}

	return sawyer.New(sim, task, c.Discount, opts...)
}
