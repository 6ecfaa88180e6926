// Package experiment implements functionality for running an experiment
package experiment

import (
	"fmt"
	"log"

	"github.com/samuelfneumann/gometaworld/agent/random"
	"github.com/samuelfneumann/gometaworld/environment/envconfig"
	"github.com/samuelfneumann/gometaworld/experiment/tracker"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments send each environment TimeStep to their Trackers, which
// cache the data they track to be saved later by the Save() function,
// usually after an experiment has been run. The Run() method will
// run all episodes until the maximum timestep limit is reached. The
// RunEpisode() function will run a single episode.
type Experiment interface {
	Run() error
	RunEpisode() (bool, error) // Returns whether the step limit was reached

	// Save all tracked data to disk
	Save() error

	// Adds a new tracker.Tracker to the (possibly already running)
	// experiment. Useful if you want to track data only after a
	// specified event.
	Register(t tracker.Tracker)
}

type Type string

const (
	OnlineExp Type = "OnlineExperiment"
)

// Config represents a configuration of an experiment. Experiments are
// run with a random agent.
type Config struct {
	Type
	MaxSteps uint
	EnvConf  envconfig.Config
}

// CreateExp creates the experiment described by the Config
func (c Config) CreateExp(seed uint64, logger *log.Logger,
	t ...tracker.Tracker) (Experiment, error) {
	e, _, err := c.EnvConf.Create(seed)
	if err != nil {
		return nil, fmt.Errorf("createExp: could not create environment: %w",
			err)
	}
	a, err := random.New(e.ActionSpec(), seed)
	if err != nil {
		return nil, fmt.Errorf("createExp: could not create agent: %w", err)
	}

	switch c.Type {
	case OnlineExp:
		return NewOnline(e, a, c.MaxSteps, logger, t...), nil
	}

	return nil, fmt.Errorf("createExp: no such experiment type %v", c.Type)
}
