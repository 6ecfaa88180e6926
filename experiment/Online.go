package experiment

import (
	"fmt"
	"io"
	"log"

	"github.com/samuelfneumann/gometaworld/agent"
	env "github.com/samuelfneumann/gometaworld/environment"
	"github.com/samuelfneumann/gometaworld/experiment/tracker"
	ts "github.com/samuelfneumann/gometaworld/timestep"
	"github.com/samuelfneumann/gometaworld/utils/progressbar"
)

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed.
type Online struct {
	env.Environment
	agent.Agent
	maxSteps     uint
	currentSteps uint
	episodes     int
	trackers     []tracker.Tracker
	logger       *log.Logger
	progress     *progressbar.ManualProgressBar
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The steps parameter determines how
// many timesteps the experiment is run for, and the t parameter
// is a slice of tracker.Tracker which determine what data is saved.
// Episode summaries are written to logger, which may be nil.
func NewOnline(e env.Environment, a agent.Agent, steps uint,
	logger *log.Logger, t ...tracker.Tracker) *Online {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Online{
		Environment: e,
		Agent:       a,
		maxSteps:    steps,
		trackers:    t,
		logger:      logger,
	}
}

// ShowProgress displays the progress of the experiment on bar after
// every step
func (o *Online) ShowProgress(bar *progressbar.ManualProgressBar) {
	o.progress = bar
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// Steps returns the number of steps taken so far
func (o *Online) Steps() uint {
	return o.currentSteps
}

// RunEpisode runs a single episode of the experiment and returns
// whether or not the maximum number of steps has been reached
func (o *Online) RunEpisode() (bool, error) {
	step, err := o.Environment.Reset()
	if err != nil {
		return false, fmt.Errorf("runEpisode: %w", err)
	}
	if err := o.Agent.ObserveFirst(step); err != nil {
		return false, fmt.Errorf("runEpisode: %w", err)
	}
	o.track(step)

	var episodeReturn float64
	var solved bool
	for !step.Last() && o.currentSteps < o.maxSteps {
		o.currentSteps++

		// Select action, step in environment
		action := o.Agent.SelectAction(step)
		step, _, err = o.Environment.Step(action)
		if err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
		episodeReturn += step.Reward
		solved = solved || step.Info.Success

		o.track(step)

		// Observe the timestep and step the agent
		if err := o.Agent.Observe(action, step); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
		if err := o.Agent.Step(); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}

		if o.progress != nil {
			o.progress.Increment()
			o.progress.Display()
		}
	}
	o.Agent.EndEpisode()

	o.logger.Printf("episode %d: steps=%d return=%.3f success=%v",
		o.episodes, step.Number, episodeReturn, solved)
	o.episodes++

	return o.currentSteps >= o.maxSteps, nil
}

// Run runs the entire experiment for all timesteps
func (o *Online) Run() error {
	for {
		ended, err := o.RunEpisode()
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		if ended {
			return nil
		}
	}
}

// Save saves all the data cached by the Trackers to disk, returning
// the first error encountered
func (o *Online) Save() error {
	var firstErr error
	for _, t := range o.trackers {
		if err := t.Save(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("save: %w", err)
		}
	}
	return firstErr
}

// track tracks the current timestep by caching its data in each Tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tr := range o.trackers {
		tr.Track(t)
	}
}
