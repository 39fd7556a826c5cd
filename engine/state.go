package engine

import (
	"time"

	"github.com/jesspatton/tcr/classify"
	"github.com/jesspatton/tcr/runner"
)

// State is the single process-wide decision state. It is mutated only inside
// the engine's Update, which runs on the one bubbletea goroutine, so the
// paused and run-in-progress flags never race.
type State struct {
	RootPath string
	Config   runner.Config

	// Control flags
	Paused        bool
	RunInProgress bool

	// Current run
	Job        *runner.Job
	Transcript string
	RunStart   time.Time
	Elapsed    time.Duration

	// Last classified result
	LastOutcome classify.Outcome
	HasOutcome  bool

	// Operator-facing report line
	Notice string

	// Startup scan
	Projects []string
}

// NewState creates the initial state.
func NewState(rootPath string, cfg runner.Config) State {
	return State{
		RootPath: rootPath,
		Config:   cfg,
	}
}
