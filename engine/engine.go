// Package engine owns the TCR decision loop: it sequences debounce, path
// resolution, test execution, outcome classification and the commit/revert
// dispatch for every accepted filesystem event.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jesspatton/tcr/classify"
	"github.com/jesspatton/tcr/filesystem"
	"github.com/jesspatton/tcr/runner"
	"github.com/jesspatton/tcr/vcs"
)

// Messages

// ChangeMsg indicates a file system event occurred.
type ChangeMsg filesystem.ChangeEvent

// WatcherReadyMsg carries the initialized watcher.
type WatcherReadyMsg struct {
	watcher *filesystem.Watcher
}

// ScanLoadedMsg carries the manifest list from the startup scan.
type ScanLoadedMsg []string

// PromptRequestMsg asks the UI to open the commit-message prompt.
type PromptRequestMsg struct{}

// PromptResultMsg carries the operator's answer to the commit prompt.
// An empty message or Cancelled means a deliberate no-op.
type PromptResultMsg struct {
	Message   string
	Cancelled bool
}

// CommitDoneMsg reports the end of the commit/rebase/push sequence.
type CommitDoneMsg struct{ Err error }

// RevertDoneMsg reports the end of the revert sequence.
type RevertDoneMsg struct{ Err error }

// NoticeMsg carries a one-line operator report.
type NoticeMsg string

// Engine manages the watch-loop state and side effects.
type Engine struct {
	State     State
	runner    *runner.Runner
	watcher   *filesystem.Watcher
	git       vcs.Actions
	debouncer *Debouncer
}

// New creates a new Engine for the given watch root.
func New(rootPath string, cfg runner.Config, git vcs.Actions) *Engine {
	return &Engine{
		State:     NewState(rootPath, cfg),
		runner:    runner.NewRunner(),
		git:       git,
		debouncer: NewDebouncer(time.Duration(cfg.DebounceSeconds * float64(time.Second))),
	}
}

// Init starts the engine's side effects.
func (e *Engine) Init() tea.Cmd {
	return tea.Batch(
		e.startWatcher,
		e.scanProjects,
		e.waitForUpdates,
	)
}

// Update handles incoming messages and advances the loop state.
func (e *Engine) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case WatcherReadyMsg:
		e.watcher = msg.watcher
		return e.waitForWatcherEvents

	case ScanLoadedMsg:
		e.State.Projects = msg
		slog.Info("startup scan complete", "projects", len(msg))
		return nil

	case ChangeMsg:
		return e.handleChange(filesystem.ChangeEvent(msg))

	case runner.OutputUpdate:
		e.State.Transcript += string(msg) + "\n"
		return e.waitForUpdates

	case runner.StatusUpdate:
		return tea.Batch(e.waitForUpdates, e.finishRun(msg))

	case PromptResultMsg:
		if msg.Cancelled || msg.Message == "" {
			e.State.Notice = "commit cancelled"
			return nil
		}
		return e.commit(msg.Message)

	case CommitDoneMsg:
		if msg.Err != nil {
			e.State.Notice = fmt.Sprintf("commit failed: %v", msg.Err)
			slog.Warn("commit failed", "err", msg.Err)
		} else {
			e.State.Notice = "committed and pushed"
		}
		return nil

	case RevertDoneMsg:
		if msg.Err != nil {
			// Reported, never retried; the operator must intervene.
			e.State.Notice = fmt.Sprintf("revert failed: %v", msg.Err)
			slog.Warn("revert failed", "err", msg.Err)
		} else {
			e.State.Notice = "reverted to last commit"
		}
		return nil

	case NoticeMsg:
		e.State.Notice = string(msg)
		return nil
	}

	return nil
}

// handleChange is the serialized intake path: pause gate, re-entrancy guard,
// debounce, resolution, then the test run.
func (e *Engine) handleChange(ev filesystem.ChangeEvent) tea.Cmd {
	rearm := e.waitForWatcherEvents

	if e.State.Paused {
		return rearm
	}
	// Overlapping runs are disallowed; an event arriving mid-run is dropped.
	if e.State.RunInProgress {
		return rearm
	}
	if !e.debouncer.Accept(ev.Time) {
		return rearm
	}

	job, err := runner.ResolveJob(ev.Path, e.State.Config.Suffix)
	if err != nil {
		// Resolution failure aborts this event only; no command is built.
		e.State.Notice = fmt.Sprintf("skipped %s: %v", ev.Name, err)
		slog.Info("resolution failed", "file", ev.Path, "err", err)
		return rearm
	}

	e.State.RunInProgress = true
	e.State.Job = job
	e.State.Transcript = ""
	e.State.RunStart = time.Now()
	e.State.HasOutcome = false
	e.State.Notice = fmt.Sprintf("%s %s, running %s", ev.Name, ev.Kind, job.ProjectName)

	name, args := job.Command(e.State.Config.Configuration)
	return tea.Batch(rearm, func() tea.Msg {
		e.runner.Run(name, args, e.State.RootPath)
		return nil
	})
}

// finishRun classifies the completed run and dispatches the outcome.
func (e *Engine) finishRun(status runner.StatusUpdate) tea.Cmd {
	e.State.RunInProgress = false
	e.State.Elapsed = status.Elapsed

	transcript := e.State.Transcript
	if !status.Launched {
		// The subprocess never started; there is no transcript.
		transcript = ""
		slog.Warn("test command failed to launch", "err", status.Err)
	}

	outcome := classify.Classify(transcript)
	e.State.LastOutcome = outcome
	e.State.HasOutcome = true

	return e.dispatch(outcome)
}

// Paused / running controls

// TogglePause flips the pause gate. While paused, intake is suppressed but
// the process keeps listening for the toggle.
func (e *Engine) TogglePause() {
	e.State.Paused = !e.State.Paused
	if e.State.Paused {
		e.State.Notice = "paused"
	} else {
		e.State.Notice = "resumed"
	}
}

// Shutdown releases the watch subscription and kills any live subprocess.
// The only terminal transition. Safe to call more than once.
func (e *Engine) Shutdown() {
	if e.watcher != nil {
		e.watcher.Close()
		e.watcher = nil
	}
	e.runner.Kill()
}

// Internal commands

func (e *Engine) startWatcher() tea.Msg {
	w, err := filesystem.NewWatcher(e.State.RootPath)
	if err != nil {
		return NoticeMsg(fmt.Sprintf("watch failed: %v", err))
	}
	return WatcherReadyMsg{watcher: w}
}

func (e *Engine) scanProjects() tea.Msg {
	return ScanLoadedMsg(filesystem.FindManifests(e.State.RootPath))
}

func (e *Engine) waitForWatcherEvents() tea.Msg {
	if e.watcher == nil {
		return nil
	}
	ev, ok := <-e.watcher.Events
	if !ok {
		return nil
	}
	return ChangeMsg(ev)
}

func (e *Engine) waitForUpdates() tea.Msg {
	update, ok := <-e.runner.Updates
	if !ok {
		return nil
	}
	return update
}
