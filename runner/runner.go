package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// OutputUpdate carries one line of combined stdout/stderr from the test run.
type OutputUpdate string

// StatusUpdate reports that the test run finished. Err is the subprocess
// exit error, nil on success; Elapsed is the total wall-clock duration.
// Launched is false when the subprocess never started (pipe or exec failure),
// in which case there is no transcript to speak of.
type StatusUpdate struct {
	Err      error
	Elapsed  time.Duration
	Launched bool
}

// Runner executes test commands as cancellable background subprocesses and
// streams their output over the Updates channel.
type Runner struct {
	mu      sync.Mutex
	currCmd *exec.Cmd
	cancel  context.CancelFunc
	Updates chan any
}

// NewRunner creates a new Runner.
func NewRunner() *Runner {
	return &Runner{
		Updates: make(chan any, 100), // Buffered to prevent blocking
	}
}

// Run executes the test command in the background. Any command still running
// is killed first; the caller is expected to guard against overlapping runs,
// this is the backstop.
func (r *Runner) Run(command string, args []string, cwd string) {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = cwd
	prepareCommand(cmd)

	r.currCmd = cmd
	r.mu.Unlock()

	start := time.Now()

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		r.Updates <- OutputUpdate(fmt.Sprintf("Error creating stdout pipe: %v", err))
		r.Updates <- StatusUpdate{Err: err, Elapsed: time.Since(start)}
		return
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		r.Updates <- OutputUpdate(fmt.Sprintf("Error creating stderr pipe: %v", err))
		r.Updates <- StatusUpdate{Err: err, Elapsed: time.Since(start)}
		return
	}

	if err := cmd.Start(); err != nil {
		r.Updates <- OutputUpdate(fmt.Sprintf("Error starting command: %v", err))
		r.Updates <- StatusUpdate{Err: err, Elapsed: time.Since(start)}
		return
	}

	var g errgroup.Group
	g.Go(func() error {
		streamReader(stdout, r.Updates)
		return nil
	})
	g.Go(func() error {
		streamReader(stderr, r.Updates)
		return nil
	})

	go func() {
		// Wait for the process to exit first so the pipes are closed,
		// then drain the streaming goroutines.
		err := cmd.Wait()
		_ = g.Wait()

		r.mu.Lock()
		// Only report status if this is still the current command.
		shouldReport := false
		if r.currCmd == cmd {
			r.currCmd = nil
			r.cancel = nil
			shouldReport = true
		}
		r.mu.Unlock()

		if shouldReport {
			r.Updates <- StatusUpdate{Err: err, Elapsed: time.Since(start), Launched: true}
		}
	}()
}

func streamReader(r io.Reader, out chan<- any) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		out <- OutputUpdate(scanner.Text())
	}
}

// Kill explicitly stops the current command.
func (r *Runner) Kill() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
}
