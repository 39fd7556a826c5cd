//go:build windows

package runner

import (
	"os/exec"
)

func prepareCommand(cmd *exec.Cmd) {
	// Windows has no process groups in the unix sense; exec.CommandContext
	// already kills the process when the context is cancelled.
}
