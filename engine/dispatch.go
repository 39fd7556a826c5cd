package engine

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jesspatton/tcr/classify"
)

// action is what the loop does with a classified outcome.
type action int

const (
	// actionReport surfaces the outcome to the operator, nothing else.
	actionReport action = iota
	// actionCommit starts the commit path: change check, prompt, commit.
	actionCommit
	// actionRevert restores the working tree to the last commit.
	actionRevert
	// actionAcknowledge is the not-implemented-stub tolerance: a distinct
	// acknowledgment, no VCS mutation.
	actionAcknowledge
)

// dispatchTable maps every outcome to its action. Outcomes missing from the
// table fall back to actionReport.
var dispatchTable = map[classify.Outcome]action{
	classify.TestsPassed:                 actionCommit,
	classify.TestsFailed:                 actionRevert,
	classify.BuildFailed:                 actionRevert,
	classify.SingleNotImplementedAllowed: actionAcknowledge,
	classify.NoTestsFound:                actionReport,
	classify.NoResults:                   actionReport,
	classify.Unknown:                     actionReport,
}

// dispatch maps an outcome to its side effect.
func (e *Engine) dispatch(outcome classify.Outcome) tea.Cmd {
	switch dispatchTable[outcome] {
	case actionCommit:
		return e.checkChanges
	case actionRevert:
		return e.revert
	case actionAcknowledge:
		e.State.Notice = "red bar tolerated: single not-implemented stub"
		return ring
	default:
		e.State.Notice = "no action: " + outcome.String()
		return nil
	}
}

// checkChanges opens the commit prompt only when there is something to commit.
func (e *Engine) checkChanges() tea.Msg {
	changed, err := e.git.HasSourceChanges()
	if err != nil {
		return NoticeMsg(fmt.Sprintf("change check failed: %v", err))
	}
	if !changed {
		return NoticeMsg("tests passed, nothing to commit")
	}
	return PromptRequestMsg{}
}

func (e *Engine) commit(message string) tea.Cmd {
	return func() tea.Msg {
		return CommitDoneMsg{Err: e.git.CommitAndShare(message)}
	}
}

func (e *Engine) revert() tea.Msg {
	return RevertDoneMsg{Err: e.git.Revert()}
}

// ring sounds the terminal bell for the stub-tolerance acknowledgment.
func ring() tea.Msg {
	fmt.Print("\a")
	return nil
}
