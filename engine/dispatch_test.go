package engine

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jesspatton/tcr/classify"
	"github.com/jesspatton/tcr/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGit records the VCS calls the dispatcher makes.
type fakeGit struct {
	changes    bool
	changesErr error
	commitErr  error
	revertErr  error

	committed []string
	reverts   int
}

func (f *fakeGit) HasSourceChanges() (bool, error) { return f.changes, f.changesErr }
func (f *fakeGit) CommitAndShare(msg string) error {
	f.committed = append(f.committed, msg)
	return f.commitErr
}
func (f *fakeGit) Revert() error {
	f.reverts++
	return f.revertErr
}

func newTestEngine(git *fakeGit) *Engine {
	return New("/repo", runner.DefaultConfig(), git)
}

// drain runs a command chain to completion, feeding every produced message
// back into Update, and returns the messages seen.
func drain(e *Engine, cmd tea.Cmd) []tea.Msg {
	var seen []tea.Msg
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return seen
		}
		seen = append(seen, msg)
		cmd = e.Update(msg)
	}
	return seen
}

func TestDispatchTestsPassedOpensPrompt(t *testing.T) {
	git := &fakeGit{changes: true}
	e := newTestEngine(git)

	cmd := e.dispatch(classify.TestsPassed)
	require.NotNil(t, cmd)

	msg := cmd()
	assert.IsType(t, PromptRequestMsg{}, msg)
	assert.Empty(t, git.committed, "no commit before the prompt answers")
}

func TestDispatchTestsPassedWithCleanTree(t *testing.T) {
	git := &fakeGit{changes: false}
	e := newTestEngine(git)

	cmd := e.dispatch(classify.TestsPassed)
	require.NotNil(t, cmd)

	msg := cmd()
	notice, ok := msg.(NoticeMsg)
	require.True(t, ok)
	assert.Contains(t, string(notice), "nothing to commit")
	assert.Empty(t, git.committed)
}

func TestPromptResultCommits(t *testing.T) {
	git := &fakeGit{changes: true}
	e := newTestEngine(git)

	cmd := e.Update(PromptResultMsg{Message: "F add mailer"})
	require.NotNil(t, cmd)
	drain(e, cmd)

	require.Len(t, git.committed, 1)
	assert.Equal(t, "F add mailer", git.committed[0])
	assert.Equal(t, "committed and pushed", e.State.Notice)
}

func TestPromptCancelIsANoOp(t *testing.T) {
	git := &fakeGit{changes: true}
	e := newTestEngine(git)

	cmd := e.Update(PromptResultMsg{Cancelled: true})
	assert.Nil(t, cmd)
	assert.Empty(t, git.committed)
	assert.Equal(t, "commit cancelled", e.State.Notice)

	cmd = e.Update(PromptResultMsg{Message: ""})
	assert.Nil(t, cmd)
	assert.Empty(t, git.committed)
}

func TestDispatchRevertOutcomes(t *testing.T) {
	for _, outcome := range []classify.Outcome{classify.TestsFailed, classify.BuildFailed} {
		t.Run(outcome.String(), func(t *testing.T) {
			git := &fakeGit{}
			e := newTestEngine(git)

			cmd := e.dispatch(outcome)
			require.NotNil(t, cmd)
			drain(e, cmd)

			assert.Equal(t, 1, git.reverts)
			assert.Empty(t, git.committed)
		})
	}
}

func TestDispatchRevertFailureIsReported(t *testing.T) {
	git := &fakeGit{revertErr: errors.New("exit status 1")}
	e := newTestEngine(git)

	cmd := e.dispatch(classify.TestsFailed)
	require.NotNil(t, cmd)
	drain(e, cmd)

	assert.Equal(t, 1, git.reverts, "a failed revert is never retried")
	assert.Contains(t, e.State.Notice, "revert failed")
	assert.Contains(t, e.State.Notice, "exit status 1")
}

func TestDispatchAcknowledgeTouchesNoVCS(t *testing.T) {
	git := &fakeGit{changes: true}
	e := newTestEngine(git)

	e.dispatch(classify.SingleNotImplementedAllowed)

	assert.Empty(t, git.committed)
	assert.Zero(t, git.reverts)
	assert.Contains(t, e.State.Notice, "not-implemented")
}

func TestDispatchReportOnlyOutcomes(t *testing.T) {
	for _, outcome := range []classify.Outcome{classify.NoTestsFound, classify.NoResults, classify.Unknown} {
		t.Run(outcome.String(), func(t *testing.T) {
			git := &fakeGit{changes: true}
			e := newTestEngine(git)

			cmd := e.dispatch(outcome)
			assert.Nil(t, cmd)
			assert.Empty(t, git.committed)
			assert.Zero(t, git.reverts)
			assert.Contains(t, e.State.Notice, outcome.String())
		})
	}
}
