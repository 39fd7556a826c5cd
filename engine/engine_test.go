package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jesspatton/tcr/classify"
	"github.com/jesspatton/tcr/filesystem"
	"github.com/jesspatton/tcr/runner"
)

// projectFixture builds Foo/Foo.csproj with a Bar.cs inside and returns the
// source file path.
func projectFixture(t *testing.T) string {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "tcr-engine-test")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	fooDir := filepath.Join(tmpDir, "Foo")
	if err := os.MkdirAll(fooDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(fooDir, "Foo.csproj"), []byte("<Project/>"), 0644); err != nil {
		t.Fatal(err)
	}
	srcFile := filepath.Join(fooDir, "Bar.cs")
	if err := os.WriteFile(srcFile, []byte("class Bar {}"), 0644); err != nil {
		t.Fatal(err)
	}
	return srcFile
}

func changeAt(path string, at time.Time) ChangeMsg {
	return ChangeMsg(filesystem.ChangeEvent{
		Name: filepath.Base(path),
		Path: path,
		Kind: filesystem.Changed,
		Time: at,
	})
}

func TestHandleChangeStartsRun(t *testing.T) {
	srcFile := projectFixture(t)
	e := New(filepath.Dir(srcFile), runner.DefaultConfig(), &fakeGit{})

	e.Update(changeAt(srcFile, time.Now().Add(10*time.Second)))

	if !e.State.RunInProgress {
		t.Fatal("expected a run to be in progress")
	}
	if e.State.Job == nil {
		t.Fatal("expected a resolved job")
	}
	if e.State.Job.Filter != "Foo.Tests.BarTests" {
		t.Errorf("expected filter Foo.Tests.BarTests, got %s", e.State.Job.Filter)
	}
	if e.State.Transcript != "" {
		t.Error("expected a fresh transcript")
	}
}

func TestHandleChangeDroppedWhilePaused(t *testing.T) {
	srcFile := projectFixture(t)
	e := New(filepath.Dir(srcFile), runner.DefaultConfig(), &fakeGit{})

	e.TogglePause()
	e.Update(changeAt(srcFile, time.Now().Add(10*time.Second)))

	if e.State.RunInProgress {
		t.Error("expected intake to be suppressed while paused")
	}
}

func TestHandleChangeDroppedMidRun(t *testing.T) {
	srcFile := projectFixture(t)
	e := New(filepath.Dir(srcFile), runner.DefaultConfig(), &fakeGit{})

	e.Update(changeAt(srcFile, time.Now().Add(10*time.Second)))
	firstJob := e.State.Job

	// A second event during the run must never start a concurrent run.
	e.Update(changeAt(srcFile, time.Now().Add(20*time.Second)))

	if e.State.Job != firstJob {
		t.Error("expected second mid-run event to be dropped")
	}
}

func TestHandleChangeDebounced(t *testing.T) {
	// An unresolvable file exercises the debouncer without starting runs.
	tmpDir, err := os.MkdirTemp("", "tcr-engine-debounce")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })
	orphan := filepath.Join(tmpDir, "Orphan.cs")
	if err := os.WriteFile(orphan, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	e := New(tmpDir, runner.DefaultConfig(), &fakeGit{})

	base := time.Now().Add(10 * time.Second)
	e.Update(changeAt(orphan, base))
	if e.State.Notice == "" {
		t.Fatal("expected the first event to reach resolution")
	}

	e.State.Notice = ""
	e.Update(changeAt(orphan, base.Add(500*time.Millisecond)))
	if e.State.Notice != "" {
		t.Error("expected event inside the debounce window to be dropped silently")
	}

	e.Update(changeAt(orphan, base.Add(time.Second)))
	if e.State.Notice == "" {
		t.Error("expected event a full window later to be handled")
	}
}

func TestHandleChangeResolutionFailure(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "tcr-engine-noproj")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })
	orphan := filepath.Join(tmpDir, "Orphan.cs")
	if err := os.WriteFile(orphan, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	e := New(tmpDir, runner.DefaultConfig(), &fakeGit{})
	e.Update(changeAt(orphan, time.Now().Add(10*time.Second)))

	if e.State.RunInProgress {
		t.Error("resolution failure must not start a run")
	}
	if e.State.Notice == "" {
		t.Error("resolution failure must be reported")
	}
}

func TestFinishRunClassifies(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		launched   bool
		want       classify.Outcome
	}{
		{
			name:       "successful run",
			transcript: "Starting test execution, please wait...\nTest Run Successful.\n",
			launched:   true,
			want:       classify.TestsPassed,
		},
		{
			name:       "broken build during started run",
			transcript: "Starting test execution, please wait...\nBuild FAILED.\n",
			launched:   true,
			want:       classify.TestsFailed,
		},
		{
			name:       "empty transcript",
			transcript: "",
			launched:   true,
			want:       classify.NoResults,
		},
		{
			name:       "launch failure ignores stray output",
			transcript: "Error starting command: exec: not found\n",
			launched:   false,
			want:       classify.NoResults,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New("/repo", runner.DefaultConfig(), &fakeGit{changes: true})
			e.State.RunInProgress = true
			e.State.Transcript = tt.transcript

			e.Update(runner.StatusUpdate{Launched: tt.launched, Elapsed: time.Second})

			if e.State.RunInProgress {
				t.Error("expected run to be marked finished")
			}
			if !e.State.HasOutcome || e.State.LastOutcome != tt.want {
				t.Errorf("expected outcome %v, got %v", tt.want, e.State.LastOutcome)
			}
			if e.State.Elapsed != time.Second {
				t.Errorf("expected elapsed 1s, got %v", e.State.Elapsed)
			}
		})
	}
}

func TestTranscriptAccumulates(t *testing.T) {
	e := New("/repo", runner.DefaultConfig(), &fakeGit{})
	e.State.RunInProgress = true

	e.Update(runner.OutputUpdate("line one"))
	e.Update(runner.OutputUpdate("line two"))

	if e.State.Transcript != "line one\nline two\n" {
		t.Errorf("unexpected transcript: %q", e.State.Transcript)
	}
}

func TestTogglePause(t *testing.T) {
	e := New("/repo", runner.DefaultConfig(), &fakeGit{})

	e.TogglePause()
	if !e.State.Paused {
		t.Error("expected paused")
	}
	e.TogglePause()
	if e.State.Paused {
		t.Error("expected resumed")
	}
}
