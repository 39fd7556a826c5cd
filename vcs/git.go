// Package vcs wraps the git subprocess commands behind the commit and revert
// actions. Exit codes are checked on the revert path; the commit path reports
// errors but assumes the happy case.
package vcs

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// sourcePatterns are the tracked pathspecs the loop commits and restores.
var sourcePatterns = []string{"*.cs", "*.csproj"}

// Actions is the surface the dispatcher needs. Tests inject a recorder.
type Actions interface {
	HasSourceChanges() (bool, error)
	CommitAndShare(message string) error
	Revert() error
}

// Git runs git against a fixed working tree root.
type Git struct {
	root       string
	suffix     string
	exclusions []string
}

// NewGit creates a Git bound to the repo root. The suffix is the test-project
// naming suffix; revert never touches test files or test-project subtrees.
func NewGit(root, suffix string, exclusions []string) *Git {
	return &Git{root: root, suffix: suffix, exclusions: exclusions}
}

// HasSourceChanges reports whether any tracked source or manifest file has
// uncommitted changes, via git status --porcelain.
func (g *Git) HasSourceChanges() (bool, error) {
	args := append([]string{"status", "--porcelain", "--"}, sourcePatterns...)
	out, err := g.run(args...)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// CommitAndShare stages source and manifest files, commits with the given
// message, rebases onto upstream and pushes.
func (g *Git) CommitAndShare(message string) error {
	steps := [][]string{
		append([]string{"add", "--"}, sourcePatterns...),
		{"commit", "-m", message},
		{"pull", "--rebase"},
		{"push"},
	}
	for _, step := range steps {
		if out, err := g.run(step...); err != nil {
			return fmt.Errorf("git %s: %w: %s", step[0], err, strings.TrimSpace(out))
		}
	}
	return nil
}

// Revert removes untracked files except the test-project subtree, then
// restores tracked source and manifest files to HEAD, explicitly excluding
// test files. A non-zero exit is reported to the caller, never retried.
func (g *Git) Revert() error {
	if out, err := g.run(cleanArgs(g.suffix, g.exclusions)...); err != nil {
		return fmt.Errorf("git clean: %w: %s", err, strings.TrimSpace(out))
	}
	if out, err := g.run(checkoutArgs(g.suffix)...); err != nil {
		return fmt.Errorf("git checkout: %w: %s", err, strings.TrimSpace(out))
	}
	return nil
}

// cleanArgs builds the untracked-file removal command, keeping the test
// project subtree and any configured extra exclusions.
func cleanArgs(suffix string, exclusions []string) []string {
	args := []string{"clean", "-df", "-e", "*" + suffix}
	for _, e := range exclusions {
		args = append(args, "-e", e)
	}
	return args
}

// checkoutArgs builds the tracked-file restore command. The negative pathspec
// keeps test files (e.g. *Tests.cs for the default suffix) out of the restore.
func checkoutArgs(suffix string) []string {
	testFileGlob := "*" + strings.TrimPrefix(suffix, ".") + ".cs"
	args := append([]string{"checkout", "HEAD", "--"}, sourcePatterns...)
	return append(args, ":!"+testFileGlob)
}

func (g *Git) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = g.root
	out, err := cmd.CombinedOutput()
	if err != nil {
		slog.Warn("git command failed", "args", args, "err", err)
	}
	return string(out), err
}
