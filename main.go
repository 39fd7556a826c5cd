package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jesspatton/tcr/engine"
	"github.com/jesspatton/tcr/runner"
	"github.com/jesspatton/tcr/ui"
	"github.com/jesspatton/tcr/vcs"
)

var (
	suffixFlag   string
	debugLogFlag string

	rootCmd = &cobra.Command{
		Use:   "tcr [root]",
		Short: "Test && Commit || Revert for .NET projects",
		Long: `tcr watches a source tree and, on every change, runs the affected
test suite: green commits, red reverts. The loop runs until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: run,
	}
)

func init() {
	rootCmd.Flags().StringVar(&suffixFlag, "suffix", "", "test-project suffix (default \".Tests\")")
	rootCmd.Flags().StringVar(&debugLogFlag, "debug-log", "", "write diagnostics to this file")
}

func run(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		root, err = filepath.Abs(args[0])
		if err != nil {
			return err
		}
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return fmt.Errorf("not a directory: %s", root)
	}

	if err := setupLogging(debugLogFlag); err != nil {
		return err
	}

	cfg := runner.LoadConfig(root)
	if suffixFlag != "" {
		cfg.Suffix = suffixFlag
	}

	git := vcs.NewGit(root, cfg.Suffix, cfg.CleanExclusions)
	e := engine.New(root, cfg, git)

	p := tea.NewProgram(ui.NewModel(e), tea.WithAltScreen())
	_, runErr := p.Run()
	// Covers the interrupt path too; the quit key already shut down.
	e.Shutdown()
	if runErr != nil {
		return fmt.Errorf("running program: %w", runErr)
	}
	return nil
}

// setupLogging routes slog away from the terminal, which the TUI owns.
func setupLogging(path string) error {
	if path == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening debug log: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
