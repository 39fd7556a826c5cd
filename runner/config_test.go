package runner

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "tcr-config-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	configContent := `
suffix: .UnitTests
debounce_seconds: 2.5
configuration: Release
clean_exclusions:
  - "*.snapshot"
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configContent), 0644); err != nil {
		t.Fatal(err)
	}

	config := LoadConfig(tmpDir)

	if config.Suffix != ".UnitTests" {
		t.Errorf("expected suffix .UnitTests, got %q", config.Suffix)
	}
	if config.DebounceSeconds != 2.5 {
		t.Errorf("expected debounce 2.5, got %v", config.DebounceSeconds)
	}
	if config.Configuration != "Release" {
		t.Errorf("expected configuration Release, got %q", config.Configuration)
	}
	if len(config.CleanExclusions) != 1 || config.CleanExclusions[0] != "*.snapshot" {
		t.Errorf("unexpected clean exclusions: %v", config.CleanExclusions)
	}
}

func TestLoadConfig_Default(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "tcr-config-default-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	config := LoadConfig(tmpDir)

	if config.Suffix != ".Tests" {
		t.Errorf("expected default suffix .Tests, got %q", config.Suffix)
	}
	if config.DebounceSeconds != 1.0 {
		t.Errorf("expected default debounce 1.0, got %v", config.DebounceSeconds)
	}
	if config.Configuration != "DEBUG" {
		t.Errorf("expected default configuration DEBUG, got %q", config.Configuration)
	}
}

func TestLoadConfig_PartialFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "tcr-config-partial-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("suffix: .Spec\n"), 0644); err != nil {
		t.Fatal(err)
	}

	config := LoadConfig(tmpDir)

	if config.Suffix != ".Spec" {
		t.Errorf("expected suffix .Spec, got %q", config.Suffix)
	}
	// Unset fields fall back to defaults.
	if config.DebounceSeconds != 1.0 {
		t.Errorf("expected default debounce 1.0, got %v", config.DebounceSeconds)
	}
}
