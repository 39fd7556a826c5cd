package runner

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is looked up in the watch root.
const ConfigFileName = ".tcr.yaml"

// Config holds the tunable knobs of the loop. Everything has a default so a
// repo without a config file works out of the box.
type Config struct {
	// Suffix is the test-project naming suffix, e.g. ".Tests".
	Suffix string `yaml:"suffix"`
	// DebounceSeconds is the minimum spacing between accepted change events.
	DebounceSeconds float64 `yaml:"debounce_seconds"`
	// Configuration is the build configuration passed to the test command.
	Configuration string `yaml:"configuration"`
	// CleanExclusions are extra patterns kept out of the revert clean step.
	CleanExclusions []string `yaml:"clean_exclusions"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Suffix:          ".Tests",
		DebounceSeconds: 1.0,
		Configuration:   "DEBUG",
	}
}

// LoadConfig looks for .tcr.yaml in the watch root.
// If not found or unreadable, returns the default config.
func LoadConfig(root string) Config {
	defaults := DefaultConfig()

	data, err := os.ReadFile(filepath.Join(root, ConfigFileName))
	if err != nil {
		return defaults
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return defaults
	}

	if config.Suffix == "" {
		config.Suffix = defaults.Suffix
	}
	if config.DebounceSeconds <= 0 {
		config.DebounceSeconds = defaults.DebounceSeconds
	}
	if config.Configuration == "" {
		config.Configuration = defaults.Configuration
	}

	return config
}
