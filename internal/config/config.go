// Package config holds the run configuration for docwriter. A Config is
// constructed once at startup from defaults, an optional TOML file, and flag
// overrides, and is passed by value into every component.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents the top-level application configuration.
type Config struct {
	// SrcDir is the root directory to recursively parse.
	SrcDir string `toml:"src_dir"`

	// Author is inserted as an @author tag on class-level Javadoc.
	Author string `toml:"author"`

	// Provider selects the generation backend implementation.
	Provider string `toml:"provider"`

	// Model is the generation model identifier, passed through to the backend.
	Model string `toml:"model"`

	// BaseURL is the backend API base URL.
	BaseURL string `toml:"base_url"`

	// MaxFilesToChange bounds how many files a run may rewrite.
	MaxFilesToChange int `toml:"max_files_to_change"`

	// ToleratedErrors bounds how many processing failures a run absorbs
	// before aborting.
	ToleratedErrors int `toml:"tolerated_errors"`

	// ClassDoc gates class/interface-level documentation.
	ClassDoc bool `toml:"class_doc"`

	// PublicMethodDoc gates documentation of public methods.
	PublicMethodDoc bool `toml:"public_method_doc"`

	// NonPublicMethodDoc gates documentation of non-public methods.
	NonPublicMethodDoc bool `toml:"non_public_method_doc"`

	// LogLevel is the process-wide logging threshold.
	LogLevel string `toml:"log_level"`

	// LogFile, when set, mirrors log output to a rotating file.
	LogFile string `toml:"log_file"`
}

// DefaultConfig returns a Config populated with sensible default values.
func DefaultConfig() Config {
	return Config{
		SrcDir:           ".",
		Author:           "docwriter",
		Provider:         "openai",
		Model:            "gpt-4o",
		BaseURL:          "https://api.openai.com/v1",
		MaxFilesToChange: 1,
		ToleratedErrors:  5,
		ClassDoc:         true,
		LogLevel:         "info",
	}
}

// Load reads a TOML config file over the defaults. An empty path returns the
// defaults; an explicitly given path must exist.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return cfg, fmt.Errorf("config file: %w", err)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
