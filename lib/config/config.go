// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the Aegis
// dashboard.
//
// Configuration is read from a single YAML file specified by the
// --config flag or the AEGIS_CONFIG environment variable. With
// neither set, built-in defaults apply. There is no automatic file
// discovery: configuration stays deterministic and auditable.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable consulted when no --config
// flag is passed.
const EnvVar = "AEGIS_CONFIG"

// Config is the dashboard configuration.
type Config struct {
	// Server is the detection backend's base URL.
	Server string `yaml:"server"`

	// PollInterval is the snapshot poll cadence.
	PollInterval time.Duration `yaml:"poll_interval"`

	// LogFile, when set, receives full JSON log records in addition
	// to the on-screen narration pane.
	LogFile string `yaml:"log_file"`

	// Speech configures the optional voice capabilities. An absent
	// command disables the corresponding capability.
	Speech SpeechConfig `yaml:"speech"`
}

// SpeechConfig names the external commands backing voice input and
// spoken output. An empty command list means the capability is absent
// and its UI affordance is hidden or skipped.
type SpeechConfig struct {
	// CaptureCommand records one utterance and prints the transcript
	// on its first stdout line.
	CaptureCommand []string `yaml:"capture_command"`

	// SpeakCommand reads text on stdin and plays it aloud.
	SpeakCommand []string `yaml:"speak_command"`
}

// Default returns the built-in configuration: a local backend polled
// every 500 milliseconds, no log file, no voice capabilities.
func Default() Config {
	return Config{
		Server:       "http://127.0.0.1:8000",
		PollInterval: 500 * time.Millisecond,
	}
}

// Load reads configuration from the given path. An empty path falls
// back to AEGIS_CONFIG; with neither set, Default() is returned. File
// values override defaults field by field only where set.
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	config := Default()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return config, nil
}

// Validate checks the configuration for values the dashboard cannot
// run with.
func (config Config) Validate() error {
	if config.Server == "" {
		return fmt.Errorf("server must not be empty")
	}
	if config.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive (got %s)", config.PollInterval)
	}
	return nil
}
