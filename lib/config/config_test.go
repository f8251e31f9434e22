// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aegis.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultsWithoutPath(t *testing.T) {
	t.Setenv(EnvVar, "")
	config, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if config.Server != "http://127.0.0.1:8000" {
		t.Errorf("default server = %q", config.Server)
	}
	if config.PollInterval != 500*time.Millisecond {
		t.Errorf("default poll interval = %s", config.PollInterval)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server: http://camera.local:9000
poll_interval: 1s
speech:
  capture_command: ["listen.sh"]
`)

	config, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if config.Server != "http://camera.local:9000" {
		t.Errorf("server = %q", config.Server)
	}
	if config.PollInterval != time.Second {
		t.Errorf("poll interval = %s", config.PollInterval)
	}
	if len(config.Speech.CaptureCommand) != 1 || config.Speech.CaptureCommand[0] != "listen.sh" {
		t.Errorf("capture command = %v", config.Speech.CaptureCommand)
	}
	// Unset fields keep their defaults.
	if config.Speech.SpeakCommand != nil {
		t.Errorf("speak command = %v, want absent", config.Speech.SpeakCommand)
	}
}

func TestLoadFromEnvVar(t *testing.T) {
	path := writeConfig(t, "server: http://env.local:8000\n")
	t.Setenv(EnvVar, path)

	config, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if config.Server != "http://env.local:8000" {
		t.Errorf("server = %q", config.Server)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty server", `server: ""`},
		{"negative interval", "poll_interval: -1s"},
		{"malformed yaml", "server: [unclosed"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := writeConfig(t, test.content)
			if _, err := Load(path); err == nil {
				t.Error("Load accepted invalid config")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load of a missing explicit path should fail, not silently default")
	}
}
