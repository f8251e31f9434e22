// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"testing"

	"github.com/aegis-vision/aegis/lib/config"
)

func TestLogFilePath(t *testing.T) {
	tests := []struct {
		name      string
		flagValue string
		config    string
		want      string
	}{
		{"flag only", "/tmp/flag.log", "", "/tmp/flag.log"},
		{"config only", "", "/tmp/config.log", "/tmp/config.log"},
		{"flag wins over config", "/tmp/flag.log", "/tmp/config.log", "/tmp/flag.log"},
		{"neither", "", "", ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.LogFile = test.config
			if got := logFilePath(test.flagValue, cfg); got != test.want {
				t.Errorf("logFilePath(%q, log_file=%q) = %q, want %q",
					test.flagValue, test.config, got, test.want)
			}
		})
	}
}
