// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import "github.com/charmbracelet/lipgloss"

// ConnState is the dashboard's connection/run state, driven entirely
// by poll outcomes: every successful poll derives the state from the
// snapshot's status text, every failed poll forces Disconnected.
type ConnState int

const (
	// ConnectedRunning: the backend is reachable and its detection
	// loop reports "Running".
	ConnectedRunning ConnState = iota
	// ConnectedStopped: the backend is reachable but the detection
	// loop is inactive or starting.
	ConnectedStopped
	// Disconnected: the last poll failed.
	Disconnected
)

// connStateFromStatus maps a snapshot's status text to a connection
// state. Any status other than "Running" counts as stopped — the
// backend uses free text ("Inactive", "Starting...") for every
// non-running phase.
func connStateFromStatus(status string) ConnState {
	if status == "Running" {
		return ConnectedRunning
	}
	return ConnectedStopped
}

// Label returns the badge text for the state.
func (state ConnState) Label() string {
	switch state {
	case ConnectedRunning:
		return "● RUNNING"
	case ConnectedStopped:
		return "● STOPPED"
	default:
		return "● OFFLINE"
	}
}

// Color returns the badge color for the state.
func (state ConnState) Color(theme Theme) lipgloss.Color {
	switch state {
	case ConnectedRunning:
		return theme.StatusRunning
	case ConnectedStopped:
		return theme.StatusStopped
	default:
		return theme.StatusDisconnected
	}
}
