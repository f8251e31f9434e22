// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

// Package reconcile decides what actually changed between the last
// rendered dashboard state and a freshly polled backend snapshot.
//
// The State type is the renderer's private memory: per-slice content
// fingerprints for the detection and log lists, and the last-rendered
// guidance text. Diff compares a snapshot against that memory and
// reports which slices are dirty; the caller renders the dirty slices
// and commits each one only after its render succeeded, so a render
// failure never leaves the memory claiming content it does not show.
package reconcile

import "github.com/aegis-vision/aegis/lib/api"

// State is the record of what is currently shown. Initialized empty at
// startup (every slice of the first snapshot is dirty) and updated
// only through the Commit methods. A single goroutine owns a State;
// the type is not safe for concurrent use and does not need to be,
// since the dashboard applies snapshots strictly serially.
type State struct {
	detections Fingerprint
	logs       Fingerprint
	guidance   string

	// seeded flips to true on the first commit of each slice so that
	// an initial empty list (whose fingerprint is a valid digest of
	// zero items) still renders once.
	detectionsSeeded bool
	logsSeeded       bool
}

// Delta reports which slices of a snapshot differ from the rendered
// state, carrying the precomputed fingerprints so a commit after a
// successful render does not re-digest the content.
type Delta struct {
	// Detections is true when the detection list must be re-rendered.
	Detections bool
	// Logs is true when the log pane must be re-rendered.
	Logs bool
	// Guidance is true when the guidance text differs from what is
	// displayed. Callers suppress this bit while the user has the
	// ask dialog open; see SuppressGuidance.
	Guidance bool

	detectionsFingerprint Fingerprint
	logsFingerprint       Fingerprint
	guidanceText          string
}

// Diff compares a snapshot against the rendered state. Status and
// activation scalars are deliberately absent: they are cheap and the
// dashboard reconciles them unconditionally every poll.
func (state *State) Diff(snapshot api.Snapshot) Delta {
	delta := Delta{
		detectionsFingerprint: FingerprintDetections(snapshot.Detections),
		logsFingerprint:       FingerprintLogs(snapshot.Logs),
		guidanceText:          snapshot.Guidance,
	}
	delta.Detections = !state.detectionsSeeded || delta.detectionsFingerprint != state.detections
	delta.Logs = !state.logsSeeded || delta.logsFingerprint != state.logs
	delta.Guidance = delta.guidanceText != state.guidance
	return delta
}

// SuppressGuidance clears the guidance bit. Used while the ask dialog
// is open so an incoming guidance refresh cannot repaint text the user
// is reading; the suppressed text is picked up by a later poll once
// the dialog closes (the fingerprint memory was never advanced).
func (delta *Delta) SuppressGuidance() {
	delta.Guidance = false
}

// CommitDetections records that the detection list from the delta is
// now on screen. Call only after the render succeeded.
func (state *State) CommitDetections(delta Delta) {
	state.detections = delta.detectionsFingerprint
	state.detectionsSeeded = true
}

// CommitLogs records that the log list from the delta is now on screen.
func (state *State) CommitLogs(delta Delta) {
	state.logs = delta.logsFingerprint
	state.logsSeeded = true
}

// CommitGuidance records that the guidance text from the delta is now
// on screen.
func (state *State) CommitGuidance(delta Delta) {
	state.guidance = delta.guidanceText
}

// Guidance returns the last-rendered guidance text. Empty until the
// first guidance commit.
func (state *State) Guidance() string {
	return state.guidance
}
