// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

package api

import "encoding/json"

// Detection is a single detected object from the backend's inference
// pipeline. Detections carry no identity across snapshots: every poll
// delivers a fresh list, never an in-place update.
type Detection struct {
	Label       string  `json:"label"`
	Confidence  float64 `json:"confidence"` // In [0, 1].
	IsDangerous bool    `json:"is_dangerous"`
}

// Snapshot is the full polled backend state returned by GET
// /api/status. A Snapshot is immutable once decoded; a new poll
// produces a wholly new Snapshot, never a patch.
type Snapshot struct {
	// Status is the backend's free-text run state ("Running",
	// "Inactive", "Starting...").
	Status string

	// SystemActive reports whether the detection loop is running.
	SystemActive bool

	// Detections is the ordered list of currently-detected objects.
	Detections []Detection

	// Guidance is the latest AI-generated guidance text. Empty when
	// the backend has nothing to say.
	Guidance string

	// Logs is the backend's recent log mirror, newest last.
	Logs []string

	// FPS is the backend's smoothed frame rate. Nil when the field
	// was absent from the response.
	FPS *float64
}

// snapshotWire is the raw JSON shape of /api/status. The guidance text
// arrives under either of two field names depending on backend
// version; decoding resolves them to the single logical field with
// first-non-empty precedence (llm_response wins).
type snapshotWire struct {
	Status       string      `json:"status"`
	SystemActive bool        `json:"system_active"`
	Detections   []Detection `json:"detections"`
	LLMResponse  string      `json:"llm_response"`
	Guidance     string      `json:"guidance"`
	Logs         []string    `json:"logs"`
	FPS          *float64    `json:"fps"`
}

// UnmarshalJSON decodes the wire form and folds the two guidance field
// aliases into one.
func (snapshot *Snapshot) UnmarshalJSON(data []byte) error {
	var wire snapshotWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	guidance := wire.LLMResponse
	if guidance == "" {
		guidance = wire.Guidance
	}
	*snapshot = Snapshot{
		Status:       wire.Status,
		SystemActive: wire.SystemActive,
		Detections:   wire.Detections,
		Guidance:     guidance,
		Logs:         wire.Logs,
		FPS:          wire.FPS,
	}
	return nil
}

// User is the authenticated account returned by GET /api/user/me.
type User struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	AvatarURL    string `json:"avatar_url"`
	SettingsJSON string `json:"settings_json"`
}

// Settings decodes the user's opaque settings blob. An empty or
// malformed blob yields zero-value settings rather than an error: the
// dashboard treats preferences as best-effort.
func (user User) Settings() UserSettings {
	var settings UserSettings
	if user.SettingsJSON == "" {
		return settings
	}
	_ = json.Unmarshal([]byte(user.SettingsJSON), &settings)
	return settings
}

// UserSettings are per-account display preferences persisted by the
// backend inside User.SettingsJSON.
type UserSettings struct {
	// ShowOverlays controls bounding-box rendering in the backend's
	// video feed. Nil means the user never set a preference.
	ShowOverlays *bool `json:"show_overlays"`
}

// Face is one entry in the user's reference-face roster.
type Face struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
