// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the dashboard.
type KeyMap struct {
	// Log pane scrolling.
	LogsUp   key.Binding
	LogsDown key.Binding

	// Controls.
	ToggleSystem   key.Binding // Start/stop the backend detection loop.
	ToggleOverlays key.Binding // Flip the video overlay preference.
	OpenAsk        key.Binding // Open the Ask-AI dialog.
	OpenRoster     key.Binding // Open the face roster overlay.

	// Inside overlays.
	Mic        key.Binding // Toggle voice capture (ask dialog only).
	Submit     key.Binding
	Close      key.Binding
	NextField  key.Binding // Cycle input fields (roster overlay).
	DeleteFace key.Binding // Remove the selected roster entry.

	Quit key.Binding
}

// DefaultKeyMap is the standard binding set.
var DefaultKeyMap = KeyMap{
	LogsUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "scroll logs up"),
	),
	LogsDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "scroll logs down"),
	),
	ToggleSystem: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "start/stop system"),
	),
	ToggleOverlays: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "toggle overlays"),
	),
	OpenAsk: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "ask AI"),
	),
	OpenRoster: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "faces"),
	),
	Mic: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "voice"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	DeleteFace: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "delete face"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
