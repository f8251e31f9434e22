// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the dashboard. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Connection badge.
	StatusRunning      lipgloss.Color
	StatusStopped      lipgloss.Color
	StatusDisconnected lipgloss.Color

	// Detections.
	DangerForeground lipgloss.Color // Danger tag and dangerous labels.
	BarFilled        lipgloss.Color // Confidence bar fill.
	BarEmpty         lipgloss.Color // Confidence bar track.

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Guidance markdown.
	EmphasisForeground lipgloss.Color
	CodeForeground     lipgloss.Color
	CodeBackground     lipgloss.Color

	// Modal overlays.
	ModalBackground lipgloss.Color
	NoticeError     lipgloss.Color // Inline validation notices.

	// Selected roster row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	StatusRunning:      lipgloss.Color("114"), // green
	StatusStopped:      lipgloss.Color("220"), // amber
	StatusDisconnected: lipgloss.Color("196"), // red

	DangerForeground: lipgloss.Color("196"),
	BarFilled:        lipgloss.Color("75"), // blue
	BarEmpty:         lipgloss.Color("238"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	EmphasisForeground: lipgloss.Color("220"),
	CodeForeground:     lipgloss.Color("114"),
	CodeBackground:     lipgloss.Color("236"),

	ModalBackground: lipgloss.Color("235"),
	NoticeError:     lipgloss.Color("203"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),
}
