// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

package logring

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Handler is a slog.Handler that narrates log records into a Ring so
// the dashboard's diagnostic channel and its visible log pane share
// one path. Records below the configured level are dropped.
//
// Attach it alongside a file or stderr handler when full structured
// records are wanted in addition to the on-screen narration.
type Handler struct {
	ring  *Ring
	level slog.Level
	attrs []slog.Attr
}

// NewHandler creates a handler appending records at or above the given
// level to the ring.
func NewHandler(ring *Ring, level slog.Level) *Handler {
	return &Handler{ring: ring, level: level}
}

// Enabled reports whether the handler wants records at this level.
func (handler *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level
}

// Handle formats the record as a single narration line and appends it.
func (handler *Handler) Handle(_ context.Context, record slog.Record) error {
	var parts []string
	for _, attr := range handler.attrs {
		parts = append(parts, fmt.Sprintf("%s=%s", attr.Key, attr.Value))
	}
	record.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, fmt.Sprintf("%s=%s", attr.Key, attr.Value))
		return true
	})

	message := record.Message
	if len(parts) > 0 {
		message += " (" + strings.Join(parts, ", ") + ")"
	}

	handler.ring.Append(Entry{Timestamp: record.Time, Message: message})
	return nil
}

// WithAttrs returns a handler with the attributes appended to every
// narration line.
func (handler *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	combined := make([]slog.Attr, 0, len(handler.attrs)+len(attrs))
	combined = append(combined, handler.attrs...)
	combined = append(combined, attrs...)
	return &Handler{ring: handler.ring, level: handler.level, attrs: combined}
}

// WithGroup returns the handler unchanged. Narration lines are flat;
// group nesting adds nothing a 30-line pane can show.
func (handler *Handler) WithGroup(string) slog.Handler {
	return handler
}
