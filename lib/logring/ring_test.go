// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

package logring

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"
)

func TestAppendPreservesOrder(t *testing.T) {
	ring := New(5)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for index := 0; index < 3; index++ {
		ring.Append(Entry{Timestamp: base, Message: fmt.Sprintf("line %d", index)})
	}

	entries := ring.Entries()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for index, entry := range entries {
		want := fmt.Sprintf("line %d", index)
		if entry.Message != want {
			t.Errorf("entry %d = %q, want %q", index, entry.Message, want)
		}
	}
}

func TestEvictionIsFIFO(t *testing.T) {
	ring := New(3)
	for index := 0; index < 7; index++ {
		ring.Append(Entry{Message: fmt.Sprintf("line %d", index)})
	}

	if ring.Len() != 3 {
		t.Fatalf("Len() = %d, want capacity 3", ring.Len())
	}
	entries := ring.Entries()
	for index, entry := range entries {
		want := fmt.Sprintf("line %d", index+4)
		if entry.Message != want {
			t.Errorf("entry %d = %q, want %q", index, entry.Message, want)
		}
	}
}

func TestDefaultCapacityBound(t *testing.T) {
	ring := New(DefaultCapacity)
	for index := 0; index < 100; index++ {
		ring.Append(Entry{Message: "x"})
	}
	if ring.Len() != 30 {
		t.Errorf("Len() = %d, want 30", ring.Len())
	}
}

func TestGenerationAdvancesOnAppend(t *testing.T) {
	ring := New(2)
	before := ring.Generation()
	ring.Append(Entry{Message: "a"})
	ring.Append(Entry{Message: "b"})
	ring.Append(Entry{Message: "c"}) // Evicts, still counts.
	if got := ring.Generation(); got != before+3 {
		t.Errorf("Generation() = %d, want %d", got, before+3)
	}
}

func TestEntryLineFormat(t *testing.T) {
	entry := Entry{
		Timestamp: time.Date(2026, 3, 1, 14, 5, 9, 0, time.UTC),
		Message:   "System Started.",
	}
	if got := entry.Line(); got != "[14:05:09] System Started." {
		t.Errorf("Line() = %q", got)
	}
}

func TestHandlerNarratesIntoRing(t *testing.T) {
	ring := New(5)
	logger := slog.New(NewHandler(ring, slog.LevelInfo))

	logger.Info("connection lost", "attempts", 3)
	logger.Debug("ignored below level")

	entries := ring.Entries()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Message != "connection lost (attempts=3)" {
		t.Errorf("message = %q", entries[0].Message)
	}
}

func TestHandlerWithAttrs(t *testing.T) {
	ring := New(5)
	handler := NewHandler(ring, slog.LevelInfo).WithAttrs([]slog.Attr{slog.String("pane", "logs")})
	logger := slog.New(handler)

	logger.Warn("scroll failed")
	entries := ring.Entries()
	if len(entries) != 1 || entries[0].Message != "scroll failed (pane=logs)" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestHandlerEnabled(t *testing.T) {
	handler := NewHandler(New(1), slog.LevelWarn)
	if handler.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info enabled under warn level")
	}
	if !handler.Enabled(context.Background(), slog.LevelError) {
		t.Error("error not enabled under warn level")
	}
}
