// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

// Package logring holds the dashboard's client-originated diagnostic
// log: a bounded, append-only ring of timestamped lines ("System
// Started.", connection changes, failed actions). It is independent of
// the server log mirror — both render into the same pane, but the
// local ring is never mixed index-wise with server lines.
package logring

import (
	"fmt"
	"sync"
	"time"
)

// DefaultCapacity bounds the ring at 30 entries, a couple of screens
// of narration. Oldest entries are evicted first.
const DefaultCapacity = 30

// Entry is one client-generated log line.
type Entry struct {
	Timestamp time.Time
	Message   string
}

// Line formats the entry for display with its client-side timestamp
// prefix.
func (entry Entry) Line() string {
	return fmt.Sprintf("[%s] %s", entry.Timestamp.Format("15:04:05"), entry.Message)
}

// Ring is a fixed-capacity FIFO of log entries. Append evicts the
// oldest entry on overflow. Safe for concurrent use: the slog handler
// appends from arbitrary goroutines while the render loop reads.
type Ring struct {
	mutex    sync.Mutex
	entries  []Entry
	start    int // Index of the oldest entry.
	count    int
	capacity int
	// appends counts every Append ever made, so the render loop can
	// detect new entries and re-scroll the pane to its tail.
	appends uint64
}

// New creates a ring with the given capacity. Use DefaultCapacity for
// the standard dashboard ring.
func New(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{
		entries:  make([]Entry, capacity),
		capacity: capacity,
	}
}

// Append adds an entry, evicting the oldest when the ring is full.
func (ring *Ring) Append(entry Entry) {
	ring.mutex.Lock()
	defer ring.mutex.Unlock()

	position := (ring.start + ring.count) % ring.capacity
	ring.entries[position] = entry
	if ring.count < ring.capacity {
		ring.count++
	} else {
		ring.start = (ring.start + 1) % ring.capacity
	}
	ring.appends++
}

// Entries returns a copy of the ring contents, oldest first.
func (ring *Ring) Entries() []Entry {
	ring.mutex.Lock()
	defer ring.mutex.Unlock()

	result := make([]Entry, ring.count)
	for index := 0; index < ring.count; index++ {
		result[index] = ring.entries[(ring.start+index)%ring.capacity]
	}
	return result
}

// Len returns the number of entries currently held.
func (ring *Ring) Len() int {
	ring.mutex.Lock()
	defer ring.mutex.Unlock()
	return ring.count
}

// Generation returns the total number of appends ever made. A change
// between two reads means new entries arrived and the visible pane
// should follow its tail.
func (ring *Ring) Generation() uint64 {
	ring.mutex.Lock()
	defer ring.mutex.Unlock()
	return ring.appends
}
