// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

func TestFakeNowAdvance(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fake := Fake(start)

	if got := fake.Now(); !got.Equal(start) {
		t.Fatalf("Now() = %v, want %v", got, start)
	}

	fake.Advance(500 * time.Millisecond)
	want := start.Add(500 * time.Millisecond)
	if got := fake.Now(); !got.Equal(want) {
		t.Fatalf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestFakeAfterFiresOnDeadline(t *testing.T) {
	fake := Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	channel := fake.After(time.Second)

	select {
	case <-channel:
		t.Fatal("After channel fired before Advance")
	default:
	}

	fake.Advance(999 * time.Millisecond)
	select {
	case <-channel:
		t.Fatal("After channel fired before its deadline")
	default:
	}

	fake.Advance(time.Millisecond)
	select {
	case <-channel:
	default:
		t.Fatal("After channel did not fire at its deadline")
	}
}

func TestFakeAfterNonPositiveFiresImmediately(t *testing.T) {
	fake := Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	select {
	case <-fake.After(0):
	default:
		t.Fatal("After(0) did not fire immediately")
	}
}
