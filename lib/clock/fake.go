// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"time"
)

// FakeClock is a Clock whose time only moves when the test calls
// Advance or Set. After channels fire when advancing time crosses
// their deadline. Safe for concurrent use.
type FakeClock struct {
	mutex   sync.Mutex
	current time.Time
	waiters []waiter
}

type waiter struct {
	deadline time.Time
	channel  chan time.Time
}

// Fake creates a FakeClock starting at the given time.
func Fake(start time.Time) *FakeClock {
	return &FakeClock{current: start}
}

// Now returns the fake current time.
func (fake *FakeClock) Now() time.Time {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	return fake.current
}

// After returns a channel that fires once Advance moves the clock at
// or past now+d. A non-positive d fires immediately.
func (fake *FakeClock) After(d time.Duration) <-chan time.Time {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()

	channel := make(chan time.Time, 1)
	if d <= 0 {
		channel <- fake.current
		return channel
	}
	fake.waiters = append(fake.waiters, waiter{
		deadline: fake.current.Add(d),
		channel:  channel,
	})
	return channel
}

// Advance moves the fake time forward and fires any After channels
// whose deadline is reached.
func (fake *FakeClock) Advance(d time.Duration) {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	fake.setLocked(fake.current.Add(d))
}

// Set jumps the fake time to an absolute instant. Moving backwards is
// allowed but never re-arms already-fired waiters.
func (fake *FakeClock) Set(instant time.Time) {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	fake.setLocked(instant)
}

func (fake *FakeClock) setLocked(instant time.Time) {
	fake.current = instant
	remaining := fake.waiters[:0]
	for _, pending := range fake.waiters {
		if !pending.deadline.After(instant) {
			pending.channel <- instant
			continue
		}
		remaining = append(remaining, pending)
	}
	fake.waiters = remaining
}
