// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time operations for testability. Production
// code injects Real(); tests inject a Fake with deterministic time
// control, so poll cadence and log timestamps can be asserted without
// sleeping.
package clock

import "time"

// Clock provides the time operations the dashboard needs: wall-clock
// reads for log timestamps and fingerprint-free scalar reconciliation,
// and delayed channels for request timing.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives the current time after
	// duration d elapses. Equivalent to time.After.
	After(d time.Duration) <-chan time.Time
}
