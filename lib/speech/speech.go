// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

// Package speech defines the dashboard's optional voice capabilities
// as injectable interfaces. The terminal has no built-in speech
// engine, so both directions are backed by user-configured commands;
// a nil capability means "absent" and the UI degrades gracefully (the
// mic control is hidden, answers are not spoken) rather than erroring.
package speech

import "context"

// Recognizer captures one utterance from the user and returns its
// transcript.
type Recognizer interface {
	// Listen blocks until a transcript is recognized, the capture
	// fails, or the context is cancelled. A successful capture
	// returns the transcript with surrounding whitespace trimmed.
	Listen(ctx context.Context) (string, error)
}

// Synthesizer speaks text aloud.
type Synthesizer interface {
	// Speak starts speaking the text, cancelling any utterance still
	// in flight so speech never overlaps. It does not block until
	// speaking finishes.
	Speak(text string)

	// Cancel stops any in-flight utterance.
	Cancel()
}
