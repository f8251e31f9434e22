// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

package speech

import (
	"context"
	"testing"
	"time"
)

func TestCommandRecognizerFirstLine(t *testing.T) {
	recognizer := &CommandRecognizer{
		Argv: []string{"sh", "-c", "printf 'where are my keys\\nsecond line ignored\\n'"},
	}

	transcript, err := recognizer.Listen(context.Background())
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	if transcript != "where are my keys" {
		t.Errorf("transcript = %q", transcript)
	}
}

func TestCommandRecognizerTrimsWhitespace(t *testing.T) {
	recognizer := &CommandRecognizer{
		Argv: []string{"sh", "-c", "printf '  hello there  \\n'"},
	}

	transcript, err := recognizer.Listen(context.Background())
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	if transcript != "hello there" {
		t.Errorf("transcript = %q", transcript)
	}
}

func TestCommandRecognizerEmptyOutput(t *testing.T) {
	recognizer := &CommandRecognizer{Argv: []string{"sh", "-c", "true"}}
	if _, err := recognizer.Listen(context.Background()); err == nil {
		t.Error("empty capture output should be an error")
	}
}

func TestCommandRecognizerFailure(t *testing.T) {
	recognizer := &CommandRecognizer{Argv: []string{"sh", "-c", "exit 3"}}
	if _, err := recognizer.Listen(context.Background()); err == nil {
		t.Error("failing capture command should be an error")
	}
}

func TestCommandRecognizerNoCommand(t *testing.T) {
	recognizer := &CommandRecognizer{}
	if _, err := recognizer.Listen(context.Background()); err == nil {
		t.Error("unconfigured recognizer should error, not hang")
	}
}

func TestCommandRecognizerCancellation(t *testing.T) {
	recognizer := &CommandRecognizer{Argv: []string{"sh", "-c", "sleep 30"}}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := recognizer.Listen(ctx)
		done <- err
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Error("cancelled capture should return an error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Listen did not return after context cancellation")
	}
}

func TestCommandSynthesizerCancelInterruptsUtterance(t *testing.T) {
	synthesizer := &CommandSynthesizer{Argv: []string{"sh", "-c", "cat >/dev/null; sleep 30"}}

	synthesizer.Speak("long utterance")
	// Speak again: the first utterance must be cancelled, never
	// overlapped. Then Cancel stops the second.
	synthesizer.Speak("replacement")
	synthesizer.Cancel()

	// Nothing to assert beyond "does not wedge": Cancel with no
	// in-flight utterance must also be safe.
	synthesizer.Cancel()
}

func TestCommandSynthesizerIgnoresBlankText(t *testing.T) {
	synthesizer := &CommandSynthesizer{Argv: []string{"sh", "-c", "exit 1"}}
	synthesizer.Speak("   ")
	synthesizer.Cancel()
}
