// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

package speech

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
)

// CommandRecognizer runs a capture command (e.g. a whisper.cpp or
// vosk wrapper script) and takes the first line of its stdout as the
// transcript.
type CommandRecognizer struct {
	// Argv is the command and its arguments. Must be non-empty.
	Argv []string

	// Logger receives capture diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// Listen runs the capture command to completion. The command is
// killed when the context is cancelled (the user toggled the mic off
// or closed the dialog).
func (recognizer *CommandRecognizer) Listen(ctx context.Context) (string, error) {
	if len(recognizer.Argv) == 0 {
		return "", fmt.Errorf("speech: no capture command configured")
	}

	command := exec.CommandContext(ctx, recognizer.Argv[0], recognizer.Argv[1:]...)
	var stdout bytes.Buffer
	command.Stdout = &stdout

	if err := command.Run(); err != nil {
		return "", fmt.Errorf("speech: capture command failed: %w", err)
	}

	transcript, _, _ := strings.Cut(stdout.String(), "\n")
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", fmt.Errorf("speech: capture produced no transcript")
	}

	logger := recognizer.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("voice transcript captured", "length", len(transcript))
	return transcript, nil
}

// CommandSynthesizer pipes text to a playback command's stdin (e.g.
// espeak-ng, piper, or say). Each Speak kills the previous utterance
// first so speech never overlaps.
type CommandSynthesizer struct {
	// Argv is the command and its arguments. Must be non-empty.
	Argv []string

	// Logger receives playback diagnostics. Defaults to slog.Default().
	Logger *slog.Logger

	mutex  sync.Mutex
	cancel context.CancelFunc
}

// Speak starts speaking the text asynchronously.
func (synthesizer *CommandSynthesizer) Speak(text string) {
	if len(synthesizer.Argv) == 0 || strings.TrimSpace(text) == "" {
		return
	}

	synthesizer.mutex.Lock()
	if synthesizer.cancel != nil {
		synthesizer.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	synthesizer.cancel = cancel
	synthesizer.mutex.Unlock()

	logger := synthesizer.Logger
	if logger == nil {
		logger = slog.Default()
	}

	go func() {
		defer cancel()
		command := exec.CommandContext(ctx, synthesizer.Argv[0], synthesizer.Argv[1:]...)
		command.Stdin = strings.NewReader(text)
		if err := command.Run(); err != nil && ctx.Err() == nil {
			// A cancelled utterance is expected; anything else is a
			// broken playback setup worth narrating once per attempt.
			logger.Warn("speech playback failed", "error", err)
		}
	}()
}

// Cancel stops any in-flight utterance.
func (synthesizer *CommandSynthesizer) Cancel() {
	synthesizer.mutex.Lock()
	defer synthesizer.mutex.Unlock()
	if synthesizer.cancel != nil {
		synthesizer.cancel()
		synthesizer.cancel = nil
	}
}
