// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

// aegis-dash is the terminal dashboard for an Aegis detection
// backend. It polls the backend's status API on a fixed cadence and
// renders live detections, AI guidance, and logs, with controls for
// starting and stopping the detection loop, asking the assistant a
// question (typed or spoken), toggling video overlays, and managing
// the reference-face roster.
//
// Background logging is routed into the dashboard's on-screen log
// pane instead of stderr, which would corrupt the alt-screen display.
// An optional file logger captures full JSON records for post-mortem
// debugging.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/aegis-vision/aegis/lib/api"
	"github.com/aegis-vision/aegis/lib/config"
	"github.com/aegis-vision/aegis/lib/dashui"
	"github.com/aegis-vision/aegis/lib/logring"
	"github.com/aegis-vision/aegis/lib/speech"
	"github.com/aegis-vision/aegis/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var serverFlag string
	var logOutput string

	flagSet := pflag.NewFlagSet("aegis-dash", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to YAML config file (default: $"+config.EnvVar+")")
	flagSet.StringVar(&serverFlag, "server", "", "backend base URL (overrides config)")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file (in addition to the log pane)")
	flagSet.BoolP("help", "h", false, "show help")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("aegis-dash")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if serverFlag != "" {
		cfg.Server = serverFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ring := logring.New(logring.DefaultCapacity)
	ringHandler := logring.NewHandler(ring, slog.LevelInfo)

	var logger *slog.Logger
	if path := logFilePath(logOutput, cfg); path != "" {
		file, fileErr := os.Create(path)
		if fileErr != nil {
			return fmt.Errorf("cannot open log file %s: %w", path, fileErr)
		}
		defer file.Close()
		fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
		logger = slog.New(fanoutHandler{ringHandler, fileHandler})
	} else {
		logger = slog.New(ringHandler)
	}

	client, err := api.NewClient(api.Config{
		BaseURL: cfg.Server,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	// Fetch the account before taking over the terminal so an
	// authentication problem surfaces as a plain message, not a
	// broken dashboard.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	user, err := client.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthenticated) {
			return fmt.Errorf("not logged in: sign in to the backend at %s and retry", cfg.Server)
		}
		return fmt.Errorf("cannot reach backend at %s: %w", cfg.Server, err)
	}

	var recognizer speech.Recognizer
	if len(cfg.Speech.CaptureCommand) > 0 {
		recognizer = &speech.CommandRecognizer{Argv: cfg.Speech.CaptureCommand, Logger: logger}
	}
	var synthesizer speech.Synthesizer
	if len(cfg.Speech.SpeakCommand) > 0 {
		synthesizer = &speech.CommandSynthesizer{Argv: cfg.Speech.SpeakCommand, Logger: logger}
	}

	model := dashui.NewModel(dashui.Config{
		Client:       client,
		Ring:         ring,
		Recognizer:   recognizer,
		Synthesizer:  synthesizer,
		Logger:       logger,
		PollInterval: cfg.PollInterval,
		User:         user,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// logFilePath resolves the JSON log destination: the --log-output
// flag wins, then the config file's log_file field.
func logFilePath(flagValue string, cfg config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	return cfg.LogFile
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Aegis dashboard — live terminal UI for an Aegis detection backend.

Connects to the backend named by --server, the config file, or the
built-in default (http://127.0.0.1:8000). The config file is read
from --config or the %s environment variable.

Usage:
  aegis-dash [flags]

Examples:
  # Connect to the local backend
  aegis-dash

  # Connect to a remote backend
  aegis-dash --server http://vision-host:8000

  # Keep a JSON log for post-mortem debugging
  aegis-dash --log-output /tmp/aegis-dash.log

Flags:
`, config.EnvVar)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}

// fanoutHandler is a slog.Handler that sends each record to multiple
// underlying handlers. A record is enabled if any sub-handler is
// enabled for that level.
type fanoutHandler []slog.Handler

func (handlers fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (handlers fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (handlers fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := make(fanoutHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithAttrs(attrs)
	}
	return derived
}

func (handlers fanoutHandler) WithGroup(name string) slog.Handler {
	derived := make(fanoutHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithGroup(name)
	}
	return derived
}
