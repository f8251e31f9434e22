// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

// Package dashui is the Aegis dashboard's terminal UI: a bubbletea
// model that polls the detection backend on a fixed cadence,
// reconciles each snapshot against the last-rendered state, and
// renders detections, guidance, and logs without repainting slices
// whose content did not change.
//
// All state machines live here: connection/activation, the Ask-AI
// dialog with its voice-capture sub-machine, and the face roster
// overlay. Every backend action (toggle, mute, ask, roster mutation)
// is fire-and-forget relative to the poll loop; a failure degrades
// only the control that issued it and is narrated to the diagnostic
// log, never raised as a blocking error.
package dashui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aegis-vision/aegis/lib/api"
	"github.com/aegis-vision/aegis/lib/clock"
	"github.com/aegis-vision/aegis/lib/logring"
	"github.com/aegis-vision/aegis/lib/reconcile"
	"github.com/aegis-vision/aegis/lib/speech"
)

// requestTimeout bounds every backend action request. The poll has
// its own shorter timeout so a wedged backend cannot stack polls.
const (
	requestTimeout = 10 * time.Second
	pollTimeout    = 5 * time.Second
)

// Messages delivered through the bubbletea loop.

// pollTickMsg fires on the fixed poll cadence.
type pollTickMsg struct{}

// snapshotMsg carries one poll outcome: a snapshot or the error that
// replaced it.
type snapshotMsg struct {
	snapshot api.Snapshot
	err      error
}

// barTickMsg drives the confidence-bar growth animation.
type barTickMsg struct{}

// toggleResultMsg resolves a system start/stop request.
type toggleResultMsg struct {
	target bool
	err    error
}

// audioStateMsg resolves a mute/unmute request.
type audioStateMsg struct {
	muted bool
	err   error
}

// askResultMsg resolves an ask request. seq identifies the submission
// so a response for a closed or superseded dialog is dropped.
type askResultMsg struct {
	seq    uint64
	answer string
	err    error
}

// voiceResultMsg resolves a voice capture. seq identifies the capture
// so a transcript for a closed dialog or a cancelled capture is
// dropped.
type voiceResultMsg struct {
	seq        uint64
	transcript string
	err        error
}

// facesMsg carries a roster list fetch outcome.
type facesMsg struct {
	faces []api.Face
	err   error
}

// faceMutationMsg resolves an upload or delete.
type faceMutationMsg struct {
	action string // "upload" or "delete"
	err    error
}

// overlayPrefMsg resolves an overlay-preference request.
type overlayPrefMsg struct {
	show bool
	err  error
}

// Config assembles a Model's collaborators.
type Config struct {
	// Client is the backend API client. Required.
	Client *api.Client

	// Ring is the local diagnostic log. Required; the same ring the
	// slog handler narrates into.
	Ring *logring.Ring

	// Recognizer is the voice-input capability. Nil hides the mic
	// control entirely.
	Recognizer speech.Recognizer

	// Synthesizer is the spoken-output capability. Nil skips
	// speaking answers.
	Synthesizer speech.Synthesizer

	// Clock provides time. Defaults to clock.Real().
	Clock clock.Clock

	// Logger is the diagnostic channel. Defaults to slog.Default().
	Logger *slog.Logger

	// PollInterval is the snapshot cadence. Defaults to 500ms.
	PollInterval time.Duration

	// User is the authenticated account, fetched before the UI
	// starts. Its settings seed the overlay preference.
	User api.User
}

// Model is the dashboard's bubbletea model.
type Model struct {
	client      *api.Client
	ring        *logring.Ring
	recognizer  speech.Recognizer
	synthesizer speech.Synthesizer
	clock       clock.Clock
	logger      *slog.Logger

	pollInterval time.Duration
	user         api.User

	theme Theme
	keys  KeyMap

	// Terminal dimensions.
	width  int
	height int
	ready  bool

	// Reconciliation memory. rendered is the single owner of the
	// per-slice fingerprints; the fields below it mirror exactly the
	// content the fingerprints vouch for.
	rendered   *reconcile.State
	detections []api.Detection
	serverLogs []string
	guidance   string

	// guidanceRendered caches the markdown render of guidance at the
	// current pane width.
	guidanceRendered string

	// Connection/activation machine.
	conn     ConnState
	seenPoll bool // Guards connection-change narration on the first poll.
	fps      *float64

	systemActive  bool
	pendingToggle bool

	showOverlays bool

	// Poll discipline: true while a status request is in flight. A
	// tick arriving during a slow poll schedules no second request.
	polling bool

	// Confidence bar animation.
	bars barAnimation

	// Log pane.
	logView        viewport.Model
	ringGeneration uint64
	logsFollowTail bool

	// Ask dialog. Nil when closed. The sequence counters invalidate
	// in-flight ask/voice results when the dialog closes or a new
	// submission supersedes them.
	askModal    *AskModal
	askSeq      uint64
	voiceSeq    uint64
	voiceCancel context.CancelFunc

	// Face roster overlay. Nil when closed.
	roster *RosterOverlay
}

// NewModel creates the dashboard model. The first poll is issued by
// Init; the model starts in Disconnected until it resolves.
func NewModel(config Config) Model {
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := config.PollInterval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}

	showOverlays := true
	if preference := config.User.Settings().ShowOverlays; preference != nil {
		showOverlays = *preference
	}

	model := Model{
		client:         config.Client,
		ring:           config.Ring,
		recognizer:     config.Recognizer,
		synthesizer:    config.Synthesizer,
		clock:          clk,
		logger:         logger,
		pollInterval:   interval,
		user:           config.User,
		theme:          DefaultTheme,
		keys:           DefaultKeyMap,
		rendered:       &reconcile.State{},
		conn:           Disconnected,
		showOverlays:   showOverlays,
		polling:        true, // Init issues the first poll.
		logsFollowTail: true,
	}

	logger.Info("Dashboard started.")
	return model
}

// Init implements tea.Model: issue the first poll and arm the cadence.
func (model Model) Init() tea.Cmd {
	return tea.Batch(model.fetchSnapshot(), model.schedulePoll())
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := model.update(message)
	updated.syncLogPane()
	return updated, cmd
}

func (model Model) update(message tea.Msg) (Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.layoutLogPane()
		model.guidanceRendered = renderMarkdown(model.guidance, model.theme, model.guidanceWidth())
		return model, nil

	case pollTickMsg:
		commands := []tea.Cmd{model.schedulePoll()}
		if !model.polling {
			model.polling = true
			commands = append(commands, model.fetchSnapshot())
		}
		return model, tea.Batch(commands...)

	case snapshotMsg:
		model.polling = false
		if message.err != nil {
			return model.applyPollFailure(message.err), nil
		}
		return model.applySnapshot(message.snapshot)

	case barTickMsg:
		if model.bars.advance() {
			return model, model.scheduleBarTick()
		}
		return model, nil

	case toggleResultMsg:
		return model.applyToggleResult(message), nil

	case audioStateMsg:
		if message.err != nil {
			model.logger.Warn("audio state request failed", "muted", message.muted, "error", message.err)
		}
		return model, nil

	case askResultMsg:
		return model.applyAskResult(message), nil

	case voiceResultMsg:
		return model.applyVoiceResult(message)

	case facesMsg:
		if model.roster == nil {
			return model, nil // Overlay closed before the fetch resolved.
		}
		if message.err != nil {
			model.logger.Warn("face roster fetch failed", "error", message.err)
			model.roster.SetFaces(nil)
			model.roster.Notice = "Could not load faces."
			return model, nil
		}
		model.roster.SetFaces(message.faces)
		return model, nil

	case faceMutationMsg:
		if model.roster == nil {
			return model, nil
		}
		model.roster.Busy = false
		if message.err != nil {
			model.logger.Warn("face "+message.action+" failed", "error", message.err)
			model.roster.Notice = "Face " + message.action + " failed."
			return model, nil
		}
		if message.action == "upload" {
			model.roster.ClearForm()
		}
		return model, model.loadFaces()

	case overlayPrefMsg:
		if message.err != nil {
			// Revert the optimistic flip.
			model.showOverlays = !message.show
			model.logger.Warn("overlay preference update failed", "error", message.err)
		}
		return model, nil

	case tea.KeyMsg:
		return model.handleKey(message)
	}

	return model, nil
}

// handleKey routes keyboard input: overlays capture everything while
// open.
func (model Model) handleKey(message tea.KeyMsg) (Model, tea.Cmd) {
	if model.askModal != nil {
		return model.handleAskKey(message)
	}
	if model.roster != nil {
		return model.handleRosterKey(message)
	}

	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.ToggleSystem):
		return model.startToggle()

	case key.Matches(message, model.keys.ToggleOverlays):
		model.showOverlays = !model.showOverlays
		return model, model.sendOverlayPref(model.showOverlays)

	case key.Matches(message, model.keys.OpenAsk):
		model.askModal = NewAskModal(model.recognizer != nil, model.theme)
		// Opening mutes the backend's spoken feedback so it cannot
		// talk over the conversation.
		return model, model.setAudioState(true)

	case key.Matches(message, model.keys.OpenRoster):
		model.roster = NewRosterOverlay(model.theme)
		return model, model.loadFaces()

	case key.Matches(message, model.keys.LogsUp):
		model.logsFollowTail = false
		model.logView.LineUp(1)
		return model, nil

	case key.Matches(message, model.keys.LogsDown):
		model.logView.LineDown(1)
		if model.logView.AtBottom() {
			model.logsFollowTail = true
		}
		return model, nil
	}

	return model, nil
}

// --- Poll loop ---

// schedulePoll arms the next cadence tick through the injected clock,
// so tests can drive the poll loop with a fake clock instead of
// sleeping.
func (model Model) schedulePoll() tea.Cmd {
	clk := model.clock
	interval := model.pollInterval
	return func() tea.Msg {
		<-clk.After(interval)
		return pollTickMsg{}
	}
}

func (model Model) fetchSnapshot() tea.Cmd {
	client := model.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
		defer cancel()
		snapshot, err := client.Status(ctx)
		return snapshotMsg{snapshot: snapshot, err: err}
	}
}

// applyPollFailure is the status-only update for a failed poll:
// detections, guidance, and logs keep their last-rendered content;
// only the connection badge flips.
func (model Model) applyPollFailure(err error) Model {
	if model.conn != Disconnected {
		model.logger.Warn("Connection to backend lost.", "error", err)
	}
	model.conn = Disconnected
	model.seenPoll = true
	return model
}

// applySnapshot reconciles one successful poll. All slice updates come
// from this single snapshot; scalars (status, activation, fps) are
// reconciled unconditionally, list slices only when their fingerprint
// moved.
func (model Model) applySnapshot(snapshot api.Snapshot) (Model, tea.Cmd) {
	if model.seenPoll && model.conn == Disconnected {
		model.logger.Info("Connection to backend restored.")
	}
	model.seenPoll = true
	model.conn = connStateFromStatus(snapshot.Status)
	model.fps = snapshot.FPS

	// The switch reflects backend truth except while the user's own
	// toggle request is still in flight — snapping it back before the
	// round trip resolves would fight the user.
	if !model.pendingToggle {
		model.systemActive = snapshot.SystemActive
	}

	delta := model.rendered.Diff(snapshot)
	if model.askModal != nil {
		// The user is reading or composing; hold guidance steady.
		// The skipped text resurfaces on the first poll after close.
		delta.SuppressGuidance()
	}

	var commands []tea.Cmd
	if delta.Detections {
		model.detections = snapshot.Detections
		model.bars.restart()
		model.rendered.CommitDetections(delta)
		commands = append(commands, model.scheduleBarTick())
	}
	if delta.Logs {
		model.serverLogs = snapshot.Logs
		model.rendered.CommitLogs(delta)
		model.logsFollowTail = true
	}
	if delta.Guidance {
		model.guidance = snapshot.Guidance
		model.guidanceRendered = renderMarkdown(snapshot.Guidance, model.theme, model.guidanceWidth())
		model.rendered.CommitGuidance(delta)
	}

	return model, tea.Batch(commands...)
}

func (model Model) scheduleBarTick() tea.Cmd {
	return tea.Tick(barTickInterval, func(time.Time) tea.Msg {
		return barTickMsg{}
	})
}

// --- Activation toggle ---

func (model Model) startToggle() (Model, tea.Cmd) {
	if model.pendingToggle {
		return model, nil
	}
	target := !model.systemActive
	model.systemActive = target
	model.pendingToggle = true

	client := model.client
	return model, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.SetSystemState(ctx, target)
		return toggleResultMsg{target: target, err: err}
	}
}

func (model Model) applyToggleResult(message toggleResultMsg) Model {
	model.pendingToggle = false
	if message.err != nil {
		// Revert to the pre-click position.
		model.systemActive = !message.target
		model.logger.Warn("System toggle failed.", "error", message.err)
		return model
	}
	if message.target {
		model.logger.Info("System Started.")
	} else {
		model.logger.Info("System Stopped.")
	}
	return model
}

// --- Overlay preference ---

func (model Model) sendOverlayPref(show bool) tea.Cmd {
	client := model.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.SetOverlays(ctx, show)
		return overlayPrefMsg{show: show, err: err}
	}
}

// --- Ask dialog ---

func (model Model) handleAskKey(message tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Close):
		return model.closeAsk()

	case key.Matches(message, model.keys.Submit):
		return model.submitAsk()

	case key.Matches(message, model.keys.Mic):
		return model.toggleVoice()
	}

	if model.askModal.Voice == VoiceError {
		// Any interaction after a failed capture returns the
		// sub-machine to idle.
		model.askModal.Voice = VoiceIdle
	}
	model.askModal.Update(message)
	return model, nil
}

func (model Model) closeAsk() (Model, tea.Cmd) {
	model.askModal = nil
	model.cancelVoice()
	// Invalidate any in-flight ask so a late answer for this closed
	// dialog is dropped rather than resurrected by a reopen.
	model.askSeq++
	return model, model.setAudioState(false)
}

func (model Model) submitAsk() (Model, tea.Cmd) {
	// A submission supersedes a running capture.
	model.cancelVoice()
	if model.askModal.Voice == VoiceListening {
		model.askModal.Voice = VoiceIdle
	}

	question, ok := model.askModal.TakeQuestion()
	if !ok {
		return model, nil
	}

	model.askModal.Thinking = true
	model.askModal.Failed = false
	model.askModal.Answer = ""
	model.askSeq++
	seq := model.askSeq

	client := model.client
	return model, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		answer, err := client.Ask(ctx, question)
		return askResultMsg{seq: seq, answer: answer, err: err}
	}
}

func (model Model) applyAskResult(message askResultMsg) Model {
	if model.askModal == nil || message.seq != model.askSeq {
		return model // Late response for a closed or superseded ask.
	}
	model.askModal.Thinking = false
	if message.err != nil {
		model.askModal.Failed = true
		model.logger.Warn("Ask request failed.", "error", message.err)
		return model
	}
	model.askModal.Answer = message.answer
	if model.synthesizer != nil {
		// Speak cancels any in-flight utterance first.
		model.synthesizer.Speak(message.answer)
	}
	return model
}

// --- Voice capture sub-machine ---

func (model Model) toggleVoice() (Model, tea.Cmd) {
	if !model.askModal.HasMic {
		return model, nil
	}

	if model.askModal.Voice == VoiceListening {
		model.cancelVoice()
		model.askModal.Voice = VoiceIdle
		return model, nil
	}

	model.askModal.Voice = VoiceListening
	model.voiceSeq++
	seq := model.voiceSeq

	ctx, cancel := context.WithCancel(context.Background())
	model.voiceCancel = cancel

	recognizer := model.recognizer
	return model, func() tea.Msg {
		transcript, err := recognizer.Listen(ctx)
		return voiceResultMsg{seq: seq, transcript: transcript, err: err}
	}
}

// cancelVoice stops a running capture and invalidates its result.
func (model *Model) cancelVoice() {
	if model.voiceCancel != nil {
		model.voiceCancel()
		model.voiceCancel = nil
	}
	model.voiceSeq++
}

func (model Model) applyVoiceResult(message voiceResultMsg) (Model, tea.Cmd) {
	if model.askModal == nil || message.seq != model.voiceSeq {
		return model, nil // Capture was cancelled or the dialog closed.
	}
	model.voiceCancel = nil
	if message.err != nil {
		model.askModal.Voice = VoiceError
		model.logger.Warn("Voice capture failed.", "error", message.err)
		return model, nil
	}
	model.askModal.Voice = VoiceIdle
	// Recognized transcripts auto-submit: no separate confirm step.
	model.askModal.SetInput(message.transcript)
	return model.submitAsk()
}

// --- Audio mute ---

func (model Model) setAudioState(muted bool) tea.Cmd {
	client := model.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.SetAudioState(ctx, muted)
		return audioStateMsg{muted: muted, err: err}
	}
}

// --- Face roster ---

func (model Model) handleRosterKey(message tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Close):
		model.roster = nil
		return model, nil

	case key.Matches(message, model.keys.Submit):
		return model.submitFace()

	case key.Matches(message, model.keys.DeleteFace):
		return model.deleteSelectedFace()

	case key.Matches(message, model.keys.NextField):
		model.roster.CycleField()
		return model, nil
	}

	model.roster.Update(message)
	return model, nil
}

func (model Model) submitFace() (Model, tea.Cmd) {
	if model.roster.Busy {
		return model, nil
	}
	name, path, ok := model.roster.TakeSubmission()
	if !ok {
		return model, nil
	}
	model.roster.Busy = true

	client := model.client
	return model, func() tea.Msg {
		file, err := os.Open(path)
		if err != nil {
			return faceMutationMsg{action: "upload", err: fmt.Errorf("open image: %w", err)}
		}
		defer file.Close()

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err = client.UploadFace(ctx, name, file.Name(), file)
		return faceMutationMsg{action: "upload", err: err}
	}
}

func (model Model) deleteSelectedFace() (Model, tea.Cmd) {
	if model.roster.Busy {
		return model, nil
	}
	face, ok := model.roster.SelectedFace()
	if !ok {
		return model, nil
	}
	model.roster.Busy = true

	client := model.client
	return model, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.DeleteFace(ctx, face.ID)
		return faceMutationMsg{action: "delete", err: err}
	}
}

func (model Model) loadFaces() tea.Cmd {
	client := model.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		faces, err := client.Faces(ctx)
		return facesMsg{faces: faces, err: err}
	}
}

// --- Log pane ---

// syncLogPane rebuilds the log pane when its content moved: a dirty
// server mirror or new local ring entries. Every local append
// re-scrolls the pane to its tail.
func (model *Model) syncLogPane() {
	generation := model.ring.Generation()
	if generation != model.ringGeneration {
		model.ringGeneration = generation
		model.logsFollowTail = true
	}

	model.logView.SetContent(model.logPaneContent())
	if model.logsFollowTail {
		model.logView.GotoBottom()
	}
}
