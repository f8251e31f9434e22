// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// VoiceState is the voice-capture sub-state of the ask dialog.
type VoiceState int

const (
	// VoiceIdle: the mic is not capturing.
	VoiceIdle VoiceState = iota
	// VoiceListening: a capture is in progress; its transcript will
	// auto-submit.
	VoiceListening
	// VoiceError: the last capture failed. Rendering-only state; the
	// next mic press starts a fresh capture.
	VoiceError
)

// AskModal is the Ask-AI dialog: a single-line question input over an
// answer area, with an optional voice-capture control. The modal owns
// only presentation state; request lifecycles (ask, mute, capture)
// live in the Model so late responses for a closed dialog can be
// dropped centrally.
type AskModal struct {
	input  []rune
	cursor int

	// Thinking is true while an ask request is in flight.
	Thinking bool
	// Answer holds the response text once a request resolved.
	Answer string
	// Failed marks the answer area as a generic error notice.
	Failed bool

	// Voice is the capture sub-state. Only meaningful when HasMic.
	Voice  VoiceState
	HasMic bool

	theme Theme
}

// NewAskModal creates an empty, focused ask dialog. hasMic controls
// whether the voice affordance is shown at all — an absent capability
// is hidden, never disabled.
func NewAskModal(hasMic bool, theme Theme) *AskModal {
	return &AskModal{HasMic: hasMic, theme: theme}
}

// Update processes a key message for the input line.
func (modal *AskModal) Update(message tea.KeyMsg) {
	switch message.Type {
	case tea.KeyRunes, tea.KeySpace:
		for _, character := range message.Runes {
			modal.insertRune(character)
		}

	case tea.KeyBackspace:
		if modal.cursor > 0 {
			modal.input = append(modal.input[:modal.cursor-1], modal.input[modal.cursor:]...)
			modal.cursor--
		}

	case tea.KeyDelete:
		if modal.cursor < len(modal.input) {
			modal.input = append(modal.input[:modal.cursor], modal.input[modal.cursor+1:]...)
		}

	case tea.KeyLeft:
		if modal.cursor > 0 {
			modal.cursor--
		}

	case tea.KeyRight:
		if modal.cursor < len(modal.input) {
			modal.cursor++
		}

	case tea.KeyHome, tea.KeyCtrlA:
		modal.cursor = 0

	case tea.KeyEnd, tea.KeyCtrlE:
		modal.cursor = len(modal.input)
	}
}

func (modal *AskModal) insertRune(character rune) {
	next := make([]rune, len(modal.input)+1)
	copy(next, modal.input[:modal.cursor])
	next[modal.cursor] = character
	copy(next[modal.cursor+1:], modal.input[modal.cursor:])
	modal.input = next
	modal.cursor++
}

// SetInput replaces the input line (voice transcripts land here).
func (modal *AskModal) SetInput(text string) {
	modal.input = []rune(text)
	modal.cursor = len(modal.input)
}

// TakeQuestion trims and returns the input, clearing it so the user
// can queue a new thought while the request runs. Returns ok=false
// for an empty or whitespace-only input — no request should be made.
func (modal *AskModal) TakeQuestion() (string, bool) {
	question := strings.TrimSpace(string(modal.input))
	modal.input = nil
	modal.cursor = 0
	if question == "" {
		return "", false
	}
	return question, true
}

// Modal chrome: 2 columns border + 2 padding horizontal; 2 lines
// border + title + input + blank + footer vertical.
const (
	askModalChromeWidth  = 4
	askModalChromeHeight = 6
	askModalMinInner     = 30
	askModalMaxInner     = 70
)

// Render produces the modal overlay lines and its centered anchor.
func (modal *AskModal) Render(screenWidth, screenHeight int) ([]string, int, int) {
	innerWidth := screenWidth - askModalChromeWidth - 8
	if innerWidth < askModalMinInner {
		innerWidth = askModalMinInner
	}
	if innerWidth > askModalMaxInner {
		innerWidth = askModalMaxInner
	}
	if innerWidth > screenWidth-askModalChromeWidth {
		innerWidth = screenWidth - askModalChromeWidth
	}

	background := lipgloss.NewStyle().Background(modal.theme.ModalBackground)
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(modal.theme.HeaderForeground).
		Background(modal.theme.ModalBackground)
	faintStyle := lipgloss.NewStyle().
		Foreground(modal.theme.FaintText).
		Background(modal.theme.ModalBackground)
	textStyle := lipgloss.NewStyle().
		Foreground(modal.theme.NormalText).
		Background(modal.theme.ModalBackground)
	cursorStyle := lipgloss.NewStyle().Reverse(true)
	errorStyle := lipgloss.NewStyle().
		Foreground(modal.theme.NoticeError).
		Background(modal.theme.ModalBackground)

	pad := func(line string) string {
		width := ansi.StringWidth(line)
		if width < innerWidth {
			line += background.Render(strings.Repeat(" ", innerWidth-width))
		}
		return line
	}

	var lines []string
	lines = append(lines, pad(titleStyle.Render("Ask Aegis")))
	lines = append(lines, pad(modal.renderInput(innerWidth, textStyle, faintStyle, cursorStyle)))
	lines = append(lines, pad(""))

	switch {
	case modal.Thinking:
		lines = append(lines, pad(faintStyle.Render("Thinking…")))
	case modal.Failed:
		lines = append(lines, pad(errorStyle.Render("Sorry, something went wrong. Please try again.")))
	case modal.Answer != "":
		answer := renderMarkdown(modal.Answer, modal.theme, innerWidth)
		for _, answerLine := range strings.Split(answer, "\n") {
			lines = append(lines, pad(answerLine))
		}
	}

	lines = append(lines, pad(""))
	help := "enter ask  esc close"
	if modal.HasMic {
		help = "enter ask  ctrl+r voice  esc close"
	}
	lines = append(lines, pad(faintStyle.Render(help)))

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(modal.theme.BorderColor).
		Background(modal.theme.ModalBackground).
		Padding(0, 1)

	rendered := borderStyle.Render(strings.Join(lines, "\n"))
	resultLines := strings.Split(rendered, "\n")

	renderedWidth := 0
	if len(resultLines) > 0 {
		renderedWidth = ansi.StringWidth(resultLines[0])
	}
	anchorX := (screenWidth - renderedWidth) / 2
	anchorY := (screenHeight - len(resultLines)) / 2
	if anchorX < 0 {
		anchorX = 0
	}
	if anchorY < 0 {
		anchorY = 0
	}
	return resultLines, anchorX, anchorY
}

// renderInput draws the question line: typed text with a cursor, or a
// placeholder reflecting the voice state when empty.
func (modal *AskModal) renderInput(innerWidth int, textStyle, faintStyle, cursorStyle lipgloss.Style) string {
	if len(modal.input) == 0 && modal.cursor == 0 {
		placeholder := "Ask a question…"
		switch modal.Voice {
		case VoiceListening:
			placeholder = "Listening…"
		case VoiceError:
			placeholder = "Voice capture failed. Ask a question…"
		}
		return cursorStyle.Render(" ") + faintStyle.Render(" "+placeholder)
	}

	// Keep the cursor visible when the input exceeds the width.
	visible := modal.input
	cursor := modal.cursor
	if cursor >= innerWidth-1 {
		offset := cursor - (innerWidth - 2)
		visible = visible[offset:]
		cursor = innerWidth - 2
	}

	if cursor >= len(visible) {
		return textStyle.Render(string(visible)) + cursorStyle.Render(" ")
	}
	return textStyle.Render(string(visible[:cursor])) +
		cursorStyle.Render(string(visible[cursor:cursor+1])) +
		textStyle.Render(string(visible[cursor+1:]))
}
