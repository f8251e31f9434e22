// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/aegis-vision/aegis/lib/api"
)

// rosterField identifies which input of the add-face form is active.
type rosterField int

const (
	fieldName rosterField = iota
	fieldPath
)

// RosterOverlay manages the reference-face roster: the list fetched
// from the backend plus a two-field add form (name, image path). The
// overlay owns presentation and input validation; the Model issues
// the actual roster requests and refreshes the list on completion.
type RosterOverlay struct {
	faces  []api.Face
	loaded bool
	cursor int

	nameInput   []rune
	pathInput   []rune
	activeField rosterField

	// Notice is a blocking inline validation message ("Name and
	// image file are required."). Cleared on the next keystroke.
	Notice string

	// Busy is true while an upload or delete is in flight, so the
	// form cannot double-submit.
	Busy bool

	theme Theme
}

// NewRosterOverlay creates the roster overlay in its loading state.
func NewRosterOverlay(theme Theme) *RosterOverlay {
	return &RosterOverlay{theme: theme}
}

// SetFaces replaces the roster list after a fetch or refresh.
func (overlay *RosterOverlay) SetFaces(faces []api.Face) {
	overlay.faces = faces
	overlay.loaded = true
	if overlay.cursor >= len(faces) {
		overlay.cursor = len(faces) - 1
	}
	if overlay.cursor < 0 {
		overlay.cursor = 0
	}
}

// SelectedFace returns the face under the cursor.
func (overlay *RosterOverlay) SelectedFace() (api.Face, bool) {
	if len(overlay.faces) == 0 || overlay.cursor >= len(overlay.faces) {
		return api.Face{}, false
	}
	return overlay.faces[overlay.cursor], true
}

// CycleField switches the add form's active input between the name
// and path fields.
func (overlay *RosterOverlay) CycleField() {
	overlay.Notice = ""
	if overlay.activeField == fieldName {
		overlay.activeField = fieldPath
	} else {
		overlay.activeField = fieldName
	}
}

// Update processes a key message: list navigation and form editing.
// Any keystroke clears a standing validation notice.
func (overlay *RosterOverlay) Update(message tea.KeyMsg) {
	overlay.Notice = ""

	switch message.Type {
	case tea.KeyUp:
		if overlay.cursor > 0 {
			overlay.cursor--
		}
	case tea.KeyDown:
		if overlay.cursor < len(overlay.faces)-1 {
			overlay.cursor++
		}
	case tea.KeyRunes, tea.KeySpace:
		field := overlay.activeInput()
		*field = append(*field, message.Runes...)
	case tea.KeyBackspace:
		field := overlay.activeInput()
		if len(*field) > 0 {
			*field = (*field)[:len(*field)-1]
		}
	}
}

func (overlay *RosterOverlay) activeInput() *[]rune {
	if overlay.activeField == fieldName {
		return &overlay.nameInput
	}
	return &overlay.pathInput
}

// TakeSubmission validates and returns the form values. On missing
// input it sets the inline notice and reports ok=false — no request
// must be attempted. The form is cleared only on success, so a failed
// upload keeps the user's input for retry.
func (overlay *RosterOverlay) TakeSubmission() (name, path string, ok bool) {
	name = strings.TrimSpace(string(overlay.nameInput))
	path = strings.TrimSpace(string(overlay.pathInput))
	if name == "" || path == "" {
		overlay.Notice = "Name and image file are required."
		return "", "", false
	}
	return name, path, true
}

// ClearForm resets the add form after a successful upload.
func (overlay *RosterOverlay) ClearForm() {
	overlay.nameInput = nil
	overlay.pathInput = nil
	overlay.activeField = fieldName
}

// Render produces the roster overlay lines and a centered anchor.
func (overlay *RosterOverlay) Render(screenWidth, screenHeight int) ([]string, int, int) {
	innerWidth := 44
	if innerWidth > screenWidth-4 {
		innerWidth = screenWidth - 4
	}

	background := lipgloss.NewStyle().Background(overlay.theme.ModalBackground)
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(overlay.theme.HeaderForeground).
		Background(overlay.theme.ModalBackground)
	faintStyle := lipgloss.NewStyle().
		Foreground(overlay.theme.FaintText).
		Background(overlay.theme.ModalBackground)
	textStyle := lipgloss.NewStyle().
		Foreground(overlay.theme.NormalText).
		Background(overlay.theme.ModalBackground)
	selectedStyle := lipgloss.NewStyle().
		Foreground(overlay.theme.SelectedForeground).
		Background(overlay.theme.SelectedBackground)
	noticeStyle := lipgloss.NewStyle().
		Foreground(overlay.theme.NoticeError).
		Background(overlay.theme.ModalBackground)

	pad := func(line string) string {
		width := ansi.StringWidth(line)
		if width < innerWidth {
			line += background.Render(strings.Repeat(" ", innerWidth-width))
		}
		return line
	}

	var lines []string
	lines = append(lines, pad(titleStyle.Render("Reference Faces")))
	lines = append(lines, pad(""))

	switch {
	case !overlay.loaded:
		lines = append(lines, pad(faintStyle.Render("Loading…")))
	case len(overlay.faces) == 0:
		lines = append(lines, pad(faintStyle.Render("No faces registered.")))
	default:
		for index, face := range overlay.faces {
			row := fmt.Sprintf("%s (#%d)", face.Name, face.ID)
			row = ansi.Truncate(row, innerWidth, "…")
			if index == overlay.cursor {
				lines = append(lines, pad(selectedStyle.Render(row)))
			} else {
				lines = append(lines, pad(textStyle.Render(row)))
			}
		}
	}

	lines = append(lines, pad(""))
	lines = append(lines, pad(overlay.renderField("Name", overlay.nameInput, fieldName, textStyle, faintStyle)))
	lines = append(lines, pad(overlay.renderField("Image", overlay.pathInput, fieldPath, textStyle, faintStyle)))

	if overlay.Notice != "" {
		lines = append(lines, pad(noticeStyle.Render(overlay.Notice)))
	} else if overlay.Busy {
		lines = append(lines, pad(faintStyle.Render("Working…")))
	} else {
		lines = append(lines, pad(""))
	}

	lines = append(lines, pad(faintStyle.Render("enter add  ctrl+d delete  tab field  esc close")))

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(overlay.theme.BorderColor).
		Background(overlay.theme.ModalBackground).
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

// renderField draws one labeled form input with a cursor marker on
// the active field.
func (overlay *RosterOverlay) renderField(label string, value []rune, field rosterField, textStyle, faintStyle lipgloss.Style) string {
	marker := "  "
	if overlay.activeField == field {
		marker = "> "
	}
	content := string(value)
	if content == "" {
		return faintStyle.Render(fmt.Sprintf("%s%s: ", marker, label))
	}
	return textStyle.Render(fmt.Sprintf("%s%s: %s", marker, label, content))
}
