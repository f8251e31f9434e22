// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const guidancePlaceholder = "Welcome. System is listening."
const logsPlaceholder = "No logs available."

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "Initializing…"
	}

	detectionHeight, guidanceHeight, logHeight := model.paneHeights()

	header := model.renderHeader()
	detectionPane := model.renderPane(
		"Detections · "+detectionCountLabel(len(model.detections)),
		strings.Join(renderDetections(model.detections, &model.bars, model.paneInnerWidth(), model.theme), "\n"),
		detectionHeight,
	)
	guidancePane := model.renderPane("Guidance", model.guidanceBody(), guidanceHeight)
	logPane := model.renderPane("Logs", model.logView.View(), logHeight)
	help := model.renderHelp()

	view := lipgloss.JoinVertical(lipgloss.Left, header, detectionPane, guidancePane, logPane, help)

	if model.askModal != nil {
		lines, anchorX, anchorY := model.askModal.Render(model.width, model.height)
		view = spliceOverlay(view, lines, anchorX, anchorY)
	}
	if model.roster != nil {
		lines, anchorX, anchorY := model.roster.Render(model.width, model.height)
		view = spliceOverlay(view, lines, anchorX, anchorY)
	}
	return view
}

// paneHeights splits the vertical space between the three panes:
// header and help take one line each, detections and guidance split
// just under half of the rest, logs take the remainder.
func (model Model) paneHeights() (detections, guidance, logs int) {
	available := model.height - 2
	if available < 9 {
		available = 9
	}
	detections = available * 3 / 10
	if detections < 3 {
		detections = 3
	}
	guidance = available * 3 / 10
	if guidance < 3 {
		guidance = 3
	}
	logs = available - detections - guidance
	if logs < 3 {
		logs = 3
	}
	return detections, guidance, logs
}

// paneInnerWidth is the content width inside a pane border.
func (model Model) paneInnerWidth() int {
	width := model.width - 4
	if width < 20 {
		width = 20
	}
	return width
}

func (model Model) guidanceWidth() int {
	return model.paneInnerWidth()
}

// layoutLogPane resizes the log viewport after a terminal resize.
func (model *Model) layoutLogPane() {
	_, _, logHeight := model.paneHeights()
	model.logView.Width = model.paneInnerWidth()
	model.logView.Height = logHeight - 3 // Border and title.
	if model.logView.Height < 1 {
		model.logView.Height = 1
	}
}

func (model Model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	faintStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	badgeStyle := lipgloss.NewStyle().Bold(true).Foreground(model.conn.Color(model.theme))

	segments := []string{
		titleStyle.Render("AEGIS"),
		badgeStyle.Render(model.conn.Label()),
	}

	if model.fps != nil {
		segments = append(segments, faintStyle.Render(fmt.Sprintf("%.1f fps", *model.fps)))
	}

	systemLabel := "system OFF"
	if model.systemActive {
		systemLabel = "system ON"
	}
	if model.pendingToggle {
		systemLabel += "…"
	}
	segments = append(segments, faintStyle.Render(systemLabel))

	overlayLabel := "overlays OFF"
	if model.showOverlays {
		overlayLabel = "overlays ON"
	}
	segments = append(segments, faintStyle.Render(overlayLabel))

	if model.user.Name != "" {
		segments = append(segments, faintStyle.Render(model.user.Name))
	}

	header := strings.Join(segments, "  ")
	return ansi.Truncate(header, model.width, "…")
}

// renderPane draws a bordered pane with a title line, clipping the
// body to the pane height.
func (model Model) renderPane(title, body string, height int) string {
	innerHeight := height - 3 // Border and title.
	if innerHeight < 1 {
		innerHeight = 1
	}

	bodyLines := strings.Split(body, "\n")
	if len(bodyLines) > innerHeight {
		bodyLines = bodyLines[:innerHeight]
	}
	innerWidth := model.paneInnerWidth()
	for index, line := range bodyLines {
		if ansi.StringWidth(line) > innerWidth {
			bodyLines[index] = ansi.Truncate(line, innerWidth, "…")
		}
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	content := titleStyle.Render(ansi.Truncate(title, innerWidth, "…")) + "\n" + strings.Join(bodyLines, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(model.theme.BorderColor).
		Width(innerWidth + 2).
		Height(height - 2).
		Padding(0, 1).
		Render(content)
}

func (model Model) guidanceBody() string {
	if strings.TrimSpace(model.guidance) == "" {
		return lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(guidancePlaceholder)
	}
	return model.guidanceRendered
}

// logPaneContent builds the log pane text: server-reported lines
// first, then the local diagnostic ring in append order. An empty
// server mirror shows the placeholder in its place rather than
// collapsing silently.
func (model Model) logPaneContent() string {
	var lines []string
	if len(model.serverLogs) == 0 {
		placeholder := lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(logsPlaceholder)
		lines = append(lines, placeholder)
	} else {
		lines = append(lines, model.serverLogs...)
	}
	for _, entry := range model.ring.Entries() {
		lines = append(lines, entry.Line())
	}
	return strings.Join(lines, "\n")
}

func (model Model) renderHelp() string {
	helpStyle := lipgloss.NewStyle().Foreground(model.theme.HelpText)
	help := "s start/stop  a ask  f faces  o overlays  ↑/↓ logs  q quit"
	return helpStyle.Render(ansi.Truncate(help, model.width, "…"))
}
