// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/aegis-vision/aegis/lib/api"
)

// Confidence bar animation. A dirty detection render draws every bar
// at zero width first, then grows it toward its true value over the
// following ticks — the zero frame must reach the screen before any
// growth, or the terminal repaint collapses the entrance into a
// static bar. Unchanged snapshots never restart the animation (the
// fingerprint check upstream suppresses the re-render entirely).
const (
	barAnimationSteps = 8
	barTickInterval   = 50 * time.Millisecond
)

// barAnimation tracks the shared growth fraction for the detection
// pane's confidence bars.
type barAnimation struct {
	step   int
	active bool
}

// restart resets the animation to the zero-width frame.
func (animation *barAnimation) restart() {
	animation.step = 0
	animation.active = true
}

// advance moves the animation one tick. Returns true while more ticks
// are needed.
func (animation *barAnimation) advance() bool {
	if !animation.active {
		return false
	}
	animation.step++
	if animation.step >= barAnimationSteps {
		animation.active = false
	}
	return animation.active
}

// fraction returns the current growth fraction in [0, 1].
func (animation *barAnimation) fraction() float64 {
	if !animation.active {
		return 1.0
	}
	return float64(animation.step) / float64(barAnimationSteps)
}

// confidencePercent converts a confidence in [0, 1] to the displayed
// whole percentage. Round-half-up so 0.5 shows as 50 and 0.995 as 100.
func confidencePercent(confidence float64) int {
	return int(math.Floor(confidence*100 + 0.5))
}

// detectionCountLabel returns the running count badge text.
func detectionCountLabel(count int) string {
	if count == 1 {
		return "1 object"
	}
	return fmt.Sprintf("%d objects", count)
}

const noDetectionsPlaceholder = "No objects detected."

// renderDetections produces the detection pane body: one row per
// detection in input order, or a single placeholder row when the list
// is empty. Each row shows the label, a danger tag when flagged, a
// confidence bar scaled by the animation fraction, and the percentage.
func renderDetections(detections []api.Detection, animation *barAnimation, width int, theme Theme) []string {
	if len(detections) == 0 {
		return []string{lipgloss.NewStyle().Foreground(theme.FaintText).Render(noDetectionsPlaceholder)}
	}

	labelStyle := lipgloss.NewStyle().Foreground(theme.NormalText)
	dangerStyle := lipgloss.NewStyle().Foreground(theme.DangerForeground).Bold(true)
	percentStyle := lipgloss.NewStyle().Foreground(theme.FaintText)

	var rows []string
	for _, detection := range detections {
		label := labelStyle.Render(detection.Label)
		if detection.IsDangerous {
			label = dangerStyle.Render("⚠ "+detection.Label) + dangerStyle.Render(" [DANGER]")
		}

		percent := confidencePercent(detection.Confidence)
		percentText := percentStyle.Render(fmt.Sprintf("%3d%%", percent))

		// Bar track width: whatever the pane leaves after the label
		// line. Bars live on their own line so long labels never
		// squeeze them away.
		trackWidth := width - 6
		if trackWidth < 4 {
			trackWidth = 4
		}
		bar := renderConfidenceBar(percent, animation.fraction(), trackWidth, theme)

		rows = append(rows, ansi.Truncate(label, width, "…"))
		rows = append(rows, bar+" "+percentText)
	}
	return rows
}

// renderConfidenceBar draws a bar whose filled portion is the target
// percentage scaled by the animation fraction.
func renderConfidenceBar(percent int, fraction float64, trackWidth int, theme Theme) string {
	target := float64(trackWidth) * float64(percent) / 100.0
	filled := int(math.Round(target * fraction))
	if filled > trackWidth {
		filled = trackWidth
	}

	filledStyle := lipgloss.NewStyle().Foreground(theme.BarFilled)
	emptyStyle := lipgloss.NewStyle().Foreground(theme.BarEmpty)
	return filledStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", trackWidth-filled))
}
