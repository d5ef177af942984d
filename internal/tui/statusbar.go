package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StatusBar renders the persistent top bar with movie name, transport
// state, tree position, and playhead time.
type StatusBar struct {
	Name       string
	Mode       string // PLAYING, SCRUBBING, IDLE, DISABLED
	TreeIndex  int
	TreeCount  int
	SegIndex   int
	SegCount   int
	PlayheadMS float64
	TotalMS    float64
	Width      int
}

// View renders the status bar as a single line. Narrow terminals drop
// the time segment first, then the segment counter.
func (s StatusBar) View() string {
	const barPadding = 2
	innerWidth := s.Width - barPadding
	if innerWidth < 0 {
		innerWidth = 0
	}

	mode := s.renderMode()
	name := styleStatusValue.Render(s.Name)

	trees := styleStatusLabel.Render("tree ") +
		styleStatusValue.Render(fmt.Sprintf("%d/%d", s.TreeIndex+1, s.TreeCount))
	segs := styleStatusLabel.Render("seg ") +
		styleStatusValue.Render(fmt.Sprintf("%d/%d", s.SegIndex+1, s.SegCount))
	clock := styleStatusValue.Render(formatClock(s.PlayheadMS) + " / " + formatClock(s.TotalMS))

	segments := []string{name, mode, trees, segs, clock}
	line := strings.Join(segments, "  ")

	// Drop low-priority segments until the line fits.
	for lipgloss.Width(line) > innerWidth && len(segments) > 2 {
		segments = segments[:len(segments)-1]
		line = strings.Join(segments, "  ")
	}
	if lipgloss.Width(line) > innerWidth {
		line = truncateToWidth(line, innerWidth)
	}

	return styleStatusBar.Width(s.Width).Render(line)
}

func (s StatusBar) renderMode() string {
	switch s.Mode {
	case "PLAYING":
		return styleStatusPlaying.Render("▶ " + s.Mode)
	case "SCRUBBING":
		return styleStatusScrub.Render("↔ " + s.Mode)
	default:
		return styleStatusIdle.Render("‖ " + s.Mode)
	}
}

// formatClock renders milliseconds as m:ss.mmm.
func formatClock(ms float64) string {
	if ms < 0 {
		ms = 0
	}
	total := int(ms)
	minutes := total / 60000
	seconds := (total % 60000) / 1000
	millis := total % 1000
	return fmt.Sprintf("%d:%02d.%03d", minutes, seconds, millis)
}

// truncateToWidth hard-clips a styled line to the given cell width.
func truncateToWidth(line string, width int) string {
	if width <= 0 {
		return ""
	}
	for lipgloss.Width(line) > width {
		r := []rune(line)
		if len(r) == 0 {
			return ""
		}
		line = string(r[:len(r)-1])
	}
	return line
}
