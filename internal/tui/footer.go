package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Footer renders the key help line from the active key map.
type Footer struct {
	Keys  KeyMap
	Width int
}

// View renders the footer as a single bordered line.
func (f Footer) View() string {
	bindings := []key.Binding{
		f.Keys.PlayPause,
		f.Keys.StepBack,
		f.Keys.StepFwd,
		f.Keys.PrevAnchor,
		f.Keys.NextAnchor,
		f.Keys.ScrubBack,
		f.Keys.ScrubFwd,
		f.Keys.Segment,
		f.Keys.Quit,
	}

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts,
			styleFooterKey.Render(h.Key)+styleFooterSep.Render(":")+styleFooterDesc.Render(h.Desc))
	}

	line := strings.Join(parts, styleFooterSep.Render("  "))
	return styleFooter.Width(f.Width).Render(line)
}
