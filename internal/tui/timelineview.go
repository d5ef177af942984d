package tui

import (
	"strings"

	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/timeline"
)

// TimelineView renders the segment bar with a playhead marker. Cell
// widths are proportional to segment durations; every segment gets at
// least one cell so short anchor dwells stay visible.
type TimelineView struct {
	Segments   []timeline.Segment
	Data       timeline.Data
	Width      int
	ActiveSeg  int
	PlayheadMS float64
}

// View renders two lines: the playhead marker row and the segment bar.
func (v TimelineView) View() string {
	if len(v.Segments) == 0 || v.Width <= 0 || v.Data.Total <= 0 {
		return ""
	}

	widths := v.cellWidths()

	var bar strings.Builder
	for i, seg := range v.Segments {
		glyph := glyphStep
		style := styleSegInterp
		if seg.IsAnchor {
			glyph = glyphAnchor
			style = styleSegAnchor
		}
		if i == v.ActiveSeg {
			style = styleSegActive
		}
		bar.WriteString(style.Render(strings.Repeat(glyph, widths[i])))
	}

	return v.markerRow() + "\n" + bar.String()
}

// cellWidths distributes the bar width across segments proportionally
// to duration, at least one cell each. Leftover cells from rounding go
// to the widest segments first.
func (v TimelineView) cellWidths() []int {
	n := len(v.Segments)
	widths := make([]int, n)
	if v.Width <= n {
		for i := range widths {
			widths[i] = 1
		}
		return widths
	}

	used := 0
	for i := range v.Segments {
		w := int(float64(v.Width) * v.Data.Durations[i] / v.Data.Total)
		if w < 1 {
			w = 1
		}
		widths[i] = w
		used += w
	}
	// Settle rounding drift on the longest segment.
	longest := 0
	for i := 1; i < n; i++ {
		if v.Data.Durations[i] > v.Data.Durations[longest] {
			longest = i
		}
	}
	widths[longest] += v.Width - used
	if widths[longest] < 1 {
		widths[longest] = 1
	}
	return widths
}

// markerRow places the playhead glyph at the column matching the
// current time.
func (v TimelineView) markerRow() string {
	col := int(v.PlayheadMS / v.Data.Total * float64(v.Width-1))
	if col < 0 {
		col = 0
	}
	if col > v.Width-1 {
		col = v.Width - 1
	}
	return strings.Repeat(" ", col) + stylePlayhead.Render(glyphPlayhead)
}
