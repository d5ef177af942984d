package tui

import (
	"fmt"
	"strings"

	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/movie"
	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/timeline"
)

// FrameView renders the detail panel for the current tree: name, kind,
// transition context, and the last dispatched scrub frame.
type FrameView struct {
	Movie     *movie.Movie
	Resolver  *timeline.Resolver
	Segment   *timeline.Segment
	TreeIndex int
	Frame     *MsgScrubFrame
	Err       error
	Width     int
}

// View renders the bordered frame panel.
func (v FrameView) View() string {
	if v.Movie == nil || v.Movie.TreeCount() == 0 {
		return styleFrameBorder.Render(styleFrameDim.Render("no movie loaded"))
	}

	var b strings.Builder

	name := v.Movie.TreeName(v.TreeIndex)
	kind := v.Resolver.Kind(v.TreeIndex)
	title := styleFrameTitle.Render(name)
	if kind == movie.KindConsensus {
		title = styleFrameConsensus.Render(name)
	}
	b.WriteString(title)
	b.WriteString(styleFrameDim.Render("  " + kind.String()))
	b.WriteString("\n")

	dist := v.Resolver.DistanceIndex(v.TreeIndex)
	b.WriteString(fmt.Sprintf("transition %d", dist))
	if v.Segment != nil && v.Segment.SubtreeMoveCount > 0 {
		b.WriteString(fmt.Sprintf("  moving subtrees %d", v.Segment.SubtreeMoveCount))
	}
	b.WriteString("\n")

	if v.Frame != nil {
		b.WriteString(fmt.Sprintf("scrub %d → %d  blend %.2f  %s",
			v.Frame.Opts.FromTreeIndex,
			v.Frame.Opts.ToTreeIndex,
			v.Frame.Blend,
			v.Frame.Opts.Direction,
		))
	} else {
		b.WriteString(styleFrameDim.Render("no scrub frame yet"))
	}

	if v.Err != nil {
		b.WriteString("\n")
		b.WriteString(styleFrameError.Render("error: " + v.Err.Error()))
	}

	panel := styleFrameBorder
	if v.Width > 4 {
		panel = panel.Width(v.Width - 2)
	}
	return panel.Render(b.String())
}
