// Package timeline turns a backend movie plan into a flat, time-indexed
// segment sequence and provides the pure conversions between playhead
// progress, time, segments, and tree indices.
package timeline

import (
	"sort"

	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/movie"
)

// Resolver classifies trees in the interpolated sequence and answers
// neighbor queries: next/previous anchor, which transition a tree
// belongs to. All queries saturate on out-of-range input; none panic.
type Resolver struct {
	kinds   []movie.TreeKind
	anchors []int // sequence indices of anchor trees, ascending
}

// NewResolver builds a resolver from the per-tree classification.
func NewResolver(kinds []movie.TreeKind) *Resolver {
	r := &Resolver{kinds: kinds}
	for i, k := range kinds {
		if k == movie.KindAnchor {
			r.anchors = append(r.anchors, i)
		}
	}
	return r
}

// Len returns the number of trees in the sequence.
func (r *Resolver) Len() int {
	return len(r.kinds)
}

// AnchorIndices returns the sequence indices of all anchor trees in order.
func (r *Resolver) AnchorIndices() []int {
	return r.anchors
}

// clamp saturates a sequence index into the valid range.
func (r *Resolver) clamp(i int) int {
	if i < 0 || len(r.kinds) == 0 {
		return 0
	}
	if i >= len(r.kinds) {
		return len(r.kinds) - 1
	}
	return i
}

// Kind returns the classification of tree i, KindUnknown for an empty
// sequence.
func (r *Resolver) Kind(i int) movie.TreeKind {
	if len(r.kinds) == 0 {
		return movie.KindUnknown
	}
	return r.kinds[r.clamp(i)]
}

// IsAnchor reports whether tree i is an anchor.
func (r *Resolver) IsAnchor(i int) bool {
	return r.Kind(i) == movie.KindAnchor
}

// IsConsensus reports whether tree i is a consensus tree.
func (r *Resolver) IsConsensus(i int) bool {
	return r.Kind(i) == movie.KindConsensus
}

// IsInterpolated reports whether tree i is an interpolated microstep.
func (r *Resolver) IsInterpolated(i int) bool {
	return r.Kind(i) == movie.KindInterpolated
}

// DistanceIndex returns the transition ordinal tree i belongs to.
// Transition k is the span that ends at the anchor in position k of
// AnchorIndices, so an anchor belongs to the transition arriving at it
// and every microstep between anchors k-1 and k belongs to transition
// k. The opening anchor maps to transition 0.
func (r *Resolver) DistanceIndex(i int) int {
	if len(r.anchors) == 0 {
		return 0
	}
	i = r.clamp(i)

	// Position of the first anchor >= i.
	pos := sort.SearchInts(r.anchors, i)
	if pos == len(r.anchors) {
		// Past the closing anchor.
		return len(r.anchors) - 1
	}
	return pos
}

// HighlightingIndex returns the distance index clamped to the valid
// range of highlight data with n entries. Returns 0 when n <= 0.
func (r *Resolver) HighlightingIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	d := r.DistanceIndex(i)
	if d >= n {
		return n - 1
	}
	return d
}

// NextAnchor returns the smallest anchor sequence index strictly
// greater than i, or i itself when none exists.
func (r *Resolver) NextAnchor(i int) int {
	pos := sort.SearchInts(r.anchors, i+1)
	if pos == len(r.anchors) {
		return i
	}
	return r.anchors[pos]
}

// PrevAnchor returns the largest anchor sequence index strictly less
// than i, or i itself when none exists.
func (r *Resolver) PrevAnchor(i int) int {
	pos := sort.SearchInts(r.anchors, i)
	if pos == 0 {
		return i
	}
	return r.anchors[pos-1]
}

// NextPosition returns i+1 saturated at the end of the sequence.
func (r *Resolver) NextPosition(i int) int {
	return r.clamp(i + 1)
}

// PrevPosition returns i-1 saturated at the start of the sequence.
func (r *Resolver) PrevPosition(i int) int {
	return r.clamp(i - 1)
}
