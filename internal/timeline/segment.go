package timeline

import (
	"fmt"

	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/movie"
)

// TreeStep is one entry of a segment's interpolation data: a global
// tree index paired with the opaque tree document it resolves to.
type TreeStep struct {
	OriginalIndex int
	Tree          movie.Tree
}

// Segment is the unit consumed by the timeline: a contiguous portion
// of the tree sequence treated as a single clickable, scrubable span.
type Segment struct {
	Index            int
	IsAnchor         bool
	HasInterpolation bool
	Trees            []TreeStep // interpolation data, length >= 1
	PivotEdge        []int
	PairKey          string
	JumpingSubtrees  [][]int
	SubtreeMoveCount int
	Name             string
}

// Steps returns the number of interpolation steps in the segment.
func (s Segment) Steps() int {
	return len(s.Trees)
}

// FirstTreeIndex returns the global index of the segment's first tree.
func (s Segment) FirstTreeIndex() int {
	if len(s.Trees) == 0 {
		return 0
	}
	return s.Trees[0].OriginalIndex
}

// LastTreeIndex returns the global index of the segment's last tree.
func (s Segment) LastTreeIndex() int {
	if len(s.Trees) == 0 {
		return 0
	}
	return s.Trees[len(s.Trees)-1].OriginalIndex
}

// BuildSegments transforms the movie's split-change timeline into the
// flat segment sequence. Malformed entries (reversed or out-of-range
// global indices) are skipped and reported as issues; the returned
// segments stay contiguous over what was accepted. Missing pair
// solutions degrade the segment to JumpingSubtrees == nil.
func BuildSegments(m *movie.Movie) ([]Segment, []movie.Issue) {
	if m == nil || m.TreeCount() == 0 {
		return nil, nil
	}

	var segments []Segment
	var skipped []movie.Issue
	n := m.TreeCount()

	for i, e := range m.Timeline {
		switch e.Type {
		case movie.EntryOriginal:
			idx := e.GlobalIndex
			if idx < 0 || idx >= n {
				skipped = append(skipped, movie.Issue{
					Category: movie.CatMalformedEntry, Entry: i,
					Err: fmt.Errorf("%w: original index %d with %d trees", movie.ErrRangeOutOfBounds, idx, n),
				})
				continue
			}
			name := e.Name
			if name == "" {
				name = m.TreeName(idx)
			}
			segments = append(segments, Segment{
				IsAnchor: true,
				Trees:    []TreeStep{{OriginalIndex: idx, Tree: m.Trees[idx]}},
				Name:     name,
			})

		case movie.EntrySplitEvent:
			lo, hi, ok := e.Range()
			if !ok || lo > hi || lo < 0 || hi >= n {
				skipped = append(skipped, movie.Issue{
					Category: movie.CatMalformedEntry, Entry: i,
					Err: fmt.Errorf("%w: split range %v with %d trees", movie.ErrRangeOutOfBounds, e.StepRangeGlobal, n),
				})
				continue
			}
			steps := make([]TreeStep, 0, hi-lo+1)
			for t := lo; t <= hi; t++ {
				steps = append(steps, TreeStep{OriginalIndex: t, Tree: m.Trees[t]})
			}
			name := e.Name
			if name == "" {
				name = e.PairKey
			}
			jumping := m.JumpingSubtrees(e.PairKey, e.Split)
			segments = append(segments, Segment{
				HasInterpolation: len(steps) > 1,
				Trees:            steps,
				PivotEdge:        e.Split,
				PairKey:          e.PairKey,
				JumpingSubtrees:  jumping,
				SubtreeMoveCount: movie.FlattenedLeafCount(jumping),
				Name:             name,
			})

		default:
			skipped = append(skipped, movie.Issue{
				Category: movie.CatMalformedEntry, Entry: i,
				Err: fmt.Errorf("unknown timeline entry type %q", e.Type),
			})
		}
	}

	for i := range segments {
		segments[i].Index = i
	}
	return segments, skipped
}
