package timeline

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/movie"
)

// movieFixture builds a 9-tree, two-transition plan: anchors at 0, 4,
// and 8 with three microsteps inside each transition.
func movieFixture() *movie.Movie {
	trees := make([]movie.Tree, 9)
	for i := range trees {
		trees[i] = json.RawMessage(`{}`)
	}
	names := []string{
		"full_0", "IT1_0_1", "C_0_1", "IT2_0_1",
		"full_1", "IT1_1_2", "C_1_2", "IT2_1_2",
		"full_2",
	}
	meta := make([]movie.TreeMetadata, 9)
	for i, n := range names {
		meta[i] = movie.TreeMetadata{TreeName: n}
	}
	return &movie.Movie{
		Name:     "fixture",
		Trees:    trees,
		Metadata: meta,
		Timeline: []movie.TimelineEntry{
			{Type: movie.EntryOriginal, GlobalIndex: 0, Name: "full_0"},
			{Type: movie.EntrySplitEvent, StepRangeGlobal: []int{1, 3}, PairKey: "0_1", Split: []int{2, 5}},
			{Type: movie.EntryOriginal, GlobalIndex: 4, Name: "full_1"},
			{Type: movie.EntrySplitEvent, StepRangeGlobal: []int{5, 7}, PairKey: "1_2", Split: []int{4}},
			{Type: movie.EntryOriginal, GlobalIndex: 8, Name: "full_2"},
		},
		TreePairSolutions: map[string]movie.PairSolution{
			"0_1": {JumpingSubtreeSolutions: map[string][][]int{"[2,5]": {{4, 6}, {9}}}},
			// 1_2 deliberately has no solution for edge [4].
			"1_2": {JumpingSubtreeSolutions: map[string][][]int{}},
		},
	}
}

func TestBuildSegments_Coverage(t *testing.T) {
	t.Parallel()

	segs, skipped := BuildSegments(movieFixture())
	if len(skipped) != 0 {
		t.Fatalf("unexpected skips: %v", skipped)
	}
	if len(segs) != 5 {
		t.Fatalf("got %d segments, want 5", len(segs))
	}

	// Segments cover all tree indices with no gaps and no overlaps,
	// monotonically increasing across the sequence.
	next := 0
	for _, s := range segs {
		for _, step := range s.Trees {
			if step.OriginalIndex != next {
				t.Fatalf("segment %d: index %d out of order, want %d", s.Index, step.OriginalIndex, next)
			}
			next++
		}
	}
	if next != 9 {
		t.Fatalf("covered %d trees, want 9", next)
	}

	// Sequential segment indices.
	for i, s := range segs {
		if s.Index != i {
			t.Errorf("segment %d has Index %d", i, s.Index)
		}
	}
}

func TestBuildSegments_Shapes(t *testing.T) {
	t.Parallel()

	segs, _ := BuildSegments(movieFixture())

	anchor := segs[0]
	if !anchor.IsAnchor || anchor.HasInterpolation || anchor.Steps() != 1 {
		t.Errorf("anchor segment shape: %+v", anchor)
	}
	if anchor.Name != "full_0" {
		t.Errorf("anchor name = %q", anchor.Name)
	}

	split := segs[1]
	if split.IsAnchor || !split.HasInterpolation {
		t.Errorf("split segment shape: %+v", split)
	}
	if split.Steps() != 3 || split.FirstTreeIndex() != 1 || split.LastTreeIndex() != 3 {
		t.Errorf("split range: steps=%d first=%d last=%d", split.Steps(), split.FirstTreeIndex(), split.LastTreeIndex())
	}
	if split.PairKey != "0_1" || len(split.PivotEdge) != 2 {
		t.Errorf("split metadata: %+v", split)
	}
	if len(split.JumpingSubtrees) != 2 || split.SubtreeMoveCount != 3 {
		t.Errorf("jumping subtrees: %v count %d", split.JumpingSubtrees, split.SubtreeMoveCount)
	}
}

func TestBuildSegments_MissingPairSolution(t *testing.T) {
	t.Parallel()

	segs, _ := BuildSegments(movieFixture())

	// The 1_2 transition has no solution for its edge key: the segment
	// is still emitted, with no highlight data.
	s := segs[3]
	if s.JumpingSubtrees != nil {
		t.Errorf("JumpingSubtrees = %v, want nil", s.JumpingSubtrees)
	}
	if s.SubtreeMoveCount != 0 {
		t.Errorf("SubtreeMoveCount = %d, want 0", s.SubtreeMoveCount)
	}
}

func TestBuildSegments_SkipsMalformed(t *testing.T) {
	t.Parallel()

	m := movieFixture()
	m.Timeline[1].StepRangeGlobal = []int{3, 1} // reversed
	segs, skipped := BuildSegments(m)

	if len(segs) != 4 {
		t.Fatalf("got %d segments, want 4 after one skip", len(segs))
	}
	if len(skipped) != 1 {
		t.Fatalf("skipped = %v, want one issue", skipped)
	}
	if !errors.Is(skipped[0], movie.ErrRangeOutOfBounds) {
		t.Errorf("skip reason = %v", skipped[0])
	}
	// Indices remain sequential over what was accepted.
	for i, s := range segs {
		if s.Index != i {
			t.Errorf("segment %d has Index %d", i, s.Index)
		}
	}
}

func TestBuildSegments_SingleStepSplit(t *testing.T) {
	t.Parallel()

	m := movieFixture()
	m.Timeline[1].StepRangeGlobal = []int{1, 1}
	segs, _ := BuildSegments(m)

	s := segs[1]
	if s.IsAnchor {
		t.Error("degraded split event must stay non-anchor")
	}
	if s.HasInterpolation {
		t.Error("lo == hi split event must not interpolate")
	}
	if s.Steps() != 1 {
		t.Errorf("Steps = %d, want 1", s.Steps())
	}
}

func TestBuildSegments_EmptyPlan(t *testing.T) {
	t.Parallel()

	segs, skipped := BuildSegments(&movie.Movie{})
	if segs != nil || skipped != nil {
		t.Fatalf("empty plan: segs=%v skipped=%v", segs, skipped)
	}

	d := BuildData(segs, DefaultConfig())
	if d.Total != 0 {
		t.Errorf("Total = %v, want 0", d.Total)
	}
}
