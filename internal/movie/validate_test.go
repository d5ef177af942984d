package movie

import (
	"encoding/json"
	"errors"
	"testing"
)

// planFixture builds a playable 5-tree plan: anchors at 0 and 4 with a
// three-step interpolation between them.
func planFixture() *Movie {
	trees := make([]Tree, 5)
	for i := range trees {
		trees[i] = json.RawMessage(`{}`)
	}
	return &Movie{
		Trees: trees,
		Metadata: []TreeMetadata{
			{TreeName: "full_0"},
			{TreeName: "IT1_0_1", TreePairKey: "0_1"},
			{TreeName: "C_0_1", TreePairKey: "0_1"},
			{TreeName: "IT2_0_1", TreePairKey: "0_1"},
			{TreeName: "full_1"},
		},
		Timeline: []TimelineEntry{
			{Type: EntryOriginal, GlobalIndex: 0, Name: "full_0"},
			{Type: EntrySplitEvent, StepRangeGlobal: []int{1, 3}, PairKey: "0_1", Split: []int{2, 5}},
			{Type: EntryOriginal, GlobalIndex: 4, Name: "full_1"},
		},
		TreePairSolutions: map[string]PairSolution{
			"0_1": {JumpingSubtreeSolutions: map[string][][]int{"[2,5]": {{4, 6}}}},
		},
	}
}

func TestValidate_CleanPlan(t *testing.T) {
	t.Parallel()

	if issues := Validate(planFixture()); len(issues) != 0 {
		t.Fatalf("clean plan produced issues: %v", issues)
	}
}

func TestValidate_EmptyMovie(t *testing.T) {
	t.Parallel()

	issues := Validate(&Movie{})
	if !HasFatal(issues) {
		t.Fatal("empty movie should be fatal")
	}
	if !errors.Is(issues[0], ErrNoTrees) {
		t.Errorf("got %v, want ErrNoTrees", issues[0])
	}
}

func TestValidate_TooFewAnchors(t *testing.T) {
	t.Parallel()

	m := planFixture()
	m.Metadata[4].TreeName = "IT9_0_1" // demote the closing anchor
	issues := Validate(m)
	found := false
	for _, i := range issues {
		if errors.Is(i, ErrTooFewAnchors) {
			found = true
			if !i.Fatal {
				t.Error("too-few-anchors should be fatal")
			}
		}
	}
	if !found {
		t.Fatalf("expected ErrTooFewAnchors in %v", issues)
	}
}

func TestValidate_MalformedEntries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		entry TimelineEntry
		want  error
	}{
		{
			"reversed range",
			TimelineEntry{Type: EntrySplitEvent, StepRangeGlobal: []int{3, 1}, PairKey: "0_1"},
			ErrRangeReversed,
		},
		{
			"out of bounds",
			TimelineEntry{Type: EntrySplitEvent, StepRangeGlobal: []int{1, 99}, PairKey: "0_1"},
			ErrRangeOutOfBounds,
		},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			m := planFixture()
			m.Timeline[1] = c.entry
			issues := Validate(m)
			found := false
			for _, i := range issues {
				if errors.Is(i, c.want) {
					found = true
					if i.Fatal {
						t.Error("malformed entry should be degradable, not fatal")
					}
					if i.Entry != 1 {
						t.Errorf("issue entry = %d, want 1", i.Entry)
					}
				}
			}
			if !found {
				t.Fatalf("expected %v in %v", c.want, issues)
			}
		})
	}
}

func TestValidate_MissingPairSolution(t *testing.T) {
	t.Parallel()

	m := planFixture()
	m.TreePairSolutions = map[string]PairSolution{}
	issues := Validate(m)
	found := false
	for _, i := range issues {
		if errors.Is(i, ErrMissingPairSolution) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ErrMissingPairSolution in %v", issues)
	}
	if HasFatal(issues) {
		t.Error("missing pair solution should degrade, not disable")
	}
}

func TestValidate_CoverageGapAndOverlap(t *testing.T) {
	t.Parallel()

	m := planFixture()
	// Shrink the split event so tree 3 is unclaimed, and duplicate the
	// opening anchor so tree 0 is claimed twice.
	m.Timeline[1].StepRangeGlobal = []int{1, 2}
	m.Timeline = append(m.Timeline, TimelineEntry{Type: EntryOriginal, GlobalIndex: 0})

	issues := Validate(m)
	var gap, overlap bool
	for _, i := range issues {
		if errors.Is(i, ErrCoverageGap) {
			gap = true
		}
		if errors.Is(i, ErrCoverageOverlap) {
			overlap = true
		}
	}
	if !gap || !overlap {
		t.Fatalf("gap=%v overlap=%v, want both; issues: %v", gap, overlap, issues)
	}
}
