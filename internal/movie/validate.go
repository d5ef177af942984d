package movie

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for movie plan validation.
var (
	// ErrNoTrees indicates the plan carries an empty tree sequence.
	ErrNoTrees = errors.New("movie has no trees")
	// ErrTooFewAnchors indicates fewer than two anchor trees; the movie is not playable.
	ErrTooFewAnchors = errors.New("movie needs at least two anchor trees")
	// ErrMetadataMismatch indicates tree_metadata length differs from the tree count.
	ErrMetadataMismatch = errors.New("tree_metadata length does not match tree count")
	// ErrRangeReversed indicates a split event whose range runs backwards.
	ErrRangeReversed = errors.New("split event range is reversed")
	// ErrRangeOutOfBounds indicates a timeline entry referencing trees outside the sequence.
	ErrRangeOutOfBounds = errors.New("timeline entry out of tree bounds")
	// ErrMissingPairSolution indicates a split event whose pair key has no solution entry.
	ErrMissingPairSolution = errors.New("pair key missing from tree_pair_solutions")
	// ErrCoverageGap indicates tree indices not covered by any timeline entry.
	ErrCoverageGap = errors.New("timeline does not cover all trees")
	// ErrCoverageOverlap indicates a tree index claimed by more than one timeline entry.
	ErrCoverageOverlap = errors.New("timeline entries overlap")
)

// IssueCategory classifies a validation issue for programmatic handling.
type IssueCategory string

const (
	CatNoTrees         IssueCategory = "no_trees"
	CatTooFewAnchors   IssueCategory = "too_few_anchors"
	CatMetadata        IssueCategory = "metadata_mismatch"
	CatMalformedEntry  IssueCategory = "malformed_entry"
	CatMissingSolution IssueCategory = "missing_pair_solution"
	CatCoverage        IssueCategory = "coverage"
)

// Issue records one validation problem with plan context. Fatal issues
// make the movie unplayable; non-fatal issues degrade single entries.
type Issue struct {
	Category IssueCategory
	Entry    int // timeline entry index, -1 when plan-wide
	Fatal    bool
	Err      error
}

// Error returns a human-readable string including entry context.
func (i Issue) Error() string {
	if i.Entry >= 0 {
		return fmt.Sprintf("timeline entry %d: %v", i.Entry, i.Err)
	}
	return i.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is.
func (i Issue) Unwrap() error {
	return i.Err
}

// Validate runs structural checks over a movie plan and returns every
// issue found. The plan is playable iff no returned issue is fatal.
func Validate(m *Movie) []Issue {
	var issues []Issue

	if m.TreeCount() == 0 {
		return []Issue{{Category: CatNoTrees, Entry: -1, Fatal: true, Err: ErrNoTrees}}
	}
	if len(m.Metadata) != len(m.Trees) {
		issues = append(issues, Issue{
			Category: CatMetadata, Entry: -1, Fatal: true,
			Err: fmt.Errorf("%w: %d metadata for %d trees", ErrMetadataMismatch, len(m.Metadata), len(m.Trees)),
		})
	}

	anchors := 0
	for _, k := range m.TreeKinds() {
		if k == KindAnchor {
			anchors++
		}
	}
	if anchors < 2 {
		issues = append(issues, Issue{
			Category: CatTooFewAnchors, Entry: -1, Fatal: true,
			Err: fmt.Errorf("%w: found %d", ErrTooFewAnchors, anchors),
		})
	}

	n := m.TreeCount()
	claimed := make([]int, 0, n)
	for i, e := range m.Timeline {
		lo, hi, bad := entryBounds(e)
		if bad != nil {
			issues = append(issues, Issue{Category: CatMalformedEntry, Entry: i, Err: bad})
			continue
		}
		if lo < 0 || hi >= n {
			issues = append(issues, Issue{
				Category: CatMalformedEntry, Entry: i,
				Err: fmt.Errorf("%w: [%d, %d] with %d trees", ErrRangeOutOfBounds, lo, hi, n),
			})
			continue
		}
		for t := lo; t <= hi; t++ {
			claimed = append(claimed, t)
		}
		if e.Type == EntrySplitEvent && e.PairKey != "" {
			if _, ok := m.TreePairSolutions[e.PairKey]; !ok {
				issues = append(issues, Issue{
					Category: CatMissingSolution, Entry: i,
					Err: fmt.Errorf("%w: %q", ErrMissingPairSolution, e.PairKey),
				})
			}
		}
	}

	issues = append(issues, coverageIssues(claimed, n)...)
	return issues
}

// HasFatal reports whether any issue makes the plan unplayable.
func HasFatal(issues []Issue) bool {
	for _, i := range issues {
		if i.Fatal {
			return true
		}
	}
	return false
}

func entryBounds(e TimelineEntry) (lo, hi int, err error) {
	switch e.Type {
	case EntryOriginal:
		return e.GlobalIndex, e.GlobalIndex, nil
	case EntrySplitEvent:
		lo, hi, ok := e.Range()
		if !ok {
			return 0, 0, fmt.Errorf("split event without step_range_global")
		}
		if lo > hi {
			return 0, 0, fmt.Errorf("%w: [%d, %d]", ErrRangeReversed, lo, hi)
		}
		return lo, hi, nil
	default:
		return 0, 0, fmt.Errorf("unknown entry type %q", e.Type)
	}
}

func coverageIssues(claimed []int, n int) []Issue {
	sort.Ints(claimed)
	var issues []Issue
	seen := make(map[int]bool, len(claimed))
	for _, t := range claimed {
		if seen[t] {
			issues = append(issues, Issue{
				Category: CatCoverage, Entry: -1,
				Err: fmt.Errorf("%w: tree %d", ErrCoverageOverlap, t),
			})
		}
		seen[t] = true
	}
	missing := 0
	for t := 0; t < n; t++ {
		if !seen[t] {
			missing++
		}
	}
	if missing > 0 {
		issues = append(issues, Issue{
			Category: CatCoverage, Entry: -1,
			Err: fmt.Errorf("%w: %d of %d trees unclaimed", ErrCoverageGap, missing, n),
		})
	}
	return issues
}
