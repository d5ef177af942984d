// Package movie defines the backend plan contract for a phylo movie:
// the interpolated tree sequence, per-tree metadata, the split-change
// timeline, and the tree-pair solutions consumed by the highlight
// pipeline. Trees themselves are opaque documents; this package never
// looks inside them.
package movie

import (
	"encoding/json"
	"strconv"
	"strings"
)

// TreeKind classifies a tree in the interpolated sequence.
type TreeKind int

const (
	// KindAnchor is a tree from the original input sequence; endpoints of a transition.
	KindAnchor TreeKind = iota
	// KindInterpolated is a synthetic microstep tree between two anchors.
	KindInterpolated
	// KindConsensus is a consensus tree generated between two anchors.
	KindConsensus
	// KindUnknown is a tree whose metadata matched no known classification.
	KindUnknown
)

// String returns the lowercase name used in metadata "kind" fields.
func (k TreeKind) String() string {
	switch k {
	case KindAnchor:
		return "anchor"
	case KindInterpolated:
		return "interpolated"
	case KindConsensus:
		return "consensus"
	default:
		return "unknown"
	}
}

// Entry types in the split-change timeline.
const (
	EntryOriginal   = "original"
	EntrySplitEvent = "split_event"
)

// Tree is an opaque tree document. The core forwards trees to the
// renderer without interpreting them.
type Tree = json.RawMessage

// TreeMetadata carries the per-tree classification and pairing info.
// Kind, when set, wins over the TreeName prefix rule.
type TreeMetadata struct {
	TreeName    string `json:"tree_name"`
	Kind        string `json:"kind,omitempty"`
	TreePairKey string `json:"tree_pair_key,omitempty"`
}

// TimelineEntry is one entry of the split-change timeline. Original
// entries name a single anchor tree by global sequence index; split
// events name a contiguous global range [lo, hi] belonging to one
// RF-distance transition.
type TimelineEntry struct {
	Type            string `json:"type"`
	GlobalIndex     int    `json:"global_index,omitempty"`
	StepRangeGlobal []int  `json:"step_range_global,omitempty"`
	Name            string `json:"name,omitempty"`
	PairKey         string `json:"pair_key,omitempty"`
	Split           []int  `json:"split,omitempty"`
}

// Range returns the [lo, hi] global range of a split event.
// ok is false when the entry carries no two-element range.
func (e TimelineEntry) Range() (lo, hi int, ok bool) {
	if len(e.StepRangeGlobal) != 2 {
		return 0, 0, false
	}
	return e.StepRangeGlobal[0], e.StepRangeGlobal[1], true
}

// PairSolution holds the per-pair highlight data keyed by serialized
// pivot edge.
type PairSolution struct {
	JumpingSubtreeSolutions map[string][][]int `json:"jumping_subtree_solutions"`
}

// Movie is the complete backend plan for one loaded movie.
type Movie struct {
	Name              string                  `json:"name,omitempty"`
	Trees             []Tree                  `json:"interpolated_trees"`
	Metadata          []TreeMetadata          `json:"tree_metadata"`
	Timeline          []TimelineEntry         `json:"split_change_timeline"`
	TreePairSolutions map[string]PairSolution `json:"tree_pair_solutions"`
	HighlightCount    int                     `json:"highlight_count,omitempty"`
}

// TreeCount returns the number of trees in the sequence.
func (m *Movie) TreeCount() int {
	if m == nil {
		return 0
	}
	return len(m.Trees)
}

// TreeKinds classifies every tree in sequence order.
func (m *Movie) TreeKinds() []TreeKind {
	kinds := make([]TreeKind, len(m.Trees))
	for i := range m.Trees {
		if i < len(m.Metadata) {
			kinds[i] = m.Metadata[i].TreeKind()
		} else {
			kinds[i] = KindUnknown
		}
	}
	return kinds
}

// TreeName returns the metadata name for tree i, or a positional
// fallback when metadata is missing.
func (m *Movie) TreeName(i int) string {
	if i >= 0 && i < len(m.Metadata) && m.Metadata[i].TreeName != "" {
		return m.Metadata[i].TreeName
	}
	return "tree_" + strconv.Itoa(i)
}

// JumpingSubtrees resolves the subtree groups for a pair key and pivot
// edge. Returns nil when either the pair or the edge has no solution.
func (m *Movie) JumpingSubtrees(pairKey string, pivotEdge []int) [][]int {
	if m == nil || pairKey == "" {
		return nil
	}
	sol, ok := m.TreePairSolutions[pairKey]
	if !ok || sol.JumpingSubtreeSolutions == nil {
		return nil
	}
	return sol.JumpingSubtreeSolutions[EdgeKey(pivotEdge)]
}

// TreeKind resolves the classification for one tree. An explicit Kind
// field wins; otherwise the name prefix rule applies.
func (md TreeMetadata) TreeKind() TreeKind {
	switch strings.ToLower(md.Kind) {
	case "anchor", "full", "original":
		return KindAnchor
	case "interpolated", "intermediate":
		return KindInterpolated
	case "consensus":
		return KindConsensus
	}
	if md.Kind != "" {
		return KindUnknown
	}
	return ClassifyTreeName(md.TreeName)
}

// ClassifyTreeName applies the name-prefix classification rule:
// "IT..." is interpolated, "C_..." is consensus, anything else that is
// non-empty is an anchor (the backend names anchors after their input
// trees, conventionally with a "full" tag).
func ClassifyTreeName(name string) TreeKind {
	switch {
	case name == "":
		return KindUnknown
	case strings.HasPrefix(name, "IT"):
		return KindInterpolated
	case strings.HasPrefix(name, "C_"):
		return KindConsensus
	default:
		return KindAnchor
	}
}

// EdgeKey serializes a pivot edge the way the backend keys
// jumping_subtree_solutions: a bracketed comma list, e.g. "[3,7,9]".
func EdgeKey(edge []int) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, t := range edge {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(t))
	}
	b.WriteByte(']')
	return b.String()
}

// FlattenedLeafCount counts the leaves across all subtree groups.
func FlattenedLeafCount(groups [][]int) int {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	return n
}
