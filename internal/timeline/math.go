package timeline

import (
	"math"
	"sort"
)

// Bias selects the rounding direction when a time point falls between
// two interpolation steps.
type Bias int

const (
	// BiasNearest rounds to the closest step.
	BiasNearest Bias = iota
	// BiasForward rounds up, favoring the step ahead.
	BiasForward
	// BiasBackward rounds down, favoring the step behind.
	BiasBackward
)

// stepEpsilon absorbs float noise when biasing an exact step position.
const stepEpsilon = 1e-9

// ClampProgress clamps a playhead progress value into [0, 1].
func ClampProgress(p float64) float64 {
	if p < 0 || math.IsNaN(p) {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// ProgressToTime converts normalized progress to movie time in ms.
func ProgressToTime(p, total float64) float64 {
	return ClampProgress(p) * total
}

// TimeToProgress converts movie time in ms to normalized progress.
// A zero-length movie maps every time to progress 0.
func TimeToProgress(t, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return ClampProgress(t / total)
}

// SearchSegment returns the index of the segment owning time t: the
// smallest i with cumulative[i] > t, or the last segment when t is at
// or past the total. Time exactly on a boundary belongs to the
// following segment.
func SearchSegment(cumulative []float64, t float64) int {
	n := len(cumulative)
	if n == 0 {
		return 0
	}
	if t >= cumulative[n-1] {
		return n - 1
	}
	return sort.Search(n, func(i int) bool { return cumulative[i] > t })
}

// Target identifies the tree a time point resolves to.
type Target struct {
	TreeIndex       int
	SegmentIndex    int
	SegmentProgress float64
}

// TargetTreeForTime resolves the tree shown at movie time t. Anchor
// segments resolve to their anchor at mid dwell; interpolating
// segments resolve the local step under the given bias. The epsilon
// keeps boundary time points inside their owning segment so holding
// the scrubber on a boundary does not oscillate.
func TargetTreeForTime(segments []Segment, d Data, t float64, bias Bias, epsilonMS float64) (Target, bool) {
	if len(segments) == 0 || len(d.Cumulative) != len(segments) {
		return Target{}, false
	}

	segIndex := SearchSegment(d.Cumulative, t)
	seg := segments[segIndex]
	if seg.IsAnchor {
		return Target{
			TreeIndex:       seg.FirstTreeIndex(),
			SegmentIndex:    segIndex,
			SegmentProgress: 0.5,
		}, true
	}

	local, dur := localTime(d, segIndex, t, epsilonMS)
	localProgress := 0.0
	if dur > 0 {
		localProgress = local / dur
	}

	steps := seg.Steps()
	exact := localProgress * float64(steps-1)
	var step int
	switch bias {
	case BiasForward:
		step = int(math.Ceil(exact - stepEpsilon))
	case BiasBackward:
		step = int(math.Floor(exact + stepEpsilon))
	default:
		step = int(math.Round(exact))
	}
	if step < 0 {
		step = 0
	}
	if step > steps-1 {
		step = steps - 1
	}

	return Target{
		TreeIndex:       seg.Trees[step].OriginalIndex,
		SegmentIndex:    segIndex,
		SegmentProgress: localProgress,
	}, true
}

// Interpolation describes one scrub or playback frame: the pair of
// trees to blend and the blend factor between them.
type Interpolation struct {
	FromIndex    int
	ToIndex      int
	T            float64 // blend factor in [0, 1]
	SegmentIndex int
}

// Static reports whether the frame shows a single tree unblended.
func (in Interpolation) Static() bool {
	return in.FromIndex == in.ToIndex
}

// PrimaryIndex returns the tree index downstream queries should treat
// as current: the from-tree below the blend midpoint, the to-tree at
// or above it.
func (in Interpolation) PrimaryIndex() int {
	if in.T < 0.5 {
		return in.FromIndex
	}
	return in.ToIndex
}

// InterpolationForProgress resolves the frame for a normalized
// progress value. Anchor and single-step segments produce a static
// frame; interpolating segments blend between the two surrounding
// steps. ok is false only for an empty movie.
func InterpolationForProgress(p float64, segments []Segment, d Data, epsilonMS float64) (Interpolation, bool) {
	if len(segments) == 0 || len(d.Cumulative) != len(segments) {
		return Interpolation{}, false
	}

	t := ProgressToTime(p, d.Total)
	segIndex := SearchSegment(d.Cumulative, t)
	seg := segments[segIndex]

	if seg.IsAnchor || !seg.HasInterpolation || seg.Steps() < 2 {
		idx := seg.FirstTreeIndex()
		return Interpolation{FromIndex: idx, ToIndex: idx, SegmentIndex: segIndex}, true
	}

	local, dur := localTime(d, segIndex, t, epsilonMS)
	localProgress := 0.0
	if dur > 0 {
		localProgress = local / dur
	}

	steps := seg.Steps()
	exact := localProgress * float64(steps-1)
	from := int(math.Floor(exact))
	if from > steps-1 {
		from = steps - 1
	}
	to := from + 1
	if to > steps-1 {
		to = steps - 1
	}

	return Interpolation{
		FromIndex:    seg.Trees[from].OriginalIndex,
		ToIndex:      seg.Trees[to].OriginalIndex,
		T:            exact - float64(from),
		SegmentIndex: segIndex,
	}, true
}

// localTime returns t relative to the segment start, clamped into
// [epsilon, duration-epsilon] so boundary points stay inside the
// segment. Degenerate durations clamp to the midpoint.
func localTime(d Data, segIndex int, t, epsilonMS float64) (local, dur float64) {
	start := d.SegmentStart(segIndex)
	dur = d.Durations[segIndex]
	local = t - start

	if dur <= 2*epsilonMS {
		return dur / 2, dur
	}
	if local < epsilonMS {
		local = epsilonMS
	}
	if local > dur-epsilonMS {
		local = dur - epsilonMS
	}
	return local, dur
}
