// Package player owns the timeline of a loaded movie: it builds the
// segment sequence once, binds the playback store to the scrubber
// engine, and translates UI gestures (drag, release, segment click)
// into playhead state. The segments and timing data are immutable for
// the lifetime of the loaded movie.
package player

import (
	"sync"
	"time"

	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/movie"
	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/playback"
	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/scrubber"
	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/telemetry"
	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/timeline"
)

// Mode is the manager's reaction state to store changes.
type Mode int

const (
	// ModeIdle consumes the preserved timeline progress, falling back
	// to the animation playhead.
	ModeIdle Mode = iota
	// ModePlaying consumes the animation playhead.
	ModePlaying
	// ModeScrubbing ignores store updates; the drag drives rendering.
	ModeScrubbing
)

// Config assembles a Manager.
type Config struct {
	Movie    *movie.Movie
	Store    *playback.Store
	Renderer scrubber.Renderer
	Emitter  *telemetry.Emitter
	Timeline timeline.Config

	// Throttle is the scrubber render budget; zero means 16 ms.
	Throttle time.Duration
	// Clock and Scheduler are injectable for tests.
	Clock     scrubber.Clock
	Scheduler scrubber.FrameScheduler
}

// Manager binds the playback store to the scrubber and the segment
// timeline. A manager built from an empty or unplayable plan is
// disabled: every public method is a no-op and no store writes happen.
type Manager struct {
	movie    *movie.Movie
	store    *playback.Store
	resolver *timeline.Resolver
	segments []timeline.Segment
	data     timeline.Data
	engine   *scrubber.Engine
	emitter  *telemetry.Emitter
	epsilon  float64

	scheduler scrubber.FrameScheduler

	// onPlayhead moves the scrubber visual; onHighlight marks the
	// active segment. Both are optional UI hooks.
	onPlayhead  func(tMs float64)
	onHighlight func(segIndex int)

	mu            sync.Mutex
	dragging      bool
	destroyed     bool
	pendingCancel func()
	hasPending    bool
	lastSeen      struct {
		valid bool
		tree  int
		anim  float64
	}

	unsubscribe func()
}

// New builds segments and timeline data once and installs the store
// subscription. Skipped plan entries are reported through the emitter;
// an empty result leaves the manager disabled rather than failing.
func New(cfg Config) *Manager {
	segs, skipped := timeline.BuildSegments(cfg.Movie)
	data := timeline.BuildData(segs, cfg.Timeline)

	var kinds []movie.TreeKind
	if cfg.Movie != nil {
		kinds = cfg.Movie.TreeKinds()
	}

	eps := cfg.Timeline.EpsilonMS
	if eps <= 0 {
		eps = timeline.DefaultConfig().EpsilonMS
	}

	m := &Manager{
		movie:     cfg.Movie,
		store:     cfg.Store,
		resolver:  timeline.NewResolver(kinds),
		segments:  segs,
		data:      data,
		emitter:   cfg.Emitter,
		epsilon:   eps,
		scheduler: cfg.Scheduler,
	}
	if m.scheduler == nil {
		throttle := cfg.Throttle
		if throttle <= 0 {
			throttle = 16 * time.Millisecond
		}
		m.scheduler = scrubber.NewFrameScheduler(throttle)
	}

	m.engine = scrubber.NewEngine(scrubber.Config{
		Store:     cfg.Store,
		Movie:     cfg.Movie,
		Segments:  segs,
		Data:      data,
		Renderer:  cfg.Renderer,
		Emitter:   cfg.Emitter,
		Clock:     cfg.Clock,
		Scheduler: cfg.Scheduler,
		Throttle:  cfg.Throttle,
		EpsilonMS: eps,
	})

	for _, issue := range skipped {
		cfg.Emitter.Emit(telemetry.Event{
			Kind: telemetry.KindMovieLoaded,
			Data: map[string]string{"skipped_entry": issue.Error()},
		})
	}
	if !m.Disabled() {
		name := ""
		if cfg.Movie != nil {
			name = cfg.Movie.Name
		}
		cfg.Emitter.Emit(telemetry.Event{
			Kind:  telemetry.KindMovieLoaded,
			Movie: name,
			Data: map[string]any{
				"trees":    cfg.Movie.TreeCount(),
				"segments": len(segs),
				"total_ms": data.Total,
			},
		})
	}

	m.unsubscribe = cfg.Store.Subscribe(m.onStoreChange)
	return m
}

// Disabled reports whether the manager was built without playable
// segments.
func (m *Manager) Disabled() bool {
	return len(m.segments) == 0
}

// Mode returns the manager's current reaction state.
func (m *Manager) Mode() Mode {
	if m.engine.Active() {
		return ModeScrubbing
	}
	if m.store.Get().Playing {
		return ModePlaying
	}
	return ModeIdle
}

// Segments exposes the immutable segment sequence for the timeline
// renderer.
func (m *Manager) Segments() []timeline.Segment {
	return m.segments
}

// Data exposes the immutable timing data.
func (m *Manager) Data() timeline.Data {
	return m.data
}

// Resolver exposes the transition index resolver.
func (m *Manager) Resolver() *timeline.Resolver {
	return m.resolver
}

// SetPlayheadFunc installs the hook that moves the scrubber visual.
func (m *Manager) SetPlayheadFunc(fn func(tMs float64)) {
	m.mu.Lock()
	m.onPlayhead = fn
	m.mu.Unlock()
}

// SetHighlightFunc installs the hook that highlights the active segment.
func (m *Manager) SetHighlightFunc(fn func(segIndex int)) {
	m.mu.Lock()
	m.onHighlight = fn
	m.mu.Unlock()
}

// onStoreChange schedules a position update on the next frame when the
// tree index or animation playhead moved while not scrubbing.
func (m *Manager) onStoreChange(st playback.State) {
	if m.engine.Active() {
		return
	}

	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return
	}
	if m.lastSeen.valid && m.lastSeen.tree == st.CurrentTreeIndex && m.lastSeen.anim == st.AnimationProgress {
		m.mu.Unlock()
		return
	}
	if m.hasPending {
		m.mu.Unlock()
		return
	}
	m.hasPending = true
	m.pendingCancel = m.scheduler.Schedule(m.flushPositionUpdate)
	m.mu.Unlock()
}

func (m *Manager) flushPositionUpdate() {
	m.mu.Lock()
	m.hasPending = false
	m.pendingCancel = nil
	destroyed := m.destroyed
	m.mu.Unlock()
	if destroyed {
		return
	}
	m.UpdateCurrentPosition()
}

// UpdateCurrentPosition recomputes the playhead from the store: the
// animation playhead while playing, otherwise the preserved timeline
// progress. Moves the scrubber visual, highlights the owning segment,
// and writes the derived timeline context back. Two consecutive calls
// with an unchanged store produce identical writes.
func (m *Manager) UpdateCurrentPosition() {
	if m.Disabled() {
		return
	}

	st := m.store.Get()
	p := st.AnimationProgress
	if !st.Playing && st.TimelineProgress != nil {
		p = *st.TimelineProgress
	}
	t := timeline.ProgressToTime(p, m.data.Total)

	target, ok := timeline.TargetTreeForTime(m.segments, m.data, t, timeline.BiasNearest, m.epsilon)
	if !ok {
		return
	}

	m.mu.Lock()
	playhead := m.onPlayhead
	highlight := m.onHighlight
	m.mu.Unlock()

	if playhead != nil {
		playhead(t)
	}
	if highlight != nil {
		highlight(target.SegmentIndex)
	}

	seg := m.segments[target.SegmentIndex]
	treeInSegment := target.TreeIndex - seg.FirstTreeIndex()

	// Record what we are about to write so our own mutation does not
	// schedule another round.
	m.mu.Lock()
	m.lastSeen.valid = true
	m.lastSeen.tree = target.TreeIndex
	m.lastSeen.anim = st.AnimationProgress
	m.mu.Unlock()

	m.store.Update(func(s *playback.State) {
		s.CurrentTreeIndex = target.TreeIndex
		s.CurrentSegmentIndex = target.SegmentIndex
		s.TreeInSegment = treeInSegment
		s.TreesInSegment = seg.Steps()
		if !s.Playing {
			v := p
			s.TimelineProgress = &v
		} else {
			s.TimelineProgress = nil
		}
	})
}

// OnScrubberDrag handles a drag event at timeline position tMs. The
// first event of a session opens the drag; subsequent events move it.
func (m *Manager) OnScrubberDrag(tMs float64) {
	if m.Disabled() {
		return
	}
	p := timeline.TimeToProgress(tMs, m.data.Total)

	m.mu.Lock()
	starting := !m.dragging
	m.dragging = true
	m.mu.Unlock()

	if starting {
		m.engine.Start(p)
		m.engine.Update(p)
		return
	}
	m.engine.Update(p)
}

// OnScrubberRelease closes the drag session at tMs and finalizes the
// store at the exact release position; it never snaps to an anchor.
func (m *Manager) OnScrubberRelease(tMs float64) {
	if m.Disabled() {
		return
	}

	m.mu.Lock()
	wasDragging := m.dragging
	m.dragging = false
	m.mu.Unlock()
	if !wasDragging {
		return
	}

	p := timeline.TimeToProgress(tMs, m.data.Total)
	state := m.engine.End(&p)

	if state != nil {
		m.store.SetTimelineProgress(state.Progress, state.Interpolation.PrimaryIndex())
		return
	}
	// No frame was ever dispatched in this session: resolve the tree
	// directly from the release time.
	t := timeline.ProgressToTime(p, m.data.Total)
	target, ok := timeline.TargetTreeForTime(m.segments, m.data, t, timeline.BiasNearest, m.epsilon)
	if !ok {
		return
	}
	m.store.SetTimelineProgress(p, target.TreeIndex)
}

// OnSegmentClick jumps to the first tree of the clicked segment.
func (m *Manager) OnSegmentClick(segIndex int) {
	if m.Disabled() || segIndex < 0 || segIndex >= len(m.segments) {
		return
	}

	seg := m.segments[segIndex]
	first := seg.FirstTreeIndex()
	prev := m.store.Get().CurrentTreeIndex

	dir := playback.DirectionJump
	switch {
	case prev < first:
		dir = playback.DirectionForward
	case prev > first:
		dir = playback.DirectionBackward
	}

	p := timeline.TimeToProgress(m.data.SegmentStart(segIndex), m.data.Total)
	m.store.Update(func(s *playback.State) {
		s.Direction = dir
		s.CurrentTreeIndex = first
		s.AnimationProgress = p
		v := p
		s.TimelineProgress = &v
	})
	m.emitter.Emit(telemetry.Event{
		Kind:      telemetry.KindSegmentClick,
		TreeIndex: first,
		Progress:  p,
		Data:      map[string]any{"segment": segIndex, "direction": dir.String()},
	})
	m.UpdateCurrentPosition()
}

// Play resumes autoplay from the visual position.
func (m *Manager) Play() {
	if m.Disabled() {
		return
	}
	m.store.Update(func(s *playback.State) {
		s.AnimationProgress = s.VisualProgress()
		s.TimelineProgress = nil
		s.Playing = true
		s.Direction = playback.DirectionForward
	})
	m.emitter.Emit(telemetry.Event{Kind: telemetry.KindPlay, Progress: m.store.Get().AnimationProgress})
}

// Pause stops autoplay, keeping the playhead where it is.
func (m *Manager) Pause() {
	if m.Disabled() {
		return
	}
	m.store.Update(func(s *playback.State) { s.Playing = false })
	m.emitter.Emit(telemetry.Event{Kind: telemetry.KindPause, Progress: m.store.Get().AnimationProgress})
}

// GoToTree jumps the playhead to a specific tree index, placing the
// progress at the owning segment's local position for that step.
func (m *Manager) GoToTree(treeIndex int) {
	if m.Disabled() {
		return
	}
	if treeIndex < 0 {
		treeIndex = 0
	}
	if n := m.movie.TreeCount(); treeIndex >= n {
		treeIndex = n - 1
	}

	segIndex, t := m.timeForTree(treeIndex)
	p := timeline.TimeToProgress(t, m.data.Total)
	prev := m.store.Get().CurrentTreeIndex

	dir := playback.DirectionJump
	switch {
	case prev < treeIndex:
		dir = playback.DirectionForward
	case prev > treeIndex:
		dir = playback.DirectionBackward
	}

	m.store.Update(func(s *playback.State) {
		s.Direction = dir
		s.CurrentTreeIndex = treeIndex
		s.AnimationProgress = p
		v := p
		s.TimelineProgress = &v
		s.CurrentSegmentIndex = segIndex
	})
	m.emitter.Emit(telemetry.Event{Kind: telemetry.KindSeek, TreeIndex: treeIndex, Progress: p})
	m.UpdateCurrentPosition()
}

// timeForTree returns the segment owning a tree and the movie time at
// which that tree is the resolved target: mid dwell for anchors, the
// step's center otherwise.
func (m *Manager) timeForTree(treeIndex int) (segIndex int, tMs float64) {
	for i, seg := range m.segments {
		if treeIndex < seg.FirstTreeIndex() || treeIndex > seg.LastTreeIndex() {
			continue
		}
		start := m.data.SegmentStart(i)
		dur := m.data.Durations[i]
		if seg.IsAnchor || seg.Steps() < 2 {
			return i, start + dur/2
		}
		step := treeIndex - seg.FirstTreeIndex()
		frac := float64(step) / float64(seg.Steps()-1)
		// Keep the point inside the segment.
		return i, start + m.epsilon + frac*(dur-2*m.epsilon)
	}
	return 0, 0
}

// Rebind swaps the external renderer without tearing down segments,
// for when the tree-controller instance changes.
func (m *Manager) Rebind(r scrubber.Renderer) {
	m.engine.SetRenderer(r)
}

// Destroy cancels pending frames, unsubscribes from the store, and
// releases the timeline. The manager is permanently disabled after.
func (m *Manager) Destroy() {
	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return
	}
	m.destroyed = true
	m.dragging = false
	if m.pendingCancel != nil {
		m.pendingCancel()
		m.pendingCancel = nil
	}
	m.hasPending = false
	m.mu.Unlock()

	if m.engine.Active() {
		m.engine.End(nil)
	}
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.segments = nil
	m.data = timeline.Data{}
}
