package player

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"testing"

	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/movie"
	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/playback"
	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/scrubber"
	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/timeline"
)

// manualScheduler captures the queued callback for explicit firing.
type manualScheduler struct {
	mu        sync.Mutex
	fn        func()
	schedules int
}

func (s *manualScheduler) Schedule(fn func()) func() {
	s.mu.Lock()
	s.fn = fn
	s.schedules++
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.fn = nil
		s.mu.Unlock()
	}
}

func (s *manualScheduler) Fire() {
	s.mu.Lock()
	fn := s.fn
	s.fn = nil
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (s *manualScheduler) scheduleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedules
}

// nullRenderer accepts every frame.
type nullRenderer struct{}

func (nullRenderer) RenderScrubFrame(context.Context, movie.Tree, movie.Tree, float64, scrubber.FrameOptions) error {
	return nil
}

// movieFixture is the 9-tree movie: anchors at 0, 4, 8 with three
// microsteps per transition. Default timing gives durations
// [100, 600, 100, 600, 100], 1500 ms total.
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
			{Type: movie.EntryOriginal, GlobalIndex: 0},
			{Type: movie.EntrySplitEvent, StepRangeGlobal: []int{1, 3}, PairKey: "0_1"},
			{Type: movie.EntryOriginal, GlobalIndex: 4},
			{Type: movie.EntrySplitEvent, StepRangeGlobal: []int{5, 7}, PairKey: "1_2"},
			{Type: movie.EntryOriginal, GlobalIndex: 8},
		},
	}
}

func managerFixture(t *testing.T) (*Manager, *playback.Store, *manualScheduler) {
	t.Helper()
	store := playback.NewStore()
	sched := &manualScheduler{}
	m := New(Config{
		Movie:     movieFixture(),
		Store:     store,
		Renderer:  nullRenderer{},
		Timeline:  timeline.DefaultConfig(),
		Scheduler: sched,
	})
	t.Cleanup(m.Destroy)
	return m, store, sched
}

func TestManager_BuildsTimeline(t *testing.T) {
	t.Parallel()

	m, _, _ := managerFixture(t)

	if m.Disabled() {
		t.Fatal("manager disabled for a playable movie")
	}
	if got := len(m.Segments()); got != 5 {
		t.Fatalf("segments = %d, want 5", got)
	}
	if got := m.Data().Total; got != 1500 {
		t.Errorf("total = %v, want 1500", got)
	}
	if got := m.Resolver().AnchorIndices(); len(got) != 3 {
		t.Errorf("anchors = %v, want 3 entries", got)
	}
}

func TestManager_DisabledOnEmptyMovie(t *testing.T) {
	t.Parallel()

	store := playback.NewStore()
	m := New(Config{
		Movie:     &movie.Movie{},
		Store:     store,
		Scheduler: &manualScheduler{},
	})
	defer m.Destroy()

	if !m.Disabled() {
		t.Fatal("manager not disabled for an empty movie")
	}

	before := store.Get()
	m.UpdateCurrentPosition()
	m.OnScrubberDrag(300)
	m.OnScrubberRelease(600)
	m.OnSegmentClick(0)
	m.Play()
	m.GoToTree(3)

	if got := store.Get(); got != before {
		t.Errorf("disabled manager wrote store: %+v", got)
	}
}

func TestManager_UpdateCurrentPosition_Idle(t *testing.T) {
	t.Parallel()

	m, store, _ := managerFixture(t)

	var playheadMs []float64
	var highlights []int
	m.SetPlayheadFunc(func(t float64) { playheadMs = append(playheadMs, t) })
	m.SetHighlightFunc(func(i int) { highlights = append(highlights, i) })

	// Idle consumes the preserved timeline progress: t=400 ms falls in
	// transition 0-1 at local 300/600, resolving to microstep 2.
	p := 400.0 / 1500.0
	store.SetTimelineProgress(p, 0)
	m.UpdateCurrentPosition()

	st := store.Get()
	if st.CurrentTreeIndex != 2 {
		t.Errorf("CurrentTreeIndex = %d, want 2", st.CurrentTreeIndex)
	}
	if st.CurrentSegmentIndex != 1 {
		t.Errorf("CurrentSegmentIndex = %d, want 1", st.CurrentSegmentIndex)
	}
	if st.TreeInSegment != 1 || st.TreesInSegment != 3 {
		t.Errorf("segment position = %d/%d, want 1/3", st.TreeInSegment, st.TreesInSegment)
	}
	if st.TimelineProgress == nil || *st.TimelineProgress != p {
		t.Errorf("TimelineProgress = %v, want preserved %v", st.TimelineProgress, p)
	}
	if len(playheadMs) == 0 || math.Abs(playheadMs[len(playheadMs)-1]-400) > 1e-9 {
		t.Errorf("playhead calls = %v, want last 400", playheadMs)
	}
	if len(highlights) == 0 || highlights[len(highlights)-1] != 1 {
		t.Errorf("highlights = %v, want last 1", highlights)
	}
}

func TestManager_UpdateCurrentPosition_Playing(t *testing.T) {
	t.Parallel()

	m, store, _ := managerFixture(t)

	stale := 0.9
	store.Update(func(s *playback.State) {
		s.Playing = true
		s.AnimationProgress = 50.0 / 1500.0 // mid anchor dwell
		s.TimelineProgress = &stale
	})
	m.UpdateCurrentPosition()

	st := store.Get()
	if st.CurrentTreeIndex != 0 {
		t.Errorf("CurrentTreeIndex = %d, want anchor 0", st.CurrentTreeIndex)
	}
	if st.TimelineProgress != nil {
		t.Error("stale timeline progress kept while playing")
	}
}

func TestManager_UpdateCurrentPosition_Idempotent(t *testing.T) {
	t.Parallel()

	m, store, _ := managerFixture(t)

	store.SetTimelineProgress(700.0/1500.0, 0)
	m.UpdateCurrentPosition()
	first := store.Get()
	m.UpdateCurrentPosition()
	second := store.Get()

	if first.CurrentTreeIndex != second.CurrentTreeIndex ||
		first.CurrentSegmentIndex != second.CurrentSegmentIndex ||
		first.TreeInSegment != second.TreeInSegment ||
		first.TreesInSegment != second.TreesInSegment ||
		*first.TimelineProgress != *second.TimelineProgress {
		t.Errorf("repeated update diverged:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestManager_StoreChangeSchedulesOneUpdate(t *testing.T) {
	t.Parallel()

	m, store, sched := managerFixture(t)
	_ = m

	base := sched.scheduleCount()
	// Several playhead ticks inside one frame coalesce.
	store.Update(func(s *playback.State) { s.AnimationProgress = 0.1 })
	store.Update(func(s *playback.State) { s.AnimationProgress = 0.2 })
	store.Update(func(s *playback.State) { s.AnimationProgress = 0.3 })

	if got := sched.scheduleCount() - base; got != 1 {
		t.Fatalf("schedules = %d, want 1 coalesced update", got)
	}

	sched.Fire()
	st := store.Get()
	if st.CurrentTreeIndex == 0 && st.CurrentSegmentIndex == 0 {
		t.Errorf("position not updated after flush: %+v", st)
	}

	// The manager's own writes do not reschedule.
	if got := sched.scheduleCount() - base; got != 1 {
		t.Errorf("schedules after flush = %d, want still 1", got)
	}
}

func TestManager_ScrubSession(t *testing.T) {
	t.Parallel()

	m, store, _ := managerFixture(t)

	m.OnScrubberDrag(100)
	if m.Mode() != ModeScrubbing {
		t.Fatal("drag did not open a scrub session")
	}
	if !store.Get().SubscriptionPaused {
		t.Fatal("store not paused during drag")
	}

	m.OnScrubberDrag(200)
	m.OnScrubberRelease(400)

	if m.Mode() == ModeScrubbing {
		t.Fatal("session still open after release")
	}
	st := store.Get()
	if st.SubscriptionPaused {
		t.Error("store still paused after release")
	}
	// Release finalizes at the exact position, no anchor snap.
	wantP := 400.0 / 1500.0
	if st.TimelineProgress == nil || *st.TimelineProgress != wantP {
		t.Errorf("TimelineProgress = %v, want exact %v", st.TimelineProgress, wantP)
	}
	if st.CurrentTreeIndex != 2 {
		t.Errorf("CurrentTreeIndex = %d, want 2", st.CurrentTreeIndex)
	}
}

func TestManager_ReleaseWithoutDragIsNoOp(t *testing.T) {
	t.Parallel()

	m, store, _ := managerFixture(t)

	before := store.Get()
	m.OnScrubberRelease(750)
	if got := store.Get(); got != before {
		t.Errorf("release without drag wrote store: %+v", got)
	}
}

func TestManager_SegmentClick(t *testing.T) {
	t.Parallel()

	m, store, sched := managerFixture(t)

	// Forward jump to the second anchor segment.
	m.OnSegmentClick(2)
	sched.Fire()
	st := store.Get()
	if st.CurrentTreeIndex != 4 {
		t.Errorf("CurrentTreeIndex = %d, want 4", st.CurrentTreeIndex)
	}
	if st.Direction != playback.DirectionForward {
		t.Errorf("direction = %v, want forward", st.Direction)
	}
	if st.CurrentSegmentIndex != 2 {
		t.Errorf("CurrentSegmentIndex = %d, want 2", st.CurrentSegmentIndex)
	}

	// Backward jump to the first segment.
	m.OnSegmentClick(0)
	sched.Fire()
	st = store.Get()
	if st.CurrentTreeIndex != 0 {
		t.Errorf("CurrentTreeIndex = %d, want 0", st.CurrentTreeIndex)
	}
	if st.Direction != playback.DirectionBackward {
		t.Errorf("direction = %v, want backward", st.Direction)
	}

	// Out of range clicks do nothing.
	before := store.Get()
	m.OnSegmentClick(99)
	m.OnSegmentClick(-1)
	if got := store.Get(); got.CurrentTreeIndex != before.CurrentTreeIndex {
		t.Errorf("out-of-range click moved playhead to %d", got.CurrentTreeIndex)
	}
}

func TestManager_GoToTree(t *testing.T) {
	t.Parallel()

	m, store, sched := managerFixture(t)

	m.GoToTree(6)
	sched.Fire()
	st := store.Get()
	if st.CurrentTreeIndex != 6 {
		t.Errorf("CurrentTreeIndex = %d, want 6", st.CurrentTreeIndex)
	}
	if st.CurrentSegmentIndex != 3 {
		t.Errorf("CurrentSegmentIndex = %d, want 3", st.CurrentSegmentIndex)
	}
	if st.Direction != playback.DirectionForward {
		t.Errorf("direction = %v, want forward", st.Direction)
	}

	// Clamped below and above.
	m.GoToTree(-5)
	sched.Fire()
	if got := store.Get().CurrentTreeIndex; got != 0 {
		t.Errorf("CurrentTreeIndex = %d, want clamped 0", got)
	}
	m.GoToTree(99)
	sched.Fire()
	if got := store.Get().CurrentTreeIndex; got != 8 {
		t.Errorf("CurrentTreeIndex = %d, want clamped 8", got)
	}
}

func TestManager_PlayPause(t *testing.T) {
	t.Parallel()

	m, store, _ := managerFixture(t)

	p := 0.4
	store.SetTimelineProgress(p, 2)

	m.Play()
	st := store.Get()
	if !st.Playing {
		t.Fatal("not playing after Play")
	}
	if st.AnimationProgress != p {
		t.Errorf("AnimationProgress = %v, want resumed from %v", st.AnimationProgress, p)
	}
	if st.TimelineProgress != nil {
		t.Error("timeline progress kept after Play")
	}
	if m.Mode() != ModePlaying {
		t.Errorf("mode = %v, want playing", m.Mode())
	}

	m.Pause()
	st = store.Get()
	if st.Playing {
		t.Fatal("still playing after Pause")
	}
	if st.AnimationProgress != p {
		t.Errorf("AnimationProgress = %v, want unchanged %v", st.AnimationProgress, p)
	}
	if m.Mode() != ModeIdle {
		t.Errorf("mode = %v, want idle", m.Mode())
	}
}

func TestManager_DestroyStopsUpdates(t *testing.T) {
	t.Parallel()

	store := playback.NewStore()
	sched := &manualScheduler{}
	m := New(Config{
		Movie:     movieFixture(),
		Store:     store,
		Renderer:  nullRenderer{},
		Timeline:  timeline.DefaultConfig(),
		Scheduler: sched,
	})

	m.Destroy()
	if !m.Disabled() {
		t.Fatal("manager not disabled after Destroy")
	}

	base := sched.scheduleCount()
	store.Update(func(s *playback.State) { s.AnimationProgress = 0.5 })
	if got := sched.scheduleCount() - base; got != 0 {
		t.Errorf("destroyed manager scheduled %d updates", got)
	}

	// Destroy is idempotent.
	m.Destroy()
}
