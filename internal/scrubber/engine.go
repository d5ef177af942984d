// Package scrubber implements the interactive drag engine: it accepts
// high-frequency playhead updates, throttles them to a render budget
// with latest-wins coalescing, and dispatches interpolated frames to
// the external tree renderer. Drag sessions are distinct from autoplay
// and finalize without snapping to an anchor.
package scrubber

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/movie"
	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/playback"
	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/telemetry"
	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/timeline"
)

// finalEpsilon is the progress delta below which a release position is
// considered identical to the last rendered one.
const finalEpsilon = 1e-6

// Clock abstracts time.Now for deterministic tests.
type Clock func() time.Time

// FrameScheduler queues one callback for the next animation frame.
// Schedule returns a cancel function; scheduling is latest-wins, the
// engine holds at most one pending handle.
type FrameScheduler interface {
	Schedule(fn func()) (cancel func())
}

// timerScheduler schedules frames on a real timer.
type timerScheduler struct {
	delay time.Duration
}

func (s timerScheduler) Schedule(fn func()) func() {
	t := time.AfterFunc(s.delay, fn)
	return func() { t.Stop() }
}

// NewFrameScheduler returns a timer-backed scheduler firing after the
// given delay, the production stand-in for an animation frame.
func NewFrameScheduler(delay time.Duration) FrameScheduler {
	return timerScheduler{delay: delay}
}

// FrameOptions carries render context alongside the tree pair.
type FrameOptions struct {
	Direction     playback.Direction
	FromTreeIndex int
	ToTreeIndex   int
	ScrubMode     bool
}

// Renderer is the external tree renderer contract. The engine makes no
// assumptions about geometry, coloring, or graphics API.
type Renderer interface {
	RenderScrubFrame(ctx context.Context, from, to movie.Tree, t float64, opts FrameOptions) error
}

// FrameState is the cached outcome of the last successful dispatch.
type FrameState struct {
	Progress      float64
	Interpolation timeline.Interpolation
	Direction     playback.Direction
}

// Config assembles an Engine.
type Config struct {
	Store     *playback.Store
	Movie     *movie.Movie
	Segments  []timeline.Segment
	Data      timeline.Data
	Renderer  Renderer
	Emitter   *telemetry.Emitter
	Clock     Clock
	Scheduler FrameScheduler
	Throttle  time.Duration // render budget, default 16 ms
	EpsilonMS float64       // boundary epsilon, default 1 ms
}

// Engine is the scrubber state machine: IDLE -> DRAGGING -> IDLE.
// Public methods are safe for concurrent use, though in practice they
// run on the single UI task queue; the mutex exists because the
// pending-frame flush fires from a timer goroutine.
type Engine struct {
	mu        sync.Mutex
	store     *playback.Store
	movie     *movie.Movie
	segments  []timeline.Segment
	data      timeline.Data
	renderer  Renderer
	emitter   *telemetry.Emitter
	clock     Clock
	scheduler FrameScheduler
	throttle  time.Duration
	epsilonMS float64

	active          bool
	currentProgress float64
	lastUpdate      time.Time
	pendingCancel   func()
	pendingProgress float64
	hasPending      bool
	last            *FrameState
}

// NewEngine creates an idle engine. Zero-value Throttle and EpsilonMS
// fall back to the canonical 16 ms budget and 1 ms boundary epsilon.
func NewEngine(cfg Config) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Throttle <= 0 {
		cfg.Throttle = 16 * time.Millisecond
	}
	if cfg.EpsilonMS <= 0 {
		cfg.EpsilonMS = 1
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = NewFrameScheduler(cfg.Throttle)
	}
	return &Engine{
		store:     cfg.Store,
		movie:     cfg.Movie,
		segments:  cfg.Segments,
		data:      cfg.Data,
		renderer:  cfg.Renderer,
		emitter:   cfg.Emitter,
		clock:     cfg.Clock,
		scheduler: cfg.Scheduler,
		throttle:  cfg.Throttle,
		epsilonMS: cfg.EpsilonMS,
	}
}

// Active reports whether a drag session is in progress.
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// SetRenderer rebinds the render target without tearing down the
// session, for when the external tree-controller instance changes.
func (e *Engine) SetRenderer(r Renderer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderer = r
}

// Start opens a drag session at the given progress. The engine takes
// ownership of the store's subscription pause for the session.
func (e *Engine) Start(p float64) {
	e.mu.Lock()
	e.active = true
	e.currentProgress = timeline.ClampProgress(p)
	e.last = nil
	e.lastUpdate = time.Time{}
	e.mu.Unlock()

	e.store.Update(func(st *playback.State) { st.SubscriptionPaused = true })
	e.emitter.Emit(telemetry.Event{Kind: telemetry.KindScrubStart, Progress: timeline.ClampProgress(p)})
}

// Update moves the drag to a new progress. Calls arriving inside the
// throttle window coalesce into a single queued frame, latest wins;
// otherwise the frame renders immediately.
func (e *Engine) Update(p float64) {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return
	}
	p = timeline.ClampProgress(p)

	if e.clock().Sub(e.lastUpdate) < e.throttle {
		e.pendingProgress = p
		if !e.hasPending {
			e.hasPending = true
			e.pendingCancel = e.scheduler.Schedule(e.flushPending)
		}
		e.mu.Unlock()
		return
	}
	// An immediate frame supersedes any queued one.
	e.cancelPending()
	e.performUpdate(p)
	e.mu.Unlock()
}

// End closes the drag session. A non-nil finalP that differs from the
// last rendered progress produces one final frame; nil keeps the
// current progress unchanged. The last frame state is returned so the
// caller can finalize the store without snapping.
func (e *Engine) End(finalP *float64) *FrameState {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return nil
	}
	e.cancelPending()
	if finalP != nil {
		p := timeline.ClampProgress(*finalP)
		if math.Abs(p-e.currentProgress) > finalEpsilon {
			e.performUpdate(p)
		}
	}
	state := e.last
	e.active = false
	e.mu.Unlock()

	e.store.Update(func(st *playback.State) { st.SubscriptionPaused = false })

	evt := telemetry.Event{Kind: telemetry.KindScrubEnd}
	if state != nil {
		evt.Progress = state.Progress
		evt.TreeIndex = state.Interpolation.PrimaryIndex()
		evt.Data = map[string]string{"direction": state.Direction.String()}
	}
	e.emitter.Emit(evt)
	return state
}

// LastState returns the cached outcome of the most recent dispatch.
func (e *Engine) LastState() *FrameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// flushPending renders the coalesced frame queued by Update.
func (e *Engine) flushPending() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active || !e.hasPending {
		return
	}
	e.hasPending = false
	e.pendingCancel = nil
	e.performUpdate(e.pendingProgress)
}

// cancelPending discards the queued frame. Caller holds e.mu.
func (e *Engine) cancelPending() {
	if e.pendingCancel != nil {
		e.pendingCancel()
		e.pendingCancel = nil
	}
	e.hasPending = false
}

// performUpdate resolves the interpolation for p and dispatches one
// render frame. Failures are recorded and swallowed; the cached last
// state is not updated for a failed frame. Caller holds e.mu.
func (e *Engine) performUpdate(p float64) {
	e.lastUpdate = e.clock()
	prev := e.currentProgress
	e.currentProgress = p

	interp, ok := timeline.InterpolationForProgress(p, e.segments, e.data, e.epsilonMS)
	if !ok {
		return
	}

	direction := e.direction(p, prev)
	primary := interp.PrimaryIndex()

	// Expose the primary index while the frame renders so downstream
	// color and highlight queries resolve against it, then restore.
	restore := e.store.Get().CurrentTreeIndex
	e.store.Update(func(st *playback.State) { st.CurrentTreeIndex = primary })

	err := e.dispatch(interp, direction)

	e.store.Update(func(st *playback.State) { st.CurrentTreeIndex = restore })

	if err != nil {
		e.emitter.Emit(telemetry.Event{
			Kind:      telemetry.KindRenderError,
			TreeIndex: primary,
			Progress:  p,
			Data:      map[string]string{"error": err.Error()},
		})
		return
	}
	e.last = &FrameState{Progress: p, Interpolation: interp, Direction: direction}
}

// direction derives the drag direction from the progress delta, falling
// back to the last frame's direction and then the store's.
func (e *Engine) direction(p, prev float64) playback.Direction {
	switch {
	case e.last == nil && p == prev:
		return e.store.Get().Direction
	case p > prev:
		return playback.DirectionForward
	case p < prev:
		return playback.DirectionBackward
	case e.last != nil:
		return e.last.Direction
	default:
		return e.store.Get().Direction
	}
}

func (e *Engine) dispatch(in timeline.Interpolation, dir playback.Direction) error {
	if e.renderer == nil {
		return nil
	}
	var from, to movie.Tree
	if e.movie != nil {
		if in.FromIndex >= 0 && in.FromIndex < len(e.movie.Trees) {
			from = e.movie.Trees[in.FromIndex]
		}
		if in.ToIndex >= 0 && in.ToIndex < len(e.movie.Trees) {
			to = e.movie.Trees[in.ToIndex]
		}
	}
	return e.renderer.RenderScrubFrame(context.Background(), from, to, in.T, FrameOptions{
		Direction:     dir,
		FromTreeIndex: in.FromIndex,
		ToTreeIndex:   in.ToIndex,
		ScrubMode:     true,
	})
}
