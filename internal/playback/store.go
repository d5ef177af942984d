// Package playback holds the single source of truth for player state:
// the current tree, playhead progress, play/pause, and navigation
// direction. The store is the only shared mutable state in the core;
// only the timeline manager and the scrubber write playback fields.
package playback

import "sync"

// Direction describes how the playhead last moved.
type Direction int

const (
	DirectionForward Direction = iota
	DirectionBackward
	DirectionJump
)

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case DirectionBackward:
		return "backward"
	case DirectionJump:
		return "jump"
	default:
		return "forward"
	}
}

// State is one snapshot of playback state. TimelineProgress, when
// non-nil and not playing, overrides AnimationProgress for the
// scrubber visual; this is what preserves the exact release position
// after a drag.
type State struct {
	CurrentTreeIndex  int
	AnimationProgress float64  // autoplay playhead in [0, 1]
	TimelineProgress  *float64 // scrub release position, nil when unset
	Playing           bool
	Direction         Direction

	// SubscriptionPaused is owned transiently by the scrubber during a
	// drag; while set, subscribers are not notified of mutations.
	SubscriptionPaused bool

	// Derived timeline context written back by the manager.
	CurrentSegmentIndex int
	TreeInSegment       int
	TreesInSegment      int
}

// VisualProgress returns the progress the scrubber visual should show:
// the animation playhead while playing, otherwise the preserved
// timeline progress when one is set.
func (s State) VisualProgress() float64 {
	if !s.Playing && s.TimelineProgress != nil {
		return *s.TimelineProgress
	}
	return s.AnimationProgress
}

// Store is a mutex-guarded playback state container with pause-aware
// subscriptions. Subscribers run synchronously after a mutation
// commits, outside the lock.
type Store struct {
	mu     sync.Mutex
	state  State
	subs   map[int]func(State)
	nextID int
}

// NewStore creates a store with zeroed playback state.
func NewStore() *Store {
	return &Store{subs: make(map[int]func(State))}
}

// Get returns a snapshot of the current state.
func (s *Store) Get() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Update applies a mutation and notifies subscribers, unless
// subscriptions are paused after the mutation commits.
func (s *Store) Update(mutate func(*State)) {
	s.mu.Lock()
	mutate(&s.state)
	snapshot := s.state
	var fns []func(State)
	if !snapshot.SubscriptionPaused {
		fns = make([]func(State), 0, len(s.subs))
		for _, fn := range s.subs {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}

// Subscribe registers a callback invoked after each unpaused mutation.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// SetTimelineProgress records a scrub release: the exact progress, the
// primary tree index, and the blend factor's owning direction are
// written together so downstream consumers see one consistent state.
func (s *Store) SetTimelineProgress(p float64, treeIndex int) {
	s.Update(func(st *State) {
		v := p
		st.TimelineProgress = &v
		st.CurrentTreeIndex = treeIndex
	})
}

// ClearTimelineProgress removes the preserved release position, letting
// AnimationProgress drive the visual again.
func (s *Store) ClearTimelineProgress() {
	s.Update(func(st *State) {
		st.TimelineProgress = nil
	})
}
