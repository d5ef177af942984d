// Package telemetry provides a JSONL event stream for recording
// playback activity: movie loads, transport changes, scrub sessions,
// and render failures. Scrub frames are high frequency, so only
// session boundaries are recorded; a failed render dispatch is the one
// per-frame event worth keeping.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Event kinds identify the type of playback event.
const (
	KindMovieLoaded  = "movie_loaded"
	KindPlanReload   = "plan_reload"
	KindPlay         = "play"
	KindPause        = "pause"
	KindSeek         = "seek"
	KindScrubStart   = "scrub_start"
	KindScrubEnd     = "scrub_end"
	KindSegmentClick = "segment_click"
	KindRenderError  = "render_error"
)

// Event represents a single playback record. Each event carries a
// timestamp, a kind tag, and optional playhead context along with
// arbitrary structured data.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	Movie     string    `json:"movie,omitempty"`
	TreeIndex int       `json:"tree,omitempty"`
	Progress  float64   `json:"progress,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// Emitter writes playback events to a JSONL file. It is safe for
// concurrent use by multiple goroutines. A nil *Emitter is a valid
// no-op emitter.
type Emitter struct {
	file *os.File
	enc  *json.Encoder
	mu   sync.Mutex
}

// NewEmitter creates a new Emitter that writes JSONL events to the
// file at path. The file is created if it does not exist, or appended
// to if it does.
func NewEmitter(path string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	return &Emitter{
		file: f,
		enc:  json.NewEncoder(f),
	}, nil
}

// Emit writes a single event, stamping the time when unset. It is safe
// for concurrent use. Calling Emit on a nil Emitter is a no-op.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file. Calling Close on a nil
// Emitter is a no-op.
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.file.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}
