package tui

import (
	"fmt"
	"time"

	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/movie"
	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/scrubber"
)

// MsgTick drives the autoplay clock.
type MsgTick struct {
	At time.Time
}

// MsgScrubFrame carries a dispatched scrub frame from the render sink
// into the model for display.
type MsgScrubFrame struct {
	Blend float64
	Opts  scrubber.FrameOptions
}

// MsgPlanReloaded is sent when the watched plan file changed on disk
// and a fresh movie was loaded.
type MsgPlanReloaded struct {
	Movie *movie.Movie
}

// MsgPlanRemoved is sent when the watched plan file disappeared.
type MsgPlanRemoved struct {
	Path string
}

// MsgError surfaces a non-fatal error in the frame panel.
type MsgError struct {
	Err error
}

func errPlanRemoved(path string) error {
	return fmt.Errorf("plan file removed: %s", path)
}
