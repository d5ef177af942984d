package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/movie"
	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/playback"
	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/player"
	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/scrubber"
	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/telemetry"
)

// Program is an alias for tea.Program, exposed so callers don't need
// to import bubbletea directly.
type Program = tea.Program

// FrameSink forwards dispatched scrub frames into the running program.
// The send target is bound after the program exists.
type FrameSink struct {
	send func(tea.Msg)
}

// RenderScrubFrame implements the render contract by queueing the
// frame on the update loop.
func (s *FrameSink) RenderScrubFrame(_ context.Context, _, _ movie.Tree, t float64, opts scrubber.FrameOptions) error {
	if s.send != nil {
		s.send(MsgScrubFrame{Blend: t, Opts: opts})
	}
	return nil
}

// Bind points the sink at a running program.
func (s *FrameSink) Bind(p *Program) {
	s.send = p.Send
}

// Options configures a player program.
type Options struct {
	Store    *playback.Store
	Emitter  *telemetry.Emitter
	Tick     time.Duration
	Throttle time.Duration
	Player   player.Config // timing knobs; Movie/Store/Renderer are overwritten
}

// NewProgram wires store, manager, render sink, and model into a
// bubbletea program on the alternate screen.
func NewProgram(mov *movie.Movie, opts Options, teaOpts ...tea.ProgramOption) *Program {
	store := opts.Store
	if store == nil {
		store = playback.NewStore()
	}
	sink := &FrameSink{}

	build := func(mv *movie.Movie) *player.Manager {
		cfg := opts.Player
		cfg.Movie = mv
		cfg.Store = store
		cfg.Renderer = sink
		cfg.Emitter = opts.Emitter
		cfg.Throttle = opts.Throttle
		return player.New(cfg)
	}

	model := NewModel(build(mov), store, mov, opts.Tick, build)

	allOpts := append([]tea.ProgramOption{tea.WithAltScreen()}, teaOpts...)
	p := tea.NewProgram(model, allOpts...)
	sink.Bind(p)
	return p
}

// Run creates and runs a player program, blocking until it exits.
func Run(mov *movie.Movie, opts Options) error {
	p := NewProgram(mov, opts)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// WithOutput returns a program option that directs TUI output to the
// given writer. Useful for testing or redirecting output.
func WithOutput(w io.Writer) tea.ProgramOption {
	return tea.WithOutput(w)
}
