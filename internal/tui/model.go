package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/movie"
	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/playback"
	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/player"
	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/timeline"
)

// RebuildFunc constructs a fresh manager for a reloaded movie.
type RebuildFunc func(*movie.Movie) *player.Manager

// Model is the root bubbletea model for the player. All transport
// actions run on the update loop; the manager handles throttling and
// store writes.
type Model struct {
	manager *player.Manager
	store   *playback.Store
	movie   *movie.Movie
	rebuild RebuildFunc

	keys   KeyMap
	width  int
	height int

	tick      time.Duration
	scrubT    float64 // drag position in ms, valid while scrubbing
	lastFrame *MsgScrubFrame
	lastErr   error
	quitting  bool
}

// NewModel assembles the root model. rebuild may be nil when plan
// watching is disabled.
func NewModel(m *player.Manager, store *playback.Store, mov *movie.Movie, tick time.Duration, rebuild RebuildFunc) Model {
	if tick <= 0 {
		tick = time.Second / 30
	}
	return Model{
		manager: m,
		store:   store,
		movie:   mov,
		rebuild: rebuild,
		keys:    DefaultKeyMap(),
		tick:    tick,
		width:   80,
		height:  24,
	}
}

// Init starts idle; the tick loop spins up on play.
func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg {
		return MsgTick{At: t}
	})
}

// Update handles transport keys, autoplay ticks, and scrub frames.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case MsgTick:
		return m.handleTick()

	case MsgScrubFrame:
		frame := msg
		m.lastFrame = &frame
		return m, nil

	case MsgPlanReloaded:
		return m.handleReload(msg.Movie)

	case MsgPlanRemoved:
		m.lastErr = errPlanRemoved(msg.Path)
		return m, nil

	case MsgError:
		m.lastErr = msg.Err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// handleTick advances the animation playhead by one frame interval and
// resolves the new position. The loop stops when playback pauses or
// the movie ends.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	st := m.store.Get()
	if !st.Playing {
		return m, nil
	}

	total := m.manager.Data().Total
	if total <= 0 {
		return m, nil
	}
	delta := float64(m.tick.Milliseconds()) / total

	ended := false
	m.store.Update(func(s *playback.State) {
		s.AnimationProgress += delta
		if s.AnimationProgress >= 1 {
			s.AnimationProgress = 1
			s.Playing = false
			ended = true
		}
	})
	m.manager.UpdateCurrentPosition()

	if ended {
		return m, nil
	}
	return m, m.tickCmd()
}

// handleReload swaps in a freshly loaded movie, rebuilding the
// timeline while keeping the store.
func (m Model) handleReload(mov *movie.Movie) (tea.Model, tea.Cmd) {
	if m.rebuild == nil || mov == nil {
		return m, nil
	}
	if m.manager.Mode() == player.ModeScrubbing {
		m.manager.OnScrubberRelease(m.scrubT)
	}
	m.manager.Destroy()
	m.manager = m.rebuild(mov)
	m.movie = mov
	m.lastFrame = nil
	m.lastErr = nil
	m.store.Update(func(s *playback.State) {
		s.Playing = false
		s.AnimationProgress = 0
		s.TimelineProgress = nil
		s.CurrentTreeIndex = 0
	})
	m.manager.UpdateCurrentPosition()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.manager.Destroy()
		return m, tea.Quit

	case key.Matches(msg, m.keys.PlayPause):
		m.releaseScrub()
		if m.manager.Mode() == player.ModePlaying {
			m.manager.Pause()
			return m, nil
		}
		m.manager.Play()
		return m, m.tickCmd()

	case key.Matches(msg, m.keys.StepBack):
		m.releaseScrub()
		m.manager.GoToTree(m.store.Get().CurrentTreeIndex - 1)
		return m, nil

	case key.Matches(msg, m.keys.StepFwd):
		m.releaseScrub()
		m.manager.GoToTree(m.store.Get().CurrentTreeIndex + 1)
		return m, nil

	case key.Matches(msg, m.keys.PrevAnchor):
		m.releaseScrub()
		cur := m.store.Get().CurrentTreeIndex
		m.manager.GoToTree(m.manager.Resolver().PrevAnchor(cur))
		return m, nil

	case key.Matches(msg, m.keys.NextAnchor):
		m.releaseScrub()
		cur := m.store.Get().CurrentTreeIndex
		m.manager.GoToTree(m.manager.Resolver().NextAnchor(cur))
		return m, nil

	case key.Matches(msg, m.keys.First):
		m.releaseScrub()
		m.manager.GoToTree(0)
		return m, nil

	case key.Matches(msg, m.keys.Last):
		m.releaseScrub()
		m.manager.GoToTree(m.movie.TreeCount() - 1)
		return m, nil

	case key.Matches(msg, m.keys.ScrubBack):
		return m.scrubBy(-1), nil

	case key.Matches(msg, m.keys.ScrubFwd):
		return m.scrubBy(1), nil

	case key.Matches(msg, m.keys.Commit):
		if m.manager.Mode() == player.ModeScrubbing {
			m.manager.OnScrubberRelease(m.scrubT)
		}
		return m, nil

	case key.Matches(msg, m.keys.Segment):
		runes := msg.Runes
		if len(runes) == 1 && runes[0] >= '1' && runes[0] <= '9' {
			m.manager.OnSegmentClick(int(runes[0] - '1'))
		}
		return m, nil
	}
	return m, nil
}

// scrubBy opens or continues a keyboard scrub session, moving the drag
// position one step in the given direction.
func (m Model) scrubBy(dir float64) Model {
	total := m.manager.Data().Total
	if total <= 0 {
		return m
	}
	step := total / 100
	if step < 10 {
		step = 10
	}

	if m.manager.Mode() != player.ModeScrubbing {
		m.scrubT = m.playheadMS()
	}
	m.scrubT += dir * step
	if m.scrubT < 0 {
		m.scrubT = 0
	}
	if m.scrubT > total {
		m.scrubT = total
	}
	m.manager.OnScrubberDrag(m.scrubT)
	return m
}

// releaseScrub closes an open drag session before a transport jump.
func (m Model) releaseScrub() {
	if m.manager.Mode() == player.ModeScrubbing {
		m.manager.OnScrubberRelease(m.scrubT)
	}
}

// playheadMS is the visual playhead time in milliseconds.
func (m Model) playheadMS() float64 {
	if m.manager.Mode() == player.ModeScrubbing {
		return m.scrubT
	}
	return m.store.Get().VisualProgress() * m.manager.Data().Total
}

func (m Model) modeLabel() string {
	if m.manager.Disabled() {
		return "DISABLED"
	}
	switch m.manager.Mode() {
	case player.ModePlaying:
		return "PLAYING"
	case player.ModeScrubbing:
		return "SCRUBBING"
	default:
		return "IDLE"
	}
}

// View stacks status bar, timeline, frame panel, and footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.store.Get()
	segs := m.manager.Segments()

	status := StatusBar{
		Name:       m.movie.Name,
		Mode:       m.modeLabel(),
		TreeIndex:  st.CurrentTreeIndex,
		TreeCount:  m.movie.TreeCount(),
		SegIndex:   st.CurrentSegmentIndex,
		SegCount:   len(segs),
		PlayheadMS: m.playheadMS(),
		TotalMS:    m.manager.Data().Total,
		Width:      m.width,
	}

	tl := TimelineView{
		Segments:   segs,
		Data:       m.manager.Data(),
		Width:      m.width,
		ActiveSeg:  st.CurrentSegmentIndex,
		PlayheadMS: m.playheadMS(),
	}

	var activeSeg *timeline.Segment
	if st.CurrentSegmentIndex >= 0 && st.CurrentSegmentIndex < len(segs) {
		activeSeg = &segs[st.CurrentSegmentIndex]
	}
	frame := FrameView{
		Movie:     m.movie,
		Resolver:  m.manager.Resolver(),
		Segment:   activeSeg,
		TreeIndex: st.CurrentTreeIndex,
		Frame:     m.lastFrame,
		Err:       m.lastErr,
		Width:     m.width,
	}

	footer := Footer{Keys: m.keys, Width: m.width}

	return status.View() + "\n" +
		tl.View() + "\n" +
		frame.View() + "\n" +
		footer.View()
}
