package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the player TUI.
type KeyMap struct {
	PlayPause  key.Binding
	StepBack   key.Binding
	StepFwd    key.Binding
	PrevAnchor key.Binding
	NextAnchor key.Binding
	First      key.Binding
	Last       key.Binding
	ScrubBack  key.Binding
	ScrubFwd   key.Binding
	Commit     key.Binding
	Segment    key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default keybinding configuration.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		PlayPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		StepBack: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev tree"),
		),
		StepFwd: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next tree"),
		),
		PrevAnchor: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "prev anchor"),
		),
		NextAnchor: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next anchor"),
		),
		First: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first tree"),
		),
		Last: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last tree"),
		),
		ScrubBack: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "scrub back"),
		),
		ScrubFwd: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "scrub fwd"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter", "esc"),
			key.WithHelp("enter", "release scrub"),
		),
		Segment: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "jump to segment"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
