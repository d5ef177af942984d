package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestStatusBar_View(t *testing.T) {
	t.Parallel()

	s := StatusBar{
		Name:       "norovirus",
		Mode:       "PLAYING",
		TreeIndex:  2,
		TreeCount:  9,
		SegIndex:   1,
		SegCount:   5,
		PlayheadMS: 400,
		TotalMS:    1500,
		Width:      100,
	}
	view := s.View()

	for _, want := range []string{"norovirus", "PLAYING", "3/9", "2/5", "0:00.400", "0:01.500"} {
		if !strings.Contains(view, want) {
			t.Errorf("status bar missing %q:\n%s", want, view)
		}
	}
}

func TestStatusBar_NarrowDropsSegments(t *testing.T) {
	t.Parallel()

	s := StatusBar{
		Name:      "a-rather-long-movie-name",
		Mode:      "IDLE",
		TreeCount: 9,
		SegCount:  5,
		TotalMS:   1500,
		Width:     30,
	}
	view := s.View()

	if got := lipgloss.Width(view); got > 30 {
		t.Errorf("narrow status bar width = %d, want <= 30", got)
	}
}

func TestFormatClock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ms   float64
		want string
	}{
		{0, "0:00.000"},
		{1500, "0:01.500"},
		{61250, "1:01.250"},
		{-5, "0:00.000"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.ms); got != tt.want {
			t.Errorf("formatClock(%v) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}
