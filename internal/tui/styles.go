package tui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary     = lipgloss.Color("#00BFFF") // Cyan — primary accent
	colorAccent      = lipgloss.Color("#FFD700") // Gold — anchors
	colorSuccess     = lipgloss.Color("#00E676") // Green — playing
	colorDanger      = lipgloss.Color("#FF5252") // Red — errors
	colorMuted       = lipgloss.Color("#636363") // Gray — de-emphasized
	colorMutedLight  = lipgloss.Color("#8C8C8C") // Lighter gray — normal text
	colorWhite       = lipgloss.Color("#EEEEEE") // Off-white — primary text
	colorBrightWhite = lipgloss.Color("#FFFFFF") // Pure white — emphatic text
	colorSurface     = lipgloss.Color("#1E1E2E") // Dark surface — status bar bg
	colorSurfaceDim  = lipgloss.Color("#181825") // Darkest surface — footer bg
	colorBlue        = lipgloss.Color("#5B8DEF") // Blue — interpolation
	colorViolet      = lipgloss.Color("#B48EAD") // Violet — consensus trees
)

// Timeline bar glyphs.
const (
	glyphAnchor   = "█"
	glyphStep     = "─"
	glyphPlayhead = "▼"
)

// Status bar styles.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorWhite).
			Bold(true).
			Padding(0, 1)

	styleStatusLabel = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleStatusValue = lipgloss.NewStyle().
				Foreground(colorWhite)

	styleStatusPlaying = lipgloss.NewStyle().
				Foreground(colorSuccess).
				Bold(true)

	styleStatusScrub = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	styleStatusIdle = lipgloss.NewStyle().
			Foreground(colorMutedLight)
)

// Timeline bar styles.
var (
	styleSegAnchor = lipgloss.NewStyle().
			Foreground(colorAccent)

	styleSegInterp = lipgloss.NewStyle().
			Foreground(colorBlue)

	styleSegActive = lipgloss.NewStyle().
			Foreground(colorBrightWhite).
			Bold(true)

	stylePlayhead = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)
)

// Frame panel styles — rounded border, styled title.
var (
	styleFrameBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorMuted).
				Padding(0, 1)

	styleFrameTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleFrameDim = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleFrameConsensus = lipgloss.NewStyle().
				Foreground(colorViolet)

	styleFrameError = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)
)

// Footer styles — top border, clear key/desc contrast.
var (
	styleFooter = lipgloss.NewStyle().
			Foreground(colorMuted).
			Background(colorSurfaceDim).
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(colorMuted)

	styleFooterKey = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleFooterSep = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleFooterDesc = lipgloss.NewStyle().
			Foreground(colorMutedLight)
)
