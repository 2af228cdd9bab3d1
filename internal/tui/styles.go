package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	// refreshInterval is how often the guest list is reloaded from the API.
	refreshInterval = 10 * time.Second
	// maxLogLines bounds the activity log kept in memory.
	maxLogLines = 50
)

// Status icons. A terminal with an emoji-capable font is assumed.
const (
	iconRunning = "▶"
	iconStopped = "⏹"
	iconOther   = "⚠"
	iconNode    = "🖥"
	iconLXC     = "📦"
	iconQEMU    = "🗃"
)

var (
	appStyle = lipgloss.NewStyle().Margin(0, 0)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}).
			Background(lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#303030"}).
			Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}).
				Background(lipgloss.AdaptiveColor{Light: "#E8E8FF", Dark: "#1E293B"})

	logLineStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#303030", Dark: "#D0D0D0"})

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#606060", Dark: "#808080"})
)
