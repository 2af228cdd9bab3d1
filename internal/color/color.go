package color

import "github.com/charmbracelet/lipgloss"

// Semantic styles used across the dashboard. Assigned by Initialize and
// safe to use before it runs thanks to the package-level defaults.
var (
	Success = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#007000", Dark: "#4ADE80"})
	Warning = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#8A6D00", Dark: "#FACC15"})
	Error   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B00000", Dark: "#F87171"})
	Info    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#004080", Dark: "#58A6FF"})
	Muted   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#707070", Dark: "#9CA3AF"})
)

// Initialize forces the dark/light background assumption for all adaptive
// colors. Useful when autodetection fails, e.g. under tmux or in CI.
func Initialize(isDarkMode bool) {
	lipgloss.SetHasDarkBackground(isDarkMode)
}

// ForStatus maps a Proxmox status string to a semantic style.
func ForStatus(status string) lipgloss.Style {
	switch status {
	case "running", "online":
		return Success
	case "stopped", "offline":
		return Muted
	default:
		return Warning
	}
}
