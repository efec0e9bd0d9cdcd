// ABOUTME: Defines lipgloss styles for the dashboard panels, coordinator states, and log lines.
// ABOUTME: StyleForState maps coordinator states to their display styles.
package tui

import (
	"github.com/2389-research/glslpreview/debounce"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Panel borders
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	// Coordinator states
	IdleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	ArmedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)

	// Log lines
	LogTimestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	LogEditStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	LogRefreshStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	LogInfoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	LogWarningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	LogErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// StyleForState returns the style for a coordinator state.
func StyleForState(s debounce.State) lipgloss.Style {
	if s == debounce.Armed {
		return ArmedStyle
	}
	return IdleStyle
}
