// ABOUTME: Single-line status bar showing the focused shader, coordinator state, and refresh history.
// ABOUTME: Rendered at the bottom of the dashboard.
package tui

import (
	"fmt"
	"time"

	"github.com/2389-research/glslpreview/debounce"
	"github.com/2389-research/glslpreview/workspace"
	"github.com/charmbracelet/lipgloss"
)

// StatusBarModel displays preview status in a single line.
type StatusBarModel struct {
	active      string
	state       debounce.State
	delay       time.Duration
	refreshes   int
	lastRefresh time.Time
	width       int
}

// NewStatusBarModel creates a status bar for a session with the given quiescence delay.
func NewStatusBarModel(delay time.Duration) StatusBarModel {
	return StatusBarModel{state: debounce.Idle, delay: delay}
}

// SetActive sets the focused document URI.
func (m *StatusBarModel) SetActive(uri string) {
	m.active = uri
}

// SetState sets the coordinator state.
func (m *StatusBarModel) SetState(s debounce.State) {
	m.state = s
}

// SetRefresh records the most recent refresh and the total count.
func (m *StatusBarModel) SetRefresh(at time.Time, count int) {
	m.lastRefresh = at
	m.refreshes = count
}

// SetWidth sets the bar width for rendering.
func (m *StatusBarModel) SetWidth(w int) {
	m.width = w
}

// formatAgo renders how long ago t was, or "never".
func formatAgo(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t).Truncate(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) - minutes*60
	return fmt.Sprintf("%dm%ds ago", minutes, seconds)
}

// View renders the status bar as a single styled line.
func (m StatusBarModel) View() string {
	content := fmt.Sprintf("Shader: %s | %s | Delay: %s | Refreshes: %d | Last: %s",
		workspace.DisplayName(m.active),
		StyleForState(m.state).Render(string(m.state)),
		m.delay,
		m.refreshes,
		formatAgo(m.lastRefresh, time.Now()),
	)

	style := StatusBarStyle.Width(m.width)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Left, style.Render(content))
}
