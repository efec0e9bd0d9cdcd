// ABOUTME: Scrollable activity log built on the bubbles viewport component.
// ABOUTME: Shows edits, preview refreshes, and notifications with color-coded formatting.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// EntryKind classifies a log line.
type EntryKind string

const (
	EntryEdit    EntryKind = "edit"
	EntryRefresh EntryKind = "refresh"
	EntryFocus   EntryKind = "focus"
	EntryInfo    EntryKind = "info"
	EntryWarning EntryKind = "warning"
	EntryError   EntryKind = "error"
)

// LogEntry is one line in the activity log.
type LogEntry struct {
	At   time.Time
	Kind EntryKind
	Text string
}

// LogPanelModel is a scrollable activity log.
type LogPanelModel struct {
	entries  []LogEntry
	max      int
	viewport viewport.Model
	width    int
	height   int
}

// NewLogPanelModel creates a log panel holding at most maxEntries lines.
// If maxEntries is <= 0, it defaults to 200.
func NewLogPanelModel(maxEntries int) LogPanelModel {
	if maxEntries <= 0 {
		maxEntries = 200
	}
	return LogPanelModel{
		entries:  make([]LogEntry, 0, maxEntries),
		max:      maxEntries,
		viewport: viewport.New(80, 10),
	}
}

// Append adds an entry, evicting the oldest when at capacity.
func (m *LogPanelModel) Append(e LogEntry) {
	if len(m.entries) >= m.max {
		m.entries = m.entries[1:]
	}
	m.entries = append(m.entries, e)
	m.syncViewport()
}

// Len returns the number of entries in the log.
func (m LogPanelModel) Len() int {
	return len(m.entries)
}

// Entries returns a copy of the log entries.
func (m LogPanelModel) Entries() []LogEntry {
	out := make([]LogEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// SetSize sets the available dimensions and updates the viewport.
func (m *LogPanelModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	// border takes 2 columns and 2 rows, the title 1 row
	m.viewport.Width = max(w-2, 1)
	m.viewport.Height = max(h-3, 1)
	m.syncViewport()
}

// Update forwards scrolling keys to the viewport.
func (m LogPanelModel) Update(msg tea.Msg) (LogPanelModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the log panel.
func (m LogPanelModel) View() string {
	content := "Waiting for edits..."
	if len(m.entries) > 0 {
		content = m.viewport.View()
	}
	rendered := TitleStyle.Render("ACTIVITY") + "\n" + content

	return BorderStyle.
		Width(max(m.width-2, 1)).
		Height(max(m.height-2, 1)).
		Render(rendered)
}

func (m *LogPanelModel) syncViewport() {
	lines := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		lines = append(lines, formatEntry(e))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}

// formatEntry formats a single entry as a log line.
func formatEntry(e LogEntry) string {
	ts := LogTimestampStyle.Render(e.At.Format("15:04:05"))
	kind := entryStyle(e.Kind).Render(string(e.Kind))
	return ts + " " + kind + " " + e.Text
}

func entryStyle(k EntryKind) lipgloss.Style {
	switch k {
	case EntryEdit, EntryFocus:
		return LogEditStyle
	case EntryRefresh:
		return LogRefreshStyle
	case EntryWarning:
		return LogWarningStyle
	case EntryError:
		return LogErrorStyle
	default:
		return LogInfoStyle
	}
}
