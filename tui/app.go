// ABOUTME: Top-level Bubble Tea AppModel composing the activity log and status bar for a preview session.
// ABOUTME: Implements tea.Model; `p` runs showPreview and `q` or ctrl+c quits.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/2389-research/glslpreview/command"
	"github.com/2389-research/glslpreview/extension"
	"github.com/2389-research/glslpreview/host"
	"github.com/2389-research/glslpreview/workspace"
	tea "github.com/charmbracelet/bubbletea"
)

const tickInterval = 250 * time.Millisecond

// AppModel is the top-level Bubble Tea model for the dashboard.
type AppModel struct {
	log       LogPanelModel
	statusBar StatusBarModel

	ext *extension.Extension
	ctx context.Context

	width  int
	height int
}

// NewAppModel creates a dashboard bound to ext. ctx bounds commands started from the keyboard.
func NewAppModel(ctx context.Context, ext *extension.Extension) AppModel {
	m := AppModel{
		log:       NewLogPanelModel(200),
		statusBar: NewStatusBarModel(ext.Coordinator().Delay()),
		ext:       ext,
		ctx:       ctx,
	}
	m.sample()
	return m
}

// Init implements tea.Model and starts the state sampling loop.
func (m AppModel) Init() tea.Cmd {
	return TickCmd(tickInterval)
}

// Update implements tea.Model.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case DocumentEditedMsg:
		evt := msg.Event
		m.log.Append(LogEntry{
			At:   evt.At,
			Kind: EntryEdit,
			Text: fmt.Sprintf("%s v%d (%s)", workspace.DisplayName(evt.URI), evt.Version, evt.Source),
		})
		m.sample()
		return m, nil

	case FocusChangedMsg:
		m.statusBar.SetActive(msg.URI)
		m.log.Append(LogEntry{At: time.Now(), Kind: EntryFocus, Text: workspace.DisplayName(msg.URI)})
		return m, nil

	case PreviewRefreshedMsg:
		m.log.Append(LogEntry{At: msg.At, Kind: EntryRefresh, Text: msg.URI})
		m.sample()
		return m, nil

	case NotificationMsg:
		n := msg.Notification
		m.log.Append(LogEntry{At: n.Time, Kind: kindForSeverity(n.Severity), Text: n.Message})
		return m, nil

	case CommandResultMsg:
		if msg.Err != nil {
			m.log.Append(LogEntry{At: time.Now(), Kind: EntryError, Text: fmt.Sprintf("%s: %v", msg.ID, msg.Err)})
		}
		return m, nil

	case TickMsg:
		m.sample()
		return m, TickCmd(tickInterval)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m AppModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "p":
		m.log.Append(LogEntry{At: time.Now(), Kind: EntryInfo, Text: "running " + command.ShowPreview})
		return m, RunCommandCmd(m.ctx, m.ext, command.ShowPreview)
	}

	var cmd tea.Cmd
	m.log, cmd = m.log.Update(msg)
	return m, cmd
}

// sample copies coordinator and focus state into the status bar.
func (m *AppModel) sample() {
	m.statusBar.SetActive(m.ext.Workspace().ActiveURI())
	m.statusBar.SetState(m.ext.State())
	at, count := m.ext.Coordinator().LastFired()
	m.statusBar.SetRefresh(at, count)
}

// View implements tea.Model.
func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.width < 40 || m.height < 8 {
		return fmt.Sprintf("Terminal too small (%dx%d). Minimum: 40x8.", m.width, m.height)
	}

	// status bar and help line take one row each
	m.log.SetSize(m.width, m.height-2)
	m.statusBar.SetWidth(m.width)

	var b strings.Builder
	b.WriteString(m.log.View())
	b.WriteString("\n")
	b.WriteString(m.statusBar.View())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("p preview · ↑/↓ scroll · q quit"))
	return b.String()
}

func kindForSeverity(s host.Severity) EntryKind {
	switch s {
	case host.SeverityError:
		return EntryError
	case host.SeverityWarning:
		return EntryWarning
	default:
		return EntryInfo
	}
}
