// ABOUTME: Bridge connecting workspace, preview, and notification events to the Bubble Tea message loop.
// ABOUTME: Provides EventBridge for event injection, and tea.Cmd factories for commands and ticks.
package tui

import (
	"context"
	"time"

	"github.com/2389-research/glslpreview/event"
	"github.com/2389-research/glslpreview/extension"
	"github.com/2389-research/glslpreview/host"
	"github.com/2389-research/glslpreview/workspace"
	tea "github.com/charmbracelet/bubbletea"
)

// EventBridge wraps a tea.Program's Send method for injecting session
// events into the Bubble Tea message loop.
type EventBridge struct {
	send func(msg tea.Msg)
}

// NewEventBridge creates an EventBridge that sends messages via the given function.
// Typically called with program.Send as the argument.
func NewEventBridge(send func(msg tea.Msg)) *EventBridge {
	return &EventBridge{send: send}
}

// HandleEdit forwards a document edit.
func (b *EventBridge) HandleEdit(evt workspace.ChangeEvent) {
	b.send(DocumentEditedMsg{Event: evt})
}

// HandleFocus forwards a focus change.
func (b *EventBridge) HandleFocus(uri string) {
	b.send(FocusChangedMsg{URI: uri})
}

// HandlePreviewChange forwards a preview staleness notification.
func (b *EventBridge) HandlePreviewChange(uri string) {
	b.send(PreviewRefreshedMsg{URI: uri, At: time.Now()})
}

// Notify implements host.Notifier.
func (b *EventBridge) Notify(n host.Notification) {
	b.send(NotificationMsg{Notification: n})
}

// Attach subscribes the bridge to ext's workspace and preview events.
func (b *EventBridge) Attach(ext *extension.Extension) event.Disposable {
	var subs event.Disposables
	ws := ext.Workspace()
	subs.Add(
		ws.OnDidChangeTextDocument(b.HandleEdit),
		ws.OnDidChangeActiveDocument(b.HandleFocus),
		ext.OnPreviewChange(b.HandlePreviewChange),
	)
	return event.DisposeFunc(subs.Dispose)
}

// RunCommandCmd returns a tea.Cmd that executes a registered command and
// reports the outcome as a CommandResultMsg.
func RunCommandCmd(ctx context.Context, ext *extension.Extension, id string) tea.Cmd {
	return func() tea.Msg {
		return CommandResultMsg{ID: id, Err: ext.Commands().Execute(ctx, id)}
	}
}

// TickCmd returns a tea.Cmd that sends a TickMsg after the given interval.
func TickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
