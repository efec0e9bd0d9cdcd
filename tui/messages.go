// ABOUTME: Bubble Tea message types used in the preview dashboard's message loop.
// ABOUTME: Each type wraps a workspace, preview, or host event for the tea.Msg interface.
package tui

import (
	"time"

	"github.com/2389-research/glslpreview/host"
	"github.com/2389-research/glslpreview/workspace"
)

// DocumentEditedMsg wraps a workspace edit.
type DocumentEditedMsg struct {
	Event workspace.ChangeEvent
}

// FocusChangedMsg reports the newly focused document URI, "" when cleared.
type FocusChangedMsg struct {
	URI string
}

// PreviewRefreshedMsg signals that the preview resource went stale.
type PreviewRefreshedMsg struct {
	URI string
	At  time.Time
}

// NotificationMsg carries a user-facing notification.
type NotificationMsg struct {
	Notification host.Notification
}

// CommandResultMsg reports a finished command.
type CommandResultMsg struct {
	ID  string
	Err error
}

// TickMsg is sent periodically to sample coordinator state.
type TickMsg struct {
	Time time.Time
}
