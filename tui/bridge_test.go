// ABOUTME: Tests for EventBridge, verifying session events become the right tea messages.
// ABOUTME: Uses a capturing send function in place of a running tea.Program.
package tui

import (
	"testing"

	"github.com/2389-research/glslpreview/host"
	"github.com/2389-research/glslpreview/preview"
	"github.com/2389-research/glslpreview/workspace"
	tea "github.com/charmbracelet/bubbletea"
)

func TestEventBridgeAttach(t *testing.T) {
	ext := testExtension(t, nil)
	var got []tea.Msg
	bridge := NewEventBridge(func(msg tea.Msg) { got = append(got, msg) })

	sub := bridge.Attach(ext)
	ws := ext.Workspace()
	ws.OpenText("untitled:b", "void main(){}")
	ws.SetActive("untitled:b")
	ws.ApplyEdit("untitled:b", "void main(){ }", workspace.SourceClient)
	ext.Provider().Update(preview.URI)
	bridge.Notify(host.NewNotification(host.SeverityInfo, "hi"))

	if len(got) != 4 {
		t.Fatalf("expected 4 messages, got %d: %v", len(got), got)
	}
	if msg, ok := got[0].(FocusChangedMsg); !ok || msg.URI != "untitled:b" {
		t.Errorf("msg 0 = %#v, want FocusChangedMsg", got[0])
	}
	if msg, ok := got[1].(DocumentEditedMsg); !ok || msg.Event.Version != 2 {
		t.Errorf("msg 1 = %#v, want DocumentEditedMsg v2", got[1])
	}
	if msg, ok := got[2].(PreviewRefreshedMsg); !ok || msg.URI != preview.URI || msg.At.IsZero() {
		t.Errorf("msg 2 = %#v, want PreviewRefreshedMsg", got[2])
	}
	if _, ok := got[3].(NotificationMsg); !ok {
		t.Errorf("msg 3 = %#v, want NotificationMsg", got[3])
	}

	sub.Dispose()
	ws.ApplyEdit("untitled:b", "void main(){}", workspace.SourceClient)
	if len(got) != 4 {
		t.Fatalf("expected no messages after dispose, got %d", len(got))
	}
}
