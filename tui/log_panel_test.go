// ABOUTME: Tests for the LogPanelModel activity log.
// ABOUTME: Validates append, eviction, formatting, and view rendering.
package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestLogPanelDefaultsTo200(t *testing.T) {
	for _, n := range []int{0, -5} {
		m := NewLogPanelModel(n)
		for i := 0; i < 201; i++ {
			m.Append(LogEntry{Kind: EntryEdit, Text: fmt.Sprintf("e%d", i)})
		}
		if m.Len() != 200 {
			t.Errorf("max %d: expected 200 entries, got %d", n, m.Len())
		}
		if first := m.Entries()[0].Text; first != "e1" {
			t.Errorf("max %d: expected oldest evicted, first = %q", n, first)
		}
	}
}

func TestLogPanelFormatEntry(t *testing.T) {
	at := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	line := formatEntry(LogEntry{At: at, Kind: EntryRefresh, Text: "glsl-preview://authority/glsl-preview"})
	for _, want := range []string{"15:04:05", "refresh", "glsl-preview://authority/glsl-preview"} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %q in %q", want, line)
		}
	}
}

func TestLogPanelView(t *testing.T) {
	m := NewLogPanelModel(10)
	m.SetSize(60, 8)
	if !strings.Contains(m.View(), "Waiting for edits") {
		t.Error("expected placeholder in empty panel")
	}

	m.Append(LogEntry{At: time.Now(), Kind: EntryEdit, Text: "plasma.glsl v2"})
	view := m.View()
	if !strings.Contains(view, "ACTIVITY") || !strings.Contains(view, "plasma.glsl v2") {
		t.Errorf("unexpected view %q", view)
	}
}
