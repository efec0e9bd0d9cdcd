// ABOUTME: Tests for the command registry and the showPreview handler's failure reporting.
// ABOUTME: Uses function-backed displays and notifiers to simulate host acceptance and rejection.

package command

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/2389-research/glslpreview/host"
	"github.com/2389-research/glslpreview/preview"
)

type captured struct {
	notes []host.Notification
}

func (c *captured) Notify(n host.Notification) { c.notes = append(c.notes, n) }

func TestRegistryExecute(t *testing.T) {
	r := NewRegistry()
	ran := 0
	d, err := r.Register("hello", func(context.Context) error {
		ran++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := r.Execute(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ran != 1 {
		t.Fatalf("expected handler to run once, got %d", ran)
	}

	d.Dispose()
	if err := r.Execute(context.Background(), "hello"); !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand after dispose, got %v", err)
	}
}

func TestRegistryRejectsDuplicatesAndEmpty(t *testing.T) {
	r := NewRegistry()
	noop := func(context.Context) error { return nil }
	if _, err := r.Register("a", noop); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Register("a", noop); !errors.Is(err, ErrDuplicateCommand) {
		t.Fatalf("expected ErrDuplicateCommand, got %v", err)
	}
	if _, err := r.Register("", noop); err == nil {
		t.Fatal("expected error for empty id")
	}
	if _, err := r.Register("b", nil); err == nil {
		t.Fatal("expected error for nil handler")
	}
}

func TestRegistryIDsSorted(t *testing.T) {
	r := NewRegistry()
	noop := func(context.Context) error { return nil }
	r.Register(ShowPreview, noop)
	r.Register(LegacyShowPreview, noop)

	want := []string{LegacyShowPreview, ShowPreview}
	if got := r.IDs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestShowPreviewDisplaysPreviewResource(t *testing.T) {
	var gotURI, gotTitle string
	var gotColumn host.ViewColumn
	display := host.DisplayFunc(func(_ context.Context, uri string, column host.ViewColumn, title string) error {
		gotURI, gotColumn, gotTitle = uri, column, title
		return nil
	})
	notes := &captured{}

	if err := NewShowPreview(display, notes)(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotURI != preview.URI || gotColumn != host.ViewColumnTwo || gotTitle != preview.Title {
		t.Fatalf("unexpected display call uri=%q column=%d title=%q", gotURI, gotColumn, gotTitle)
	}
	if len(notes.notes) != 0 {
		t.Fatalf("expected no notifications on success, got %v", notes.notes)
	}
}

func TestShowPreviewReportsDisplayFailureOnce(t *testing.T) {
	calls := 0
	display := host.DisplayFunc(func(context.Context, string, host.ViewColumn, string) error {
		calls++
		return errors.New("preview area unavailable")
	})
	notes := &captured{}

	err := NewShowPreview(display, notes)(context.Background())
	if err != nil {
		t.Fatalf("expected failure to be absorbed, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one display attempt, got %d", calls)
	}
	if len(notes.notes) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(notes.notes))
	}
	n := notes.notes[0]
	if n.Severity != host.SeverityError || n.Message != "preview area unavailable" {
		t.Fatalf("unexpected notification %+v", n)
	}
}

func TestShowPreviewCommandSurvivesRepeatedFailures(t *testing.T) {
	r := NewRegistry()
	notes := &captured{}
	display := host.DisplayFunc(func(context.Context, string, host.ViewColumn, string) error {
		return errors.New("rejected")
	})
	r.Register(ShowPreview, NewShowPreview(display, notes))

	for i := 0; i < 3; i++ {
		if err := r.Execute(context.Background(), ShowPreview); err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
	}
	if len(notes.notes) != 3 {
		t.Fatalf("expected one notification per invocation, got %d", len(notes.notes))
	}
}

func TestShowPreviewWithoutDisplay(t *testing.T) {
	notes := &captured{}
	if err := NewShowPreview(nil, notes)(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notes.notes) != 1 {
		t.Fatalf("expected one notification, got %d", len(notes.notes))
	}
}
