// ABOUTME: Tests for the TemplateEngine that loads and renders embedded HTML templates.
// ABOUTME: Covers parsing, the landing page, the viewer page, escaping, and unknown templates.
package web

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTemplatesParse(t *testing.T) {
	engine, err := NewTemplateEngine()
	if err != nil {
		t.Fatalf("failed to create template engine: %v", err)
	}
	if engine == nil {
		t.Fatal("expected non-nil template engine")
	}
	if !strings.Contains(string(engine.Usage()), "<h1>GLSL live preview</h1>") {
		t.Errorf("expected usage markdown rendered to HTML, got %q", engine.Usage())
	}
}

func TestRenderHomeListsCommands(t *testing.T) {
	engine, err := NewTemplateEngine()
	if err != nil {
		t.Fatalf("failed to create template engine: %v", err)
	}

	rec := httptest.NewRecorder()
	err = engine.Render(rec, "home.html", PageData{
		Title:      "Home",
		Session:    "sess-1",
		PreviewURI: "glsl-preview://authority/glsl-preview",
		Commands:   []string{"showPreview"},
		Body:       engine.Usage(),
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("expected html content type, got %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<title>Home · glslpreview</title>",
		`action="/commands/showPreview"`,
		"sess-1",
		"no focused shader",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
}

func TestRenderViewEscapesTitle(t *testing.T) {
	engine, err := NewTemplateEngine()
	if err != nil {
		t.Fatalf("failed to create template engine: %v", err)
	}

	var buf bytes.Buffer
	err = engine.RenderTo(&buf, "view.html", PageData{
		Title:  "<b>GLSL Preview</b>",
		Active: "file:///tmp/a.glsl",
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	body := buf.String()
	if strings.Contains(body, "<b>GLSL Preview</b>") {
		t.Error("expected title to be escaped")
	}
	if !strings.Contains(body, `src="/preview"`) {
		t.Error("expected the preview iframe")
	}
	if !strings.Contains(body, "file:///tmp/a.glsl") {
		t.Error("expected the active document in the top bar")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	engine, err := NewTemplateEngine()
	if err != nil {
		t.Fatalf("failed to create template engine: %v", err)
	}
	if err := engine.RenderTo(&bytes.Buffer{}, "missing.html", PageData{}); err == nil {
		t.Fatal("expected error for unknown template")
	}
}
