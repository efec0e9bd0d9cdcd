// ABOUTME: TemplateEngine renders the embedded landing and viewer pages with html/template.
// ABOUTME: The landing page body is markdown converted to HTML by goldmark.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/yuin/goldmark"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed content/usage.md
var usageMarkdown []byte

// PageData holds all data passed to templates for rendering.
type PageData struct {
	Title      string
	Session    string
	Active     string
	PreviewURI string
	Commands   []string
	Body       template.HTML
}

// TemplateEngine loads and renders embedded HTML templates.
type TemplateEngine struct {
	templates map[string]*template.Template
	usage     template.HTML
}

// NewTemplateEngine parses every page together with the layout and
// pre-renders the usage markdown.
func NewTemplateEngine() (*TemplateEngine, error) {
	engine := &TemplateEngine{templates: make(map[string]*template.Template)}

	for _, page := range []string{"home.html", "view.html"} {
		t, err := template.New("layout.html").ParseFS(
			templateFS,
			"templates/layout.html",
			"templates/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		engine.templates[page] = t
	}

	usage, err := markdownToHTML(usageMarkdown)
	if err != nil {
		return nil, fmt.Errorf("rendering usage: %w", err)
	}
	engine.usage = usage
	return engine, nil
}

// Usage returns the rendered landing page markdown.
func (e *TemplateEngine) Usage() template.HTML { return e.usage }

// Render executes the named page inside the layout and writes it to w.
func (e *TemplateEngine) Render(w http.ResponseWriter, name string, data PageData) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return e.RenderTo(w, name, data)
}

// RenderTo executes the named page into an arbitrary writer.
func (e *TemplateEngine) RenderTo(w io.Writer, name string, data PageData) error {
	t, ok := e.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}

// markdownToHTML converts trusted embedded markdown to HTML.
func markdownToHTML(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.New().Convert(src, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
