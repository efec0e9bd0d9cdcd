// ABOUTME: glslpreview HTTP server: serves the preview resource, a live viewer page, and an SSE stream.
// ABOUTME: Also exposes the workspace and command registry so editors and scripts can drive the preview.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/2389-research/glslpreview/command"
	"github.com/2389-research/glslpreview/event"
	"github.com/2389-research/glslpreview/extension"
	"github.com/2389-research/glslpreview/host"
	"github.com/2389-research/glslpreview/preview"
	"github.com/2389-research/glslpreview/workspace"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed static/css/*.css static/js/*.js
var staticFS embed.FS

// maxBodyBytes caps document uploads and JSON requests.
const maxBodyBytes = 1 << 20

// Server serves one extension session over HTTP.
type Server struct {
	ext       *extension.Extension
	viewers   *host.Viewers
	templates *TemplateEngine
	router    chi.Router
	addr      string
	changeSub event.Disposable
}

// ServerConfig holds the configuration for the web server.
type ServerConfig struct {
	Addr      string // listen address (default: "127.0.0.1:2390")
	Extension *extension.Extension
	// Viewers receives preview change messages. A new hub is created when nil.
	Viewers *host.Viewers
	Verbose bool
}

// NewServer builds the router and subscribes the viewer hub to preview changes.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Extension == nil {
		return nil, fmt.Errorf("Extension must not be nil")
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:2390"
	}
	if cfg.Viewers == nil {
		cfg.Viewers = host.NewViewers()
	}

	tmpl, err := NewTemplateEngine()
	if err != nil {
		return nil, fmt.Errorf("initializing templates: %w", err)
	}

	s := &Server{
		ext:       cfg.Extension,
		viewers:   cfg.Viewers,
		templates: tmpl,
		addr:      cfg.Addr,
	}
	s.changeSub = cfg.Extension.OnPreviewChange(cfg.Viewers.Changed)
	s.router = s.buildRouter(cfg.Verbose)
	return s, nil
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Viewers returns the hub that streams to connected viewer pages.
func (s *Server) Viewers() *host.Viewers { return s.viewers }

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.addr }

// Close stops forwarding preview changes and disconnects viewers.
func (s *Server) Close() {
	s.changeSub.Dispose()
	s.viewers.Close()
}

// ListenAndServe serves until ctx is cancelled. WriteTimeout stays zero
// because /events is a long-lived stream.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		<-ctx.Done()
		// Viewer streams block Shutdown until their channels close.
		s.viewers.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("web shutdown error=%v", err)
		}
	}()

	log.Printf("web listening addr=%s", ln.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter(verbose bool) chi.Router {
	r := chi.NewRouter()

	r.Use(requestLogger(verbose))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHome)
	r.Get("/health", s.handleHealth)
	r.Get("/preview", s.handlePreview)
	r.Get("/view", s.handleView)
	r.Get("/events", s.handleEvents)

	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Printf("WARNING: failed to create static sub-FS: %v", err)
	} else {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))
	}

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", s.handleDocumentList)
		r.Put("/active", s.handleSetActive)
		r.Put("/text", s.handlePutText)
	})

	r.Post("/commands/{commandID}", s.handleCommand)

	return r
}

func (s *Server) pageData(title string) PageData {
	return PageData{
		Title:      title,
		Session:    s.ext.SessionID(),
		Active:     workspace.DisplayName(s.ext.Workspace().ActiveURI()),
		PreviewURI: preview.URI,
		Commands:   s.ext.Commands().IDs(),
	}
}

// handleHome renders the usage page.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	data := s.pageData("Home")
	data.Body = s.templates.Usage()
	if err := s.templates.Render(w, "home.html", data); err != nil {
		log.Printf("error rendering home: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// handleView renders the viewer shell. The title query parameter comes from
// host.ViewURL.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		title = preview.Title
	}
	if err := s.templates.Render(w, "view.html", s.pageData(title)); err != nil {
		log.Printf("error rendering view: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// handleHealth returns a JSON health check response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"session": s.ext.SessionID(),
		"active":  s.ext.Workspace().ActiveURI(),
		"state":   string(s.ext.State()),
	})
}

// handlePreview serves the synthesized preview page for the focused shader.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	page, err := s.ext.Providers().Provide(preview.URI)
	switch {
	case errors.Is(err, preview.ErrNoActiveDocument):
		http.Error(w, "no focused shader document", http.StatusServiceUnavailable)
		return
	case err != nil:
		log.Printf("error providing preview: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	io.WriteString(w, page)
}

// handleEvents streams viewer messages as server-sent events until the
// client disconnects or the hub closes.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	msgs, unsubscribe := s.viewers.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, canFlush := w.(http.Flusher)
	fmt.Fprint(w, ": connected\n\n")
	if canFlush {
		flusher.Flush()
	}

	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			fmt.Fprint(w, msg.Format())
			if canFlush {
				flusher.Flush()
			}
		case <-r.Context().Done():
			return
		}
	}
}

type documentView struct {
	URI     string `json:"uri"`
	Name    string `json:"name"`
	Version int    `json:"version"`
	Active  bool   `json:"active"`
}

// handleDocumentList returns the open documents as a JSON array.
func (s *Server) handleDocumentList(w http.ResponseWriter, r *http.Request) {
	ws := s.ext.Workspace()
	docs := ws.Documents()
	out := make([]documentView, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentView{
			URI:     d.URI(),
			Name:    workspace.DisplayName(d.URI()),
			Version: d.Version(),
			Active:  ws.IsActive(d.URI()),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleSetActive moves focus to an open document.
func (s *Server) handleSetActive(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req struct {
		URI string `json:"uri"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if isMaxBytesError(err) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.URI == "" {
		http.Error(w, "uri is required", http.StatusBadRequest)
		return
	}

	if err := s.ext.Workspace().SetActive(req.URI); err != nil {
		if errors.Is(err, workspace.ErrUnknownDocument) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"active": req.URI})
}

// handlePutText replaces a document's text with the raw request body. An
// unknown URI becomes a new client buffer.
func (s *Server) handlePutText(w http.ResponseWriter, r *http.Request) {
	uri := r.URL.Query().Get("uri")
	if uri == "" {
		http.Error(w, "uri query parameter is required", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		if isMaxBytesError(err) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	ws := s.ext.Workspace()
	status := http.StatusOK
	if _, exists := ws.Get(uri); exists {
		err = ws.ApplyEdit(uri, string(body), workspace.SourceClient)
	} else {
		_, err = ws.OpenText(uri, string(body))
		status = http.StatusCreated
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	doc, _ := ws.Get(uri)
	writeJSON(w, status, documentView{
		URI:     uri,
		Name:    workspace.DisplayName(uri),
		Version: doc.Version(),
		Active:  ws.IsActive(uri),
	})
}

// handleCommand runs a registered command by ID.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "commandID")
	if err := s.ext.Commands().Execute(r.Context(), id); err != nil {
		if errors.Is(err, command.ErrUnknownCommand) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("command failed id=%s error=%v", id, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("error encoding response: %v", err)
	}
}

func isMaxBytesError(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
