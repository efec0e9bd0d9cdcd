// ABOUTME: Open-document registry standing in for the host editor: documents, focus, and edit events.
// ABOUTME: Edits fire OnDidChangeTextDocument listeners synchronously in delivery order.

package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/2389-research/glslpreview/event"
)

// FileScheme prefixes URIs of documents backed by a file on disk.
const FileScheme = "file://"

// ClientScheme prefixes URIs of buffers pushed by an editor client.
const ClientScheme = "untitled:"

// ErrUnknownDocument is returned for URIs that are not open.
var ErrUnknownDocument = errors.New("document not open")

// Source records where an edit came from.
type Source string

const (
	// SourceDisk marks edits read back from a file on disk.
	SourceDisk Source = "disk"
	// SourceClient marks edits pushed by an editor client.
	SourceClient Source = "client"
)

// ChangeEvent describes one edit to an open document.
type ChangeEvent struct {
	URI     string
	Text    string
	Version int
	Source  Source
	At      time.Time
}

// Document is one open text document. Text is read under lock so the
// preview always sees the latest edit.
type Document struct {
	mu      sync.RWMutex
	uri     string
	path    string
	text    string
	version int
}

// URI returns the document identifier.
func (d *Document) URI() string { return d.uri }

// Path returns the backing file, or "" for client buffers.
func (d *Document) Path() string { return d.path }

// Text returns the current full text.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.text
}

// Version increments on every applied edit.
func (d *Document) Version() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// FileURI builds the URI for a file path.
func FileURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return FileScheme + filepath.ToSlash(abs)
}

// Workspace tracks open documents and which one has focus.
type Workspace struct {
	root string

	mu     sync.RWMutex
	docs   map[string]*Document
	active string

	// editMu serializes ApplyEdit so listeners see edits in delivery order.
	editMu sync.Mutex

	changes *event.Emitter[ChangeEvent]
	focus   *event.Emitter[string]
}

// New creates an empty workspace rooted at root.
func New(root string) *Workspace {
	return &Workspace{
		root:    root,
		docs:    make(map[string]*Document),
		changes: event.NewEmitter[ChangeEvent](),
		focus:   event.NewEmitter[string](),
	}
}

// Root returns the workspace root directory.
func (w *Workspace) Root() string { return w.root }

// Open reads path from disk and registers it. Opening an already open file
// returns the existing document unchanged.
func (w *Workspace) Open(path string) (*Document, error) {
	uri := FileURI(path)
	if doc, ok := w.Get(uri); ok {
		return doc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	doc := &Document{uri: uri, path: abs, text: string(data), version: 1}

	w.mu.Lock()
	if existing, ok := w.docs[uri]; ok {
		w.mu.Unlock()
		return existing, nil
	}
	w.docs[uri] = doc
	w.mu.Unlock()
	return doc, nil
}

// OpenText registers an in-memory buffer. If uri is already open its text
// is replaced through ApplyEdit so listeners observe the change.
func (w *Workspace) OpenText(uri, text string) (*Document, error) {
	if uri == "" {
		return nil, fmt.Errorf("open text: empty uri")
	}
	if doc, ok := w.Get(uri); ok {
		if err := w.ApplyEdit(uri, text, SourceClient); err != nil {
			return nil, err
		}
		return doc, nil
	}

	doc := &Document{uri: uri, text: text, version: 1}
	w.mu.Lock()
	w.docs[uri] = doc
	w.mu.Unlock()
	return doc, nil
}

// Close removes a document. Closing the focused document clears focus.
func (w *Workspace) Close(uri string) error {
	w.mu.Lock()
	if _, ok := w.docs[uri]; !ok {
		w.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownDocument, uri)
	}
	delete(w.docs, uri)
	cleared := w.active == uri
	if cleared {
		w.active = ""
	}
	w.mu.Unlock()

	if cleared {
		w.focus.Fire("")
	}
	return nil
}

// Get returns the open document for uri.
func (w *Workspace) Get(uri string) (*Document, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	doc, ok := w.docs[uri]
	return doc, ok
}

// Documents returns all open documents sorted by URI.
func (w *Workspace) Documents() []*Document {
	w.mu.RLock()
	out := make([]*Document, 0, len(w.docs))
	for _, d := range w.docs {
		out = append(out, d)
	}
	w.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].uri < out[j].uri })
	return out
}

// FindByPath returns the open document backed by path.
func (w *Workspace) FindByPath(path string) (*Document, bool) {
	return w.Get(FileURI(path))
}

// SetActive gives focus to an open document.
func (w *Workspace) SetActive(uri string) error {
	w.mu.Lock()
	if _, ok := w.docs[uri]; !ok {
		w.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownDocument, uri)
	}
	changed := w.active != uri
	w.active = uri
	w.mu.Unlock()

	if changed {
		w.focus.Fire(uri)
	}
	return nil
}

// Active returns the focused document.
func (w *Workspace) Active() (*Document, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.active == "" {
		return nil, false
	}
	doc, ok := w.docs[w.active]
	return doc, ok
}

// ActiveURI returns the focused document URI, or "".
func (w *Workspace) ActiveURI() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.active
}

// IsActive reports whether uri is the focused document.
func (w *Workspace) IsActive(uri string) bool {
	return uri != "" && w.ActiveURI() == uri
}

// ApplyEdit replaces a document's text and fires a ChangeEvent.
func (w *Workspace) ApplyEdit(uri, text string, source Source) error {
	doc, ok := w.Get(uri)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDocument, uri)
	}

	w.editMu.Lock()
	defer w.editMu.Unlock()

	doc.mu.Lock()
	doc.text = text
	doc.version++
	version := doc.version
	doc.mu.Unlock()

	w.changes.Fire(ChangeEvent{
		URI:     uri,
		Text:    text,
		Version: version,
		Source:  source,
		At:      time.Now(),
	})
	return nil
}

// OnDidChangeTextDocument registers a listener for document edits.
func (w *Workspace) OnDidChangeTextDocument(fn func(ChangeEvent)) event.Disposable {
	return w.changes.Subscribe(fn)
}

// OnDidChangeActiveDocument registers a listener for focus changes. The
// listener receives the new focused URI, or "" when focus is cleared.
func (w *Workspace) OnDidChangeActiveDocument(fn func(string)) event.Disposable {
	return w.focus.Subscribe(fn)
}

// DisplayName returns a short human label for a URI.
func DisplayName(uri string) string {
	switch {
	case uri == "":
		return "(none)"
	case strings.HasPrefix(uri, FileScheme):
		return filepath.Base(strings.TrimPrefix(uri, FileScheme))
	default:
		return uri
	}
}
