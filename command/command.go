// ABOUTME: Command registry and the showPreview entry point.
// ABOUTME: showPreview asks the host to display the preview and reports display failures as one notification.

package command

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/2389-research/glslpreview/event"
	"github.com/2389-research/glslpreview/host"
	"github.com/2389-research/glslpreview/preview"
)

// Command identifiers.
const (
	ShowPreview = "showPreview"
	// LegacyShowPreview is the identifier older editor integrations invoke.
	LegacyShowPreview = "extension.showGlslPreview"
)

var (
	// ErrUnknownCommand is returned when executing an unregistered ID.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrDuplicateCommand is returned when registering an ID twice.
	ErrDuplicateCommand = errors.New("command already registered")
)

// Handler runs a command.
type Handler func(ctx context.Context) error

// Registry maps command IDs to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds id to h. The returned Disposable unregisters it.
func (r *Registry) Register(id string, h Handler) (event.Disposable, error) {
	if id == "" || h == nil {
		return nil, fmt.Errorf("register command: empty id or nil handler")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateCommand, id)
	}
	r.handlers[id] = h

	var once sync.Once
	return event.DisposeFunc(func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.handlers, id)
			r.mu.Unlock()
		})
	}), nil
}

// Execute runs the handler registered for id.
func (r *Registry) Execute(ctx context.Context, id string) error {
	r.mu.RLock()
	h, ok := r.handlers[id]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, id)
	}
	return h(ctx)
}

// IDs returns the registered command IDs, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NewShowPreview returns the showPreview handler. A display failure is
// reported once through notifier and swallowed; it is never retried.
func NewShowPreview(display host.Display, notifier host.Notifier) Handler {
	return func(ctx context.Context) error {
		if display == nil {
			host.ShowError(notifier, host.ErrNoDisplay.Error())
			return nil
		}
		if err := display.Show(ctx, preview.URI, host.ViewColumnTwo, preview.Title); err != nil {
			log.Printf("command %s: display failed: %v", ShowPreview, err)
			host.ShowError(notifier, err.Error())
		}
		return nil
	}
}
