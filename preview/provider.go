// ABOUTME: Preview content provider: synthesizes the preview page from the focused document on every request.
// ABOUTME: Exposes the OnDidChange staleness channel and a scheme registry for virtual documents.

package preview

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/2389-research/glslpreview/config"
	"github.com/2389-research/glslpreview/event"
	"github.com/2389-research/glslpreview/workspace"
)

// Scheme is the virtual-document scheme the provider is registered under.
const Scheme = "glsl-preview"

// URI identifies the single preview resource.
const URI = Scheme + "://authority/glsl-preview"

// Title is shown on the view that displays the preview.
const Title = "GLSL Preview"

var (
	// ErrNoActiveDocument means there is no focused document to preview.
	ErrNoActiveDocument = errors.New("no active shader document")
	// ErrUnknownResource means the request named a resource this provider does not serve.
	ErrUnknownResource = errors.New("unknown preview resource")
	// ErrNoProvider means no content provider is registered for a URI's scheme.
	ErrNoProvider = errors.New("no content provider for scheme")
	// ErrSchemeTaken means a provider is already registered for the scheme.
	ErrSchemeTaken = errors.New("content provider already registered for scheme")
)

// ActiveDocument reports the focused document.
type ActiveDocument interface {
	Active() (*workspace.Document, bool)
}

// TextureSource reports the current texture configuration.
type TextureSource interface {
	Textures() config.Textures
}

// ContentProvider computes the text of virtual documents on demand.
type ContentProvider interface {
	ProvideContent(uri string) (string, error)
	OnDidChange(fn func(uri string)) event.Disposable
}

// Provider renders the preview page. It holds no document state: every
// ProvideContent call reads the focused document and textures afresh, and
// only the rendered page for those exact inputs is cached.
type Provider struct {
	docs     ActiveDocument
	textures TextureSource
	pages    *PageCache
	changes  *event.Emitter[string]
}

// NewProvider creates a Provider reading from docs and textures.
func NewProvider(docs ActiveDocument, textures TextureSource) *Provider {
	return &Provider{
		docs:     docs,
		textures: textures,
		pages:    NewPageCache(Render, DefaultCacheSize),
		changes:  event.NewEmitter[string](),
	}
}

// ProvideContent returns the preview page for uri.
func (p *Provider) ProvideContent(uri string) (string, error) {
	if uri != URI {
		return "", fmt.Errorf("%w: %s", ErrUnknownResource, uri)
	}
	doc, ok := p.docs.Active()
	if !ok {
		return "", ErrNoActiveDocument
	}
	return p.pages.Render(doc.Text(), p.textures.Textures()), nil
}

// OnDidChange registers fn to hear that uri went stale.
func (p *Provider) OnDidChange(fn func(uri string)) event.Disposable {
	return p.changes.Subscribe(fn)
}

// Update signals that uri is stale. It does not render anything; the next
// ProvideContent call does.
func (p *Provider) Update(uri string) {
	p.changes.Fire(uri)
}

// Pages exposes the page cache behind ProvideContent.
func (p *Provider) Pages() *PageCache {
	return p.pages
}

// Close drops all change listeners and cached pages.
func (p *Provider) Close() {
	p.changes.Close()
	p.pages.Clear()
}

// Registry maps URI schemes to content providers.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]ContentProvider
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]ContentProvider)}
}

// Register binds scheme to p. The returned Disposable unbinds it.
func (r *Registry) Register(scheme string, p ContentProvider) (event.Disposable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.providers[scheme]; exists {
		return nil, fmt.Errorf("%w: %s", ErrSchemeTaken, scheme)
	}
	r.providers[scheme] = p

	var once sync.Once
	return event.DisposeFunc(func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			if r.providers[scheme] == p {
				delete(r.providers, scheme)
			}
		})
	}), nil
}

// Lookup returns the provider for uri's scheme.
func (r *Registry) Lookup(uri string) (ContentProvider, error) {
	scheme, _, ok := strings.Cut(uri, "://")
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoProvider, uri)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoProvider, scheme)
	}
	return p, nil
}

// Provide routes uri to its provider.
func (r *Registry) Provide(uri string) (string, error) {
	p, err := r.Lookup(uri)
	if err != nil {
		return "", err
	}
	return p.ProvideContent(uri)
}
