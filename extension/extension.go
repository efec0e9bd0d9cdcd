// ABOUTME: Activation lifecycle wiring the preview provider, debounce coordinator, and showPreview command.
// ABOUTME: Deactivate releases every subscription and cancels any pending refresh.

package extension

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/2389-research/glslpreview/command"
	"github.com/2389-research/glslpreview/config"
	"github.com/2389-research/glslpreview/debounce"
	"github.com/2389-research/glslpreview/event"
	"github.com/2389-research/glslpreview/host"
	"github.com/2389-research/glslpreview/preview"
	"github.com/2389-research/glslpreview/workspace"
	"github.com/google/uuid"
)

// Deps are the host services an activation needs.
type Deps struct {
	Workspace *workspace.Workspace
	Settings  *config.Store
	Display   host.Display
	Notifier  host.Notifier

	// Commands and Providers default to fresh registries.
	Commands  *command.Registry
	Providers *preview.Registry

	// Delay overrides the configured quiescence interval when positive.
	Delay time.Duration
	// Clock defaults to the real clock.
	Clock   debounce.Clock
	Verbose bool
	// OnState observes coordinator state transitions.
	OnState func(debounce.State)
}

// Extension is one activation session.
type Extension struct {
	sessionID   string
	ws          *workspace.Workspace
	provider    *preview.Provider
	providers   *preview.Registry
	commands    *command.Registry
	coordinator *debounce.Coordinator
	subs        event.Disposables

	mu          sync.Mutex
	deactivated bool
}

// Activate wires a new session. On error nothing stays registered.
func Activate(d Deps) (*Extension, error) {
	if d.Workspace == nil {
		return nil, fmt.Errorf("activate: workspace is required")
	}
	if d.Settings == nil {
		d.Settings = config.NewStaticStore(config.Settings{})
	}
	if d.Commands == nil {
		d.Commands = command.NewRegistry()
	}
	if d.Providers == nil {
		d.Providers = preview.NewRegistry()
	}
	delay := d.Delay
	if delay <= 0 {
		delay = d.Settings.Delay()
	}

	e := &Extension{
		sessionID: uuid.New().String(),
		ws:        d.Workspace,
		providers: d.Providers,
		commands:  d.Commands,
	}

	e.provider = preview.NewProvider(d.Workspace, d.Settings)
	reg, err := d.Providers.Register(preview.Scheme, e.provider)
	if err != nil {
		return nil, fmt.Errorf("activate: %w", err)
	}
	e.subs.Add(event.DisposeFunc(e.provider.Close), reg)

	opts := []debounce.Option{debounce.WithVerbose(d.Verbose)}
	if d.Clock != nil {
		opts = append(opts, debounce.WithClock(d.Clock))
	}
	if d.OnState != nil {
		opts = append(opts, debounce.WithStateListener(d.OnState))
	}
	e.coordinator = debounce.New(delay, d.Workspace.IsActive, func() {
		e.provider.Update(preview.URI)
	}, opts...)
	e.subs.Add(event.DisposeFunc(e.coordinator.Close))
	e.subs.Add(d.Workspace.OnDidChangeTextDocument(e.coordinator.HandleEdit))

	show := command.NewShowPreview(d.Display, d.Notifier)
	for _, id := range []string{command.ShowPreview, command.LegacyShowPreview} {
		cmdReg, err := d.Commands.Register(id, show)
		if err != nil {
			e.subs.Dispose()
			return nil, fmt.Errorf("activate: %w", err)
		}
		e.subs.Add(cmdReg)
	}

	log.Printf("extension activated session=%s delay=%s preview=%s", e.sessionID, delay, preview.URI)
	return e, nil
}

// Deactivate releases all subscriptions. Safe to call more than once.
func (e *Extension) Deactivate() {
	e.mu.Lock()
	if e.deactivated {
		e.mu.Unlock()
		return
	}
	e.deactivated = true
	e.mu.Unlock()

	e.subs.Dispose()
	log.Printf("extension deactivated session=%s", e.sessionID)
}

// Active reports whether Deactivate has not been called yet.
func (e *Extension) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.deactivated
}

// SessionID identifies this activation.
func (e *Extension) SessionID() string { return e.sessionID }

// Workspace returns the host workspace.
func (e *Extension) Workspace() *workspace.Workspace { return e.ws }

// Provider returns the preview content provider.
func (e *Extension) Provider() *preview.Provider { return e.provider }

// Providers returns the virtual-document registry.
func (e *Extension) Providers() *preview.Registry { return e.providers }

// Commands returns the command registry.
func (e *Extension) Commands() *command.Registry { return e.commands }

// Coordinator returns the debounce coordinator.
func (e *Extension) Coordinator() *debounce.Coordinator { return e.coordinator }

// State returns the coordinator state.
func (e *Extension) State() debounce.State { return e.coordinator.State() }

// ShowPreview runs the showPreview command.
func (e *Extension) ShowPreview(ctx context.Context) error {
	return e.commands.Execute(ctx, command.ShowPreview)
}

// OnPreviewChange registers fn for preview staleness notifications. The
// subscription is released on Deactivate as well as by the returned handle.
func (e *Extension) OnPreviewChange(fn func(uri string)) event.Disposable {
	d := e.provider.OnDidChange(fn)
	e.subs.Add(d)
	return d
}
