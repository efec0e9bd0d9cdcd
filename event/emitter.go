// ABOUTME: Listener registry used for every host-style event stream (edits, focus, preview changes).
// ABOUTME: Provides Emitter with register/fire/dispose semantics and the Disposable handle type.

package event

import "sync"

// Disposable releases a registration. Dispose is safe to call more than once.
type Disposable interface {
	Dispose()
}

// DisposeFunc adapts a plain function to the Disposable interface.
type DisposeFunc func()

// Dispose calls f.
func (f DisposeFunc) Dispose() {
	if f != nil {
		f()
	}
}

// Disposables collects registrations so they can be released together,
// in reverse order of registration.
type Disposables struct {
	mu    sync.Mutex
	items []Disposable
}

// Add appends registrations to the collection.
func (d *Disposables) Add(items ...Disposable) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items = append(d.items, items...)
}

// Len returns the number of registrations not yet released.
func (d *Disposables) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}

// Dispose releases every collected registration and empties the collection.
func (d *Disposables) Dispose() {
	d.mu.Lock()
	items := d.items
	d.items = nil
	d.mu.Unlock()

	for i := len(items) - 1; i >= 0; i-- {
		if items[i] != nil {
			items[i].Dispose()
		}
	}
}

type listener[T any] struct {
	id int
	fn func(T)
}

// Emitter delivers values of type T to registered listeners. Listeners run
// synchronously in the goroutine calling Fire, in registration order.
type Emitter[T any] struct {
	mu        sync.RWMutex
	listeners []listener[T]
	nextID    int
	closed    bool
}

// NewEmitter creates an Emitter with no listeners.
func NewEmitter[T any]() *Emitter[T] {
	return &Emitter[T]{}
}

// Subscribe registers fn and returns a Disposable that removes it.
// Subscribing to a closed emitter returns a no-op Disposable.
func (e *Emitter[T]) Subscribe(fn func(T)) Disposable {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || fn == nil {
		return DisposeFunc(nil)
	}

	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, listener[T]{id: id, fn: fn})

	var once sync.Once
	return DisposeFunc(func() {
		once.Do(func() { e.remove(id) })
	})
}

func (e *Emitter[T]) remove(id int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return
		}
	}
}

// Fire invokes every listener with v. The listener list is snapshotted
// first, so listeners may subscribe or dispose without deadlocking.
func (e *Emitter[T]) Fire(v T) {
	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return
	}
	snapshot := make([]listener[T], len(e.listeners))
	copy(snapshot, e.listeners)
	e.mu.RUnlock()

	for _, l := range snapshot {
		l.fn(v)
	}
}

// Len returns the number of registered listeners.
func (e *Emitter[T]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners)
}

// Close drops all listeners. Later Fire and Subscribe calls are no-ops.
func (e *Emitter[T]) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.listeners = nil
}
