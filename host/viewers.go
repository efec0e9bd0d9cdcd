// ABOUTME: Fan-out hub for connected preview viewers: change, show, and notification messages.
// ABOUTME: Acts as both a Display and a Notifier; the web layer streams its messages as SSE.

package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"
)

// ErrNoViewers is returned by Viewers.Show when nobody is connected.
var ErrNoViewers = errors.New("no preview viewer connected")

// Message kinds sent to viewers.
const (
	KindChange       = "change"
	KindShow         = "show"
	KindNotification = "notification"
)

// Message is one event for connected viewers.
type Message struct {
	ID   string // ULID
	Kind string
	Data string // JSON payload
}

// Format renders the message as a server-sent event.
func (m Message) Format() string {
	return fmt.Sprintf("id: %s\nevent: %s\ndata: %s\n\n", m.ID, m.Kind, m.Data)
}

func newMessage(kind string, payload any) Message {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte(`{"error":"failed to marshal message"}`)
	}
	return Message{ID: ulid.Make().String(), Kind: kind, Data: string(data)}
}

// Viewers delivers messages to subscribed viewer connections.
type Viewers struct {
	mu          sync.RWMutex
	subscribers []chan Message
	closed      bool
}

// NewViewers creates an empty hub.
func NewViewers() *Viewers {
	return &Viewers{}
}

// Subscribe registers a viewer. The channel has a buffer of 64; messages
// for a viewer that falls behind are dropped rather than blocking.
func (v *Viewers) Subscribe() (<-chan Message, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	ch := make(chan Message, 64)
	if v.closed {
		close(ch)
		return ch, func() {}
	}
	v.subscribers = append(v.subscribers, ch)

	var once sync.Once
	return ch, func() { once.Do(func() { v.unsubscribe(ch) }) }
}

func (v *Viewers) unsubscribe(ch chan Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, sub := range v.subscribers {
		if sub == ch {
			close(sub)
			v.subscribers = append(v.subscribers[:i], v.subscribers[i+1:]...)
			return
		}
	}
}

// Count returns the number of connected viewers.
func (v *Viewers) Count() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.subscribers)
}

// broadcast sends m to all viewers and reports how many received it.
func (v *Viewers) broadcast(m Message) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.closed {
		return 0
	}
	sent := 0
	for _, ch := range v.subscribers {
		select {
		case ch <- m:
			sent++
		default:
		}
	}
	return sent
}

// Changed tells viewers that uri went stale and should be re-fetched.
func (v *Viewers) Changed(uri string) {
	v.broadcast(newMessage(KindChange, map[string]string{"uri": uri}))
}

// Show asks connected viewers to display uri. It fails when no viewer is
// connected so callers can fall back to opening one.
func (v *Viewers) Show(ctx context.Context, uri string, column ViewColumn, title string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sent := v.broadcast(newMessage(KindShow, map[string]any{
		"uri":    uri,
		"column": int(column),
		"title":  title,
	}))
	if sent == 0 {
		return ErrNoViewers
	}
	return nil
}

// Notify forwards a notification to viewers.
func (v *Viewers) Notify(n Notification) {
	v.broadcast(newMessage(KindNotification, n))
}

// Close disconnects every viewer.
func (v *Viewers) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	for _, ch := range v.subscribers {
		close(ch)
	}
	v.subscribers = nil
}
