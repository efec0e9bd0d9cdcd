// ABOUTME: Host surfaces for the preview: where a resource is displayed and how users are notified.
// ABOUTME: Defines Display, Notifier, Notification, and the combinators FirstOf and Fanout.

package host

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ViewColumn names the editor area a resource is shown in.
type ViewColumn int

const (
	// ViewColumnActive is whichever column currently has focus.
	ViewColumnActive ViewColumn = 0
	// ViewColumnOne is the leftmost column.
	ViewColumnOne ViewColumn = 1
	// ViewColumnTwo is beside the first column; the preview opens here.
	ViewColumnTwo ViewColumn = 2
	// ViewColumnThree is the third column.
	ViewColumnThree ViewColumn = 3
)

// ErrNoDisplay is returned by FirstOf when it has nothing to try.
var ErrNoDisplay = errors.New("no display configured")

// Display shows a virtual resource to the user.
type Display interface {
	Show(ctx context.Context, uri string, column ViewColumn, title string) error
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func(ctx context.Context, uri string, column ViewColumn, title string) error

// Show calls f.
func (f DisplayFunc) Show(ctx context.Context, uri string, column ViewColumn, title string) error {
	return f(ctx, uri, column, title)
}

// FirstOf returns a Display that tries each display in order and stops at
// the first success. If all fail, the last error is returned.
func FirstOf(displays ...Display) Display {
	return DisplayFunc(func(ctx context.Context, uri string, column ViewColumn, title string) error {
		err := ErrNoDisplay
		for _, d := range displays {
			if d == nil {
				continue
			}
			if err = d.Show(ctx, uri, column, title); err == nil {
				return nil
			}
		}
		return err
	})
}

// Severity classifies a notification.
type Severity string

const (
	// SeverityInfo is a status message.
	SeverityInfo Severity = "info"
	// SeverityWarning is a recoverable problem.
	SeverityWarning Severity = "warning"
	// SeverityError is a failed operation, such as a rejected display.
	SeverityError Severity = "error"
)

// Notification is a user-facing message.
type Notification struct {
	ID       string    `json:"id"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	Time     time.Time `json:"time"`
}

// NewNotification stamps a message with a ULID and the current time.
func NewNotification(sev Severity, msg string) Notification {
	return Notification{
		ID:       ulid.Make().String(),
		Severity: sev,
		Message:  msg,
		Time:     time.Now(),
	}
}

// Notifier delivers notifications to the user.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify calls f.
func (f NotifierFunc) Notify(n Notification) { f(n) }

// ShowError sends an error notification through n.
func ShowError(n Notifier, msg string) {
	if n == nil {
		return
	}
	n.Notify(NewNotification(SeverityError, msg))
}

// ShowInfo sends an informational notification through n.
func ShowInfo(n Notifier, msg string) {
	if n == nil {
		return
	}
	n.Notify(NewNotification(SeverityInfo, msg))
}

// LogNotifier writes notifications to the standard logger.
type LogNotifier struct{}

// Notify logs n.
func (LogNotifier) Notify(n Notification) {
	log.Printf("notification severity=%s id=%s message=%q", n.Severity, n.ID, n.Message)
}

// Fanout delivers each notification to every member, in order. Members
// can be added after construction.
type Fanout struct {
	mu      sync.RWMutex
	members []Notifier
}

// NewFanout creates a Fanout over members.
func NewFanout(members ...Notifier) *Fanout {
	return &Fanout{members: members}
}

// Add appends a member.
func (f *Fanout) Add(n Notifier) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.members = append(f.members, n)
}

// Notify delivers n to every member.
func (f *Fanout) Notify(n Notification) {
	f.mu.RLock()
	members := append([]Notifier(nil), f.members...)
	f.mu.RUnlock()
	for _, m := range members {
		if m != nil {
			m.Notify(n)
		}
	}
}
