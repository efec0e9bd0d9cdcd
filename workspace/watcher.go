// ABOUTME: fsnotify-backed watcher that turns writes to open shader files into workspace edits.
// ABOUTME: Also reports writes to settings files so the config store can reload.

package workspace

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher feeds disk changes into a Workspace. Editors that save through
// rename produce Create events, so both Write and Create count as edits.
type Watcher struct {
	ws       *Workspace
	fsw      *fsnotify.Watcher
	onConfig func(path string)

	mu          sync.Mutex
	dirs        map[string]bool
	configFiles map[string]bool
}

// NewWatcher creates a watcher for ws. onConfig, if non-nil, is called with
// the path of any watched settings file that changes.
func NewWatcher(ws *Workspace, onConfig func(path string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}
	return &Watcher{
		ws:          ws,
		fsw:         fsw,
		onConfig:    onConfig,
		dirs:        make(map[string]bool),
		configFiles: make(map[string]bool),
	}, nil
}

// WatchDocuments watches the directories of every open disk document.
func (w *Watcher) WatchDocuments() error {
	for _, doc := range w.ws.Documents() {
		if doc.Path() == "" {
			continue
		}
		if err := w.addDir(filepath.Dir(doc.Path())); err != nil {
			return err
		}
	}
	return nil
}

// WatchConfig watches settings files. Missing parent directories are
// skipped since there is nothing to watch yet.
func (w *Watcher) WatchConfig(paths ...string) error {
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		dir := filepath.Dir(abs)
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		w.mu.Lock()
		w.configFiles[abs] = true
		w.mu.Unlock()
		if err := w.addDir(dir); err != nil {
			return err
		}
	}
	return nil
}

func (w *Watcher) addDir(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dirs[dir] {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.dirs[dir] = true
	return nil
}

// Run processes filesystem events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(evt)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) handle(evt fsnotify.Event) {
	if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
		return
	}
	path, err := filepath.Abs(evt.Name)
	if err != nil {
		path = evt.Name
	}

	w.mu.Lock()
	isConfig := w.configFiles[path]
	w.mu.Unlock()
	if isConfig {
		if w.onConfig != nil {
			w.onConfig(path)
		}
		return
	}

	w.SyncFile(path)
}

// SyncFile re-reads path and applies it as a disk edit when it belongs to
// an open document and the content actually changed.
func (w *Watcher) SyncFile(path string) {
	doc, ok := w.ws.FindByPath(path)
	if !ok {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("watcher: read %s: %v", path, err)
		return
	}
	text := string(data)
	if text == doc.Text() {
		return
	}
	if err := w.ws.ApplyEdit(doc.URI(), text, SourceDisk); err != nil {
		log.Printf("watcher: apply edit %s: %v", path, err)
	}
}
