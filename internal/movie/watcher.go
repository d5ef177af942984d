package movie

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadKind describes the type of plan file change detected.
type ReloadKind int

const (
	ReloadModified ReloadKind = iota // Plan file rewritten
	ReloadRemoved                    // Plan file deleted
)

// Reload represents a detected change to the watched movie plan file.
type Reload struct {
	Kind ReloadKind
	Path string // Absolute path of the plan file
}

// Watcher monitors a movie plan file for changes using fsnotify, so a
// regenerated plan can be hot-reloaded into a running player. Events
// are debounced: backend writers rewrite the plan in several bursts.
type Watcher struct {
	Path    string
	Reloads <-chan Reload // Read-only external channel

	reloads chan Reload // Internal write channel
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for the given plan file. The watch is
// installed on the parent directory; editors and backends typically
// replace the file rather than write it in place.
func NewWatcher(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, err
	}

	ch := make(chan Reload, 4)
	w := &Watcher{
		Path:    abs,
		Reloads: ch,
		reloads: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}
	return w, nil
}

// Start begins watching the plan file's directory for changes.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and channels.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.reloads)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: collapse write bursts into one reload.
	const debounce = 100 * time.Millisecond
	var pendingSince time.Time
	var pendingKind ReloadKind
	pending := false

	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if pending {
					w.reloads <- Reload{Kind: pendingKind, Path: w.Path}
				}
				return
			}

			if filepath.Clean(event.Name) != w.Path {
				continue
			}

			switch {
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				pending, pendingKind, pendingSince = true, ReloadRemoved, time.Now()
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
				pending, pendingKind, pendingSince = true, ReloadModified, time.Now()
			}

		case _, ok := <-ticker.C:
			if !ok {
				return
			}
			if pending && time.Since(pendingSince) >= debounce {
				w.reloads <- Reload{Kind: pendingKind, Path: w.Path}
				pending = false
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the next event still arrives.
		}
	}
}
