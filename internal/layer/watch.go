package layer

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher reloads file-backed layers of a Memory when their file changes.
type Watcher struct {
	mem      *Memory
	watcher  *fsnotify.Watcher
	logger   *log.Logger
	debounce time.Duration
	onReload func(id string, err error)

	mu     sync.Mutex
	files  map[string]string // abs path -> layer id
	timers map[string]*time.Timer
}

// NewWatcher creates a watcher. onReload, if set, runs after every reload
// attempt from the watcher goroutine.
func NewWatcher(mem *Memory, debounce time.Duration, logger *log.Logger, onReload func(id string, err error)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Watcher{
		mem:      mem,
		watcher:  fw,
		logger:   logger,
		debounce: debounce,
		onReload: onReload,
		files:    map[string]string{},
		timers:   map[string]*time.Timer{},
	}, nil
}

// Watch starts tracking the file behind layer id.
func (w *Watcher) Watch(id string) error {
	l, err := w.mem.Get(id)
	if err != nil {
		return err
	}
	if l.Path == "" {
		return fmt.Errorf("layer %q is not file-backed", id)
	}
	abs, err := filepath.Abs(l.Path)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", l.Path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.watcher.Add(abs); err != nil {
		return fmt.Errorf("failed to watch %s: %w", abs, err)
	}
	w.files[abs] = id
	return nil
}

// Start runs the event loop in its own goroutine until Close.
func (w *Watcher) Start() {
	go func() {
		for {
			select {
			case ev, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					w.changed(ev.Name)
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("layer watcher", "err", err)
			}
		}
	}()
}

func (w *Watcher) changed(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id, ok := w.files[path]
	if !ok {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		err := w.mem.Reload(id)
		if err != nil {
			w.logger.Error("layer reload failed", "layer", id, "err", err)
		} else {
			w.logger.Debug("layer reloaded", "layer", id)
		}
		if w.onReload != nil {
			w.onReload(id, err)
		}
	})
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}
