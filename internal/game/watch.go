package game

import (
	"context"
	"os"
	"sync"
	"time"
)

// FileWatcher polls file modification times and triggers a callback on change.
// The path list is re-read every tick so newly added game files are picked up.
type FileWatcher struct {
	paths    func() []string
	interval time.Duration
	onChange func(string) // called with path that changed

	mu        sync.Mutex
	lastMTime map[string]time.Time
	primed    bool
	done      chan struct{}
}

// NewFileWatcher creates a watcher for given paths and interval.
func NewFileWatcher(paths func() []string, interval time.Duration, onChange func(string)) *FileWatcher {
	return &FileWatcher{
		paths:     paths,
		interval:  interval,
		onChange:  onChange,
		lastMTime: make(map[string]time.Time),
		done:      make(chan struct{}),
	}
}

// WatchLoader invalidates l whenever one of its YAML files changes.
func WatchLoader(l *Loader, interval time.Duration, notify func(string)) *FileWatcher {
	return NewFileWatcher(l.WatchPaths, interval, func(path string) {
		l.Invalidate()
		if notify != nil {
			notify(path)
		}
	})
}

// Start begins polling until ctx is cancelled.
func (w *FileWatcher) Start(ctx context.Context) {
	w.Scan() // prime cache
	go func() {
		defer close(w.done)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.Scan()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Done is closed once the polling goroutine exits.
func (w *FileWatcher) Done() <-chan struct{} { return w.done }

// Scan checks mtimes once and invokes onChange for files that changed or
// appeared since the previous scan. The first scan only records mtimes.
func (w *FileWatcher) Scan() {
	w.mu.Lock()
	defer w.mu.Unlock()
	primed := w.primed
	w.primed = true
	for _, p := range w.paths() {
		fi, err := os.Stat(p)
		if err != nil {
			// missing file: keep going
			continue
		}
		mt := fi.ModTime()
		last, ok := w.lastMTime[p]
		w.lastMTime[p] = mt
		switch {
		case !ok && !primed:
		case !ok, mt.After(last):
			if w.onChange != nil {
				w.onChange(p)
			}
		}
	}
}
