// Package watcher reports debounced filesystem changes, used to reload the
// configuration while the board is open.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// debounceDelay coalesces bursts of events (editors often write a file in
// several steps) into a single callback.
const debounceDelay = 100 * time.Millisecond

// meaningfulOps are the operations that trigger the callback.
const meaningfulOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// Watcher calls a callback after files in the watched paths change.
type Watcher struct {
	fsw      *fsnotify.Watcher
	callback func()
	names    map[string]bool
	log      zerolog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// OnlyFiles restricts the callback to events on files with these base
// names. Watching a directory and filtering keeps working when an editor
// replaces the file by rename.
func OnlyFiles(names ...string) Option {
	return func(w *Watcher) {
		w.names = make(map[string]bool, len(names))
		for _, n := range names {
			w.names[n] = true
		}
	}
}

// WithLogger sets the watcher logger.
func WithLogger(l zerolog.Logger) Option {
	return func(w *Watcher) { w.log = l }
}

// New starts watching every path. It fails if any path cannot be watched.
func New(paths []string, callback func(), opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	for _, p := range paths {
		if err := fsw.Add(p); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", p, err)
		}
	}

	w := &Watcher{fsw: fsw, callback: callback, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run processes events until ctx is cancelled or the watcher is closed.
// errFn, if non-nil, receives watcher errors.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("file changed")
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, w.callback)
			mu.Unlock()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watcher error")
			if errFn != nil {
				errFn(err)
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&meaningfulOps == 0 {
		return false
	}
	if len(w.names) > 0 && !w.names[filepath.Base(ev.Name)] {
		return false
	}
	return true
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
