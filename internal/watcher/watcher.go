// Package watcher reloads the catalog when its data files change on disk.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadFunc is invoked once the watched directory has settled after a
// burst of writes.
type ReloadFunc func(ctx context.Context) error

// Watcher monitors a catalog data directory for changes to its JSON files
// and triggers a reload after writes have settled. Exporters typically
// rewrite products.json and categories.json back to back, so individual
// events are coalesced behind a settle timer rather than acted on directly.
type Watcher struct {
	dir    string
	opts   Options
	reload ReloadFunc
	logger *slog.Logger

	fsw *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer

	done chan struct{}
	wg   sync.WaitGroup
}

// New creates a watcher for the given catalog data directory.
func New(dir string, reload ReloadFunc, logger *slog.Logger, opts Options) (*Watcher, error) {
	opts.setDefaults()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		dir:    filepath.Clean(dir),
		opts:   opts,
		reload: reload,
		logger: logger,
		fsw:    fsw,
		done:   make(chan struct{}),
	}, nil
}

// Start begins watching the data directory. It blocks until the context
// is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	w.logger.Info("watching catalog data directory", "dir", w.dir, "settle_delay", w.opts.SettleDelay)

	w.wg.Add(1)
	go w.loop(ctx)

	select {
	case <-ctx.Done():
	case <-w.done:
	}
	return nil
}

// Stop stops the watcher and releases resources.
func (w *Watcher) Stop() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", "dir", w.dir, "error", err)
		}
	}
}

// handleEvent schedules a reload for any relevant change. Renames and
// removes matter too: atomic exporters write to a temp file and rename
// it over the real one.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}
	if !w.relevant(event.Name) {
		return
	}

	w.logger.Debug("catalog file changed", "path", event.Name, "op", event.Op.String())
	w.scheduleReload(ctx)
}

// relevant reports whether a changed path should trigger a reload.
func (w *Watcher) relevant(path string) bool {
	if w.opts.shouldIgnore(path) {
		return false
	}
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// scheduleReload arms the settle timer, pushing it back if it is
// already running.
func (w *Watcher) scheduleReload(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.done:
		return
	default:
	}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.SettleDelay, func() {
		w.runReload(ctx)
	})
}

func (w *Watcher) runReload(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-w.done:
		return
	default:
	}

	start := time.Now()
	if err := w.reload(ctx); err != nil {
		w.logger.Error("catalog reload failed", "dir", w.dir, "error", err)
		return
	}
	w.logger.Info("catalog reloaded", "dir", w.dir, "duration", time.Since(start))
}
