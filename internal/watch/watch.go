// Package watch re-runs a comparison whenever one of the registry files
// changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 250 * time.Millisecond

// Watcher re-runs Func when any of Paths changes.
type Watcher struct {
	// Paths are the files to watch. Their parent directories are registered
	// with fsnotify so atomic saves (write temp file, rename over target)
	// are still observed.
	Paths []string

	// Debounce is how long to wait after the last event before rerunning.
	// Zero means DefaultDebounce.
	Debounce time.Duration

	// Func is invoked once at startup and after each debounced change. An
	// error from Func is logged and watching continues: a half-saved file
	// should not kill the watch loop.
	Func func(ctx context.Context) error

	Logger *zap.Logger
}

// Run blocks until ctx is cancelled or the underlying watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	if w.Logger == nil {
		w.Logger = zap.NewNop()
	}
	debounce := w.Debounce
	if debounce == 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	watched := make(map[string]bool, len(w.Paths))
	for _, p := range w.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", p, err)
		}
		watched[abs] = true
		if err := fw.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
		}
	}

	changes := make(chan struct{}, 1)
	g, ctx := errgroup.WithContext(ctx)

	// Event loop: filter to the watched files and coalesce into a single
	// pending change notification.
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-fw.Events:
				if !ok {
					return nil
				}
				abs, err := filepath.Abs(ev.Name)
				if err != nil || !watched[abs] {
					continue
				}
				w.Logger.Debug("file event", zap.String("path", abs), zap.String("op", ev.Op.String()))
				select {
				case changes <- struct{}{}:
				default:
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return nil
				}
				return fmt.Errorf("watcher: %w", err)
			}
		}
	})

	// Run loop: initial run, then one run per debounced change.
	g.Go(func() error {
		w.runOnce(ctx)
		timer := time.NewTimer(debounce)
		if !timer.Stop() {
			<-timer.C
		}
		defer timer.Stop()

		pending := false
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-changes:
				if pending && !timer.Stop() {
					<-timer.C
				}
				timer.Reset(debounce)
				pending = true
			case <-timer.C:
				pending = false
				w.runOnce(ctx)
			}
		}
	})

	return g.Wait()
}

func (w *Watcher) runOnce(ctx context.Context) {
	if err := w.Func(ctx); err != nil {
		w.Logger.Warn("comparison failed", zap.Error(err))
	}
}
