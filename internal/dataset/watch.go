package dataset

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a Store when files in the data directory change. Bursts of
// events are collapsed: a reload starts once no event has arrived for the
// debounce interval.
type Watcher struct {
	store    *Store
	dir      string
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// NewWatcher starts watching dir
func NewWatcher(store *Store, dir string, debounce time.Duration) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating file watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("error watching %s: %w", dir, err)
	}

	return &Watcher{
		store:    store,
		dir:      dir,
		debounce: debounce,
		watcher:  w,
	}, nil
}

// Start runs the watch loop in the background until ctx is cancelled
func (w *Watcher) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer w.watcher.Close()
		w.run(ctx)
	}()
}

func (w *Watcher) run(ctx context.Context) {
	// fire is nil while no reload is pending
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			w.store.logger.Debugw("data directory changed", "file", event.Name, "op", event.Op.String())
			fire = time.After(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.store.logger.Warnw("file watcher error", "dir", w.dir, "error", err)

		case <-fire:
			fire = nil
			// Errors are logged by the store; the old table remains in service.
			_ = w.store.Reload(ctx)
		}
	}
}

func relevant(event fsnotify.Event) bool {
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
