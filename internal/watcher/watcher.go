// Package watcher reloads the vocabulary when seed files change on disk.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/logger"
)

// defaultDebounce is how long the watcher waits after the last write
// before reloading. Vendor exports rewrite all four files in a burst.
const defaultDebounce = 2 * time.Second

// ReloadFunc is invoked after seed writes settle.
type ReloadFunc func(ctx context.Context) error

// Watcher monitors a seed directory of vendor JSON picklist files and
// triggers a vocabulary reload once writes settle.
type Watcher struct {
	dir      string
	reload   ReloadFunc
	logger   *logger.Logger
	debounce time.Duration

	watcher *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a watcher for the given seed directory.
func New(dir string, reload ReloadFunc, log *logger.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{
		dir:      dir,
		reload:   reload,
		logger:   log,
		debounce: defaultDebounce,
		watcher:  fsw,
		done:     make(chan struct{}),
	}, nil
}

// Start launches the event loop. It returns immediately.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.run()
	w.logger.Info("watching seed directory", "dir", w.dir)
}

// Stop shuts the watcher down and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.watcher.Close()
	})
	w.wg.Wait()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isSeedEvent(event) {
				continue
			}
			w.logger.Debug("seed file changed", "file", event.Name, "op", event.Op.String())
			w.scheduleReload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("seed watcher error", "error", err)
		}
	}
}

// isSeedEvent reports whether the event is a content change to one of
// the vendor JSON files. Editor temp files and chmods are ignored.
func isSeedEvent(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	return strings.HasSuffix(filepath.Base(event.Name), ".json")
}

// scheduleReload arms the debounce timer, restarting it if a write is
// already pending.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fireReload)
}

func (w *Watcher) fireReload() {
	select {
	case <-w.done:
		return
	default:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := w.reload(ctx); err != nil {
		w.logger.Error("seed reload failed", "dir", w.dir, "error", err)
		return
	}
	w.logger.Info("vocabulary reloaded from seed directory", "dir", w.dir)
}
