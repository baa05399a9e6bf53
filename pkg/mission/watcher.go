package mission

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the mission document for changes and invokes a reload
// callback. Change bursts are debounced so editors that write in several
// steps trigger a single reload.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher for the mission document at path.
func NewWatcher(path string, debounce time.Duration, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	return &Watcher{
		path:     path,
		debounce: debounce,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins watching in a background goroutine. The onReload callback is
// invoked after each debounced change; reload errors are logged, not fatal.
// The parent directory is watched rather than the file itself because most
// editors replace the file on save.
func (w *Watcher) Start(onReload func() error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("mission watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	w.logger.Info("mission watcher started", "path", w.path)

	go func() {
		defer close(w.doneCh)
		defer watcher.Close()

		var timer *time.Timer
		var timerCh <-chan time.Time

		for {
			select {
			case <-w.stopCh:
				if timer != nil {
					timer.Stop()
				}
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(w.path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(w.debounce)
					timerCh = timer.C
				} else {
					timer.Reset(w.debounce)
				}

			case <-timerCh:
				timer = nil
				timerCh = nil
				w.logger.Info("mission document changed, reloading", "path", w.path)
				if err := onReload(); err != nil {
					w.logger.Error("mission reload failed", "error", err, "path", w.path)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				w.logger.Error("mission watcher error", "error", err)
			}
		}
	}()

	return nil
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	close(w.stopCh)
	<-w.doneCh
	w.running = false
	w.logger.Info("mission watcher stopped")
}
