package catalogue

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// Watcher re-imports the catalogue when its file changes on disk. Edits
// arrive as bursts of write events (and some editors replace the file
// outright), so imports are rate limited and both Write and Create count
// as a change.
type Watcher struct {
	importer *Importer
	watcher  *fsnotify.Watcher
	limiter  *rate.Limiter
	done     chan struct{}
}

// NewWatcher creates a watcher for the importer's catalogue file.
// minInterval is the minimum time between two watcher-triggered imports.
func NewWatcher(importer *Importer, minInterval time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory rather than the file so rename-and-replace
	// saves keep working.
	dir := filepath.Dir(importer.options.Path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &Watcher{
		importer: importer,
		watcher:  fsw,
		limiter:  rate.NewLimiter(rate.Every(minInterval), 1),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. It blocks until Stop is called or the context is
// cancelled, so run it on its own goroutine.
func (w *Watcher) Start(ctx context.Context) {
	target := filepath.Clean(w.importer.options.Path)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !w.limiter.Allow() {
				log.Printf("[Watcher] catalogue changed, skipping re-import (rate limited)")
				continue
			}
			log.Printf("[Watcher] catalogue changed, re-importing")
			if _, err := w.importer.Import(ctx); err != nil {
				log.Printf("[Watcher] re-import failed: %v", err)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[Watcher] watch error: %v", err)
		}
	}
}

// Stop ends the watch loop and releases the underlying watcher.
func (w *Watcher) Stop() {
	close(w.done)
	_ = w.watcher.Close()
}
