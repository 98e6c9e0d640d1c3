// Package watcher triggers a reload callback when the model file
// changes on disk.
//
// Workflows rewrite the document in bursts (one write per updated
// result field), so events are held until writes settle and the
// callback fires once per burst. The parent directory is watched
// rather than the file itself, because editors and atomic savers
// replace the file via rename, which would drop a direct watch.
package watcher

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is the quiet period required before a burst of writes
// is reported as one change.
const DefaultSettle = 250 * time.Millisecond

// Watcher notifies a callback when the model file changes on disk.
type Watcher struct {
	path     string
	settle   time.Duration
	watcher  *fsnotify.Watcher
	onChange func()

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a watcher for the given model file path. The callback
// runs on a watcher-owned goroutine once changes settle; a settle of 0
// selects DefaultSettle.
func New(path string, settle time.Duration, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if settle == 0 {
		settle = DefaultSettle
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		path:     path,
		settle:   settle,
		watcher:  fsw,
		onChange: onChange,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start begins watching the model file's directory for changes.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	go w.watchLoop()
	return nil
}

// Stop shuts down the watcher. A burst still settling when Stop is
// called is discarded.
func (w *Watcher) Stop() {
	w.cancel()
	w.watcher.Close()
}

// watchLoop filters raw filesystem events down to model-file writes
// and arms a settle timer on each one. The timer channel stays nil
// while no burst is open, so the select ignores it.
func (w *Watcher) watchLoop() {
	var timer *time.Timer
	var settled <-chan time.Time

	for {
		select {
		case <-w.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.settle)
				settled = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.settle)
			}

		case <-settled:
			timer = nil
			settled = nil
			w.onChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("warning: watcher error: %v", err)
		}
	}
}
