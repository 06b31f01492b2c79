// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package watch detects rebuilds of a compiled Playdate game bundle.
//
// pdc writes a .pdx bundle as a directory of compiled files. A rebuild
// touches many of them in quick succession, so raw filesystem events are
// debounced into a single rebuild notification the caller can act on,
// typically by relaunching the simulator.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/AleutianAI/playdate-ext/pkg/logging"
)

// DefaultDebounce is how long after the last write a rebuild is considered
// finished. pdc writes bundles file by file; a window this size collapses
// one build into one event.
const DefaultDebounce = 500 * time.Millisecond

// Rebuild is one detected bundle rebuild.
type Rebuild struct {
	// BundlePath is the watched .pdx bundle.
	BundlePath string

	// Paths are the files that changed, deduplicated, in first-seen order.
	Paths []string

	// Time is when the rebuild was considered complete.
	Time time.Time
}

// RebuildHandler receives debounced rebuild notifications.
type RebuildHandler func(rebuild Rebuild)

// BundleWatcher watches one .pdx bundle for rebuilds.
//
// Description:
//
//	The bundle's parent directory is watched alongside the bundle itself,
//	so the very first build (the bundle appearing) is caught too. Events
//	outside the bundle path are ignored.
//
// Thread Safety:
//
//	Safe for concurrent use. The handler is called from a single
//	goroutine.
type BundleWatcher struct {
	bundlePath string
	watcher    *fsnotify.Watcher
	handler    RebuildHandler
	debounce   time.Duration
	logger     *logging.Logger

	changes  chan string
	done     chan struct{}
	stopOnce sync.Once

	mu       sync.Mutex
	watching bool
}

// WatcherOption configures a BundleWatcher.
type WatcherOption func(*BundleWatcher)

// WithDebounce overrides the rebuild debounce window.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *BundleWatcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(logger *logging.Logger) WatcherOption {
	return func(w *BundleWatcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewBundleWatcher creates a watcher for the given .pdx bundle.
//
// Inputs:
//   - bundlePath: The built bundle, e.g. builds/Game.pdx. Need not exist
//     yet; its parent directory must.
//   - handler: Called once per debounced rebuild
//   - opts: Optional configuration
//
// Outputs:
//   - *BundleWatcher: Ready to Start
//   - error: Watcher creation or path resolution failure
func NewBundleWatcher(bundlePath string, handler RebuildHandler, opts ...WatcherOption) (*BundleWatcher, error) {
	abs, err := filepath.Abs(bundlePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve bundle path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem watcher: %w", err)
	}

	w := &BundleWatcher{
		bundlePath: abs,
		watcher:    watcher,
		handler:    handler,
		debounce:   DefaultDebounce,
		logger:     logging.Default(),
		changes:    make(chan string, 256),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// BundlePath returns the absolute path being watched.
func (w *BundleWatcher) BundlePath() string {
	return w.bundlePath
}

// Start begins watching. Returns immediately; the handler is called from a
// background goroutine until Stop or context cancellation.
func (w *BundleWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return nil
	}
	w.watching = true
	w.mu.Unlock()

	parent := filepath.Dir(w.bundlePath)
	if err := w.watcher.Add(parent); err != nil {
		return fmt.Errorf("failed to watch %s: %w", parent, err)
	}
	if info, err := os.Stat(w.bundlePath); err == nil && info.IsDir() {
		if err := w.watcher.Add(w.bundlePath); err != nil {
			return fmt.Errorf("failed to watch %s: %w", w.bundlePath, err)
		}
	}

	w.logger.Info("watching bundle",
		"bundle", w.bundlePath,
		"operation_id", uuid.NewString(),
	)

	go w.processEvents(ctx)
	go w.debounceLoop(ctx)
	return nil
}

// Stop stops the watcher. Safe to call more than once.
func (w *BundleWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.watcher.Close()

		w.mu.Lock()
		w.watching = false
		w.mu.Unlock()
	})
}

// inBundle reports whether path is the bundle or inside it.
func (w *BundleWatcher) inBundle(path string) bool {
	if path == w.bundlePath {
		return true
	}
	return strings.HasPrefix(path, w.bundlePath+string(filepath.Separator))
}

// processEvents filters raw events down to bundle changes.
func (w *BundleWatcher) processEvents(ctx context.Context) {
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
			if !w.inBundle(event.Name) {
				continue
			}

			// The bundle directory appearing means a first build; start
			// watching inside it
			if event.Has(fsnotify.Create) && event.Name == w.bundlePath {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.watcher.Add(event.Name)
				}
			}

			select {
			case w.changes <- event.Name:
			default:
				// Buffer full; the debouncer already has enough to fire
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// debounceLoop collapses change bursts into single rebuild notifications.
func (w *BundleWatcher) debounceLoop(ctx context.Context) {
	var paths []string
	seen := make(map[string]struct{})
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if len(paths) > 0 && w.handler != nil {
			w.handler(Rebuild{
				BundlePath: w.bundlePath,
				Paths:      paths,
				Time:       time.Now(),
			})
		}
		paths = nil
		seen = make(map[string]struct{})
		if timer != nil {
			timer.Stop()
			timer = nil
			timerC = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case <-w.done:
			flush()
			return
		case path := <-w.changes:
			if _, dup := seen[path]; !dup {
				seen[path] = struct{}{}
				paths = append(paths, path)
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			flush()
		}
	}
}
