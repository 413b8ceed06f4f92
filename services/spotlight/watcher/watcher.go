// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package watcher observes the user-plugins directory for changes.
//
// # Description
//
// Watches the plugin tree and batches changes using a debounce window, so
// an editor writing a plugin file in several syscalls triggers one
// notification instead of a burst. New subdirectories are added to the
// watch as they appear; names starting with "." or "_" are ignored the
// same way the listing endpoint ignores them.
//
// # Thread Safety
//
// Safe for concurrent use. The handler is called from a single goroutine.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/AleutianAI/spotlight/pkg/validation"
)

// DefaultDebounce is the batching window for change events.
const DefaultDebounce = 300 * time.Millisecond

// ChangeHandler receives the batched set of changed paths, relative to
// the watched root and slash-separated.
type ChangeHandler func(paths []string)

// Watcher watches a plugin root with debouncing.
type Watcher struct {
	root     string
	debounce time.Duration
	handler  ChangeHandler
	logger   *slog.Logger

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	cancel  context.CancelFunc
	stopped chan struct{}
}

// New creates a Watcher for root. A zero debounce uses DefaultDebounce;
// a nil logger uses slog.Default().
func New(root string, debounce time.Duration, handler ChangeHandler, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		root:     root,
		debounce: debounce,
		handler:  handler,
		logger:   logger,
	}
}

// Start begins watching until ctx is canceled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)

	w.mu.Lock()
	w.fsw = fsw
	w.cancel = cancel
	w.stopped = make(chan struct{})
	w.mu.Unlock()

	if err := w.addRecursive(w.root); err != nil {
		w.logger.Warn("watch root unavailable, waiting for events only",
			slog.String("root", w.root), slog.String("error", err.Error()))
	}

	go w.loop(ctx, fsw)
	return nil
}

// Stop halts watching and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	stopped := w.stopped
	w.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-stopped
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && validation.HiddenOrInternal(d.Name()) {
			return filepath.SkipDir
		}
		return w.fsw.Add(p)
	})
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	defer close(w.stopped)
	defer fsw.Close()

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if len(pending) == 0 {
			return
		}
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		pending = make(map[string]struct{})
		if w.handler != nil {
			w.handler(paths)
		}
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				flush()
				return
			}
			name := filepath.Base(ev.Name)
			if validation.HiddenOrInternal(name) {
				continue
			}
			// Newly created directories join the watch so plugins
			// dropped into fresh subtrees are still seen.
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(ev.Name); err != nil {
						w.logger.Warn("failed to watch new directory",
							slog.String("path", ev.Name), slog.String("error", err.Error()))
					}
				}
			}
			if rel, err := filepath.Rel(w.root, ev.Name); err == nil {
				pending[filepath.ToSlash(rel)] = struct{}{}
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			flush()

		case err, ok := <-fsw.Errors:
			if !ok {
				flush()
				return
			}
			w.logger.Warn("watch error", slog.String("error", err.Error()))
		}
	}
}
