// Package watcher runs the drop-directory mode: new PDF decks written into
// a watched directory are picked up and handed to a processing callback,
// one at a time.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleInterval is how long a new file must keep a stable size before it
// is considered fully written. PDF exports can take a while to flush.
const settleInterval = 500 * time.Millisecond

// Handler processes one dropped deck. Errors are logged, not fatal; the
// watcher keeps running.
type Handler func(ctx context.Context, path string) error

type Watcher struct {
	dir     string
	handler Handler
}

func New(dir string, handler Handler) *Watcher {
	return &Watcher{dir: dir, handler: handler}
}

// Run watches the directory until the context is cancelled. Decks already
// present at startup are processed first.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("creating watch directory: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	if err := w.processExisting(ctx); err != nil {
		return err
	}

	slog.Info("Watching for decks", "dir", w.dir)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !isDeck(event.Name) {
				continue
			}
			w.process(ctx, event.Name)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watch error", "error", err)
		}
	}
}

func (w *Watcher) processExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("reading watch directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !isDeck(entry.Name()) {
			continue
		}
		w.process(ctx, filepath.Join(w.dir, entry.Name()))
	}
	return nil
}

func (w *Watcher) process(ctx context.Context, path string) {
	if err := waitSettled(ctx, path); err != nil {
		slog.Warn("Skipping deck", "path", path, "error", err)
		return
	}

	slog.Info("Processing deck", "path", path)
	if err := w.handler(ctx, path); err != nil {
		slog.Error("Deck processing failed", "path", path, "error", err)
		return
	}
	slog.Info("Deck processed", "path", path)
}

// waitSettled blocks until the file size stops changing between polls.
func waitSettled(ctx context.Context, path string) error {
	var lastSize int64 = -1
	for {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.Size() == lastSize {
			return nil
		}
		lastSize = info.Size()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(settleInterval):
		}
	}
}

func isDeck(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
