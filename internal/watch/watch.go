// Package watch re-runs a callback when files under a directory tree
// change. Bursts of events (editors write, rename and chmod in quick
// succession) are coalesced with a debounce interval so the callback
// runs once per burst.
package watch

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ruleweaver/ruleweaver/internal/logging"
)

// DefaultDebounce is the coalescing interval used when none is given.
const DefaultDebounce = 300 * time.Millisecond

// Watcher observes one directory tree.
type Watcher struct {
	root     string
	debounce time.Duration
}

// New builds a watcher for the tree rooted at root.
func New(root string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{root: root, debounce: debounce}
}

// Run blocks, invoking fn after each debounced burst of changes, until
// ctx is cancelled. Callback errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer notifier.Close()

	if err := addTree(notifier, w.root); err != nil {
		return err
	}

	log := logging.Component("watch")
	log.Info().Str("dir", w.root).Msg("watching for changes")

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-notifier.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			// New directories must be watched before anything inside
			// them changes.
			if event.Op.Has(fsnotify.Create) {
				if err := addTree(notifier, event.Name); err != nil {
					log.Debug().Str("path", event.Name).Err(err).Msg("cannot watch new path")
				}
			}
			log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("change detected")
			timer.Reset(w.debounce)

		case err, ok := <-notifier.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")

		case <-timer.C:
			if err := fn(ctx); err != nil {
				log.Error().Err(err).Msg("regenerate failed")
			}
		}
	}
}

// relevant filters out events that cannot change file content.
func relevant(event fsnotify.Event) bool {
	return event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Remove) ||
		event.Op.Has(fsnotify.Rename)
}

// addTree registers root and every directory below it. A root that is
// a plain file is registered directly by its parent watch, so non-dir
// paths are ignored.
func addTree(notifier *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// The path may have vanished between event and walk.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		return notifier.Add(path)
	})
}
