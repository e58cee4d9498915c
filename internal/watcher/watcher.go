// Package watcher reruns a callback when files below a directory change.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

const DefaultDebounce = 100 * time.Millisecond

// ChangeFunc handles a batch of changed paths.
type ChangeFunc func(ctx context.Context, changed []string)

type Option func(*Watcher)

// WithDebounce sets how long the watcher waits for changes to settle before
// calling the ChangeFunc.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// Watcher watches a directory tree, ignoring dot-prefixed paths. Changes are
// debounced into batches, and batches are handed to the ChangeFunc one at a
// time: changes that arrive while the ChangeFunc runs queue a single
// follow-up call.
type Watcher struct {
	root     string
	debounce time.Duration
	onChange ChangeFunc

	mu      sync.Mutex
	pending []string

	trigger chan struct{}
	ready   chan struct{}
}

func New(root string, onChange ChangeFunc, opts ...Option) *Watcher {
	w := &Watcher{
		root:     root,
		debounce: DefaultDebounce,
		onChange: onChange,
		trigger:  make(chan struct{}, 1),
		ready:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Ready is closed once the initial subscription of the tree is in place.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := w.watchDirs(fw, w.root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.root, err)
	}

	close(w.ready)
	log.Debug().Str("root", w.root).Dur("debounce", w.debounce).Msg("watching")

	var wg conc.WaitGroup
	wg.Go(func() { w.changeLoop(ctx) })
	wg.Go(func() { w.eventLoop(ctx, fw) })
	wg.Wait()

	return nil
}

func (w *Watcher) eventLoop(ctx context.Context, fw *fsnotify.Watcher) {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}

			if !isWatchEvent(event.Op) || IsHidden(w.root, event.Name) {
				continue
			}

			log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("file changed")

			if w.shouldAddWatchDir(event) {
				if err := w.watchDirs(fw, event.Name); err != nil {
					log.Warn().Err(err).Str("path", event.Name).Msg("failed to watch new directory")
				}
			}

			w.mu.Lock()
			if !slices.Contains(w.pending, event.Name) {
				w.pending = append(w.pending, event.Name)
			}
			w.mu.Unlock()

			timer.Reset(w.debounce)

		case <-timer.C:
			select {
			case w.trigger <- struct{}{}:
			default: // a call is already queued
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("watch error")
		}
	}
}

// changeLoop is the only caller of onChange, which keeps calls sequential.
func (w *Watcher) changeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.trigger:
			changed := w.drain()
			if len(changed) == 0 {
				continue
			}

			var pc panics.Catcher
			pc.Try(func() { w.onChange(ctx, changed) })
			if r := pc.Recovered(); r != nil {
				log.Error().Err(r.AsError()).Msg("change handler panicked")
			}
		}
	}
}

func (w *Watcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	changed := w.pending
	w.pending = nil
	return changed
}

func (w *Watcher) watchDirs(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Warn().Err(err).Str("path", path).Msg("failed to access path")
			return nil
		}

		if !d.IsDir() {
			return nil
		}

		if IsHidden(w.root, path) {
			return filepath.SkipDir
		}

		return fw.Add(path)
	})
}

func (w *Watcher) shouldAddWatchDir(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) {
		return false
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return false
	}

	return info.IsDir()
}

func isWatchEvent(op fsnotify.Op) bool {
	return op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

// IsHidden reports whether any segment of path below root is dot-prefixed.
func IsHidden(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}

	for _, segment := range strings.Split(filepath.ToSlash(rel), "/") {
		if segment != "." && segment != ".." && strings.HasPrefix(segment, ".") {
			return true
		}
	}

	return false
}
