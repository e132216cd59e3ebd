// Package watcher re-analyzes a chat export whenever the file changes on
// disk (serve --watch). Exports are rewritten wholesale by the exporting
// phone, so every change triggers a full re-parse.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/waview/waview/internal/analyzer"
	"github.com/waview/waview/internal/parser"
	"github.com/waview/waview/internal/session"
)

// debounce coalesces the burst of write events a file save produces.
const debounce = 300 * time.Millisecond

// Event represents a file change detected by the watcher.
type Event struct {
	Path string
	Op   fsnotify.Op
}

// Watcher monitors export files for changes using OS-level notifications.
type Watcher struct {
	fsw    *fsnotify.Watcher
	Events chan Event
	paths  []string
	log    zerolog.Logger
}

// New creates a Watcher for the given glob patterns.
// Patterns are expanded at startup and the resulting files are watched.
func New(patterns []string, log zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:    fsw,
		Events: make(chan Event, 64),
		log:    log,
	}

	for _, pattern := range patterns {
		matches, err := expandGlob(pattern)
		if err != nil {
			log.Warn().Str("pattern", pattern).Err(err).Msg("cannot expand pattern")
			continue
		}
		for _, m := range matches {
			abs, _ := filepath.Abs(m)
			if err := fsw.Add(abs); err != nil {
				log.Warn().Str("path", abs).Err(err).Msg("cannot watch file")
				continue
			}
			w.paths = append(w.paths, abs)
		}
	}

	return w, nil
}

// Start begins listening for file events. It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	defer w.fsw.Close()
	defer close(w.Events)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			switch {
			case ev.Op&fsnotify.Write != 0,
				ev.Op&fsnotify.Create != 0:
				w.Events <- Event{Path: ev.Name, Op: ev.Op}
			case ev.Op&fsnotify.Rename != 0:
				// Phones and editors replace the file on save; re-arm the watch.
				go w.rewatch(ev.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watcher error")
		}
	}
}

// Paths returns the list of files currently being watched.
func (w *Watcher) Paths() []string {
	return w.paths
}

// rewatch re-adds a path once it exists again after a rename.
func (w *Watcher) rewatch(path string) {
	for i := 0; i < 10; i++ {
		if _, err := os.Stat(path); err == nil {
			if err := w.fsw.Add(path); err == nil {
				w.Events <- Event{Path: path, Op: fsnotify.Create}
			}
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// Reload consumes watcher events, debounces them, and swaps the session
// with a fresh parse of the changed export. Blocks until the context is
// cancelled or the event channel closes.
func (w *Watcher) Reload(ctx context.Context, holder *session.Holder) {
	var pending string
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			pending = ev.Path
			if timer == nil {
				timer = time.NewTimer(debounce)
				fire = timer.C
			} else {
				// Drain a tick that fired between the select cases so
				// Reset starts a clean interval.
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
		case <-fire:
			timer = nil
			fire = nil
			w.reparse(pending, holder)
		}
	}
}

func (w *Watcher) reparse(path string, holder *session.Holder) {
	f, err := os.Open(path)
	if err != nil {
		w.log.Warn().Str("path", path).Err(err).Msg("cannot reopen export")
		return
	}
	defer f.Close()

	chat, err := parser.Parse(f, filepath.Base(path))
	if err != nil {
		w.log.Warn().Str("path", path).Err(err).Msg("re-parse failed")
		return
	}

	report := analyzer.Analyze(chat)
	holder.Set(chat, report)
	w.log.Info().
		Str("path", path).
		Int("messages", report.Overview.TotalMessages).
		Msg("export re-analyzed")
}

// expandGlob resolves a glob pattern to matching file paths.
// Supports recursive patterns like exports/**/*.txt via doublestar.
func expandGlob(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
}
