package watcher

import (
	"context"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Event is a change to one watched log file.
type Event struct {
	Path string
	Op   fsnotify.Op
}

// Changed reports whether the file content may differ from the last scan.
func (e Event) Changed() bool {
	return e.Op&(fsnotify.Write|fsnotify.Create) != 0
}

// Gone reports whether the file was removed or moved away.
func (e Event) Gone() bool {
	return e.Op&(fsnotify.Remove|fsnotify.Rename) != 0
}

// Watcher reports changes to a set of log files. It watches the directories
// that hold them rather than the files, so a rotated file that is recreated
// under the same name keeps producing events, and a new file matching one of
// the glob patterns joins the set when it is created.
type Watcher struct {
	fsw    *fsnotify.Watcher
	Events chan Event

	globs []string

	mu    sync.Mutex
	files map[string]bool
}

// New expands patterns and starts watching the directories of the result.
func New(patterns []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:    fsw,
		Events: make(chan Event, 256),
		files:  make(map[string]bool),
	}

	dirs := make(map[string]bool)
	for _, p := range patterns {
		if !isGlob(p) {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		w.globs = append(w.globs, filepath.ToSlash(abs))
		base, _ := doublestar.SplitPattern(filepath.ToSlash(abs))
		dirs[filepath.FromSlash(base)] = true
	}
	for _, p := range Expand(patterns) {
		w.files[p] = true
		dirs[filepath.Dir(p)] = true
	}

	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			log.Printf("warning: cannot watch %s: %v", dir, err)
		}
	}

	return w, nil
}

// Start forwards events for watched files until the context is cancelled.
// Events is closed on return.
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
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.track(ev) {
				continue
			}
			select {
			case w.Events <- Event{Path: ev.Name, Op: ev.Op}:
			case <-ctx.Done():
				return
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

// track reports whether ev concerns a watched file, adopting files created
// under a glob pattern.
func (w *Watcher) track(ev fsnotify.Event) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.files[ev.Name] {
		return true
	}
	if ev.Op&fsnotify.Create == 0 {
		return false
	}
	name := filepath.ToSlash(ev.Name)
	for _, g := range w.globs {
		if ok, _ := doublestar.Match(g, name); ok {
			log.Printf("watching new file: %s", ev.Name)
			w.files[ev.Name] = true
			return true
		}
	}
	return false
}

// Paths returns the watched files in sorted order.
func (w *Watcher) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files))
	for p := range w.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// Expand resolves glob patterns to a sorted, de-duplicated list of absolute
// file paths. Supports recursive patterns like /var/log/**/*.log via doublestar.
// A pattern without glob syntax is kept as-is even if the file is missing, so
// the failure surfaces when the file is opened. Patterns that fail to expand
// are logged and skipped.
func Expand(patterns []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range patterns {
		matches := []string{pattern}
		if isGlob(pattern) {
			var err error
			matches, err = doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
			if err != nil {
				log.Printf("warning: failed to expand pattern %q: %v", pattern, err)
				continue
			}
		}
		for _, m := range matches {
			abs, err := filepath.Abs(m)
			if err != nil {
				abs = m
			}
			if !seen[abs] {
				seen[abs] = true
				out = append(out, abs)
			}
		}
	}
	sort.Strings(out)
	return out
}
