package fs

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for a file to settle before
// reporting it.
const DefaultDebounce = 50 * time.Millisecond

// ChangeFunc is called with the path of a changed file.
type ChangeFunc func(ctx context.Context, path string) error

// Watch observes the files matched by the glob patterns and calls onChange
// when one of them is created or written. It returns once the watcher is
// running; the loop stops when ctx is done.
func Watch(ctx context.Context, config Config, patterns []string, onChange ChangeFunc) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if len(patterns) == 0 {
		return fmt.Errorf("no patterns to watch")
	}
	for _, p := range patterns {
		if !doublestar.ValidatePathPattern(p) {
			return fmt.Errorf("invalid pattern %q", p)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	dirs, err := watchDirs(patterns)
	if err != nil {
		_ = watcher.Close()
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	logger := config.logger()
	logger.Debug("watching", "patterns", patterns, "dirs", len(dirs))

	d := newDebouncer(DefaultDebounce)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer watcher.Close()
		defer d.stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				name := filepath.Clean(event.Name)
				if !matchAny(patterns, name) {
					continue
				}
				d.add(name, func() {
					if err := onChange(ctx, name); err != nil {
						logger.Error("change handler failed", "path", name, "error", err)
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logger.Error("watcher error", "error", err)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		logger.Error("watch loop panic", "error", err)
	}))

	return nil
}

// watchDirs lists the directories that can hold files matching patterns.
// Patterns with "**" watch their base directory recursively.
func watchDirs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	for _, p := range patterns {
		base, rest := doublestar.SplitPattern(filepath.ToSlash(p))
		base = filepath.FromSlash(base)
		if !strings.Contains(rest, "**") {
			matches, err := doublestar.FilepathGlob(filepath.Join(base, filepath.Dir(filepath.FromSlash(rest))))
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}
		err := filepath.WalkDir(base, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", base, err)
		}
	}

	if len(dirs) == 0 {
		return nil, fmt.Errorf("no directories match %v", patterns)
	}
	return dirs, nil
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.PathMatch(filepath.Clean(p), name); ok {
			return true
		}
	}
	return false
}

// debouncer coalesces bursts of events per path.
type debouncer struct {
	delay  time.Duration
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, timers: make(map[string]*time.Timer)}
}

func (d *debouncer) add(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timers == nil {
		return
	}
	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	d.timers[key] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, key)
		d.mu.Unlock()
		fn()
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, t := range d.timers {
		t.Stop()
	}
	d.timers = nil
}
