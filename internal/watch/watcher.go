// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs work when add-on archives appear, change or vanish in
// the add-on directories.
//
// Events are debounced: a burst of writes (a download finishing, a copy of a
// whole plugin directory) produces one callback carrying every changed archive.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/addonvet/addonvet/pkg/addon"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before the
// callback fires.
const DefaultDebounce = 500 * time.Millisecond

var (
	// ErrInvalidPattern is returned by New for a malformed glob.
	ErrInvalidPattern = errors.New("invalid watch pattern")

	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("watcher already running")
)

// ignored matches partial downloads, editor backups and hidden files, which
// are never add-ons even when their names end in ".zap".
var ignored = []string{
	"**/.*",
	"**/.*/**",
	"**/*.part",
	"**/*.tmp",
	"**/*~",
}

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Dirs are the add-on directories to watch. Missing directories are
		// skipped with a warning.
		Dirs []string

		// Pattern selects candidate files relative to each directory, as for
		// scanning. Patterns containing a separator watch subdirectories too.
		// Empty means "*".
		Pattern string

		// Debounce values of zero or less fall back to DefaultDebounce.
		Debounce time.Duration

		Logger *log.Logger

		// OnChange receives the sorted absolute paths of the archives that
		// changed since the previous call. A nil callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error
	}

	// Watcher monitors add-on directories and fires a debounced callback
	// when archives change. Run must be called exactly once.
	Watcher struct {
		fsw       *fsnotify.Watcher
		dirs      []string
		pattern   string
		recursive bool
		debounce  time.Duration
		logger    *log.Logger
		onChange  func(ctx context.Context, changed []string) error
		started   atomic.Bool
	}
)

// New validates cfg and registers the directories with fsnotify.
func New(cfg Config) (*Watcher, error) {
	pattern := cfg.Pattern
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsw:       fsw,
		pattern:   pattern,
		recursive: strings.Contains(pattern, "/"),
		debounce:  debounce,
		logger:    logger,
		onChange:  cfg.OnChange,
	}

	for _, dir := range cfg.Dirs {
		if err := w.addDir(dir); err != nil {
			if closeErr := fsw.Close(); closeErr != nil {
				logger.Warn("close watcher", "err", closeErr)
			}
			return nil, err
		}
	}

	return w, nil
}

// Dirs returns the absolute directories being watched.
func (w *Watcher) Dirs() []string {
	return slices.Clone(w.dirs)
}

// Run blocks until ctx is canceled, dispatching debounced callbacks. It
// returns nil on cancellation and an error when the watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire may run after ctx is canceled when the timer was already armed.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("previous run still in progress, retrying")
			mu.Lock()
			timer.Reset(w.debounce)
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		w.logger.Debug("add-on archives changed", "count", len(changed))
		if w.onChange != nil {
			if err := w.onChange(ctx, changed); err != nil {
				w.logger.Error("change handler failed", "err", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close watcher", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("fsnotify event channel closed unexpectedly")
			}

			if w.recursive && evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}
			if !w.relevant(evt.Name) {
				continue
			}

			mu.Lock()
			pending[filepath.Clean(evt.Name)] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch add-on directories: %w", err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

// addDir registers dir, and its subdirectories for recursive patterns.
func (w *Watcher) addDir(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		w.logger.Warn("skipping add-on directory", "dir", dir, "err", err)
		return nil
	}
	w.dirs = append(w.dirs, abs)

	if !w.recursive {
		if err := w.fsw.Add(abs); err != nil {
			return fmt.Errorf("watch %s: %w", abs, err)
		}
		return nil
	}

	return filepath.WalkDir(abs, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			w.logger.Warn("skipping inaccessible path", "path", path, "err", walkErr)
			return nil //nolint:nilerr // unreadable subtrees are not watched
		}
		if !d.IsDir() {
			return nil
		}
		if path != abs && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// maybeAddDir extends a recursive watch to a directory created after start.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || strings.HasPrefix(filepath.Base(path), ".") {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn("watch new directory", "dir", path, "err", err)
	}
}

// relevant reports whether path could be an add-on selected by the pattern
// in one of the watched directories.
func (w *Watcher) relevant(path string) bool {
	if !addon.IsAddOnFileName(filepath.Base(path)) {
		return false
	}
	for _, dir := range w.dirs {
		rel, err := filepath.Rel(dir, path)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		rel = filepath.ToSlash(rel)
		if isIgnored(rel) {
			return false
		}
		if ok, err := doublestar.Match(w.pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func isIgnored(rel string) bool {
	for _, pat := range ignored {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}
