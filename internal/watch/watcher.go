// Package watch reruns a build whenever the schedule file changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/weekplot/internal/domain"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = time.Second

// ErrEmptyFile is returned when the watched file stays empty.
var ErrEmptyFile = errors.New("file is still empty")

// Handler runs one build for path.
type Handler func(ctx context.Context, path string) error

// Watcher calls Handler after the file at Path changes. Bursts of writes
// within Debounce of each other trigger a single call, and calls never
// overlap.
type Watcher struct {
	Path     string
	Debounce time.Duration
	Handler  Handler
	Logger   zerolog.Logger

	// InitialRun calls Handler once as soon as the watch is in place.
	InitialRun bool

	// ReadAttempts and ReadInterval bound the wait for a file that is
	// still empty because an editor is writing it.
	ReadAttempts int
	ReadInterval time.Duration
}

// Run watches until ctx is done. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	if w.Handler == nil {
		return errors.New("watch: no handler")
	}
	target, err := filepath.Abs(w.Path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", w.Path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify.NewWatcher: %w", err)
	}
	defer fsw.Close()

	// Editors often replace the file on save, so the directory is watched
	// and events are filtered by name.
	if err := fsw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}
	w.Logger.Info().Str("path", target).Msg("watching schedule")

	if w.InitialRun {
		w.fire(ctx, target)
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	var (
		timer *time.Timer
		fireC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event, target) {
				continue
			}
			w.Logger.Debug().Str("op", event.Op.String()).Msg("schedule changed")
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fireC = timer.C

		case <-fireC:
			fireC = nil
			w.fire(ctx, target)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

func relevant(event fsnotify.Event, target string) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	name, err := filepath.Abs(event.Name)
	return err == nil && name == target
}

func (w *Watcher) fire(ctx context.Context, path string) {
	if err := WaitForContent(ctx, path, w.ReadAttempts, w.ReadInterval); err != nil {
		w.Logger.Warn().Err(err).Msg("skipping rebuild")
		return
	}
	start := time.Now()
	if err := w.Handler(ctx, path); err != nil {
		w.Logger.Error().Err(err).Msg("rebuild failed")
		return
	}
	w.Logger.Info().Dur("took", time.Since(start)).Msg("rebuilt report")
}

// WaitForContent polls path until it is non-empty. A file caught halfway
// through a save is often briefly empty.
func WaitForContent(ctx context.Context, path string, attempts int, interval time.Duration) error {
	attempts = domain.IntWithDefault(100, attempts)
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	for i := 0; i < attempts; i++ {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("os.Stat: %w", err)
		}
		if info.Size() > 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("%s: %w", path, ErrEmptyFile)
}
