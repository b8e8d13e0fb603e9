package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/excelcy/pkg/core"
)

// debounceWindow collapses the burst of events an editor or an atomic save produces.
const debounceWindow = 50 * time.Millisecond

// Watch emits an event each time the file at path is created, written, removed or
// renamed, until ctx is done. The parent directory is watched so atomic
// replacements (rename over the file) are seen too.
func (r *Repository) Watch(ctx context.Context, path string) (<-chan core.Event, error) {
	target, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	size := r.config.EventBuffer
	if size <= 0 {
		size = 16
	}
	events := make(chan core.Event, size)
	r.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer r.setWatcherActive(false)
		defer watcher.Close()
		return r.watchLoop(ctx, watcher, target, events)
	}, lifecycle.WithErrorHandler(func(err error) {
		r.handleWatcherError(fmt.Errorf("watcher stopped: %w", err))
	}))

	return events, nil
}

func (r *Repository) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, target string, events chan<- core.Event) error {
	var (
		pending *core.Event
		timer   *time.Timer
		fire    <-chan time.Time
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

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			eType := mapEventType(event)
			if eType == "" {
				continue
			}
			r.config.Logger.Debug("event received", "path", event.Name, "op", event.Op.String())

			pending = &core.Event{Type: eType, Path: target, Timestamp: time.Now().Unix()}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
			} else {
				timer.Reset(debounceWindow)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if pending == nil {
				continue
			}
			select {
			case events <- *pending:
			case <-ctx.Done():
				return nil
			}
			pending = nil

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			r.handleWatcherError(wErr)
		}
	}
}

func (r *Repository) handleWatcherError(err error) {
	r.config.Logger.Error("fsnotify error", "error", err)
	if r.config.ErrorHandler != nil {
		r.config.ErrorHandler(err)
	}
}

func mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	default:
		return ""
	}
}
