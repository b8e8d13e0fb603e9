// Package lifecycle exposes the changes of one data file as a lifecycle.Source.
package lifecycle

import (
	"context"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/excelcy/pkg/core"
)

// ReplaceWindow is how long a DELETE is held back waiting for the CREATE of
// an editor or tool that replaces the file instead of writing it in place.
const ReplaceWindow = 100 * time.Millisecond

type dataFileSource struct {
	path   string
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source emitting the changes of the data file at path.
//
// Events for other paths are dropped. A DELETE followed by a CREATE within
// ReplaceWindow is emitted as a single MODIFY, so consumers reload once.
// Emitted values are core.Event.
func NewSource(path string, events <-chan core.Event) lifecycle.Source {
	return &dataFileSource{
		path:   absPath(path),
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *dataFileSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards events until ctx is done or the watch channel closes.
// A held DELETE is flushed when the watch channel closes.
func (s *dataFileSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		return s.forward(ctx)
	})
	return nil
}

func (s *dataFileSource) forward(ctx context.Context) error {
	var (
		deleted *core.Event
		timer   *time.Timer
		expired <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	emit := func(e core.Event) bool {
		select {
		case s.out <- e:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-expired:
			expired = nil
			if deleted != nil {
				if !emit(*deleted) {
					return nil
				}
				deleted = nil
			}

		case e, ok := <-s.events:
			if !ok {
				if deleted != nil {
					emit(*deleted)
				}
				return nil
			}
			if absPath(e.Path) != s.path {
				continue
			}

			if deleted != nil {
				held := *deleted
				deleted, expired = nil, nil
				if e.Type == core.EventCreate {
					e.Type = core.EventModify
					if !emit(e) {
						return nil
					}
					continue
				}
				if !emit(held) {
					return nil
				}
			}

			if e.Type == core.EventDelete {
				deleted = &e
				if timer == nil {
					timer = time.NewTimer(ReplaceWindow)
				} else {
					timer.Reset(ReplaceWindow)
				}
				expired = timer.C
				continue
			}
			if !emit(e) {
				return nil
			}
		}
	}
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
