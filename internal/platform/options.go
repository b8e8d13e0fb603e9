package platform

import (
	"log/slog"

	"github.com/aretw0/excelcy/pkg/adapters/fs"
	"github.com/aretw0/excelcy/pkg/core"
)

// options holds the internal configuration for the excelcy service.
type options struct {
	repository core.Repository
	logger     *slog.Logger
	config     map[string]interface{}
	formats    map[string]fs.Format
}

// Option defines a functional option for configuring excelcy.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		repository: nil,
		logger:     nil,
		config:     make(map[string]interface{}),
		formats:    make(map[string]fs.Format),
	}
}

// WithFormat registers a format adapter for a file extension (e.g. ".conf").
// It overrides the default adapter for that extension.
func WithFormat(ext string, f fs.Format) Option {
	return func(o *options) {
		o.formats[ext] = f
	}
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository allows injecting a custom repository (e.g. mock, remote store).
// If provided, the default filesystem adapter will be skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithLenient restores the permissive behavior for unknown file extensions:
// load and save skip the file (with a warning) instead of failing.
func WithLenient(enabled bool) Option {
	return func(o *options) {
		o.config["lenient"] = enabled
	}
}

// WithEventBuffer allows specifying the size of the watch channel.
// Zero means default (16).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}

// WithWatcherErrorHandler registers a callback for errors occurring in the watch loop,
// which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}
