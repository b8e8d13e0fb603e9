package excelcy

import (
	"context"
	"log/slog"

	"github.com/aretw0/excelcy/internal/platform"
	"github.com/aretw0/excelcy/pkg/adapters/fs"
	"github.com/aretw0/excelcy/pkg/core"
)

// --- Types ---

// Storage is a public alias for the in-memory registry.
type Storage = core.Storage

// Service is a public alias for the service binding a Storage to its files.
type Service = core.Service

// Mapping is a public alias for the ordered payload.
type Mapping = core.Mapping

// Format is a public alias for a file format adapter.
type Format = fs.Format

// --- Errors ---

var (
	ErrUnknownField      = core.ErrUnknownField
	ErrMalformedPayload  = core.ErrMalformedPayload
	ErrUnsupportedFormat = core.ErrUnsupportedFormat
)

// --- Configuration ---

// Option defines a functional option for configuring excelcy.
type Option = platform.Option

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom repository.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithFormat registers a format adapter for a file extension.
func WithFormat(ext string, f Format) Option {
	return platform.WithFormat(ext, f)
}

// WithLenient makes load and save skip files with an unknown extension instead of failing.
func WithLenient(enabled bool) Option {
	return platform.WithLenient(enabled)
}

// WithEventBuffer allows specifying the size of the watch channel.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithWatcherErrorHandler registers a callback for watch loop errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New creates a Service with an empty Storage.
func New(opts ...Option) (*core.Service, error) {
	return platform.New(opts...)
}

// Open creates a Service and loads the data file at path into it.
func Open(ctx context.Context, path string, opts ...Option) (*core.Service, error) {
	return platform.Open(ctx, path, opts...)
}

// NewStorage returns an empty Storage with a default config.
func NewStorage() *core.Storage {
	return core.NewStorage()
}

// --- Utils ---

// FindDataFile looks upwards from startDir for excelcy.yml (or .yaml, .json, .xlsx).
func FindDataFile(startDir string) (string, error) {
	return platform.FindDataFile(startDir)
}
