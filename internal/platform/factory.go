package platform

import (
	"context"
	"log/slog"

	"github.com/aretw0/excelcy/pkg/adapters/fs"
	"github.com/aretw0/excelcy/pkg/core"
)

// Init builds the repository described by the options: the injected one, or
// the filesystem repository.
func Init(opts ...Option) (core.Repository, error) {
	o := parseOptions(opts)

	if o.repository != nil {
		return o.repository, nil
	}
	return initFS(o), nil
}

// New wires a repository and a Service with an empty Storage.
//
//	svc, err := excelcy.New(excelcy.WithLogger(logger))
func New(opts ...Option) (*core.Service, error) {
	repo, err := Init(opts...)
	if err != nil {
		return nil, err
	}
	o := parseOptions(opts)
	return core.NewService(repo, o.logger), nil
}

// Open creates a Service and loads the data file at path.
func Open(ctx context.Context, path string, opts ...Option) (*core.Service, error) {
	svc, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := svc.Load(ctx, path); err != nil {
		return nil, err
	}
	return svc, nil
}

func parseOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// initFS handles the configuration of the filesystem adapter.
func initFS(o *options) *fs.Repository {
	lenient, _ := o.config["lenient"].(bool)
	eventBuffer, _ := o.config["event_buffer"].(int)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	return fs.NewRepository(fs.Config{
		Logger:       o.logger,
		Lenient:      lenient,
		Formats:      o.formats,
		EventBuffer:  eventBuffer,
		ErrorHandler: errorHandler,
	})
}
