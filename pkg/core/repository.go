package core

import "context"

// Repository decodes and encodes Storage payloads.
// Adhering to this interface keeps Storage independent of file formats and
// of where the data lives.
type Repository interface {
	// Load reads the file at path and returns its payload.
	// A nil payload with a nil error means the file was skipped (lenient mode).
	Load(ctx context.Context, path string) (*Mapping, error)

	// Save writes payload to path, in the format chosen by the implementation.
	Save(ctx context.Context, path string, payload *Mapping) error
}

// Watchable defines an interface for repositories that can observe a data file.
type Watchable interface {
	// Watch emits an Event every time the file at path changes, until ctx is done.
	Watch(ctx context.Context, path string) (<-chan Event, error)
}
