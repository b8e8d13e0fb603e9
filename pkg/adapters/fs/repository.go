package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/excelcy/pkg/core"
)

// Repository implements core.Repository on the local filesystem.
// The format of a file is chosen from its extension.
type Repository struct {
	config  Config
	formats map[string]Format

	mu            sync.RWMutex
	watcherActive bool
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Logger *slog.Logger
	// Lenient skips files whose extension has no format (with a warning)
	// instead of returning core.ErrUnsupportedFormat.
	Lenient bool
	// Formats adds or overrides format adapters, keyed by extension (".yml").
	Formats map[string]Format
	// EventBuffer is the size of the watch channel. Zero means 16.
	EventBuffer int
	// ErrorHandler receives watcher errors that are otherwise only logged.
	ErrorHandler func(error)
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	formats := DefaultFormats()
	for ext, f := range config.Formats {
		formats[normalizeExt(ext)] = f
	}

	return &Repository{
		config:  config,
		formats: formats,
	}
}

// Formats returns the registered extensions, sorted.
func (r *Repository) Formats() []string {
	exts := make([]string, 0, len(r.formats))
	for ext := range r.formats {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// format resolves the adapter for path.
// With Lenient, an unknown extension yields a nil Format and no error.
func (r *Repository) format(path string) (Format, error) {
	ext := normalizeExt(filepath.Ext(path))
	if f, ok := r.formats[ext]; ok {
		return f, nil
	}
	if r.config.Lenient {
		r.config.Logger.Warn("no format for extension, skipping", "path", path, "ext", ext)
		return nil, nil
	}
	return nil, &core.UnsupportedFormatError{Path: path, Ext: ext}
}

// Load reads and decodes the file at path.
func (r *Repository) Load(ctx context.Context, path string) (*core.Mapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := r.format(path)
	if err != nil || f == nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	payload, err := f.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return payload, nil
}

// Save encodes payload and writes it atomically to path, creating parent directories.
func (r *Repository) Save(ctx context.Context, path string, payload *core.Mapping) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := r.format(path)
	if err != nil || f == nil {
		return err
	}

	data, err := f.Encode(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	if err := writeFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
