package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Service binds a Storage to the Repository that loads and saves it.
type Service struct {
	repo    Repository
	storage *Storage
	logger  *slog.Logger
}

// NewService creates a new Service around an empty Storage.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:    repo,
		storage: NewStorage(),
		logger:  logger,
	}
}

// Storage returns the in-memory registry.
func (s *Service) Storage() *Storage {
	return s.storage
}

// Load reads path through the repository and replaces the Storage content.
func (s *Service) Load(ctx context.Context, path string) error {
	if path == "" {
		return errors.New("path cannot be empty")
	}

	payload, err := s.repo.Load(ctx, path)
	if err != nil {
		return err
	}
	if payload == nil {
		s.logger.Debug("load skipped", "path", path)
		return nil
	}

	if err := s.storage.Parse(payload); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	s.logger.Debug("storage loaded",
		"path", path,
		"sources", s.storage.Source.Len(),
		"prepares", s.storage.Prepare.Len(),
		"trains", s.storage.Train.Len(),
	)
	return nil
}

// Parse replaces the Storage content with payload.
func (s *Service) Parse(payload *Mapping) error {
	return s.storage.Parse(payload)
}

// Save writes the Storage content to path through the repository.
func (s *Service) Save(ctx context.Context, path string) error {
	if path == "" {
		return errors.New("path cannot be empty")
	}
	if err := s.repo.Save(ctx, path, s.storage.Items()); err != nil {
		return err
	}
	s.logger.Debug("storage saved", "path", path)
	return nil
}

// Watch observes changes of the data file if the repository supports it.
func (s *Service) Watch(ctx context.Context, path string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	return w.Watch(ctx, path)
}
