package core

import (
	"github.com/aretw0/introspection"
)

// StorageState exposes the size of each Storage section.
type StorageState struct {
	Model    string `json:"model,omitempty"`
	Language string `json:"language"`
	Sources  int    `json:"sources"`
	Prepares int    `json:"prepares"`
	Trains   int    `json:"trains"`
	Golds    int    `json:"golds"`
}

// State implements introspection.Introspectable.
func (s *Storage) State() any {
	return StorageState{
		Model:    s.Config.NLPName,
		Language: s.Config.SourceLanguage,
		Sources:  s.Source.Len(),
		Prepares: s.Prepare.Len(),
		Trains:   s.Train.Len(),
		Golds:    s.Train.Golds(),
	}
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "storage"
}

// ServiceState exposes internal state for observability.
type ServiceState struct {
	RepositoryType string       `json:"repository_type"`
	Storage        StorageState `json:"storage"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	repoType := "unknown"
	if s.repo != nil {
		repoType = "repository"
		if comp, ok := s.repo.(introspection.Component); ok {
			repoType = comp.ComponentType()
		}
	}

	return ServiceState{
		RepositoryType: repoType,
		Storage:        s.storage.State().(StorageState),
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Storage)(nil)
var _ introspection.Component = (*Storage)(nil)
var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
