package trainer

import "context"

// Entity is a labeled span produced by, or fed to, an Engine.
type Entity struct {
	Text  string
	Label string
	Span  Span
}

// Example is one training example: a text and its gold entities.
type Example struct {
	Text     string
	Entities []Entity
}

// Engine is the external NLP model. Tokenization, the entity model and the
// optimization algorithm all live behind it.
type Engine interface {
	// Annotate returns the entities the model recognizes in text.
	Annotate(ctx context.Context, text string) ([]Entity, error)
	// Update runs one optimization step on ex with the given dropout rate.
	Update(ctx context.Context, ex Example, drop float64) error
	// Save persists the model weights to path.
	Save(ctx context.Context, path string) error
	// Load restores model weights (or a named base model) from path.
	Load(ctx context.Context, path string) error
}
