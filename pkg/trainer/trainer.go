// Package trainer turns a core.Storage into training runs of an external NLP Engine.
//
// The pipeline is: Ingest (sources become trains), ApplyPrepares (directives
// pre-annotate golds), Train (iterations of Engine.Update) and Evaluate
// (compare Engine.Annotate with the golds).
package trainer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aretw0/excelcy/pkg/core"
)

var (
	ErrUnknownSourceKind  = errors.New("unknown source kind")
	ErrUnknownPrepareKind = errors.New("unknown prepare kind")
	ErrMissingConfig      = errors.New("missing config")
)

// Source and prepare kinds understood by the trainer.
const (
	SourceText    = "text"
	SourceFile    = "file"
	PreparePhrase = "phrase"
	PrepareRegex  = "regex"
)

// DefaultDrop is used when the config leaves train_drop unset.
const DefaultDrop = 0.2

// Trainer drives an Engine with the content of a Storage.
type Trainer struct {
	storage *core.Storage
	engine  Engine
	logger  *slog.Logger
	baseDir string
}

// Option defines a functional option for configuring a Trainer.
type Option func(*Trainer)

// WithLogger sets the logger for the trainer.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Trainer) {
		t.logger = logger
	}
}

// WithBaseDir sets the directory file sources and the saved model are relative to.
// It is usually the directory of the data file.
func WithBaseDir(dir string) Option {
	return func(t *Trainer) {
		t.baseDir = dir
	}
}

// New creates a Trainer. engine may be nil when only Ingest/ApplyPrepares are used.
func New(storage *core.Storage, engine Engine, opts ...Option) *Trainer {
	t := &Trainer{
		storage: storage,
		engine:  engine,
		logger:  slog.Default(),
		baseDir: ".",
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Ingest turns every source into trains and returns how many were added.
// Texts already present in the storage are not added twice.
func (t *Trainer) Ingest(ctx context.Context) (int, error) {
	known := make(map[string]bool)
	for _, train := range t.storage.Train.All() {
		known[train.Text] = true
	}

	added := 0
	add := func(text string) {
		if text == "" || known[text] {
			return
		}
		known[text] = true
		t.storage.Train.Add(text, "")
		added++
	}

	for idx, src := range t.storage.Source.All() {
		if err := ctx.Err(); err != nil {
			return added, err
		}
		switch src.Kind {
		case SourceText:
			add(src.Value)
		case SourceFile:
			path := src.Value
			if !filepath.IsAbs(path) {
				path = filepath.Join(t.baseDir, path)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return added, fmt.Errorf("source %s: %w", idx, err)
			}
			for line := range strings.Lines(string(data)) {
				add(strings.TrimSpace(line))
			}
		default:
			return added, fmt.Errorf("source %s: %w: %q", idx, ErrUnknownSourceKind, src.Kind)
		}
	}

	t.logger.Debug("sources ingested", "sources", t.storage.Source.Len(), "trains_added", added)
	return added, nil
}

// ApplyPrepares labels every match of each prepare directive in every train
// text and returns how many golds were added. A match whose span is already
// annotated is skipped. Nothing happens when prepare_enabled is false.
func (t *Trainer) ApplyPrepares(ctx context.Context) (int, error) {
	if !t.storage.Config.PrepareEnabled {
		t.logger.Debug("prepare disabled, skipping")
		return 0, nil
	}

	added := 0
	for idx, prep := range t.storage.Prepare.All() {
		find, err := matcher(prep)
		if err != nil {
			return added, fmt.Errorf("prepare %s: %w", idx, err)
		}

		for _, train := range t.storage.Train.All() {
			if err := ctx.Err(); err != nil {
				return added, err
			}
			taken := make(map[string]bool)
			for _, g := range train.Golds().All() {
				taken[g.Span] = true
			}
			for _, span := range find(train.Text) {
				key := span.String()
				if taken[key] {
					continue
				}
				subtext, err := span.Slice(train.Text)
				if err != nil {
					return added, err
				}
				taken[key] = true
				train.Add(subtext, key, prep.Entity, "")
				added++
			}
		}
	}

	t.logger.Debug("prepares applied", "prepares", t.storage.Prepare.Len(), "golds_added", added)
	return added, nil
}

func matcher(p *core.Prepare) (func(text string) []Span, error) {
	switch p.Kind {
	case PreparePhrase:
		return func(text string) []Span { return FindSpans(text, p.Value) }, nil
	case PrepareRegex:
		re, err := regexp.Compile(p.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid regex %q: %w", p.Value, err)
		}
		return func(text string) []Span {
			var spans []Span
			for _, loc := range re.FindAllStringIndex(text, -1) {
				if loc[1] > loc[0] {
					spans = append(spans, byteSpan(text, loc[0], loc[1]))
				}
			}
			return spans
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPrepareKind, p.Kind)
	}
}

// Examples converts the trains into engine examples.
// A gold without span is located at the first occurrence of its subtext.
func (t *Trainer) Examples() ([]Example, error) {
	examples := make([]Example, 0, t.storage.Train.Len())
	for _, train := range t.storage.Train.All() {
		ex := Example{Text: train.Text}
		for gidx, g := range train.Golds().All() {
			span, text, err := t.locate(train.Text, g)
			if err != nil {
				return nil, fmt.Errorf("gold %s: %w", gidx, err)
			}
			if g.Subtext != "" && text != g.Subtext {
				t.logger.Warn("gold subtext does not match its span",
					"gold", gidx, "subtext", g.Subtext, "span_text", text)
			}
			ex.Entities = append(ex.Entities, Entity{Text: text, Label: g.Entity, Span: span})
		}
		examples = append(examples, ex)
	}
	return examples, nil
}

// locate returns the span of g in text and the text it covers.
func (t *Trainer) locate(text string, g *core.Gold) (Span, string, error) {
	span, err := t.resolveSpan(text, g)
	if err != nil {
		return Span{}, "", err
	}
	sub, err := span.Slice(text)
	if err != nil {
		return Span{}, "", err
	}
	return span, sub, nil
}

func (t *Trainer) resolveSpan(text string, g *core.Gold) (Span, error) {
	if g.Span != "" {
		return ParseSpan(g.Span)
	}
	spans := FindSpans(text, g.Subtext)
	if len(spans) == 0 {
		return Span{}, fmt.Errorf("%w: subtext %q not found in text", ErrInvalidSpan, g.Subtext)
	}
	return spans[0], nil
}

// ModelPath is where the trained model is saved: nlp_name under the base directory.
func (t *Trainer) ModelPath() string {
	return filepath.Join(t.baseDir, t.storage.Config.NLPName)
}

// Train runs train_iteration passes of Engine.Update over every example,
// starting from nlp_base when set, and saves the model when train_autosave is on.
func (t *Trainer) Train(ctx context.Context) error {
	if t.engine == nil {
		return errors.New("trainer has no engine")
	}
	cfg := t.storage.Config
	if cfg.NLPName == "" {
		return fmt.Errorf("%w: nlp_name", ErrMissingConfig)
	}
	if cfg.TrainIteration == nil || *cfg.TrainIteration <= 0 {
		return fmt.Errorf("%w: train_iteration must be positive", ErrMissingConfig)
	}
	drop := DefaultDrop
	if cfg.TrainDrop != nil {
		drop = *cfg.TrainDrop
	}

	examples, err := t.Examples()
	if err != nil {
		return err
	}

	if cfg.NLPBase != "" {
		if err := t.engine.Load(ctx, cfg.NLPBase); err != nil {
			return fmt.Errorf("failed to load base model %s: %w", cfg.NLPBase, err)
		}
	}

	for i := 0; i < *cfg.TrainIteration; i++ {
		for _, ex := range examples {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := t.engine.Update(ctx, ex, drop); err != nil {
				return fmt.Errorf("iteration %d: %w", i, err)
			}
		}
		t.logger.Debug("iteration done", "iteration", i+1, "examples", len(examples))
	}

	if cfg.TrainAutosave {
		path := t.ModelPath()
		if err := t.engine.Save(ctx, path); err != nil {
			return fmt.Errorf("failed to save model to %s: %w", path, err)
		}
		t.logger.Info("model saved", "path", path)
	}
	return nil
}

// Miss is a gold the engine did not reproduce.
type Miss struct {
	Train   string
	Gold    string
	Subtext string
	Entity  string
}

// Report is the outcome of Evaluate.
type Report struct {
	Golds  int
	Missed []Miss
}

// Evaluate annotates every train text and reports the golds the engine missed.
// A gold counts as found when the engine returns its label on the text its
// span covers, so golds given only by span are matched too.
func (t *Trainer) Evaluate(ctx context.Context) (Report, error) {
	var report Report
	if t.engine == nil {
		return report, errors.New("trainer has no engine")
	}

	for tidx, train := range t.storage.Train.All() {
		ents, err := t.engine.Annotate(ctx, train.Text)
		if err != nil {
			return report, fmt.Errorf("train %s: %w", tidx, err)
		}
		found := make(map[[2]string]bool, len(ents))
		for _, e := range ents {
			found[[2]string{e.Text, e.Label}] = true
		}

		for gidx, g := range train.Golds().All() {
			_, sub, err := t.locate(train.Text, g)
			if err != nil {
				return report, fmt.Errorf("gold %s: %w", gidx, err)
			}
			report.Golds++
			if !found[[2]string{sub, g.Entity}] {
				report.Missed = append(report.Missed, Miss{
					Train: tidx, Gold: gidx, Subtext: sub, Entity: g.Entity,
				})
			}
		}
	}
	return report, nil
}
