package core

// Config holds the training and runtime parameters of a Storage.
// Empty strings and nil pointers mean "unset".
type Config struct {
	NLPBase        string
	NLPName        string
	SourceLanguage string
	PrepareEnabled bool
	TrainIteration *int
	TrainDrop      *float64
	TrainAutosave  bool
}

var configFields = []string{
	"nlp_base",
	"nlp_name",
	"source_language",
	"prepare_enabled",
	"train_iteration",
	"train_drop",
	"train_autosave",
}

// NewConfig returns a Config with its defaults applied.
func NewConfig() Config {
	return Config{
		SourceLanguage: "en",
		PrepareEnabled: true,
		TrainAutosave:  true,
	}
}

// ConfigFromMapping builds a Config from a payload section.
// Fields absent from m (or null) keep their defaults.
func ConfigFromMapping(m *Mapping) (Config, error) {
	cfg := NewConfig()
	r, err := readFields("config", "config", m, configFields...)
	if err != nil {
		return cfg, err
	}

	cfg.NLPBase = r.str("nlp_base", cfg.NLPBase)
	cfg.NLPName = r.str("nlp_name", cfg.NLPName)
	cfg.SourceLanguage = r.str("source_language", cfg.SourceLanguage)
	cfg.PrepareEnabled = r.boolean("prepare_enabled", cfg.PrepareEnabled)
	cfg.TrainIteration = r.intPtr("train_iteration")
	cfg.TrainDrop = r.floatPtr("train_drop")
	cfg.TrainAutosave = r.boolean("train_autosave", cfg.TrainAutosave)
	if r.err != nil {
		return NewConfig(), r.err
	}
	return cfg, nil
}

// Items implements Serializable.
func (c Config) Items() *Mapping {
	m := NewMapping()
	m.Set("nlp_base", optional(c.NLPBase))
	m.Set("nlp_name", optional(c.NLPName))
	m.Set("source_language", c.SourceLanguage)
	m.Set("prepare_enabled", c.PrepareEnabled)
	if c.TrainIteration != nil {
		m.Set("train_iteration", *c.TrainIteration)
	} else {
		m.Set("train_iteration", nil)
	}
	if c.TrainDrop != nil {
		m.Set("train_drop", *c.TrainDrop)
	} else {
		m.Set("train_drop", nil)
	}
	m.Set("train_autosave", c.TrainAutosave)
	return m
}
