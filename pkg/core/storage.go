package core

import "fmt"

// Storage is the top-level aggregate of a data file.
// Each section is owned by the Storage and replaced wholesale by Parse.
type Storage struct {
	Config  Config
	Source  *Sources
	Prepare *Prepares
	Train   *Trains
}

// NewStorage returns an empty Storage with a default Config.
func NewStorage() *Storage {
	return &Storage{
		Config:  NewConfig(),
		Source:  NewSources(),
		Prepare: NewPrepares(),
		Train:   NewTrains(),
	}
}

// Items implements Serializable.
func (s *Storage) Items() *Mapping {
	return MappingOf(
		"config", s.Config.Items(),
		"source", s.Source.Items(),
		"prepare", s.Prepare.Items(),
		"train", s.Train.Items(),
	)
}

// Parse overwrites the current state with the given payload.
//
// Sections are rebuilt in order (config, source, prepare, train) by replaying
// adds. A missing top-level section is treated as empty and any other
// top-level key is ignored, so documents may carry extra sections. Parse is
// not atomic: when it fails, the sections rebuilt before the failure stay
// replaced.
func (s *Storage) Parse(payload *Mapping) error {
	if payload == nil {
		payload = NewMapping()
	}

	cfgSection, err := section(payload, "config")
	if err != nil {
		return err
	}
	cfg, err := ConfigFromMapping(cfgSection)
	if err != nil {
		return err
	}
	s.Config = cfg

	sources, err := sectionItems(payload, "source")
	if err != nil {
		return err
	}
	s.Source = NewSources()
	for idx, v := range sources.All() {
		path := "source.items." + idx
		entry, err := entryOf(path, v)
		if err != nil {
			return err
		}
		if _, err := s.Source.addMapping(path, entry); err != nil {
			return err
		}
	}

	prepares, err := sectionItems(payload, "prepare")
	if err != nil {
		return err
	}
	s.Prepare = NewPrepares()
	for idx, v := range prepares.All() {
		path := "prepare.items." + idx
		entry, err := entryOf(path, v)
		if err != nil {
			return err
		}
		if _, err := s.Prepare.addMapping(path, entry); err != nil {
			return err
		}
	}

	trains, err := sectionItems(payload, "train")
	if err != nil {
		return err
	}
	s.Train = NewTrains()
	for idx, v := range trains.All() {
		if err := s.parseTrain(idx, v); err != nil {
			return err
		}
	}

	return nil
}

func (s *Storage) parseTrain(idx string, v any) error {
	path := "train.items." + idx
	entry, err := entryOf(path, v)
	if err != nil {
		return err
	}
	r, err := readFields("train", path, entry, "idx", "text", "items")
	if err != nil {
		return err
	}
	text := r.str("text", "")
	if r.err != nil {
		return r.err
	}

	// The entry key, not the idx field, identifies the train.
	train := s.Train.Add(text, idx)

	golds := NewMapping()
	if raw, ok := entry.Get("items"); ok && raw != nil {
		if golds, ok = raw.(*Mapping); !ok {
			return malformed(path+".items", fmt.Sprintf("expected a mapping, got %T", raw))
		}
	}
	for gidx, gv := range golds.All() {
		gpath := path + ".items." + gidx
		gentry, err := entryOf(gpath, gv)
		if err != nil {
			return err
		}
		if _, err := train.addMapping(gpath, gentry); err != nil {
			return err
		}
	}
	return nil
}

// section returns a top-level section, or an empty Mapping when it is absent or null.
func section(payload *Mapping, name string) (*Mapping, error) {
	raw, ok := payload.Get(name)
	if !ok || raw == nil {
		return NewMapping(), nil
	}
	m, ok := raw.(*Mapping)
	if !ok {
		return nil, malformed(name, fmt.Sprintf("expected a mapping, got %T", raw))
	}
	return m, nil
}

// sectionItems returns the "items" mapping of a collection section.
// A present section without "items" is malformed.
func sectionItems(payload *Mapping, name string) (*Mapping, error) {
	if raw, ok := payload.Get(name); !ok || raw == nil {
		return NewMapping(), nil
	}
	sec, err := section(payload, name)
	if err != nil {
		return nil, err
	}
	for k := range sec.All() {
		if k != "items" {
			return nil, &UnknownFieldError{Record: name, Field: k}
		}
	}
	raw, ok := sec.Get("items")
	if !ok {
		return nil, malformed(name, `missing "items"`)
	}
	if raw == nil {
		return NewMapping(), nil
	}
	items, ok := raw.(*Mapping)
	if !ok {
		return nil, malformed(name+".items", fmt.Sprintf("expected a mapping, got %T", raw))
	}
	return items, nil
}

func entryOf(path string, v any) (*Mapping, error) {
	m, ok := v.(*Mapping)
	if !ok {
		return nil, malformed(path, fmt.Sprintf("expected a mapping, got %T", v))
	}
	return m, nil
}
