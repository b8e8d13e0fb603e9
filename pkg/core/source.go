package core

// Source is a raw annotation input, e.g. a piece of text or a file to read text from.
type Source struct {
	Idx   string
	Kind  string
	Value string
}

// Items implements Serializable.
func (s *Source) Items() *Mapping {
	return MappingOf(
		"idx", s.Idx,
		"kind", optional(s.Kind),
		"value", optional(s.Value),
	)
}

// Sources is the ordered collection of Source records.
type Sources struct {
	Collection[*Source]
}

// NewSources returns an empty collection.
func NewSources() *Sources {
	return &Sources{Collection: newCollection[*Source]()}
}

// Add appends a Source. An empty idx is replaced by the next free auto id.
func (s *Sources) Add(kind, value, idx string) *Source {
	if idx == "" {
		idx = s.nextID("")
	}
	item := &Source{Idx: idx, Kind: kind, Value: value}
	s.put(idx, item)
	return item
}

// Items implements Serializable.
func (s *Sources) Items() *Mapping {
	return MappingOf("items", s.mapping())
}

func (s *Sources) addMapping(path string, m *Mapping) (*Source, error) {
	r, err := readFields("source", path, m, "idx", "kind", "value")
	if err != nil {
		return nil, err
	}
	idx, kind, value := r.str("idx", ""), r.str("kind", ""), r.str("value", "")
	if r.err != nil {
		return nil, r.err
	}
	return s.Add(kind, value, idx), nil
}
