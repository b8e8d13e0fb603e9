package core

// Prepare is a pre-annotation directive: every match of Value (by Kind)
// in the training texts is labeled as Entity before training.
type Prepare struct {
	Idx    string
	Kind   string
	Value  string
	Entity string
}

// Items implements Serializable.
func (p *Prepare) Items() *Mapping {
	return MappingOf(
		"idx", p.Idx,
		"kind", optional(p.Kind),
		"value", optional(p.Value),
		"entity", optional(p.Entity),
	)
}

// Prepares is the ordered collection of Prepare records.
type Prepares struct {
	Collection[*Prepare]
}

// NewPrepares returns an empty collection.
func NewPrepares() *Prepares {
	return &Prepares{Collection: newCollection[*Prepare]()}
}

// Add appends a Prepare. An empty idx is replaced by the next free auto id.
func (p *Prepares) Add(kind, value, entity, idx string) *Prepare {
	if idx == "" {
		idx = p.nextID("")
	}
	item := &Prepare{Idx: idx, Kind: kind, Value: value, Entity: entity}
	p.put(idx, item)
	return item
}

// Items implements Serializable.
func (p *Prepares) Items() *Mapping {
	return MappingOf("items", p.mapping())
}

func (p *Prepares) addMapping(path string, m *Mapping) (*Prepare, error) {
	r, err := readFields("prepare", path, m, "idx", "kind", "value", "entity")
	if err != nil {
		return nil, err
	}
	idx, kind := r.str("idx", ""), r.str("kind", "")
	value, entity := r.str("value", ""), r.str("entity", "")
	if r.err != nil {
		return nil, r.err
	}
	return p.Add(kind, value, entity, idx), nil
}
