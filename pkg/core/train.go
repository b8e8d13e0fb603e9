package core

// Gold is a labeled entity span inside a Train text.
// Idx is compound: "{train idx}.{n}".
type Gold struct {
	Idx     string
	Subtext string
	Span    string
	Entity  string
}

// Items implements Serializable.
func (g *Gold) Items() *Mapping {
	return MappingOf(
		"idx", g.Idx,
		"subtext", optional(g.Subtext),
		"span", optional(g.Span),
		"entity", optional(g.Entity),
	)
}

// Train is a training example: a text and the golds annotated on it.
type Train struct {
	Idx   string
	Text  string
	golds Collection[*Gold]
}

func newTrain(idx, text string) *Train {
	return &Train{Idx: idx, Text: text, golds: newCollection[*Gold]()}
}

// Add attaches a Gold. An empty idx becomes "{train idx}.{n}".
func (t *Train) Add(subtext, span, entity, idx string) *Gold {
	if idx == "" {
		idx = t.golds.nextID(t.Idx + ".")
	}
	item := &Gold{Idx: idx, Subtext: subtext, Span: span, Entity: entity}
	t.golds.put(idx, item)
	return item
}

// Golds returns the golds owned by the train.
func (t *Train) Golds() *Collection[*Gold] {
	return &t.golds
}

// Items implements Serializable.
func (t *Train) Items() *Mapping {
	return MappingOf(
		"idx", t.Idx,
		"text", optional(t.Text),
		"items", t.golds.mapping(),
	)
}

func (t *Train) addMapping(path string, m *Mapping) (*Gold, error) {
	r, err := readFields("gold", path, m, "idx", "subtext", "span", "entity")
	if err != nil {
		return nil, err
	}
	idx, subtext := r.str("idx", ""), r.str("subtext", "")
	span, entity := r.str("span", ""), r.str("entity", "")
	if r.err != nil {
		return nil, r.err
	}
	return t.Add(subtext, span, entity, idx), nil
}

// Trains is the ordered collection of Train records.
type Trains struct {
	Collection[*Train]
}

// NewTrains returns an empty collection.
func NewTrains() *Trains {
	return &Trains{Collection: newCollection[*Train]()}
}

// Add appends a Train. An empty idx is replaced by the next free auto id.
func (t *Trains) Add(text, idx string) *Train {
	if idx == "" {
		idx = t.nextID("")
	}
	item := newTrain(idx, text)
	t.put(idx, item)
	return item
}

// Items implements Serializable.
func (t *Trains) Items() *Mapping {
	return MappingOf("items", t.mapping())
}

// Golds returns the total number of golds across all trains.
func (t *Trains) Golds() int {
	n := 0
	for _, train := range t.All() {
		n += train.golds.Len()
	}
	return n
}
