package core

import (
	"iter"
	"slices"
	"strconv"

	"github.com/spf13/cast"
)

// Serializable is implemented by every record and collection.
// Items walks the fields in declaration order and returns the nested payload.
type Serializable interface {
	Items() *Mapping
}

// Collection is an ordered, id-keyed set of records.
//
// Auto-assigned ids come from a per-collection counter starting at zero.
// Candidates already in use are skipped, so an auto id never replaces an
// existing entry and ids freed by Remove are not handed out again.
type Collection[T Serializable] struct {
	keys  []string
	items map[string]T
	next  int
}

func newCollection[T Serializable]() Collection[T] {
	return Collection[T]{items: make(map[string]T)}
}

// Get returns the record stored under idx.
func (c *Collection[T]) Get(idx string) (T, bool) {
	item, ok := c.items[idx]
	return item, ok
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	return len(c.keys)
}

// Keys returns the ids in insertion order.
func (c *Collection[T]) Keys() []string {
	return slices.Clone(c.keys)
}

// All iterates over the records in insertion order.
func (c *Collection[T]) All() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for _, k := range c.keys {
			if !yield(k, c.items[k]) {
				return
			}
		}
	}
}

// Remove deletes the record stored under idx and reports whether it existed.
func (c *Collection[T]) Remove(idx string) bool {
	if _, ok := c.items[idx]; !ok {
		return false
	}
	delete(c.items, idx)
	c.keys = slices.DeleteFunc(c.keys, func(k string) bool { return k == idx })
	return true
}

// put stores item under idx. An existing idx keeps its position.
func (c *Collection[T]) put(idx string, item T) {
	if _, ok := c.items[idx]; !ok {
		c.keys = append(c.keys, idx)
	}
	c.items[idx] = item
}

func (c *Collection[T]) nextID(prefix string) string {
	for {
		id := prefix + strconv.Itoa(c.next)
		c.next++
		if _, taken := c.items[id]; !taken {
			return id
		}
	}
}

func (c *Collection[T]) mapping() *Mapping {
	m := NewMapping()
	for k, item := range c.All() {
		m.Set(k, item.Items())
	}
	return m
}

// optional maps the empty string to nil so unset text fields serialize as null.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// fieldReader builds a record from a payload section.
// The first coercion failure is kept and reported by err.
type fieldReader struct {
	path string
	m    *Mapping
	err  error
}

// readFields rejects any key of m that is not declared.
func readFields(record, path string, m *Mapping, declared ...string) (*fieldReader, error) {
	for k := range m.All() {
		if !slices.Contains(declared, k) {
			return nil, &UnknownFieldError{Record: record, Field: k}
		}
	}
	return &fieldReader{path: path, m: m}, nil
}

// value returns the raw value, treating null and blank cells as absent.
func (r *fieldReader) value(name string) (any, bool) {
	v, ok := r.m.Get(name)
	if !ok || v == nil {
		return nil, false
	}
	if s, isStr := v.(string); isStr && s == "" {
		return nil, false
	}
	return v, true
}

func (r *fieldReader) fail(name string, err error) {
	if r.err == nil {
		r.err = &MalformedPayloadError{Path: r.path + "." + name, Reason: "invalid value", Err: err}
	}
}

func (r *fieldReader) str(name, def string) string {
	v, ok := r.value(name)
	if !ok {
		return def
	}
	if _, nested := v.(*Mapping); nested {
		r.fail(name, ErrMalformedPayload)
		return def
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		r.fail(name, err)
		return def
	}
	return s
}

func (r *fieldReader) boolean(name string, def bool) bool {
	v, ok := r.value(name)
	if !ok {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		r.fail(name, err)
		return def
	}
	return b
}

func (r *fieldReader) intPtr(name string) *int {
	v, ok := r.value(name)
	if !ok {
		return nil
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		r.fail(name, err)
		return nil
	}
	return &i
}

func (r *fieldReader) floatPtr(name string) *float64 {
	v, ok := r.value(name)
	if !ok {
		return nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		r.fail(name, err)
		return nil
	}
	return &f
}
