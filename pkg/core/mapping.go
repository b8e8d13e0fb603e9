package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"slices"

	"gopkg.in/yaml.v3"
)

// Mapping is an insertion-ordered string-keyed map.
// It is the payload exchanged between format adapters and Storage.
//
// Values are scalars (string, int, float64, bool, nil), []any or nested *Mapping.
// Setting an existing key keeps its original position.
type Mapping struct {
	keys   []string
	values map[string]any
}

// NewMapping returns an empty Mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]any)}
}

// MappingOf builds a Mapping from alternating key/value arguments.
// It panics if a key is not a string or a value is missing.
func MappingOf(pairs ...any) *Mapping {
	if len(pairs)%2 != 0 {
		panic("core.MappingOf: odd number of arguments")
	}
	m := NewMapping()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("core.MappingOf: key %v is not a string", pairs[i]))
		}
		m.Set(key, pairs[i+1])
	}
	return m
}

// Set stores v under key.
func (m *Mapping) Set(key string, v any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Delete removes key, keeping the order of the remaining keys.
func (m *Mapping) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
}

// Len returns the number of keys.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// All iterates over key/value pairs in insertion order.
func (m *Mapping) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// --- YAML ---

// MarshalYAML implements yaml.Marshaler, emitting keys in insertion order.
func (m *Mapping) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for k, v := range m.All() {
		var val yaml.Node
		if err := val.Encode(v); err != nil {
			return nil, fmt.Errorf("failed to encode key %q: %w", k, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&val,
		)
	}
	return node, nil
}

// UnmarshalYAML implements yaml.Unmarshaler, preserving document key order.
func (m *Mapping) UnmarshalYAML(node *yaml.Node) error {
	for node.Kind == yaml.DocumentNode || node.Kind == yaml.AliasNode {
		if node.Kind == yaml.AliasNode {
			node = node.Alias
			continue
		}
		if len(node.Content) == 0 {
			*m = *NewMapping()
			return nil
		}
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping, got %s", node.Line, node.ShortTag())
	}

	*m = *NewMapping()
	for i := 0; i+1 < len(node.Content); i += 2 {
		val, err := decodeYAMLNode(node.Content[i+1])
		if err != nil {
			return err
		}
		m.Set(node.Content[i].Value, val)
	}
	return nil
}

func decodeYAMLNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return decodeYAMLNode(node.Alias)
	case yaml.MappingNode:
		nested := NewMapping()
		if err := nested.UnmarshalYAML(node); err != nil {
			return nil, err
		}
		return nested, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			v, err := decodeYAMLNode(item)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	default:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return v, nil
	}
}

// --- JSON ---

// MarshalJSON implements json.Marshaler, emitting keys in insertion order.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	for k, v := range m.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode key %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, preserving object key order.
// Integral numbers decode to int, other numbers to float64.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected a json object, got %v", tok)
	}

	*m = *NewMapping()
	return m.decodeJSONObject(dec)
}

func (m *Mapping) decodeJSONObject(dec *json.Decoder) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		val, err := decodeJSONValue(dec)
		if err != nil {
			return err
		}
		m.Set(key, val)
	}
	// closing '}'
	_, err := dec.Token()
	return err
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			nested := NewMapping()
			if err := nested.decodeJSONObject(dec); err != nil {
				return nil, err
			}
			return nested, nil
		case '[':
			list := []any{}
			for dec.More() {
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				list = append(list, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return list, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i), nil
		}
		return t.Float64()
	default:
		// string, bool or nil
		return t, nil
	}
}
