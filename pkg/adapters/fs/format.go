package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/excelcy/pkg/core"
	"gopkg.in/yaml.v3"
)

// Format defines how to read and write a specific file format.
type Format interface {
	// Decode reads a whole document from r.
	Decode(r io.Reader) (*core.Mapping, error)
	// Encode converts the payload to bytes.
	Encode(payload *core.Mapping) ([]byte, error)
}

// DefaultFormats returns the standard set of format adapters, keyed by extension.
func DefaultFormats() map[string]Format {
	return map[string]Format{
		".yaml": NewYAMLFormat(),
		".yml":  NewYAMLFormat(),
		".json": NewJSONFormat(),
		".xlsx": NewXLSXFormat(),
	}
}

// --- YAML Format ---

// YAMLFormat passes the nested document through unchanged.
type YAMLFormat struct {
	// Indent is the number of spaces used for nesting. Zero means 2.
	Indent int
}

// NewYAMLFormat creates a new YAML format adapter.
func NewYAMLFormat() *YAMLFormat {
	return &YAMLFormat{Indent: 2}
}

func (f *YAMLFormat) Decode(r io.Reader) (*core.Mapping, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	payload := core.NewMapping()
	if err := yaml.Unmarshal(data, payload); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	return payload, nil
}

func (f *YAMLFormat) Encode(payload *core.Mapping) ([]byte, error) {
	indent := f.Indent
	if indent == 0 {
		indent = 2
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(indent)
	if err := encoder.Encode(payload); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// --- JSON Format ---

// JSONFormat handles reading and writing JSON files.
type JSONFormat struct{}

// NewJSONFormat creates a new JSON format adapter.
func NewJSONFormat() *JSONFormat {
	return &JSONFormat{}
}

func (f *JSONFormat) Decode(r io.Reader) (*core.Mapping, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return core.NewMapping(), nil
	}

	payload := core.NewMapping()
	if err := json.Unmarshal(data, payload); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return payload, nil
}

func (f *JSONFormat) Encode(payload *core.Mapping) ([]byte, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
