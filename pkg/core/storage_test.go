package core_test

import (
	"errors"
	"testing"

	"github.com/aretw0/excelcy/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const minimalYAML = `
config:
  nlp_name: en
source:
  items: {}
prepare:
  items: {}
train:
  items:
    "0":
      idx: "0"
      text: Hello
      items:
        "0.0":
          idx: "0.0"
          subtext: Hello
          span: "0:5"
          entity: GREETING
`

func parseYAML(t *testing.T, doc string) *core.Mapping {
	t.Helper()
	m := core.NewMapping()
	require.NoError(t, yaml.Unmarshal([]byte(doc), m))
	return m
}

func TestStorage_MinimalYAMLRoundTrip(t *testing.T) {
	s := core.NewStorage()
	require.NoError(t, s.Parse(parseYAML(t, minimalYAML)))

	want := core.MappingOf(
		"config", core.MappingOf(
			"nlp_base", nil,
			"nlp_name", "en",
			"source_language", "en",
			"prepare_enabled", true,
			"train_iteration", nil,
			"train_drop", nil,
			"train_autosave", true,
		),
		"source", core.MappingOf("items", core.NewMapping()),
		"prepare", core.MappingOf("items", core.NewMapping()),
		"train", core.MappingOf("items", core.MappingOf(
			"0", core.MappingOf(
				"idx", "0",
				"text", "Hello",
				"items", core.MappingOf(
					"0.0", core.MappingOf(
						"idx", "0.0",
						"subtext", "Hello",
						"span", "0:5",
						"entity", "GREETING",
					),
				),
			),
		)),
	)
	assert.Equal(t, want, s.Items())
}

func TestStorage_RoundTripLaw(t *testing.T) {
	doc := `
config:
  nlp_base: en_core_web_sm
  nlp_name: custom
  train_iteration: 5
  train_drop: 0.25
  train_autosave: false
source:
  items:
    "b":
      idx: b
      kind: text
      value: Angela Merkel is chancellor
    "a":
      kind: file
      value: corpus.txt
prepare:
  items:
    "0":
      idx: "0"
      kind: phrase
      value: Merkel
      entity: PERSON
train:
  items:
    "7":
      text: Angela Merkel is chancellor
      items:
        "7.3":
          idx: "7.3"
          subtext: Angela Merkel
          span: "0:13"
          entity: PERSON
        "x":
          subtext: chancellor
          entity: TITLE
    "1":
      text: Nothing here
`
	s := core.NewStorage()
	require.NoError(t, s.Parse(parseYAML(t, doc)))
	first := s.Items()

	out, err := yaml.Marshal(first)
	require.NoError(t, err)

	again := core.NewStorage()
	require.NoError(t, again.Parse(parseYAML(t, string(out))))
	assert.Equal(t, first, again.Items())

	// Order is preserved, entry keys identify trains.
	assert.Equal(t, []string{"b", "0"}, again.Source.Keys())
	assert.Equal(t, []string{"7", "1"}, again.Train.Keys())

	// A gold without idx gets the next compound id of its train.
	train, ok := again.Train.Get("7")
	require.True(t, ok)
	assert.Equal(t, []string{"7.3", "7.0"}, train.Golds().Keys())
}

func TestStorage_ParseReplacesState(t *testing.T) {
	s := core.NewStorage()
	s.Source.Add("text", "stale", "")
	s.Train.Add("stale", "")
	s.Config.NLPName = "stale"

	require.NoError(t, s.Parse(parseYAML(t, minimalYAML)))
	assert.Equal(t, 0, s.Source.Len())
	assert.Equal(t, 1, s.Train.Len())
	assert.Equal(t, "en", s.Config.NLPName)

	before := s.Items()
	require.NoError(t, s.Parse(parseYAML(t, minimalYAML)))
	assert.Equal(t, before, s.Items(), "parse is idempotent")
}

func TestStorage_ParseMissingSections(t *testing.T) {
	s := core.NewStorage()
	require.NoError(t, s.Parse(core.MappingOf("config", core.MappingOf("nlp_name", "x"))))
	assert.Equal(t, 0, s.Train.Len())

	require.NoError(t, s.Parse(nil))
	assert.Equal(t, core.NewConfig(), s.Config)
}

func TestStorage_ParseIgnoresExtraSections(t *testing.T) {
	doc := `meta:
  author: someone
config:
  nlp_name: model
train:
  items:
    "0":
      text: Apple is a company
      items: {}
`
	s := core.NewStorage()
	require.NoError(t, s.Parse(parseYAML(t, doc)))
	assert.Equal(t, "model", s.Config.NLPName)
	assert.Equal(t, 1, s.Train.Len())
	assert.Equal(t, []string{"config", "source", "prepare", "train"}, s.Items().Keys())
}

func TestStorage_ParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		target  error
		errPath string
	}{
		{
			name:   "Section without items",
			doc:    "source:\n  entries: {}\n",
			target: core.ErrUnknownField,
		},
		{
			name:    "Section is empty mapping",
			doc:     "train: {}\n",
			target:  core.ErrMalformedPayload,
			errPath: "train",
		},
		{
			name:    "Section is a scalar",
			doc:     "prepare: 3\n",
			target:  core.ErrMalformedPayload,
			errPath: "prepare",
		},
		{
			name:    "Entry is a scalar",
			doc:     "source:\n  items:\n    \"0\": nope\n",
			target:  core.ErrMalformedPayload,
			errPath: "source.items.0",
		},
		{
			name:    "Gold items is a list",
			doc:     "train:\n  items:\n    \"0\":\n      text: hi\n      items: [1, 2]\n",
			target:  core.ErrMalformedPayload,
			errPath: "train.items.0.items",
		},
		{
			name:   "Unknown gold field",
			doc:    "train:\n  items:\n    \"0\":\n      text: hi\n      items:\n        \"0.0\":\n          label: X\n",
			target: core.ErrUnknownField,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := core.NewStorage()
			err := s.Parse(parseYAML(t, tc.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.target), "got %v", err)

			if tc.errPath != "" {
				var payloadErr *core.MalformedPayloadError
				require.True(t, errors.As(err, &payloadErr))
				assert.Equal(t, tc.errPath, payloadErr.Path)
			}
		})
	}
}

func TestStorage_ParseIsNotAtomic(t *testing.T) {
	s := core.NewStorage()
	s.Train.Add("kept until train is rebuilt", "")

	doc := "config:\n  nlp_name: partial\nsource:\n  items:\n    \"0\":\n      kind: text\nprepare: broken\n"
	err := s.Parse(parseYAML(t, doc))
	require.Error(t, err)

	// Sections before the failure are already replaced, later ones are untouched.
	assert.Equal(t, "partial", s.Config.NLPName)
	assert.Equal(t, 1, s.Source.Len())
	assert.Equal(t, 1, s.Train.Len())
}

func TestStorage_State(t *testing.T) {
	s := core.NewStorage()
	require.NoError(t, s.Parse(parseYAML(t, minimalYAML)))

	state, ok := s.State().(core.StorageState)
	require.True(t, ok)
	assert.Equal(t, core.StorageState{Model: "en", Language: "en", Trains: 1, Golds: 1}, state)
	assert.Equal(t, "storage", s.ComponentType())
}
