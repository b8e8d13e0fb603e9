package fs

import (
	"bytes"
	"errors"
	"testing"

	"github.com/aretw0/excelcy/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// workbook builds an xlsx document with one sheet per entry.
// The first row of each sheet is the header.
func workbook(t *testing.T, sheets map[string][][]any) []byte {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close()

	for name, rows := range sheets {
		_, err := wb.NewSheet(name)
		require.NoError(t, err)
		for i, row := range rows {
			axis, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, wb.SetSheetRow(name, axis, &row))
		}
	}

	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestXLSXFormat_TrainSheet(t *testing.T) {
	data := workbook(t, map[string][][]any{
		SheetTrain: {
			{"idx", "text", "subtext", "span", "entity"},
			{"0", "Barack Obama was president"},
			{"0.0", nil, "Barack Obama", "0:12", "PERSON"},
		},
	})

	payload, err := NewXLSXFormat().Decode(bytes.NewReader(data))
	require.NoError(t, err)

	s := core.NewStorage()
	require.NoError(t, s.Parse(payload))

	train, ok := s.Train.Get("0")
	require.True(t, ok)
	assert.Equal(t, "Barack Obama was president", train.Text)
	require.Equal(t, 1, train.Golds().Len())

	gold, ok := train.Golds().Get("0.0")
	require.True(t, ok)
	assert.Equal(t, "PERSON", gold.Entity)
	assert.Equal(t, "Barack Obama", gold.Subtext)
	assert.Equal(t, "0:12", gold.Span)
}

func TestXLSXFormat_GoldBeforeTrain(t *testing.T) {
	data := workbook(t, map[string][][]any{
		SheetTrain: {
			{"idx", "text", "subtext", "span", "entity"},
			{"1.0", nil, "Paris", "0:5", "GPE"},
			{"0", "first"},
			{"1", "Paris in spring"},
			{"1.1", nil, "spring", "9:15", "SEASON"},
		},
	})

	payload, err := NewXLSXFormat().Decode(bytes.NewReader(data))
	require.NoError(t, err)

	s := core.NewStorage()
	require.NoError(t, s.Parse(payload))
	assert.Equal(t, []string{"0", "1"}, s.Train.Keys())

	train, _ := s.Train.Get("1")
	assert.Equal(t, []string{"1.0", "1.1"}, train.Golds().Keys())
}

func TestXLSXFormat_OrphanGold(t *testing.T) {
	data := workbook(t, map[string][][]any{
		SheetTrain: {
			{"idx", "text", "subtext", "span", "entity"},
			{"3.0", nil, "orphan", "0:6", "X"},
		},
	})

	_, err := NewXLSXFormat().Decode(bytes.NewReader(data))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMalformedPayload))
}

func TestXLSXFormat_ConfigSourcePrepare(t *testing.T) {
	data := workbook(t, map[string][][]any{
		SheetConfig: {
			{"name", "value"},
			{"nlp_name", "people"},
			{"train_iteration", 3},
			{"prepare_enabled", false},
			{},
			{"train_drop", 0.5},
		},
		SheetSource: {
			{"idx", "kind", "value"},
			{"s1", "text", "Angela Merkel"},
			{nil, "text", "auto id"},
		},
		SheetPrepare: {
			{"Idx", "Kind", "Value", "Entity"},
			{"0", "phrase", "Merkel", "PERSON"},
		},
	})

	payload, err := NewXLSXFormat().Decode(bytes.NewReader(data))
	require.NoError(t, err)

	s := core.NewStorage()
	require.NoError(t, s.Parse(payload))

	assert.Equal(t, "people", s.Config.NLPName)
	require.NotNil(t, s.Config.TrainIteration)
	assert.Equal(t, 3, *s.Config.TrainIteration)
	require.NotNil(t, s.Config.TrainDrop)
	assert.Equal(t, 0.5, *s.Config.TrainDrop)
	assert.False(t, s.Config.PrepareEnabled)

	assert.Equal(t, []string{"s1", "0"}, s.Source.Keys())
	p, ok := s.Prepare.Get("0")
	require.True(t, ok)
	assert.Equal(t, "Merkel", p.Value)
	assert.Equal(t, "PERSON", p.Entity)
}

func TestXLSXFormat_UnknownColumn(t *testing.T) {
	data := workbook(t, map[string][][]any{
		SheetSource: {
			{"idx", "kind", "value", "colour"},
			{"0", "text", "hello", "red"},
		},
	})

	payload, err := NewXLSXFormat().Decode(bytes.NewReader(data))
	require.NoError(t, err)

	err = core.NewStorage().Parse(payload)
	assert.True(t, errors.Is(err, core.ErrUnknownField))
}

func TestXLSXFormat_EncodeLayout(t *testing.T) {
	data, err := NewXLSXFormat().Encode(sampleStorage().Items())
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{SheetConfig, SheetSource, SheetPrepare, SheetTrain}, wb.GetSheetList())

	rows, err := wb.GetRows(SheetTrain)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, trainColumns, rows[0])
	assert.Equal(t, []string{"0", "Barack Obama was president"}, rows[1])
	assert.Equal(t, []string{"0.0", "", "Barack Obama", "0:12", "PERSON"}, rows[2])
	assert.Equal(t, []string{"1", "No entities here"}, rows[4])
}

func TestXLSXFormat_EncodeRejectsUnnestableIds(t *testing.T) {
	t.Run("Gold idx without train prefix", func(t *testing.T) {
		s := core.NewStorage()
		s.Train.Add("Apple is a company", "7").Add("Apple", "0:5", "ORG", "x")

		_, err := NewXLSXFormat().Encode(s.Items())
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrMalformedPayload))

		var mErr *core.MalformedPayloadError
		require.True(t, errors.As(err, &mErr))
		assert.Equal(t, "train.items.7.items.x", mErr.Path)
	})

	t.Run("Gold idx of another train", func(t *testing.T) {
		s := core.NewStorage()
		s.Train.Add("Apple is a company", "1").Add("Apple", "0:5", "ORG", "10.0")

		_, err := NewXLSXFormat().Encode(s.Items())
		assert.True(t, errors.Is(err, core.ErrMalformedPayload))
	})

	t.Run("Dotted train idx", func(t *testing.T) {
		s := core.NewStorage()
		s.Train.Add("Apple is a company", "1.5")

		_, err := NewXLSXFormat().Encode(s.Items())
		require.Error(t, err)

		var mErr *core.MalformedPayloadError
		require.True(t, errors.As(err, &mErr))
		assert.Equal(t, "train.items.1.5", mErr.Path)
	})

	t.Run("Compound ids round-trip", func(t *testing.T) {
		s := core.NewStorage()
		train := s.Train.Add("Apple is a company", "7")
		train.Add("Apple", "0:5", "ORG", "")
		train.Add("company", "11:18", "THING", "7.x")

		data, err := NewXLSXFormat().Encode(s.Items())
		require.NoError(t, err)
		payload, err := NewXLSXFormat().Decode(bytes.NewReader(data))
		require.NoError(t, err)

		loaded := core.NewStorage()
		require.NoError(t, loaded.Parse(payload))
		assert.Equal(t, s.Items(), loaded.Items())
	})
}

func TestXLSXFormat_NumericGoldIdx(t *testing.T) {
	// 0.0 typed as a number is read back as "0", colliding with the train row.
	data := workbook(t, map[string][][]any{
		SheetTrain: {
			{"idx", "text", "subtext", "span", "entity"},
			{"0", "Barack Obama was president"},
			{0.0, nil, "Barack Obama", "0:12", "PERSON"},
		},
	})

	_, err := NewXLSXFormat().Decode(bytes.NewReader(data))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMalformedPayload))
}
