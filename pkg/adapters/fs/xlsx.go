package fs

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/excelcy/pkg/core"
	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// Sheet names and column layouts of the workbook format.
const (
	SheetConfig  = "config"
	SheetSource  = "source"
	SheetPrepare = "prepare"
	SheetTrain   = "train"
)

var (
	configColumns  = []string{"name", "value"}
	sourceColumns  = []string{"idx", "kind", "value"}
	prepareColumns = []string{"idx", "kind", "value", "entity"}
	trainColumns   = []string{"idx", "text", "subtext", "span", "entity"}
	goldColumns    = []string{"idx", "subtext", "span", "entity"}
)

// XLSXFormat converts a workbook into the nested document layout.
//
// Each section lives in its own sheet; the first row holds the column names.
// The train sheet mixes two kinds of rows: "N" is a train (idx, text) and
// "N.M" is a gold (idx, subtext, span, entity) of train N.
type XLSXFormat struct{}

// NewXLSXFormat creates a new workbook format adapter.
func NewXLSXFormat() *XLSXFormat {
	return &XLSXFormat{}
}

func (f *XLSXFormat) Decode(r io.Reader) (*core.Mapping, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid xlsx: %w", err)
	}
	defer wb.Close()

	payload := core.NewMapping()

	configRows, err := readSheet(wb, SheetConfig)
	if err != nil {
		return nil, err
	}
	config := core.NewMapping()
	for _, row := range configRows {
		name, _ := row.Get("name")
		value, _ := row.Get("value")
		if key, _ := name.(string); key != "" {
			config.Set(key, value)
		}
	}
	payload.Set("config", config)

	for _, sheet := range []string{SheetSource, SheetPrepare} {
		rows, err := readSheet(wb, sheet)
		if err != nil {
			return nil, err
		}
		items := core.NewMapping()
		for i, row := range rows {
			key := rowIdx(row)
			if key == "" {
				// idx is left blank so the collection assigns one.
				key = "row" + strconv.Itoa(i+2)
			}
			items.Set(key, row)
		}
		payload.Set(sheet, core.MappingOf("items", items))
	}

	trainRows, err := readSheet(wb, SheetTrain)
	if err != nil {
		return nil, err
	}
	trains, err := nestTrainRows(trainRows)
	if err != nil {
		return nil, err
	}
	payload.Set("train", core.MappingOf("items", trains))

	return payload, nil
}

// nestTrainRows routes each row of the train sheet to its nesting level.
// A gold row may precede its train row; it is attached once the pass is done.
func nestTrainRows(rows []*core.Mapping) (*core.Mapping, error) {
	trains := core.NewMapping()
	var pending []*core.Mapping

	for i, row := range rows {
		idx := rowIdx(row)
		if idx == "" {
			return nil, &core.MalformedPayloadError{
				Path:   SheetTrain,
				Reason: fmt.Sprintf("row %d has no idx", i+2),
			}
		}
		if _, _, isGold := strings.Cut(idx, "."); isGold {
			pending = append(pending, row)
			continue
		}
		if _, dup := trains.Get(idx); dup {
			// A gold id typed as a number ("0.0") reads back as "0".
			return nil, &core.MalformedPayloadError{
				Path:   "train.items." + idx,
				Reason: fmt.Sprintf("row %d repeats train %s", i+2, idx),
			}
		}
		trains.Set(idx, core.MappingOf(
			"idx", idx,
			"text", cell(row, "text"),
			"items", core.NewMapping(),
		))
	}

	for _, row := range pending {
		idx := rowIdx(row)
		trainIdx, _, _ := strings.Cut(idx, ".")
		raw, ok := trains.Get(trainIdx)
		if !ok {
			return nil, &core.MalformedPayloadError{
				Path:   "train.items." + trainIdx,
				Reason: fmt.Sprintf("gold %s has no train row", idx),
			}
		}
		golds, _ := raw.(*core.Mapping).Get("items")
		gold := core.NewMapping()
		for _, col := range goldColumns {
			gold.Set(col, cell(row, col))
		}
		golds.(*core.Mapping).Set(idx, gold)
	}

	return trains, nil
}

// readSheet returns the data rows of a sheet keyed by the header row.
// A missing sheet yields no rows; blank rows are skipped.
func readSheet(wb *excelize.File, sheet string) ([]*core.Mapping, error) {
	if idx, err := wb.GetSheetIndex(sheet); err != nil || idx == -1 {
		return nil, nil
	}
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var out []*core.Mapping
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		m := core.NewMapping()
		for i, h := range header {
			if h == "" {
				continue
			}
			val := ""
			if i < len(row) {
				val = strings.TrimSpace(row[i])
			}
			m.Set(h, val)
		}
		out = append(out, m)
	}
	return out, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func rowIdx(row *core.Mapping) string {
	return cell(row, "idx")
}

func cell(row *core.Mapping, col string) string {
	v, _ := row.Get(col)
	s, _ := v.(string)
	return s
}

// Encode writes one sheet per section using the same layout Decode reads.
// Train and gold rows share the idx column, so a train idx must not contain
// "." and every gold idx must start with "{train idx}.".
func (f *XLSXFormat) Encode(payload *core.Mapping) ([]byte, error) {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName("Sheet1", SheetConfig); err != nil {
		return nil, err
	}
	for _, sheet := range []string{SheetSource, SheetPrepare, SheetTrain} {
		if _, err := wb.NewSheet(sheet); err != nil {
			return nil, err
		}
	}

	w := &sheetWriter{wb: wb}

	w.row(SheetConfig, configColumns)
	for name, value := range child(payload, "config").All() {
		w.row(SheetConfig, []any{name, value})
	}

	w.row(SheetSource, sourceColumns)
	for _, entry := range child(child(payload, "source"), "items").All() {
		w.row(SheetSource, columns(entry, sourceColumns))
	}

	w.row(SheetPrepare, prepareColumns)
	for _, entry := range child(child(payload, "prepare"), "items").All() {
		w.row(SheetPrepare, columns(entry, prepareColumns))
	}

	w.row(SheetTrain, trainColumns)
	for idx, entry := range child(child(payload, "train"), "items").All() {
		path := "train.items." + idx
		if strings.Contains(idx, ".") {
			return nil, &core.MalformedPayloadError{
				Path:   path,
				Reason: fmt.Sprintf("train idx %q cannot contain '.' in a workbook", idx),
			}
		}
		train, _ := entry.(*core.Mapping)
		text, _ := train.Get("text")
		w.row(SheetTrain, []any{idx, text})
		for key, gold := range child(train, "items").All() {
			g, _ := gold.(*core.Mapping)
			raw, _ := g.Get("idx")
			gidx := cast.ToString(raw)
			if gidx == "" {
				gidx = key
			}
			if !strings.HasPrefix(gidx, idx+".") || len(gidx) == len(idx)+1 {
				return nil, &core.MalformedPayloadError{
					Path:   path + ".items." + key,
					Reason: fmt.Sprintf("gold idx %q must start with %q in a workbook", gidx, idx+"."),
				}
			}
			subtext, _ := g.Get("subtext")
			span, _ := g.Get("span")
			entity, _ := g.Get("entity")
			w.row(SheetTrain, []any{gidx, nil, subtext, span, entity})
		}
	}

	if w.err != nil {
		return nil, w.err
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter appends rows to sheets and keeps the first error.
type sheetWriter struct {
	wb   *excelize.File
	next map[string]int
	err  error
}

func (w *sheetWriter) row(sheet string, values any) {
	if w.err != nil {
		return
	}
	if w.next == nil {
		w.next = make(map[string]int)
	}
	w.next[sheet]++

	var row []any
	switch v := values.(type) {
	case []string:
		for _, s := range v {
			row = append(row, s)
		}
	case []any:
		row = v
	}

	axis, err := excelize.CoordinatesToCellName(1, w.next[sheet])
	if err != nil {
		w.err = err
		return
	}
	w.err = w.wb.SetSheetRow(sheet, axis, &row)
}

func child(m *core.Mapping, key string) *core.Mapping {
	v, _ := m.Get(key)
	if nested, ok := v.(*core.Mapping); ok {
		return nested
	}
	return core.NewMapping()
}

func columns(entry any, cols []string) []any {
	m, _ := entry.(*core.Mapping)
	row := make([]any, len(cols))
	for i, col := range cols {
		row[i], _ = m.Get(col)
	}
	return row
}
