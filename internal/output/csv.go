package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"SignalDesk/internal/model"
)

// section maps a report key to its column prefix. Order here is column order.
var sections = []struct {
	key    string
	prefix string
}{
	{"basic_info", "basic_"},
	{"signal_info", "signal_"},
	{"price_targets", "price_"},
	{"technical_indicators", "tech_"},
	{"support_resistance", ""},
	{"position_sizing", "position_"},
	{"option_info", "option_"},
	{"option_prices", "option_price_"},
	{"risk_factors", "risk_"},
	{"metadata", "meta_"},
}

// Flatten turns a report into section_key columns. Absent values are omitted;
// lists are joined with commas and nested objects are inlined as JSON.
func Flatten(r model.AnalysisReport) (map[string]string, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc map[string]map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}

	flat := make(map[string]string)
	for _, s := range sections {
		for k, v := range doc[s.key] {
			if s.key == "position_sizing" && k != "recommendation" {
				continue
			}
			flat[s.prefix+k] = cell(v)
		}
	}
	return flat, nil
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if _, nested := e.(map[string]any); nested {
				b, _ := json.Marshal(t)
				return string(b)
			}
			parts = append(parts, cell(e))
		}
		return strings.Join(parts, ",")
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

// WriteCSV writes one row per report. The header is the union of every
// report's columns, grouped by section and sorted within a section.
func WriteCSV(w io.Writer, reports []model.AnalysisReport) error {
	rows := make([]map[string]string, 0, len(reports))
	seen := make(map[string]bool)
	for _, r := range reports {
		flat, err := Flatten(r)
		if err != nil {
			return fmt.Errorf("flatten %s: %w", r.BasicInfo.Symbol, err)
		}
		for k := range flat {
			seen[k] = true
		}
		rows = append(rows, flat)
	}

	header := columnOrder(seen)
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		rec := make([]string, len(header))
		for i, col := range header {
			rec[i] = row[col]
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func columnOrder(seen map[string]bool) []string {
	rank := func(col string) int {
		best, bestLen := len(sections), -1
		for i, s := range sections {
			if strings.HasPrefix(col, s.prefix) && len(s.prefix) > bestLen {
				best, bestLen = i, len(s.prefix)
			}
		}
		return best
	}
	cols := make([]string, 0, len(seen))
	for c := range seen {
		cols = append(cols, c)
	}
	sort.Slice(cols, func(i, j int) bool {
		ri, rj := rank(cols[i]), rank(cols[j])
		if ri != rj {
			return ri < rj
		}
		return cols[i] < cols[j]
	})
	return cols
}
