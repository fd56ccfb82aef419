package tui

import (
	"encoding/json"
	"fmt"
	"sort"

	table "github.com/charmbracelet/bubbles/table"

	"geoarcs/internal/geom"
)

// refreshAttrs rebuilds the table from the selected feature, or from a
// dataset summary while nothing is selected.
func (m *Model) refreshAttrs() {
	cols, rows := m.buildAttributes()
	if len(cols) == 0 || len(rows) == 0 {
		m.showAttrs = false
		m.status = "no attributes for current dataset"
		return
	}
	maxColW := 32
	tcols := make([]table.Column, 0, len(cols))
	for i, c := range cols {
		w := len(c) + 2
		for _, r := range rows {
			if i < len(r) && len(r[i])+2 > w {
				w = len(r[i]) + 2
			}
		}
		tcols = append(tcols, table.Column{Title: c, Width: min(w, maxColW)})
	}
	trows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		cells := make([]string, len(tcols))
		copy(cells, r)
		trows = append(trows, table.Row(cells))
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// buildAttributes returns (columns, rows) for the attributes view.
func (m *Model) buildAttributes() ([]string, [][]string) {
	if f, ok := m.store.Snapshot().Selected(); ok {
		return []string{"property", "value"}, featureRows(f)
	}
	fc, err := m.source.Features()
	if err != nil {
		return nil, nil
	}
	bbox := ""
	if bb, ok := fc.BBox(); ok {
		bbox = fmt.Sprintf("[%.5f,%.5f,%.5f,%.5f]", bb.MinX, bb.MinY, bb.MaxX, bb.MaxY)
	}
	return []string{"property", "value"}, [][]string{
		{"origin", m.source.Origin()},
		{"features", fmt.Sprintf("%d", len(fc))},
		{"bbox", bbox},
	}
}

func featureRows(f geom.PointFeature) [][]string {
	rows := [][]string{
		{"id", formatValue(f.ID)},
		{"lon", fmt.Sprintf("%.6f", f.Coordinates[0])},
		{"lat", fmt.Sprintf("%.6f", f.Coordinates[1])},
		{"rank", fmt.Sprintf("%g", f.Rank)},
	}
	keys := make([]string, 0, len(f.Properties))
	for k := range f.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, []string{k, formatValue(f.Properties[k])})
	}
	return rows
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		bs, _ := json.Marshal(t)
		return string(bs)
	}
}
