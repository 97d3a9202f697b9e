package tui

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"

	"geodraw/internal/draw"
	"geodraw/internal/geom"
	"geodraw/internal/measure"
	"geodraw/internal/registry"
	"geodraw/internal/style"
)

// refreshAttrsFromCurrent rebuilds the features table from the active engine.
func (m *Model) refreshAttrsFromCurrent() {
	e := m.eng()
	fs := e.Features()
	if len(fs) == 0 {
		m.showAttrs = false
		m.status = "no features yet"
		return
	}
	cols, rows := featureRows(e, fs)
	m.rowIDs = make([]string, len(fs))
	for i, f := range fs {
		m.rowIDs[i] = f.ID
	}
	// clear rows first so the row width never exceeds the new columns
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
}

func featureRows(e *draw.Engine, fs []*registry.Feature) ([]table.Column, []table.Row) {
	measures := e.Kind() == registry.Measures
	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "id", Width: 10},
		{Title: "type", Width: 10},
	}
	if measures {
		cols = append(cols, table.Column{Title: "length", Width: 12}, table.Column{Title: "area", Width: 14})
	} else {
		cols = append(cols, table.Column{Title: "color", Width: 12}, table.Column{Title: "label", Width: 14})
	}
	cols = append(cols, table.Column{Title: "sel", Width: 3})

	sys := e.System()
	rows := make([]table.Row, 0, len(fs))
	for i, f := range fs {
		row := table.Row{fmt.Sprintf("%d", i+1), f.ID[:min(8, len(f.ID))], f.Kind().String()}
		if measures {
			area := "-"
			if f.Area > 0 {
				area = measure.FormatArea(f.Area, sys)
			}
			row = append(row, measure.FormatLength(f.Length, sys), area)
		} else {
			row = append(row, f.Style.String(style.LineColor), labelOf(f))
		}
		sel := ""
		if e.IsSelected(f.ID) {
			sel = "*"
		}
		rows = append(rows, append(row, sel))
	}
	return cols, rows
}

func labelOf(f *registry.Feature) string {
	if t, ok := f.Shape.(*geom.Text); ok {
		return t.Label
	}
	return ""
}
