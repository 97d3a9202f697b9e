package tui

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"geodraw/internal/draw"
	"geodraw/internal/geom"
	"geodraw/internal/layer"
	"geodraw/internal/measure"
	"geodraw/internal/registry"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
		}
	case reloadMsg:
		if msg.err != nil {
			m.status = "reload error: " + msg.err.Error()
		} else {
			m.status = "snap layer reloaded: " + msg.id
		}
		return m, m.waitForReload()
	case savedMsg:
		if msg.err != nil {
			m.status = "save error: " + msg.err.Error()
		} else {
			m.session.unsaved = false
			m.status = "saved set: " + msg.set
		}
		return m, nil
	case loadedMsg:
		m.applyLoaded(msg)
		return m, nil
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.input != inputNone {
			return m.updateInput(msg)
		}
		if m.showAttrs {
			return m.updateTable(msg)
		}
		if cmd, done := m.handleKey(msg.String()); done {
			return m, cmd
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey runs a global key binding. done is false for keys the sidebar
// list should see as well.
func (m *Model) handleKey(key string) (cmd tea.Cmd, done bool) {
	e := m.eng()
	switch key {
	case "ctrl+c", "q":
		return tea.Quit, true
	case "+", "=":
		if m.zoom < 4096 {
			m.zoom *= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case "-", "_":
		if m.zoom > 0.05 {
			m.zoom /= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case "f":
		m.fit()
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshDir()
			m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
		}
	case "enter":
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(fileItem); ok {
				m.loadPath(it.path)
			}
			return nil, true
		}
		m.finalize()
	case "esc":
		switch e.State() {
		case draw.Drawing:
			e.Cancel()
			m.status = "drawing cancelled"
		case draw.Selecting:
			e.ClearSelection()
			m.status = "selection cleared"
		}
	case "backspace":
		if err := e.RemoveLastDrawnCoordinate(); err != nil {
			m.status = "draw error: " + err.Error()
		}
	case "d":
		m.cycleDrawKind()
	case "s":
		e.SetSelecting(e.Mode() != draw.ModeSelect)
		m.status = "mode: " + e.Mode().String()
	case "x":
		if e.Mode() == draw.ModeDelete {
			e.SetMode(draw.ModeDraw)
		} else {
			e.SetMode(draw.ModeDelete)
		}
		m.status = "mode: " + e.Mode().String()
	case "delete":
		m.status = fmt.Sprintf("deleted %d selected", e.DeleteSelected())
	case "X":
		m.status = fmt.Sprintf("deleted %d features", e.DeleteAll())
	case "1", "2", "3":
		kind := map[string]geom.Kind{"1": geom.KindLine, "2": geom.KindPolygon, "3": geom.KindCircle}[key]
		m.status = fmt.Sprintf("deleted %d %ss", e.DeleteByKind(kind), kind)
	case "m":
		e.Cancel()
		m.measuring = !m.measuring
		m.status = "editing " + m.eng().Kind().String()
	case "g":
		next := e.System().Toggle()
		for _, eng := range m.engines() {
			eng.SetSystem(next)
		}
		m.status = "measurement system: " + next.String()
	case "n":
		on := !e.SnapSettings().Enabled
		for _, eng := range m.engines() {
			eng.SetSnapEnabled(on)
		}
		m.status = fmt.Sprintf("snapping: %v", on)
		if on && e.SnapSettings().LayerID == "" {
			m.status += " (no snap layer, press tab)"
		}
	case "ctrl+s":
		if m.store == nil {
			m.status = "no store configured"
			return nil, true
		}
		m.status = "saving..."
		return m.saveCmd(), true
	case "ctrl+o":
		if m.store == nil {
			m.status = "no store configured"
			return nil, true
		}
		return m.loadCmd(), true
	case "p":
		m.openInput(inputPaste, "Paste WKT here (POINT, LINESTRING, POLYGON), one per line. Enter adds; Esc cancels.")
		m.status = "paste mode"
	case "a":
		m.showAttrs = !m.showAttrs
		if m.showAttrs {
			m.refreshAttrsFromCurrent()
		}
	case "h":
		m.helpVisible = !m.helpVisible
	case "up":
		m.offsetY -= 1
	case "down":
		m.offsetY += 1
	case "left":
		m.offsetX -= 2
	case "right":
		m.offsetX += 2
	default:
		return nil, false
	}
	return nil, !m.showSidebar
}

func (m *Model) cycleDrawKind() {
	e := m.eng()
	kinds := geom.Kinds
	i := 0
	for j, k := range kinds {
		if k == e.DrawKind() {
			i = j
		}
	}
	for range kinds {
		i = (i + 1) % len(kinds)
		if e.Kind().Allows(kinds[i]) {
			break
		}
	}
	e.Cancel()
	e.SetMode(draw.ModeDraw)
	if err := e.SetDrawKind(kinds[i]); err != nil {
		m.status = "draw error: " + err.Error()
		return
	}
	m.status = "draw: " + kinds[i].String()
}

func (m *Model) finalize() {
	e := m.eng()
	if e.State() != draw.Drawing {
		return
	}
	f, err := e.Finalize()
	if err != nil {
		m.status = "draw error: " + err.Error()
		return
	}
	m.status = "added " + describe(f, e.System())
}

func describe(f *registry.Feature, sys measure.System) string {
	s := f.Kind().String() + " " + f.ID[:min(8, len(f.ID))]
	if f.Length > 0 {
		s += "  " + measure.FormatLength(f.Length, sys)
	}
	if f.Area > 0 {
		s += "  " + measure.FormatArea(f.Area, sys)
	}
	return s
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	ly := m.layout()
	cx, cy, ok := ly.inMap(msg.X, msg.Y)
	m.hovering = ok
	if !ok {
		return
	}
	m.hoverCellX, m.hoverCellY = cx, cy
	lon, lat, ok := m.cellToLonLat(cx, cy, ly.mapW, ly.mapH)
	m.hoverHasGeo = ok
	if !ok {
		return
	}
	m.hoverLon, m.hoverLat = lon, lat
	e := m.eng()
	p := orb.Point{lon, lat}
	if sx, sy, ok := m.screenXYMicro(e.SnapPreview(p), ly.mapW, ly.mapH); ok {
		m.snapMicX, m.snapMicY = sx, sy
	}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.zoom *= 1.2
	case msg.Button == tea.MouseButtonWheelDown && m.zoom > 0.05:
		m.zoom /= 1.2
	case msg.Action != tea.MouseActionPress:
	case msg.Button == tea.MouseButtonRight:
		m.finalize()
	case msg.Button == tea.MouseButtonLeft:
		m.click(p, ly.mapW)
	}
}

func (m *Model) click(p orb.Point, mapW int) {
	e := m.eng()
	// one and a half cells around the pointer count as a hit
	e.SetHitTolerance(1.5 * m.cellSize(mapW))
	ids, err := e.Click(p)
	if err != nil {
		m.status = "draw error: " + err.Error()
		return
	}
	switch e.Mode() {
	case draw.ModeSelect:
		if len(ids) == 0 {
			m.status = "nothing here"
		} else {
			m.status = fmt.Sprintf("selected: %d", len(e.SelectedIDs()))
		}
	case draw.ModeDelete:
		if len(ids) > 0 {
			m.status = "deleted " + ids[0][:min(8, len(ids[0]))]
		}
	default:
		if len(ids) > 0 {
			if f, err := e.Feature(ids[0]); err == nil {
				m.status = "added " + describe(f, e.System())
			}
			return
		}
		if pf := e.Partial(); pf != nil {
			if pf.Kind() == geom.KindText {
				m.openInput(inputLabel, "Label text. Enter places it; Esc cancels.")
				return
			}
			m.status = fmt.Sprintf("%s: %d coordinates", pf.Kind(), pf.Shape.Len())
			if pf.Length > 0 {
				m.status += "  " + measure.FormatLength(pf.Length, e.System())
			}
		}
	}
	if m.showAttrs {
		m.refreshAttrsFromCurrent()
	}
}

func (m *Model) openInput(mode inputMode, placeholder string) {
	m.input = mode
	m.ta.SetValue("")
	m.ta.Placeholder = placeholder
	m.ta.Focus()
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.input == inputLabel {
			m.eng().Cancel()
		}
		m.input = inputNone
		m.ta.Blur()
		m.status = "view mode"
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.ta.Value())
		if text == "" {
			m.status = "input: empty"
			return m, nil
		}
		switch m.input {
		case inputPaste:
			m.pasteWKT(text)
		case inputLabel:
			if err := m.eng().SetDrawnText(text); err != nil {
				m.status = "draw error: " + err.Error()
			} else {
				m.finalize()
			}
		}
		m.input = inputNone
		m.ta.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

// pasteWKT adds the pasted geometries as features of the active engine.
func (m *Model) pasteWKT(text string) {
	geoms, err := layer.ParseWKT(text)
	if err != nil {
		m.status = "wkt error: " + err.Error()
		return
	}
	fc := geojson.NewFeatureCollection()
	for _, g := range geoms {
		fc.Append(geojson.NewFeature(g))
	}
	fs, err := registry.FromGeoJSON(fc)
	if err != nil {
		m.status = "wkt error: " + err.Error()
		return
	}
	e := m.eng()
	if err := e.SetAll(append(e.Features(), fs...)); err != nil {
		m.status = "paste error: " + err.Error()
		return
	}
	m.fit()
	m.status = fmt.Sprintf("pasted %d features", len(fs))
}

func (m Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.eng()
	switch msg.String() {
	case "esc", "a":
		m.showAttrs = false
		return m, nil
	case "ctrl+c", "q":
		return m, tea.Quit
	case " ", "space":
		if i := m.tbl.Cursor(); i >= 0 && i < len(m.rowIDs) {
			if _, err := e.ToggleSelection(m.rowIDs[i]); err != nil {
				m.status = "select error: " + err.Error()
			}
		}
		m.refreshAttrsFromCurrent()
		return m, nil
	case "delete", "x":
		if i := m.tbl.Cursor(); i >= 0 && i < len(m.rowIDs) {
			if _, err := e.DeleteByIDs([]string{m.rowIDs[i]}); err != nil {
				m.status = "delete error: " + err.Error()
			}
		}
		m.refreshAttrsFromCurrent()
		return m, nil
	}
	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}
