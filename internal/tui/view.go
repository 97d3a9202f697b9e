package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"geodraw/internal/draw"
	"geodraw/internal/measure"
	"geodraw/internal/registry"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	ly := m.layout()

	// Update list size with accurate content height when sidebar visible
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, ly.contentH-2)
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render(" geodraw "), " ", m.renderMode())
	header = lipgloss.NewStyle().Width(ly.contentW).Render(header)

	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(ly.sidebarW).Render(m.l.View())
	}

	var mapView string
	switch {
	case m.showAttrs:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		maxW := min(ly.mapW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(ly.mapH-2, 20))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(ly.mapW, ly.mapH, lipgloss.Center, lipgloss.Center, attrsBox)
	case m.input != inputNone:
		m.ta.SetWidth(ly.mapW)
		m.ta.SetHeight(min(ly.mapH, 12))
		mapView = lipgloss.NewStyle().Width(ly.mapW).Height(ly.mapH).Render(m.ta.View())
	default:
		mapView = lipgloss.NewStyle().Width(ly.mapW).Height(ly.mapH).Render(m.renderMap(ly.mapW, ly.mapH))
	}

	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	status := dimStyle.Render(" " + m.status + " ")
	coords := ""
	if m.hoverHasGeo && m.hovering {
		coords = dimStyle.Render(fmt.Sprintf("  lon=%.5f lat=%.5f  ", m.hoverLon, m.hoverLat))
	}
	spacerW := max(0, ly.contentW-lipgloss.Width(status)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Bottom, status, right),
		m.renderHelp())
	footer = lipgloss.NewStyle().Width(ly.contentW).Render(footer)

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(ly.contentW).Height(m.height).Render(ui)
}

// renderMode summarises the active engine: registry, mode, shape, system,
// snapping and totals.
func (m Model) renderMode() string {
	e := m.eng()
	parts := []string{e.Kind().String(), e.Mode().String()}
	if e.Mode() == draw.ModeDraw {
		parts = append(parts, e.DrawKind().String())
	}
	if e.State() == draw.Drawing {
		parts = append(parts, "drawing")
	}
	parts = append(parts, e.System().String())
	snap := e.SnapSettings()
	if snap.Enabled && snap.LayerID != "" {
		parts = append(parts, "snap:"+snap.LayerID)
	}
	out := modeStyle.Render(strings.Join(parts, " · "))

	if e.Kind() == registry.Measures {
		t := e.Totals()
		out += dimStyle.Render(fmt.Sprintf("  Σ %s  %s",
			measure.FormatLength(t.Length, e.System()), measure.FormatArea(t.Area, e.System())))
	}
	if n := len(e.SelectedIDs()); n > 0 {
		out += dimStyle.Render(fmt.Sprintf("  %d selected", n))
	}
	if m.session.unsaved {
		out += warnStyle.Render("  ● unsaved")
	}
	return out
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"click add",
		"enter finish",
		"esc cancel",
		"⌫ undo",
		"d shape",
		"s select",
		"x delete",
		"m measure",
		"g system",
		"n snap",
		"Tab layers",
		"p paste",
		"a table",
		"^s save",
		"q quit",
	}
	return dimStyle.Render(" " + strings.Join(keys, "  "))
}
