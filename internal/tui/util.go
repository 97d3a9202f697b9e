package tui

import (
	"github.com/paulmach/orb"

	"geodraw/internal/geom"
)

const sidebarWidth = 28

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// layout is where the map sits on screen. View and Update must agree on it.
type layout struct {
	contentW, contentH int
	sidebarW           int
	mapX, mapY         int
	mapW, mapH         int
}

func (m Model) layout() layout {
	headerHeight := 1
	footerHeight := 2
	ly := layout{
		contentW: max(10, m.width),
		contentH: max(4, m.height-headerHeight-footerHeight),
		mapY:     headerHeight,
	}
	if m.showSidebar {
		ly.sidebarW = sidebarWidth
		ly.mapX = sidebarWidth + 1
	}
	ly.mapW = max(10, ly.contentW-ly.sidebarW-1)
	ly.mapH = ly.contentH
	return ly
}

// inMap converts a screen position to map cell coordinates.
func (ly layout) inMap(x, y int) (int, int, bool) {
	if x < ly.mapX || x >= ly.mapX+ly.mapW || y < ly.mapY || y >= ly.mapY+ly.mapH {
		return 0, 0, false
	}
	return x - ly.mapX, y - ly.mapY, true
}

// cellSize returns the plane size of one map cell, used as hit tolerance.
func (m Model) cellSize(w int) float64 {
	if w <= 1 || !m.bbox.Valid() {
		return 0
	}
	a := geom.WebMercator.ToPlane(orb.Point{m.bbox.MinX, 0})
	b := geom.WebMercator.ToPlane(orb.Point{m.bbox.MaxX, 0})
	return (b[0] - a[0]) / m.zoom / float64(w-1)
}

// fit resets the viewport to the extent of everything drawn or loaded.
func (m *Model) fit() {
	var bb geom.BBox
	first := true
	add := func(g orb.Geometry) {
		if g == nil {
			return
		}
		b := geom.BBoxOf(g)
		bb = bb.Extend(orb.Point{b.MinX, b.MinY}, first)
		bb = bb.Extend(orb.Point{b.MaxX, b.MaxY}, false)
		first = false
	}
	for _, e := range m.engines() {
		for _, f := range e.Features() {
			add(f.Shape.Geometry())
		}
	}
	for _, id := range m.layers.IDs() {
		if l, err := m.layers.Get(id); err == nil {
			add(l.Bound)
		}
	}
	if first {
		return
	}
	if !bb.Valid() {
		// single point or axis-aligned extent
		const pad = 0.01
		bb = geom.BBox{MinX: bb.MinX - pad, MinY: bb.MinY - pad, MaxX: bb.MaxX + pad, MaxY: bb.MaxY + pad}
	}
	m.bbox = bb
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
}
