package tui

import (
	"sort"
	"strings"

	"github.com/paulmach/orb"

	"geodraw/internal/draw"
	"geodraw/internal/geom"
	"geodraw/internal/style"
)

// marker is a styled glyph placed over a map cell after rasterising.
type marker struct {
	x, y  int
	glyph string
}

// cellToLonLat converts a map cell coordinate back to lon/lat using bbox, zoom, and pan.
func (m Model) cellToLonLat(cx, cy, w, h int) (float64, float64, bool) {
	if !m.bbox.Valid() || w <= 1 || h <= 1 {
		return 0, 0, false
	}
	zx := float64(cx-m.offsetX) / float64(w-1)
	zy := 1.0 - float64(cy-m.offsetY)/float64(h-1)
	nx := 0.5 + (zx-0.5)/m.zoom
	ny := 0.5 + (zy-0.5)/m.zoom
	lon := m.bbox.MinX + nx*(m.bbox.MaxX-m.bbox.MinX)
	lat := m.bbox.MinY + ny*(m.bbox.MaxY-m.bbox.MinY)
	return lon, lat, true
}

// screenXYMicro maps lon/lat into a 2x4 microgrid per cell for braille rendering.
func (m Model) screenXYMicro(p orb.Point, w, h int) (int, int, bool) {
	if !m.bbox.Valid() {
		return 0, 0, false
	}
	nx := (p[0] - m.bbox.MinX) / (m.bbox.MaxX - m.bbox.MinX)
	ny := (p[1] - m.bbox.MinY) / (m.bbox.MaxY - m.bbox.MinY)
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	sx := int(zx*float64(w*2-1)) + m.offsetX*2
	sy := int((1.0-zy)*float64(h*4-1)) + m.offsetY*4
	return sx, sy, true
}

func (m Model) microPath(pts []orb.Point, w, h int) [][2]int {
	out := make([][2]int, 0, len(pts))
	for _, p := range pts {
		if mx, my, ok := m.screenXYMicro(p, w, h); ok {
			out = append(out, [2]int{mx, my})
		}
	}
	return out
}

// plot rasterises g. Polygons are filled only when fill is set.
func (m Model) plot(br *brailleBuf, g orb.Geometry, fill bool, w, h int) {
	switch g := g.(type) {
	case orb.Point:
		if mx, my, ok := m.screenXYMicro(g, w, h); ok {
			br.setPixel(mx, my)
		}
	case orb.MultiPoint:
		for _, p := range g {
			m.plot(br, p, fill, w, h)
		}
	case orb.LineString:
		br.drawPath(m.microPath(g, w, h), false)
	case orb.MultiLineString:
		for _, ls := range g {
			br.drawPath(m.microPath(ls, w, h), false)
		}
	case orb.Ring:
		br.drawPath(m.microPath(g, w, h), true)
	case orb.Polygon:
		var rings [][][2]int
		for _, r := range g {
			if sm := m.microPath(r, w, h); len(sm) >= 3 {
				rings = append(rings, sm)
				br.drawPath(sm, true)
			}
		}
		if fill && len(rings) > 0 {
			br.fillRings(rings)
		}
	case orb.MultiPolygon:
		for _, p := range g {
			m.plot(br, p, fill, w, h)
		}
	case orb.Collection:
		for _, c := range g {
			m.plot(br, c, fill, w, h)
		}
	}
}

func (m Model) renderMap(w, h int) string {
	br := newBrailleBuf(w, h)

	// snap layers are outlines only
	for _, id := range m.layers.IDs() {
		l, err := m.layers.Get(id)
		if err != nil {
			continue
		}
		for _, g := range l.Geoms {
			m.plot(br, g, false, w, h)
		}
	}

	var markers []marker
	labels := map[[2]int]string{}
	cell := func(p orb.Point) ([2]int, bool) {
		mx, my, ok := m.screenXYMicro(p, w, h)
		return [2]int{mx / 2, my / 4}, ok
	}
	for _, e := range m.engines() {
		for _, f := range e.Features() {
			g := f.Shape.Geometry()
			if g == nil {
				continue
			}
			m.plot(br, g, f.Style.Float(style.FillOpacity, 0) > 0.3, w, h)
			if t, ok := f.Shape.(*geom.Text); ok {
				if c, ok := cell(t.Coord); ok {
					labels[[2]int{c[0] + 1, c[1]}] = t.Label
				}
			}
			if e.IsSelected(f.ID) {
				for _, p := range vertices(g) {
					if c, ok := cell(p); ok {
						markers = append(markers, marker{c[0], c[1], selectedStyle.Render("●")})
					}
				}
			}
		}
	}
	if pf := m.eng().Partial(); pf != nil {
		if g := pf.Shape.Geometry(); g != nil {
			m.plot(br, g, false, w, h)
			for _, p := range vertices(g) {
				if c, ok := cell(p); ok {
					markers = append(markers, marker{c[0], c[1], partialStyle.Render("+")})
				}
			}
		}
	}
	if m.hovering && m.eng().Mode() == draw.ModeDraw {
		markers = append(markers, marker{m.snapMicX / 2, m.snapMicY / 4, hoverStyle.Render("◯")})
	}

	lines := br.toLines()
	for pos, label := range labels {
		if pos[1] < 0 || pos[1] >= len(lines) {
			continue
		}
		r := []rune(lines[pos[1]])
		for i, c := range []rune(label) {
			if x := pos[0] + i; x >= 0 && x < len(r) {
				r[x] = c
			}
		}
		lines[pos[1]] = string(r)
	}
	return strings.Join(overlay(lines, markers), "\n")
}

// overlay replaces cells with styled glyphs, right to left on each row so
// earlier rune offsets stay valid once escape sequences are inserted.
func overlay(lines []string, markers []marker) []string {
	sort.Slice(markers, func(i, j int) bool {
		if markers[i].y != markers[j].y {
			return markers[i].y < markers[j].y
		}
		return markers[i].x > markers[j].x
	})
	done := map[[2]int]bool{}
	for _, mk := range markers {
		if mk.y < 0 || mk.y >= len(lines) || done[[2]int{mk.x, mk.y}] {
			continue
		}
		r := []rune(lines[mk.y])
		if mk.x < 0 || mk.x >= len(r) {
			continue
		}
		done[[2]int{mk.x, mk.y}] = true
		lines[mk.y] = string(r[:mk.x]) + mk.glyph + string(r[mk.x+1:])
	}
	return lines
}

func vertices(g orb.Geometry) []orb.Point {
	switch g := g.(type) {
	case orb.Point:
		return []orb.Point{g}
	case orb.LineString:
		return g
	case orb.Polygon:
		var out []orb.Point
		for _, r := range g {
			out = append(out, r...)
		}
		return out
	}
	return nil
}
