package geom

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Kind tags the drawable shape variants.
type Kind int

const (
	KindPoint Kind = iota
	KindLine
	KindPolygon
	KindRectangle
	KindCircle
	KindText
)

// Kinds lists every shape kind in display order.
var Kinds = []Kind{KindPoint, KindLine, KindPolygon, KindRectangle, KindCircle, KindText}

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindLine:
		return "line_string"
	case KindPolygon:
		return "polygon"
	case KindRectangle:
		return "rectangle"
	case KindCircle:
		return "circle"
	case KindText:
		return "text"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind accepts the names printed by Kind.String, plus "line".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "point":
		return KindPoint, nil
	case "line_string", "line", "linestring":
		return KindLine, nil
	case "polygon":
		return KindPolygon, nil
	case "rectangle":
		return KindRectangle, nil
	case "circle":
		return KindCircle, nil
	case "text":
		return KindText, nil
	}
	return 0, fmt.Errorf("geom: unknown shape type %q", s)
}

// BBox is an axis-aligned lon/lat box.
type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Extend grows b to include pt. The first point of a zero box initialises it.
func (b BBox) Extend(pt orb.Point, first bool) BBox {
	if first {
		return BBox{MinX: pt[0], MinY: pt[1], MaxX: pt[0], MaxY: pt[1]}
	}
	if pt[0] < b.MinX {
		b.MinX = pt[0]
	}
	if pt[1] < b.MinY {
		b.MinY = pt[1]
	}
	if pt[0] > b.MaxX {
		b.MaxX = pt[0]
	}
	if pt[1] > b.MaxY {
		b.MaxY = pt[1]
	}
	return b
}

// Valid reports whether the box has a non-zero extent on both axes.
func (b BBox) Valid() bool { return b.MaxX > b.MinX && b.MaxY > b.MinY }

func (b BBox) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{b.MinX, b.MinY}, Max: orb.Point{b.MaxX, b.MaxY}}
}

// BBoxOf returns the box around a geometry.
func BBoxOf(g orb.Geometry) BBox {
	bd := g.Bound()
	return BBox{MinX: bd.Min[0], MinY: bd.Min[1], MaxX: bd.Max[0], MaxY: bd.Max[1]}
}

// Projector converts lon/lat coordinates to and from a planar reference.
type Projector struct {
	ToPlane   orb.Projection
	FromPlane orb.Projection
}

// WebMercator projects to EPSG:3857 meters.
var WebMercator = Projector{
	ToPlane:   project.WGS84.ToMercator,
	FromPlane: project.Mercator.ToWGS84,
}

// Identity treats coordinates as already planar.
var Identity = Projector{
	ToPlane:   func(p orb.Point) orb.Point { return p },
	FromPlane: func(p orb.Point) orb.Point { return p },
}

// Geometry projects a copy of g into the plane.
func (pr Projector) Geometry(g orb.Geometry) orb.Geometry {
	return project.Geometry(orb.Clone(g), pr.ToPlane)
}
