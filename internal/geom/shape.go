package geom

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Shape is the closed set of drawable geometries: *Point, *Line, *Polygon,
// *Rectangle, *Circle and *Text. Callers switch on the concrete type.
//
// Mutations either apply fully or return an error and leave the shape
// untouched.
type Shape interface {
	Kind() Kind
	// At returns the coordinate addressed by p.
	At(p Path) (orb.Point, error)
	// Set replaces the coordinate addressed by p.
	Set(p Path, c orb.Point) error
	// Insert places c at p, shifting later siblings.
	Insert(p Path, c orb.Point) error
	// Remove deletes the coordinate at p unless that breaks the minimum
	// vertex count of the shape.
	Remove(p Path) error
	// Append adds the next coordinate while the shape is being drawn.
	Append(c orb.Point)
	// Pop undoes the last Append; it reports false when nothing is left.
	Pop() bool
	// Len is the number of coordinates placed by the user.
	Len() int
	Valid() bool
	// Geometry exports a flat, closed-ring copy; nil when nothing is placed.
	Geometry() orb.Geometry
	Clone() Shape

	shape()
}

// New returns an empty shape of the given kind, ready for Append.
func New(k Kind) (Shape, error) {
	switch k {
	case KindPoint:
		return &Point{}, nil
	case KindLine:
		return &Line{}, nil
	case KindPolygon:
		return &Polygon{Rings: [][]orb.Point{nil}}, nil
	case KindRectangle:
		return &Rectangle{}, nil
	case KindCircle:
		return &Circle{}, nil
	case KindText:
		return &Text{}, nil
	}
	return nil, fmt.Errorf("geom: unknown kind %v", k)
}

// Point is a single placed coordinate.
type Point struct {
	Coord  orb.Point
	Placed bool
}

func NewPoint(at orb.Point) *Point { return &Point{Coord: at, Placed: true} }

func (*Point) shape()     {}
func (*Point) Kind() Kind { return KindPoint }

func (s *Point) At(p Path) (orb.Point, error) {
	if err := p.single("at"); err != nil || !s.Placed {
		return orb.Point{}, notFound(p, err)
	}
	return s.Coord, nil
}

func (s *Point) Set(p Path, c orb.Point) error {
	if err := p.single("at"); err != nil || !s.Placed {
		return notFound(p, err)
	}
	s.Coord = c
	return nil
}

func (s *Point) Insert(Path, orb.Point) error { return ErrNotEditable }

func (s *Point) Remove(p Path) error {
	if err := p.single("at"); err != nil || !s.Placed {
		return notFound(p, err)
	}
	return ErrCannotRemoveBelowMinimum
}

func (s *Point) Append(c orb.Point) { s.Coord, s.Placed = c, true }

func (s *Point) Pop() bool {
	if !s.Placed {
		return false
	}
	s.Coord, s.Placed = orb.Point{}, false
	return true
}

func (s *Point) Len() int {
	if s.Placed {
		return 1
	}
	return 0
}

func (s *Point) Valid() bool { return s.Placed }

func (s *Point) Geometry() orb.Geometry {
	if !s.Placed {
		return nil
	}
	return s.Coord
}

func (s *Point) Clone() Shape { c := *s; return &c }

// Text is a point carrying a label.
type Text struct {
	Point
	Label string
}

func NewText(at orb.Point, label string) *Text {
	return &Text{Point: Point{Coord: at, Placed: true}, Label: label}
}

func (*Text) Kind() Kind     { return KindText }
func (s *Text) Valid() bool  { return s.Placed && s.Label != "" }
func (s *Text) Clone() Shape { c := *s; return &c }

// Line is an open path.
type Line struct {
	Coords []orb.Point
}

func NewLine(coords ...orb.Point) *Line {
	return &Line{Coords: append([]orb.Point(nil), coords...)}
}

func (*Line) shape()     {}
func (*Line) Kind() Kind { return KindLine }

func (s *Line) At(p Path) (orb.Point, error) {
	ix, err := p.indices(len(s.Coords))
	if err != nil {
		return orb.Point{}, err
	}
	return s.Coords[ix[0]], nil
}

func (s *Line) Set(p Path, c orb.Point) error {
	ix, err := p.indices(len(s.Coords))
	if err != nil {
		return err
	}
	s.Coords[ix[0]] = c
	return nil
}

func (s *Line) Insert(p Path, c orb.Point) error {
	ix, err := p.indices(len(s.Coords) + 1)
	if err != nil {
		return err
	}
	s.Coords = insertAt(s.Coords, ix[0], c)
	return nil
}

func (s *Line) Remove(p Path) error {
	ix, err := p.indices(len(s.Coords))
	if err != nil {
		return err
	}
	coords := removeAt(s.Coords, ix[0])
	if distinct(coords) < 2 {
		return ErrCannotRemoveBelowMinimum
	}
	s.Coords = coords
	return nil
}

func (s *Line) Append(c orb.Point) { s.Coords = append(s.Coords, c) }

func (s *Line) Pop() bool {
	if len(s.Coords) == 0 {
		return false
	}
	s.Coords = s.Coords[:len(s.Coords)-1]
	return true
}

func (s *Line) Len() int    { return len(s.Coords) }
func (s *Line) Valid() bool { return distinct(s.Coords) >= 2 }

func (s *Line) Geometry() orb.Geometry {
	if len(s.Coords) == 0 {
		return nil
	}
	return orb.LineString(append([]orb.Point(nil), s.Coords...))
}

func (s *Line) Clone() Shape { return NewLine(s.Coords...) }

func notFound(p Path, err error) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %q on empty shape", ErrPathNotFound, p.String())
}

func insertAt(pts []orb.Point, i int, c orb.Point) []orb.Point {
	out := make([]orb.Point, 0, len(pts)+1)
	out = append(out, pts[:i]...)
	out = append(out, c)
	return append(out, pts[i:]...)
}

func removeAt(pts []orb.Point, i int) []orb.Point {
	out := make([]orb.Point, 0, len(pts)-1)
	out = append(out, pts[:i]...)
	return append(out, pts[i+1:]...)
}

func distinct(pts []orb.Point) int {
	seen := make(map[orb.Point]struct{}, len(pts))
	for _, p := range pts {
		seen[p] = struct{}{}
	}
	return len(seen)
}
