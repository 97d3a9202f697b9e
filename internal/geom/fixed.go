package geom

import (
	"fmt"

	"github.com/paulmach/orb"
)

// CircleSegments is the vertex count of the ring approximating a circle.
const CircleSegments = 64

// Rectangle is an axis-aligned box given by two opposite corners. Its ring
// runs A, (B.x, A.y), B, (A.x, B.y); paths [0..3] address that ring and the
// keys "a" and "b" address the defining corners.
type Rectangle struct {
	A, B orb.Point
	n    int
}

func NewRectangle(a, b orb.Point) *Rectangle { return &Rectangle{A: a, B: b, n: 2} }

func (*Rectangle) shape()     {}
func (*Rectangle) Kind() Kind { return KindRectangle }

// Corners returns the four ring vertices.
func (s *Rectangle) Corners() [4]orb.Point {
	return [4]orb.Point{s.A, {s.B[0], s.A[1]}, s.B, {s.A[0], s.B[1]}}
}

func (s *Rectangle) corner(p Path) (int, error) {
	if s.n == 0 {
		return 0, notFound(p, nil)
	}
	if len(p) == 1 && p[0].IsKey() {
		switch p[0].Key {
		case "a":
			return 0, nil
		case "b":
			return 2, nil
		}
	}
	ix, err := p.indices(4)
	if err != nil {
		return 0, err
	}
	return ix[0], nil
}

func (s *Rectangle) At(p Path) (orb.Point, error) {
	i, err := s.corner(p)
	if err != nil {
		return orb.Point{}, err
	}
	return s.Corners()[i], nil
}

func (s *Rectangle) Set(p Path, c orb.Point) error {
	i, err := s.corner(p)
	if err != nil {
		return err
	}
	s.SetCorner(i, c)
	return nil
}

// SetCorner moves ring vertex i to c while the diagonally opposite vertex stays put.
func (s *Rectangle) SetCorner(i int, c orb.Point) {
	switch i {
	case 0:
		s.A = c
	case 1:
		s.B[0], s.A[1] = c[0], c[1]
	case 2:
		s.B = c
	case 3:
		s.A[0], s.B[1] = c[0], c[1]
	}
}

func (s *Rectangle) Insert(Path, orb.Point) error { return ErrNotEditable }

func (s *Rectangle) Remove(p Path) error {
	if _, err := s.corner(p); err != nil {
		return err
	}
	return ErrCannotRemoveBelowMinimum
}

func (s *Rectangle) Append(c orb.Point) {
	if s.n == 0 {
		s.A, s.B, s.n = c, c, 1
		return
	}
	s.B, s.n = c, 2
}

func (s *Rectangle) Pop() bool {
	switch s.n {
	case 0:
		return false
	case 1:
		s.A, s.B, s.n = orb.Point{}, orb.Point{}, 0
	default:
		s.B, s.n = s.A, 1
	}
	return true
}

func (s *Rectangle) Len() int { return s.n }

func (s *Rectangle) Valid() bool {
	return s.n == 2 && s.A[0] != s.B[0] && s.A[1] != s.B[1]
}

func (s *Rectangle) Geometry() orb.Geometry {
	switch s.n {
	case 0:
		return nil
	case 1:
		return s.A
	}
	c := s.Corners()
	return orb.Polygon{closeRing(c[:])}
}

func (s *Rectangle) Clone() Shape { c := *s; return &c }

// Circle is a center and a radius in meters. Its ring is rebuilt from those
// two values; setting any ring vertex changes the radius, the key "center"
// moves the whole circle.
type Circle struct {
	Center orb.Point
	Radius float64
	n      int
}

func NewCircle(center orb.Point, radius float64) *Circle {
	return &Circle{Center: center, Radius: radius, n: 2}
}

func (*Circle) shape()     {}
func (*Circle) Kind() Kind { return KindCircle }

// Ring returns the open ring of CircleSegments vertices, clockwise from north.
func (s *Circle) Ring() []orb.Point {
	out := make([]orb.Point, CircleSegments)
	for i := range out {
		out[i] = Destination(s.Center, s.Radius, float64(i)*360/CircleSegments)
	}
	return out
}

// vertex returns -1 for the center, else the ring index.
func (s *Circle) vertex(p Path) (int, error) {
	if s.n == 0 {
		return 0, notFound(p, nil)
	}
	if len(p) == 1 && p[0].IsKey() {
		if p[0].Key == "center" {
			return -1, nil
		}
		return 0, fmt.Errorf("%w: unknown key %q", ErrPathNotFound, p[0].Key)
	}
	ix, err := p.indices(CircleSegments)
	if err != nil {
		return 0, err
	}
	return ix[0], nil
}

func (s *Circle) At(p Path) (orb.Point, error) {
	i, err := s.vertex(p)
	if err != nil {
		return orb.Point{}, err
	}
	if i < 0 {
		return s.Center, nil
	}
	return Destination(s.Center, s.Radius, float64(i)*360/CircleSegments), nil
}

func (s *Circle) Set(p Path, c orb.Point) error {
	i, err := s.vertex(p)
	if err != nil {
		return err
	}
	if i < 0 {
		s.Center = c
		return nil
	}
	s.Radius = Haversine(s.Center, c)
	return nil
}

func (s *Circle) SetCenter(c orb.Point) {
	s.Center = c
	if s.n == 0 {
		s.n = 1
	}
}

// SetRadius sets the radius in meters; negative values are clamped to zero.
func (s *Circle) SetRadius(m float64) {
	s.Radius = max(m, 0)
	if s.n > 0 {
		s.n = 2
	}
}

func (s *Circle) Insert(Path, orb.Point) error { return ErrNotEditable }

func (s *Circle) Remove(p Path) error {
	if _, err := s.vertex(p); err != nil {
		return err
	}
	return ErrCannotRemoveBelowMinimum
}

// Append places the center first, then an edge point that fixes the radius.
func (s *Circle) Append(c orb.Point) {
	if s.n == 0 {
		s.Center, s.n = c, 1
		return
	}
	s.Radius, s.n = Haversine(s.Center, c), 2
}

func (s *Circle) Pop() bool {
	switch s.n {
	case 0:
		return false
	case 1:
		s.Center, s.n = orb.Point{}, 0
	default:
		s.Radius, s.n = 0, 1
	}
	return true
}

func (s *Circle) Len() int    { return s.n }
func (s *Circle) Valid() bool { return s.n > 0 && s.Radius > 0 }

func (s *Circle) Geometry() orb.Geometry {
	switch {
	case s.n == 0:
		return nil
	case s.Radius <= 0:
		return s.Center
	}
	return orb.Polygon{closeRing(s.Ring())}
}

func (s *Circle) Clone() Shape { c := *s; return &c }
