package geom

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// ErrDegenerateRing is returned for a hole without three distinct,
// non-collinear vertices.
var ErrDegenerateRing = errors.New("geom: degenerate ring")

// Polygon holds an outer ring followed by holes. Rings are stored open:
// the closing vertex is added only by Geometry.
type Polygon struct {
	Rings [][]orb.Point
}

// NewPolygon builds a polygon from rings, dropping a repeated closing vertex.
func NewPolygon(rings ...[]orb.Point) *Polygon {
	p := &Polygon{Rings: make([][]orb.Point, 0, len(rings))}
	for _, r := range rings {
		p.Rings = append(p.Rings, openRing(r))
	}
	if len(p.Rings) == 0 {
		p.Rings = [][]orb.Point{nil}
	}
	return p
}

func (*Polygon) shape()     {}
func (*Polygon) Kind() Kind { return KindPolygon }

// locate resolves [ring, vertex]; extra widens the vertex range for inserts.
func (s *Polygon) locate(p Path, extra int) (int, int, error) {
	if len(p) != 2 {
		return 0, 0, fmt.Errorf("%w: %q has depth %d, want 2", ErrPathNotFound, p.String(), len(p))
	}
	r, err := p[:1].indices(len(s.Rings))
	if err != nil {
		return 0, 0, err
	}
	v, err := p[1:].indices(len(s.Rings[r[0]]) + extra)
	if err != nil {
		return 0, 0, err
	}
	return r[0], v[0], nil
}

func (s *Polygon) At(p Path) (orb.Point, error) {
	r, v, err := s.locate(p, 0)
	if err != nil {
		return orb.Point{}, err
	}
	return s.Rings[r][v], nil
}

func (s *Polygon) Set(p Path, c orb.Point) error {
	r, v, err := s.locate(p, 0)
	if err != nil {
		return err
	}
	s.Rings[r][v] = c
	return nil
}

func (s *Polygon) Insert(p Path, c orb.Point) error {
	r, v, err := s.locate(p, 1)
	if err != nil {
		return err
	}
	s.Rings[r] = insertAt(s.Rings[r], v, c)
	return nil
}

// Remove deletes a vertex at [ring, vertex], or a whole hole at [ring].
// The outer ring itself can never be removed.
func (s *Polygon) Remove(p Path) error {
	if len(p) == 1 {
		r, err := p.indices(len(s.Rings))
		if err != nil {
			return err
		}
		if r[0] == 0 {
			return ErrCannotRemoveBelowMinimum
		}
		rings := make([][]orb.Point, 0, len(s.Rings)-1)
		rings = append(rings, s.Rings[:r[0]]...)
		s.Rings = append(rings, s.Rings[r[0]+1:]...)
		return nil
	}
	r, v, err := s.locate(p, 0)
	if err != nil {
		return err
	}
	ring := removeAt(s.Rings[r], v)
	if !validRing(ring) {
		return ErrCannotRemoveBelowMinimum
	}
	s.Rings[r] = ring
	return nil
}

// AddRing appends a hole.
func (s *Polygon) AddRing(ring []orb.Point) error {
	ring = openRing(ring)
	if !validRing(ring) {
		return ErrDegenerateRing
	}
	s.Rings = append(s.Rings, ring)
	return nil
}

func (s *Polygon) outer() []orb.Point {
	if len(s.Rings) == 0 {
		return nil
	}
	return s.Rings[0]
}

func (s *Polygon) Append(c orb.Point) {
	if len(s.Rings) == 0 {
		s.Rings = [][]orb.Point{nil}
	}
	s.Rings[0] = append(s.Rings[0], c)
}

func (s *Polygon) Pop() bool {
	if len(s.outer()) == 0 {
		return false
	}
	s.Rings[0] = s.Rings[0][:len(s.Rings[0])-1]
	return true
}

func (s *Polygon) Len() int { return len(s.outer()) }

func (s *Polygon) Valid() bool {
	if len(s.Rings) == 0 {
		return false
	}
	for _, r := range s.Rings {
		if !validRing(r) {
			return false
		}
	}
	return true
}

// Geometry returns the polygon with closed rings. While fewer than three
// vertices are placed it degrades to the line drawn so far.
func (s *Polygon) Geometry() orb.Geometry {
	switch n := len(s.outer()); {
	case n == 0:
		return nil
	case n < 3:
		return orb.LineString(append([]orb.Point(nil), s.outer()...))
	}
	poly := make(orb.Polygon, 0, len(s.Rings))
	for _, r := range s.Rings {
		poly = append(poly, closeRing(r))
	}
	return poly
}

func (s *Polygon) Clone() Shape {
	c := &Polygon{Rings: make([][]orb.Point, len(s.Rings))}
	for i, r := range s.Rings {
		c.Rings[i] = append([]orb.Point(nil), r...)
	}
	return c
}

func validRing(r []orb.Point) bool {
	if distinct(r) < 3 {
		return false
	}
	return planar.Area(closeRing(r)) != 0
}

func closeRing(r []orb.Point) orb.Ring {
	out := make(orb.Ring, 0, len(r)+1)
	out = append(out, r...)
	if len(r) > 0 && r[0] != r[len(r)-1] {
		out = append(out, r[0])
	}
	return out
}

func openRing(r []orb.Point) []orb.Point {
	out := append([]orb.Point(nil), r...)
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}
