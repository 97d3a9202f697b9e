package snap

import (
	"math"

	"geodraw/internal/geom"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"gonum.org/v1/gonum/spatial/r2"
)

// LayerSource supplies the features of a target layer near a lon/lat bound.
// Implementations must not hand out geometries they later mutate in place.
type LayerSource interface {
	FeaturesNear(layerID string, bound orb.Bound) ([]orb.Geometry, error)
}

// Element is the part of a candidate geometry a snap matched.
type Element int

const (
	Vertex Element = iota
	Edge
)

func (e Element) String() string {
	if e == Vertex {
		return "vertex"
	}
	return "edge"
}

// Result describes a snap match. Point is in lon/lat; Distance is in plane
// units. Index is the vertex index for Vertex and the segment index (segment
// i runs from vertex i to i+1 within the same part) for Edge.
type Result struct {
	Point     orb.Point
	Distance  float64
	Element   Element
	Candidate int
	Index     int
}

// Engine finds snap targets. Distances and tolerances are measured after
// projecting with Projector.
type Engine struct {
	Source    LayerSource
	Projector geom.Projector
}

func New(src LayerSource, proj geom.Projector) *Engine {
	return &Engine{Source: src, Projector: proj}
}

// QueryBound returns the lon/lat bound of cursor ± tolerance in the plane.
func (e *Engine) QueryBound(cursor orb.Point, tolerance float64) orb.Bound {
	c := e.Projector.ToPlane(cursor)
	lo := e.Projector.FromPlane(orb.Point{c[0] - tolerance, c[1] - tolerance})
	hi := e.Projector.FromPlane(orb.Point{c[0] + tolerance, c[1] + tolerance})
	return orb.MultiPoint{lo, hi}.Bound()
}

// FindSnap returns the nearest vertex or edge point of layerID within
// tolerance of cursor. The bool is false when nothing is close enough, in
// which case the caller keeps cursor unchanged.
func (e *Engine) FindSnap(cursor orb.Point, layerID string, tolerance float64) (Result, bool, error) {
	if tolerance <= 0 || e.Source == nil {
		return Result{}, false, nil
	}
	q := e.QueryBound(cursor, tolerance)
	cands, err := e.Source.FeaturesNear(layerID, q)
	if err != nil {
		return Result{}, false, err
	}
	r, ok := e.Nearest(cursor, cands, tolerance, q)
	return r, ok, nil
}

// Nearest scans candidates whose bound intersects q. Vertices win ties
// against edges.
func (e *Engine) Nearest(cursor orb.Point, cands []orb.Geometry, tolerance float64, q orb.Bound) (Result, bool) {
	p := e.vec(cursor)
	best := Result{Distance: math.Inf(1)}
	found := false

	consider := func(r Result) {
		if r.Distance > tolerance {
			return
		}
		if r.Distance < best.Distance || (r.Distance == best.Distance && r.Element == Vertex && best.Element == Edge) {
			best, found = r, true
		}
	}

	for ci, g := range cands {
		if g == nil || !g.Bound().Intersects(q) {
			continue
		}
		vi, si := 0, 0
		for _, part := range parts(g) {
			verts := make([]r2.Vec, len(part))
			for i, pt := range part {
				verts[i] = e.vec(pt)
				consider(Result{
					Point:     pt,
					Distance:  r2.Norm(r2.Sub(p, verts[i])),
					Element:   Vertex,
					Candidate: ci,
					Index:     vi + i,
				})
			}
			for i := 0; i+1 < len(verts); i++ {
				on, d := nearestOnSegment(p, verts[i], verts[i+1])
				consider(Result{
					Point:     e.Projector.FromPlane(orb.Point{on.X, on.Y}),
					Distance:  d,
					Element:   Edge,
					Candidate: ci,
					Index:     si + i,
				})
			}
			vi += len(part)
			if len(part) > 1 {
				si += len(part) - 1
			}
		}
	}
	return best, found
}

// Hit returns the index of the geometry under cursor: one whose polygon
// contains it, or whose vertices or edges lie within tolerance. The nearest
// wins; on equal distance the later geometry (drawn on top) wins.
func (e *Engine) Hit(cursor orb.Point, geoms []orb.Geometry, tolerance float64) (int, bool) {
	p := e.vec(cursor)
	pc := orb.Point{p.X, p.Y}
	best, bestD := -1, math.Inf(1)
	for i, g := range geoms {
		if g == nil {
			continue
		}
		d := math.Inf(1)
		if contains(e.Projector.Geometry(g), pc) {
			d = 0
		} else {
			for _, part := range parts(g) {
				for j, pt := range part {
					v := e.vec(pt)
					d = math.Min(d, r2.Norm(r2.Sub(p, v)))
					if j > 0 {
						_, sd := nearestOnSegment(p, e.vec(part[j-1]), v)
						d = math.Min(d, sd)
					}
				}
			}
		}
		if d <= tolerance && d <= bestD {
			best, bestD = i, d
		}
	}
	return best, best >= 0
}

func (e *Engine) vec(pt orb.Point) r2.Vec {
	q := e.Projector.ToPlane(pt)
	return r2.Vec{X: q[0], Y: q[1]}
}

// nearestOnSegment projects p onto ab, clamped to the segment.
func nearestOnSegment(p, a, b r2.Vec) (r2.Vec, float64) {
	ab := r2.Sub(b, a)
	l2 := r2.Dot(ab, ab)
	if l2 == 0 {
		return a, r2.Norm(r2.Sub(p, a))
	}
	t := r2.Dot(r2.Sub(p, a), ab) / l2
	t = math.Max(0, math.Min(1, t))
	q := r2.Add(a, r2.Scale(t, ab))
	return q, r2.Norm(r2.Sub(p, q))
}

// parts flattens g into vertex runs; consecutive vertices of a run form edges.
func parts(g orb.Geometry) [][]orb.Point {
	switch g := g.(type) {
	case orb.Point:
		return [][]orb.Point{{g}}
	case orb.MultiPoint:
		out := make([][]orb.Point, len(g))
		for i, p := range g {
			out[i] = []orb.Point{p}
		}
		return out
	case orb.LineString:
		return [][]orb.Point{g}
	case orb.Ring:
		return [][]orb.Point{g}
	case orb.MultiLineString:
		out := make([][]orb.Point, len(g))
		for i, ls := range g {
			out[i] = ls
		}
		return out
	case orb.Polygon:
		out := make([][]orb.Point, len(g))
		for i, r := range g {
			out[i] = r
		}
		return out
	case orb.MultiPolygon:
		var out [][]orb.Point
		for _, poly := range g {
			out = append(out, parts(poly)...)
		}
		return out
	case orb.Collection:
		var out [][]orb.Point
		for _, c := range g {
			out = append(out, parts(c)...)
		}
		return out
	case orb.Bound:
		return parts(g.ToPolygon())
	}
	return nil
}

func contains(g orb.Geometry, p orb.Point) bool {
	switch g := g.(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, p)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, p)
	case orb.Bound:
		return g.Contains(p)
	case orb.Collection:
		for _, c := range g {
			if contains(c, p) {
				return true
			}
		}
	}
	return false
}
