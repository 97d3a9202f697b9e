// Package measure computes lengths and areas of drawn geometries, either on
// the sphere (geodetic) or in a projected plane.
//
// Planar results depend on the projection and do not represent true
// distances or surfaces on the Earth; with Web Mercator they grow with
// latitude.
package measure

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"geodraw/internal/geom"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
	"gonum.org/v1/gonum/floats"
)

var ErrUnknownSystem = errors.New("measure: unknown system")

// System selects the formulas used for length and area.
type System int

const (
	Geodetic System = iota
	Planar
)

func (s System) String() string {
	switch s {
	case Geodetic:
		return "geodetic"
	case Planar:
		return "planar"
	}
	return fmt.Sprintf("system(%d)", int(s))
}

func ParseSystem(s string) (System, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "geodetic", "geodesic", "":
		return Geodetic, nil
	case "planar":
		return Planar, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSystem, s)
}

// Toggle returns the other system.
func (s System) Toggle() System {
	if s == Geodetic {
		return Planar
	}
	return Geodetic
}

// Calculator measures lon/lat geometries. Projector is only used in Planar mode.
type Calculator struct {
	Projector geom.Projector
}

func NewCalculator(p geom.Projector) Calculator { return Calculator{Projector: p} }

// Length in meters (Geodetic) or plane units (Planar). Polygons yield their
// perimeter including holes; points yield 0.
func (c Calculator) Length(g orb.Geometry, sys System) float64 {
	if g == nil {
		return 0
	}
	if sys == Planar {
		return planar.Length(c.Projector.Geometry(g))
	}
	return geodeticLength(g)
}

// Area in square meters (Geodetic) or square plane units (Planar). Holes are
// subtracted; non-areal geometries yield 0.
func (c Calculator) Area(g orb.Geometry, sys System) float64 {
	if g == nil {
		return 0
	}
	if sys == Planar {
		return math.Abs(planar.Area(c.Projector.Geometry(g)))
	}
	// geo.Area works on the equatorial sphere; rescale to the mean radius
	// used for lengths and circles.
	return math.Abs(geo.Area(g)) * areaScale
}

// Measure returns what a measure feature of shape s displays: length for
// lines, perimeter and area for areal shapes.
func (c Calculator) Measure(s geom.Shape, sys System) (length, area float64) {
	g := s.Geometry()
	switch s.(type) {
	case *geom.Line:
		return c.Length(g, sys), 0
	case *geom.Polygon, *geom.Rectangle, *geom.Circle:
		return c.Length(g, sys), c.Area(g, sys)
	}
	return 0, 0
}

const areaScale = (geom.MeanEarthRadius / orb.EarthRadius) * (geom.MeanEarthRadius / orb.EarthRadius)

func geodeticLength(g orb.Geometry) float64 {
	switch g := g.(type) {
	case orb.LineString:
		return pathLength(g)
	case orb.Ring:
		return pathLength(g)
	case orb.MultiLineString:
		var sum float64
		for _, ls := range g {
			sum += pathLength(ls)
		}
		return sum
	case orb.Polygon:
		var sum float64
		for _, r := range g {
			sum += pathLength(r)
		}
		return sum
	case orb.MultiPolygon:
		var sum float64
		for _, p := range g {
			sum += geodeticLength(p)
		}
		return sum
	case orb.Collection:
		var sum float64
		for _, c := range g {
			sum += geodeticLength(c)
		}
		return sum
	case orb.Bound:
		return geodeticLength(g.ToPolygon())
	}
	return 0
}

// pathLength sums haversine distances between consecutive vertices.
func pathLength(pts []orb.Point) float64 {
	var sum float64
	for i := 1; i < len(pts); i++ {
		sum += geom.Haversine(pts[i-1], pts[i])
	}
	return sum
}

// Totals is the running grand total over all measure features.
type Totals struct {
	Length float64
	Area   float64
}

// Sum adds up per-feature values.
func Sum(lengths, areas []float64) Totals {
	return Totals{Length: floats.Sum(lengths), Area: floats.Sum(areas)}
}
