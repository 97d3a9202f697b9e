package measure

import (
	"errors"
	"math"
	"testing"

	"geodraw/internal/geom"

	"github.com/paulmach/orb"
)

func TestPlanarTriangleArea(t *testing.T) {
	c := NewCalculator(geom.Identity)
	poly := geom.NewPolygon([]orb.Point{{0, 0}, {4, 0}, {0, 3}})

	length, area := c.Measure(poly, Planar)
	if math.Abs(area-6.0) > 1e-10 {
		t.Errorf("Area failed: expected 6, got %v", area)
	}
	if math.Abs(length-12.0) > 1e-10 {
		t.Errorf("Perimeter failed: expected 12, got %v", length)
	}
}

func TestGeodeticLineLength(t *testing.T) {
	c := NewCalculator(geom.WebMercator)
	line := geom.NewLine(orb.Point{0, 0}, orb.Point{0, 0.001})

	length, area := c.Measure(line, Geodetic)
	if math.Abs(length-111.19) > 0.01 {
		t.Errorf("Length failed: expected ~111.19, got %v", length)
	}
	if area != 0 {
		t.Errorf("line area: expected 0, got %v", area)
	}
}

// shoelace on projected coordinates, computed by hand
func shoelace(ring []orb.Point) float64 {
	var s float64
	for i := range ring {
		a, b := ring[i], ring[(i+1)%len(ring)]
		s += a[0]*b[1] - b[0]*a[1]
	}
	return math.Abs(s) / 2
}

func TestPlanarAreaMatchesShoelace(t *testing.T) {
	c := NewCalculator(geom.WebMercator)
	rings := [][]orb.Point{
		{{2.30, 48.80}, {2.40, 48.80}, {2.40, 48.90}, {2.30, 48.90}},
		{{-73.6, 45.5}, {-73.5, 45.52}, {-73.55, 45.6}},
		{{10, 0}, {11, 0}, {11.5, 0.5}, {11, 1}, {10, 1}},
	}
	for i, r := range rings {
		projected := make([]orb.Point, len(r))
		for j, p := range r {
			projected[j] = geom.WebMercator.ToPlane(p)
		}
		want := shoelace(projected)
		got := c.Area(geom.NewPolygon(r).Geometry(), Planar)
		if math.Abs(got-want) > want*1e-9 {
			t.Errorf("ring %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestGeodeticAreaOneDegreeCell(t *testing.T) {
	c := NewCalculator(geom.WebMercator)
	cell := geom.NewRectangle(orb.Point{0, 0}, orb.Point{1, 1})

	// R² · Δλ · (sin φ2 − sin φ1) on the mean-radius sphere
	want := geom.MeanEarthRadius * geom.MeanEarthRadius * (math.Pi / 180) * math.Sin(math.Pi/180)
	_, got := c.Measure(cell, Geodetic)
	if math.Abs(got-want)/want > 0.001 {
		t.Errorf("Area failed: expected ~%v, got %v", want, got)
	}
}

func TestPolygonHoleSubtracts(t *testing.T) {
	c := NewCalculator(geom.Identity)
	p := geom.NewPolygon(
		[]orb.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
		[]orb.Point{{2, 2}, {4, 2}, {4, 4}, {2, 4}},
	)
	if got := c.Area(p.Geometry(), Planar); math.Abs(got-96) > 1e-10 {
		t.Errorf("Area failed: expected 96, got %v", got)
	}
}

func TestSystemSwitchDoesNotMutate(t *testing.T) {
	c := NewCalculator(geom.WebMercator)
	circle := geom.NewCircle(orb.Point{5, 45}, 500)

	l1, a1 := c.Measure(circle, Geodetic)
	c.Measure(circle, Planar)
	l2, a2 := c.Measure(circle, Geodetic)
	if l1 != l2 || a1 != a2 {
		t.Errorf("geodetic values changed after switching: %v/%v vs %v/%v", l1, a1, l2, a2)
	}
	if circle.Radius != 500 || circle.Center != (orb.Point{5, 45}) {
		t.Error("circle was mutated")
	}
	// a 500 m circle is roughly 785000 m²
	if math.Abs(a1-math.Pi*500*500)/a1 > 0.01 {
		t.Errorf("circle area off: %v", a1)
	}
}

func TestParseSystem(t *testing.T) {
	for in, want := range map[string]System{"geodetic": Geodetic, "PLANAR": Planar, "": Geodetic} {
		got, err := ParseSystem(in)
		if err != nil || got != want {
			t.Errorf("ParseSystem(%q): expected %v, got %v (%v)", in, want, got, err)
		}
	}
	if _, err := ParseSystem("cartesian"); !errors.Is(err, ErrUnknownSystem) {
		t.Errorf("expected ErrUnknownSystem, got %v", err)
	}
	if Geodetic.Toggle() != Planar || Planar.Toggle() != Geodetic {
		t.Error("Toggle failed")
	}
}

func TestSum(t *testing.T) {
	tot := Sum([]float64{1, 2, 3.5}, []float64{10, 0})
	if tot.Length != 6.5 || tot.Area != 10 {
		t.Errorf("Sum failed: got %+v", tot)
	}
	if FormatLength(1500, Geodetic) != "1.500 km" || FormatLength(12.346, Geodetic) != "12.35 m" {
		t.Errorf("FormatLength failed: %q", FormatLength(1500, Geodetic))
	}
}

func TestGeodeticCircleAreaSameSphere(t *testing.T) {
	c := NewCalculator(geom.WebMercator)
	circle := geom.NewCircle(orb.Point{10, 45}, 1000)

	// area of the inscribed regular polygon relative to πr²
	n := float64(geom.CircleSegments)
	want := n / (2 * math.Pi) * math.Sin(2*math.Pi/n)
	_, area := c.Measure(circle, Geodetic)
	got := area / (math.Pi * 1000 * 1000)
	if math.Abs(got-want) > 5e-4 {
		t.Errorf("Circle area ratio failed: expected ~%v, got %v", want, got)
	}
}
