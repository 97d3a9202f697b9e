package geom

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestHaversineOneThousandthDegree(t *testing.T) {
	d := Haversine(orb.Point{0, 0}, orb.Point{0, 0.001})
	if math.Abs(d-111.19) > 0.01 {
		t.Errorf("Haversine failed: expected ~111.19, got %v", d)
	}
}

func TestDestinationInverse(t *testing.T) {
	origin := orb.Point{13.4, 52.5}
	for _, brg := range []float64{0, 45, 90, 200, 359} {
		p := Destination(origin, 2500, brg)
		if d := Haversine(origin, p); math.Abs(d-2500) > 1e-6 {
			t.Errorf("bearing %v: expected 2500m, got %v", brg, d)
		}
	}
}

func TestDestinationWrapsLongitude(t *testing.T) {
	p := Destination(orb.Point{179.99, 0}, 10000, 90)
	if p.Lon() > -179 || p.Lon() < -180 {
		t.Errorf("longitude not wrapped: got %v", p.Lon())
	}
}
