package geom

import (
	"math"

	"github.com/paulmach/orb"
)

// MeanEarthRadius is the IUGG mean radius in meters, used for great-circle
// distances and circle construction.
const MeanEarthRadius = 6371008.8

func rad(d float64) float64 { return d * math.Pi / 180 }
func deg(r float64) float64 { return r * 180 / math.Pi }

// Haversine returns the great-circle distance in meters between two lon/lat points.
func Haversine(a, b orb.Point) float64 {
	lat1, lat2 := rad(a.Lat()), rad(b.Lat())
	dLat := lat2 - lat1
	dLon := rad(b.Lon() - a.Lon())
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * MeanEarthRadius * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Destination returns the point reached from origin after travelling
// distance meters along the initial bearing (degrees clockwise from north).
func Destination(origin orb.Point, distance, bearing float64) orb.Point {
	lat1 := rad(origin.Lat())
	lon1 := rad(origin.Lon())
	ang := distance / MeanEarthRadius
	brg := rad(bearing)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(ang) + math.Cos(lat1)*math.Sin(ang)*math.Cos(brg))
	lon2 := lon1 + math.Atan2(
		math.Sin(brg)*math.Sin(ang)*math.Cos(lat1),
		math.Cos(ang)-math.Sin(lat1)*math.Sin(lat2),
	)
	// normalise to [-180, 180)
	lon := math.Mod(deg(lon2)+540, 360) - 180
	return orb.Point{lon, deg(lat2)}
}
