package layer

import (
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

// Extensions lists the file types LoadFile understands.
var Extensions = []string{".geojson", ".json", ".wkt", ".csv", ".kml"}

// LoadFile reads a layer file, picking the decoder from the extension.
func LoadFile(path string) ([]orb.Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var geoms []orb.Geometry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		geoms, err = ParseGeoJSON(data)
	case ".wkt", ".txt":
		geoms, err = ParseWKT(string(data))
	case ".csv":
		geoms, err = ParseCSV(data)
	case ".kml":
		geoms, err = ParseKML(data)
	default:
		return nil, fmt.Errorf("layer: unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if len(geoms) == 0 {
		return nil, ErrEmpty
	}
	return geoms, nil
}

// ParseGeoJSON accepts a FeatureCollection, a Feature or a bare geometry.
func ParseGeoJSON(data []byte) ([]orb.Geometry, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	switch head.Type {
	case "":
		return nil, errors.New("invalid geojson: missing type")
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, err
		}
		out := make([]orb.Geometry, 0, len(fc.Features))
		for _, f := range fc.Features {
			if f.Geometry != nil {
				out = append(out, f.Geometry)
			}
		}
		return out, nil
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, err
		}
		if f.Geometry == nil {
			return nil, nil
		}
		return []orb.Geometry{f.Geometry}, nil
	}
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, err
	}
	return []orb.Geometry{g.Geometry()}, nil
}

// ParseWKT reads one geometry per non-empty line. Lines starting with # are
// skipped.
func ParseWKT(s string) ([]orb.Geometry, error) {
	var out []orb.Geometry
	for n, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		g, err := wkt.Unmarshal(line)
		if err != nil {
			return nil, fmt.Errorf("wkt line %d: %w", n+1, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// ParseCSV reads points from latitude/longitude columns.
// Column detection: lat|latitude|y and lon|lng|long|longitude|x (case-insensitive).
// Rows that do not parse are skipped.
func ParseCSV(data []byte) ([]orb.Geometry, error) {
	r := csv.NewReader(strings.NewReader(string(data)))
	r.TrimLeadingSpace = true
	recs, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.New("empty csv")
	}
	idxLat, idxLon := -1, -1
	for i, h := range recs[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lat", "latitude", "y":
			if idxLat == -1 {
				idxLat = i
			}
		case "lon", "lng", "long", "longitude", "x":
			if idxLon == -1 {
				idxLon = i
			}
		}
	}
	if idxLat == -1 || idxLon == -1 {
		return nil, errors.New("csv: latitude/longitude columns not found")
	}
	var out []orb.Geometry
	for _, row := range recs[1:] {
		if idxLon >= len(row) || idxLat >= len(row) {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(row[idxLon]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(row[idxLat]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, orb.Point{lon, lat})
	}
	return out, nil
}

type kmlCoords struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPolygon struct {
	Outer kmlCoords   `xml:"outerBoundaryIs>LinearRing"`
	Inner []kmlCoords `xml:"innerBoundaryIs>LinearRing"`
}

type kmlPlacemark struct {
	Point      *kmlCoords  `xml:"Point"`
	LineString *kmlCoords  `xml:"LineString"`
	Polygon    *kmlPolygon `xml:"Polygon"`
}

type kmlFolder struct {
	Placemarks []kmlPlacemark `xml:"Placemark"`
	Folders    []kmlFolder    `xml:"Folder"`
}

type kmlDoc struct {
	Placemarks []kmlPlacemark `xml:"Placemark"`
	Document   *kmlFolder     `xml:"Document"`
	Folders    []kmlFolder    `xml:"Folder"`
}

// ParseKML extracts Point, LineString and Polygon placemarks. KML
// coordinates are "lon,lat[,alt]" tuples separated by whitespace; altitude
// is ignored.
func ParseKML(data []byte) ([]orb.Geometry, error) {
	var doc kmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	var out []orb.Geometry
	var walk func(pms []kmlPlacemark, folders []kmlFolder)
	walk = func(pms []kmlPlacemark, folders []kmlFolder) {
		for _, pm := range pms {
			switch {
			case pm.Point != nil:
				if pts := kmlTuples(pm.Point.Coordinates); len(pts) > 0 {
					out = append(out, pts[0])
				}
			case pm.LineString != nil:
				if pts := kmlTuples(pm.LineString.Coordinates); len(pts) > 1 {
					out = append(out, orb.LineString(pts))
				}
			case pm.Polygon != nil:
				poly := orb.Polygon{orb.Ring(kmlTuples(pm.Polygon.Outer.Coordinates))}
				for _, in := range pm.Polygon.Inner {
					poly = append(poly, orb.Ring(kmlTuples(in.Coordinates)))
				}
				if len(poly[0]) > 2 {
					out = append(out, poly)
				}
			}
		}
		for _, f := range folders {
			walk(f.Placemarks, f.Folders)
		}
	}
	walk(doc.Placemarks, doc.Folders)
	if doc.Document != nil {
		walk(doc.Document.Placemarks, doc.Document.Folders)
	}
	return out, nil
}

func kmlTuples(s string) []orb.Point {
	var pts []orb.Point
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		pts = append(pts, orb.Point{lon, lat})
	}
	return pts
}
