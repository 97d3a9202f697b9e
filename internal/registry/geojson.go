package registry

import (
	"fmt"

	"geodraw/internal/geom"
	"geodraw/internal/style"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Properties written next to the style keys of exported features.
const (
	PropShapeType   = "shapeType"
	PropText        = "text"
	PropCenter      = "center"
	PropRadiusInKm  = "radiusInKm"
	PropTotalLength = "totalLength"
	PropTotalArea   = "totalArea"
)

var reserved = map[string]bool{
	PropShapeType:   true,
	PropText:        true,
	PropCenter:      true,
	PropRadiusInKm:  true,
	PropTotalLength: true,
	PropTotalArea:   true,
}

// ToGeoJSON exports features as plain records. Measures carry totalLength
// and totalArea; circles carry center and radiusInKm.
func ToGeoJSON(fs []*Feature, measures bool) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range fs {
		g := f.Shape.Geometry()
		if g == nil {
			continue
		}
		gf := geojson.NewFeature(g)
		gf.ID = f.ID
		for k, v := range f.Style {
			gf.Properties[k] = v
		}
		gf.Properties[PropShapeType] = f.Kind().String()
		switch s := f.Shape.(type) {
		case *geom.Text:
			gf.Properties[PropText] = s.Label
		case *geom.Circle:
			gf.Properties[PropCenter] = []float64{s.Center[0], s.Center[1]}
			gf.Properties[PropRadiusInKm] = s.Radius / 1000
		}
		if measures {
			gf.Properties[PropTotalLength] = f.Length
			if f.Kind() != geom.KindLine {
				gf.Properties[PropTotalArea] = f.Area
			}
		}
		fc.Append(gf)
	}
	return fc
}

// FromGeoJSON rebuilds features from exported records. It fails on the first
// record that does not describe a valid shape; ids are kept when present.
func FromGeoJSON(fc *geojson.FeatureCollection) ([]*Feature, error) {
	if fc == nil {
		return nil, fmt.Errorf("%w: no feature collection", ErrInvalidFeature)
	}
	out := make([]*Feature, 0, len(fc.Features))
	for i, gf := range fc.Features {
		f, err := featureFrom(gf)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func featureFrom(gf *geojson.Feature) (*Feature, error) {
	if gf == nil || gf.Geometry == nil {
		return nil, fmt.Errorf("%w: no geometry", ErrInvalidFeature)
	}
	kind, err := kindOf(gf)
	if err != nil {
		return nil, err
	}
	shape, err := shapeFrom(kind, gf)
	if err != nil {
		return nil, err
	}
	if !shape.Valid() {
		return nil, fmt.Errorf("%w: degenerate %s", ErrInvalidFeature, kind)
	}

	f := &Feature{ID: NewID(), Shape: shape, Style: style.Style{}}
	if gf.ID != nil {
		f.ID = fmt.Sprint(gf.ID)
	}
	for k, v := range gf.Properties {
		if !reserved[k] {
			f.Style[k] = v
		}
	}
	f.Length = gf.Properties.MustFloat64(PropTotalLength, 0)
	f.Area = gf.Properties.MustFloat64(PropTotalArea, 0)
	return f, nil
}

func kindOf(gf *geojson.Feature) (geom.Kind, error) {
	if s, ok := gf.Properties[PropShapeType].(string); ok {
		return geom.ParseKind(s)
	}
	switch gf.Geometry.(type) {
	case orb.Point:
		if _, ok := gf.Properties[PropText]; ok {
			return geom.KindText, nil
		}
		return geom.KindPoint, nil
	case orb.LineString:
		return geom.KindLine, nil
	case orb.Polygon:
		return geom.KindPolygon, nil
	}
	return 0, fmt.Errorf("%w: unsupported geometry %s", ErrInvalidFeature, gf.Geometry.GeoJSONType())
}

func shapeFrom(kind geom.Kind, gf *geojson.Feature) (geom.Shape, error) {
	wrong := fmt.Errorf("%w: %s with %s geometry", ErrInvalidFeature, kind, gf.Geometry.GeoJSONType())
	switch kind {
	case geom.KindPoint, geom.KindText:
		p, ok := gf.Geometry.(orb.Point)
		if !ok {
			return nil, wrong
		}
		if kind == geom.KindText {
			return geom.NewText(p, gf.Properties.MustString(PropText, "")), nil
		}
		return geom.NewPoint(p), nil
	case geom.KindLine:
		ls, ok := gf.Geometry.(orb.LineString)
		if !ok {
			return nil, wrong
		}
		return geom.NewLine(ls...), nil
	case geom.KindPolygon:
		poly, ok := gf.Geometry.(orb.Polygon)
		if !ok {
			return nil, wrong
		}
		rings := make([][]orb.Point, len(poly))
		for i, r := range poly {
			rings[i] = r
		}
		return geom.NewPolygon(rings...), nil
	case geom.KindRectangle:
		poly, ok := gf.Geometry.(orb.Polygon)
		if !ok || len(poly) == 0 || len(poly[0]) < 4 {
			return nil, wrong
		}
		return geom.NewRectangle(poly[0][0], poly[0][2]), nil
	case geom.KindCircle:
		return circleFrom(gf)
	}
	return nil, wrong
}

// circleFrom prefers the center/radiusInKm properties and falls back to the
// ring: its bound center and the distance to the first vertex.
func circleFrom(gf *geojson.Feature) (geom.Shape, error) {
	if c, ok := gf.Properties[PropCenter].([]any); ok && len(c) == 2 {
		lon, lok := c[0].(float64)
		lat, aok := c[1].(float64)
		if r := gf.Properties.MustFloat64(PropRadiusInKm, 0); lok && aok && r > 0 {
			return geom.NewCircle(orb.Point{lon, lat}, r*1000), nil
		}
	}
	if c, ok := gf.Properties[PropCenter].([]float64); ok && len(c) == 2 {
		if r := gf.Properties.MustFloat64(PropRadiusInKm, 0); r > 0 {
			return geom.NewCircle(orb.Point{c[0], c[1]}, r*1000), nil
		}
	}
	poly, ok := gf.Geometry.(orb.Polygon)
	if !ok || len(poly) == 0 || len(poly[0]) == 0 {
		return nil, fmt.Errorf("%w: circle without center or ring", ErrInvalidFeature)
	}
	center := poly.Bound().Center()
	return geom.NewCircle(center, geom.Haversine(center, poly[0][0])), nil
}
