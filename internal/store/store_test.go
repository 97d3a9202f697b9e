package store

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func open(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "db", "geodraw.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func collection(ids ...string) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, id := range ids {
		f := geojson.NewFeature(orb.LineString{{0, 0}, {float64(i + 1), 1}})
		f.ID = id
		f.Properties["shapeType"] = "line"
		f.Properties["totalLength"] = float64(i + 1)
		fc.Append(f)
	}
	return fc
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	if err := s.Save(ctx, "measures", collection("b", "a", "c")); err != nil {
		t.Fatal(err)
	}
	fc, err := s.Load(ctx, "measures")
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, f := range fc.Features {
		ids = append(ids, f.ID.(string))
	}
	if !slices.Equal(ids, []string{"b", "a", "c"}) {
		t.Errorf("Load failed: expected saved order [b a c], got %v", ids)
	}
	ls, ok := fc.Features[2].Geometry.(orb.LineString)
	if !ok || ls[1] != (orb.Point{3, 1}) {
		t.Errorf("geometry lost: %v", fc.Features[2].Geometry)
	}
	if got := fc.Features[1].Properties.MustFloat64("totalLength", 0); got != 2 {
		t.Errorf("properties lost: expected 2, got %v", got)
	}
}

func TestSaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	_ = s.Save(ctx, "a", collection("x", "y"))
	_ = s.Save(ctx, "b", collection("z"))
	if err := s.Save(ctx, "a", collection("y")); err != nil {
		t.Fatal(err)
	}
	fc, _ := s.Load(ctx, "a")
	if len(fc.Features) != 1 {
		t.Errorf("expected 1 feature after replace, got %d", len(fc.Features))
	}
	if err := s.Save(ctx, "empty", geojson.NewFeatureCollection()); err != nil {
		t.Fatal(err)
	}
	sets, err := s.Sets(ctx)
	if err != nil || !slices.Equal(sets, []string{"a", "b", "empty"}) {
		t.Errorf("Sets failed: %v %v", sets, err)
	}
	if fc, err := s.Load(ctx, "empty"); err != nil || len(fc.Features) != 0 {
		t.Errorf("empty set: %v %v", fc, err)
	}
}

func TestLoadMissing(t *testing.T) {
	s := open(t)
	if _, err := s.Load(context.Background(), "nope"); !errors.Is(err, ErrSetNotFound) {
		t.Errorf("expected ErrSetNotFound, got %v", err)
	}
}

func TestLoadReportsDatabaseError(t *testing.T) {
	s := open(t)
	s.Close()
	_, err := s.Load(context.Background(), "measures")
	if err == nil || errors.Is(err, ErrSetNotFound) {
		t.Errorf("expected database error, got %v", err)
	}
}
