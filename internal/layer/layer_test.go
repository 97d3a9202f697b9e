package layer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestFeaturesNear(t *testing.T) {
	m := NewMemory()
	m.Put("roads", []orb.Geometry{
		orb.LineString{{0, 0}, {1, 0}},
		orb.LineString{{10, 10}, {11, 10}},
	})

	got, err := m.FeaturesNear("roads", orb.Bound{Min: orb.Point{-1, -1}, Max: orb.Point{0.5, 0.5}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 geometry, got %d", len(got))
	}
	if _, err := m.FeaturesNear("rivers", orb.Bound{}); !errors.Is(err, ErrLayerNotFound) {
		t.Errorf("expected ErrLayerNotFound, got %v", err)
	}
	if !m.Remove("roads") || m.Has("roads") || len(m.IDs()) != 0 {
		t.Error("Remove failed")
	}
}

func TestLoadGeoJSON(t *testing.T) {
	p := writeFile(t, "l.geojson", `{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[1,2]}},
		{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}}
	]}`)
	geoms, err := LoadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(geoms) != 2 {
		t.Fatalf("expected 2 geometries, got %d", len(geoms))
	}
	if _, ok := geoms[1].(orb.Polygon); !ok {
		t.Errorf("expected polygon, got %T", geoms[1])
	}

	bare, err := ParseGeoJSON([]byte(`{"type":"LineString","coordinates":[[0,0],[3,4]]}`))
	if err != nil || len(bare) != 1 {
		t.Errorf("bare geometry failed: %v %v", bare, err)
	}
}

func TestLoadWKT(t *testing.T) {
	p := writeFile(t, "l.wkt", "# roads\nLINESTRING(0 0, 1 1)\n\nPOINT(5 5)\n")
	geoms, err := LoadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(geoms) != 2 {
		t.Fatalf("expected 2 geometries, got %d", len(geoms))
	}
	if pt, ok := geoms[1].(orb.Point); !ok || pt != (orb.Point{5, 5}) {
		t.Errorf("expected POINT(5 5), got %v", geoms[1])
	}
	if _, err := ParseWKT("POLYGON((0 0, 1"); err == nil {
		t.Error("expected error for broken wkt")
	}
}

func TestLoadCSV(t *testing.T) {
	p := writeFile(t, "p.csv", "name,Latitude,Longitude\na,45.5,-73.6\nb,bad,1\nc,46,-74\n")
	geoms, err := LoadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(geoms) != 2 || geoms[0] != (orb.Point{-73.6, 45.5}) {
		t.Errorf("unexpected points: %v", geoms)
	}
	if _, err := ParseCSV([]byte("a,b\n1,2\n")); err == nil {
		t.Error("expected error for missing columns")
	}
}

func TestLoadKML(t *testing.T) {
	p := writeFile(t, "p.kml", `<?xml version="1.0"?>
<kml xmlns="http://www.opengis.net/kml/2.2"><Document>
<Placemark><Point><coordinates>-73.6,45.5,0</coordinates></Point></Placemark>
<Folder><Placemark><LineString><coordinates>0,0 1,1 2,2</coordinates></LineString></Placemark></Folder>
</Document></kml>`)
	geoms, err := LoadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(geoms) != 2 {
		t.Fatalf("expected 2 geometries, got %d", len(geoms))
	}
	if ls, ok := geoms[1].(orb.LineString); !ok || len(ls) != 3 {
		t.Errorf("expected 3-point line, got %v", geoms[1])
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(writeFile(t, "x.shp", "")); err == nil {
		t.Error("expected unsupported type error")
	}
	if _, err := LoadFile(writeFile(t, "x.wkt", "\n")); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestWatcherReloads(t *testing.T) {
	p := writeFile(t, "l.wkt", "POINT(1 1)\n")
	m := NewMemory()
	if err := m.LoadFile("poi", p); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 16)
	w, err := NewWatcher(m, 50*time.Millisecond, log.New(os.Stderr), func(id string, err error) {
		select {
		case done <- err:
		default:
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := w.Watch("poi"); err != nil {
		t.Fatal(err)
	}
	w.Start()

	if err := os.WriteFile(p, []byte("POINT(1 1)\nPOINT(2 2)\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	timeout := time.After(5 * time.Second)
	for {
		select {
		case <-done:
		case <-timeout:
			t.Fatal("no reload after write")
		}
		// a reload can race the write and see a truncated file
		if l, _ := m.Get("poi"); len(l.Geoms) == 2 {
			return
		}
	}
}
