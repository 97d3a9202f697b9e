package draw

import (
	"errors"
	"math"
	"slices"
	"testing"

	"geodraw/internal/geom"
	"geodraw/internal/layer"
	"geodraw/internal/measure"
	"geodraw/internal/registry"
	"geodraw/internal/style"

	"github.com/paulmach/orb"
)

func planarMeasures(opts ...Option) *Engine {
	opts = append([]Option{WithProjector(geom.Identity), WithHitTolerance(0.5)}, opts...)
	return New(registry.Measures, opts...)
}

func draw(t *testing.T, e *Engine, k geom.Kind, pts ...orb.Point) *registry.Feature {
	t.Helper()
	if err := e.StartDrawing(k); err != nil {
		t.Fatal(err)
	}
	for _, p := range pts {
		if _, err := e.AddCoordinate(p); err != nil {
			t.Fatal(err)
		}
	}
	f, err := e.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestPlanarTriangleScenario(t *testing.T) {
	e := planarMeasures(WithSystem(measure.Planar))
	f := draw(t, e, geom.KindPolygon, orb.Point{0, 0}, orb.Point{4, 0}, orb.Point{0, 3})
	if math.Abs(f.Area-6.0) > 1e-10 {
		t.Errorf("Area failed: expected 6, got %v", f.Area)
	}
	if e.State() != Idle {
		t.Errorf("expected Idle after finalize, got %v", e.State())
	}
}

func TestGeodeticLineScenario(t *testing.T) {
	e := New(registry.Measures)
	f := draw(t, e, geom.KindLine, orb.Point{0, 0}, orb.Point{0, 0.001})
	if math.Abs(f.Length-111.19) > 0.01 {
		t.Errorf("Length failed: expected ~111.19, got %v", f.Length)
	}
}

func TestFinalizeIncomplete(t *testing.T) {
	e := planarMeasures()
	_ = e.StartDrawing(geom.KindPolygon)
	_, _ = e.AddCoordinate(orb.Point{0, 0})
	_, _ = e.AddCoordinate(orb.Point{1, 0})

	if _, err := e.Finalize(); !errors.Is(err, ErrIncompleteGeometry) {
		t.Fatalf("expected ErrIncompleteGeometry, got %v", err)
	}
	if e.State() != Drawing || len(e.Features()) != 0 {
		t.Error("failed finalize changed state or registry")
	}
	_, _ = e.AddCoordinate(orb.Point{1, 1})
	if _, err := e.Finalize(); err != nil {
		t.Errorf("third vertex should complete the polygon: %v", err)
	}
}

func TestCancelLeavesRegistry(t *testing.T) {
	e := planarMeasures()
	draw(t, e, geom.KindLine, orb.Point{0, 0}, orb.Point{1, 0})
	_ = e.StartDrawing(geom.KindLine)
	_, _ = e.AddCoordinate(orb.Point{5, 5})
	e.Cancel()
	if e.State() != Idle || len(e.Features()) != 1 || e.Partial() != nil {
		t.Errorf("Cancel failed: state %v, %d features", e.State(), len(e.Features()))
	}
}

func TestRemoveLastDrawnCoordinate(t *testing.T) {
	e := planarMeasures()
	if err := e.RemoveLastDrawnCoordinate(); !errors.Is(err, ErrNotDrawing) {
		t.Errorf("expected ErrNotDrawing, got %v", err)
	}
	_ = e.StartDrawing(geom.KindLine)
	_, _ = e.AddCoordinate(orb.Point{0, 0})
	_, _ = e.AddCoordinate(orb.Point{1, 0})
	if err := e.RemoveLastDrawnCoordinate(); err != nil {
		t.Fatal(err)
	}
	if err := e.RemoveLastDrawnCoordinate(); err != nil {
		t.Fatal(err)
	}
	if n := e.Partial().Shape.Len(); n != 0 {
		t.Errorf("expected empty partial, got %d coordinates", n)
	}
}

func TestMeasuresRejectPoint(t *testing.T) {
	e := planarMeasures()
	if err := e.StartDrawing(geom.KindPoint); !errors.Is(err, ErrUnsupportedKind) {
		t.Errorf("expected ErrUnsupportedKind, got %v", err)
	}
	if err := e.SetDrawKind(geom.KindText); !errors.Is(err, ErrUnsupportedKind) {
		t.Errorf("expected ErrUnsupportedKind, got %v", err)
	}
	if e.State() != Idle {
		t.Errorf("state changed: %v", e.State())
	}
}

func TestSnapOutsideToleranceScenario(t *testing.T) {
	mem := layer.NewMemory()
	mem.Put("poi", []orb.Geometry{orb.Point{6, 0}, orb.Point{20, 20}})
	e := planarMeasures(WithSnapSource(mem), WithSnapSettings(SnapSettings{Tolerance: 5}))
	if err := e.SetSnapLayer("poi"); err != nil {
		t.Fatal(err)
	}
	e.SetSnapEnabled(true)

	_ = e.StartDrawing(geom.KindLine)
	got, err := e.AddCoordinate(orb.Point{0, 0})
	if err != nil || got != (orb.Point{0, 0}) {
		t.Errorf("expected unmodified [0 0], got %v (%v)", got, err)
	}
	got, _ = e.AddCoordinate(orb.Point{18, 19})
	if got != (orb.Point{20, 20}) {
		t.Errorf("expected snap to [20 20], got %v", got)
	}
	if err := e.SetSnapLayer("nope"); !errors.Is(err, layer.ErrLayerNotFound) {
		t.Errorf("expected ErrLayerNotFound, got %v", err)
	}
	if e.SnapSettings().LayerID != "poi" {
		t.Error("failed SetSnapLayer changed the settings")
	}
}

func TestDeleteAllLinesScenario(t *testing.T) {
	e := planarMeasures()
	draw(t, e, geom.KindLine, orb.Point{0, 0}, orb.Point{1, 0})
	draw(t, e, geom.KindLine, orb.Point{0, 1}, orb.Point{1, 1})
	poly := draw(t, e, geom.KindPolygon, orb.Point{0, 0}, orb.Point{4, 0}, orb.Point{0, 3})
	circle := draw(t, e, geom.KindCircle, orb.Point{10, 10}, orb.Point{10, 10.01})

	var deleted []string
	e.Listeners().On("test", func(ev Event) {
		if ev.Type == EventFeaturesDeleted {
			deleted = append(deleted, ev.IDs...)
		}
	})
	if n := e.DeleteAllLines(); n != 2 {
		t.Errorf("DeleteAllLines failed: expected 2, got %d", n)
	}
	ids := []string{}
	for _, f := range e.Features() {
		ids = append(ids, f.ID)
	}
	if !slices.Equal(ids, []string{poly.ID, circle.ID}) {
		t.Errorf("expected polygon and circle to remain, got %v", ids)
	}
	if len(deleted) != 2 {
		t.Errorf("expected 2 deleted ids in event, got %v", deleted)
	}
	if n := e.DeleteAllLines(); n != 0 {
		t.Errorf("second call: expected 0, got %d", n)
	}
}

func TestSystemSwitchRoundTrip(t *testing.T) {
	e := New(registry.Measures)
	draw(t, e, geom.KindLine, orb.Point{2, 48}, orb.Point{2.1, 48.1})
	draw(t, e, geom.KindPolygon, orb.Point{2, 48}, orb.Point{2.1, 48}, orb.Point{2.1, 48.1})
	draw(t, e, geom.KindCircle, orb.Point{3, 45}, orb.Point{3, 45.01})
	before := e.Totals()
	first := e.Features()

	var systems []measure.System
	e.Listeners().On("sys", func(ev Event) {
		if ev.Type == EventSystemChanged {
			systems = append(systems, ev.System)
		}
	})
	e.SetSystem(measure.Planar)
	if e.Totals() == before {
		t.Error("planar totals should differ from geodetic totals")
	}
	e.SetSystem(measure.Geodetic)
	if e.Totals() != before {
		t.Errorf("totals not restored: %+v vs %+v", e.Totals(), before)
	}
	for i, f := range e.Features() {
		if f.Length != first[i].Length || f.Area != first[i].Area {
			t.Errorf("feature %d not restored", i)
		}
	}
	if !slices.Equal(systems, []measure.System{measure.Planar, measure.Geodetic}) {
		t.Errorf("unexpected system events: %v", systems)
	}
}

func TestSelectionAndDeleteSelected(t *testing.T) {
	e := planarMeasures()
	a := draw(t, e, geom.KindPolygon, orb.Point{0, 0}, orb.Point{4, 0}, orb.Point{4, 4}, orb.Point{0, 4})
	b := draw(t, e, geom.KindLine, orb.Point{10, 0}, orb.Point{10, 10})

	if _, _, err := e.ToggleSelectionAt(orb.Point{1, 1}); !errors.Is(err, ErrNotSelecting) {
		t.Errorf("expected ErrNotSelecting, got %v", err)
	}
	e.SetSelecting(true)
	if e.State() != Selecting || e.Mode() != ModeSelect {
		t.Fatalf("expected Selecting, got %v/%v", e.State(), e.Mode())
	}
	if ids, err := e.Click(orb.Point{1, 1}); err != nil || !slices.Equal(ids, []string{a.ID}) {
		t.Errorf("Click failed: %v %v", ids, err)
	}
	if _, ok, _ := e.ToggleSelectionAt(orb.Point{10.2, 5}); !ok {
		t.Error("expected line hit")
	}
	if got := e.SelectedIDs(); !slices.Equal(got, []string{a.ID, b.ID}) {
		t.Errorf("expected both selected, got %v", got)
	}
	_, _, _ = e.ToggleSelectionAt(orb.Point{10.2, 5})
	if n := e.DeleteSelected(); n != 1 || e.Exists(a.ID) || !e.Exists(b.ID) {
		t.Errorf("DeleteSelected failed: %d", n)
	}
	e.SetSelecting(false)
	if e.State() != Idle || e.Mode() != ModeDraw {
		t.Errorf("expected Idle/draw, got %v/%v", e.State(), e.Mode())
	}
}

func TestDeleteModeClick(t *testing.T) {
	e := planarMeasures()
	f := draw(t, e, geom.KindLine, orb.Point{0, 0}, orb.Point{10, 0})
	e.SetMode(ModeDelete)
	if ids, _ := e.Click(orb.Point{50, 50}); len(ids) != 0 {
		t.Errorf("miss should delete nothing, got %v", ids)
	}
	if ids, _ := e.Click(orb.Point{5, 0.1}); !slices.Equal(ids, []string{f.ID}) {
		t.Errorf("expected %s deleted, got %v", f.ID, ids)
	}
	if len(e.Features()) != 0 {
		t.Error("feature still present")
	}
}

func TestDrawModeClickPointFinalizes(t *testing.T) {
	e := New(registry.Annotations, WithProjector(geom.Identity))
	_ = e.SetDrawKind(geom.KindPoint)
	ids, err := e.Click(orb.Point{3, 3})
	if err != nil || len(ids) != 1 || e.State() != Idle {
		t.Fatalf("point click failed: %v %v %v", ids, err, e.State())
	}
	f, _ := e.Feature(ids[0])
	if len(f.ID) != 32 || f.Kind() != geom.KindPoint {
		t.Errorf("unexpected feature %+v", f)
	}
}

func TestTextNeedsLabel(t *testing.T) {
	e := New(registry.Annotations)
	_ = e.StartDrawing(geom.KindText)
	_, _ = e.AddCoordinate(orb.Point{1, 1})
	if _, err := e.Finalize(); !errors.Is(err, ErrIncompleteGeometry) {
		t.Errorf("expected ErrIncompleteGeometry, got %v", err)
	}
	if err := e.SetDrawnText("summit"); err != nil {
		t.Fatal(err)
	}
	f, err := e.Finalize()
	if err != nil || f.Shape.(*geom.Text).Label != "summit" {
		t.Errorf("text finalize failed: %v", err)
	}
}

func TestDeleteByIDsAtomic(t *testing.T) {
	e := planarMeasures()
	a := draw(t, e, geom.KindLine, orb.Point{0, 0}, orb.Point{1, 0})
	if _, err := e.DeleteByIDs([]string{a.ID, "missing"}); !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if !e.Exists(a.ID) {
		t.Error("feature removed by failed delete")
	}
}

func TestEditCommittedFeatureRecomputes(t *testing.T) {
	e := planarMeasures(WithSystem(measure.Planar))
	f := draw(t, e, geom.KindLine, orb.Point{0, 0}, orb.Point{3, 0})

	if err := e.InsertCoordinate(f.ID, geom.P(2), orb.Point{3, 4}); err != nil {
		t.Fatal(err)
	}
	got, _ := e.Feature(f.ID)
	if math.Abs(got.Length-7) > 1e-12 {
		t.Errorf("expected length 7, got %v", got.Length)
	}
	if err := e.UpdateCoordinate(f.ID, geom.P(2), orb.Point{3, 1}); err != nil {
		t.Fatal(err)
	}
	if err := e.RemoveCoordinate(f.ID, geom.P(0)); err != nil {
		t.Fatal(err)
	}
	if err := e.RemoveCoordinate(f.ID, geom.P(0)); !errors.Is(err, geom.ErrCannotRemoveBelowMinimum) {
		t.Errorf("expected ErrCannotRemoveBelowMinimum, got %v", err)
	}
	got, _ = e.Feature(f.ID)
	if math.Abs(got.Length-1) > 1e-12 {
		t.Errorf("expected length 1, got %v", got.Length)
	}
	if err := e.UpdateCoordinate(f.ID, geom.P(9), orb.Point{}); !errors.Is(err, geom.ErrPathNotFound) {
		t.Errorf("expected ErrPathNotFound, got %v", err)
	}
}

func TestListenerTable(t *testing.T) {
	e := planarMeasures()
	calls := 0
	e.Listeners().On("l", func(Event) { calls++ })
	e.Listeners().Deactivate("l")
	draw(t, e, geom.KindLine, orb.Point{0, 0}, orb.Point{1, 0})
	if calls != 0 {
		t.Errorf("deactivated listener called %d times", calls)
	}
	if !e.Listeners().Exists("l") {
		t.Error("deactivation removed the listener")
	}
	e.Listeners().Activate("l")
	e.DeleteAll()
	if calls == 0 {
		t.Error("activated listener not called")
	}
	if !e.Listeners().Remove("l") || e.Listeners().Exists("l") {
		t.Error("Remove failed")
	}
}

func TestStyleByIDsAndDefaults(t *testing.T) {
	e := New(registry.Annotations)
	if err := e.UpdateStyle(style.Style{style.LineColor: "#ff0000"}); err != nil {
		t.Fatal(err)
	}
	f := draw(t, e, geom.KindLine, orb.Point{0, 0}, orb.Point{1, 0})
	if f.Style.String(style.LineColor) != "#ff0000" {
		t.Errorf("default style not applied: %v", f.Style)
	}
	if err := e.SetStyleByIDs([]string{f.ID, "x"}, style.Style{style.LineWidth: 8.0}); !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := e.SetStyleByIDs([]string{f.ID}, style.Style{style.LineWidth: 8.0}); err != nil {
		t.Fatal(err)
	}
	got, _ := e.Feature(f.ID)
	if got.Style.Float(style.LineWidth, 0) != 8 {
		t.Errorf("style not applied: %v", got.Style)
	}
	if err := e.AddPresetColor("#29D1EA"); err != nil || len(e.PresetColors()) != 1 {
		t.Errorf("AddPresetColor failed: %v %v", e.PresetColors(), err)
	}
}

func TestExportImport(t *testing.T) {
	e := New(registry.Measures)
	draw(t, e, geom.KindLine, orb.Point{0, 0}, orb.Point{0, 0.001})
	draw(t, e, geom.KindCircle, orb.Point{5, 5}, orb.Point{5, 5.01})
	fc := e.Export()
	if len(fc.Features) != 2 || fc.Features[0].Properties["totalLength"] == nil {
		t.Fatalf("unexpected export: %+v", fc.Features)
	}

	other := New(registry.Measures)
	if err := other.Import(nil); !errors.Is(err, registry.ErrInvalidFeature) {
		t.Errorf("nil collection: expected ErrInvalidFeature, got %v", err)
	}
	if err := other.Import(fc); err != nil {
		t.Fatal(err)
	}
	got, want := other.Totals(), e.Totals()
	if math.Abs(got.Length-want.Length) > 1e-6 || math.Abs(got.Area-want.Area) > 1e-3 {
		t.Errorf("totals differ after import: %+v vs %+v", other.Totals(), e.Totals())
	}

	// duplicate ids leave the registry untouched
	fc.Features = append(fc.Features, fc.Features[0])
	if err := other.Import(fc); !errors.Is(err, registry.ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
	if len(other.Features()) != 2 {
		t.Error("failed import changed the registry")
	}
}
