package style

import (
	"errors"
	"fmt"
	"testing"

	"geodraw/internal/geom"
)

func TestResolveMerge(t *testing.T) {
	defaults := Style{LineColor: "#ff0000", LineWidth: 2.0}
	got := Resolve(defaults, Style{LineWidth: 5.0, "dashArray": "4 2"})

	if got[LineColor] != "#ff0000" {
		t.Errorf("inherited key failed: got %v", got[LineColor])
	}
	if got[LineWidth] != 5.0 {
		t.Errorf("override failed: expected 5, got %v", got[LineWidth])
	}
	if got["dashArray"] != "4 2" {
		t.Errorf("unknown key not passed through: %v", got)
	}

	got[LineColor] = "#00ff00"
	if defaults[LineColor] != "#ff0000" {
		t.Error("Resolve shares the defaults map")
	}
}

func TestResolverNoSharingBetweenFeatures(t *testing.T) {
	r := NewResolver()
	a := r.Resolve(geom.KindLine, Style{LineColor: "#123456"})
	b := r.Resolve(geom.KindLine, nil)
	if b[LineColor] != Default()[LineColor] {
		t.Errorf("second feature inherited first feature's literal: %v", b[LineColor])
	}
	a[FillOpacity] = 0.1
	if r.Defaults()[FillOpacity] != 0.5 {
		t.Error("resolved style aliases the defaults")
	}
}

func TestResolverKindAndUpdate(t *testing.T) {
	r := NewResolver()
	if err := r.SetKindDefaults(geom.KindCircle, Style{FillOpacity: 0.2}); err != nil {
		t.Fatal(err)
	}
	if err := r.Update(Style{LineWidth: 4.0}); err != nil {
		t.Fatal(err)
	}
	c := r.Resolve(geom.KindCircle, nil)
	if c.Float(FillOpacity, 0) != 0.2 || c.Float(LineWidth, 0) != 4 {
		t.Errorf("circle resolve failed: %v", c)
	}
	if p := r.Resolve(geom.KindPolygon, nil); p.Float(FillOpacity, 0) != 0.5 {
		t.Errorf("kind override leaked into polygon: %v", p[FillOpacity])
	}
	if err := r.Update(Style{LineColor: "red"}); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("expected ErrInvalidColor, got %v", err)
	}
	if err := r.Update(Style{FillOpacity: 1.5}); !errors.Is(err, ErrInvalidStyle) {
		t.Errorf("expected ErrInvalidStyle, got %v", err)
	}
}

func TestPalette(t *testing.T) {
	p, err := NewPalette("#29D1EA", "#D2FDDF")
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Add("#29d1ea"); err != nil {
		t.Fatal(err)
	}
	if got := p.Colors(); len(got) != 2 || got[0] != "#29d1ea" {
		t.Errorf("Add duplicated or did not normalise: %v", got)
	}
	if err := p.Delete("#d2fddf"); err != nil || len(p.Colors()) != 1 {
		t.Errorf("Delete failed: %v %v", p.Colors(), err)
	}
	if err := p.Set([]string{"#000000", "nope"}); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("expected ErrInvalidColor, got %v", err)
	}
	if len(p.Colors()) != 1 {
		t.Error("failed Set changed the palette")
	}
}

func TestPaletteLimit(t *testing.T) {
	var colors []string
	for i := 0; i < MaxPresetColors; i++ {
		colors = append(colors, fmt.Sprintf("#0000%02x", i))
	}
	p, err := NewPalette(colors...)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Add("#ffffff"); !errors.Is(err, ErrTooManyColors) {
		t.Errorf("expected ErrTooManyColors, got %v", err)
	}
	if err := p.Set(append(colors, "#ffffff")); !errors.Is(err, ErrTooManyColors) {
		t.Errorf("expected ErrTooManyColors, got %v", err)
	}
}
