package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"GEODRAW_SYSTEM", "GEODRAW_SNAP_TOLERANCE", "GEODRAW_SET"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.System != "geodetic" || c.SnapTolerance != 10 || c.Set != "default" {
		t.Errorf("unexpected defaults: %+v", c)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("GEODRAW_SYSTEM", "planar")
	t.Setenv("GEODRAW_SNAP_TOLERANCE", "2.5")
	t.Setenv("GEODRAW_SNAP_LAYER", "roads.geojson")
	t.Setenv("GEODRAW_LOG_LEVEL", "debug")
	c := Load()
	if c.System != "planar" || c.SnapTolerance != 2.5 || c.SnapLayer != "roads.geojson" || c.LogLevel != "debug" {
		t.Errorf("env not applied: %+v", c)
	}
}

func TestLoadBadFloat(t *testing.T) {
	t.Setenv("GEODRAW_SNAP_TOLERANCE", "wide")
	if c := Load(); c.SnapTolerance != 10 {
		t.Errorf("expected fallback 10, got %v", c.SnapTolerance)
	}
}
