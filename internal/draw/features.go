package draw

import (
	"geodraw/internal/geom"
	"geodraw/internal/registry"
	"geodraw/internal/style"

	"github.com/paulmach/orb"
)

func (e *Engine) Features() []*registry.Feature { return e.reg.All() }

func (e *Engine) FeaturesByKind(k geom.Kind) []*registry.Feature { return e.reg.AllByKind(k) }

func (e *Engine) Feature(id string) (*registry.Feature, error) { return e.reg.Get(id) }

func (e *Engine) Exists(id string) bool { return e.reg.Exists(id) }

// SetSelecting enters or leaves the Selecting state.
func (e *Engine) SetSelecting(on bool) {
	switch {
	case on:
		e.SetMode(ModeSelect)
	case e.mode == ModeSelect:
		e.SetMode(ModeDraw)
	}
}

func (e *Engine) SelectedIDs() []string { return e.reg.SelectedIDs() }

func (e *Engine) IsSelected(id string) bool { return e.reg.IsSelected(id) }

func (e *Engine) ClearSelection() { e.reg.ClearSelection() }

// hit finds the committed feature under p.
func (e *Engine) hit(p orb.Point) (string, bool) {
	ids, geoms := e.reg.Geometries()
	i, ok := e.snapper.Hit(p, geoms, e.hitTolerance)
	if !ok {
		return "", false
	}
	return ids[i], true
}

// ToggleSelectionAt flips the selection of the feature under p. It reports
// the id and whether anything was hit.
func (e *Engine) ToggleSelectionAt(p orb.Point) (string, bool, error) {
	if e.state != Selecting {
		return "", false, ErrNotSelecting
	}
	id, ok := e.hit(p)
	if !ok {
		return "", false, nil
	}
	if _, err := e.reg.Toggle(id); err != nil {
		return "", false, err
	}
	return id, true, nil
}

// ToggleSelection flips the selection of feature id.
func (e *Engine) ToggleSelection(id string) (bool, error) { return e.reg.Toggle(id) }

// deleted reports a removal that already happened.
func (e *Engine) deleted(ids []string) int {
	if len(ids) == 0 {
		return 0
	}
	e.logger.Debug("features deleted", "count", len(ids))
	e.listeners.Emit(Event{Type: EventFeaturesDeleted, IDs: ids, State: Deleting, Mode: e.mode, System: e.system})
	e.emit(EventFeaturesChanged, ids...)
	return len(ids)
}

// gone lists the ids of before no longer in the registry.
func (e *Engine) gone(before []string) []string {
	var out []string
	for _, id := range before {
		if !e.reg.Exists(id) {
			out = append(out, id)
		}
	}
	return out
}

// DeleteAt removes the feature under p, if any.
func (e *Engine) DeleteAt(p orb.Point) (string, bool) {
	id, ok := e.hit(p)
	if !ok {
		return "", false
	}
	if _, err := e.reg.DeleteByIDs([]string{id}); err != nil {
		return "", false
	}
	e.deleted([]string{id})
	return id, true
}

// DeleteSelected removes every selected feature and returns the count.
func (e *Engine) DeleteSelected() int {
	before := e.reg.IDs()
	e.reg.DeleteSelected()
	return e.deleted(e.gone(before))
}

func (e *Engine) DeleteAll() int {
	before := e.reg.IDs()
	e.reg.DeleteAll()
	return e.deleted(before)
}

func (e *Engine) DeleteByKind(k geom.Kind) int {
	before := e.reg.IDs()
	e.reg.DeleteByKind(k)
	return e.deleted(e.gone(before))
}

func (e *Engine) DeleteAllLines() int    { return e.DeleteByKind(geom.KindLine) }
func (e *Engine) DeleteAllPolygons() int { return e.DeleteByKind(geom.KindPolygon) }
func (e *Engine) DeleteAllCircles() int  { return e.DeleteByKind(geom.KindCircle) }

// DeleteByIDs removes the listed features, or none if any id is unknown.
func (e *Engine) DeleteByIDs(ids []string) (int, error) {
	before := e.reg.IDs()
	if _, err := e.reg.DeleteByIDs(ids); err != nil {
		return 0, err
	}
	return e.deleted(e.gone(before)), nil
}

// edit applies fn to the shape of a committed feature and recomputes its
// measures. Nothing is stored if fn fails.
func (e *Engine) edit(id string, fn func(geom.Shape) error) error {
	err := e.reg.Update(id, func(f *registry.Feature) error {
		if err := fn(f.Shape); err != nil {
			return err
		}
		e.measure(f)
		return nil
	})
	if err != nil {
		return err
	}
	e.emit(EventFeaturesChanged, id)
	return nil
}

// UpdateCoordinate moves the vertex at path of feature id to p (snapped).
func (e *Engine) UpdateCoordinate(id string, path geom.Path, p orb.Point) error {
	q, err := e.snapped(p)
	if err != nil {
		return err
	}
	return e.edit(id, func(s geom.Shape) error { return s.Set(path, q) })
}

// InsertCoordinate inserts p (snapped) before the vertex at path.
func (e *Engine) InsertCoordinate(id string, path geom.Path, p orb.Point) error {
	q, err := e.snapped(p)
	if err != nil {
		return err
	}
	return e.edit(id, func(s geom.Shape) error { return s.Insert(path, q) })
}

func (e *Engine) RemoveCoordinate(id string, path geom.Path) error {
	return e.edit(id, func(s geom.Shape) error { return s.Remove(path) })
}

// Style returns the defaults applied to features drawn from now on.
func (e *Engine) Style() style.Style { return e.styles.Defaults() }

func (e *Engine) UpdateStyle(s style.Style) error { return e.styles.Update(s) }

func (e *Engine) SetKindStyle(k geom.Kind, s style.Style) error {
	return e.styles.SetKindDefaults(k, s)
}

// SetStyleByIDs merges s into the listed features, all or none.
func (e *Engine) SetStyleByIDs(ids []string, s style.Style) error {
	if err := e.reg.ApplyStyle(ids, s); err != nil {
		return err
	}
	e.emit(EventFeaturesChanged, ids...)
	return nil
}

func (e *Engine) PresetColors() []string                { return e.palette.Colors() }
func (e *Engine) SetPresetColors(colors []string) error { return e.palette.Set(colors) }
func (e *Engine) AddPresetColor(c string) error         { return e.palette.Add(c) }
func (e *Engine) DeletePresetColor(c string) error      { return e.palette.Delete(c) }
