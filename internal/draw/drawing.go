package draw

import (
	"fmt"

	"geodraw/internal/geom"
	"geodraw/internal/registry"

	"github.com/paulmach/orb"
)

// StartDrawing begins a new feature of kind k, discarding any feature in
// progress. The id is assigned now and kept once committed.
func (e *Engine) StartDrawing(k geom.Kind) error {
	if !e.reg.Kind().Allows(k) {
		return fmt.Errorf("%w: %s", ErrUnsupportedKind, k)
	}
	shape, err := geom.New(k)
	if err != nil {
		return err
	}
	e.drawKind = k
	e.mode = ModeDraw
	e.partial = &registry.Feature{
		ID:    registry.NewID(),
		Shape: shape,
		Style: e.styles.Resolve(k, nil),
	}
	e.state = Idle
	e.setState(Drawing)
	return nil
}

// Partial returns a copy of the feature being drawn, nil outside Drawing.
func (e *Engine) Partial() *registry.Feature {
	if e.partial == nil {
		return nil
	}
	f := e.partial.Clone()
	e.measure(f)
	return f
}

// AddCoordinate appends p, snapped when enabled, to the feature in progress
// and returns the coordinate actually used.
func (e *Engine) AddCoordinate(p orb.Point) (orb.Point, error) {
	if e.state != Drawing {
		return p, ErrNotDrawing
	}
	q, err := e.snapped(p)
	if err != nil {
		return p, err
	}
	if q != p {
		e.logger.Debug("snapped", "from", p, "to", q)
	}
	e.partial.Shape.Append(q)
	return q, nil
}

// MoveDrawnCoordinate moves a vertex of the feature in progress.
func (e *Engine) MoveDrawnCoordinate(path geom.Path, p orb.Point) error {
	if e.state != Drawing {
		return ErrNotDrawing
	}
	q, err := e.snapped(p)
	if err != nil {
		return err
	}
	return e.partial.Shape.Set(path, q)
}

// RemoveLastDrawnCoordinate undoes the last added coordinate. Unlike Remove
// on committed features it ignores the minimum vertex count.
func (e *Engine) RemoveLastDrawnCoordinate() error {
	if e.state != Drawing {
		return ErrNotDrawing
	}
	e.partial.Shape.Pop()
	return nil
}

// SetDrawnText sets the label of a text in progress.
func (e *Engine) SetDrawnText(label string) error {
	if e.state != Drawing {
		return ErrNotDrawing
	}
	t, ok := e.partial.Shape.(*geom.Text)
	if !ok {
		return ErrNotText
	}
	t.Label = label
	return nil
}

// Finalize commits the feature in progress. An invalid shape fails with
// ErrIncompleteGeometry and drawing continues.
func (e *Engine) Finalize() (*registry.Feature, error) {
	if e.state != Drawing {
		return nil, ErrNotDrawing
	}
	f := e.partial
	if !f.Shape.Valid() {
		return nil, fmt.Errorf("%w: %s with %d coordinates", ErrIncompleteGeometry, f.Kind(), f.Shape.Len())
	}
	e.measure(f)
	if err := e.reg.Add(f); err != nil {
		return nil, err
	}
	e.partial = nil
	e.logger.Debug("feature finalized", "id", f.ID, "kind", f.Kind(), "length", f.Length, "area", f.Area)
	e.setState(Idle)
	e.emit(EventFeatureFinalized, f.ID)
	e.emit(EventFeaturesChanged, f.ID)
	return f.Clone(), nil
}

// Cancel discards the feature in progress without touching the registry.
func (e *Engine) Cancel() {
	if e.state != Drawing {
		return
	}
	e.partial = nil
	e.setState(Idle)
}
