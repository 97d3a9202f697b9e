package draw

import (
	"errors"
	"fmt"
	"io"

	"geodraw/internal/geom"
	"geodraw/internal/layer"
	"geodraw/internal/measure"
	"geodraw/internal/registry"
	"geodraw/internal/snap"
	"geodraw/internal/style"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var (
	ErrIncompleteGeometry = errors.New("draw: incomplete geometry")
	ErrNotDrawing         = errors.New("draw: not drawing")
	ErrNotSelecting       = errors.New("draw: not selecting")
	ErrNotText            = errors.New("draw: feature in progress is not a text")
	ErrUnsupportedKind    = registry.ErrUnsupportedKind
)

// SnapSettings select the layer new and moved vertices are pulled toward.
// Tolerance is in plane units of the engine projector.
type SnapSettings struct {
	LayerID   string
	Enabled   bool
	Tolerance float64
}

// Engine drives drawing, selection and deletion for one registry of
// annotations or measures. It is meant to be called from a single event
// loop and is not safe for concurrent use.
type Engine struct {
	reg     *registry.Registry
	styles  *style.Resolver
	palette *style.Palette
	calc    measure.Calculator
	snapper *snap.Engine
	logger  *log.Logger

	snapSettings SnapSettings
	hitTolerance float64
	system       measure.System

	state    State
	mode     Mode
	drawKind geom.Kind
	partial  *registry.Feature

	listeners *Listeners
}

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithProjector sets the plane used by planar measures, snapping and hit tests.
func WithProjector(p geom.Projector) Option {
	return func(e *Engine) {
		e.calc.Projector = p
		e.snapper.Projector = p
	}
}

func WithSnapSource(src snap.LayerSource) Option {
	return func(e *Engine) { e.snapper.Source = src }
}

func WithSnapSettings(s SnapSettings) Option {
	return func(e *Engine) { e.snapSettings = s }
}

// WithHitTolerance sets how far (in plane units) a click may be from a
// feature to select or delete it.
func WithHitTolerance(t float64) Option {
	return func(e *Engine) { e.hitTolerance = t }
}

func WithSystem(s measure.System) Option {
	return func(e *Engine) { e.system = s }
}

func WithResolver(r *style.Resolver) Option {
	return func(e *Engine) { e.styles = r }
}

// New returns an idle engine over an empty registry of the given kind.
func New(kind registry.Kind, opts ...Option) *Engine {
	palette, _ := style.NewPalette()
	e := &Engine{
		reg:          registry.New(kind),
		styles:       style.NewResolver(),
		palette:      palette,
		calc:         measure.NewCalculator(geom.WebMercator),
		snapper:      snap.New(nil, geom.WebMercator),
		logger:       log.New(io.Discard),
		snapSettings: SnapSettings{Tolerance: 10},
		hitTolerance: 10,
		listeners:    newListeners(),
	}
	if kind == registry.Measures {
		e.drawKind = geom.KindLine
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) Kind() registry.Kind        { return e.reg.Kind() }
func (e *Engine) State() State               { return e.state }
func (e *Engine) Mode() Mode                 { return e.mode }
func (e *Engine) DrawKind() geom.Kind        { return e.drawKind }
func (e *Engine) System() measure.System     { return e.system }
func (e *Engine) Listeners() *Listeners      { return e.listeners }
func (e *Engine) SnapSettings() SnapSettings { return e.snapSettings }

func (e *Engine) emit(t EventType, ids ...string) {
	e.listeners.Emit(Event{Type: t, IDs: ids, State: e.state, Mode: e.mode, System: e.system})
}

func (e *Engine) setState(s State) {
	if e.state == s {
		return
	}
	e.logger.Debug("state", "from", e.state, "to", s)
	e.state = s
	e.emit(EventModeChanged)
}

// SetMode switches the click behaviour. Select mode rests in Selecting, the
// other modes in Idle; a drawing in progress is discarded.
func (e *Engine) SetMode(m Mode) {
	if m == e.mode {
		return
	}
	e.partial = nil
	e.mode = m
	next := Idle
	if m == ModeSelect {
		next = Selecting
	}
	e.logger.Debug("mode", "mode", m, "state", next)
	e.state = next
	e.emit(EventModeChanged)
}

// SetDrawKind chooses the shape drawn by the next click in draw mode.
func (e *Engine) SetDrawKind(k geom.Kind) error {
	if !e.reg.Kind().Allows(k) {
		return fmt.Errorf("%w: %s", ErrUnsupportedKind, k)
	}
	e.drawKind = k
	return nil
}

// Click routes a pointer click according to the mode. It reports the ids
// of features selected, deselected or deleted, if any.
func (e *Engine) Click(p orb.Point) ([]string, error) {
	switch e.mode {
	case ModeSelect:
		id, ok, err := e.ToggleSelectionAt(p)
		if err != nil || !ok {
			return nil, err
		}
		return []string{id}, nil
	case ModeDelete:
		id, ok := e.DeleteAt(p)
		if !ok {
			return nil, nil
		}
		return []string{id}, nil
	}
	if e.state != Drawing {
		if err := e.StartDrawing(e.drawKind); err != nil {
			return nil, err
		}
	}
	if _, err := e.AddCoordinate(p); err != nil {
		return nil, err
	}
	if e.drawKind == geom.KindPoint {
		f, err := e.Finalize()
		if err != nil {
			return nil, err
		}
		return []string{f.ID}, nil
	}
	return nil, nil
}

// snapped corrects p toward the snap layer when snapping is on.
func (e *Engine) snapped(p orb.Point) (orb.Point, error) {
	s := e.snapSettings
	if !s.Enabled || s.LayerID == "" {
		return p, nil
	}
	r, ok, err := e.snapper.FindSnap(p, s.LayerID, s.Tolerance)
	if err != nil {
		return p, err
	}
	if !ok {
		return p, nil
	}
	return r.Point, nil
}

// SnapPreview returns where a coordinate added at p would land.
func (e *Engine) SnapPreview(p orb.Point) orb.Point {
	q, err := e.snapped(p)
	if err != nil {
		return p
	}
	return q
}

func (e *Engine) SetSnapEnabled(on bool) { e.snapSettings.Enabled = on }

func (e *Engine) SetSnapTolerance(t float64) { e.snapSettings.Tolerance = t }

func (e *Engine) SetHitTolerance(t float64) { e.hitTolerance = t }

// SetSnapLayer selects the target layer; an empty id clears it. When the
// layer source can tell, unknown layers are rejected.
func (e *Engine) SetSnapLayer(id string) error {
	if h, ok := e.snapper.Source.(interface{ Has(string) bool }); ok && id != "" && !h.Has(id) {
		return fmt.Errorf("%w: %q", layer.ErrLayerNotFound, id)
	}
	e.snapSettings.LayerID = id
	return nil
}

// SetSystem switches geodetic/planar measurement and recomputes every
// measure feature. Geometries are untouched.
func (e *Engine) SetSystem(s measure.System) {
	if s == e.system {
		return
	}
	e.system = s
	_ = e.reg.UpdateAll(func(f *registry.Feature) error {
		e.measure(f)
		return nil
	})
	e.logger.Debug("measurement system", "system", s)
	e.emit(EventSystemChanged)
	e.emit(EventFeaturesChanged, e.reg.IDs()...)
}

func (e *Engine) measure(f *registry.Feature) {
	if e.reg.Kind() != registry.Measures {
		return
	}
	f.Length, f.Area = e.calc.Measure(f.Shape, e.system)
}

// Totals sums length and area over all measure features.
func (e *Engine) Totals() measure.Totals {
	fs := e.reg.All()
	lengths := make([]float64, len(fs))
	areas := make([]float64, len(fs))
	for i, f := range fs {
		lengths[i], areas[i] = f.Length, f.Area
	}
	return measure.Sum(lengths, areas)
}

// Export returns every committed feature as GeoJSON.
func (e *Engine) Export() *geojson.FeatureCollection {
	return registry.ToGeoJSON(e.reg.All(), e.reg.Kind() == registry.Measures)
}

// Import replaces the registry with the features of fc. On any error the
// registry is left as it was.
func (e *Engine) Import(fc *geojson.FeatureCollection) error {
	fs, err := registry.FromGeoJSON(fc)
	if err != nil {
		return err
	}
	return e.SetAll(fs)
}

// SetAll replaces the registry. Styles are resolved against the current
// defaults and measures are recomputed in the active system.
func (e *Engine) SetAll(fs []*registry.Feature) error {
	next := make([]*registry.Feature, len(fs))
	for i, f := range fs {
		c := f.Clone()
		c.Style = e.styles.Resolve(c.Kind(), c.Style)
		e.measure(c)
		next[i] = c
	}
	if err := e.reg.SetAll(next); err != nil {
		return err
	}
	e.logger.Debug("features replaced", "count", len(next))
	e.emit(EventFeaturesChanged, e.reg.IDs()...)
	return nil
}
