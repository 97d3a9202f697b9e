package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"geodraw/internal/geom"
	"geodraw/internal/style"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

var (
	ErrNotFound        = errors.New("registry: feature not found")
	ErrDuplicateID     = errors.New("registry: duplicate id")
	ErrUnsupportedKind = errors.New("registry: shape type not supported")
	ErrInvalidFeature  = errors.New("registry: invalid feature")
	ErrNoIDs           = errors.New("registry: empty id list")
)

// Kind tells annotation registries from measure registries.
type Kind int

const (
	Annotations Kind = iota
	Measures
)

func (k Kind) String() string {
	if k == Measures {
		return "measures"
	}
	return "annotations"
}

// Allows reports whether shapes of kind k may live in this kind of registry.
func (k Kind) Allows(s geom.Kind) bool {
	if k == Measures {
		return s == geom.KindLine || s == geom.KindPolygon || s == geom.KindCircle
	}
	return true
}

// NewID returns a random 32 hex character id.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Feature is a committed drawing. Length and Area are only set on measures,
// in the units of the active measurement system.
type Feature struct {
	ID     string
	Shape  geom.Shape
	Style  style.Style
	Length float64
	Area   float64
}

func (f *Feature) Kind() geom.Kind { return f.Shape.Kind() }

func (f *Feature) Clone() *Feature {
	c := *f
	c.Shape = f.Shape.Clone()
	c.Style = f.Style.Clone()
	return &c
}

// Registry owns the features of one kind. Reads hand out clones; every
// mutation either applies fully or returns an error with nothing changed.
// It is not safe for concurrent use.
type Registry struct {
	kind     Kind
	features map[string]*Feature
	order    []string
	selected map[string]bool
}

func New(kind Kind) *Registry {
	return &Registry{
		kind:     kind,
		features: make(map[string]*Feature),
		selected: make(map[string]bool),
	}
}

func (r *Registry) Kind() Kind { return r.kind }
func (r *Registry) Len() int   { return len(r.order) }

func (r *Registry) check(f *Feature) error {
	if f == nil || f.Shape == nil {
		return fmt.Errorf("%w: missing shape", ErrInvalidFeature)
	}
	if f.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidFeature)
	}
	if !r.kind.Allows(f.Kind()) {
		return fmt.Errorf("%w: %s in %s", ErrUnsupportedKind, f.Kind(), r.kind)
	}
	return nil
}

// Add stores a copy of f.
func (r *Registry) Add(f *Feature) error {
	if err := r.check(f); err != nil {
		return err
	}
	if _, ok := r.features[f.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, f.ID)
	}
	r.features[f.ID] = f.Clone()
	r.order = append(r.order, f.ID)
	return nil
}

func (r *Registry) Get(id string) (*Feature, error) {
	f, ok := r.features[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return f.Clone(), nil
}

func (r *Registry) Exists(id string) bool {
	_, ok := r.features[id]
	return ok
}

// IDs returns ids in insertion order.
func (r *Registry) IDs() []string { return slices.Clone(r.order) }

// All returns every feature in insertion order.
func (r *Registry) All() []*Feature {
	out := make([]*Feature, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.features[id].Clone())
	}
	return out
}

func (r *Registry) AllByKind(k geom.Kind) []*Feature {
	var out []*Feature
	for _, id := range r.order {
		if f := r.features[id]; f.Kind() == k {
			out = append(out, f.Clone())
		}
	}
	return out
}

// Geometries returns ids and flat geometries in insertion order, for hit tests.
func (r *Registry) Geometries() ([]string, []orb.Geometry) {
	ids := make([]string, 0, len(r.order))
	geoms := make([]orb.Geometry, 0, len(r.order))
	for _, id := range r.order {
		ids = append(ids, id)
		geoms = append(geoms, r.features[id].Shape.Geometry())
	}
	return ids, geoms
}

func (r *Registry) remove(match func(*Feature) bool) int {
	n := 0
	r.order = slices.DeleteFunc(r.order, func(id string) bool {
		if !match(r.features[id]) {
			return false
		}
		delete(r.features, id)
		delete(r.selected, id)
		n++
		return true
	})
	return n
}

// DeleteByIDs removes the listed features. If any id is missing nothing is
// removed and ErrNotFound is returned; an empty list fails with ErrNoIDs.
func (r *Registry) DeleteByIDs(ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, ErrNoIDs
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !r.Exists(id) {
			return 0, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		set[id] = true
	}
	return r.remove(func(f *Feature) bool { return set[f.ID] }), nil
}

// DeleteByKind removes every feature of shape kind k.
func (r *Registry) DeleteByKind(k geom.Kind) int {
	return r.remove(func(f *Feature) bool { return f.Kind() == k })
}

func (r *Registry) DeleteAll() int {
	n := len(r.order)
	r.features = make(map[string]*Feature)
	r.selected = make(map[string]bool)
	r.order = nil
	return n
}

// SetAll replaces the whole collection and clears the selection.
func (r *Registry) SetAll(fs []*Feature) error {
	features := make(map[string]*Feature, len(fs))
	order := make([]string, 0, len(fs))
	for _, f := range fs {
		if err := r.check(f); err != nil {
			return err
		}
		if _, ok := features[f.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, f.ID)
		}
		features[f.ID] = f.Clone()
		order = append(order, f.ID)
	}
	r.features, r.order = features, order
	r.selected = make(map[string]bool)
	return nil
}

// Update runs fn on a copy of feature id and stores the copy if fn succeeds.
func (r *Registry) Update(id string, fn func(*Feature) error) error {
	cur, ok := r.features[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	next := cur.Clone()
	if err := fn(next); err != nil {
		return err
	}
	next.ID = id
	if err := r.check(next); err != nil {
		return err
	}
	r.features[id] = next
	return nil
}

// UpdateAll runs fn on copies of every feature; all copies are stored only
// if fn succeeds for each.
func (r *Registry) UpdateAll(fn func(*Feature) error) error {
	next := make(map[string]*Feature, len(r.features))
	for _, id := range r.order {
		c := r.features[id].Clone()
		if err := fn(c); err != nil {
			return err
		}
		c.ID = id
		next[id] = c
	}
	r.features = next
	return nil
}

// ApplyStyle merges s into the style of every listed feature. Nothing
// changes if any id is missing or s is invalid.
func (r *Registry) ApplyStyle(ids []string, s style.Style) error {
	if err := s.Validate(); err != nil {
		return err
	}
	for _, id := range ids {
		if !r.Exists(id) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
	}
	for _, id := range ids {
		f := r.features[id]
		f.Style = style.Resolve(f.Style, s)
	}
	return nil
}
