package layer

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/paulmach/orb"
)

var (
	ErrLayerNotFound = errors.New("layer: not found")
	ErrEmpty         = errors.New("layer: no geometries found")
)

// Layer is a named set of geometries that drawing can snap to.
type Layer struct {
	ID    string
	Path  string // source file, empty for in-memory layers
	Geoms []orb.Geometry
	Bound orb.Bound
}

// Memory keeps layers in memory. It is safe for concurrent use: the watcher
// swaps layers from its own goroutine while the engine queries them.
// Geometries are replaced wholesale and never edited in place, so callers
// may hold on to what FeaturesNear returns.
type Memory struct {
	mu     sync.RWMutex
	layers map[string]*Layer
	order  []string
}

func NewMemory() *Memory {
	return &Memory{layers: map[string]*Layer{}}
}

// Put adds or replaces a layer.
func (m *Memory) Put(id string, geoms []orb.Geometry) {
	m.put(&Layer{ID: id, Geoms: geoms, Bound: boundOf(geoms)})
}

func (m *Memory) put(l *Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.layers[l.ID]; !ok {
		m.order = append(m.order, l.ID)
	}
	m.layers[l.ID] = l
}

// LoadFile reads path and stores it as layer id.
func (m *Memory) LoadFile(id, path string) error {
	geoms, err := LoadFile(path)
	if err != nil {
		return err
	}
	m.put(&Layer{ID: id, Path: path, Geoms: geoms, Bound: boundOf(geoms)})
	return nil
}

// Reload re-reads a file-backed layer. On error the previous content stays.
func (m *Memory) Reload(id string) error {
	l, err := m.Get(id)
	if err != nil {
		return err
	}
	if l.Path == "" {
		return nil
	}
	return m.LoadFile(id, l.Path)
}

func (m *Memory) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.layers[id]; !ok {
		return false
	}
	delete(m.layers, id)
	m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == id })
	return true
}

func (m *Memory) Has(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.layers[id]
	return ok
}

// Get returns a shallow copy of the layer.
func (m *Memory) Get(id string) (Layer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.layers[id]
	if !ok {
		return Layer{}, fmt.Errorf("%w: %q", ErrLayerNotFound, id)
	}
	return *l, nil
}

// IDs lists layers in the order they were first added.
func (m *Memory) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.order)
}

// FeaturesNear returns the geometries of layer id whose bound intersects b.
func (m *Memory) FeaturesNear(id string, b orb.Bound) ([]orb.Geometry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.layers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrLayerNotFound, id)
	}
	if !l.Bound.Intersects(b) {
		return nil, nil
	}
	var out []orb.Geometry
	for _, g := range l.Geoms {
		if g.Bound().Intersects(b) {
			out = append(out, g)
		}
	}
	return out, nil
}

func boundOf(geoms []orb.Geometry) orb.Bound {
	var b orb.Bound
	for i, g := range geoms {
		if i == 0 {
			b = g.Bound()
			continue
		}
		b = b.Union(g.Bound())
	}
	return b
}
