package draw

import (
	"geodraw/internal/measure"
)

// EventType identifies engine notifications.
type EventType int

const (
	EventModeChanged EventType = iota
	EventFeatureFinalized
	EventFeaturesDeleted
	EventSystemChanged
	EventFeaturesChanged
)

func (t EventType) String() string {
	switch t {
	case EventModeChanged:
		return "mode_changed"
	case EventFeatureFinalized:
		return "feature_finalized"
	case EventFeaturesDeleted:
		return "features_deleted"
	case EventSystemChanged:
		return "system_changed"
	case EventFeaturesChanged:
		return "features_changed"
	}
	return "unknown"
}

// Event is passed to listeners. IDs lists the features concerned, if any.
type Event struct {
	Type   EventType
	IDs    []string
	State  State
	Mode   Mode
	System measure.System
}

// Listener is called synchronously from the engine call that caused the event.
type Listener func(Event)

type listenerEntry struct {
	fn      Listener
	enabled bool
}

// Listeners is a keyed subscriber table. Deactivating a listener keeps it
// registered but mutes it.
type Listeners struct {
	entries map[string]*listenerEntry
	order   []string
}

func newListeners() *Listeners {
	return &Listeners{entries: map[string]*listenerEntry{}}
}

// On registers fn under id, replacing any listener with the same id. New
// listeners start enabled.
func (l *Listeners) On(id string, fn Listener) {
	if _, ok := l.entries[id]; !ok {
		l.order = append(l.order, id)
	}
	l.entries[id] = &listenerEntry{fn: fn, enabled: true}
}

func (l *Listeners) Activate(id string) bool   { return l.setEnabled(id, true) }
func (l *Listeners) Deactivate(id string) bool { return l.setEnabled(id, false) }

func (l *Listeners) setEnabled(id string, on bool) bool {
	e, ok := l.entries[id]
	if ok {
		e.enabled = on
	}
	return ok
}

func (l *Listeners) Remove(id string) bool {
	if _, ok := l.entries[id]; !ok {
		return false
	}
	delete(l.entries, id)
	for i, o := range l.order {
		if o == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return true
}

func (l *Listeners) Exists(id string) bool {
	_, ok := l.entries[id]
	return ok
}

// Emit calls enabled listeners in registration order.
func (l *Listeners) Emit(ev Event) {
	for _, id := range append([]string(nil), l.order...) {
		if e, ok := l.entries[id]; ok && e.enabled {
			e.fn(ev)
		}
	}
}
