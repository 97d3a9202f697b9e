package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb/geojson"

	"geodraw/internal/store"
)

const storeTimeout = 5 * time.Second

// reloadMsg reports a snap layer reloaded by the file watcher.
type reloadMsg struct {
	id  string
	err error
}

type savedMsg struct {
	set string
	err error
}

type loadedMsg struct {
	set                   string
	annotations, measures *geojson.FeatureCollection
	err                   error
}

func (m Model) waitForReload() tea.Cmd {
	ch := m.reloads
	return func() tea.Msg { return <-ch }
}

// saveCmd exports both engines now and writes them to the store in the
// background.
func (m Model) saveCmd() tea.Cmd {
	if m.store == nil {
		return nil
	}
	st, set := m.store, m.cfg.Set
	ann, meas := m.annotations.Export(), m.measures.Export()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := st.Save(ctx, store.AnnotationsSet(set), ann); err != nil {
			return savedMsg{set: set, err: err}
		}
		return savedMsg{set: set, err: st.Save(ctx, store.MeasuresSet(set), meas)}
	}
}

func (m Model) loadCmd() tea.Cmd {
	if m.store == nil {
		return nil
	}
	st, set := m.store, m.cfg.Set
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		msg := loadedMsg{set: set}
		msg.annotations, msg.err = st.Load(ctx, store.AnnotationsSet(set))
		if msg.err != nil {
			return msg
		}
		msg.measures, msg.err = st.Load(ctx, store.MeasuresSet(set))
		return msg
	}
}

// applyLoaded imports a stored set. A set never saved is not an error.
func (m *Model) applyLoaded(msg loadedMsg) {
	if errors.Is(msg.err, store.ErrSetNotFound) {
		m.status = "new set: " + msg.set
		return
	}
	if msg.err != nil {
		m.status = "store error: " + msg.err.Error()
		return
	}
	prev, unsaved := m.annotations.Features(), m.session.unsaved
	if err := m.annotations.Import(msg.annotations); err != nil {
		m.status = "import error: " + err.Error()
		return
	}
	if err := m.measures.Import(msg.measures); err != nil {
		// both registries load or neither does
		if rerr := m.annotations.SetAll(prev); rerr != nil {
			m.logger.Error("restore annotations", "err", rerr)
		}
		m.session.unsaved = unsaved
		m.status = "import error: " + err.Error()
		return
	}
	m.session.unsaved = false
	m.fit()
	m.status = "loaded set: " + msg.set
	m.logger.Info("set loaded", "set", msg.set,
		"annotations", len(msg.annotations.Features), "measures", len(msg.measures.Features))
}
