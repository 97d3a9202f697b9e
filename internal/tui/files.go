package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"

	"geodraw/internal/layer"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if slices.Contains(layer.Extensions, ext) {
			items = append(items, fileItem{title: name, desc: ext, path: filepath.Join(m.cwd, name)})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// loadPath loads p as a snap layer, makes it the snap target of both engines
// and starts watching it for changes.
func (m *Model) loadPath(p string) {
	id := filepath.Base(p)
	if err := m.layers.LoadFile(id, p); err != nil {
		m.status = "load error: " + err.Error()
		return
	}
	m.selPath = p
	for _, e := range m.engines() {
		if err := e.SetSnapLayer(id); err != nil {
			m.status = "snap error: " + err.Error()
			return
		}
		e.SetSnapEnabled(true)
	}
	if m.watcher != nil {
		if err := m.watcher.Watch(id); err != nil {
			m.logger.Warn("cannot watch layer", "layer", id, "err", err)
		}
	}
	l, _ := m.layers.Get(id)
	m.fit()
	m.status = "snap layer: " + id + fmt.Sprintf("  geometries=%d", len(l.Geoms))
	m.logger.Info("snap layer loaded", "layer", id, "path", p, "geometries", len(l.Geoms))
}
