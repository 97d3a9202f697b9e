package tui

import (
	"os"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"geodraw/internal/config"
	"geodraw/internal/draw"
	"geodraw/internal/geom"
	"geodraw/internal/layer"
	"geodraw/internal/measure"
	"geodraw/internal/registry"
	"geodraw/internal/store"
)

// world is the view extent before anything is loaded.
var world = geom.BBox{MinX: -180, MinY: -85, MaxX: 180, MaxY: 85}

type inputMode int

const (
	inputNone inputMode = iota
	inputPaste
	inputLabel
)

// Options wire the host to its collaborators. Store and Logger may be nil.
type Options struct {
	Config *config.Config
	Logger *log.Logger
	Store  *store.Store
}

// session is shared by every copy of the Model bubbletea hands around.
type session struct {
	unsaved bool
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int
	bbox    geom.BBox

	status string

	// File explorer, picks the snap layer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// Engines
	annotations *draw.Engine
	measures    *draw.Engine
	measuring   bool
	session     *session

	// Snap layers
	layers  *layer.Memory
	watcher *layer.Watcher
	reloads chan reloadMsg

	cfg    *config.Config
	logger *log.Logger
	store  *store.Store

	// text input, for WKT paste and text labels
	input inputMode
	ta    textarea.Model

	// hover state
	hovering    bool
	hoverCellX  int
	hoverCellY  int
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64
	snapMicX    int
	snapMicY    int

	// features table
	showAttrs bool
	tbl       table.Model
	rowIDs    []string
}

func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Load()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	m := Model{
		showSidebar: false,
		helpVisible: true,
		zoom:        1.0,
		bbox:        world,
		status:      "geodraw ready",
		layers:      layer.NewMemory(),
		reloads:     make(chan reloadMsg, 8),
		session:     &session{},
		cfg:         cfg,
		logger:      logger,
		store:       opts.Store,
	}

	system, err := measure.ParseSystem(cfg.System)
	if err != nil {
		m.status = "config error: " + err.Error()
	}
	engineOpts := []draw.Option{
		draw.WithLogger(logger),
		draw.WithSystem(system),
		draw.WithSnapSource(m.layers),
		draw.WithSnapSettings(draw.SnapSettings{Tolerance: cfg.SnapTolerance}),
	}
	m.annotations = draw.New(registry.Annotations, engineOpts...)
	m.measures = draw.New(registry.Measures, engineOpts...)
	for _, e := range m.engines() {
		e.Listeners().On("tui", m.onEvent)
	}

	reloads := m.reloads
	w, err := layer.NewWatcher(m.layers, 200*time.Millisecond, logger, func(id string, err error) {
		select {
		case reloads <- reloadMsg{id: id, err: err}:
		default:
		}
	})
	if err != nil {
		logger.Warn("file watching disabled", "err", err)
	} else {
		m.watcher = w
		w.Start()
	}

	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Snap layers"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	if cfg.SnapLayer != "" {
		m.loadPath(cfg.SnapLayer)
	}
	return m
}

// NewWithPath preloads a snap layer at launch.
func NewWithPath(opts Options, path string) Model {
	m := New(opts)
	m.loadPath(path)
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForReload()}
	if m.store != nil {
		cmds = append(cmds, m.loadCmd())
	}
	return tea.Batch(cmds...)
}

// Close stops the file watcher.
func (m Model) Close() error {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.Close()
}

func (m Model) engines() []*draw.Engine {
	return []*draw.Engine{m.annotations, m.measures}
}

// eng is the engine clicks and keys currently go to.
func (m Model) eng() *draw.Engine {
	if m.measuring {
		return m.measures
	}
	return m.annotations
}

func (m Model) onEvent(ev draw.Event) {
	switch ev.Type {
	case draw.EventFeaturesChanged, draw.EventFeaturesDeleted:
		m.session.unsaved = true
	}
	m.logger.Debug("engine event", "type", ev.Type, "ids", len(ev.IDs), "state", ev.State)
}

