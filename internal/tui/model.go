package tui

import (
	"context"
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"geoarcs/internal/dataset"
	"geoarcs/internal/geom"
	"geoarcs/internal/interaction"
	"geoarcs/internal/layers"
	"geoarcs/internal/selection"
)

// Deps wires the terminal renderer to the core.
type Deps struct {
	Store    *selection.Store
	Bridge   *interaction.Bridge
	Composer layers.Composer
	Loader   *dataset.Loader
	// Origin is loaded on Init; a URL or a file path.
	Origin string
	Log    *zap.Logger
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	status string

	// File explorer
	cwd   string
	l     list.Model
	items []list.Item

	// Core
	view     interaction.ViewState
	source   *dataset.Source
	store    *selection.Store
	bridge   *interaction.Bridge
	composer layers.Composer
	loader   *dataset.Loader
	origin   string
	log      *zap.Logger
	loading  bool

	// current layer stack and the pick index over the point layer
	layers []layers.Descriptor
	index  *pickIndex
	hidden map[string]bool

	// url prompt
	urlMode bool
	ta      textarea.Model

	// inspect popup
	inspectPopup string

	// hover state
	hovering    bool
	hoverCellX  int
	hoverCellY  int
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64
	hoverFeat   *geom.PointFeature

	// selected feature properties
	showAttrs bool
	tbl       table.Model
}

// datasetMsg carries a finished load back into the event loop.
type datasetMsg dataset.Result

func New(d Deps) Model {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	m := Model{
		helpVisible: true,
		zoom:        1.0,
		status:      "geoarcs ready",
		view:        d.Bridge.InitialView(),
		source:      &dataset.Source{},
		store:       d.Store,
		bridge:      d.Bridge,
		composer:    d.Composer,
		loader:      d.Loader,
		origin:      d.Origin,
		log:         log.Named("tui"),
		index:       newPickIndex(nil),
		hidden:      map[string]bool{},
	}
	m.cwd, _ = os.Getwd()
	// list setup
	dl := list.NewDefaultDelegate()
	dl.ShowDescription = false
	m.l = list.New(nil, dl, 0, 0)
	m.l.Title = "Datasets"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// url prompt setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Dataset URL or path (GeoJSON FeatureCollection). Enter to load; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.ShowLineNumbers = false
	m.ta.SetWidth(50)
	m.ta.SetHeight(3)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	m.recompose()
	return m
}

func (m Model) Init() tea.Cmd {
	if m.origin == "" {
		return nil
	}
	return m.loadCmd(m.origin)
}

// loadCmd runs the dataset load off the event loop; the result comes back as
// a datasetMsg.
func (m *Model) loadCmd(origin string) tea.Cmd {
	m.loading = true
	m.status = "loading " + origin
	loader := m.loader
	return func() tea.Msg {
		return datasetMsg(loader.Load(context.Background(), origin))
	}
}

// recompose rebuilds the layer stack from the dataset and the current
// selection snapshot.
func (m *Model) recompose() {
	m.layers = m.composer.ComposeFrom(m.source, m.store.Snapshot())
}

func (m *Model) applyDataset(res dataset.Result) {
	m.loading = false
	if res.Err != nil {
		m.status = "load error: " + res.Err.Error()
		return
	}
	m.source.Resolve(res.Features, res.Origin)
	m.index = newPickIndex(res.Features)
	m.hoverFeat = nil
	m.recompose()
	m.status = "loaded: " + res.Origin + statusCounts(len(res.Features), res.Stats.Skipped())
}
