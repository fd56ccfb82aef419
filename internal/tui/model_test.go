package tui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoarcs/internal/dataset"
	"geoarcs/internal/geom"
	"geoarcs/internal/interaction"
	"geoarcs/internal/layers"
	"geoarcs/internal/selection"
)

var testFeatures = geom.FeatureCollection{
	{ID: "A", Coordinates: orb.Point{0.45, 51.47}, Rank: 2},
	{ID: "B", Coordinates: orb.Point{20, 51.47}, Rank: 7},
}

func newTestModel(t *testing.T, opts ...interaction.Option) Model {
	t.Helper()
	store := selection.NewStore(50, geom.Miles)
	m := New(Deps{
		Store:    store,
		Bridge:   interaction.NewBridge(store, opts...),
		Composer: layers.NewComposer(layers.DefaultOptions()),
		Loader:   dataset.NewLoader(geom.DefaultRankProperty, time.Second, nil),
	})
	m = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return step(t, m, datasetMsg{Origin: "test", Features: testFeatures})
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func clickAt(t *testing.T, m Model, lon, lat float64) Model {
	t.Helper()
	ox, oy, w, h := m.mapRect()
	cx, cy, ok := m.screenXY(lon, lat, w, h)
	require.True(t, ok)
	return step(t, m, tea.MouseMsg{X: ox + cx, Y: oy + cy, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPickIndex(t *testing.T) {
	ix := newPickIndex(testFeatures)

	f, ok := ix.pick(0.5, 51.5, 1, 1).Feature()
	require.True(t, ok)
	assert.Equal(t, "A", f.ID)

	assert.False(t, ix.pick(10, 51.47, 1, 1).IsHit())
	assert.False(t, newPickIndex(nil).pick(0, 0, 1, 1).IsHit())
	assert.False(t, ix.pick(0.45, 51.47, 0, 0).IsHit())
}

func TestPickIndex_TieGoesToEarlierFeature(t *testing.T) {
	fc := geom.FeatureCollection{
		{ID: "first", Coordinates: orb.Point{1, 1}},
		{ID: "second", Coordinates: orb.Point{1, 1}},
	}
	f, ok := newPickIndex(fc).pick(1, 1, 0.5, 0.5).Feature()
	require.True(t, ok)
	assert.Equal(t, "first", f.ID)
}

func TestPickIndex_AcrossAntimeridian(t *testing.T) {
	fc := geom.FeatureCollection{
		{ID: "suva", Coordinates: orb.Point{-179.95, -18}},
		{ID: "far", Coordinates: orb.Point{170, -18}},
	}
	ix := newPickIndex(fc)

	f, ok := ix.pick(179.9, -18, 0.5, 0.5).Feature()
	require.True(t, ok)
	assert.Equal(t, "suva", f.ID)

	// an unwrapped cursor longitude lands on the same feature
	f, ok = ix.pick(180.2, -18, 0.5, 0.5).Feature()
	require.True(t, ok)
	assert.Equal(t, "suva", f.ID)

	assert.False(t, ix.pick(179.0, -18, 0.5, 0.5).IsHit())
}

func TestDatasetMsg_ResolvesAndComposes(t *testing.T) {
	m := newTestModel(t)
	require.True(t, m.source.Loaded())
	assert.False(t, m.loading)
	assert.Contains(t, m.status, "features=2")

	pts, ok := layers.Find(m.layers, layers.PointsID)
	require.True(t, ok)
	assert.Len(t, pts.Data.Points, 2)
	arcs, ok := layers.Find(m.layers, layers.ArcsID)
	require.True(t, ok)
	assert.Len(t, arcs.Data.Arcs, 1, "only rank < 4 gets an arc")
}

func TestDatasetMsg_ErrorKeepsPreviousData(t *testing.T) {
	m := newTestModel(t)
	m = step(t, m, datasetMsg{Origin: "bad", Err: errors.New("boom")})
	assert.Contains(t, m.status, "boom")
	fc, err := m.source.Features()
	require.NoError(t, err)
	assert.Len(t, fc, 2)
}

func TestClick_SelectsFeatureAndComposesBuffer(t *testing.T) {
	m := newTestModel(t)
	m = clickAt(t, m, 0.45, 51.47)

	f, ok := m.store.Snapshot().Selected()
	require.True(t, ok)
	assert.Equal(t, "A", f.ID)
	buf, ok := layers.Find(m.layers, layers.BufferID)
	require.True(t, ok)
	require.Len(t, buf.Data.Polygon, 1)
	assert.Len(t, buf.Data.Polygon[0], geom.BufferSegments+1)

	m = clickAt(t, m, 20, 51.47)
	f, _ = m.store.Snapshot().Selected()
	assert.Equal(t, "B", f.ID)
}

func TestClick_MissLeavesSelection(t *testing.T) {
	m := newTestModel(t)
	m = clickAt(t, m, 0.45, 51.47)
	m = clickAt(t, m, 10, 40)

	f, ok := m.store.Snapshot().Selected()
	require.True(t, ok)
	assert.Equal(t, "A", f.ID)
}

func TestClick_MissClearsWhenConfigured(t *testing.T) {
	m := newTestModel(t, interaction.WithClearOnMiss(true))
	m = clickAt(t, m, 0.45, 51.47)
	m = clickAt(t, m, 10, 40)

	assert.False(t, m.store.Snapshot().IsSelected())
	buf, _ := layers.Find(m.layers, layers.BufferID)
	assert.True(t, buf.Data.Empty())
}

func TestHover_TracksFeature(t *testing.T) {
	m := newTestModel(t)
	ox, oy, w, h := m.mapRect()
	cx, cy, _ := m.screenXY(20, 51.47, w, h)
	m = step(t, m, tea.MouseMsg{X: ox + cx, Y: oy + cy, Action: tea.MouseActionMotion})

	require.NotNil(t, m.hoverFeat)
	assert.Equal(t, "B", m.hoverFeat.ID)
	assert.True(t, m.hoverHasGeo)
	assert.False(t, m.store.Snapshot().IsSelected())
}

func TestKeys_ToggleLayers(t *testing.T) {
	m := newTestModel(t)
	m = step(t, m, key("2"))
	assert.True(t, m.hidden[layers.ArcsID])
	m = step(t, m, key("2"))
	assert.False(t, m.hidden[layers.ArcsID])

	m = step(t, m, key("l"))
	for _, id := range layerKeys {
		assert.True(t, m.hidden[id])
	}
}

func TestKeys_EscClosesPopupsOnly(t *testing.T) {
	m := newTestModel(t)
	m = clickAt(t, m, 0.45, 51.47)
	m = step(t, m, key("i"))
	require.NotEmpty(t, m.inspectPopup)
	assert.Contains(t, m.inspectPopup, "distance: 0.0 km")

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.inspectPopup)
	assert.True(t, m.store.Snapshot().IsSelected(), "only picks change the selection")
}

func TestProjection_RoundTrip(t *testing.T) {
	m := newTestModel(t)
	_, _, w, h := m.mapRect()
	cx, cy, ok := m.screenXY(0.45, 51.47, w, h)
	require.True(t, ok)
	lon, lat, ok := m.cellToLonLat(cx, cy, w, h)
	require.True(t, ok)
	tolLon, tolLat := m.pickTolerance(w, h)
	assert.InDelta(t, 0.45, lon, tolLon)
	assert.InDelta(t, 51.47, lat, tolLat)
}

func TestView_RendersSelection(t *testing.T) {
	m := newTestModel(t)
	m = clickAt(t, m, 0.45, 51.47)
	out := m.View()
	assert.Contains(t, out, "geoarcs")
	assert.Contains(t, out, "◉")
}

func TestOpenPath_LoadsLocalFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "pts.geojson")
	require.NoError(t, os.WriteFile(p, []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"scalerank":3},"geometry":{"type":"Point","coordinates":[1,2]}}]}`), 0o644))

	m := newTestModel(t)
	cmd := m.openPath(p)
	require.NotNil(t, cmd)
	m = step(t, m, cmd())
	fc, err := m.source.Features()
	require.NoError(t, err)
	require.Len(t, fc, 1)
	assert.Equal(t, p, m.source.Origin())

	assert.Nil(t, m.openPath(filepath.Join(dir, "x.shp")))
}
