package layers

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoarcs/internal/geom"
	"geoarcs/internal/selection"
)

func scenarioDataset() geom.FeatureCollection {
	return geom.FeatureCollection{
		{ID: "A", Coordinates: orb.Point{10, 50}, Rank: 2},
		{ID: "B", Coordinates: orb.Point{20, 40}, Rank: 5},
	}
}

func rankedDataset() geom.FeatureCollection {
	var fc geom.FeatureCollection
	for i, r := range []float64{0, 1, 3, 3.99, 4, 4.5, 7, 10, 12} {
		fc = append(fc, geom.PointFeature{ID: i, Coordinates: orb.Point{float64(i), float64(i)}, Rank: r})
	}
	return fc
}

type fakeSource struct {
	fc  geom.FeatureCollection
	err error
}

func (s fakeSource) Features() (geom.FeatureCollection, error) { return s.fc, s.err }

func selected(t *testing.T, f geom.PointFeature) selection.State {
	t.Helper()
	s := selection.NewStore(500, geom.Miles)
	require.NoError(t, s.Select(&f))
	return s.Snapshot()
}

func TestCompose_OrderAndIdentity(t *testing.T) {
	c := NewComposer(DefaultOptions())
	for _, st := range []selection.State{{}, selected(t, scenarioDataset()[0])} {
		descs := c.Compose(scenarioDataset(), st)
		require.Len(t, descs, 3)
		assert.Equal(t, PointsID, descs[0].ID)
		assert.Equal(t, ArcsID, descs[1].ID)
		assert.Equal(t, BufferID, descs[2].ID)
		assert.Equal(t, KindGeoJSON, descs[0].Kind)
		assert.Equal(t, KindArc, descs[1].Kind)
		assert.Equal(t, KindGeoJSON, descs[2].Kind)
	}
}

func TestCompose_Idempotent(t *testing.T) {
	c := NewComposer(DefaultOptions())
	fc := rankedDataset()
	for _, st := range []selection.State{{}, selected(t, fc[2])} {
		assert.Equal(t, c.Compose(fc, st), c.Compose(fc, st))
	}
}

func TestCompose_PointLayer(t *testing.T) {
	c := NewComposer(DefaultOptions())
	points := c.Compose(rankedDataset(), selection.State{})[0]

	assert.True(t, points.Interaction.Pickable)
	assert.True(t, points.Interaction.AutoHighlight)
	assert.Equal(t, 2.0, points.Encoding.PointRadiusMinPixels)
	assert.Equal(t, 2000.0, points.Encoding.PointRadiusScale)
	require.Len(t, points.Data.Points, len(rankedDataset()))

	for i := 1; i < len(points.Data.Points); i++ {
		prev, cur := points.Data.Points[i-1], points.Data.Points[i]
		assert.LessOrEqual(t, cur.RadiusMeters, prev.RadiusMeters, "higher rank must not draw larger")
	}
	assert.Equal(t, 22000.0, points.Data.Points[0].RadiusMeters)
	assert.Equal(t, 0.0, points.Data.Points[len(points.Data.Points)-1].RadiusMeters)
}

func TestCompose_ArcFilter(t *testing.T) {
	c := NewComposer(DefaultOptions())
	fc := rankedDataset()
	arcs := c.Compose(fc, selection.State{})[1]

	included := map[any]bool{}
	for _, a := range arcs.Data.Arcs {
		included[a.Feature.ID] = true
		assert.Equal(t, a.Feature.Coordinates, a.Target)
	}
	for _, f := range fc {
		assert.Equal(t, f.Rank < 4, included[f.ID], "rank %v", f.Rank)
	}
	assert.False(t, arcs.Interaction.Pickable)
}

func TestCompose_ArcSourceDefaultsBeforeSelection(t *testing.T) {
	c := NewComposer(DefaultOptions())
	arcs := c.Compose(rankedDataset(), selection.State{})[1]
	require.NotEmpty(t, arcs.Data.Arcs)
	for _, a := range arcs.Data.Arcs {
		assert.Equal(t, orb.Point{-0.4531566, 51.4709959}, a.Source)
	}
}

func TestCompose_ArcSourceFollowsSelection(t *testing.T) {
	c := NewComposer(DefaultOptions())
	fc := rankedDataset()
	pick := fc[6] // rank 7: selection does not need to pass the arc filter
	arcs := c.Compose(fc, selected(t, pick))[1]
	require.NotEmpty(t, arcs.Data.Arcs)
	for _, a := range arcs.Data.Arcs {
		assert.Equal(t, pick.Coordinates, a.Source)
	}
}

func TestCompose_BufferLayer(t *testing.T) {
	c := NewComposer(DefaultOptions())

	empty := c.Compose(nil, selection.State{})[2]
	assert.Nil(t, empty.Data.Polygon)
	assert.True(t, empty.Data.Empty())
	assert.True(t, empty.Encoding.Stroked)

	st := selected(t, scenarioDataset()[0])
	buf, _ := st.Buffer()
	full := c.Compose(nil, st)[2]
	assert.Equal(t, buf, full.Data.Polygon)
	assert.False(t, full.Data.Empty())
	assert.Equal(t, Color{255, 0, 0, 50}, full.Encoding.FillColor)
	assert.Equal(t, 0.5, full.Encoding.Opacity)
}

func TestCompose_EmptyDataset(t *testing.T) {
	c := NewComposer(DefaultOptions())
	descs := c.Compose(nil, selection.State{})
	require.Len(t, descs, 3)
	for _, d := range descs {
		assert.True(t, d.Data.Empty(), d.ID)
	}
}

func TestComposeFrom_UnavailableIsEmpty(t *testing.T) {
	c := NewComposer(DefaultOptions())
	errUnavailable := errors.New("not loaded")

	descs := c.ComposeFrom(fakeSource{err: errUnavailable}, selection.State{})
	assert.Equal(t, c.Compose(nil, selection.State{}), descs)

	descs = c.ComposeFrom(nil, selection.State{})
	assert.Len(t, descs, 3)

	descs = c.ComposeFrom(fakeSource{fc: scenarioDataset()}, selection.State{})
	assert.Equal(t, c.Compose(scenarioDataset(), selection.State{}), descs)
}

func TestCompose_CustomThreshold(t *testing.T) {
	opts := DefaultOptions()
	opts.ArcRankThreshold = 1
	opts.DefaultSource = orb.Point{1, 2}
	arcs := NewComposer(opts).Compose(rankedDataset(), selection.State{})[1]
	require.Len(t, arcs.Data.Arcs, 1)
	assert.Equal(t, orb.Point{1, 2}, arcs.Data.Arcs[0].Source)
}

func TestFind(t *testing.T) {
	descs := NewComposer(DefaultOptions()).Compose(nil, selection.State{})
	d, ok := Find(descs, ArcsID)
	require.True(t, ok)
	assert.Equal(t, KindArc, d.Kind)
	_, ok = Find(descs, "nope")
	assert.False(t, ok)
}
