package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoarcs/internal/geom"
)

const airports = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"scalerank":2,"name":"A"},"geometry":{"type":"Point","coordinates":[10,50]}},
 {"type":"Feature","properties":{"scalerank":5,"name":"B"},"geometry":{"type":"Point","coordinates":[20,40]}}
]}`

func TestSource_UnavailableUntilResolved(t *testing.T) {
	var s Source
	_, err := s.Features()
	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.False(t, s.Loaded())

	var nilSrc *Source
	_, err = nilSrc.Features()
	assert.ErrorIs(t, err, ErrDataUnavailable)

	fc := geom.FeatureCollection{{ID: "A"}}
	s.Resolve(fc, "mem")
	got, err := s.Features()
	require.NoError(t, err)
	assert.Equal(t, fc, got)
	assert.True(t, s.Loaded())
	assert.Equal(t, "mem", s.Origin())
}

func TestSource_ResolvedEmptyIsNotUnavailable(t *testing.T) {
	var s Source
	s.Resolve(nil, "empty")
	_, err := s.Features()
	assert.NoError(t, err)
}

func TestLoader_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write([]byte(airports))
	}))
	defer srv.Close()

	l := NewLoader("", time.Second, nil)
	res := l.Load(context.Background(), srv.URL+"/airports.geojson")
	require.NoError(t, res.Err)
	require.Len(t, res.Features, 2)
	assert.Equal(t, "A", res.Features[0].Name())
	assert.Equal(t, srv.URL+"/airports.geojson", res.Origin)
}

func TestLoader_FetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	res := NewLoader("", time.Second, nil).Fetch(context.Background(), srv.URL)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "404")
	assert.Empty(t, res.Features)
}

func TestLoader_FetchCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(airports))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := NewLoader("", time.Second, nil).Fetch(ctx, srv.URL)
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestLoader_LoadFile(t *testing.T) {
	dir := t.TempDir()
	gj := filepath.Join(dir, "a.geojson")
	require.NoError(t, os.WriteFile(gj, []byte(airports), 0o644))
	res := NewLoader("scalerank", 0, nil).Load(context.Background(), gj)
	require.NoError(t, res.Err)
	assert.Len(t, res.Features, 2)

	csvPath := filepath.Join(dir, "a.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("lon,lat,scalerank\n1,2,3\n"), 0o644))
	res = NewLoader("scalerank", 0, nil).Load(context.Background(), csvPath)
	require.NoError(t, res.Err)
	assert.Len(t, res.Features, 1)

	kmlPath := filepath.Join(dir, "a.kml")
	require.NoError(t, os.WriteFile(kmlPath, []byte(`<kml><Placemark><name>K</name>
<ExtendedData><Data name="scalerank"><value>4</value></Data></ExtendedData>
<Point><coordinates>5,6</coordinates></Point></Placemark></kml>`), 0o644))
	res = NewLoader("scalerank", 0, nil).Load(context.Background(), kmlPath)
	require.NoError(t, res.Err)
	require.Len(t, res.Features, 1)
	assert.Equal(t, "K", res.Features[0].Name())

	res = NewLoader("", 0, nil).Load(context.Background(), filepath.Join(dir, "a.shp"))
	assert.ErrorContains(t, res.Err, "unsupported file")
}
