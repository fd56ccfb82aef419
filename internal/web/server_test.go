package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoarcs/internal/config"
	"geoarcs/internal/dataset"
	"geoarcs/internal/geom"
)

func newTestServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	h, _, _ := newTestHub(t)
	s, err := NewServer("", h, config.MapConfig{StyleURL: "https://example.test/style.json"}, geom.DefaultRankProperty, nil)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return h, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) wireMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg wireMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestServer_Config(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/config")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got mapConfig
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "https://example.test/style.json", got.StyleURL)
	assert.Equal(t, 4.0, got.View.Zoom)
}

func TestServer_Layers(t *testing.T) {
	h, ts := newTestServer(t)
	h.DatasetLoaded(dataset.Result{Origin: "test", Features: testFeatures})

	resp, err := http.Get(ts.URL + "/api/layers")
	require.NoError(t, err)
	defer resp.Body.Close()
	var msg wireMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&msg))
	assert.Equal(t, typeLayers, msg.Type)
	require.Len(t, msg.Layers, 3)
	assert.Len(t, msg.Layers[0].Data.Points, 2)
}

func TestServer_MethodNotAllowed(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/api/view", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServer_WebsocketPickRoundTrip(t *testing.T) {
	h, ts := newTestServer(t)
	h.DatasetLoaded(dataset.Result{Origin: "test", Features: testFeatures})
	conn := dial(t, ts)

	assert.Equal(t, typeView, read(t, conn).Type)
	msg := read(t, conn)
	require.Equal(t, typeLayers, msg.Type)
	assert.Len(t, msg.Layers[0].Data.Points, 2)

	obj, err := json.Marshal(testFeatures[0])
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(inbound{Type: typePick, Object: obj}))
	msg = read(t, conn)
	require.Equal(t, typeLayers, msg.Type)
	require.Len(t, msg.Layers[2].Data.Polygon, 1)
	assert.Len(t, msg.Layers[2].Data.Polygon[0], geom.BufferSegments+1)
}

func TestServer_WebsocketBadMessages(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)
	read(t, conn)
	read(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))
	msg := read(t, conn)
	assert.Equal(t, typeError, msg.Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"zoom"}`)))
	msg = read(t, conn)
	assert.Equal(t, typeError, msg.Type)
	assert.Contains(t, msg.Error, "invalid message")

	// a polygon is not a pickable point
	bad := `{"type":"pick","object":{"type":"Feature","properties":{"scalerank":1},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}}}`
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(bad)))
	msg = read(t, conn)
	assert.Equal(t, typeError, msg.Type)
}

func TestValidator(t *testing.T) {
	v, err := newValidator()
	require.NoError(t, err)

	in, err := v.decode([]byte(`{"type":"pick","object":{"type":"Feature","properties":{"scalerank":1},"geometry":{"type":"Point","coordinates":[1,2]}}}`))
	require.NoError(t, err)
	res, err := in.pickResult(geom.DefaultRankProperty)
	require.NoError(t, err)
	f, ok := res.Feature()
	require.True(t, ok)
	assert.Equal(t, 1.0, f.Rank)

	_, err = v.decode([]byte(`{"type":"pick","object":{"type":"FeatureCollection","features":[]}}`))
	assert.Error(t, err)
	_, err = v.decode([]byte(`{"object":null}`))
	assert.Error(t, err)
	_, err = v.decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestInbound_NullObjectIsMiss(t *testing.T) {
	for _, raw := range []string{`{"type":"pick","object":null}`, `{"type":"pick"}`} {
		var in inbound
		require.NoError(t, json.Unmarshal([]byte(raw), &in))
		res, err := in.pickResult(geom.DefaultRankProperty)
		require.NoError(t, err)
		assert.False(t, res.IsHit())
	}
}
