package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"geoarcs/internal/geom"
)

// maxBody caps remote datasets; Natural Earth airports is about 2 MB.
const maxBody = 64 << 20

// Loader fetches the dataset from a URL or reads it from disk.
type Loader struct {
	client   *http.Client
	rankProp string
	log      *zap.Logger
}

func NewLoader(rankProp string, timeout time.Duration, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Loader{
		client:   &http.Client{Timeout: timeout},
		rankProp: rankProp,
		log:      log,
	}
}

// Result is the outcome of one load, delivered to the event loop.
type Result struct {
	Origin   string
	Features geom.FeatureCollection
	Stats    geom.DecodeStats
	Err      error
}

// Load dispatches on origin: http(s) URLs are fetched, anything else is read
// as a local .geojson/.json/.csv file.
func (l *Loader) Load(ctx context.Context, origin string) Result {
	if strings.HasPrefix(origin, "http://") || strings.HasPrefix(origin, "https://") {
		return l.Fetch(ctx, origin)
	}
	return l.LoadFile(origin)
}

func (l *Loader) Fetch(ctx context.Context, url string) Result {
	res := Result{Origin: url}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		res.Err = fmt.Errorf("dataset: build request: %w", err)
		return res
	}
	req.Header.Set("Accept", "application/geo+json, application/json")
	start := time.Now()
	resp, err := l.client.Do(req)
	if err != nil {
		res.Err = fmt.Errorf("dataset: fetch %s: %w", url, err)
		return res
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		res.Err = fmt.Errorf("dataset: fetch %s: unexpected status %s", url, resp.Status)
		return res
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		res.Err = fmt.Errorf("dataset: read %s: %w", url, err)
		return res
	}
	res.Features, res.Stats, res.Err = geom.DecodeGeoJSON(body, l.rankProp)
	l.logResult(res, time.Since(start))
	return res
}

func (l *Loader) LoadFile(path string) Result {
	res := Result{Origin: path}
	start := time.Now()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		res.Features, res.Stats, res.Err = geom.LoadGeo(path, l.rankProp)
	case ".csv":
		res.Features, res.Stats, res.Err = geom.LoadCSV(path, l.rankProp)
	case ".kml":
		res.Features, res.Stats, res.Err = geom.LoadKML(path, l.rankProp)
	default:
		res.Err = fmt.Errorf("dataset: unsupported file: %s", filepath.Ext(path))
		return res
	}
	l.logResult(res, time.Since(start))
	return res
}

func (l *Loader) logResult(res Result, took time.Duration) {
	if res.Err != nil {
		l.log.Warn("dataset load failed", zap.String("origin", res.Origin), zap.Error(res.Err))
		return
	}
	l.log.Info("dataset loaded",
		zap.String("origin", res.Origin),
		zap.Int("features", len(res.Features)),
		zap.Int("skipped", res.Stats.Skipped()),
		zap.Duration("took", took))
}
