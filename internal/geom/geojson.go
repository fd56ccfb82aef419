package geom

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// DefaultRankProperty is the Natural Earth rank attribute.
const DefaultRankProperty = "scalerank"

// DecodeStats counts what a decode pass kept and skipped.
type DecodeStats struct {
	Kept      int
	NotPoint  int
	NoRank    int
	BadCoords int
}

// Skipped is the total number of dropped geometries.
func (s DecodeStats) Skipped() int { return s.NotPoint + s.NoRank + s.BadCoords }

// LoadGeo reads a GeoJSON file and returns its point features.
func LoadGeo(path, rankProp string) (FeatureCollection, DecodeStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, DecodeStats{}, err
	}
	return DecodeGeoJSON(data, rankProp)
}

// DecodeGeoJSON decodes a FeatureCollection or a single Feature. Point and
// MultiPoint geometries become PointFeatures (a MultiPoint expands into one
// feature per position sharing the properties); every other geometry type
// and every feature without a numeric rank is skipped and counted.
func DecodeGeoJSON(data []byte, rankProp string) (FeatureCollection, DecodeStats, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, DecodeStats{}, fmt.Errorf("geojson: %w", err)
	}
	var features []*geojson.Feature
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, DecodeStats{}, fmt.Errorf("geojson: %w", err)
		}
		features = fc.Features
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, DecodeStats{}, fmt.Errorf("geojson: %w", err)
		}
		features = []*geojson.Feature{f}
	case "":
		return nil, DecodeStats{}, errors.New("invalid geojson: missing type")
	default:
		return nil, DecodeStats{}, errors.New("unsupported geojson type: " + head.Type)
	}

	var (
		out   FeatureCollection
		stats DecodeStats
	)
	for _, f := range features {
		if f == nil || f.Geometry == nil {
			stats.NotPoint++
			continue
		}
		var pts []orb.Point
		switch g := f.Geometry.(type) {
		case orb.Point:
			pts = []orb.Point{g}
		case orb.MultiPoint:
			pts = g
		default:
			stats.NotPoint++
			continue
		}
		rank, ok := Rank(f.Properties, rankProp)
		if !ok {
			stats.NoRank += len(pts)
			continue
		}
		for _, p := range pts {
			if ValidatePoint(p) != nil {
				stats.BadCoords++
				continue
			}
			out = append(out, PointFeature{ID: f.ID, Coordinates: p, Rank: rank, Properties: f.Properties})
			stats.Kept++
		}
	}
	return out, stats, nil
}

// FeatureFromGeoJSON converts a single GeoJSON point feature, as carried by a
// renderer pick event.
func FeatureFromGeoJSON(f *geojson.Feature, rankProp string) (PointFeature, error) {
	if f == nil || f.Geometry == nil {
		return PointFeature{}, errors.New("feature has no geometry")
	}
	p, ok := f.Geometry.(orb.Point)
	if !ok {
		return PointFeature{}, fmt.Errorf("feature geometry is %s, want Point", f.Geometry.GeoJSONType())
	}
	rank, ok := Rank(f.Properties, rankProp)
	if !ok {
		return PointFeature{}, fmt.Errorf("feature has no numeric %q property", rankProp)
	}
	return PointFeature{ID: f.ID, Coordinates: p, Rank: rank, Properties: f.Properties}, nil
}

// Rank reads a numeric rank property. String values holding a number are
// accepted since some exports quote every attribute.
func Rank(props geojson.Properties, key string) (float64, bool) {
	if key == "" {
		key = DefaultRankProperty
	}
	switch v := props[key].(type) {
	case float64:
		return v, finite(v)
	case int:
		return float64(v), true
	case string:
		return parseRank(v)
	}
	return 0, false
}

// parseRank reads a textual rank. NaN and infinities are rejected.
func parseRank(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !finite(f) {
		return 0, false
	}
	return f, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
