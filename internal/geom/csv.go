package geom

import (
	"encoding/csv"
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LoadCSV reads a CSV with latitude/longitude columns and a rank column and
// returns point features. Column detection: lat|latitude|y and
// lon|lng|long|longitude|x (case-insensitive); the rank column is named by
// rankProp. All remaining columns become string properties.
func LoadCSV(path, rankProp string) (FeatureCollection, DecodeStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, DecodeStats{}, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	recs, err := r.ReadAll()
	if err != nil {
		return nil, DecodeStats{}, err
	}
	if len(recs) == 0 {
		return nil, DecodeStats{}, errors.New("empty csv")
	}
	if rankProp == "" {
		rankProp = DefaultRankProperty
	}
	header := recs[0]
	idxLat, idxLon, idxRank := -1, -1, -1
	for i, h := range header {
		lh := strings.ToLower(strings.TrimSpace(h))
		switch lh {
		case "lat", "latitude", "y":
			if idxLat == -1 {
				idxLat = i
			}
		case "lon", "lng", "long", "longitude", "x":
			if idxLon == -1 {
				idxLon = i
			}
		}
		if lh == strings.ToLower(rankProp) && idxRank == -1 {
			idxRank = i
		}
	}
	if idxLat == -1 || idxLon == -1 {
		return nil, DecodeStats{}, errors.New("csv: latitude/longitude columns not found")
	}
	if idxRank == -1 {
		return nil, DecodeStats{}, errors.New("csv: rank column " + strconv.Quote(rankProp) + " not found")
	}

	var (
		out   FeatureCollection
		stats DecodeStats
	)
	for n, row := range recs[1:] {
		if idxLon >= len(row) || idxLat >= len(row) || idxRank >= len(row) {
			stats.BadCoords++
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(row[idxLon]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(row[idxLat]), 64)
		pt := orb.Point{lon, lat}
		if err1 != nil || err2 != nil || ValidatePoint(pt) != nil {
			stats.BadCoords++
			continue
		}
		rank, ok := parseRank(row[idxRank])
		if !ok {
			stats.NoRank++
			continue
		}
		props := geojson.Properties{}
		for i, h := range header {
			if i == idxLat || i == idxLon || i >= len(row) {
				continue
			}
			props[h] = row[i]
		}
		props[header[idxRank]] = rank
		out = append(out, PointFeature{ID: n + 1, Coordinates: pt, Rank: rank, Properties: props})
		stats.Kept++
	}
	if len(out) == 0 {
		return nil, stats, errors.New("csv: no valid points parsed")
	}
	return out, stats, nil
}
