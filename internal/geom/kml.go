package geom

import (
	"encoding/xml"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type kmlData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

type kmlSimpleData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type kmlPlacemark struct {
	ID    string `xml:"id,attr"`
	Name  string `xml:"name"`
	Point *struct {
		Coordinates string `xml:"coordinates"`
	} `xml:"Point"`
	Data       []kmlData       `xml:"ExtendedData>Data"`
	SimpleData []kmlSimpleData `xml:"ExtendedData>SchemaData>SimpleData"`
}

// kmlContainer matches the kml root as well as Document and Folder, which
// may nest arbitrarily.
type kmlContainer struct {
	Placemarks []kmlPlacemark `xml:"Placemark"`
	Documents  []kmlContainer `xml:"Document"`
	Folders    []kmlContainer `xml:"Folder"`
}

func (c kmlContainer) walk(fn func(kmlPlacemark)) {
	for _, pm := range c.Placemarks {
		fn(pm)
	}
	for _, d := range c.Documents {
		d.walk(fn)
	}
	for _, d := range c.Folders {
		d.walk(fn)
	}
}

// LoadKML reads Point placemarks from a KML file. The placemark name and its
// ExtendedData values (Data and SchemaData/SimpleData) become string
// properties; the rank is read from the property named rankProp. KML
// coordinates are "lon,lat[,alt]" and altitude is ignored.
func LoadKML(path, rankProp string) (FeatureCollection, DecodeStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, DecodeStats{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, DecodeStats{}, err
	}
	return DecodeKML(data, rankProp)
}

// DecodeKML is LoadKML over an in-memory document.
func DecodeKML(data []byte, rankProp string) (FeatureCollection, DecodeStats, error) {
	var doc kmlContainer
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, DecodeStats{}, err
	}
	if rankProp == "" {
		rankProp = DefaultRankProperty
	}

	var (
		out   FeatureCollection
		stats DecodeStats
	)
	doc.walk(func(pm kmlPlacemark) {
		if pm.Point == nil {
			stats.NotPoint++
			return
		}
		props := geojson.Properties{}
		if name := strings.TrimSpace(pm.Name); name != "" {
			props["name"] = name
		}
		for _, d := range pm.Data {
			props[d.Name] = strings.TrimSpace(d.Value)
		}
		for _, d := range pm.SimpleData {
			props[d.Name] = strings.TrimSpace(d.Value)
		}
		rank, ok := Rank(props, rankProp)
		if !ok {
			stats.NoRank++
			return
		}
		pt, ok := kmlCoordinate(pm.Point.Coordinates)
		if !ok {
			stats.BadCoords++
			return
		}
		props[rankProp] = rank
		var id any = len(out) + 1
		if pm.ID != "" {
			id = pm.ID
		}
		out = append(out, PointFeature{ID: id, Coordinates: pt, Rank: rank, Properties: props})
		stats.Kept++
	})
	if len(out) == 0 {
		return nil, stats, errors.New("kml: no points found")
	}
	return out, stats, nil
}

// kmlCoordinate parses the first "lon,lat[,alt]" tuple of a Point.
func kmlCoordinate(s string) (orb.Point, bool) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return orb.Point{}, false
	}
	vals := strings.Split(parts[0], ",")
	if len(vals) < 2 {
		return orb.Point{}, false
	}
	lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
	lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
	pt := orb.Point{lon, lat}
	if err1 != nil || err2 != nil || ValidatePoint(pt) != nil {
		return orb.Point{}, false
	}
	return pt, true
}
