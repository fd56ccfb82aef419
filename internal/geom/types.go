package geom

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Extend grows the box to include pt. The zero box is treated as empty only
// when first is true.
func (b BBox) Extend(pt orb.Point, first bool) BBox {
	if first {
		return BBox{MinX: pt[0], MinY: pt[1], MaxX: pt[0], MaxY: pt[1]}
	}
	if pt[0] < b.MinX {
		b.MinX = pt[0]
	}
	if pt[1] < b.MinY {
		b.MinY = pt[1]
	}
	if pt[0] > b.MaxX {
		b.MaxX = pt[0]
	}
	if pt[1] > b.MaxY {
		b.MaxY = pt[1]
	}
	return b
}

// Valid reports whether the box spans a non-empty area.
func (b BBox) Valid() bool {
	return b.MaxX > b.MinX && b.MaxY > b.MinY
}

// PointFeature is a single point of the dataset with its rank and the
// untouched property bag.
type PointFeature struct {
	ID          any
	Coordinates orb.Point // lon, lat
	Rank        float64
	Properties  geojson.Properties
}

// GeoJSON returns the feature as a GeoJSON Point feature.
func (f PointFeature) GeoJSON() *geojson.Feature {
	gf := geojson.NewFeature(f.Coordinates)
	gf.ID = f.ID
	if f.Properties != nil {
		gf.Properties = f.Properties.Clone()
	}
	return gf
}

// MarshalJSON encodes the feature as GeoJSON.
func (f PointFeature) MarshalJSON() ([]byte, error) {
	return f.GeoJSON().MarshalJSON()
}

// Name returns a human readable label for the feature, if the dataset has one.
func (f PointFeature) Name() string {
	for _, k := range []string{"name", "name_en", "abbrev", "iata_code"} {
		if s := f.Properties.MustString(k, ""); s != "" {
			return s
		}
	}
	return ""
}

// FeatureCollection is the ordered, read-only point dataset.
type FeatureCollection []PointFeature

// BBox returns the bounds of all features and whether there were any.
func (fc FeatureCollection) BBox() (BBox, bool) {
	var bb BBox
	for i, f := range fc {
		bb = bb.Extend(f.Coordinates, i == 0)
	}
	return bb, len(fc) > 0
}

// Filter returns the features for which keep returns true, preserving order.
func (fc FeatureCollection) Filter(keep func(PointFeature) bool) FeatureCollection {
	out := make(FeatureCollection, 0, len(fc))
	for _, f := range fc {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}
