package tui

import (
	"math"

	"github.com/tidwall/rtree"

	"geoarcs/internal/geom"
	"geoarcs/internal/interaction"
)

// pickIndex finds the point feature under the cursor.
type pickIndex struct {
	tr rtree.RTreeG[int]
	fc geom.FeatureCollection
}

func newPickIndex(fc geom.FeatureCollection) *pickIndex {
	ix := &pickIndex{fc: fc}
	for i, f := range fc {
		p := [2]float64(f.Coordinates)
		ix.tr.Insert(p, p, i)
	}
	return ix
}

// pick returns a Hit for the feature nearest to lon/lat inside the ellipse
// of half-axes tolLon/tolLat, otherwise a Miss. Ties go to the earlier
// feature so the result does not depend on tree order.
func (ix *pickIndex) pick(lon, lat, tolLon, tolLat float64) interaction.PickResult {
	if ix == nil || tolLon <= 0 || tolLat <= 0 {
		return interaction.Miss()
	}
	lon = wrapLon(lon, 0)
	best, bestD := -1, math.MaxFloat64
	visit := func(p, _ [2]float64, i int) bool {
		dx := (wrapLon(p[0], lon) - lon) / tolLon
		dy := (p[1] - lat) / tolLat
		d := dx*dx + dy*dy
		if d > 1 {
			return true
		}
		if d < bestD || (d == bestD && i < best) {
			best, bestD = i, d
		}
		return true
	}
	// the window may hang over the antimeridian; search the wrapped part too
	for _, shift := range []float64{0, -360, 360} {
		minLon, maxLon := lon-tolLon+shift, lon+tolLon+shift
		if maxLon < -180 || minLon > 180 {
			continue
		}
		ix.tr.Search([2]float64{minLon, lat - tolLat}, [2]float64{maxLon, lat + tolLat}, visit)
	}
	if best < 0 {
		return interaction.Miss()
	}
	return interaction.Hit(ix.fc[best])
}
