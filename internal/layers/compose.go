package layers

import (
	"github.com/paulmach/orb"

	"geoarcs/internal/geom"
	"geoarcs/internal/selection"
)

// DefaultSource is the arc origin used while nothing is selected.
var DefaultSource = orb.Point{-0.4531566, 51.4709959}

type Options struct {
	DefaultSource        orb.Point
	ArcRankThreshold     float64
	PointRadiusScale     float64
	PointRadiusMinPixels float64
	// MaxRank is the rank at which a point's radius reaches zero.
	MaxRank float64
	Style   Style
}

func DefaultOptions() Options {
	return Options{
		DefaultSource:        DefaultSource,
		ArcRankThreshold:     4,
		PointRadiusScale:     2000,
		PointRadiusMinPixels: 2,
		MaxRank:              11,
		Style:                DefaultStyle(),
	}
}

// FeatureSource yields the dataset, or an error while it is unavailable.
type FeatureSource interface {
	Features() (geom.FeatureCollection, error)
}

type Composer struct {
	opts Options
}

func NewComposer(opts Options) Composer {
	return Composer{opts: opts}
}

func (c Composer) Options() Options { return c.opts }

// ComposeFrom composes from a source that may not have resolved yet. Any
// source error, dataset.ErrDataUnavailable included, composes as an empty
// collection.
func (c Composer) ComposeFrom(src FeatureSource, st selection.State) []Descriptor {
	var fc geom.FeatureCollection
	if src != nil {
		if got, err := src.Features(); err == nil {
			fc = got
		}
	}
	return c.Compose(fc, st)
}

// Compose builds the layer stack: points, arcs, buffer, in that order. It is
// pure and total; the buffer layer is always present and empty while
// nothing is selected.
func (c Composer) Compose(fc geom.FeatureCollection, st selection.State) []Descriptor {
	return []Descriptor{
		c.pointLayer(fc),
		c.arcLayer(fc, st),
		c.bufferLayer(st),
	}
}

func (c Composer) pointLayer(fc geom.FeatureCollection) Descriptor {
	pts := make([]Point, 0, len(fc))
	for _, f := range fc {
		pts = append(pts, Point{Feature: f, RadiusMeters: c.pointRadius(f.Rank)})
	}
	return Descriptor{
		ID:   PointsID,
		Kind: KindGeoJSON,
		Data: Data{Points: pts},
		Encoding: Encoding{
			FillColor:            c.opts.Style.PointFill,
			PointRadiusScale:     c.opts.PointRadiusScale,
			PointRadiusMinPixels: c.opts.PointRadiusMinPixels,
			Opacity:              1,
			Filled:               true,
		},
		Interaction: Interaction{Pickable: true, AutoHighlight: true},
	}
}

// pointRadius shrinks as rank grows; major features draw largest.
func (c Composer) pointRadius(rank float64) float64 {
	r := c.opts.MaxRank - rank
	if r < 0 {
		r = 0
	}
	return r * c.opts.PointRadiusScale
}

func (c Composer) arcLayer(fc geom.FeatureCollection, st selection.State) Descriptor {
	source := c.opts.DefaultSource
	if sel, ok := st.Selected(); ok {
		source = sel.Coordinates
	}
	major := fc.Filter(func(f geom.PointFeature) bool { return f.Rank < c.opts.ArcRankThreshold })
	arcs := make([]Arc, 0, len(major))
	for _, f := range major {
		arcs = append(arcs, Arc{Source: source, Target: f.Coordinates, Feature: f})
	}
	return Descriptor{
		ID:   ArcsID,
		Kind: KindArc,
		Data: Data{Arcs: arcs},
		Encoding: Encoding{
			SourceColor: c.opts.Style.ArcSource,
			TargetColor: c.opts.Style.ArcTarget,
			Width:       c.opts.Style.ArcWidth,
			Opacity:     1,
		},
	}
}

func (c Composer) bufferLayer(st selection.State) Descriptor {
	var poly orb.Polygon
	if buf, ok := st.Buffer(); ok {
		poly = buf
	}
	s := c.opts.Style
	return Descriptor{
		ID:   BufferID,
		Kind: KindGeoJSON,
		Data: Data{Polygon: poly},
		Encoding: Encoding{
			FillColor:          s.BufferFill,
			LineColor:          s.BufferLine,
			LineWidth:          s.BufferWidth,
			LineWidthMinPixels: s.BufferMinPx,
			Opacity:            s.BufferAlpha,
			Filled:             true,
			Stroked:            true,
			Extruded:           false,
		},
	}
}
