// Package layers derives the ordered layer stack handed to a renderer from
// the dataset and the current selection.
package layers

import (
	"github.com/paulmach/orb"

	"geoarcs/internal/geom"
)

// Kind tells the renderer how to draw a layer's data.
type Kind string

const (
	KindGeoJSON Kind = "geojson"
	KindArc     Kind = "arc"
)

// Layer ids, in draw order.
const (
	PointsID = "airports"
	ArcsID   = "arcs"
	BufferID = "buffer-layer"
)

type Color [4]uint8

// Point is one drawn feature of a point layer.
type Point struct {
	Feature geom.PointFeature `json:"feature"`
	// RadiusMeters is the world-space radius before min-pixel clamping.
	RadiusMeters float64 `json:"radiusMeters"`
}

// Arc connects Source to the Target feature.
type Arc struct {
	Source  orb.Point         `json:"source"`
	Target  orb.Point         `json:"target"`
	Feature geom.PointFeature `json:"feature"`
}

// Data is a layer's data source. Exactly one field is relevant per layer;
// a buffer layer with a nil Polygon draws nothing.
type Data struct {
	Points  []Point     `json:"points,omitempty"`
	Arcs    []Arc       `json:"arcs,omitempty"`
	Polygon orb.Polygon `json:"polygon,omitempty"`
}

// Empty reports whether the layer has nothing to draw.
func (d Data) Empty() bool {
	return len(d.Points) == 0 && len(d.Arcs) == 0 && len(d.Polygon) == 0
}

type Encoding struct {
	FillColor            Color   `json:"fillColor"`
	LineColor            Color   `json:"lineColor"`
	SourceColor          Color   `json:"sourceColor"`
	TargetColor          Color   `json:"targetColor"`
	PointRadiusScale     float64 `json:"pointRadiusScale,omitempty"`
	PointRadiusMinPixels float64 `json:"pointRadiusMinPixels,omitempty"`
	Width                float64 `json:"width,omitempty"`
	LineWidth            float64 `json:"lineWidth,omitempty"`
	LineWidthMinPixels   float64 `json:"lineWidthMinPixels,omitempty"`
	Opacity              float64 `json:"opacity"`
	Filled               bool    `json:"filled"`
	Stroked              bool    `json:"stroked"`
	Extruded             bool    `json:"extruded"`
}

type Interaction struct {
	Pickable      bool `json:"pickable"`
	AutoHighlight bool `json:"autoHighlight"`
}

// Descriptor is a declarative description of one renderable layer. It has
// no identity of its own beyond ID and is rebuilt on every composition.
type Descriptor struct {
	ID          string      `json:"id"`
	Kind        Kind        `json:"kind"`
	Data        Data        `json:"data"`
	Encoding    Encoding    `json:"encoding"`
	Interaction Interaction `json:"interaction"`
}

// Find returns the descriptor with the given id.
func Find(descs []Descriptor, id string) (Descriptor, bool) {
	for _, d := range descs {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}
