// Package selection holds the single selection cell: the selected feature
// and the buffer derived from it, replaced wholesale on every change.
package selection

import (
	"github.com/paulmach/orb"

	"geoarcs/internal/geom"
)

// State is an immutable snapshot. The zero value is the unselected state.
// buffer is non-nil exactly when selected is non-nil.
type State struct {
	selected *geom.PointFeature
	buffer   orb.Polygon
}

// Selected returns the selected feature, if any.
func (s State) Selected() (geom.PointFeature, bool) {
	if s.selected == nil {
		return geom.PointFeature{}, false
	}
	return *s.selected, true
}

// Buffer returns the buffer of the selected feature, if any.
func (s State) Buffer() (orb.Polygon, bool) {
	if s.buffer == nil {
		return nil, false
	}
	return s.buffer, true
}

func (s State) IsSelected() bool { return s.selected != nil }
