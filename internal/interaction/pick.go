// Package interaction turns renderer pick events into selection changes and
// carries the static initial camera.
package interaction

import "geoarcs/internal/geom"

// PickResult is what a renderer reports for a user click: either a Hit on a
// point feature or a Miss on empty space.
type PickResult struct {
	hit     bool
	feature geom.PointFeature
}

func Hit(f geom.PointFeature) PickResult { return PickResult{hit: true, feature: f} }

func Miss() PickResult { return PickResult{} }

// Feature returns the picked feature for a Hit.
func (r PickResult) Feature() (geom.PointFeature, bool) { return r.feature, r.hit }

func (r PickResult) IsHit() bool { return r.hit }
