// Package dataset loads the point dataset and tracks whether it has arrived.
package dataset

import (
	"errors"

	"geoarcs/internal/geom"
)

// ErrDataUnavailable is returned while the dataset has not been loaded.
var ErrDataUnavailable = errors.New("dataset not loaded")

// Source holds the dataset once it resolves. Like the selection store it is
// driven from a single event loop and does no locking.
type Source struct {
	fc     geom.FeatureCollection
	origin string
	loaded bool
}

// Features returns the dataset or ErrDataUnavailable.
func (s *Source) Features() (geom.FeatureCollection, error) {
	if s == nil || !s.loaded {
		return nil, ErrDataUnavailable
	}
	return s.fc, nil
}

// Resolve installs a loaded dataset, replacing any previous one.
func (s *Source) Resolve(fc geom.FeatureCollection, origin string) {
	s.fc, s.origin, s.loaded = fc, origin, true
}

func (s *Source) Loaded() bool { return s != nil && s.loaded }

// Origin is the URL or path the current dataset came from.
func (s *Source) Origin() string {
	if s == nil {
		return ""
	}
	return s.origin
}
