package selection

import (
	"fmt"

	"go.uber.org/zap"

	"geoarcs/internal/geom"
)

// Store owns the current State. It is not safe for concurrent use: callers
// drive it from a single event loop.
type Store struct {
	cur    State
	radius float64
	unit   geom.Unit
	subs   []func(State)
	log    *zap.Logger
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// NewStore returns a store in the unselected state whose buffers are computed
// at radius in unit.
func NewStore(radius float64, unit geom.Unit, opts ...Option) *Store {
	s := &Store{radius: radius, unit: unit, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State { return s.cur }

// Subscribe registers fn to be called with the new state after every
// successful Select.
func (s *Store) Subscribe(fn func(State)) {
	s.subs = append(s.subs, fn)
}

// Select is the only mutator. A nil feature clears the selection. For a
// non-nil feature the buffer is computed first; if that fails the current
// state is kept and the error returned.
func (s *Store) Select(f *geom.PointFeature) error {
	var next State
	if f != nil {
		buf, err := geom.Buffer(f.Coordinates, s.radius, s.unit)
		if err != nil {
			s.log.Warn("selection rejected", zap.Any("id", f.ID), zap.Error(err))
			return fmt.Errorf("select feature %v: %w", f.ID, err)
		}
		sel := *f
		next = State{selected: &sel, buffer: buf}
		s.log.Debug("feature selected",
			zap.Any("id", f.ID),
			zap.Float64("lon", f.Coordinates[0]),
			zap.Float64("lat", f.Coordinates[1]),
			zap.Float64("radius", s.radius),
			zap.String("unit", string(s.unit)))
	} else {
		s.log.Debug("selection cleared")
	}
	s.cur = next
	for _, fn := range s.subs {
		fn(next)
	}
	return nil
}
