package interaction

import (
	"go.uber.org/zap"

	"geoarcs/internal/geom"
)

// Selector is the part of selection.Store the bridge drives.
type Selector interface {
	Select(f *geom.PointFeature) error
}

type Bridge struct {
	sel         Selector
	view        ViewState
	clearOnMiss bool
	log         *zap.Logger
}

type Option func(*Bridge)

func WithView(v ViewState) Option { return func(b *Bridge) { b.view = v } }

// WithClearOnMiss makes a click on empty space clear the selection. Off by
// default: misses leave the selection untouched.
func WithClearOnMiss(on bool) Option { return func(b *Bridge) { b.clearOnMiss = on } }

func WithLogger(l *zap.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.log = l
		}
	}
}

func NewBridge(sel Selector, opts ...Option) *Bridge {
	b := &Bridge{sel: sel, view: DefaultViewState(), log: zap.NewNop()}
	for _, o := range opts {
		o(b)
	}
	return b
}

// InitialView is the camera the renderer should open with.
func (b *Bridge) InitialView() ViewState { return b.view }

// OnPick applies a pick. A Hit selects the feature; a Miss is a no-op unless
// WithClearOnMiss is set. A selection error is returned as is and leaves the
// selection unchanged.
func (b *Bridge) OnPick(r PickResult) error {
	f, ok := r.Feature()
	if !ok {
		if b.clearOnMiss {
			b.log.Debug("pick miss, clearing selection")
			return b.sel.Select(nil)
		}
		b.log.Debug("pick miss ignored")
		return nil
	}
	return b.sel.Select(&f)
}
