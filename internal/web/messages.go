package web

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb/geojson"

	"geoarcs/internal/geom"
	"geoarcs/internal/interaction"
	"geoarcs/internal/layers"
)

const (
	typeView   = "view"
	typeLayers = "layers"
	typeError  = "error"
	typePick   = "pick"
)

// outbound is every server to client message; Type says which field is set.
type outbound struct {
	Type   string                 `json:"type"`
	View   *interaction.ViewState `json:"view,omitempty"`
	Layers []layers.Descriptor    `json:"layers,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

// inbound is a client message. Object is the picked GeoJSON feature, or
// null for a click on empty space.
type inbound struct {
	Type   string          `json:"type"`
	Object json.RawMessage `json:"object"`
}

func viewMessage(v interaction.ViewState) outbound {
	return outbound{Type: typeView, View: &v}
}

func layersMessage(descs []layers.Descriptor) outbound {
	return outbound{Type: typeLayers, Layers: descs}
}

func errorMessage(err error) outbound {
	return outbound{Type: typeError, Error: err.Error()}
}

// pickResult decodes the picked object into a PickResult.
func (in inbound) pickResult(rankProp string) (interaction.PickResult, error) {
	if len(in.Object) == 0 || string(in.Object) == "null" {
		return interaction.Miss(), nil
	}
	f, err := geojson.UnmarshalFeature(in.Object)
	if err != nil {
		return interaction.PickResult{}, fmt.Errorf("decode picked object: %w", err)
	}
	pf, err := geom.FeatureFromGeoJSON(f, rankProp)
	if err != nil {
		return interaction.PickResult{}, fmt.Errorf("picked object: %w", err)
	}
	return interaction.Hit(pf), nil
}
