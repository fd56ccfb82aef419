package interaction

// ViewState is the camera a renderer starts from. It is read once at startup
// and is not part of the reactive state.
type ViewState struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Zoom      float64 `json:"zoom"`
	Bearing   float64 `json:"bearing"`
	Pitch     float64 `json:"pitch"`
}

func DefaultViewState() ViewState {
	return ViewState{Longitude: 0.45, Latitude: 51.47, Zoom: 4, Bearing: 0, Pitch: 30}
}
