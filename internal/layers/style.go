package layers

// Style holds the fixed visual encodings of the three layers.
type Style struct {
	PointFill   Color
	ArcSource   Color
	ArcTarget   Color
	ArcWidth    float64
	BufferFill  Color
	BufferLine  Color
	BufferWidth float64
	BufferMinPx float64
	BufferAlpha float64
}

func DefaultStyle() Style {
	return Style{
		PointFill:   Color{200, 0, 80, 180},
		ArcSource:   Color{0, 128, 200, 255},
		ArcTarget:   Color{200, 0, 80, 255},
		ArcWidth:    1,
		BufferFill:  Color{255, 0, 0, 50},
		BufferLine:  Color{255, 0, 0, 255},
		BufferWidth: 5,
		BufferMinPx: 2,
		BufferAlpha: 0.5,
	}
}
