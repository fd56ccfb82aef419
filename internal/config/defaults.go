package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultDatasetURL = "https://d2ad6b4ur7yvpq.cloudfront.net/naturalearth-3.3.0/ne_10m_airports.geojson"
	DefaultStyleURL   = "https://basemaps.cartocdn.com/gl/positron-nolabels-gl-style/style.json"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")

	v.SetDefault("map.style_url", DefaultStyleURL)
	v.SetDefault("map.access_token", "")

	v.SetDefault("view.longitude", 0.45)
	v.SetDefault("view.latitude", 51.47)
	v.SetDefault("view.zoom", 4)
	v.SetDefault("view.bearing", 0)
	v.SetDefault("view.pitch", 30)

	v.SetDefault("dataset.url", DefaultDatasetURL)
	v.SetDefault("dataset.path", "")
	v.SetDefault("dataset.rank_property", "scalerank")
	v.SetDefault("dataset.fetch_timeout", 30*time.Second)

	v.SetDefault("selection.buffer_radius", 500)
	v.SetDefault("selection.buffer_unit", "miles")

	v.SetDefault("interaction.clear_on_miss", false)

	v.SetDefault("layers.default_source_lon", -0.4531566)
	v.SetDefault("layers.default_source_lat", 51.4709959)
	v.SetDefault("layers.arc_rank_threshold", 4)
	v.SetDefault("layers.point_radius_scale", 2000)
	v.SetDefault("layers.point_radius_min_pixels", 2)

	v.SetDefault("server.addr", "127.0.0.1:8080")
}
