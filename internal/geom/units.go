package geom

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Unit is a distance unit accepted by Buffer and Distance.
type Unit string

const (
	Miles         Unit = "miles"
	Kilometers    Unit = "kilometers"
	Meters        Unit = "meters"
	NauticalMiles Unit = "nauticalmiles"
)

var metersPer = map[Unit]float64{
	Miles:         1609.344,
	Kilometers:    1000,
	Meters:        1,
	NauticalMiles: 1852,
}

// ParseUnit accepts the canonical names plus a few common spellings.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "miles", "mile", "mi":
		return Miles, nil
	case "kilometers", "kilometres", "kilometer", "km":
		return Kilometers, nil
	case "meters", "metres", "meter", "m":
		return Meters, nil
	case "nauticalmiles", "nautical_miles", "nmi":
		return NauticalMiles, nil
	}
	return "", invalid("unit", s, "unknown distance unit")
}

// ToMeters converts d expressed in u to meters.
func (u Unit) ToMeters(d float64) (float64, error) {
	f, ok := metersPer[u]
	if !ok {
		return 0, invalid("unit", string(u), "unknown distance unit")
	}
	return d * f, nil
}

// Distance is the great-circle (haversine) distance between a and b in unit u,
// on the same sphere Buffer uses. Unknown units yield meters.
func Distance(a, b orb.Point, u Unit) float64 {
	m := geo.DistanceHaversine(a, b)
	if f, ok := metersPer[u]; ok {
		return m / f
	}
	return m
}
