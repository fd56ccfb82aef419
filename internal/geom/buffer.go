package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// BufferSegments is the fixed number of ring edges produced by Buffer.
const BufferSegments = 64

// ValidatePoint checks that p is a finite lon/lat pair inside the WGS84 range.
func ValidatePoint(p orb.Point) error {
	lon, lat := p[0], p[1]
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return invalid("longitude", lon, "not finite")
	}
	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		return invalid("latitude", lat, "not finite")
	}
	if lon < -180 || lon > 180 {
		return invalid("longitude", lon, "outside [-180, 180]")
	}
	if lat < -90 || lat > 90 {
		return invalid("latitude", lat, "outside [-90, 90]")
	}
	return nil
}

// Buffer returns a polygon approximating the geodesic circle of the given
// radius around p. Vertices are placed by walking the bearing
// counter-clockwise and every one lies at the requested great-circle distance
// from p, which keeps the shape correct at high latitudes.
//
// The ring is kept continuous in longitude: a circle crossing the
// antimeridian has longitudes just past ±180 rather than jumping across the
// map. A circle that encloses a pole cannot be drawn as a plain loop, so its
// ring runs from -180 to 180 and closes along the pole; it then carries
// four vertices on the seam and the pole edge in addition to the
// BufferSegments+1 circle vertices.
func Buffer(p orb.Point, radius float64, unit Unit) (orb.Polygon, error) {
	if err := ValidatePoint(p); err != nil {
		return nil, err
	}
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0 {
		return nil, invalid("radius", radius, "must be positive and finite")
	}
	meters, err := unit.ToMeters(radius)
	if err != nil {
		return nil, err
	}

	ring := make(orb.Ring, 0, BufferSegments+1)
	prev := p[0]
	for i := 0; i < BufferSegments; i++ {
		bearing := -360.0 * float64(i) / BufferSegments
		v := geo.PointAtBearingAndDistance(p, bearing, meters)
		v[0] = unwrapLon(v[0], prev)
		prev = v[0]
		ring = append(ring, v)
	}
	// a circle around a pole winds a full turn of longitude
	if turn := unwrapLon(ring[0][0], prev) - ring[0][0]; math.Abs(turn) > 180 {
		return orb.Polygon{polarRing(ring, p)}, nil
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}, nil
}

// unwrapLon moves lon by whole turns so it lies within 180 degrees of ref.
func unwrapLon(lon, ref float64) float64 {
	for lon-ref > 180 {
		lon -= 360
	}
	for lon-ref < -180 {
		lon += 360
	}
	return lon
}

func normalizeLon(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}

// polarRing turns a circle that winds around a pole into a closed ring in
// [-180, 180]: the circle from one side of the antimeridian to the other,
// then up the seam to the pole, along the pole and back down.
func polarRing(circle orb.Ring, center orb.Point) orb.Ring {
	n := len(circle)
	norm := make([]orb.Point, n)
	for i, v := range circle {
		norm[i] = orb.Point{normalizeLon(v[0]), v[1]}
	}
	// start right after the edge that crosses the antimeridian
	start := 0
	for i := 0; i < n; i++ {
		a, b := norm[i], norm[(i+1)%n]
		if math.Abs(b[0]-a[0]) > 180 {
			start = (i + 1) % n
			break
		}
	}
	seq := make([]orb.Point, 0, n)
	for i := 0; i < n; i++ {
		seq = append(seq, norm[(start+i)%n])
	}

	first, last := seq[0], seq[n-1]
	side := 1.0
	if last[0] < first[0] {
		side = -1
	}
	// latitude where the closing edge meets the seam
	firstLon := first[0] + side*360
	seamLat := last[1]
	if firstLon != last[0] {
		t := (side*180 - last[0]) / (firstLon - last[0])
		seamLat = last[1] + t*(first[1]-last[1])
	}
	pole := 90.0
	if center[1] < 0 {
		pole = -90
	}

	ring := make(orb.Ring, 0, n+5)
	ring = append(ring, seq...)
	ring = append(ring,
		orb.Point{side * 180, seamLat},
		orb.Point{side * 180, pole},
		orb.Point{-side * 180, pole},
		orb.Point{-side * 180, seamLat},
		first,
	)
	if ring.Orientation() != orb.CCW {
		ring.Reverse()
	}
	return ring
}
