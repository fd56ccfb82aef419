package tui

import (
	"math"
	"sort"
	"strings"

	"github.com/paulmach/orb"

	"geoarcs/internal/geom"
	"geoarcs/internal/layers"
)

const (
	penPoint pen = iota + 1
	penArcSource
	penArcTarget
	penBufferFill
	penBufferLine
	penSelected
	penHover
)

// maxDiskMicro caps point disks so dense datasets stay legible.
const maxDiskMicro = 3

// viewBBox is the lon/lat window covered by a w x h cell map before panning.
// Braille micro-pixels are close to square, so latitude span follows from
// the longitude span and the aspect of the microgrid.
func (m Model) viewBBox(w, h int) geom.BBox {
	wMic, hMic := float64(w*2), float64(h*4)
	lonSpan := 1440 / math.Pow(2, m.view.Zoom) / m.zoom
	if lonSpan > 360 {
		lonSpan = 360
	}
	latSpan := lonSpan / wMic * hMic * math.Cos(m.view.Latitude*math.Pi/180)
	return geom.BBox{
		MinX: m.view.Longitude - lonSpan/2,
		MinY: m.view.Latitude - latSpan/2,
		MaxX: m.view.Longitude + lonSpan/2,
		MaxY: m.view.Latitude + latSpan/2,
	}
}

// metersPerMicro is the ground distance of one micro-pixel at the view center.
func (m Model) metersPerMicro(w, h int) float64 {
	bb := m.viewBBox(w, h)
	degPerMicro := (bb.MaxY - bb.MinY) / float64(h*4)
	return degPerMicro * math.Pi / 180 * orb.EarthRadius
}

// wrapLon moves lon by whole turns so it lies within 180 degrees of ref.
func wrapLon(lon, ref float64) float64 {
	for lon-ref > 180 {
		lon -= 360
	}
	for lon-ref < -180 {
		lon += 360
	}
	return lon
}

// projectMicro maps lon/lat into the 2x4 microgrid without any wrapping.
func (m Model) projectMicro(lon, lat float64, w, h int) (int, int, bool) {
	bb := m.viewBBox(w, h)
	if !bb.Valid() {
		return 0, 0, false
	}
	nx := (lon - bb.MinX) / (bb.MaxX - bb.MinX)
	ny := (lat - bb.MinY) / (bb.MaxY - bb.MinY)
	wMic, hMic := w*2, h*4
	sx := int(math.Round(nx*float64(wMic-1))) + m.offsetX*2
	sy := int(math.Round((1.0-ny)*float64(hMic-1))) + m.offsetY*4
	return sx, sy, true
}

// screenXYMicro maps lon/lat into a 2x4 microgrid per cell for braille rendering.
func (m Model) screenXYMicro(lon, lat float64, w, h int) (int, int, bool) {
	return m.projectMicro(wrapLon(lon, m.view.Longitude), lat, w, h)
}

// screenXY maps lon/lat to cell coordinates considering zoom and pan.
func (m Model) screenXY(lon, lat float64, w, h int) (int, int, bool) {
	mx, my, ok := m.screenXYMicro(lon, lat, w, h)
	if !ok {
		return 0, 0, false
	}
	return floorDiv(mx, 2), floorDiv(my, 4), true
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

// microToLonLat inverts projectMicro. Longitude comes back normalized.
func (m Model) microToLonLat(mx, my, w, h int) (float64, float64, bool) {
	if w <= 1 || h <= 1 {
		return 0, 0, false
	}
	bb := m.viewBBox(w, h)
	if !bb.Valid() {
		return 0, 0, false
	}
	nx := float64(mx-m.offsetX*2) / float64(w*2-1)
	ny := 1.0 - float64(my-m.offsetY*4)/float64(h*4-1)
	lon := wrapLon(bb.MinX+nx*(bb.MaxX-bb.MinX), 0)
	lat := bb.MinY + ny*(bb.MaxY-bb.MinY)
	return lon, lat, true
}

// cellToLonLat converts a map cell coordinate to the lon/lat of its center.
func (m Model) cellToLonLat(cx, cy, w, h int) (float64, float64, bool) {
	return m.microToLonLat(cx*2+1, cy*4+2, w, h)
}

// pickTolerance is the lon/lat half-extent of one cell, the click target
// size around each point.
func (m Model) pickTolerance(w, h int) (float64, float64) {
	bb := m.viewBBox(w, h)
	return (bb.MaxX - bb.MinX) / float64(w), (bb.MaxY - bb.MinY) / float64(h)
}

func (m Model) renderAsciiMap(w, h int) string {
	br := newBrailleBuf(w, h)
	mpm := m.metersPerMicro(w, h)

	for _, d := range m.layers {
		if m.hidden[d.ID] || d.Data.Empty() {
			continue
		}
		switch {
		case d.Kind == layers.KindGeoJSON && len(d.Data.Points) > 0:
			m.drawPoints(br, d.Data.Points, mpm, w, h)
		case d.Kind == layers.KindArc:
			m.drawArcs(br, d.Data.Arcs, w, h)
		case d.Kind == layers.KindGeoJSON && len(d.Data.Polygon) > 0:
			m.drawPolygon(br, d.Data.Polygon, w, h)
		}
	}

	if m.hovering && m.hoverFeat != nil {
		p := m.hoverFeat.Coordinates
		if mx, my, ok := m.screenXYMicro(p[0], p[1], w, h); ok {
			br.pen = penHover
			br.mark(mx, my, '◯')
		}
	}
	if f, ok := m.store.Snapshot().Selected(); ok {
		if mx, my, ok := m.screenXYMicro(f.Coordinates[0], f.Coordinates[1], w, h); ok {
			br.pen = penSelected
			br.mark(mx, my, '◉')
		}
	}
	return strings.Join(br.toLines(m.penStyles()), "\n")
}

func (m Model) drawPoints(br *brailleBuf, pts []layers.Point, metersPerMicro float64, w, h int) {
	br.pen = penPoint
	for _, p := range pts {
		mx, my, ok := m.screenXYMicro(p.Feature.Coordinates[0], p.Feature.Coordinates[1], w, h)
		if !ok {
			continue
		}
		r := 0
		if metersPerMicro > 0 {
			r = min(maxDiskMicro, int(p.RadiusMeters/metersPerMicro))
		}
		if r <= 0 {
			br.setPixel(mx, my)
			continue
		}
		br.drawDisk(mx, my, r)
	}
}

// drawArcs draws each arc as a straight segment, the source half in the
// source color and the target half in the target color.
func (m Model) drawArcs(br *brailleBuf, arcs []layers.Arc, w, h int) {
	for _, a := range arcs {
		sx, sy, ok1 := m.screenXYMicro(a.Source[0], a.Source[1], w, h)
		tx, ty, ok2 := m.screenXYMicro(a.Target[0], a.Target[1], w, h)
		if !ok1 || !ok2 {
			continue
		}
		mx, my := (sx+tx)/2, (sy+ty)/2
		br.pen = penArcSource
		br.drawLineMicro(sx, sy, mx, my)
		br.pen = penArcTarget
		br.drawLineMicro(mx, my, tx, ty)
	}
}

// drawPolygon fills the outer ring with an even-odd scanline into free cells
// and then strokes every ring. Ring longitudes are already continuous, so a
// ring is shifted as a whole to the turn nearest the view center.
func (m Model) drawPolygon(br *brailleBuf, poly orb.Polygon, w, h int) {
	var ringsMic [][][2]int
	for _, ring := range poly {
		if len(ring) == 0 {
			continue
		}
		var sm [][2]int
		shift := wrapLon(ring[0][0], m.view.Longitude) - ring[0][0]
		for _, p := range ring {
			mx, my, ok := m.projectMicro(p[0]+shift, p[1], w, h)
			if !ok {
				continue
			}
			sm = append(sm, [2]int{mx, my})
		}
		if len(sm) >= 3 {
			ringsMic = append(ringsMic, sm)
		}
	}
	if len(ringsMic) == 0 {
		return
	}

	br.pen = penBufferFill
	outer := ringsMic[0]
	hMic := h * 4
	for yMic := 0; yMic < hMic; yMic++ {
		var xs []int
		for i := 0; i < len(outer); i++ {
			a := outer[i]
			b := outer[(i+1)%len(outer)]
			if a[1] == b[1] {
				continue
			}
			y0, y1 := a[1], b[1]
			x0, x1 := a[0], b[0]
			if (yMic >= y0 && yMic < y1) || (yMic >= y1 && yMic < y0) {
				t := float64(yMic-y0) / float64(y1-y0)
				xs = append(xs, int(float64(x0)+t*float64(x1-x0)))
			}
		}
		if len(xs) < 2 {
			continue
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			// sparse stipple reads as a translucent fill
			for xMic := max(0, xs[i]); xMic <= min(xs[i+1], w*2-1); xMic++ {
				if (xMic+yMic)%3 == 0 {
					br.fillPixel(xMic, yMic)
				}
			}
		}
	}

	br.pen = penBufferLine
	for _, r := range ringsMic {
		for i := 0; i < len(r); i++ {
			a := r[i]
			b := r[(i+1)%len(r)]
			br.drawLineMicro(a[0], a[1], b[0], b[1])
		}
	}
}

// inspectNearest finds the feature closest to the viewport center.
func (m Model) inspectNearest() (geom.PointFeature, bool) {
	fc, err := m.source.Features()
	if err != nil || len(fc) == 0 {
		return geom.PointFeature{}, false
	}
	_, _, w, h := m.mapRect()
	cx, cy := w/2, h/2
	bestD := math.MaxInt
	var best geom.PointFeature
	for _, f := range fc {
		sx, sy, ok := m.screenXY(f.Coordinates[0], f.Coordinates[1], w, h)
		if !ok {
			continue
		}
		dx := sx - cx
		dy := sy - cy
		if d := dx*dx + dy*dy; d < bestD {
			bestD = d
			best = f
		}
	}
	return best, bestD != math.MaxInt
}
