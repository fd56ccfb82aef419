package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// pen identifies which layer part last touched a cell; it picks the color.
type pen int8

const penNone pen = 0

type brailleBuf struct {
	w, h  int       // in cells
	m     [][]uint8 // per-cell 8-bit mask
	own   [][]pen   // last pen per cell
	glyph [][]rune  // marker overrides
	pen   pen
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	own := make([][]pen, h)
	glyph := make([][]rune, h)
	for i := range m {
		m[i] = make([]uint8, w)
		own[i] = make([]pen, w)
		glyph[i] = make([]rune, w)
	}
	return &brailleBuf{w: w, h: h, m: m, own: own, glyph: glyph}
}

var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= brailleBits[rx][ry]
	b.own[cy][cx] = b.pen
}

// fillPixel sets a micro-pixel only in cells no other pen has claimed, so a
// translucent fill never recolors what is underneath.
func (b *brailleBuf) fillPixel(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cy >= b.h || cx >= b.w {
		return
	}
	if o := b.own[cy][cx]; o != penNone && o != b.pen {
		return
	}
	b.setPixel(mx, my)
}

// mark replaces the cell holding micro coords with a glyph.
func (b *brailleBuf) mark(mx, my int, r rune) {
	cx, cy := mx/2, my/4
	if mx < 0 || my < 0 || cy >= b.h || cx >= b.w {
		return
	}
	b.glyph[cy][cx] = r
	b.own[cy][cx] = b.pen
}

// drawLineMicro draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// drawDisk fills a micro-pixel disk of radius r.
func (b *brailleBuf) drawDisk(cx, cy, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r+r {
				b.setPixel(cx+dx, cy+dy)
			}
		}
	}
}

// toLines renders the buffer, coloring runs of cells by their pen.
func (b *brailleBuf) toLines(styles map[pen]lipgloss.Style) []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		var sb strings.Builder
		run := make([]rune, 0, b.w)
		runPen := pen(-1)
		flush := func() {
			if len(run) == 0 {
				return
			}
			s := string(run)
			if st, ok := styles[runPen]; ok {
				s = st.Render(s)
			}
			sb.WriteString(s)
			run = run[:0]
		}
		for x := 0; x < b.w; x++ {
			r := ' '
			switch {
			case b.glyph[y][x] != 0:
				r = b.glyph[y][x]
			case b.m[y][x] != 0:
				r = rune(0x2800 + int(b.m[y][x]))
			}
			p := b.own[y][x]
			if r == ' ' {
				p = penNone
			}
			if p != runPen {
				flush()
				runPen = p
			}
			run = append(run, r)
		}
		flush()
		out[y] = sb.String()
	}
	return out
}
