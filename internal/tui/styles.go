package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"geoarcs/internal/layers"
)

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	hoverFg   = lipgloss.Color("#FFA500")
	borderCol = lipgloss.Color("#243141")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
)

// termColor drops the alpha channel; the terminal has no blending.
func termColor(c layers.Color) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", c[0], c[1], c[2]))
}

// penStyles maps each pen to the encoding of the layer it draws, so the
// terminal uses the same colors as the descriptors.
func (m Model) penStyles() map[pen]lipgloss.Style {
	st := map[pen]lipgloss.Style{
		penSelected: lipgloss.NewStyle().Foreground(hoverFg).Bold(true),
		penHover:    lipgloss.NewStyle().Foreground(hoverFg),
	}
	for _, d := range m.layers {
		e := d.Encoding
		switch d.ID {
		case layers.PointsID:
			st[penPoint] = lipgloss.NewStyle().Foreground(termColor(e.FillColor))
		case layers.ArcsID:
			st[penArcSource] = lipgloss.NewStyle().Foreground(termColor(e.SourceColor))
			st[penArcTarget] = lipgloss.NewStyle().Foreground(termColor(e.TargetColor))
		case layers.BufferID:
			st[penBufferFill] = lipgloss.NewStyle().Foreground(termColor(e.FillColor)).Faint(true)
			st[penBufferLine] = lipgloss.NewStyle().Foreground(termColor(e.LineColor))
		}
	}
	return st
}
