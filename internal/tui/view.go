package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"geoarcs/internal/geom"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

func (m Model) contentSize() (int, int) {
	return max(10, m.width), max(4, m.height-headerHeight-footerHeight)
}

// mapRect is the screen rectangle of the map canvas. View and the mouse
// handler both go through it so clicks land where things are drawn.
func (m Model) mapRect() (x, y, w, h int) {
	cw, ch := m.contentSize()
	x = 0
	if m.showSidebar {
		x = sidebarWidth + 1
	}
	w = max(8, cw-x)
	return x, headerHeight, w, ch
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	contentWidth, contentHeight := m.contentSize()
	_, _, mapWidth, mapHeight := m.mapRect()

	header := titleStyle.Render(" geoarcs ─ arcs and buffers over point datasets ")
	header = lipgloss.NewStyle().Width(contentWidth).Padding(0).Render(header)

	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	var mapView string
	switch {
	case m.showAttrs:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		if colW == 0 {
			colW = min(60, contentWidth-6)
		}
		maxW := min(mapWidth, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(mapHeight-2, 20))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(mapWidth, mapHeight, lipgloss.Center, lipgloss.Center, attrsBox)
	case m.urlMode:
		m.ta.SetWidth(mapWidth)
		m.ta.SetHeight(min(mapHeight, 6))
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(m.ta.View())
	default:
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(m.renderAsciiMap(mapWidth, mapHeight))
	}

	popup := ""
	if m.inspectPopup != "" && !m.showAttrs {
		maxPopupW := max(20, min(48, contentWidth/2))
		box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MaxWidth(maxPopupW).Render(m.inspectPopup)
		popup = lipgloss.Place(contentWidth, contentHeight, lipgloss.Left, lipgloss.Center, box)
	}

	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	help := m.renderHelp()
	status := dimStyle.Render(" " + m.status + " ")
	coords := ""
	if m.hoverHasGeo {
		label := ""
		if m.hoverFeat != nil {
			label = "  " + featureLabel(*m.hoverFeat)
		}
		coords = dimStyle.Render(fmt.Sprintf("%s  lon=%.5f lat=%.5f  ", label, m.hoverLon, m.hoverLat))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, help)
	spacerW := max(0, contentWidth-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.NewStyle().Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, popup, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"click select",
		"↑↓←→ pan",
		"+/- zoom",
		"r reset",
		"1/2/3 layers",
		"Tab files",
		"u url",
		"a attrs",
		"i inspect",
		"esc close",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}

func (m Model) inspectText() string {
	f, ok := m.inspectNearest()
	if !ok {
		return "no feature nearby"
	}
	name := filepath.Base(m.source.Origin())
	meta := []string{
		fmt.Sprintf("dataset: %s", name),
		fmt.Sprintf("nearest: %s", featureLabel(f)),
		fmt.Sprintf("lon=%.6f lat=%.6f", f.Coordinates[0], f.Coordinates[1]),
		fmt.Sprintf("rank: %g", f.Rank),
	}
	if sel, ok := m.store.Snapshot().Selected(); ok {
		meta = append(meta,
			fmt.Sprintf("selected: %s", featureLabel(sel)),
			fmt.Sprintf("distance: %.1f km", geom.Distance(sel.Coordinates, f.Coordinates, geom.Kilometers)))
	}
	return strings.Join(meta, "\n")
}
