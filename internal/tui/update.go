package tui

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"geoarcs/internal/dataset"
	"geoarcs/internal/geom"
	"geoarcs/internal/interaction"
	"geoarcs/internal/layers"
)

var layerKeys = map[string]string{
	"1": layers.PointsID,
	"2": layers.ArcsID,
	"3": layers.BufferID,
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			_, ch := m.contentSize()
			m.l.SetSize(sidebarWidth-2, ch-2)
		}
	case datasetMsg:
		m.applyDataset(dataset.Result(msg))
		if m.showAttrs {
			m.refreshAttrs()
		}
		return m, nil
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.urlMode {
			return m.updateURLPrompt(msg)
		}
		return m.updateKey(msg)
	case tea.MouseMsg:
		return m.updateMouse(msg)
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateURLPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.urlMode = false
		m.ta.Blur()
		m.status = "view mode"
		return m, nil
	case "enter":
		origin := strings.TrimSpace(m.ta.Value())
		if origin == "" {
			m.status = "url: empty"
			return m, nil
		}
		m.urlMode = false
		m.ta.Blur()
		return m, m.loadCmd(origin)
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k := msg.String(); k {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "1", "2", "3":
		id := layerKeys[k]
		m.hidden[id] = !m.hidden[id]
		m.status = fmt.Sprintf("%s: %v", id, !m.hidden[id])
	case "l":
		// toggle all layers
		anyShown := false
		for _, id := range layerKeys {
			anyShown = anyShown || !m.hidden[id]
		}
		for _, id := range layerKeys {
			m.hidden[id] = anyShown
		}
		m.status = fmt.Sprintf("layers: %v", !anyShown)
	case "+", "=":
		m.zoomBy(1.2)
	case "-", "_":
		m.zoomBy(1 / 1.2)
	case "r":
		m.view = m.bridge.InitialView()
		m.zoom = 1.0
		m.offsetX, m.offsetY = 0, 0
		m.status = "view reset"
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshDir()
			_, ch := m.contentSize()
			m.l.SetSize(sidebarWidth-2, ch-2)
		}
	case "u":
		m.urlMode = true
		m.ta.SetValue(m.origin)
		m.ta.Focus()
		m.status = "url prompt"
	case "h":
		m.helpVisible = !m.helpVisible
	case "a":
		m.showAttrs = !m.showAttrs
		if m.showAttrs {
			m.refreshAttrs()
		}
	case "i":
		if m.inspectPopup != "" {
			m.inspectPopup = ""
		} else {
			m.inspectPopup = m.inspectText()
		}
		m.status = "inspect"
	case "esc":
		m.inspectPopup = ""
		m.showAttrs = false
	case "enter":
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(fileItem); ok {
				return m, m.openPath(it.path)
			}
		}
	case "up":
		m.offsetY++
	case "down":
		m.offsetY--
	case "left":
		m.offsetX += 2
	case "right":
		m.offsetX -= 2
	default:
		if m.showSidebar {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) zoomBy(f float64) {
	z := m.zoom * f
	if z > 64 || z < 0.05 {
		return
	}
	m.zoom = z
	m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
}

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	ox, oy, w, h := m.mapRect()
	cx, cy := msg.X-ox, msg.Y-oy
	inside := cx >= 0 && cx < w && cy >= 0 && cy < h && !m.showAttrs && !m.urlMode
	if !inside {
		m.hovering = false
		m.hoverHasGeo = false
		m.hoverFeat = nil
		if m.showSidebar {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	m.hovering = true
	m.hoverCellX, m.hoverCellY = cx, cy
	m.hoverLon, m.hoverLat, m.hoverHasGeo = m.cellToLonLat(cx, cy, w, h)
	res := m.pickAt(cx, cy, w, h)
	m.hoverFeat = nil
	if f, ok := res.Feature(); ok {
		m.hoverFeat = &f
	}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.zoomBy(1.2)
	case msg.Button == tea.MouseButtonWheelDown:
		m.zoomBy(1 / 1.2)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.click(res)
	}
	return m, nil
}

// pickAt resolves the cell under the cursor to a pick result.
func (m Model) pickAt(cx, cy, w, h int) interaction.PickResult {
	lon, lat, ok := m.cellToLonLat(cx, cy, w, h)
	if !ok {
		return interaction.Miss()
	}
	tolLon, tolLat := m.pickTolerance(w, h)
	return m.index.pick(lon, lat, tolLon, tolLat)
}

// click hands a pick to the bridge. On error the previous selection stays
// and the layer stack is left as it was.
func (m *Model) click(res interaction.PickResult) {
	if err := m.bridge.OnPick(res); err != nil {
		m.log.Warn("pick rejected", zap.Error(err))
		m.status = "select error: " + err.Error()
		return
	}
	m.recompose()
	if f, ok := m.store.Snapshot().Selected(); ok {
		m.status = "selected: " + featureLabel(f)
	}
	if m.showAttrs {
		m.refreshAttrs()
	}
}

func featureLabel(f geom.PointFeature) string {
	if n := f.Name(); n != "" {
		return n
	}
	return fmt.Sprintf("#%v", f.ID)
}
