package tui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func supportedExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".geojson", ".json", ".csv", ".kml":
		return true
	}
	return false
}

func (m *Model) refreshDir() {
	if m.cwd == "" {
		return
	}
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if supportedExt(ext) {
			items = append(items, fileItem{title: name, desc: strings.ToLower(ext), path: filepath.Join(m.cwd, name)})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 && m.showSidebar {
		m.status = "no supported files in current directory"
	}
}

// openPath starts loading a local dataset chosen in the sidebar.
func (m *Model) openPath(p string) tea.Cmd {
	if !supportedExt(filepath.Ext(p)) {
		m.status = "unsupported file: " + filepath.Ext(p)
		return nil
	}
	return m.loadCmd(p)
}
