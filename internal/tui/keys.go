package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

type keyMap struct {
	NextTab   key.Binding
	PrevTab   key.Binding
	Sort      key.Binding
	NextPage  key.Binding
	PrevPage  key.Binding
	FirstPage key.Binding
	LastPage  key.Binding
	Up        key.Binding
	Down      key.Binding
	Open      key.Binding
	Delete    key.Binding
	Status    key.Binding
	Search    key.Binding
	Reload    key.Binding
	Quit      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		NextTab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		PrevTab:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "prev")),
		Sort:      key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "sort")),
		NextPage:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "page")),
		PrevPage:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "page")),
		FirstPage: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "first")),
		LastPage:  key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "last")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Delete:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		Status:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{
		k.NextTab, k.Sort, k.PrevPage, k.NextPage, k.Up, k.Down,
		k.Open, k.Delete, k.Status, k.Search, k.Reload, k.Quit,
	}
}

func renderHelp(bindings []key.Binding, width int) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" && h.Desc == "" {
			continue
		}
		parts = append(parts, helpKeyStyle.Render(h.Key)+" "+helpDescStyle.Render(h.Desc))
	}
	return renderBar(strings.Join(parts, "  "), width, lipgloss.NewStyle())
}

func renderBar(text string, width int, style lipgloss.Style) string {
	line := strings.ReplaceAll(text, "\n", " ")
	if width <= 0 {
		return style.Render(line)
	}
	line = ansi.Truncate(line, width, "")
	if w := ansi.StringWidth(line); w < width {
		line += strings.Repeat(" ", width-w)
	}
	return style.Render(line)
}
