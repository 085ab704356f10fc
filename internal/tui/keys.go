package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Switch key.Binding
	Search key.Binding
	Done   key.Binding
	Filter key.Binding
	Prev   key.Binding
	Next   key.Binding
	Clear  key.Binding
	Export key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Switch: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch table")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Done:   key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "done")),
		Filter: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "next filter")),
		Prev:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev value")),
		Next:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next value")),
		Clear:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Export: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export csv")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Switch, k.Search, k.Filter, k.Prev, k.Next, k.Clear, k.Export, k.Quit}
}

// sortColumn returns the zero-based column for the keys 1 to 9.
func sortColumn(s string) (int, bool) {
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	return int(s[0] - '1'), true
}
