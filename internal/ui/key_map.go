package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the watchlist view.
type keyMap struct {
	remove key.Binding
	open   key.Binding
	reload key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		remove: key.NewBinding(key.WithKeys("d", "x", "delete"), key.WithHelp("d/x", "remove")),
		open:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open image")),
		reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.reload, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.remove, k.open},
		{k.reload, k.quit},
	}
}
