package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the [key.Binding]s for the generator workflow. Help text is
// phrased per view: enter previews matches, y/n answers the create prompt,
// r starts a new search from the result screen.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	preview key.Binding
	build   key.Binding
	back    key.Binding
	confirm key.Binding
	cancel  key.Binding
	again   key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		preview: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "preview matches")),
		build:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "create playlist")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "edit criteria")),
		confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "create")),
		cancel:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "cancel")),
		again:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "new search")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.preview},
		{k.back, k.confirm, k.cancel},
		{k.again, k.quit},
	}
}
