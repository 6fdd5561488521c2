package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	left     key.Binding
	right    key.Binding
	enter    key.Binding
	downvote key.Binding
	upvote   key.Binding
	back     key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		left:     key.NewBinding(key.WithKeys("left", "h", "up", "k", "shift+tab"), key.WithHelp("←/h", "left")),
		right:    key.NewBinding(key.WithKeys("right", "l", "down", "j", "tab"), key.WithHelp("→/l", "right")),
		enter:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "press")),
		downvote: key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "downvote")),
		upvote:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "upvote")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "features")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.left, k.right, k.enter},
		{k.downvote, k.upvote, k.back},
		{k.quit},
	}
}
