package configform

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Confirm key.Binding
	Exit    key.Binding
	Cancel  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Save and play"),
		),
		Exit: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "Stop SlowMovie"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "Cancel"),
		),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Confirm, k.Next, k.Exit, k.Cancel}
}
