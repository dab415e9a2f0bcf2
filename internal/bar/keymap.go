package bar

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the bar's keyboard shortcuts. The bar is pointer-first;
// keys cover only lifecycle actions.
type keyMap struct {
	Quit    key.Binding
	Reload  key.Binding
	Refresh key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload config"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh modules"),
		),
	}
}
