package app

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit    key.Binding
	Restart key.Binding
	Stop    key.Binding
	Export  key.Binding
	PNG     key.Binding
	Left    key.Binding
	Right   key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Help    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "Q", "ctrl+c"), key.WithHelp("q", "quit")),
		Restart: key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("r", "restart")),
		Stop:    key.NewBinding(key.WithKeys("s", "S"), key.WithHelp("s", "stop")),
		Export:  key.NewBinding(key.WithKeys("e", "E"), key.WithHelp("e", "export csv")),
		PNG:     key.NewBinding(key.WithKeys("p", "P"), key.WithHelp("p", "export png")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "pan left")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "pan right")),
		ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Restart, k.Stop, k.Export, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Restart, k.Stop, k.Quit},
		{k.Export, k.PNG},
		{k.Left, k.Right, k.ZoomIn, k.ZoomOut},
		{k.Help},
	}
}
