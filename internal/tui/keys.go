package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Next     key.Binding
	Prev     key.Binding
	Rotate   key.Binding
	Place    key.Binding
	Remove   key.Binding
	Evaluate key.Binding
	Reset    key.Binding
	Customer key.Binding
	Scroll   key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Place, k.Rotate, k.Next, k.Remove, k.Evaluate, k.Reset, k.Customer, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Next, k.Prev, k.Rotate, k.Place, k.Remove},
		{k.Evaluate, k.Reset, k.Customer, k.Scroll, k.Quit},
	}
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next item")),
	Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev item")),
	Rotate:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rotate")),
	Place:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "place")),
	Remove:   key.NewBinding(key.WithKeys("x", "backspace"), key.WithHelp("x", "remove")),
	Evaluate: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "evaluate")),
	Reset:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "reset layout")),
	Customer: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new customer")),
	Scroll:   key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "scroll result")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}
