package tui

import "github.com/charmbracelet/bubbles/key"

type listKeys struct {
	Up              key.Binding
	Down            key.Binding
	Filter          key.Binding
	Add             key.Binding
	Toggle          key.Binding
	Edit            key.Binding
	Delete          key.Binding
	MarkAll         key.Binding
	DeleteCompleted key.Binding
	Refresh         key.Binding
	Quit            key.Binding
}

func (k listKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Filter, k.Add, k.Toggle, k.Edit, k.Delete, k.Quit}
}

func (k listKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Filter, k.Refresh},
		{k.Add, k.Toggle, k.Edit, k.Delete},
		{k.MarkAll, k.DeleteCompleted, k.Quit},
	}
}

var keys = listKeys{
	Up:              key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:            key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Filter:          key.NewBinding(key.WithKeys("tab", "f"), key.WithHelp("tab", "filter")),
	Add:             key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Toggle:          key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
	Edit:            key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
	Delete:          key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	MarkAll:         key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mark all completed")),
	DeleteCompleted: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "delete completed")),
	Refresh:         key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:            key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type formKeys struct {
	Next   key.Binding
	Submit key.Binding
	Cancel key.Binding
}

func (k formKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Cancel}
}

func (k formKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var formKeyMap = formKeys{
	Next:   key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}
