package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Keep         key.Binding
	Toss         key.Binding
	Archive      key.Binding
	Prev         key.Binding
	Next         key.Binding
	SwipeKeep    key.Binding
	SwipeToss    key.Binding
	SwipeArchive key.Binding
	SwipeSkip    key.Binding
	ToggleSwipe  key.Binding
	Search       key.Binding
	Filter       key.Binding
	Export       key.Binding
	ArchivePDF   key.Binding
	Open         key.Binding
	Copy         key.Binding
	SignIn       key.Binding
	SignOut      key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Keep:         key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "keep")),
		Toss:         key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "toss")),
		Archive:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "archive")),
		Prev:         key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous")),
		Next:         key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next")),
		SwipeKeep:    key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "keep")),
		SwipeToss:    key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "toss")),
		SwipeArchive: key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "archive")),
		SwipeSkip:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "skip")),
		ToggleSwipe:  key.NewBinding(key.WithKeys("t", "T"), key.WithHelp("t", "swipe mode")),
		Search:       key.NewBinding(key.WithKeys("S", "s", "/"), key.WithHelp("/", "search")),
		Filter:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next filter")),
		Export:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export json")),
		ArchivePDF:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "archive pdf")),
		Open:         key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open channel")),
		Copy:         key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy link")),
		SignIn:       key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "sign in")),
		SignOut:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "sign out")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Keep, k.Toss, k.Archive, k.ToggleSwipe, k.Search, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Keep, k.Toss, k.Archive, k.Prev, k.Next},
		{k.SwipeKeep, k.SwipeToss, k.SwipeArchive, k.SwipeSkip, k.ToggleSwipe},
		{k.Search, k.Filter, k.Open, k.Copy},
		{k.Export, k.ArchivePDF, k.SignIn, k.SignOut, k.Help, k.Quit},
	}
}
