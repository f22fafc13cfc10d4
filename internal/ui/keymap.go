package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keyboard shortcuts for the application
type KeyMap struct {
	// Global navigation
	Quit key.Binding
	Back key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Enter    key.Binding
	Tab      key.Binding
	ShiftTab key.Binding

	// Screens
	Symbols  key.Binding
	Monitors key.Binding
	Logs     key.Binding

	// Price ranges
	ApplyFilter key.Binding
	ClearFilter key.Binding
	FocusFilter key.Binding
	Refresh     key.Binding
	Export      key.Binding

	// Monitors
	AddMonitor    key.Binding
	EditMonitor   key.Binding
	ToggleMonitor key.Binding
	DeleteMonitor key.Binding
	Confirm       key.Binding
	Save          key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q/ctrl+c", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "pgup"),
			key.WithHelp("←/pgup", "prev page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "pgdown"),
			key.WithHelp("→/pgdn", "next page"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev"),
		),

		Symbols: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "price ranges"),
		),
		Monitors: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "monitors"),
		),
		Logs: key.NewBinding(
			key.WithKeys("l", "f12"),
			key.WithHelp("l/F12", "logs"),
		),

		ApplyFilter: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "apply filter"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reset filter"),
		),
		FocusFilter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "edit filter"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "f5"),
			key.WithHelp("r/F5", "refresh"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export csv"),
		),

		AddMonitor: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add monitor"),
		),
		EditMonitor: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		ToggleMonitor: key.NewBinding(
			key.WithKeys(" ", "t"),
			key.WithHelp("space/t", "pause/resume"),
		),
		DeleteMonitor: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
	}
}

// ShortHelp returns key help text for the current context
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Quit}
}

// ContextualHelp returns help text based on the current route
func (k KeyMap) ContextualHelp(route Route) []key.Binding {
	switch route {
	case RouteMainMenu:
		return []key.Binding{k.Up, k.Down, k.Enter, k.Symbols, k.Monitors, k.Logs, k.Quit}
	case RouteSymbols:
		return []key.Binding{k.FocusFilter, k.ApplyFilter, k.ClearFilter, k.PrevPage, k.NextPage, k.AddMonitor, k.Refresh, k.Export, k.Back}
	case RouteMonitors:
		return []key.Binding{k.Up, k.Down, k.AddMonitor, k.EditMonitor, k.ToggleMonitor, k.DeleteMonitor, k.Refresh, k.Export, k.Back}
	case RouteMonitorDialog:
		return []key.Binding{k.Tab, k.ShiftTab, k.Save, k.Back}
	case RouteLogs:
		return []key.Binding{k.Up, k.Down, k.FocusFilter, k.ClearFilter, k.Refresh, k.Back}
	default:
		return k.ShortHelp()
	}
}
