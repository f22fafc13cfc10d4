package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/rangewatch/internal/api"
	"github.com/rovshanmuradov/rangewatch/internal/dashboard"
)

// Tea message types for UI communication

// RouterMsg represents navigation between screens. For the monitor dialog,
// Monitor selects edit mode and Symbol pre-fills create mode.
type RouterMsg struct {
	To      Route
	Monitor *api.MonitorEntry
	Symbol  string
}

// BackMsg pops the current screen
type BackMsg struct{}

// SymbolsResetMsg clears the price range table before a new filter loads
type SymbolsResetMsg struct{}

// SymbolsLoadedMsg carries a freshly loaded page of the price range table
type SymbolsLoadedMsg struct {
	View dashboard.SymbolView
}

// SymbolsFailedMsg reports a failed price range load
type SymbolsFailedMsg struct {
	Message string
}

// MonitorsLoadedMsg carries the reloaded monitor list
type MonitorsLoadedMsg struct {
	Entries []api.MonitorEntry
}

// MonitorsFailedMsg reports a failed monitor list load
type MonitorsFailedMsg struct {
	Message string
}

// NoticeMsg is a user-facing alert raised by the controller
type NoticeMsg struct {
	Notice dashboard.Notice
}

// ActionDoneMsg reports the outcome of a command started from a screen
type ActionDoneMsg struct {
	Action string
	Err    error
}

// BusMsg wraps a message received from Bus. The application model
// re-arms ListenBus only after one of these, keeping a single listener.
type BusMsg struct {
	Msg tea.Msg
}

// Bus is the global event bus for UI communication
var Bus = make(chan tea.Msg, 1024)

// ListenBus returns a tea.Cmd that waits for the next bus message
func ListenBus() tea.Cmd {
	return func() tea.Msg {
		return BusMsg{Msg: <-Bus}
	}
}

// Navigate returns a command that requests a route change
func Navigate(route Route) tea.Cmd {
	return func() tea.Msg {
		return RouterMsg{To: route}
	}
}

// Back returns a command that pops the current screen
func Back() tea.Cmd {
	return func() tea.Msg {
		return BackMsg{}
	}
}

// Route represents different screens in the application
type Route int

const (
	RouteMainMenu Route = iota
	RouteSymbols
	RouteMonitors
	RouteMonitorDialog
	RouteLogs
)

// String returns the string representation of the route
func (r Route) String() string {
	switch r {
	case RouteMainMenu:
		return "main_menu"
	case RouteSymbols:
		return "symbols"
	case RouteMonitors:
		return "monitors"
	case RouteMonitorDialog:
		return "monitor_dialog"
	case RouteLogs:
		return "logs"
	default:
		return "unknown"
	}
}
