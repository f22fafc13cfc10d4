package screen

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/rangewatch/internal/ui"
	"github.com/rovshanmuradov/rangewatch/internal/ui/component"
	"github.com/rovshanmuradov/rangewatch/internal/ui/router"
	"github.com/rovshanmuradov/rangewatch/internal/ui/style"
)

// MenuItem represents a menu item
type MenuItem struct {
	Label       string
	Description string
	Route       ui.Route
}

// MainMenuScreen represents the main menu screen
type MainMenuScreen struct {
	svc    *ui.Services
	width  int
	height int
	keyMap ui.KeyMap

	helpBar *component.HelpBar

	selectedIndex int
	menuItems     []MenuItem

	menuItemStyle    lipgloss.Style
	selectedStyle    lipgloss.Style
	descriptionStyle lipgloss.Style

	lastUpdate time.Time
}

type clockTickMsg time.Time

// NewMainMenuScreen creates a new main menu screen
func NewMainMenuScreen(svc *ui.Services) *MainMenuScreen {
	palette := style.DefaultPalette()
	keyMap := ui.DefaultKeyMap()

	return &MainMenuScreen{
		svc:    svc,
		keyMap: keyMap,
		menuItems: []MenuItem{
			{Label: "▤ Price Ranges", Description: "Filter symbols by 20-day amplitude, position and volume", Route: ui.RouteSymbols},
			{Label: "◉ Monitors", Description: "Review, pause, edit and delete monitored symbols", Route: ui.RouteMonitors},
			{Label: "☰ Logs", Description: "Recent application log entries", Route: ui.RouteLogs},
		},
		helpBar:    component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteMainMenu)),
		lastUpdate: time.Now(),

		menuItemStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 2),

		selectedStyle: lipgloss.NewStyle().
			Foreground(palette.Background).
			Background(palette.Primary).
			Padding(0, 2).
			Bold(true),

		descriptionStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Padding(0, 4).
			Italic(true),
	}
}

func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

// Init initializes the main menu screen
func (m *MainMenuScreen) Init() tea.Cmd {
	return clockTick()
}

// Update handles screen updates
func (m *MainMenuScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keyMap.Up):
			m.selectedIndex = (m.selectedIndex - 1 + len(m.menuItems)) % len(m.menuItems)
		case key.Matches(msg, m.keyMap.Down):
			m.selectedIndex = (m.selectedIndex + 1) % len(m.menuItems)
		case key.Matches(msg, m.keyMap.Enter):
			return m, ui.Navigate(m.menuItems[m.selectedIndex].Route)
		case key.Matches(msg, m.keyMap.Symbols):
			return m, ui.Navigate(ui.RouteSymbols)
		case key.Matches(msg, m.keyMap.Monitors):
			return m, ui.Navigate(ui.RouteMonitors)
		case key.Matches(msg, m.keyMap.Logs):
			return m, ui.Navigate(ui.RouteLogs)
		}

	case clockTickMsg:
		m.lastUpdate = time.Time(msg)
		return m, clockTick()
	}

	return m, nil
}

// View renders the main menu screen
func (m *MainMenuScreen) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	symbols := m.svc.Cache.Symbols()
	monitors := m.svc.Cache.Monitors()

	summary := style.MutedStyle.Render(fmt.Sprintf("%s · %s · %s",
		m.lastUpdate.Format("15:04:05"),
		symbolSummary(symbols.Loaded, symbols.View.Pager.Total, symbols.Error),
		monitorSummary(monitors.Loaded, len(monitors.Entries), monitors.Error)))

	content := joinNonEmpty(
		header(m.svc, "Range Watch"),
		summary,
		"",
		style.ActivePanelStyle.Padding(1, 3).Render(m.renderMenu()),
		noticeLine(m.svc),
		m.helpBar.SetWidth(m.width).View(),
	)

	if m.width > 80 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

func symbolSummary(loaded bool, total int, errMsg string) string {
	switch {
	case errMsg != "":
		return "symbols unavailable"
	case !loaded:
		return "symbols loading"
	default:
		return fmt.Sprintf("%d symbols", total)
	}
}

func monitorSummary(loaded bool, count int, errMsg string) string {
	switch {
	case errMsg != "":
		return "monitors unavailable"
	case !loaded:
		return "monitors loading"
	default:
		return fmt.Sprintf("%d monitors", count)
	}
}

// SetSize sets the screen dimensions
func (m *MainMenuScreen) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *MainMenuScreen) renderMenu() string {
	lines := make([]string, 0, len(m.menuItems)*2)
	for i, item := range m.menuItems {
		if i == m.selectedIndex {
			lines = append(lines, m.selectedStyle.Render(item.Label), m.descriptionStyle.Render(item.Description))
			continue
		}
		lines = append(lines, m.menuItemStyle.Render(item.Label))
	}
	return strings.Join(lines, "\n")
}

// SelectedRoute returns the currently selected route
func (m *MainMenuScreen) SelectedRoute() ui.Route {
	return m.menuItems[m.selectedIndex].Route
}
