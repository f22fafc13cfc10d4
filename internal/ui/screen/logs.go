package screen

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/rangewatch/internal/logger"
	"github.com/rovshanmuradov/rangewatch/internal/ui"
	"github.com/rovshanmuradov/rangewatch/internal/ui/component"
	"github.com/rovshanmuradov/rangewatch/internal/ui/router"
	"github.com/rovshanmuradov/rangewatch/internal/ui/style"
)

// LogLevel filters the log view
type LogLevel string

const (
	LogLevelAll   LogLevel = "all"
	LogLevelError LogLevel = "error"
	LogLevelWarn  LogLevel = "warn"
	LogLevelInfo  LogLevel = "info"
)

const logsRefreshInterval = time.Second

type logsTickMsg struct{}

// LogsScreen shows the in-memory log buffer
type LogsScreen struct {
	svc    *ui.Services
	width  int
	height int
	keyMap ui.KeyMap

	table   *component.Table
	search  *component.Form
	helpBar *component.HelpBar

	entries  []logger.LogEntry
	filtered []logger.LogEntry
	level    LogLevel
	tailMode bool
}

// NewLogsScreen creates the log viewer
func NewLogsScreen(svc *ui.Services) *LogsScreen {
	keyMap := ui.DefaultKeyMap()

	search := component.NewForm().
		SetInline(true).
		SetInputWidth(30).
		AddField("search", "Search", "text in message or fields")
	search.Blur()

	s := &LogsScreen{
		svc:    svc,
		keyMap: keyMap,
		table: component.NewTable(
			component.TableColumn{Header: "Time", Width: 8, Align: lipgloss.Left},
			component.TableColumn{Header: "Level", Width: 5, Align: lipgloss.Left},
			component.TableColumn{Header: "Logger", Width: 12, Align: lipgloss.Left},
			component.TableColumn{Header: "Message", Width: 40, Align: lipgloss.Left},
			component.TableColumn{Header: "Fields", Width: 40, Align: lipgloss.Left},
		).SetEmptyText("No log entries"),
		search:   search,
		helpBar:  component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteLogs)),
		level:    LogLevelAll,
		tailMode: true,
	}
	s.reload()
	return s
}

// Init starts the refresh ticker
func (s *LogsScreen) Init() tea.Cmd {
	return s.scheduleRefresh()
}

func (s *LogsScreen) scheduleRefresh() tea.Cmd {
	return tea.Tick(logsRefreshInterval, func(time.Time) tea.Msg {
		return logsTickMsg{}
	})
}

// CapturesKey keeps esc inside the search box while it is being edited
func (s *LogsScreen) CapturesKey(msg tea.KeyMsg) bool {
	return s.search.Focused() && key.Matches(msg, s.keyMap.Back)
}

// Update handles screen updates
func (s *LogsScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s.search.Focused() {
			switch {
			case key.Matches(msg, s.keyMap.Back), key.Matches(msg, s.keyMap.Enter):
				s.search.Blur()
				s.applyFilters()
				return s, nil
			}
			var cmd tea.Cmd
			s.search, cmd = s.search.Update(msg)
			s.applyFilters()
			return s, cmd
		}
		return s, s.handleKey(msg)

	case logsTickMsg:
		s.reload()
		return s, s.scheduleRefresh()
	}

	return s, nil
}

func (s *LogsScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, s.keyMap.Quit):
		return tea.Quit
	case key.Matches(msg, s.keyMap.Up):
		s.table.MoveUp()
		s.tailMode = false
	case key.Matches(msg, s.keyMap.Down):
		s.table.MoveDown()
	case key.Matches(msg, s.keyMap.Refresh):
		s.reload()
	case key.Matches(msg, s.keyMap.FocusFilter):
		s.search.Focus()
	case key.Matches(msg, s.keyMap.ClearFilter):
		s.search.Reset()
		s.search.Blur()
		s.level = LogLevelAll
		s.applyFilters()
	case msg.String() == "t":
		s.tailMode = !s.tailMode
		if s.tailMode {
			s.table.SelectLast()
		}
	case msg.String() == "1":
		s.setLevel(LogLevelError)
	case msg.String() == "2":
		s.setLevel(LogLevelWarn)
	case msg.String() == "3":
		s.setLevel(LogLevelInfo)
	case msg.String() == "4":
		s.setLevel(LogLevelAll)
	}
	return nil
}

func (s *LogsScreen) setLevel(level LogLevel) {
	s.level = level
	s.applyFilters()
}

func (s *LogsScreen) reload() {
	if s.svc.Logs == nil {
		return
	}
	s.entries = s.svc.Logs.GetRecentLogs(0)
	s.applyFilters()
}

// applyFilters rebuilds the table from entries
func (s *LogsScreen) applyFilters() {
	term := strings.ToLower(s.search.Value("search"))

	s.filtered = s.filtered[:0]
	for _, e := range s.entries {
		if !matchesLevel(s.level, e.Level) {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(e.Message+" "+renderFields(e.Fields)), term) {
			continue
		}
		s.filtered = append(s.filtered, e)
	}

	rows := make([][]string, len(s.filtered))
	for i, e := range s.filtered {
		rows[i] = []string{
			e.Timestamp.Format("15:04:05"),
			strings.ToUpper(e.Level),
			e.Logger,
			e.Message,
			renderFields(e.Fields),
		}
	}
	filtered := s.filtered
	s.table.SetRows(rows, func(i int) bool {
		return filtered[i].Level == "debug"
	})
	if s.tailMode {
		s.table.SelectLast()
	}
}

var levelRank = map[string]int{"debug": 0, "info": 1, "warn": 2, "error": 3, "dpanic": 4, "panic": 4, "fatal": 4}

// matchesLevel keeps entries at or above the selected level
func matchesLevel(filter LogLevel, level string) bool {
	rank := levelRank
	switch filter {
	case LogLevelError:
		return rank[level] >= 3
	case LogLevelWarn:
		return rank[level] >= 2
	case LogLevelInfo:
		return rank[level] >= 1
	default:
		return true
	}
}

func renderFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, fields[k])
	}
	return strings.Join(parts, " ")
}

// View renders the screen
func (s *LogsScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	searchStyle := style.PanelStyle
	if s.search.Focused() {
		searchStyle = style.ActivePanelStyle
	}

	return joinNonEmpty(
		header(s.svc, "Logs"),
		searchStyle.Render(s.search.View()),
		s.table.View(),
		s.renderStatusBar(),
		s.helpBar.SetWidth(s.width).View(),
	)
}

func (s *LogsScreen) renderStatusBar() string {
	var errs, warns int
	for _, e := range s.entries {
		switch e.Level {
		case "error", "dpanic", "panic", "fatal":
			errs++
		case "warn":
			warns++
		}
	}

	total, dropped := uint64(0), uint64(0)
	if s.svc.Logs != nil {
		total, dropped = s.svc.Logs.GetStats()
	}

	tail := "off"
	if s.tailMode {
		tail = "on"
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		style.MutedStyle.Render(fmt.Sprintf("Level: %s  Showing %d/%d  Total %d  Rotated %d  Tail %s  ",
			s.level, len(s.filtered), len(s.entries), total, dropped, tail)),
		style.ErrorStyle.Render(fmt.Sprintf("%d errors  ", errs)),
		style.WarningStyle.Render(fmt.Sprintf("%d warnings", warns)),
	)
}

// SetSize sets the screen dimensions
func (s *LogsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.table.SetHeight(max(height-14, 5))
}
