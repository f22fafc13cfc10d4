package screen

import (
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rangewatch/internal/api"
	"github.com/rovshanmuradov/rangewatch/internal/dashboard"
	"github.com/rovshanmuradov/rangewatch/internal/export"
	"github.com/rovshanmuradov/rangewatch/internal/format"
	"github.com/rovshanmuradov/rangewatch/internal/ui"
	"github.com/rovshanmuradov/rangewatch/internal/ui/component"
	"github.com/rovshanmuradov/rangewatch/internal/ui/router"
	"github.com/rovshanmuradov/rangewatch/internal/ui/style"
)

// pollGen tells apart the poll chains of successive monitor screens
var pollGen atomic.Int64

type pollTickMsg struct{ gen int64 }

type pollDoneMsg struct {
	gen  int64
	next time.Duration
}

// monitorLoadedMsg carries a single monitor fetched for the edit dialog
type monitorLoadedMsg struct {
	entry *api.MonitorEntry
	err   error
}

// MonitorsScreen lists the account's monitors and refreshes them in the
// background through the poller.
type MonitorsScreen struct {
	svc    *ui.Services
	width  int
	height int
	keyMap ui.KeyMap
	gen    int64

	table   *component.Table
	helpBar *component.HelpBar
	spinner spinner.Model

	entries       []api.MonitorEntry
	loaded        bool
	errMsg        string
	status        string
	pendingDelete int64
	lastSync      time.Time
}

// NewMonitorsScreen creates the monitor list screen from the cached list
func NewMonitorsScreen(svc *ui.Services) *MonitorsScreen {
	keyMap := ui.DefaultKeyMap()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(style.DefaultPalette().Primary)

	s := &MonitorsScreen{
		svc:    svc,
		keyMap: keyMap,
		gen:    pollGen.Add(1),
		table: component.NewTable(
			component.TableColumn{Header: "ID", Width: 6, Align: lipgloss.Right},
			component.TableColumn{Header: "Symbol", Width: 12, Align: lipgloss.Left},
			component.TableColumn{Header: "Status", Width: 8, Align: lipgloss.Left},
			component.TableColumn{Header: "State", Width: 7, Align: lipgloss.Left},
			component.TableColumn{Header: "Side", Width: 5, Align: lipgloss.Left},
			component.TableColumn{Header: "Capital", Width: 10, Align: lipgloss.Right},
			component.TableColumn{Header: "Lev", Width: 4, Align: lipgloss.Right},
			component.TableColumn{Header: "TP", Width: 8, Align: lipgloss.Right},
			component.TableColumn{Header: "Last", Width: 12, Align: lipgloss.Right},
			component.TableColumn{Header: "Amp", Width: 8, Align: lipgloss.Right},
			component.TableColumn{Header: "Pos", Width: 8, Align: lipgloss.Right},
			component.TableColumn{Header: "Synced", Width: 14, Align: lipgloss.Left},
		).SetEmptyText("No monitors yet, press a to add one"),
		helpBar: component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteMonitors)),
		spinner: sp,
	}

	snap := svc.Cache.Monitors()
	if snap.Loaded {
		s.setEntries(snap.Entries)
		s.lastSync = snap.UpdatedAt
	}
	s.errMsg = snap.Error
	return s
}

// Init starts the poll chain and an immediate refresh
func (s *MonitorsScreen) Init() tea.Cmd {
	return tea.Batch(
		s.svc.Dispatch(dashboard.LoadMonitorsCommand{}),
		s.schedulePoll(s.svc.Poller.Interval()),
		s.spinner.Tick,
	)
}

func (s *MonitorsScreen) schedulePoll(after time.Duration) tea.Cmd {
	gen := s.gen
	return tea.Tick(after, func(time.Time) tea.Msg {
		return pollTickMsg{gen: gen}
	})
}

func (s *MonitorsScreen) poll() tea.Cmd {
	svc, gen := s.svc, s.gen
	return func() tea.Msg {
		return pollDoneMsg{gen: gen, next: svc.Poller.Poll(svc.Ctx)}
	}
}

// Update handles screen updates
func (s *MonitorsScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return s, s.handleKey(msg)

	case pollTickMsg:
		if msg.gen == s.gen {
			return s, s.poll()
		}

	case pollDoneMsg:
		if msg.gen == s.gen {
			return s, s.schedulePoll(msg.next)
		}

	case ui.MonitorsLoadedMsg:
		s.setEntries(msg.Entries)
		s.loaded = true
		s.errMsg = ""
		s.lastSync = time.Now()

	case ui.MonitorsFailedMsg:
		s.errMsg = msg.Message

	case monitorLoadedMsg:
		if msg.err != nil {
			return s, nil // the controller already raised a notice
		}
		if !dashboard.CanEdit(*msg.entry) {
			s.status = fmt.Sprintf("%s is %s and can no longer be edited", msg.entry.Symbol, format.StatusText(msg.entry.Status))
			return s, nil
		}
		entry := msg.entry
		return s, func() tea.Msg {
			return ui.RouterMsg{To: ui.RouteMonitorDialog, Monitor: entry}
		}

	case exportDoneMsg:
		if msg.kind == "monitors" {
			s.status = msg.text()
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}

	return s, nil
}

func (s *MonitorsScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s.pendingDelete != 0 {
		id := s.pendingDelete
		s.pendingDelete = 0
		if key.Matches(msg, s.keyMap.Confirm) {
			s.status = ""
			return s.svc.Dispatch(dashboard.DeleteMonitorCommand{ID: id})
		}
		s.status = "Delete cancelled"
		return nil
	}

	switch {
	case key.Matches(msg, s.keyMap.Quit):
		return tea.Quit
	case key.Matches(msg, s.keyMap.Up):
		s.table.MoveUp()
	case key.Matches(msg, s.keyMap.Down):
		s.table.MoveDown()
	case key.Matches(msg, s.keyMap.Refresh):
		s.status = ""
		return s.svc.Dispatch(dashboard.LoadMonitorsCommand{})
	case key.Matches(msg, s.keyMap.AddMonitor):
		return ui.Navigate(ui.RouteMonitorDialog)
	case key.Matches(msg, s.keyMap.EditMonitor):
		if entry, ok := s.selected(); ok {
			return s.loadForEdit(entry.ID)
		}
	case key.Matches(msg, s.keyMap.ToggleMonitor):
		if entry, ok := s.selected(); ok {
			s.status = ""
			return s.svc.Dispatch(dashboard.ToggleMonitorCommand{ID: entry.ID})
		}
	case key.Matches(msg, s.keyMap.DeleteMonitor):
		if entry, ok := s.selected(); ok {
			s.pendingDelete = entry.ID
			s.status = fmt.Sprintf("Delete monitor #%d %s? press y to confirm", entry.ID, entry.Symbol)
		}
	case key.Matches(msg, s.keyMap.Export):
		return s.export()
	}
	return nil
}

func (s *MonitorsScreen) selected() (api.MonitorEntry, bool) {
	i := s.table.Selected()
	if i < 0 || i >= len(s.entries) {
		return api.MonitorEntry{}, false
	}
	return s.entries[i], true
}

func (s *MonitorsScreen) loadForEdit(id int64) tea.Cmd {
	svc := s.svc
	return func() tea.Msg {
		entry, err := svc.Controller.LoadMonitor(svc.Ctx, id)
		return monitorLoadedMsg{entry: entry, err: err}
	}
}

func (s *MonitorsScreen) export() tea.Cmd {
	entries := append([]api.MonitorEntry(nil), s.entries...)
	svc := s.svc
	return func() tea.Msg {
		path, err := svc.Exporter.ExportMonitors(entries, export.ExportOptions{
			Format:    export.FormatCSV,
			OutputDir: svc.ExportDir,
		})
		if err != nil {
			svc.Logger.Warn("monitor export failed", zap.Error(err))
		}
		return exportDoneMsg{kind: "monitors", path: path, err: err}
	}
}

func (s *MonitorsScreen) setEntries(entries []api.MonitorEntry) {
	s.entries = entries
	s.table.SetRows(monitorRows(entries), func(i int) bool {
		return !entries[i].IsActive
	})
}

func monitorRows(entries []api.MonitorEntry) [][]string {
	out := make([][]string, 0, len(entries))
	for _, m := range entries {
		out = append(out, []string{
			strconv.FormatInt(m.ID, 10),
			m.Symbol,
			format.StatusText(m.Status),
			format.Active(m.IsActive),
			format.DirectionText(m.PositionSide),
			format.Money(float64(m.AllocatedMoney)),
			format.Leverage(m.Leverage),
			format.Money(float64(m.TakeProfit)),
			format.Price(float64(m.LastPrice)),
			format.Percent(float64(m.Amplitude)),
			format.Percent(float64(m.PositionRatio)),
			format.DateTime(m.SyncTime),
		})
	}
	return out
}

// View renders the screen
func (s *MonitorsScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	var sync string
	switch {
	case s.svc.Controller.LoadingMonitors():
		sync = s.spinner.View() + " Refreshing…"
	case !s.lastSync.IsZero():
		sync = style.MutedStyle.Render("Last refresh " + s.lastSync.Format("15:04:05"))
	}
	if failures := s.svc.Poller.Failures(); failures > 0 {
		sync += style.WarningStyle.Render(fmt.Sprintf("  (%d failed refreshes, backing off)", failures))
	}

	status := ""
	switch {
	case s.errMsg != "":
		status = style.ErrorStyle.Render("✗ " + s.errMsg)
	case s.status != "":
		status = style.InfoStyle.Render(s.status)
	}

	return joinNonEmpty(
		header(s.svc, fmt.Sprintf("Monitors (%d)", len(s.entries))),
		s.table.View(),
		sync,
		status,
		noticeLine(s.svc),
		s.helpBar.SetWidth(s.width).View(),
	)
}

// SetSize sets the screen dimensions
func (s *MonitorsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.table.SetHeight(max(height-14, 5))
}
