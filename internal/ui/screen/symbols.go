package screen

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rangewatch/internal/api"
	"github.com/rovshanmuradov/rangewatch/internal/dashboard"
	"github.com/rovshanmuradov/rangewatch/internal/export"
	"github.com/rovshanmuradov/rangewatch/internal/filter"
	"github.com/rovshanmuradov/rangewatch/internal/format"
	"github.com/rovshanmuradov/rangewatch/internal/ui"
	"github.com/rovshanmuradov/rangewatch/internal/ui/component"
	"github.com/rovshanmuradov/rangewatch/internal/ui/router"
	"github.com/rovshanmuradov/rangewatch/internal/ui/style"
)

// filter form field names
const (
	fieldMinAmplitude = "min_amplitude"
	fieldMaxAmplitude = "max_amplitude"
	fieldMinPosition  = "min_position"
	fieldMaxPosition  = "max_position"
	fieldMinVolume    = "min_volume"
	fieldMaxVolume    = "max_volume"
	fieldSymbol       = "symbol"
)

// SymbolsScreen shows the filter form, one page of price ranges and the
// pagination bar.
type SymbolsScreen struct {
	svc    *ui.Services
	width  int
	height int
	keyMap ui.KeyMap

	form    *component.Form
	table   *component.Table
	pager   *component.PaginationBar
	helpBar *component.HelpBar
	spinner spinner.Model

	view    dashboard.SymbolView
	loading bool
	errMsg  string
	status  string
}

// NewSymbolsScreen creates the price range screen from the cached view
func NewSymbolsScreen(svc *ui.Services) *SymbolsScreen {
	keyMap := ui.DefaultKeyMap()

	form := component.NewForm().
		SetInline(true).
		SetInputWidth(8).
		AddField(fieldMinAmplitude, "Amp min %", "").
		AddField(fieldMaxAmplitude, "Amp max %", "").
		AddField(fieldMinPosition, "Pos min %", "").
		AddField(fieldMaxPosition, "Pos max %", "").
		AddField(fieldMinVolume, "Vol min M", "").
		AddField(fieldMaxVolume, "Vol max M", "").
		AddField(fieldSymbol, "Symbol", "BTC")
	form.Blur()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(style.DefaultPalette().Primary)

	s := &SymbolsScreen{
		svc:    svc,
		keyMap: keyMap,
		form:   form,
		table: component.NewTable(
			component.TableColumn{Header: "Symbol", Width: 14, Align: lipgloss.Left},
			component.TableColumn{Header: "Last", Width: 12, Align: lipgloss.Right},
			component.TableColumn{Header: "High 20d", Width: 12, Align: lipgloss.Right},
			component.TableColumn{Header: "Low 20d", Width: 12, Align: lipgloss.Right},
			component.TableColumn{Header: "Amplitude", Width: 9, Align: lipgloss.Right},
			component.TableColumn{Header: "Position", Width: 9, Align: lipgloss.Right},
			component.TableColumn{Header: "Vol 24h", Width: 9, Align: lipgloss.Right},
			component.TableColumn{Header: "Updated", Width: 14, Align: lipgloss.Left},
		).SetEmptyText("No symbols match the filter"),
		pager:   component.NewPaginationBar(),
		helpBar: component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteSymbols)),
		spinner: sp,
	}

	snap := svc.Cache.Symbols()
	s.fillForm(snap.View.Criteria.Input())
	if snap.Loaded {
		s.setView(snap.View)
	} else {
		s.loading = snap.Error == ""
	}
	s.errMsg = snap.Error
	return s
}

// Init initializes the screen
func (s *SymbolsScreen) Init() tea.Cmd {
	return s.spinner.Tick
}

// CapturesKey keeps esc inside the filter form while it is being edited
func (s *SymbolsScreen) CapturesKey(msg tea.KeyMsg) bool {
	return s.form.Focused() && key.Matches(msg, s.keyMap.Back)
}

// Update handles screen updates
func (s *SymbolsScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s.form.Focused() {
			return s, s.updateForm(msg)
		}
		return s, s.handleKey(msg)

	case ui.SymbolsResetMsg:
		s.view = dashboard.SymbolView{}
		s.table.SetRows(nil, nil)
		s.pager.SetPager(s.view.Pager)
		s.loading = true
		s.errMsg = ""

	case ui.SymbolsLoadedMsg:
		s.setView(msg.View)
		s.loading = false
		s.errMsg = ""

	case ui.SymbolsFailedMsg:
		s.loading = false
		s.errMsg = msg.Message

	case ui.ActionDoneMsg:
		switch msg.Action {
		case "apply_filter", "change_page", "reload":
			s.loading = false
		}

	case exportDoneMsg:
		if msg.kind == "symbols" {
			s.status = msg.text()
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}

	return s, nil
}

func (s *SymbolsScreen) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, s.keyMap.Back):
		s.form.Blur()
		return nil
	case key.Matches(msg, s.keyMap.Enter), key.Matches(msg, s.keyMap.ApplyFilter):
		s.form.Blur()
		return s.applyFilter()
	case key.Matches(msg, s.keyMap.ClearFilter):
		s.form.Reset()
		return s.applyFilter()
	}
	var cmd tea.Cmd
	s.form, cmd = s.form.Update(msg)
	return cmd
}

func (s *SymbolsScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, s.keyMap.Quit):
		return tea.Quit
	case key.Matches(msg, s.keyMap.FocusFilter):
		s.form.Focus()
	case key.Matches(msg, s.keyMap.ApplyFilter):
		return s.applyFilter()
	case key.Matches(msg, s.keyMap.ClearFilter):
		s.form.Reset()
		s.form.Blur()
		return s.applyFilter()
	case key.Matches(msg, s.keyMap.Up):
		s.table.MoveUp()
	case key.Matches(msg, s.keyMap.Down):
		s.table.MoveDown()
	case key.Matches(msg, s.keyMap.PrevPage):
		if s.view.Pager.HasPrev() {
			return s.dispatch(dashboard.ChangePageCommand{Page: s.view.Pager.Current - 1})
		}
	case key.Matches(msg, s.keyMap.NextPage):
		if s.view.Pager.HasNext() {
			return s.dispatch(dashboard.ChangePageCommand{Page: s.view.Pager.Current + 1})
		}
	case key.Matches(msg, s.keyMap.Refresh):
		return s.dispatch(dashboard.ReloadCommand{})
	case key.Matches(msg, s.keyMap.AddMonitor):
		symbol := ""
		if i := s.table.Selected(); i >= 0 && i < len(s.view.Rows) {
			symbol = s.view.Rows[i].Symbol
		}
		return func() tea.Msg {
			return ui.RouterMsg{To: ui.RouteMonitorDialog, Symbol: symbol}
		}
	case key.Matches(msg, s.keyMap.Export):
		return s.export()
	}
	return nil
}

func (s *SymbolsScreen) applyFilter() tea.Cmd {
	return s.dispatch(dashboard.ApplyFilterCommand{Input: s.input()})
}

func (s *SymbolsScreen) dispatch(cmd dashboard.Command) tea.Cmd {
	s.loading = true
	s.status = ""
	return tea.Batch(s.svc.Dispatch(cmd), s.spinner.Tick)
}

func (s *SymbolsScreen) input() filter.Input {
	return filter.Input{
		MinAmplitude: s.form.Value(fieldMinAmplitude),
		MaxAmplitude: s.form.Value(fieldMaxAmplitude),
		MinPosition:  s.form.Value(fieldMinPosition),
		MaxPosition:  s.form.Value(fieldMaxPosition),
		MinVolume:    s.form.Value(fieldMinVolume),
		MaxVolume:    s.form.Value(fieldMaxVolume),
		Symbol:       s.form.Value(fieldSymbol),
	}
}

func (s *SymbolsScreen) fillForm(in filter.Input) {
	s.form.
		SetValue(fieldMinAmplitude, in.MinAmplitude).
		SetValue(fieldMaxAmplitude, in.MaxAmplitude).
		SetValue(fieldMinPosition, in.MinPosition).
		SetValue(fieldMaxPosition, in.MaxPosition).
		SetValue(fieldMinVolume, in.MinVolume).
		SetValue(fieldMaxVolume, in.MaxVolume).
		SetValue(fieldSymbol, in.Symbol)
}

func (s *SymbolsScreen) setView(view dashboard.SymbolView) {
	s.view = view
	s.table.SetRows(symbolRows(view.Rows), nil)
	s.pager.SetPager(view.Pager)
}

func symbolRows(rows []api.SymbolRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Symbol,
			format.Price(float64(r.LastPrice)),
			format.Price(float64(r.HighPrice20d)),
			format.Price(float64(r.LowPrice20d)),
			format.Percent(float64(r.Amplitude)),
			format.Percent(float64(r.PositionRatio)),
			format.Volume(float64(r.Volume24h)),
			format.DateTime(r.UpdateTime),
		})
	}
	return out
}

func (s *SymbolsScreen) export() tea.Cmd {
	rows := append([]api.SymbolRow(nil), s.view.Rows...)
	svc := s.svc
	return func() tea.Msg {
		path, err := svc.Exporter.ExportSymbols(rows, export.ExportOptions{
			Format:    export.FormatCSV,
			OutputDir: svc.ExportDir,
		})
		if err != nil {
			svc.Logger.Warn("symbol export failed", zap.Error(err))
		}
		return exportDoneMsg{kind: "symbols", path: path, err: err}
	}
}

// View renders the screen
func (s *SymbolsScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	formStyle := style.PanelStyle
	if s.form.Focused() {
		formStyle = style.ActivePanelStyle
	}

	status := ""
	switch {
	case s.loading:
		status = s.spinner.View() + " Loading price ranges…"
	case s.errMsg != "":
		status = style.ErrorStyle.Render("✗ " + s.errMsg)
	case s.status != "":
		status = style.InfoStyle.Render(s.status)
	}

	return joinNonEmpty(
		header(s.svc, "Price Ranges"),
		formStyle.Render(s.form.View()),
		s.table.View(),
		s.pager.View(),
		status,
		noticeLine(s.svc),
		s.helpBar.SetWidth(s.width).View(),
	)
}

// SetSize sets the screen dimensions
func (s *SymbolsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	// header, form, table chrome, pager, status lines and help
	s.table.SetHeight(max(height-20, 5))
}

// exportDoneMsg reports an export started from a screen
type exportDoneMsg struct {
	kind string
	path string
	err  error
}

func (m exportDoneMsg) text() string {
	if m.err != nil {
		return fmt.Sprintf("Export failed: %v", m.err)
	}
	return "Exported to " + m.path
}
