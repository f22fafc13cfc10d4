package screen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/rangewatch/internal/api"
	"github.com/rovshanmuradov/rangewatch/internal/dashboard"
	"github.com/rovshanmuradov/rangewatch/internal/format"
	"github.com/rovshanmuradov/rangewatch/internal/ui"
	"github.com/rovshanmuradov/rangewatch/internal/ui/component"
	"github.com/rovshanmuradov/rangewatch/internal/ui/router"
	"github.com/rovshanmuradov/rangewatch/internal/ui/style"
)

// monitor dialog field names, matching ValidationError.Field
const (
	fieldMonitorSymbol  = "symbol"
	fieldAllocatedMoney = "allocated_money"
	fieldLeverage       = "leverage"
	fieldTakeProfit     = "take_profit"
)

// MonitorDialogScreen creates a monitor or edits an existing one
type MonitorDialogScreen struct {
	svc    *ui.Services
	width  int
	height int
	keyMap ui.KeyMap

	entry   *api.MonitorEntry // nil in create mode
	form    *component.Form
	helpBar *component.HelpBar

	saving bool
	errMsg string
}

// NewMonitorDialogScreen opens the dialog. A non-nil entry selects edit mode;
// otherwise symbol pre-fills the create form.
func NewMonitorDialogScreen(svc *ui.Services, entry *api.MonitorEntry, symbol string) *MonitorDialogScreen {
	keyMap := ui.DefaultKeyMap()

	form := component.NewForm().SetInputWidth(24)
	values := dashboard.DefaultMonitorForm()
	if entry == nil {
		form.AddField(fieldMonitorSymbol, "Symbol", "BTCUSDT")
		form.SetValue(fieldMonitorSymbol, strings.ToUpper(symbol))
	} else {
		values = dashboard.FormFromEntry(*entry)
	}
	form.
		AddField(fieldAllocatedMoney, "Allocated capital", "100").
		AddField(fieldLeverage, "Leverage", dashboard.DefaultLeverage).
		AddField(fieldTakeProfit, "Take profit", "10").
		SetValue(fieldAllocatedMoney, values.AllocatedMoney).
		SetValue(fieldLeverage, values.Leverage).
		SetValue(fieldTakeProfit, values.TakeProfit)

	return &MonitorDialogScreen{
		svc:     svc,
		keyMap:  keyMap,
		entry:   entry,
		form:    form,
		helpBar: component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteMonitorDialog)),
	}
}

// Init initializes the screen
func (s *MonitorDialogScreen) Init() tea.Cmd {
	return nil
}

func (s *MonitorDialogScreen) action() string {
	if s.entry == nil {
		return dashboard.CreateMonitorCommand{}.GetType()
	}
	return dashboard.EditMonitorCommand{}.GetType()
}

// Update handles screen updates
func (s *MonitorDialogScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s.saving {
			return s, nil
		}
		switch {
		case key.Matches(msg, s.keyMap.Save), key.Matches(msg, s.keyMap.Enter):
			return s, s.submit()
		}
		var cmd tea.Cmd
		s.form, cmd = s.form.Update(msg)
		return s, cmd

	case ui.ActionDoneMsg:
		if msg.Action != s.action() || !s.saving {
			return s, nil
		}
		s.saving = false
		if msg.Err == nil {
			return s, ui.Back()
		}
		var validErr *dashboard.ValidationError
		if errors.As(msg.Err, &validErr) {
			s.form.SetError(validErr.Field, validErr.Reason)
			return s, nil
		}
		s.errMsg = msg.Err.Error()
	}

	return s, nil
}

func (s *MonitorDialogScreen) submit() tea.Cmd {
	s.form.ClearErrors()
	s.errMsg = ""

	values := dashboard.MonitorForm{
		AllocatedMoney: s.form.Value(fieldAllocatedMoney),
		Leverage:       s.form.Value(fieldLeverage),
		TakeProfit:     s.form.Value(fieldTakeProfit),
	}

	var cmd dashboard.Command
	if s.entry == nil {
		symbol := s.form.Value(fieldMonitorSymbol)
		if symbol == "" {
			s.form.SetError(fieldMonitorSymbol, "is required")
			return nil
		}
		cmd = dashboard.CreateMonitorCommand{Symbol: symbol, Form: values}
	} else {
		cmd = dashboard.EditMonitorCommand{ID: s.entry.ID, Form: values}
	}

	s.saving = true
	return s.svc.Dispatch(cmd)
}

// View renders the screen
func (s *MonitorDialogScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	title := "New Monitor"
	var details string
	if s.entry != nil {
		title = fmt.Sprintf("Edit Monitor #%d", s.entry.ID)
		details = style.MutedStyle.Render(fmt.Sprintf("%s · %s · %s",
			s.entry.Symbol, format.StatusText(s.entry.Status), format.Active(s.entry.IsActive)))
	}

	status := ""
	switch {
	case s.saving:
		status = style.InfoStyle.Render("Saving…")
	case s.errMsg != "":
		status = style.ErrorStyle.Render("✗ " + s.errMsg)
	}

	body := joinNonEmpty(
		style.TitleStyle.Render(title),
		details,
		s.form.View(),
		status,
	)

	return joinNonEmpty(
		header(s.svc, "Monitors"),
		style.DialogStyle.Render(body),
		noticeLine(s.svc),
		s.helpBar.SetWidth(s.width).View(),
	)
}

// SetSize sets the screen dimensions
func (s *MonitorDialogScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
}
