package screen

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rangewatch/internal/api"
	"github.com/rovshanmuradov/rangewatch/internal/dashboard"
	"github.com/rovshanmuradov/rangewatch/internal/export"
	"github.com/rovshanmuradov/rangewatch/internal/logger"
	"github.com/rovshanmuradov/rangewatch/internal/pagination"
	"github.com/rovshanmuradov/rangewatch/internal/ui"
	"github.com/rovshanmuradov/rangewatch/internal/ui/state"
)

// newTestServices builds services whose controller has no backend. Tests
// must not run the commands they dispatch.
func newTestServices(t *testing.T) *ui.Services {
	t.Helper()
	ctrl := dashboard.New(nil, dashboard.NopSink{}, dashboard.Options{AccountID: "1", ServerID: "1"}, zap.NewNop())
	return &ui.Services{
		Ctx:        context.Background(),
		Controller: ctrl,
		Poller:     dashboard.NewPoller(ctrl, time.Second, zap.NewNop()),
		Exporter:   export.NewExporter(zap.NewNop()),
		ExportDir:  t.TempDir(),
		Cache:      state.NewViewCache(),
		Logs:       logger.NewLogBuffer(50),
		Logger:     zap.NewNop(),
	}
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMonitorDialogCreatePrefill(t *testing.T) {
	d := NewMonitorDialogScreen(newTestServices(t), nil, "btcusdt")

	assert.Equal(t, "BTCUSDT", d.form.Value(fieldMonitorSymbol))
	assert.Equal(t, dashboard.DefaultLeverage, d.form.Value(fieldLeverage))
	assert.Equal(t, "", d.form.Value(fieldAllocatedMoney))
}

func TestMonitorDialogEditPrefill(t *testing.T) {
	entry := &api.MonitorEntry{ID: 4, Symbol: "ETHUSDT", AllocatedMoney: 100, Leverage: 3, TakeProfit: 50, Status: api.StatusWaiting}
	d := NewMonitorDialogScreen(newTestServices(t), entry, "")
	d.SetSize(100, 40)

	assert.Equal(t, "100", d.form.Value(fieldAllocatedMoney))
	assert.Equal(t, "3", d.form.Value(fieldLeverage))
	assert.Equal(t, "50", d.form.Value(fieldTakeProfit))
	assert.Equal(t, "", d.form.Value(fieldMonitorSymbol), "symbol is not editable")
	assert.Contains(t, d.View(), "Edit Monitor #4")
}

func TestMonitorDialogRequiresSymbol(t *testing.T) {
	d := NewMonitorDialogScreen(newTestServices(t), nil, "")
	d.SetSize(100, 40)

	_, cmd := d.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
	assert.False(t, d.saving)
	assert.Contains(t, d.View(), "is required")
}

func TestMonitorDialogShowsValidationError(t *testing.T) {
	d := NewMonitorDialogScreen(newTestServices(t), nil, "BTCUSDT")
	d.SetSize(100, 40)

	_, cmd := d.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.True(t, d.saving)

	// results of other actions are ignored
	_, cmd = d.Update(ui.ActionDoneMsg{Action: "toggle_monitor"})
	assert.Nil(t, cmd)
	assert.True(t, d.saving)

	_, cmd = d.Update(ui.ActionDoneMsg{
		Action: "create_monitor",
		Err:    &dashboard.ValidationError{Field: "allocated_money", Reason: "is required"},
	})
	assert.Nil(t, cmd)
	assert.False(t, d.saving)
	assert.Contains(t, d.View(), "is required")
}

func TestMonitorDialogClosesOnSuccess(t *testing.T) {
	entry := &api.MonitorEntry{ID: 4, Symbol: "ETHUSDT", AllocatedMoney: 100, Leverage: 3, TakeProfit: 50}
	d := NewMonitorDialogScreen(newTestServices(t), entry, "")

	_, cmd := d.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	_, cmd = d.Update(ui.ActionDoneMsg{Action: "edit_monitor"})
	require.NotNil(t, cmd)
	assert.IsType(t, ui.BackMsg{}, cmd())
}

func TestMonitorsScreenDeleteNeedsConfirmation(t *testing.T) {
	svc := newTestServices(t)
	svc.Cache.SetMonitors([]api.MonitorEntry{
		{ID: 1, Symbol: "BTCUSDT", IsActive: true, Status: api.StatusWaiting},
		{ID: 2, Symbol: "ETHUSDT", Status: api.StatusClosed},
	})
	s := NewMonitorsScreen(svc)
	s.SetSize(160, 40)
	require.Len(t, s.entries, 2)

	_, cmd := s.Update(keyPress("d"))
	assert.Nil(t, cmd)
	assert.Equal(t, int64(1), s.pendingDelete)

	_, cmd = s.Update(keyPress("n"))
	assert.Nil(t, cmd)
	assert.Zero(t, s.pendingDelete)
	assert.Contains(t, s.View(), "Delete cancelled")

	s.Update(keyPress("d"))
	_, cmd = s.Update(keyPress("y"))
	assert.NotNil(t, cmd)
	assert.Zero(t, s.pendingDelete)
}

func TestMonitorsScreenEditRespectsStatus(t *testing.T) {
	s := NewMonitorsScreen(newTestServices(t))
	s.SetSize(160, 40)

	_, cmd := s.Update(monitorLoadedMsg{entry: &api.MonitorEntry{ID: 2, Symbol: "ETHUSDT", Status: api.StatusClosed}})
	assert.Nil(t, cmd)
	assert.Contains(t, s.status, "can no longer be edited")

	entry := &api.MonitorEntry{ID: 1, Symbol: "BTCUSDT", Status: api.StatusOpened}
	_, cmd = s.Update(monitorLoadedMsg{entry: entry})
	require.NotNil(t, cmd)
	msg, ok := cmd().(ui.RouterMsg)
	require.True(t, ok)
	assert.Equal(t, ui.RouteMonitorDialog, msg.To)
	assert.Same(t, entry, msg.Monitor)
}

func TestMonitorsScreenIgnoresStalePolls(t *testing.T) {
	s := NewMonitorsScreen(newTestServices(t))

	_, cmd := s.Update(pollTickMsg{gen: s.gen + 100})
	assert.Nil(t, cmd)
	_, cmd = s.Update(pollDoneMsg{gen: s.gen + 100, next: time.Second})
	assert.Nil(t, cmd)

	_, cmd = s.Update(pollDoneMsg{gen: s.gen, next: time.Second})
	assert.NotNil(t, cmd)
}

func TestMonitorsScreenUpdatesFromBus(t *testing.T) {
	s := NewMonitorsScreen(newTestServices(t))
	s.SetSize(160, 40)

	s.Update(ui.MonitorsLoadedMsg{Entries: []api.MonitorEntry{{ID: 7, Symbol: "SOLUSDT"}}})
	assert.Equal(t, 1, s.table.RowCount())
	assert.Contains(t, s.View(), "SOLUSDT")

	s.Update(ui.MonitorsFailedMsg{Message: "Network error, please try again"})
	assert.Equal(t, 1, s.table.RowCount(), "rows survive a failed refresh")
	assert.Contains(t, s.View(), "Network error")
}

func TestSymbolsScreenPaging(t *testing.T) {
	svc := newTestServices(t)
	s := NewSymbolsScreen(svc)
	s.SetSize(160, 40)
	assert.True(t, s.loading)

	// no pager yet, paging keys do nothing
	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Nil(t, cmd)

	s.Update(ui.SymbolsLoadedMsg{View: dashboard.SymbolView{
		Rows:  []api.SymbolRow{{Symbol: "BTCUSDT"}},
		Pager: pagerFor(300, 30, 1),
	}})
	assert.False(t, s.loading)
	assert.Contains(t, s.View(), "BTCUSDT")

	_, cmd = s.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Nil(t, cmd, "no previous page on page 1")

	_, cmd = s.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.NotNil(t, cmd)
	assert.True(t, s.loading)
}

func TestSymbolsScreenFormCapturesEsc(t *testing.T) {
	s := NewSymbolsScreen(newTestServices(t))
	esc := tea.KeyMsg{Type: tea.KeyEsc}
	assert.False(t, s.CapturesKey(esc))

	s.Update(keyPress("/"))
	assert.True(t, s.CapturesKey(esc))

	s.Update(esc)
	assert.False(t, s.form.Focused())
}

func TestLogsScreenFiltersByLevel(t *testing.T) {
	svc := newTestServices(t)
	now := time.Now()
	svc.Logs.Add(logger.LogEntry{Timestamp: now, Level: "debug", Message: "noise"})
	svc.Logs.Add(logger.LogEntry{Timestamp: now, Level: "info", Message: "loaded"})
	svc.Logs.Add(logger.LogEntry{Timestamp: now, Level: "error", Message: "failed", Fields: map[string]interface{}{"id": 3}})

	s := NewLogsScreen(svc)
	s.SetSize(160, 40)
	assert.Len(t, s.filtered, 3)

	s.Update(keyPress("1"))
	require.Len(t, s.filtered, 1)
	assert.Equal(t, "failed", s.filtered[0].Message)

	s.Update(keyPress("3"))
	assert.Len(t, s.filtered, 2)

	s.Update(keyPress("4"))
	assert.Len(t, s.filtered, 3)
	assert.Contains(t, s.View(), "id=3")
}

func pagerFor(total, perPage, current int) pagination.Pager {
	return pagination.New(total, perPage, current)
}
