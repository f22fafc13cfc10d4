package ui

import (
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// SafeModel wraps a tea.Model with panic recovery so a rendering bug in one
// screen is logged instead of leaving the terminal in alt-screen mode.
type SafeModel struct {
	model  tea.Model
	logger *zap.Logger
}

// NewSafeModel creates a new safe wrapper around model
func NewSafeModel(model tea.Model, logger *zap.Logger) *SafeModel {
	return &SafeModel{
		model:  model,
		logger: logger,
	}
}

// Init wraps the Init method with panic recovery
func (sm *SafeModel) Init() (cmd tea.Cmd) {
	defer sm.recoverFromPanic("Init", &cmd)
	return sm.model.Init()
}

// Update wraps the Update method with panic recovery
func (sm *SafeModel) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	model = sm
	_, fromBus := msg.(BusMsg)
	defer func() {
		if r := recover(); r != nil {
			sm.logPanic("Update", r)
			cmd = nil
		}
		if cmd == nil && fromBus {
			cmd = ListenBus()
		}
	}()
	sm.model, cmd = sm.model.Update(msg)
	return sm, cmd
}

// View wraps the View method with panic recovery
func (sm *SafeModel) View() (view string) {
	defer func() {
		if r := recover(); r != nil {
			sm.logger.Error("View panic recovered",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())))
			view = "UI Error: View crashed. Press Ctrl+C to exit."
		}
	}()
	return sm.model.View()
}

// recoverFromPanic recovers from panics in UI methods
func (sm *SafeModel) recoverFromPanic(method string, cmd *tea.Cmd) {
	if r := recover(); r != nil {
		sm.logPanic(method, r)
		*cmd = nil
	}
}

func (sm *SafeModel) logPanic(method string, r interface{}) {
	sm.logger.Error("UI method panic recovered",
		zap.String("method", method),
		zap.Any("panic", r),
		zap.String("stack", string(debug.Stack())))
}
