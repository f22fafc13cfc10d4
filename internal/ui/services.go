package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rangewatch/internal/dashboard"
	"github.com/rovshanmuradov/rangewatch/internal/export"
	"github.com/rovshanmuradov/rangewatch/internal/logger"
	"github.com/rovshanmuradov/rangewatch/internal/ui/state"
)

// Services gives screens access to the controller and its collaborators.
// Ctx is the application lifetime; screens derive request contexts from it.
type Services struct {
	Ctx        context.Context
	Controller *dashboard.Controller
	Poller     *dashboard.Poller
	Exporter   *export.Exporter
	ExportDir  string
	Cache      *state.ViewCache
	Logs       *logger.LogBuffer
	Logger     *zap.Logger
}

// Dispatch runs a controller command off the UI goroutine and reports the
// outcome as an ActionDoneMsg. Data changes arrive separately through the bus.
func (s *Services) Dispatch(cmd dashboard.Command) tea.Cmd {
	return func() tea.Msg {
		err := s.Controller.Dispatch(s.Ctx, cmd)
		if err != nil {
			s.Logger.Debug("command finished with error",
				zap.String("command_type", cmd.GetType()),
				zap.Error(err))
		}
		return ActionDoneMsg{Action: cmd.GetType(), Err: err}
	}
}
