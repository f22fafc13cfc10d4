// internal/dashboard/commands.go
package dashboard

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/rangewatch/internal/filter"
)

// Command is a user action consumed by the controller
type Command interface {
	GetType() string
	Validate() error
}

// ApplyFilterCommand applies the filter and returns to the first page
type ApplyFilterCommand struct {
	Input filter.Input
}

func (ApplyFilterCommand) GetType() string { return "apply_filter" }
func (ApplyFilterCommand) Validate() error { return nil }

// ChangePageCommand moves to another page
type ChangePageCommand struct {
	Page int
}

func (ChangePageCommand) GetType() string { return "change_page" }

func (c ChangePageCommand) Validate() error {
	if c.Page < 1 {
		return fmt.Errorf("page must be positive, got: %d", c.Page)
	}
	return nil
}

// ReloadCommand reloads the current page
type ReloadCommand struct{}

func (ReloadCommand) GetType() string { return "reload" }
func (ReloadCommand) Validate() error { return nil }

// LoadMonitorsCommand reloads the monitor list
type LoadMonitorsCommand struct{}

func (LoadMonitorsCommand) GetType() string { return "load_monitors" }
func (LoadMonitorsCommand) Validate() error { return nil }

// BootstrapCommand performs the initial load of both tables
type BootstrapCommand struct{}

func (BootstrapCommand) GetType() string { return "bootstrap" }
func (BootstrapCommand) Validate() error { return nil }

// CreateMonitorCommand creates a monitor for a symbol
type CreateMonitorCommand struct {
	Symbol string
	Form   MonitorForm
}

func (CreateMonitorCommand) GetType() string { return "create_monitor" }

func (c CreateMonitorCommand) Validate() error {
	if normalizeSymbol(c.Symbol) == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	return nil
}

// EditMonitorCommand changes a monitor's configuration
type EditMonitorCommand struct {
	ID   int64
	Form MonitorForm
}

func (EditMonitorCommand) GetType() string   { return "edit_monitor" }
func (c EditMonitorCommand) Validate() error { return validateID(c.ID) }

// ToggleMonitorCommand pauses or resumes a monitor
type ToggleMonitorCommand struct {
	ID int64
}

func (ToggleMonitorCommand) GetType() string   { return "toggle_monitor" }
func (c ToggleMonitorCommand) Validate() error { return validateID(c.ID) }

// DeleteMonitorCommand deletes a monitor
type DeleteMonitorCommand struct {
	ID int64
}

func (DeleteMonitorCommand) GetType() string   { return "delete_monitor" }
func (c DeleteMonitorCommand) Validate() error { return validateID(c.ID) }

// CheckMonitorCommand asks whether a symbol is already monitored
type CheckMonitorCommand struct {
	Symbol string
}

func (CheckMonitorCommand) GetType() string { return "check_monitor" }

func (c CheckMonitorCommand) Validate() error {
	if normalizeSymbol(c.Symbol) == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	return nil
}

func validateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("monitor id must be positive, got: %d", id)
	}
	return nil
}

// Dispatch executes a command
func (c *Controller) Dispatch(ctx context.Context, cmd Command) error {
	if err := cmd.Validate(); err != nil {
		c.logger.Warn("Command validation failed",
			zap.String("command_type", cmd.GetType()),
			zap.Error(err))
		return fmt.Errorf("command validation failed: %w", err)
	}

	c.logger.Debug("Executing command", zap.String("command_type", cmd.GetType()))

	var err error
	switch cmd := cmd.(type) {
	case ApplyFilterCommand:
		err = c.ApplyFilter(ctx, cmd.Input)
	case ChangePageCommand:
		_, err = c.ChangePage(ctx, cmd.Page)
	case ReloadCommand:
		err = c.ReloadList(ctx)
	case LoadMonitorsCommand:
		_, err = c.loadMonitors(ctx)
	case BootstrapCommand:
		err = c.Bootstrap(ctx)
	case CreateMonitorCommand:
		err = c.CreateMonitor(ctx, cmd.Symbol, cmd.Form)
	case EditMonitorCommand:
		err = c.EditMonitor(ctx, cmd.ID, cmd.Form)
	case ToggleMonitorCommand:
		err = c.ToggleMonitor(ctx, cmd.ID)
	case DeleteMonitorCommand:
		err = c.DeleteMonitor(ctx, cmd.ID)
	case CheckMonitorCommand:
		_, err = c.ReportMonitored(ctx, cmd.Symbol)
	default:
		err = fmt.Errorf("no handler registered for command type: %s", cmd.GetType())
	}

	if err != nil {
		c.logger.Debug("Command finished with error",
			zap.String("command_type", cmd.GetType()),
			zap.Error(err))
		return err
	}
	return nil
}
