package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/rangewatch/internal/api"
)

// CheckMonitor reports whether symbol already has a monitor on the account.
func (c *Controller) CheckMonitor(ctx context.Context, symbol string) (bool, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return false, &ValidationError{Field: "symbol", Reason: "is required"}
	}
	exists, err := c.backend.CheckMonitor(ctx, c.opts.AccountID, symbol)
	if err != nil {
		c.logger.Error("monitor check failed", zap.String("symbol", symbol), zap.Error(err))
		return false, err
	}
	return exists, nil
}

// ReportMonitored checks symbol and tells the user the answer through a notice.
func (c *Controller) ReportMonitored(ctx context.Context, symbol string) (bool, error) {
	exists, err := c.CheckMonitor(ctx, symbol)
	if err != nil {
		return false, c.fail("Check monitor", err)
	}
	msg := fmt.Sprintf("%s is not monitored", normalizeSymbol(symbol))
	if exists {
		msg = fmt.Sprintf("%s is already monitored", normalizeSymbol(symbol))
	}
	c.sink.Notify(Notice{Level: NoticeInfo, Title: "Check monitor", Message: msg})
	return exists, nil
}

// CreateMonitor validates form, refuses symbols that are already monitored,
// saves a single-symbol monitor and reloads the monitor list.
func (c *Controller) CreateMonitor(ctx context.Context, symbol string, form MonitorForm) error {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return c.reject("Create monitor", &ValidationError{Field: "symbol", Reason: "is required"})
	}

	cfg, err := form.Parse()
	if err != nil {
		return c.reject("Create monitor", err)
	}

	exists, err := c.CheckMonitor(ctx, symbol)
	if err != nil {
		return c.fail("Create monitor", err)
	}
	if exists {
		c.sink.Notify(Notice{
			Level:   NoticeWarning,
			Title:   "Create monitor",
			Message: fmt.Sprintf("%s is already monitored", symbol),
		})
		return ErrAlreadyMonitored
	}

	msg, err := c.backend.SaveMonitor(ctx, c.opts.Strategy, c.opts.AccountID, symbol, cfg)
	if err != nil {
		return c.fail("Create monitor", err)
	}

	c.logger.Info("Monitor created",
		zap.String("symbol", symbol),
		zap.Float64("allocated_money", cfg.AllocatedMoney),
		zap.Int("leverage", cfg.Leverage),
		zap.Float64("take_profit", cfg.TakeProfit))
	c.succeed("Create monitor", msg, fmt.Sprintf("%s added to monitoring", symbol))
	c.reloadMonitors(ctx)
	return nil
}

// LoadMonitor fetches one entry, typically to pre-fill the edit dialog.
func (c *Controller) LoadMonitor(ctx context.Context, id int64) (*api.MonitorEntry, error) {
	entry, err := c.backend.GetMonitor(ctx, id)
	if err != nil {
		return nil, c.fail("Load monitor", err)
	}
	return entry, nil
}

// EditMonitor validates form and replaces the config of monitor id. Only
// WAITING and OPENED monitors may be edited.
func (c *Controller) EditMonitor(ctx context.Context, id int64, form MonitorForm) error {
	cfg, err := form.Parse()
	if err != nil {
		return c.reject("Edit monitor", err)
	}

	entry, err := c.backend.GetMonitor(ctx, id)
	if err != nil {
		return c.fail("Edit monitor", err)
	}
	if !CanEdit(*entry) {
		c.sink.Notify(Notice{
			Level:   NoticeWarning,
			Title:   "Edit monitor",
			Message: fmt.Sprintf("%s is %s and can no longer be edited", entry.Symbol, entry.Status),
		})
		return ErrNotEditable
	}

	msg, err := c.backend.UpdateMonitor(ctx, id, api.MonitorUpdate{MonitorConfig: cfg})
	if err != nil {
		return c.fail("Edit monitor", err)
	}

	c.logger.Info("Monitor updated", zap.Int64("id", id), zap.String("symbol", entry.Symbol))
	c.succeed("Edit monitor", msg, fmt.Sprintf("%s updated", entry.Symbol))
	c.reloadMonitors(ctx)
	return nil
}

// ToggleMonitor flips the active flag of monitor id, keeping its config.
func (c *Controller) ToggleMonitor(ctx context.Context, id int64) error {
	entry, err := c.backend.GetMonitor(ctx, id)
	if err != nil {
		return c.fail("Toggle monitor", err)
	}

	active := !entry.IsActive
	msg, err := c.backend.UpdateMonitor(ctx, id, api.MonitorUpdate{
		MonitorConfig: entry.Config(),
		IsActive:      &active,
	})
	if err != nil {
		return c.fail("Toggle monitor", err)
	}

	state := "paused"
	if active {
		state = "resumed"
	}
	c.logger.Info("Monitor toggled", zap.Int64("id", id), zap.Bool("active", active))
	c.succeed("Toggle monitor", msg, fmt.Sprintf("%s %s", entry.Symbol, state))
	c.reloadMonitors(ctx)
	return nil
}

// DeleteMonitor removes monitor id through the strategy's delete endpoint.
func (c *Controller) DeleteMonitor(ctx context.Context, id int64) error {
	msg, err := c.backend.DeleteMonitor(ctx, c.opts.Strategy, id)
	if err != nil {
		return c.fail("Delete monitor", err)
	}

	c.logger.Info("Monitor deleted", zap.Int64("id", id))
	c.succeed("Delete monitor", msg, "Monitor deleted")
	c.reloadMonitors(ctx)
	return nil
}

// reloadMonitors refreshes the list after a mutation. A load already in
// flight is left to deliver the update.
func (c *Controller) reloadMonitors(ctx context.Context) {
	if _, err := c.loadMonitors(ctx); errors.Is(err, ErrLoadInProgress) {
		c.logger.Debug("post-mutation reload deferred to running load")
	}
}

func (c *Controller) reject(title string, err error) error {
	c.logger.Warn("input rejected", zap.String("action", title), zap.Error(err))
	c.sink.Notify(Notice{Level: NoticeWarning, Title: title, Message: describe(err)})
	return err
}

func (c *Controller) fail(title string, err error) error {
	c.logger.Error("action failed", zap.String("action", title), zap.Error(err))
	c.sink.Notify(Notice{Level: NoticeError, Title: title, Message: describe(err)})
	return err
}

func (c *Controller) succeed(title, serverMsg, fallback string) {
	msg := serverMsg
	if msg == "" {
		msg = fallback
	}
	c.sink.Notify(Notice{Level: NoticeSuccess, Title: title, Message: msg})
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
