// Package dashboard keeps the symbol table and monitor list in sync with the
// server: filter criteria, the current page, guarded monitor reloads and the
// monitor create/edit/toggle/delete flow.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/rangewatch/internal/api"
	"github.com/rovshanmuradov/rangewatch/internal/filter"
	"github.com/rovshanmuradov/rangewatch/internal/pagination"
)

// DefaultPerPage is the page size when none is configured.
const DefaultPerPage = 30

// Options identify the account and strategy a controller works for.
type Options struct {
	AccountID string
	ServerID  string
	Strategy  api.Strategy
	PerPage   int
}

// Controller owns the page state of one symbols view and its monitor list.
type Controller struct {
	backend Backend
	sink    Sink
	logger  *zap.Logger
	opts    Options

	mu         sync.Mutex
	page       int
	criteria   filter.Criteria
	totalPages int
	pagesKnown bool

	guard LoadGuard
}

// New creates a controller positioned on page 1 with no filter.
func New(backend Backend, sink Sink, opts Options, logger *zap.Logger) *Controller {
	if opts.PerPage <= 0 {
		opts.PerPage = DefaultPerPage
	}
	if opts.Strategy == "" {
		opts.Strategy = api.StrategyBreakthrough
	}
	if sink == nil {
		sink = NopSink{}
	}
	return &Controller{
		backend: backend,
		sink:    sink,
		logger:  logger.Named("dashboard"),
		opts:    opts,
		page:    1,
	}
}

// Options returns the controller's identity and page size.
func (c *Controller) Options() Options { return c.opts }

// Page returns the current page number.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Criteria returns the cached filter.
func (c *Controller) Criteria() filter.Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria
}

// TotalPages returns the page count from the last successful load, and
// whether any load has succeeded yet.
func (c *Controller) TotalPages() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPages, c.pagesKnown
}

// LoadingMonitors reports whether a monitor list load is outstanding.
func (c *Controller) LoadingMonitors() bool { return c.guard.Busy() }

// ApplyFilter caches criteria parsed from in, moves to page 1 and reloads.
func (c *Controller) ApplyFilter(ctx context.Context, in filter.Input) error {
	criteria := filter.Collect(in)

	c.mu.Lock()
	c.criteria = criteria
	c.page = 1
	c.mu.Unlock()

	c.logger.Debug("filter applied",
		zap.Bool("empty", criteria.IsEmpty()),
		zap.String("symbol", criteria.Symbol))

	c.sink.ResetSymbols()
	return c.ReloadList(ctx)
}

// ReloadList fetches the current page with the cached criteria. Concurrent
// calls are not serialized; the sink sees results in completion order.
func (c *Controller) ReloadList(ctx context.Context) error {
	c.mu.Lock()
	page := pagination.Page{Number: c.page, Size: c.opts.PerPage}
	criteria := c.criteria
	c.mu.Unlock()

	query := filter.BuildQuery(filter.Scope{
		AccountID:    c.opts.AccountID,
		StrategyType: string(c.opts.Strategy),
	}, criteria, page)

	result, err := c.backend.ListSymbols(ctx, query)
	if err != nil {
		c.logger.Error("symbol list load failed",
			zap.Int("page", page.Number),
			zap.Error(err))
		c.sink.ShowSymbolsError(describe(err))
		return err
	}

	pager := pagination.New(result.Total, page.Size, page.Number)

	c.mu.Lock()
	c.totalPages = pager.TotalPages
	c.pagesKnown = true
	c.mu.Unlock()

	c.logger.Debug("symbol list loaded",
		zap.Int("page", page.Number),
		zap.Int("rows", len(result.Rows)),
		zap.Int("total", result.Total))

	c.sink.ShowSymbols(SymbolView{
		Rows:     result.Rows,
		Pager:    pager,
		Criteria: criteria,
		Page:     page,
	})
	return nil
}

// ChangePage moves to page n and reloads with the cached criteria. Pages
// below 1, or past the last known page, are ignored and report false.
func (c *Controller) ChangePage(ctx context.Context, n int) (bool, error) {
	c.mu.Lock()
	if n < 1 || (c.pagesKnown && n > c.totalPages) {
		c.mu.Unlock()
		c.logger.Debug("page change ignored", zap.Int("page", n))
		return false, nil
	}
	c.page = n
	c.mu.Unlock()

	return true, c.ReloadList(ctx)
}

// LoadMonitorList reloads the monitor list unless a load is already in
// flight. It reports whether a request was issued.
func (c *Controller) LoadMonitorList(ctx context.Context) bool {
	issued, _ := c.loadMonitors(ctx)
	return issued
}

func (c *Controller) loadMonitors(ctx context.Context) (bool, error) {
	if strings.TrimSpace(c.opts.AccountID) == "" || strings.TrimSpace(c.opts.ServerID) == "" {
		c.logger.Error("monitor list load aborted",
			zap.String("account_id", c.opts.AccountID),
			zap.String("server_id", c.opts.ServerID),
			zap.Error(ErrMissingIdentity))
		return false, ErrMissingIdentity
	}

	if !c.guard.TryAcquire() {
		c.logger.Debug("monitor list load skipped, previous load still running")
		return false, ErrLoadInProgress
	}
	defer c.guard.Release()

	entries, err := c.backend.ListMonitors(ctx, c.opts.Strategy, c.opts.AccountID)
	if err != nil {
		c.logger.Error("monitor list load failed", zap.Error(err))
		c.sink.ShowMonitorsError(describe(err))
		return true, err
	}

	c.logger.Debug("monitor list loaded", zap.Int("count", len(entries)))
	c.sink.ShowMonitors(entries)
	return true, nil
}

// Bootstrap loads the first symbol page and the monitor list in parallel.
// A failure of one load does not cancel the other.
func (c *Controller) Bootstrap(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error {
		return c.ReloadList(ctx)
	})
	g.Go(func() error {
		if _, err := c.loadMonitors(ctx); err != nil {
			return fmt.Errorf("monitors: %w", err)
		}
		return nil
	})
	return g.Wait()
}
