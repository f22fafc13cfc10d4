package state

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rovshanmuradov/rangewatch/internal/api"
	"github.com/rovshanmuradov/rangewatch/internal/dashboard"
)

// maxNotices bounds the notice history kept for the status line
const maxNotices = 20

// SymbolsSnapshot is the last known state of the price range table
type SymbolsSnapshot struct {
	View      dashboard.SymbolView
	Loaded    bool
	Error     string
	UpdatedAt time.Time
}

// MonitorsSnapshot is the last known state of the monitor list
type MonitorsSnapshot struct {
	Entries   []api.MonitorEntry
	Loaded    bool
	Error     string
	UpdatedAt time.Time
}

// ViewCache provides thread-safe caching of what the controller last drew.
// Screens created after a load read it to avoid an empty first frame.
type ViewCache struct {
	mu       sync.RWMutex
	symbols  SymbolsSnapshot
	monitors MonitorsSnapshot
	notices  []dashboard.Notice
	now      func() time.Time

	// Statistics (accessed atomically)
	reads  uint64
	writes uint64
}

// NewViewCache creates an empty cache
func NewViewCache() *ViewCache {
	return &ViewCache{now: time.Now}
}

// ResetSymbols drops the cached page while a new filter loads
func (c *ViewCache) ResetSymbols() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.symbols = SymbolsSnapshot{UpdatedAt: c.now()}
	atomic.AddUint64(&c.writes, 1)
}

// SetSymbols stores a loaded page
func (c *ViewCache) SetSymbols(view dashboard.SymbolView) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.symbols = SymbolsSnapshot{View: view, Loaded: true, UpdatedAt: c.now()}
	atomic.AddUint64(&c.writes, 1)
}

// SetSymbolsError records a failed load, keeping the previous rows
func (c *ViewCache) SetSymbolsError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.symbols.Error = msg
	c.symbols.UpdatedAt = c.now()
	atomic.AddUint64(&c.writes, 1)
}

// SetMonitors stores the reloaded monitor list
func (c *ViewCache) SetMonitors(entries []api.MonitorEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Copy, the controller may reuse the slice
	c.monitors = MonitorsSnapshot{
		Entries:   append([]api.MonitorEntry(nil), entries...),
		Loaded:    true,
		UpdatedAt: c.now(),
	}
	atomic.AddUint64(&c.writes, 1)
}

// SetMonitorsError records a failed monitor load, keeping the previous list
func (c *ViewCache) SetMonitorsError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.monitors.Error = msg
	c.monitors.UpdatedAt = c.now()
	atomic.AddUint64(&c.writes, 1)
}

// PushNotice appends a notice, discarding the oldest past maxNotices
func (c *ViewCache) PushNotice(n dashboard.Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.notices = append(c.notices, n)
	if len(c.notices) > maxNotices {
		c.notices = c.notices[len(c.notices)-maxNotices:]
	}
	atomic.AddUint64(&c.writes, 1)
}

// Symbols returns a copy of the symbols snapshot
func (c *ViewCache) Symbols() SymbolsSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	atomic.AddUint64(&c.reads, 1)
	return c.symbols
}

// Monitors returns a copy of the monitors snapshot
func (c *ViewCache) Monitors() MonitorsSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	atomic.AddUint64(&c.reads, 1)
	snap := c.monitors
	snap.Entries = append([]api.MonitorEntry(nil), c.monitors.Entries...)
	return snap
}

// LastNotice returns the most recent notice, if any
func (c *ViewCache) LastNotice() (dashboard.Notice, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	atomic.AddUint64(&c.reads, 1)
	if len(c.notices) == 0 {
		return dashboard.Notice{}, false
	}
	return c.notices[len(c.notices)-1], true
}

// Notices returns a copy of the notice history, oldest first
func (c *ViewCache) Notices() []dashboard.Notice {
	c.mu.RLock()
	defer c.mu.RUnlock()

	atomic.AddUint64(&c.reads, 1)
	return append([]dashboard.Notice(nil), c.notices...)
}

// GetStats returns cache statistics
func (c *ViewCache) GetStats() (reads, writes uint64) {
	return atomic.LoadUint64(&c.reads), atomic.LoadUint64(&c.writes)
}
