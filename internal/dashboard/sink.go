package dashboard

import (
	"context"

	"github.com/rovshanmuradov/rangewatch/internal/api"
	"github.com/rovshanmuradov/rangewatch/internal/filter"
	"github.com/rovshanmuradov/rangewatch/internal/pagination"
)

// NoticeLevel ranks a user-facing notice.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeSuccess
	NoticeWarning
	NoticeError
)

func (l NoticeLevel) String() string {
	switch l {
	case NoticeSuccess:
		return "success"
	case NoticeWarning:
		return "warning"
	case NoticeError:
		return "error"
	default:
		return "info"
	}
}

// Notice is an alert shown to the user after an action.
type Notice struct {
	Level   NoticeLevel
	Title   string
	Message string
}

// SymbolView is one rendered page of the price range table.
type SymbolView struct {
	Rows     []api.SymbolRow
	Pager    pagination.Pager
	Criteria filter.Criteria
	Page     pagination.Page
}

// Sink receives everything the controller wants drawn. Implementations must
// be safe to call from any goroutine.
type Sink interface {
	ResetSymbols()
	ShowSymbols(view SymbolView)
	ShowSymbolsError(msg string)
	ShowMonitors(entries []api.MonitorEntry)
	ShowMonitorsError(msg string)
	Notify(n Notice)
}

// Backend is the subset of the API client the controller drives.
type Backend interface {
	ListSymbols(ctx context.Context, query api.Encoder) (*api.SymbolPage, error)
	ListMonitors(ctx context.Context, strategy api.Strategy, accountID string) ([]api.MonitorEntry, error)
	CheckMonitor(ctx context.Context, accountID, symbol string) (bool, error)
	SaveMonitor(ctx context.Context, strategy api.Strategy, accountID, symbol string, cfg api.MonitorConfig) (string, error)
	GetMonitor(ctx context.Context, id int64) (*api.MonitorEntry, error)
	UpdateMonitor(ctx context.Context, id int64, update api.MonitorUpdate) (string, error)
	DeleteMonitor(ctx context.Context, strategy api.Strategy, id int64) (string, error)
}

var _ Backend = (*api.Client)(nil)

// NopSink discards everything. Used by headless callers that read return values.
type NopSink struct{}

func (NopSink) ResetSymbols()                   {}
func (NopSink) ShowSymbols(SymbolView)          {}
func (NopSink) ShowSymbolsError(string)         {}
func (NopSink) ShowMonitors([]api.MonitorEntry) {}
func (NopSink) ShowMonitorsError(string)        {}
func (NopSink) Notify(Notice)                   {}
