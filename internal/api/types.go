package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Strategy selects which monitor table and endpoint family a request targets.
type Strategy string

const (
	StrategyBreakthrough Strategy = "breakthrough"
	StrategyOscillation  Strategy = "oscillation"
)

// ParseStrategy accepts the strategy tag case-insensitively.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyBreakthrough:
		return StrategyBreakthrough, nil
	case StrategyOscillation:
		return StrategyOscillation, nil
	default:
		return "", fmt.Errorf("unknown strategy %q", s)
	}
}

// Endpoints is the set of strategy-specific paths. Shared endpoints
// (price ranges, single monitor fetch/update) are not listed here.
type Endpoints struct {
	ListMonitors string // %s = account id
	SaveMonitor  string
	SaveTag      string // strategy_type sent in the save body, omitted when empty
	DeleteMethod string
	DeletePath   string // %d = monitor id
}

// Endpoints returns the endpoint set for the strategy.
func (s Strategy) Endpoints() Endpoints {
	if s == StrategyOscillation {
		return Endpoints{
			ListMonitors: "/api/oscillation_monitor_symbols/%s",
			SaveMonitor:  "/api/save_oscillation_monitor",
			DeleteMethod: "POST",
			DeletePath:   "/api/monitor/%d/delete",
		}
	}
	return Endpoints{
		ListMonitors: "/api/monitor_symbols/%s",
		SaveMonitor:  "/api/save_monitor_symbols",
		SaveTag:      "break",
		DeleteMethod: "DELETE",
		DeletePath:   "/api/monitor/%d",
	}
}

// Float decodes JSON numbers that the server sometimes serializes as
// strings (Decimal columns) or null. "NaN" and "Infinity" decode as 0.
type Float float64

func (f *Float) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", s, err)
		}
		*f = finite(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = finite(v)
	return nil
}

func finite(v float64) Float {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return Float(v)
}

// SymbolRow is one row of the price range table. Amplitude and
// PositionRatio are decimals in [0,1]; Volume24h is in quote currency.
type SymbolRow struct {
	Symbol        string `json:"symbol"`
	HighPrice20d  Float  `json:"high_price_20d"`
	LowPrice20d   Float  `json:"low_price_20d"`
	LastPrice     Float  `json:"last_price"`
	Amplitude     Float  `json:"amplitude"`
	PositionRatio Float  `json:"position_ratio"`
	Volume24h     Float  `json:"volume_24h"`
	UpdateTime    string `json:"update_time"`
}

// MonitorStatus is the server-driven lifecycle state of a monitor entry.
type MonitorStatus string

const (
	StatusWaiting MonitorStatus = "WAITING"
	StatusOpened  MonitorStatus = "OPENED"
	StatusClosed  MonitorStatus = "CLOSED"
)

// Normalize upper-cases the status; the server is not consistent about case.
func (s MonitorStatus) Normalize() MonitorStatus {
	return MonitorStatus(strings.ToUpper(strings.TrimSpace(string(s))))
}

// MonitorEntry is a server-owned monitor record. The market columns are
// joined in by the list endpoints and are zero on single fetches.
type MonitorEntry struct {
	ID             int64         `json:"id"`
	Symbol         string        `json:"symbol"`
	AllocatedMoney Float         `json:"allocated_money"`
	Leverage       int           `json:"leverage"`
	TakeProfit     Float         `json:"take_profit"`
	Status         MonitorStatus `json:"status"`
	IsActive       bool          `json:"is_active"`
	PositionSide   string        `json:"position_side"`
	SyncTime       string        `json:"sync_time"`
	UpdateTime     string        `json:"update_time"`

	LastPrice     Float `json:"last_price"`
	Amplitude     Float `json:"amplitude"`
	PositionRatio Float `json:"position_ratio"`
}

// Config returns the editable part of the entry.
func (e MonitorEntry) Config() MonitorConfig {
	return MonitorConfig{
		AllocatedMoney: float64(e.AllocatedMoney),
		Leverage:       e.Leverage,
		TakeProfit:     float64(e.TakeProfit),
	}
}

// MonitorConfig is the capital/leverage/take-profit triple of a monitor.
type MonitorConfig struct {
	AllocatedMoney float64 `json:"allocated_money"`
	Leverage       int     `json:"leverage"`
	TakeProfit     float64 `json:"take_profit"`
}

// MonitorUpdate is the PUT body. IsActive is only sent when toggling.
type MonitorUpdate struct {
	MonitorConfig
	IsActive *bool `json:"is_active,omitempty"`
}

// Position is one entry of the account positions overview.
type Position struct {
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	IsSelected bool   `json:"is_selected"`
	Money      Float  `json:"money"`
	Discount   Float  `json:"discount"`
}

// SymbolPage is one page of price range rows plus the unpaged total.
type SymbolPage struct {
	Rows  []SymbolRow
	Total int
}

type saveSymbol struct {
	Symbol string `json:"symbol"`
	MonitorConfig
}

type saveRequest struct {
	AccountID    string       `json:"accountId"`
	StrategyType string       `json:"strategy_type,omitempty"`
	Symbols      []saveSymbol `json:"symbols"`
}

// envelope carries the status fields shared by every response.
type envelope struct {
	Status  string `json:"status"`
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e envelope) ok() bool {
	if e.Success != nil && *e.Success {
		return true
	}
	return e.Status == "success"
}

func (e envelope) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

type symbolsResponse struct {
	envelope
	Data  []SymbolRow `json:"data"`
	Total int         `json:"total"`
}

type monitorsResponse struct {
	envelope
	Data []MonitorEntry `json:"data"`
}

type monitorResponse struct {
	envelope
	Monitor *MonitorEntry `json:"monitor"`
}

type existsResponse struct {
	Exists bool `json:"exists"`
}
