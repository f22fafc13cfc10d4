// Package format renders prices, ratios, volumes and timestamps for display.
package format

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/rangewatch/internal/api"
)

// Placeholder is shown for missing values.
const Placeholder = "-"

const displayTime = "01-02 15:04:05"

var (
	hundred  = decimal.NewFromInt(100)
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
	billion  = decimal.NewFromInt(1_000_000_000)
)

// Price renders a price with four decimals.
func Price(v float64) string {
	if !finite(v) {
		return Placeholder
	}
	return decimal.NewFromFloat(v).StringFixed(4)
}

// Percent renders a decimal ratio (0.1234) as a percentage ("12.34%").
func Percent(v float64) string {
	if !finite(v) {
		return Placeholder
	}
	return decimal.NewFromFloat(v).Mul(hundred).StringFixed(2) + "%"
}

// Money renders an amount with two decimals.
func Money(v float64) string {
	if !finite(v) {
		return Placeholder
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Volume renders a quote volume with a B/M/K suffix. Zero renders as the placeholder.
func Volume(v float64) string {
	if !finite(v) {
		return Placeholder
	}
	d := decimal.NewFromFloat(v)
	if d.IsZero() {
		return Placeholder
	}
	abs := d.Abs()
	switch {
	case abs.GreaterThanOrEqual(billion):
		return d.Div(billion).StringFixed(2) + "B"
	case abs.GreaterThanOrEqual(million):
		return d.Div(million).StringFixed(2) + "M"
	case abs.GreaterThanOrEqual(thousand):
		return d.Div(thousand).StringFixed(2) + "K"
	default:
		return d.StringFixed(2)
	}
}

// decimal.NewFromFloat panics on NaN and ±Inf
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Leverage renders a leverage multiplier ("3x").
func Leverage(v int) string {
	if v <= 0 {
		return Placeholder
	}
	return strconv.Itoa(v) + "x"
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999",
	time.RFC1123,
	time.RFC1123Z,
}

// DateTime renders a server timestamp as "MM-DD HH:mm:ss". Unparseable input
// is returned unchanged; empty input renders as the placeholder.
func DateTime(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Placeholder
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(displayTime)
		}
	}
	return s
}

// StatusText renders a monitor status.
func StatusText(s api.MonitorStatus) string {
	switch s.Normalize() {
	case api.StatusWaiting:
		return "Waiting"
	case api.StatusOpened:
		return "Opened"
	case api.StatusClosed:
		return "Closed"
	case "":
		return Placeholder
	default:
		return string(s)
	}
}

// DirectionText renders a position side.
func DirectionText(side string) string {
	switch strings.ToUpper(strings.TrimSpace(side)) {
	case "LONG":
		return "Long"
	case "SHORT":
		return "Short"
	default:
		return Placeholder
	}
}

// Active renders the active flag.
func Active(active bool) string {
	if active {
		return "Active"
	}
	return "Paused"
}
