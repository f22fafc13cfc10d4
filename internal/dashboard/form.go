package dashboard

import (
	"math"
	"strconv"
	"strings"

	"github.com/rovshanmuradov/rangewatch/internal/api"
)

// DefaultLeverage pre-fills the leverage field of a new monitor.
const DefaultLeverage = "3"

// MonitorForm is the raw text of the monitor dialog.
type MonitorForm struct {
	AllocatedMoney string
	Leverage       string
	TakeProfit     string
}

// DefaultMonitorForm returns the form shown when creating a monitor.
func DefaultMonitorForm() MonitorForm {
	return MonitorForm{Leverage: DefaultLeverage}
}

// FormFromEntry pre-fills the form from a stored monitor.
func FormFromEntry(e api.MonitorEntry) MonitorForm {
	return MonitorForm{
		AllocatedMoney: strconv.FormatFloat(float64(e.AllocatedMoney), 'f', -1, 64),
		Leverage:       strconv.Itoa(e.Leverage),
		TakeProfit:     strconv.FormatFloat(float64(e.TakeProfit), 'f', -1, 64),
	}
}

// Parse validates the form. Capital and take-profit must be finite and
// positive; leverage must be a whole number of at least 1.
func (f MonitorForm) Parse() (api.MonitorConfig, error) {
	money, err := positive("allocated_money", f.AllocatedMoney)
	if err != nil {
		return api.MonitorConfig{}, err
	}

	leverage, err := wholeLeverage(f.Leverage)
	if err != nil {
		return api.MonitorConfig{}, err
	}

	takeProfit, err := positive("take_profit", f.TakeProfit)
	if err != nil {
		return api.MonitorConfig{}, err
	}

	return api.MonitorConfig{
		AllocatedMoney: money,
		Leverage:       leverage,
		TakeProfit:     takeProfit,
	}, nil
}

func positive(field, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &ValidationError{Field: field, Reason: "is required"}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Field: field, Reason: "must be a number"}
	}
	if v <= 0 {
		return 0, &ValidationError{Field: field, Reason: "must be greater than 0"}
	}
	return v, nil
}

func wholeLeverage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &ValidationError{Field: "leverage", Reason: "is required"}
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Field: "leverage", Reason: "must be a whole number"}
	}
	if v < 1 {
		return 0, &ValidationError{Field: "leverage", Reason: "must be at least 1"}
	}
	return v, nil
}

// CanEdit reports whether a monitor's config may still be changed.
// WAITING and OPENED entries are editable, CLOSED ones are read-only.
func CanEdit(e api.MonitorEntry) bool {
	switch e.Status.Normalize() {
	case api.StatusWaiting, api.StatusOpened:
		return true
	default:
		return false
	}
}
