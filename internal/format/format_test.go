package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rovshanmuradov/rangewatch/internal/api"
)

func TestNumbers(t *testing.T) {
	assert.Equal(t, "65000.1235", Price(65000.12345))
	assert.Equal(t, "0.0000", Price(0))
	assert.Equal(t, "12.34%", Percent(0.1234))
	assert.Equal(t, "0.00%", Percent(0))
	assert.Equal(t, "100.50", Money(100.5))
	assert.Equal(t, "3x", Leverage(3))
	assert.Equal(t, Placeholder, Leverage(0))
}

func TestNonFiniteRendersPlaceholder(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.NotPanics(t, func() {
			assert.Equal(t, Placeholder, Price(v))
			assert.Equal(t, Placeholder, Percent(v))
			assert.Equal(t, Placeholder, Money(v))
			assert.Equal(t, Placeholder, Volume(v))
		})
	}
}

func TestVolume(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "-"},
		{512.345, "512.35"},
		{1_500, "1.50K"},
		{2_345_678, "2.35M"},
		{1_250_000_000, "1.25B"},
		{-3_000_000, "-3.00M"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Volume(tt.in), "volume %v", tt.in)
	}
}

func TestDateTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-05-01 10:02:03", "05-01 10:02:03"},
		{"2024-05-01T10:02:03", "05-01 10:02:03"},
		{"2024-05-01T10:02:03Z", "05-01 10:02:03"},
		{"2024-12-31 23:59:59.123456", "12-31 23:59:59"},
		{"Wed, 01 May 2024 10:02:03 GMT", "05-01 10:02:03"},
		{"", "-"},
		{"yesterday", "yesterday"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DateTime(tt.in), "input %q", tt.in)
	}
}

func TestStatusAndDirection(t *testing.T) {
	assert.Equal(t, "Waiting", StatusText(api.StatusWaiting))
	assert.Equal(t, "Opened", StatusText("opened"))
	assert.Equal(t, "Closed", StatusText(api.StatusClosed))
	assert.Equal(t, "-", StatusText(""))
	assert.Equal(t, "PENDING", StatusText("PENDING"))

	assert.Equal(t, "Long", DirectionText("LONG"))
	assert.Equal(t, "Short", DirectionText("short"))
	assert.Equal(t, "-", DirectionText(""))

	assert.Equal(t, "Active", Active(true))
	assert.Equal(t, "Paused", Active(false))
}
