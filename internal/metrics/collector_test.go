package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/rangewatch/internal/api"
)

func TestEndpointLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/api/monitor/42", "/api/monitor/:id"},
		{"/api/monitor/42/delete", "/api/monitor/:id/delete"},
		{"/api/monitor_symbols/7", "/api/monitor_symbols/:account"},
		{"/api/monitor_symbols/acct-7", "/api/monitor_symbols/:account"},
		{"/api/oscillation_monitor_symbols/acct-7", "/api/oscillation_monitor_symbols/:account"},
		{"/api/check_monitor_symbol/acct-7/BTCUSDT", "/api/check_monitor_symbol/:account/:symbol"},
		{"/api/check_monitor_symbol/acct-7/ETHUSDT", "/api/check_monitor_symbol/:account/:symbol"},
		{"/api/positions?acct_id=acct-7", "/api/positions"},
		{"/api/symbols_ranges?account_id=1&page=2", "/api/symbols_ranges"},
		{"/api/save_monitor_symbols", "/api/save_monitor_symbols"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EndpointLabel(tt.in), tt.in)
	}
}

func TestObserveRequest(t *testing.T) {
	c := NewCollector()

	c.ObserveRequest("GET", "/api/monitor/1", 200, 20*time.Millisecond)
	c.ObserveRequest("GET", "/api/monitor/2", 200, 30*time.Millisecond)
	c.ObserveRequest("DELETE", "/api/monitor/2", 0, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.requests.WithLabelValues("GET", "/api/monitor/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("DELETE", "/api/monitor/:id", "error")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.requestDuration))
}

func TestObservePollAndMonitors(t *testing.T) {
	c := NewCollector()

	c.ObservePoll(nil, 5*time.Second)
	c.ObservePoll(errors.New("boom"), 10*time.Second)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.polls.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.polls.WithLabelValues("failure")))
	assert.Equal(t, 10.0, testutil.ToFloat64(c.pollDelay))

	c.ObserveMonitors([]api.MonitorEntry{
		{Status: "waiting", IsActive: true},
		{Status: api.StatusWaiting, IsActive: true},
		{Status: api.StatusClosed},
	})
	assert.Equal(t, 2.0, testutil.ToFloat64(c.monitors.WithLabelValues("WAITING", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.monitors.WithLabelValues("CLOSED", "false")))

	// a later list replaces the counts
	c.ObserveMonitors(nil)
	assert.Equal(t, 0, testutil.CollectAndCount(c.monitors))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := NewCollector()
	c.ObservePoll(nil, time.Second)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "rangewatch_monitor_polls_total"))
}
