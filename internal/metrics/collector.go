// Package metrics exports API request, poll and monitor statistics to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rovshanmuradov/rangewatch/internal/api"
)

const namespace = "rangewatch"

// Collector owns a private registry so several collectors can coexist in tests
type Collector struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	polls           *prometheus.CounterVec
	pollDelay       prometheus.Gauge
	monitors        *prometheus.GaugeVec
}

var (
	_ api.RequestObserver = (*Collector)(nil)
)

// NewCollector creates and registers all metrics
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of API requests by outcome",
			},
			[]string{"method", "endpoint", "code"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "API request latency in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
			},
			[]string{"method", "endpoint"},
		),

		polls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "monitor_polls_total",
				Help:      "Monitor list polls by result",
			},
			[]string{"result"},
		),

		pollDelay: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "monitor_poll_delay_seconds",
				Help:      "Delay before the next monitor poll",
			},
		),

		monitors: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "monitors",
				Help:      "Monitors of the account by status and active flag",
			},
			[]string{"status", "active"},
		),
	}

	c.registry.MustRegister(c.requests, c.requestDuration, c.polls, c.pollDelay, c.monitors)
	return c
}

// Registry returns the registry the metrics live in
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one API call. A zero code means the request never
// got a response.
func (c *Collector) ObserveRequest(method, path string, code int, duration time.Duration) {
	endpoint := EndpointLabel(path)
	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	c.requests.WithLabelValues(method, endpoint, label).Inc()
	c.requestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// ObservePoll records the outcome of a monitor poll and the next delay
func (c *Collector) ObservePoll(err error, next time.Duration) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	c.polls.WithLabelValues(result).Inc()
	c.pollDelay.Set(next.Seconds())
}

// ObserveMonitors replaces the monitor gauges with counts from entries
func (c *Collector) ObserveMonitors(entries []api.MonitorEntry) {
	c.monitors.Reset()
	for _, e := range entries {
		status := string(e.Status.Normalize())
		if status == "" {
			status = "UNKNOWN"
		}
		c.monitors.WithLabelValues(status, strconv.FormatBool(e.IsActive)).Inc()
	}
}

// routeParams names the path parameters that follow each routed prefix
var routeParams = []struct {
	prefix string
	params []string
}{
	{"/api/check_monitor_symbol/", []string{":account", ":symbol"}},
	{"/api/monitor_symbols/", []string{":account"}},
	{"/api/oscillation_monitor_symbols/", []string{":account"}},
}

// EndpointLabel strips the query and replaces account, symbol and numeric
// id segments with placeholders so label cardinality stays bounded.
func EndpointLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	for _, r := range routeParams {
		if rest, ok := strings.CutPrefix(path, r.prefix); ok {
			n := len(strings.Split(rest, "/"))
			return r.prefix + strings.Join(r.params[:min(n, len(r.params))], "/")
		}
	}
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if s == "" {
			continue
		}
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}
