// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package metrics exports refresh-cycle instrumentation to Prometheus.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"grimm.is/nets/internal/netstat"
)

// Metrics holds the dashboard's Prometheus instruments. It implements
// both prometheus.Collector and the view controller's Observer.
type Metrics struct {
	// Fetch metrics
	FetchesTotal  prometheus.Counter
	FetchErrors   prometheus.Counter
	FetchDuration prometheus.Histogram
	FetchRecords  prometheus.Gauge

	// View metrics
	Displayed prometheus.Gauge
	Paused    prometheus.Gauge

	// Summary of the last snapshot, by counter name
	Sockets *prometheus.GaugeVec

	mu          sync.RWMutex
	summary     netstat.Summary
	lastRefresh time.Time
	lastErr     error
}

// NewMetrics creates the instruments. Nothing is registered yet.
func NewMetrics() *Metrics {
	return &Metrics{
		FetchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nets_snapshot_fetches_total",
			Help: "Total number of socket snapshot fetches",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nets_snapshot_fetch_errors_total",
			Help: "Total number of failed socket snapshot fetches",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nets_snapshot_fetch_duration_seconds",
			Help:    "Time spent fetching a socket snapshot",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		FetchRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nets_snapshot_records",
			Help: "Number of records in the last successful snapshot",
		}),

		Displayed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nets_view_displayed_records",
			Help: "Number of records shown after tab and text filtering",
		}),
		Paused: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nets_view_paused",
			Help: "Whether updates are paused (1 for paused, 0 for live)",
		}),

		Sockets: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "nets_sockets",
			Help: "Socket counts of the last snapshot",
		}, []string{"kind"}),
	}
}

// Describe implements prometheus.Collector
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.FetchesTotal.Describe(ch)
	m.FetchErrors.Describe(ch)
	m.FetchDuration.Describe(ch)
	m.FetchRecords.Describe(ch)

	m.Displayed.Describe(ch)
	m.Paused.Describe(ch)

	m.Sockets.Describe(ch)
}

// Collect implements prometheus.Collector
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.FetchesTotal.Collect(ch)
	m.FetchErrors.Collect(ch)
	m.FetchDuration.Collect(ch)
	m.FetchRecords.Collect(ch)

	m.Displayed.Collect(ch)
	m.Paused.Collect(ch)

	m.Sockets.Collect(ch)
}

// Register registers m with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	return reg.Register(m)
}

// ObserveFetch records one snapshot fetch attempt.
func (m *Metrics) ObserveFetch(elapsed time.Duration, records int, err error) {
	m.FetchesTotal.Inc()
	m.FetchDuration.Observe(elapsed.Seconds())

	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()

	if err != nil {
		m.FetchErrors.Inc()
		return
	}
	m.FetchRecords.Set(float64(records))
}

// ObserveRefresh records the outcome of a rebuilt view.
func (m *Metrics) ObserveRefresh(displayed int, summary netstat.Summary, paused bool) {
	m.Displayed.Set(float64(displayed))
	if paused {
		m.Paused.Set(1)
	} else {
		m.Paused.Set(0)
	}

	m.Sockets.WithLabelValues("total").Set(float64(summary.Total))
	m.Sockets.WithLabelValues("unique").Set(float64(summary.Unique))
	m.Sockets.WithLabelValues("tcp").Set(float64(summary.TCP))
	m.Sockets.WithLabelValues("udp").Set(float64(summary.UDP))
	m.Sockets.WithLabelValues("established").Set(float64(summary.Established))
	m.Sockets.WithLabelValues("listen").Set(float64(summary.Listening))
	m.Sockets.WithLabelValues("ipv4").Set(float64(summary.IPv4))
	m.Sockets.WithLabelValues("ipv6").Set(float64(summary.IPv6))

	m.mu.Lock()
	m.summary = summary
	m.lastRefresh = time.Now()
	m.mu.Unlock()
}

// Snapshot returns the last observed summary, refresh time and fetch error.
func (m *Metrics) Snapshot() (netstat.Summary, time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.summary, m.lastRefresh, m.lastErr
}
