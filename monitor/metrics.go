package monitor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the monitors.
type Metrics struct {
	Registry        *prometheus.Registry
	CyclesTotal     *prometheus.CounterVec
	CycleDuration   *prometheus.HistogramVec
	RecordsScraped  *prometheus.GaugeVec
	PagesScraped    *prometheus.CounterVec
	BrowserRestarts prometheus.Counter
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	cycles := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_scrape_cycles_total",
			Help: "Completed scrape cycles per monitor and outcome.",
		},
		[]string{"monitor", "status"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "monitor_scrape_cycle_duration_seconds",
			Help:    "Wall time of one full scrape cycle.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"monitor"},
	)
	records := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "monitor_snapshot_records",
			Help: "Record count in the most recent snapshot.",
		},
		[]string{"monitor"},
	)
	pages := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_pages_scraped_total",
			Help: "Source pages visited, including pagination clicks.",
		},
		[]string{"monitor"},
	)
	restarts := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "monitor_browser_restarts_total",
			Help: "Browser restarts triggered by failed cycles.",
		},
	)

	registry.MustRegister(cycles, duration, records, pages, restarts)

	return &Metrics{
		Registry:        registry,
		CyclesTotal:     cycles,
		CycleDuration:   duration,
		RecordsScraped:  records,
		PagesScraped:    pages,
		BrowserRestarts: restarts,
	}
}

// ObserveCycle records one finished cycle.
func (m *Metrics) ObserveCycle(monitor string, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.CyclesTotal.WithLabelValues(monitor, status).Inc()
	m.CycleDuration.WithLabelValues(monitor).Observe(d.Seconds())
}

// SetRecords sets the latest snapshot's record count.
func (m *Metrics) SetRecords(monitor string, n int) {
	if m == nil {
		return
	}
	m.RecordsScraped.WithLabelValues(monitor).Set(float64(n))
}

// IncPages counts one visited source page.
func (m *Metrics) IncPages(monitor string) {
	if m == nil {
		return
	}
	m.PagesScraped.WithLabelValues(monitor).Inc()
}

// IncRestarts counts a browser restart.
func (m *Metrics) IncRestarts() {
	if m == nil {
		return
	}
	m.BrowserRestarts.Inc()
}
