package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atikulmunna/piqlog/internal/model"
	"github.com/atikulmunna/piqlog/internal/scan"
)

// Metrics holds the scan collectors on a private registry.
type Metrics struct {
	registry     *prometheus.Registry
	linesScanned prometheus.Counter
	entries      *prometheus.CounterVec
	scans        *prometheus.CounterVec
	scanDur      prometheus.Histogram
}

// New creates and registers the piqlog collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.linesScanned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "piqlog",
		Name:      "lines_scanned_total",
		Help:      "Log lines read across all scans",
	})
	m.entries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "piqlog",
		Name:      "entries_total",
		Help:      "Entries emitted by log level, counted once per entry",
	}, []string{"level"})
	m.scans = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "piqlog",
		Name:      "scans_total",
		Help:      "File scans by outcome",
	}, []string{"status"})
	m.scanDur = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "piqlog",
		Name:      "scan_duration_seconds",
		Help:      "Time spent scanning and assembling one file",
		Buckets:   prometheus.DefBuckets,
	})

	m.registry.MustRegister(m.linesScanned, m.entries, m.scans, m.scanDur)
	return m
}

// ObserveScan records a finished scan. rep is nil when the scan failed.
func (m *Metrics) ObserveScan(rep *scan.Report, took time.Duration) {
	m.scanDur.Observe(took.Seconds())
	if rep == nil {
		m.scans.WithLabelValues("error").Inc()
		return
	}
	m.scans.WithLabelValues("ok").Inc()
	m.linesScanned.Add(float64(rep.Lines))
}

// ObserveEntries counts newly emitted entries. A rescan passes only the
// entries it has not emitted before.
func (m *Metrics) ObserveEntries(entries []model.Entry) {
	for _, e := range entries {
		m.entries.WithLabelValues(e.Summary.LogLevel.String()).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
