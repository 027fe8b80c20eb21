// Package metrics records parse and render activity as Prometheus metrics.
//
// The CLI is a short-lived process, so metrics are exported as a node
// exporter textfile rather than served over HTTP.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Default metric naming.
const (
	DefaultNamespace = "atrus"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Config configures a Collector.
type Config struct {
	// Namespace prefixes every metric name. Defaults to DefaultNamespace.
	Namespace string

	// DurationBuckets are the histogram buckets for parse and render
	// durations, in seconds.
	DurationBuckets []float64

	// NodeBuckets are the histogram buckets for nodes per document.
	NodeBuckets []float64
}

// Collector owns the registry and every metric recorded by atrus.
// A nil Collector records nothing.
type Collector struct {
	registry *prometheus.Registry

	parsesTotal   *prometheus.CounterVec
	parseDuration prometheus.Histogram
	sourceBytes   prometheus.Counter
	nodes         prometheus.Histogram

	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	outputBytes    *prometheus.CounterVec
}

// NewCollector creates a collector and registers its metrics with registry.
// A nil registry gets a fresh one.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	if len(cfg.DurationBuckets) == 0 {
		// 10µs to ~5s.
		cfg.DurationBuckets = prometheus.ExponentialBuckets(0.00001, 4, 10)
	}
	if len(cfg.NodeBuckets) == 0 {
		cfg.NodeBuckets = prometheus.ExponentialBuckets(16, 4, 8)
	}

	c := &Collector{
		registry: registry,
		parsesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "parse",
				Name:      "total",
				Help:      "Total number of parse calls by status",
			},
			[]string{"status"},
		),
		parseDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "parse",
				Name:      "duration_seconds",
				Help:      "Duration of parse calls in seconds",
				Buckets:   cfg.DurationBuckets,
			},
		),
		sourceBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "parse",
				Name:      "source_bytes_total",
				Help:      "Total bytes of source text parsed",
			},
		),
		nodes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "parse",
				Name:      "nodes",
				Help:      "Nodes allocated per parsed document",
				Buckets:   cfg.NodeBuckets,
			},
		),
		rendersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "render",
				Name:      "total",
				Help:      "Total number of render calls by format and status",
			},
			[]string{"format", "status"},
		),
		renderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "render",
				Name:      "duration_seconds",
				Help:      "Duration of render calls in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"format"},
		),
		outputBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "render",
				Name:      "output_bytes_total",
				Help:      "Total bytes of rendered output",
			},
			[]string{"format"},
		),
	}

	registry.MustRegister(
		c.parsesTotal,
		c.parseDuration,
		c.sourceBytes,
		c.nodes,
		c.rendersTotal,
		c.renderDuration,
		c.outputBytes,
	)

	return c
}

// Registry returns the registry the collector's metrics live in.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// RecordParse records one parse call. nodes is ignored for failed parses.
func (c *Collector) RecordParse(err error, duration time.Duration, sourceBytes, nodes int) {
	if c == nil {
		return
	}

	c.parsesTotal.WithLabelValues(status(err)).Inc()
	c.parseDuration.Observe(duration.Seconds())
	c.sourceBytes.Add(float64(sourceBytes))
	if err == nil {
		c.nodes.Observe(float64(nodes))
	}
}

// RecordRender records one render call in the given format.
func (c *Collector) RecordRender(format string, err error, duration time.Duration, outputBytes int) {
	if c == nil {
		return
	}

	c.rendersTotal.WithLabelValues(format, status(err)).Inc()
	c.renderDuration.WithLabelValues(format).Observe(duration.Seconds())
	if err == nil {
		c.outputBytes.WithLabelValues(format).Add(float64(outputBytes))
	}
}

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
