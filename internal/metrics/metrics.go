package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace is the namespace component of the fully qualified metric name.
const Namespace = "eex"

const subsystem = "scrape"

// Outcomes of a single linked file during a scrape run.
const (
	FileSkipped        = "skipped"
	FileDownloadFailed = "download_failed"
	FileDecodeFailed   = "decode_failed"
	FileIngested       = "ingested"
)

// Collector holds the scrape metrics on a dedicated registry.
type Collector struct {
	registry     *prometheus.Registry
	runs         *prometheus.CounterVec
	recordsAdded prometheus.Counter
	files        *prometheus.CounterVec
	lastRun      prometheus.Gauge
}

// New returns a Collector whose registry also carries the standard Go and
// process collectors.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewPedanticRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: subsystem,
				Name:      "runs_total",
				Help:      "Total number of scrape runs by final status",
			},
			[]string{"status"},
		),
		recordsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: subsystem,
			Name:      "records_added_total",
			Help:      "Total number of auction records inserted",
		}),
		files: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: subsystem,
				Name:      "files_total",
				Help:      "Total number of linked files seen by outcome",
			},
			[]string{"outcome"},
		),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: subsystem,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last finished scrape run",
		}),
	}

	c.registry.MustRegister(
		c.runs,
		c.recordsAdded,
		c.files,
		c.lastRun,

		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	return c
}

// ObserveRun records a finished run.
func (c *Collector) ObserveRun(status string, recordsAdded int, finishedAt time.Time) {
	if c == nil {
		return
	}

	c.runs.WithLabelValues(status).Inc()
	if recordsAdded > 0 {
		c.recordsAdded.Add(float64(recordsAdded))
	}
	c.lastRun.Set(float64(finishedAt.Unix()))
}

// ObserveFile records the outcome of one linked file.
func (c *Collector) ObserveFile(outcome string) {
	if c == nil {
		return
	}

	c.files.WithLabelValues(outcome).Inc()
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
