package outbreakd

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the daemon's Prometheus metrics. Metrics live on a
// private registry so multiple daemons can coexist in one process.
type Collector struct {
	registry *prometheus.Registry

	runsStarted   prometheus.Counter
	runsCompleted prometheus.Counter
	runsFailed    prometheus.Counter
	runsCancelled prometheus.Counter
	activeRuns    prometheus.Gauge
	runDuration   prometheus.Histogram
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "outbreak_runs_started_total",
			Help: "Total number of scenario-set runs started",
		}),
		runsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "outbreak_runs_completed_total",
			Help: "Total number of scenario-set runs completed successfully",
		}),
		runsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "outbreak_runs_failed_total",
			Help: "Total number of scenario-set runs that failed",
		}),
		runsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "outbreak_runs_cancelled_total",
			Help: "Total number of scenario-set runs cancelled",
		}),
		activeRuns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "outbreak_active_runs",
			Help: "Current number of executing scenario-set runs",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "outbreak_run_duration_seconds",
			Help:    "Wall-clock duration of completed scenario-set runs",
			Buckets: prometheus.DefBuckets,
		}),
	}

	c.registry.MustRegister(
		c.runsStarted,
		c.runsCompleted,
		c.runsFailed,
		c.runsCancelled,
		c.activeRuns,
		c.runDuration,
	)
	return c
}

// Handler exposes the registry in Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) RunStarted() {
	c.runsStarted.Inc()
	c.activeRuns.Inc()
}

func (c *Collector) RunCompleted(elapsed time.Duration) {
	c.runsCompleted.Inc()
	c.activeRuns.Dec()
	c.runDuration.Observe(elapsed.Seconds())
}

func (c *Collector) RunFailed() {
	c.runsFailed.Inc()
	c.activeRuns.Dec()
}

func (c *Collector) RunCancelled() {
	c.runsCancelled.Inc()
	c.activeRuns.Dec()
}
