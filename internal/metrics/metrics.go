// Package metrics exposes cache and query counters through Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-auction-query/cache"
)

const namespace = "auction"

// Collector implements cache.MetricsCollector on a private registry.
type Collector struct {
	registry *prometheus.Registry

	lookups       *prometheus.CounterVec
	storeCommands *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
}

var _ cache.MetricsCollector = (*Collector)(nil)

// New registers the cache and query metrics on a fresh registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "lookups_total",
				Help:      "Cache lookups by result (hit or miss)",
			},
			[]string{"result"},
		),
		storeCommands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "store_commands_total",
				Help:      "Commands sent to the cache store by command and status",
			},
			[]string{"command", "status"},
		),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "query",
				Name:      "duration_seconds",
				Help:      "Query handler latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"query", "status"},
		),
	}
	c.registry.MustRegister(c.lookups, c.storeCommands, c.queryDuration)
	return c
}

func (c *Collector) Lookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.lookups.WithLabelValues(result).Inc()
}

func (c *Collector) StoreCommand(command string, err error) {
	c.storeCommands.WithLabelValues(command, status(err)).Inc()
}

// ObserveQuery records how long a named query took.
func (c *Collector) ObserveQuery(query string, elapsed time.Duration, err error) {
	c.queryDuration.WithLabelValues(query, status(err)).Observe(elapsed.Seconds())
}

// Registry returns the registry the collector writes to.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
