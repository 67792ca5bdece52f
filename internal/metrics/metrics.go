// Package metrics exposes Prometheus instrumentation for the reconciliation
// pipeline and the HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "absencer"

type Collector struct {
	registry *prometheus.Registry

	RowsProcessed prometheus.Counter
	RowsExcluded  prometheus.Counter
	RowErrors     prometheus.Counter
	StaleDates    prometheus.Counter
	Matched       prometheus.Counter
	Unmatched     prometheus.Counter
	RunDuration   prometheus.Histogram

	httpRequests *prometheus.CounterVec
}

func New() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		RowsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "rows_processed_total",
			Help: "Absence rows successfully extracted.",
		}),
		RowsExcluded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "rows_excluded_total",
			Help: "Absence rows excluded as working time or break.",
		}),
		RowErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "row_errors_total",
			Help: "Absence rows dropped for extraction or validation failures.",
		}),
		StaleDates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "stale_dates_total",
			Help: "Accepted dates older than the staleness threshold.",
		}),
		Matched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "absences_matched_total",
			Help: "Absences matched to a roster employee.",
		}),
		Unmatched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "absences_unmatched_total",
			Help: "Absences with no roster match.",
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "run_duration_seconds",
			Help:    "Wall time of one full reconciliation run.",
			Buckets: prometheus.DefBuckets,
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
	}
}

// RecordRequest counts one served HTTP request.
func (c *Collector) RecordRequest(method, path string, status int, _ time.Duration) {
	c.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
