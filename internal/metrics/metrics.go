// Package metrics exposes Prometheus instrumentation at GET /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPRequests counts requests by method, route template and status.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "taskhive_http_requests_total",
	Help: "Total HTTP requests handled.",
}, []string{"method", "route", "status"})

var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "taskhive_http_request_duration_seconds",
	Help:    "HTTP request latency in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route"})

// AuthEvents counts register/login/logout/oauth outcomes.
var AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "taskhive_auth_events_total",
	Help: "Auth events by type and result.",
}, []string{"event", "result"})

// WorkspaceEvents counts workspace lifecycle changes (created, deleted, joined, role_changed).
var WorkspaceEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "taskhive_workspace_events_total",
	Help: "Workspace lifecycle events.",
}, []string{"event"})

// ActiveSockets is the number of open workspace websocket connections.
var ActiveSockets = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "taskhive_websocket_connections",
	Help: "Open workspace websocket connections.",
})

// DependencyUp is 1 while a backing store answers its health probe.
var DependencyUp = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "taskhive_dependency_up",
	Help: "Whether a backing dependency is reachable.",
}, []string{"dependency"})

var TasksByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "taskhive_tasks",
	Help: "Tasks across all workspaces by status.",
}, []string{"status"})

func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordAuth(event string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	AuthEvents.WithLabelValues(event, result).Inc()
}
