// Package metrics defines the custom Prometheus metrics of the onboarding
// API. HTTP request metrics come from echoprometheus; the ones here cover
// the domain operations and the database connection.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "onboarding"

// Result label values shared by the auth counters.
const (
	ResultSuccess  = "success"
	ResultConflict = "conflict"
	ResultInvalid  = "invalid"
	ResultError    = "error"
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: success, conflict, invalid or error
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: success, invalid or error
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TaskStatusUpdatesTotal counts successful onboarding task status changes.
// Label:
//   - status: the status written (pending, in_progress, completed)
var TaskStatusUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_status_updates_total",
		Help:      "Total number of onboarding task status updates, by new status.",
	},
	[]string{"status"},
)

// DatabaseUp is 1 while the MongoDB connection is healthy.
var DatabaseUp = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "database_up",
		Help:      "Whether the MongoDB connection is currently established (1) or not (0).",
	},
)

// DatabaseDisconnectsTotal counts lost MongoDB connections.
var DatabaseDisconnectsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "database_disconnects_total",
		Help:      "Total number of times an established MongoDB connection was lost.",
	},
)

// ObserveDatabase flips DatabaseUp and counts disconnects.
func ObserveDatabase(up bool) {
	if up {
		DatabaseUp.Set(1)
		return
	}
	DatabaseUp.Set(0)
	DatabaseDisconnectsTotal.Inc()
}
