package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AutomationMetrics exposes the scheduler's Prometheus instruments. All
// instruments are registered on construction against the given registerer.
type AutomationMetrics struct {
	RunsTotal         *prometheus.CounterVec
	PairUpdatesTotal  *prometheus.CounterVec
	AlertsTotal       *prometheus.CounterVec
	RunDuration       prometheus.Histogram
	SchedulesDisabled prometheus.Counter
}

// NewAutomationMetrics creates and registers the automation instrument set.
func NewAutomationMetrics(reg prometheus.Registerer) *AutomationMetrics {
	factory := promauto.With(reg)

	return &AutomationMetrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fx_update_runs_total",
			Help: "Update runs executed, by trigger and outcome.",
		}, []string{"trigger", "outcome"}),
		PairUpdatesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fx_pair_updates_total",
			Help: "Per-pair update attempts, by outcome.",
		}, []string{"outcome"}),
		AlertsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fx_rate_change_alerts_total",
			Help: "Rate change alerts raised, by severity.",
		}, []string{"severity"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fx_update_run_duration_seconds",
			Help:    "Wall-clock duration of one update run.",
			Buckets: prometheus.DefBuckets,
		}),
		SchedulesDisabled: factory.NewCounter(prometheus.CounterOpts{
			Name: "fx_schedules_disabled_total",
			Help: "Schedules disabled after exhausting their retries.",
		}),
	}
}
