package engine

import "github.com/prometheus/client_golang/prometheus"

var (
	placementsTotal  *prometheus.CounterVec
	escalationsTotal *prometheus.CounterVec
	unresolvedTotal  *prometheus.CounterVec
	weekScore        *prometheus.GaugeVec
	runDuration      prometheus.Histogram
)

func newCollectors() (*prometheus.CounterVec, *prometheus.CounterVec, *prometheus.CounterVec, *prometheus.GaugeVec, prometheus.Histogram) {
	placed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_placements_total",
			Help: "Entries committed per placement phase",
		},
		[]string{"phase"},
	)
	esc := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_escalations_total",
			Help: "Guarantee tier attempts by outcome",
		},
		[]string{"tier", "outcome"},
	)
	unresolved := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_unresolved_total",
			Help: "Unresolved demands and slots reported by kind",
		},
		[]string{"kind"},
	)
	score := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "scheduler_week_score",
			Help: "Final score of the last run of each week",
		},
		[]string{"week"},
	)
	dur := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scheduler_run_duration_seconds",
			Help:    "Wall time of one week run",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)
	return placed, esc, unresolved, score, dur
}

func init() {
	placementsTotal, escalationsTotal, unresolvedTotal, weekScore, runDuration = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers the engine collectors on reg, or on the
// default registerer when reg is nil.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(placementsTotal, escalationsTotal, unresolvedTotal, weekScore, runDuration)
}

// ResetMetrics recreates the collectors for tests and registers them on reg
// when it is not nil.
func ResetMetrics(reg prometheus.Registerer) {
	placementsTotal, escalationsTotal, unresolvedTotal, weekScore, runDuration = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
