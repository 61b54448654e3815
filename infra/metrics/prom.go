package metrics

import (
	"errors"

	coremetrics "github.com/kilianp07/troopsched/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink exposes completed weeks as Prometheus metrics.
type PromSink struct {
	score       *prometheus.GaugeVec
	unresolved  *prometheus.GaugeVec
	shared      *prometheus.GaugeVec
	staff       *prometheus.GaugeVec
	weeks       prometheus.Counter
	escalations *prometheus.CounterVec
}

// NewPromSink registers week metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on reg. A nil registerer
// defaults to the global one. Collectors already registered are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		score: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "troopsched_week_score",
			Help: "Final score of the last run per week",
		}, []string{"week"}),
		unresolved: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "troopsched_week_unresolved",
			Help: "Unresolved items left by the last run per week",
		}, []string{"week"}),
		shared: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "troopsched_week_shared_sessions",
			Help: "Shared sessions in the last run per week",
		}, []string{"week"}),
		staff: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "troopsched_week_staff_load",
			Help: "Staff load statistics of the last run per week",
		}, []string{"week", "stat"}),
		weeks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "troopsched_weeks_recorded_total",
			Help: "Number of week runs recorded",
		}),
		escalations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "troopsched_sink_escalations_total",
			Help: "Guarantee tier attempts seen by the sink",
		}, []string{"tier", "outcome"}),
	}
	var err error
	if s.score, err = register(reg, s.score); err != nil {
		return nil, err
	}
	if s.unresolved, err = register(reg, s.unresolved); err != nil {
		return nil, err
	}
	if s.shared, err = register(reg, s.shared); err != nil {
		return nil, err
	}
	if s.staff, err = register(reg, s.staff); err != nil {
		return nil, err
	}
	if s.weeks, err = register(reg, s.weeks); err != nil {
		return nil, err
	}
	if s.escalations, err = register(reg, s.escalations); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordWeek sets the per-week gauges.
func (s *PromSink) RecordWeek(rec coremetrics.WeekRecord) error {
	week := weekLabel(rec.Week)
	s.score.WithLabelValues(week).Set(rec.Score)
	s.unresolved.WithLabelValues(week).Set(float64(rec.Unresolved))
	s.shared.WithLabelValues(week).Set(float64(rec.SharedSessions))
	s.staff.WithLabelValues(week, "mean").Set(rec.StaffMean)
	s.staff.WithLabelValues(week, "stddev").Set(rec.StaffStdDev)
	s.weeks.Inc()
	return nil
}

// RecordEscalation counts a tier attempt.
func (s *PromSink) RecordEscalation(rec coremetrics.EscalationRecord) error {
	s.escalations.WithLabelValues(rec.Tier, rec.Outcome).Inc()
	return nil
}
