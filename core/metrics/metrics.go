package metrics

import "time"

// WeekRecord summarises one completed week run.
type WeekRecord struct {
	RunID          string
	Week           int
	Troops         int
	Entries        int
	Score          float64
	Components     map[string]float64
	SharedSessions int
	HardViolations int
	Unresolved     int
	StaffMean      float64
	StaffStdDev    float64
	Duration       time.Duration
	Time           time.Time
}

// EscalationRecord captures one guarantee tier attempt.
type EscalationRecord struct {
	RunID    string
	Week     int
	Troop    string
	Activity string
	Tier     string
	Outcome  string
	Time     time.Time
}

// RunSink records completed weeks.
type RunSink interface {
	RecordWeek(rec WeekRecord) error
}

// EscalationRecorder is implemented by sinks that track guarantee tiers.
type EscalationRecorder interface {
	RecordEscalation(rec EscalationRecord) error
}

// NopSink discards every record.
type NopSink struct{}

func (NopSink) RecordWeek(WeekRecord) error             { return nil }
func (NopSink) RecordEscalation(EscalationRecord) error { return nil }

// MultiSink fans records out to several sinks.
type MultiSink struct {
	Sinks []RunSink
}

// NewMultiSink creates a MultiSink.
func NewMultiSink(sinks ...RunSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordWeek forwards rec to every sink and returns the first error after
// all sinks have been called.
func (m *MultiSink) RecordWeek(rec WeekRecord) error {
	var first error
	for _, s := range m.Sinks {
		if err := s.RecordWeek(rec); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// RecordEscalation forwards rec to the sinks that support it.
func (m *MultiSink) RecordEscalation(rec EscalationRecord) error {
	var first error
	for _, s := range m.Sinks {
		if r, ok := s.(EscalationRecorder); ok {
			if err := r.RecordEscalation(rec); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
