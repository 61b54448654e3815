package events

import "time"

// Event is implemented by every scheduling event.
type Event interface {
	RunID() string
}

// PhaseEvent is published at each phase boundary. Placed is the number of
// entries committed during the phase and is zero for the start event.
type PhaseEvent struct {
	Run      string
	Week     int
	Phase    string
	Done     bool
	Placed   int
	Duration time.Duration
}

func (e PhaseEvent) RunID() string { return e.Run }

// EscalationEvent reports one guarantee tier attempt. Outcome is "placed",
// "failed" or "unsatisfiable".
type EscalationEvent struct {
	Run      string
	Week     int
	Troop    string
	Activity string
	Rank     int
	Tier     string
	Outcome  string
}

func (e EscalationEvent) RunID() string { return e.Run }

// WeekEvent is published once per week run.
type WeekEvent struct {
	Run        string
	Week       int
	Score      float64
	Unresolved int
	Err        error
	Duration   time.Duration
}

func (e WeekEvent) RunID() string { return e.Run }
