// Package events defines the scheduling events emitted on the event bus.
//
// Available event types:
//   - PhaseEvent: a placement phase started or finished for a week
//   - EscalationEvent: a guarantee tier attempted a preference
//   - WeekEvent: a week run completed, successfully or not
package events
