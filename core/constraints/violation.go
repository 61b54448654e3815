package constraints

import (
	"fmt"

	"github.com/kilianp07/troopsched/core/model"
)

// Severity tells whether a violation blocks placement.
type Severity int

const (
	Hard Severity = iota
	Soft
)

func (s Severity) String() string {
	if s == Hard {
		return "HARD"
	}
	return "SOFT"
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "HARD":
		*s = Hard
	case "SOFT":
		*s = Soft
	default:
		return fmt.Errorf("unknown severity %q", b)
	}
	return nil
}

// Kind names the rule a violation broke.
type Kind string

const (
	KindUnknownActivity Kind = "unknown_activity"
	KindUnknownTroop    Kind = "unknown_troop"
	KindDayRestriction  Kind = "day_restriction"
	KindSlotBounds      Kind = "slot_bounds"
	KindContinuity      Kind = "continuity"
	KindExclusiveArea   Kind = "exclusive_area"
	KindCapacity        Kind = "capacity"
	KindStaffCap        Kind = "staff_cap"
	KindBeachCap        Kind = "beach_cap"
	KindDoubleBooking   Kind = "double_booking"
	KindConflictGroup   Kind = "conflict_group"
	KindDependency      Kind = "dependency_order"
	KindIdleSlot        Kind = "idle_slot"
	KindAnchorCount     Kind = "anchor_count"

	KindWetDryWet         Kind = "wet_dry_wet"
	KindStrenuousAfterWet Kind = "strenuous_after_wet"
	KindBeachSlotTwo      Kind = "beach_slot_two"
	KindClusterGap        Kind = "cluster_gap"
	KindStaffTarget       Kind = "staff_target"
)

// Violation records one broken rule.
type Violation struct {
	Kind     Kind      `json:"kind"`
	Severity Severity  `json:"severity"`
	Troop    string    `json:"troop,omitempty"`
	Activity string    `json:"activity,omitempty"`
	Day      model.Day `json:"day,omitempty"`
	Slot     int       `json:"slot,omitempty"`
	Detail   string    `json:"detail"`
}

func (v Violation) String() string {
	where := ""
	if v.Day.Valid() {
		where = fmt.Sprintf(" at %s-%d", v.Day, v.Slot)
	}
	return fmt.Sprintf("%s %s %s/%s%s: %s", v.Severity, v.Kind, v.Troop, v.Activity, where, v.Detail)
}

func hard(k Kind, e model.Entry, format string, args ...any) *Violation {
	return &Violation{
		Kind: k, Severity: Hard, Troop: e.Troop, Activity: e.Activity,
		Day: e.Day, Slot: e.Slot, Detail: fmt.Sprintf(format, args...),
	}
}

// CountHard returns the number of HARD violations in vs.
func CountHard(vs []Violation) int {
	n := 0
	for _, v := range vs {
		if v.Severity == Hard {
			n++
		}
	}
	return n
}
