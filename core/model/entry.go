package model

import "fmt"

// Entry is the atomic placement fact of the schedule. A multi-slot entry
// occupies Span consecutive slot indices starting at Slot.
type Entry struct {
	Troop    string  `json:"troop"`
	Activity string  `json:"activity"`
	Day      Day     `json:"day"`
	Slot     int     `json:"slot"`
	Span     int     `json:"span"`
	Duration float64 `json:"duration"`
}

// Start returns the first slot of the entry.
func (e Entry) Start() TimeSlot { return TimeSlot{Day: e.Day, Slot: e.Slot} }

// Last returns the final slot index held by the entry.
func (e Entry) Last() int { return e.Slot + e.Span - 1 }

// Covers reports whether the entry holds ts.
func (e Entry) Covers(ts TimeSlot) bool {
	return ts.Day == e.Day && ts.Slot >= e.Slot && ts.Slot <= e.Last()
}

// Overlaps reports whether both entries hold a common slot.
func (e Entry) Overlaps(o Entry) bool {
	return e.Day == o.Day && e.Slot <= o.Last() && o.Slot <= e.Last()
}

// Slots lists every slot held by the entry.
func (e Entry) Slots() []TimeSlot {
	out := make([]TimeSlot, 0, e.Span)
	for i := 0; i < e.Span; i++ {
		out = append(out, TimeSlot{Day: e.Day, Slot: e.Slot + i})
	}
	return out
}

// At returns a copy of the entry moved to another start slot with span and
// duration recomputed for the target day.
func (e Entry) At(a *Activity, t Troop, d Day, slot int) Entry {
	return Entry{
		Troop:    e.Troop,
		Activity: e.Activity,
		Day:      d,
		Slot:     slot,
		Span:     a.SpanOn(t, d),
		Duration: a.DurationOn(t, d),
	}
}

func (e Entry) String() string {
	return fmt.Sprintf("%s:%s@%s-%d/%d", e.Troop, e.Activity, e.Day, e.Slot, e.Span)
}

// NewEntry builds the entry for troop t doing a at day d starting at slot.
func NewEntry(a *Activity, t Troop, d Day, slot int) Entry {
	return Entry{
		Troop:    t.Name,
		Activity: a.Name,
		Day:      d,
		Slot:     slot,
		Span:     a.SpanOn(t, d),
		Duration: a.DurationOn(t, d),
	}
}

// Less orders entries by troop then timeline.
func (e Entry) Less(o Entry) bool {
	if e.Troop != o.Troop {
		return e.Troop < o.Troop
	}
	if e.Day != o.Day {
		return e.Day < o.Day
	}
	if e.Slot != o.Slot {
		return e.Slot < o.Slot
	}
	return e.Activity < o.Activity
}
