package model

import (
	"fmt"
	"strings"
)

// Day identifies a camp weekday.
type Day int

const (
	Monday Day = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
)

// WeekSlots is the number of slot-units a troop fills each week.
const WeekSlots = 14

// Days lists the camp weekdays in calendar order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}

// String returns a human readable representation of the day.
func (d Day) String() string {
	switch d {
	case Monday:
		return "Monday"
	case Tuesday:
		return "Tuesday"
	case Wednesday:
		return "Wednesday"
	case Thursday:
		return "Thursday"
	case Friday:
		return "Friday"
	default:
		return "Unknown"
	}
}

// Slots returns the number of slots available on the day.
func (d Day) Slots() int {
	if d == Thursday {
		return 2
	}
	return 3
}

// Valid reports whether d is a camp weekday.
func (d Day) Valid() bool { return d >= Monday && d <= Friday }

// ParseDay accepts full or three letter day names in any case.
func ParseDay(s string) (Day, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, d := range Days {
		name := strings.ToLower(d.String())
		if v == name || v == name[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown day %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Day) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid day %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Day) UnmarshalText(b []byte) error {
	v, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// TimeSlot identifies one slot on one day.
type TimeSlot struct {
	Day  Day `json:"day"`
	Slot int `json:"slot"`
}

// Before reports whether t happens strictly before o in the week.
func (t TimeSlot) Before(o TimeSlot) bool {
	if t.Day != o.Day {
		return t.Day < o.Day
	}
	return t.Slot < o.Slot
}

func (t TimeSlot) String() string { return fmt.Sprintf("%s-%d", t.Day, t.Slot) }

// AllSlots returns every slot of the week in timeline order.
func AllSlots() []TimeSlot {
	out := make([]TimeSlot, 0, WeekSlots)
	for _, d := range Days {
		for i := 1; i <= d.Slots(); i++ {
			out = append(out, TimeSlot{Day: d, Slot: i})
		}
	}
	return out
}
