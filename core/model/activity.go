package model

import (
	"fmt"
	"math"
	"strings"
)

// Category describes how an activity consumes its location.
type Category int

const (
	// CategoryExclusive activities hold their area for one session per slot.
	CategoryExclusive Category = iota
	// CategoryCapacity activities admit occupants up to a declared limit.
	CategoryCapacity
	// CategoryBeach activities are exclusive and need beach staff.
	CategoryBeach
	// CategoryFill activities close open slots and carry no preference weight.
	CategoryFill
)

func (c Category) String() string {
	switch c {
	case CategoryExclusive:
		return "exclusive"
	case CategoryCapacity:
		return "capacity"
	case CategoryBeach:
		return "beach"
	case CategoryFill:
		return "fill"
	default:
		return "unknown"
	}
}

// ParseCategory converts the textual form used in catalog files.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exclusive", "exclusive-area":
		return CategoryExclusive, nil
	case "capacity", "capacity-limited":
		return CategoryCapacity, nil
	case "beach":
		return CategoryBeach, nil
	case "fill", "filler":
		return CategoryFill, nil
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	v, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Zone is the geographic area of camp an activity runs in.
type Zone string

const (
	ZoneBeach         Zone = "Beach"
	ZoneOutdoorSkills Zone = "Outdoor Skills"
	ZoneTower         Zone = "Tower"
	ZoneDelta         Zone = "Delta"
	ZoneOffCamp       Zone = "Off-camp"
	ZoneCampsite      Zone = "Campsite"
)

// Unit selects what a capacity limit counts.
type Unit string

const (
	UnitTroops Unit = "troops"
	UnitPeople Unit = "people"
)

// Well known activity names the engine treats specially.
const (
	Reflection       = "Reflection"
	SuperTroop       = "Super Troop"
	Delta            = "Delta"
	Sailing          = "Sailing"
	AquaTrampoline   = "Aqua Trampoline"
	CampsiteFreeTime = "Campsite Free Time"
)

// Activity is immutable reference data for one schedulable unit.
type Activity struct {
	Name     string   `json:"name" yaml:"name"`
	Category Category `json:"category" yaml:"category"`
	// Duration is expressed in slot-units. ThursdayDuration overrides it on
	// Thursday when non-zero.
	Duration         float64 `json:"duration" yaml:"duration"`
	ThursdayDuration float64 `json:"thursday_duration,omitempty" yaml:"thursday_duration,omitempty"`
	// Troops with more than LargeTroopScouts scouts use LargeTroopDuration.
	LargeTroopScouts   int     `json:"large_troop_scouts,omitempty" yaml:"large_troop_scouts,omitempty"`
	LargeTroopDuration float64 `json:"large_troop_duration,omitempty" yaml:"large_troop_duration,omitempty"`

	Wet       bool `json:"wet,omitempty" yaml:"wet,omitempty"`
	Strenuous bool `json:"strenuous,omitempty" yaml:"strenuous,omitempty"`
	// Staff is the staff demand of one session.
	Staff        int  `json:"staff" yaml:"staff"`
	BeachStaffed bool `json:"beach_staffed,omitempty" yaml:"beach_staffed,omitempty"`
	Zone         Zone `json:"zone" yaml:"zone"`
	// Cluster groups activities sharing staff and location for clustering.
	Cluster string `json:"cluster,omitempty" yaml:"cluster,omitempty"`
	Days    []Day  `json:"days,omitempty" yaml:"days,omitempty"`

	// Area is the exclusive location. Defaults to the activity name for
	// exclusive and beach categories.
	Area            string `json:"area,omitempty" yaml:"area,omitempty"`
	PerCommissioner bool   `json:"per_commissioner,omitempty" yaml:"per_commissioner,omitempty"`
	Capacity        int    `json:"capacity,omitempty" yaml:"capacity,omitempty"`
	CapacityUnit    Unit   `json:"capacity_unit,omitempty" yaml:"capacity_unit,omitempty"`
	// ShareLimit is the number of troops one session may hold. Zero means one
	// troop for exclusive categories and no limit otherwise.
	ShareLimit int `json:"share_limit" yaml:"share_limit"`
	// ShareMaxPeople caps each troop's size when a session is shared.
	ShareMaxPeople int      `json:"share_max_people,omitempty" yaml:"share_max_people,omitempty"`
	ConflictGroups []string `json:"conflict_groups,omitempty" yaml:"conflict_groups,omitempty"`
}

// DurationOn returns the slot-unit duration for troop t on day d.
func (a *Activity) DurationOn(t Troop, d Day) float64 {
	if d == Thursday && a.ThursdayDuration > 0 {
		return a.ThursdayDuration
	}
	if a.LargeTroopDuration > 0 && t.Scouts > a.LargeTroopScouts {
		return a.LargeTroopDuration
	}
	return a.Duration
}

// SpanOn returns the number of consecutive slot indices the activity holds.
func (a *Activity) SpanOn(t Troop, d Day) int {
	span := int(math.Ceil(a.DurationOn(t, d) - 1e-9))
	if span < 1 {
		return 1
	}
	return span
}

// AllowedOn reports whether the activity may run on d.
func (a *Activity) AllowedOn(d Day) bool {
	if len(a.Days) == 0 {
		return true
	}
	for _, x := range a.Days {
		if x == d {
			return true
		}
	}
	return false
}

// OnlyOn reports whether the activity is restricted to exactly day d.
func (a *Activity) OnlyOn(d Day) bool {
	return len(a.Days) == 1 && a.Days[0] == d
}

// IsExclusive reports whether the activity holds an area.
func (a *Activity) IsExclusive() bool {
	return a.Category == CategoryExclusive || a.Category == CategoryBeach
}

// AreaKey returns the occupancy key for the activity, scoped to the
// commissioner group when the area is shared per commissioner.
func (a *Activity) AreaKey(group string) string {
	area := a.Area
	if area == "" {
		area = a.Name
	}
	if a.PerCommissioner {
		return area + "/" + group
	}
	return area
}

// SessionLimit returns the effective number of troops per session, 0 for
// unlimited.
func (a *Activity) SessionLimit() int {
	if a.ShareLimit > 0 {
		return a.ShareLimit
	}
	if a.IsExclusive() {
		return 1
	}
	return 0
}

// Shareable reports whether a session may hold more than one troop for a
// bounded number of troops.
func (a *Activity) Shareable() bool { return a.ShareLimit > 1 }

// InGroup reports membership in the named conflict group.
func (a *Activity) InGroup(g string) bool {
	for _, x := range a.ConflictGroups {
		if x == g {
			return true
		}
	}
	return false
}

// ConflictsWith reports whether a and b form a prohibited same-day pair.
func (a *Activity) ConflictsWith(b *Activity) bool {
	if a.Name == b.Name {
		return false
	}
	for _, g := range a.ConflictGroups {
		if b.InGroup(g) {
			return true
		}
	}
	return false
}

// IsLongBlock reports whether the activity is a 3-hour class block.
func (a *Activity) IsLongBlock() bool { return a.Duration >= 3 }
