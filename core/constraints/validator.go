package constraints

import (
	"github.com/kilianp07/troopsched/core/model"
	"github.com/kilianp07/troopsched/core/schedule"
)

// Dependency requires Before to be scheduled strictly earlier than After
// for any troop holding both.
type Dependency struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// Anchor is an activity every troop holds exactly once, optionally on a
// fixed day.
type Anchor struct {
	Activity string    `json:"activity"`
	Day      model.Day `json:"day,omitempty"`
}

// Rules are the tunable limits enforced by the validator.
type Rules struct {
	StaffHardCap    int          `json:"staff_hard_cap"`
	StaffTarget     int          `json:"staff_target"`
	BeachMaxStaffed int          `json:"beach_max_staffed"`
	Dependencies    []Dependency `json:"dependencies"`
	Anchors         []Anchor     `json:"anchors"`
}

// DefaultRules returns the standard camp limits.
func DefaultRules() Rules {
	return Rules{
		StaffHardCap:    16,
		StaffTarget:     14,
		BeachMaxStaffed: 4,
		Dependencies:    []Dependency{{Before: model.Delta, After: model.SuperTroop}},
		Anchors: []Anchor{
			{Activity: model.SuperTroop},
			{Activity: model.Reflection, Day: model.Friday},
		},
	}
}

// Validator answers whether entries may be placed and whether a schedule
// holds every invariant. It never mutates the schedule.
type Validator struct {
	cat   *model.Catalog
	rules Rules
}

// NewValidator creates a validator over the catalog.
func NewValidator(cat *model.Catalog, rules Rules) *Validator {
	return &Validator{cat: cat, rules: rules}
}

// Rules returns the configured limits.
func (v *Validator) Rules() Rules { return v.rules }

// Catalog returns the activity catalog.
func (v *Validator) Catalog() *model.Catalog { return v.cat }

// CanPlace returns nil when e may be inserted into s, or the first HARD
// violation found. Checks run in a fixed order: day and slot legality,
// continuity, area and capacity occupancy, staff limits, double booking,
// same-day conflict groups and dependency ordering.
func (v *Validator) CanPlace(s schedule.View, e model.Entry) *Violation {
	act, ok := v.cat.Get(e.Activity)
	if !ok {
		return hard(KindUnknownActivity, e, "activity not in catalog")
	}
	troop, ok := s.Troop(e.Troop)
	if !ok {
		return hard(KindUnknownTroop, e, "troop not in roster")
	}
	if vi := v.checkDay(act, e); vi != nil {
		return vi
	}
	if vi := v.checkContinuity(act, troop, e); vi != nil {
		return vi
	}
	others := s.TroopEntries(e.Troop)
	for _, ts := range e.Slots() {
		slot := s.SlotEntries(ts)
		if vi := v.checkOccupancy(s, act, troop, e, slot); vi != nil {
			return vi
		}
		if vi := v.checkStaff(s, act, e, ts, slot); vi != nil {
			return vi
		}
	}
	for _, o := range others {
		if o.Overlaps(e) {
			return hard(KindDoubleBooking, e, "troop already holds %s at %s-%d", o.Activity, o.Day, o.Slot)
		}
	}
	for _, o := range others {
		if o.Day != e.Day {
			continue
		}
		if oa, ok := v.cat.Get(o.Activity); ok && act.ConflictsWith(oa) {
			return hard(KindConflictGroup, e, "conflicts with %s on %s", o.Activity, o.Day)
		}
	}
	return v.checkDependencies(e, others)
}

func (v *Validator) checkDay(act *model.Activity, e model.Entry) *Violation {
	if !e.Day.Valid() || !act.AllowedOn(e.Day) {
		return hard(KindDayRestriction, e, "not offered on %s", e.Day)
	}
	if e.Slot < 1 || e.Slot > e.Day.Slots() {
		return hard(KindSlotBounds, e, "slot %d outside 1..%d", e.Slot, e.Day.Slots())
	}
	return nil
}

func (v *Validator) checkContinuity(act *model.Activity, t model.Troop, e model.Entry) *Violation {
	if span := act.SpanOn(t, e.Day); e.Span != span {
		return hard(KindContinuity, e, "span %d, want %d", e.Span, span)
	}
	if d := act.DurationOn(t, e.Day); e.Duration != d {
		return hard(KindContinuity, e, "duration %.1f, want %.1f", e.Duration, d)
	}
	if e.Last() > e.Day.Slots() {
		return hard(KindContinuity, e, "runs past the last slot of %s", e.Day)
	}
	return nil
}

func (v *Validator) checkOccupancy(s schedule.View, act *model.Activity, t model.Troop, e model.Entry, slot []model.Entry) *Violation {
	key := act.AreaKey(t.Commissioner)
	session := 0
	troops, people := 1, t.People()
	tooLarge := act.ShareMaxPeople > 0 && t.People() > act.ShareMaxPeople
	for _, o := range slot {
		if o.Troop == e.Troop {
			continue
		}
		oa, ok := v.cat.Get(o.Activity)
		if !ok {
			continue
		}
		ot, _ := s.Troop(o.Troop)
		if act.IsExclusive() && oa.IsExclusive() && oa.AreaKey(ot.Commissioner) == key {
			if o.Activity != e.Activity {
				return hard(KindExclusiveArea, e, "area held by %s for %s", o.Activity, o.Troop)
			}
			if o.Day != e.Day || o.Slot != e.Slot || o.Span != e.Span {
				return hard(KindExclusiveArea, e, "session of %s is not aligned", o.Troop)
			}
			session++
			if act.ShareMaxPeople > 0 && ot.People() > act.ShareMaxPeople {
				tooLarge = true
			}
			continue
		}
		if o.Activity == e.Activity {
			troops++
			people += ot.People()
		}
	}
	if act.IsExclusive() {
		if limit := act.SessionLimit(); limit > 0 && session+1 > limit {
			return hard(KindExclusiveArea, e, "session full (%d troops)", limit)
		}
		if session > 0 && tooLarge {
			return hard(KindExclusiveArea, e, "troops too large to share (max %d people)", act.ShareMaxPeople)
		}
		return nil
	}
	if act.Category == model.CategoryCapacity && act.Capacity > 0 {
		used := troops
		if act.CapacityUnit == model.UnitPeople {
			used = people
		}
		if used > act.Capacity {
			return hard(KindCapacity, e, "%d %s exceeds capacity %d", used, unitName(act.CapacityUnit), act.Capacity)
		}
	}
	return nil
}

func (v *Validator) checkStaff(s schedule.View, act *model.Activity, e model.Entry, ts model.TimeSlot, slot []model.Entry) *Violation {
	if act.Staff == 0 && !act.BeachStaffed {
		return nil
	}
	with := append(append([]model.Entry(nil), slot...), e)
	if act.Staff > 0 && v.rules.StaffHardCap > 0 {
		if n := StaffDemand(v.cat, s, with); n > v.rules.StaffHardCap {
			return hard(KindStaffCap, e, "staff demand %d at %s exceeds cap %d", n, ts, v.rules.StaffHardCap)
		}
	}
	if act.BeachStaffed && v.rules.BeachMaxStaffed > 0 {
		if n := BeachSessions(v.cat, s, with); n > v.rules.BeachMaxStaffed {
			return hard(KindBeachCap, e, "%d staffed beach sessions at %s exceed %d", n, ts, v.rules.BeachMaxStaffed)
		}
	}
	return nil
}

func (v *Validator) checkDependencies(e model.Entry, others []model.Entry) *Violation {
	for _, dep := range v.rules.Dependencies {
		for _, o := range others {
			switch {
			case e.Activity == dep.Before && o.Activity == dep.After:
				if !e.Start().Before(o.Start()) {
					return hard(KindDependency, e, "%s must precede %s at %s", dep.Before, dep.After, o.Start())
				}
			case e.Activity == dep.After && o.Activity == dep.Before:
				if !o.Start().Before(e.Start()) {
					return hard(KindDependency, e, "%s at %s must precede %s", dep.Before, o.Start(), dep.After)
				}
			}
		}
	}
	return nil
}

func unitName(u model.Unit) string {
	if u == "" {
		return string(model.UnitTroops)
	}
	return string(u)
}
