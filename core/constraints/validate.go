package constraints

import (
	"fmt"

	"github.com/kilianp07/troopsched/core/model"
	"github.com/kilianp07/troopsched/core/schedule"
)

// ValidateAll re-checks every invariant on s regardless of insertion order.
// HARD placement violations come first, then completeness, then SOFT ones.
func (v *Validator) ValidateAll(s schedule.View) []Violation {
	out := v.ValidatePlacement(s)
	out = append(out, v.validateCompleteness(s)...)
	return append(out, v.SoftViolations(s)...)
}

// ValidatePlacement reports every entry that could not be placed given all
// the other entries of s. It ignores completeness and soft rules, so it
// also applies to partial schedules.
func (v *Validator) ValidatePlacement(s schedule.View) []Violation {
	var out []Violation
	for _, e := range s.Entries() {
		if vi := v.CanPlace(schedule.Without(s, e), e); vi != nil {
			out = append(out, *vi)
		}
	}
	return out
}

func (v *Validator) validateCompleteness(s schedule.View) []Violation {
	var out []Violation
	for _, t := range s.Troops() {
		entries := s.TroopEntries(t.Name)
		held := make(map[model.TimeSlot]bool, model.WeekSlots)
		for _, e := range entries {
			for _, ts := range e.Slots() {
				held[ts] = true
			}
		}
		for _, ts := range model.AllSlots() {
			if !held[ts] {
				out = append(out, Violation{
					Kind: KindIdleSlot, Severity: Hard, Troop: t.Name,
					Day: ts.Day, Slot: ts.Slot, Detail: "slot left empty",
				})
			}
		}
		for _, a := range v.rules.Anchors {
			n := 0
			for _, e := range entries {
				if e.Activity == a.Activity && (a.Day == 0 || e.Day == a.Day) {
					n++
				}
			}
			if n != 1 {
				detail := fmt.Sprintf("%d entries, want exactly 1", n)
				if a.Day != 0 {
					detail = fmt.Sprintf("%d entries on %s, want exactly 1", n, a.Day)
				}
				out = append(out, Violation{
					Kind: KindAnchorCount, Severity: Hard, Troop: t.Name,
					Activity: a.Activity, Detail: detail,
				})
			}
		}
	}
	return out
}

// SoftViolations lists quality issues that never block placement.
func (v *Validator) SoftViolations(s schedule.View) []Violation {
	var out []Violation
	for _, t := range s.Troops() {
		entries := s.TroopEntries(t.Name)
		for _, d := range model.Days {
			out = append(out, v.TroopDaySoft(OnDay(entries, d))...)
		}
	}
	for _, ts := range model.AllSlots() {
		out = append(out, v.SlotSoft(s, ts)...)
	}
	return out
}

// TroopDaySoft evaluates the soft rules of one troop day. entries must
// belong to a single troop and day, in slot order.
func (v *Validator) TroopDaySoft(entries []model.Entry) []Violation {
	var out []Violation
	acts := make([]*model.Activity, len(entries))
	for i, e := range entries {
		acts[i], _ = v.cat.Get(e.Activity)
	}
	adjacent := func(i int) bool {
		return acts[i-1] != nil && acts[i] != nil && entries[i].Slot == entries[i-1].Last()+1
	}
	for i := range entries {
		e, a := entries[i], acts[i]
		if a == nil {
			continue
		}
		if a.BeachStaffed && e.Span == 1 && e.Slot == 2 && e.Day != model.Thursday {
			out = append(out, soft(KindBeachSlotTwo, e, "staffed beach activity in the middle slot"))
		}
		if i >= 1 && adjacent(i) && acts[i-1].Wet && a.Strenuous {
			out = append(out, soft(KindStrenuousAfterWet, e, "follows wet %s", entries[i-1].Activity))
		}
		if i >= 2 && adjacent(i) && adjacent(i-1) && acts[i-2].Wet && !acts[i-1].Wet && a.Wet {
			out = append(out, soft(KindWetDryWet, entries[i-1], "dry between %s and %s", entries[i-2].Activity, e.Activity))
		}
	}
	if gap := v.clusterGap(entries, acts); gap != nil {
		out = append(out, *gap)
	}
	return out
}

func (v *Validator) clusterGap(entries []model.Entry, acts []*model.Activity) *Violation {
	if len(entries) != 3 {
		return nil
	}
	for i := range entries {
		if acts[i] == nil || entries[i].Span != 1 {
			return nil
		}
	}
	c := acts[0].Cluster
	if c == "" || acts[2].Cluster != c || acts[1].Cluster == c {
		return nil
	}
	vi := soft(KindClusterGap, entries[1], "breaks %s cluster", c)
	return &vi
}

// SlotSoft reports staff demand above the soft target for ts.
func (v *Validator) SlotSoft(s schedule.View, ts model.TimeSlot) []Violation {
	if v.rules.StaffTarget <= 0 {
		return nil
	}
	n := StaffAt(v.cat, s, ts)
	if n <= v.rules.StaffTarget {
		return nil
	}
	return []Violation{{
		Kind: KindStaffTarget, Severity: Soft, Day: ts.Day, Slot: ts.Slot,
		Detail: fmt.Sprintf("staff demand %d above target %d", n, v.rules.StaffTarget),
	}}
}

// StaffExcess returns how far the staff demand of ts exceeds the target.
func (v *Validator) StaffExcess(s schedule.View, ts model.TimeSlot) int {
	if v.rules.StaffTarget <= 0 {
		return 0
	}
	if n := StaffAt(v.cat, s, ts) - v.rules.StaffTarget; n > 0 {
		return n
	}
	return 0
}

func soft(k Kind, e model.Entry, format string, args ...any) Violation {
	return Violation{
		Kind: k, Severity: Soft, Troop: e.Troop, Activity: e.Activity,
		Day: e.Day, Slot: e.Slot, Detail: fmt.Sprintf(format, args...),
	}
}

// OnDay filters troop entries to one day preserving order.
func OnDay(entries []model.Entry, d model.Day) []model.Entry {
	var out []model.Entry
	for _, e := range entries {
		if e.Day == d {
			out = append(out, e)
		}
	}
	return out
}
