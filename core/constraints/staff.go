package constraints

import (
	"github.com/kilianp07/troopsched/core/model"
	"github.com/kilianp07/troopsched/core/schedule"
)

// Session is one running instance of an activity, possibly shared by
// several troops.
type Session struct {
	Activity *model.Activity
	Start    model.TimeSlot
	Troops   []string
}

// Sessions groups the entries holding one slot into running sessions.
// Troops beyond an activity's session limit open further sessions.
func Sessions(cat *model.Catalog, s schedule.View, entries []model.Entry) []Session {
	type key struct {
		area  string
		act   string
		start model.TimeSlot
	}
	idx := make(map[key]int)
	var out []Session
	for _, e := range entries {
		a, ok := cat.Get(e.Activity)
		if !ok {
			continue
		}
		t, _ := s.Troop(e.Troop)
		k := key{area: a.AreaKey(t.Commissioner), act: a.Name, start: e.Start()}
		i, ok := idx[k]
		if ok {
			if limit := a.SessionLimit(); limit == 0 || len(out[i].Troops) < limit {
				out[i].Troops = append(out[i].Troops, e.Troop)
				continue
			}
		}
		idx[k] = len(out)
		out = append(out, Session{Activity: a, Start: e.Start(), Troops: []string{e.Troop}})
	}
	return out
}

// StaffDemand sums the staff needed by the sessions formed by entries.
func StaffDemand(cat *model.Catalog, s schedule.View, entries []model.Entry) int {
	n := 0
	for _, sess := range Sessions(cat, s, entries) {
		n += sess.Activity.Staff
	}
	return n
}

// BeachSessions counts sessions of beach-staffed activities.
func BeachSessions(cat *model.Catalog, s schedule.View, entries []model.Entry) int {
	n := 0
	for _, sess := range Sessions(cat, s, entries) {
		if sess.Activity.BeachStaffed {
			n++
		}
	}
	return n
}

// StaffAt returns the staff demand of the slot.
func StaffAt(cat *model.Catalog, s schedule.View, ts model.TimeSlot) int {
	return StaffDemand(cat, s, s.SlotEntries(ts))
}
