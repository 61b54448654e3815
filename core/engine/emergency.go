package engine

import "github.com/kilianp07/troopsched/core/model"

// EmergencyStrategy searches the whole week, ignoring the demand's day
// preferences, and accepts soft degradation. As a last step it may drop
// the troop's own fill and unranked entries to make room.
type EmergencyStrategy struct {
	DropUnranked bool `json:"drop_unranked"`
}

func (EmergencyStrategy) Name() string { return "emergency" }

func (s EmergencyStrategy) Attempt(w *Week, d Demand) bool {
	a, ok := w.e.cat.Get(d.Activity)
	if !ok || w.satisfied(d.Troop, d.Activity) {
		return ok
	}
	anyDay := d
	anyDay.Days = nil
	if e, _, ok := w.best(w.s, anyDay, nil); ok && w.add(e) {
		return true
	}
	limit := priorityFill
	if s.DropUnranked {
		limit = priorityUnranked
	}
	own := func(e model.Entry) bool { return e.Troop == d.Troop && w.priority(e) <= limit }
	var best *tx
	for _, pos := range w.positions(w.troops[d.Troop], a, nil) {
		x, blockers := w.clear(pos, a, own, model.WeekSlots)
		if x == nil {
			continue
		}
		if !w.replace(x, blockers, d) {
			continue
		}
		if best == nil || x.gain > best.gain {
			best = x
		}
	}
	if best == nil {
		return false
	}
	best.commit()
	return true
}
