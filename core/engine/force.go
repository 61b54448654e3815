package engine

import "github.com/kilianp07/troopsched/core/model"

// ForceStrategy removes lower-priority entries from a position, places the
// demand and re-places what it displaced. Fill entries that find no new
// position are dropped and refilled later; unranked ones are dropped and
// flagged. A ranked entry that cannot be re-placed reverts the attempt.
type ForceStrategy struct {
	MaxBlockers int `json:"max_blockers"`
}

func (ForceStrategy) Name() string { return "force" }

func (s ForceStrategy) Attempt(w *Week, d Demand) bool {
	a, ok := w.e.cat.Get(d.Activity)
	if !ok || w.satisfied(d.Troop, d.Activity) {
		return ok
	}
	prio := d.Priority()
	lower := func(e model.Entry) bool { return w.priority(e) < prio }
	var best *tx
	for _, pos := range w.positions(w.troops[d.Troop], a, d.Days) {
		x, blockers := w.clear(pos, a, lower, s.MaxBlockers)
		if x == nil || len(blockers) == 0 {
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

// replace re-places displaced entries inside x. It reports false when a
// ranked entry is lost.
func (w *Week) replace(x *tx, displaced []model.Entry, cause Demand) bool {
	for _, b := range displaced {
		if x.relocate(b) {
			continue
		}
		switch p := w.priority(b); {
		case p == priorityFill:
		case p == priorityUnranked:
			x.displaced = append(x.displaced, Unresolved{
				Kind: UnresolvedDisplaced, Troop: b.Troop, Activity: b.Activity,
				Day: b.Day, Slot: b.Slot,
				Detail: "displaced by " + cause.Troop + " " + cause.Activity,
			})
		default:
			return false
		}
	}
	return true
}
