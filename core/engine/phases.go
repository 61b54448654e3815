package engine

import (
	"sort"
	"time"

	"github.com/kilianp07/troopsched/core/constraints"
	"github.com/kilianp07/troopsched/core/events"
	"github.com/kilianp07/troopsched/core/model"
)

// Phase names, in execution order.
const (
	PhaseFoundation = "foundation"
	PhaseCore       = "core_requests"
	PhaseOptimize   = "optimization"
	PhaseCleanup    = "cleanup"
)

func (w *Week) runPhase(name string, fn func()) {
	start := time.Now()
	before := w.placed
	w.e.publish(events.PhaseEvent{Run: w.runID, Week: w.week, Phase: name})
	fn()
	n := w.placed - before
	placementsTotal.WithLabelValues(name).Add(float64(n))
	w.e.publish(events.PhaseEvent{
		Run: w.runID, Week: w.week, Phase: name, Done: true,
		Placed: n, Duration: time.Since(start),
	})
	w.e.log.Infof("week %d: phase %s placed %d entries", w.week, name, n)
}

// foundation places the items with the least freedom first: Friday
// Reflection, Super Troop on the rotation day, single-day activities,
// Thursday Sailing and 3-hour blocks.
func (w *Week) foundation() {
	for _, t := range w.roster {
		d := Demand{Troop: t.Name, Activity: model.Reflection, Days: []model.Day{model.Friday}, Kind: DemandAnchor}
		if !w.place(d) {
			w.escalate(d, len(w.e.chain))
		}
	}

	for _, t := range w.roster {
		d := Demand{
			Troop: t.Name, Activity: model.SuperTroop, Kind: DemandAnchor,
			Days: w.e.rot.CandidateDays(model.SuperTroop, t.Commissioner, w.week),
		}
		if w.satisfied(t.Name, d.Activity) {
			continue
		}
		if e, _, ok := w.best(w.s, d, w.leavesRoomBefore); ok && w.add(e) {
			continue
		}
		if !w.place(d) {
			w.escalate(d, len(w.e.chain))
		}
	}

	for _, r := range w.rankedWhere(w.e.cfg.TopExtended, func(a *model.Activity) bool {
		return len(a.Days) == 1 && !w.e.anchors[a.Name]
	}) {
		d := w.demand(w.troops[r.troop], r.activity, r.rank)
		d.Days = append([]model.Day(nil), w.mustActivity(r.activity).Days...)
		w.place(d)
	}

	for _, r := range w.rankedWhere(w.e.cfg.TopExtended, func(a *model.Activity) bool {
		return a.Name == model.Sailing
	}) {
		d := w.demand(w.troops[r.troop], r.activity, r.rank)
		d.Days = []model.Day{model.Thursday}
		w.place(d)
	}

	for _, r := range w.rankedWhere(w.e.cfg.TopExtended, func(a *model.Activity) bool {
		return a.IsLongBlock()
	}) {
		w.place(w.demand(w.troops[r.troop], r.activity, r.rank))
	}
}

// coreRequests runs round-robin over preference ranks so every troop gets
// its first choice before anyone gets a second one.
func (w *Week) coreRequests() {
	for rank := 1; rank <= w.e.cfg.TopCore; rank++ {
		for _, t := range w.roster {
			if rank > len(t.Preferences) {
				continue
			}
			d := w.demand(t, t.Preferences[rank-1], rank)
			if w.unknown(d) || w.place(d) {
				continue
			}
			w.escalate(d, len(w.e.chain))
		}
	}
	for rank := w.e.cfg.TopCore + 1; rank <= w.e.cfg.TopExtended; rank++ {
		for _, t := range w.roster {
			if rank > len(t.Preferences) {
				continue
			}
			d := w.demand(t, t.Preferences[rank-1], rank)
			if w.unknown(d) || w.place(d) {
				continue
			}
			if w.satisfiedCount(t, w.e.cfg.TopExtended) < w.e.cfg.MinExtended && len(w.e.chain) > 0 {
				w.escalate(d, 1)
			}
		}
	}
}

// optimize merges lone shareable sessions, places the remaining ranked
// preferences, closes cluster gaps and fills open slots.
func (w *Week) optimize() {
	w.mergeShared()
	longest := 0
	for _, t := range w.roster {
		if len(t.Preferences) > longest {
			longest = len(t.Preferences)
		}
	}
	for rank := w.e.cfg.TopExtended + 1; rank <= longest; rank++ {
		for _, t := range w.roster {
			if rank > len(t.Preferences) {
				continue
			}
			d := w.demand(t, t.Preferences[rank-1], rank)
			if !w.unknown(d) {
				w.place(d)
			}
		}
	}
	w.closeClusterGaps()
	w.fillOpen()
}

// cleanup retries filling, repairs the slots fill could not close and flags
// whatever remains.
func (w *Week) cleanup() {
	w.fillOpen()
	for _, t := range w.roster {
		for _, ts := range w.s.FreeSlots(t.Name) {
			if _, held := w.s.EntryAt(t.Name, ts); held {
				continue
			}
			if w.repair(t.Name, ts) {
				continue
			}
			w.flag(Unresolved{Kind: UnresolvedIdle, Troop: t.Name, Day: ts.Day, Slot: ts.Slot, Detail: "no activity fits"})
		}
	}
	for _, t := range w.roster {
		for _, a := range w.e.v.Rules().Anchors {
			if w.anchorCount(t.Name, a) != 1 && !w.flagged(t.Name, a.Activity) {
				w.flag(Unresolved{Kind: UnresolvedAnchor, Troop: t.Name, Activity: a.Activity, Detail: "anchor missing"})
			}
		}
	}
}

func (w *Week) fillOpen() {
	for _, t := range w.roster {
		for _, ts := range w.s.FreeSlots(t.Name) {
			if e, ok := w.bestFill(w.s, t.Name, ts); ok {
				w.add(e)
			}
		}
	}
}

// mergeShared moves lone sessions of shareable activities together when
// the move improves the score.
func (w *Week) mergeShared() {
	for _, a := range w.e.cat.All() {
		if !a.Shareable() {
			continue
		}
		for {
			if !w.mergeOnce(a) {
				break
			}
		}
	}
}

func (w *Week) mergeOnce(a *model.Activity) bool {
	var entries []model.Entry
	for _, e := range w.s.Entries() {
		if e.Activity == a.Name {
			entries = append(entries, e)
		}
	}
	var solo []model.Entry
	for _, sess := range constraints.Sessions(w.e.cat, w.s, entries) {
		if len(sess.Troops) != 1 {
			continue
		}
		for _, e := range entries {
			if e.Troop == sess.Troops[0] && e.Start() == sess.Start {
				solo = append(solo, e)
			}
		}
	}
	var (
		bestTx *tx
		gain   float64
	)
	for i := range solo {
		for j := range solo {
			if i == j || solo[i].Troop == solo[j].Troop {
				continue
			}
			if t := w.moveInto(solo[j], solo[i].Start()); t != nil && t.gain > 0 && (bestTx == nil || t.gain > gain) {
				bestTx, gain = t, t.gain
			}
		}
	}
	if bestTx == nil {
		return false
	}
	bestTx.commit()
	return true
}

// moveInto simulates moving e to start at ts. An entry of the troop already
// at ts is exchanged into e's old position.
func (w *Week) moveInto(e model.Entry, ts model.TimeSlot) *tx {
	a := w.mustActivity(e.Activity)
	t := w.troops[e.Troop]
	moved := e.At(a, t, ts.Day, ts.Slot)
	if moved.Span != e.Span {
		return nil
	}
	var other []model.Entry
	for _, o := range w.s.TroopEntries(e.Troop) {
		if o != e && o.Overlaps(moved) {
			other = append(other, o)
		}
	}
	if len(other) > 1 || (len(other) == 1 && (other[0].Span != e.Span || w.priority(other[0]) == priorityAnchor)) {
		return nil
	}
	x := w.begin()
	if !x.remove(e) {
		return nil
	}
	for _, o := range other {
		if !x.remove(o) {
			return nil
		}
	}
	if !x.add(moved) {
		return nil
	}
	for _, o := range other {
		oa := w.mustActivity(o.Activity)
		if !x.add(o.At(oa, t, e.Day, e.Slot)) {
			return nil
		}
	}
	return x
}

// closeClusterGaps reorders troop days whose first and last slot share a
// cluster with something else in the middle.
func (w *Week) closeClusterGaps() {
	for _, t := range w.roster {
		for _, d := range model.Days {
			day := constraints.OnDay(w.s.TroopEntries(t.Name), d)
			if len(day) != 3 || !w.hasClusterGap(day) {
				continue
			}
			var (
				bestTx *tx
				gain   float64
			)
			for _, pair := range [][2]model.Entry{{day[1], day[2]}, {day[0], day[1]}} {
				if w.priority(pair[0]) == priorityAnchor || w.priority(pair[1]) == priorityAnchor {
					continue
				}
				if x := w.moveInto(pair[0], pair[1].Start()); x != nil && x.gain > 0 && (bestTx == nil || x.gain > gain) {
					bestTx, gain = x, x.gain
				}
			}
			if bestTx != nil {
				bestTx.commit()
			}
		}
	}
}

func (w *Week) hasClusterGap(day []model.Entry) bool {
	for _, vi := range w.e.v.TroopDaySoft(day) {
		if vi.Kind == constraints.KindClusterGap {
			return true
		}
	}
	return false
}

// repair closes ts for troop by moving one of its own entries into ts and
// filling the slot it leaves, or by exchanging a same-day conflicting entry
// with one on another day so a fill activity fits.
func (w *Week) repair(troop string, ts model.TimeSlot) bool {
	for _, o := range w.s.TroopEntries(troop) {
		if o.Span != 1 || w.priority(o) == priorityAnchor {
			continue
		}
		x := w.begin()
		oa := w.mustActivity(o.Activity)
		if x.remove(o) && x.add(o.At(oa, w.troops[troop], ts.Day, ts.Slot)) && x.fillAt(troop, o.Start()) {
			x.commit()
			return true
		}
	}
	for _, c := range constraints.OnDay(w.s.TroopEntries(troop), ts.Day) {
		if c.Span != 1 || w.priority(c) == priorityAnchor {
			continue
		}
		for _, y := range w.s.TroopEntries(troop) {
			if y.Day == ts.Day || y.Span != 1 || w.priority(y) == priorityAnchor {
				continue
			}
			x := w.moveInto(c, y.Start())
			if x != nil && x.fillAt(troop, ts) {
				x.commit()
				return true
			}
		}
	}
	return false
}

type rankedPref struct {
	troop    string
	activity string
	rank     int
}

// rankedWhere lists preferences ranked within limit whose activity matches,
// ordered by rank then roster order.
func (w *Week) rankedWhere(limit int, match func(*model.Activity) bool) []rankedPref {
	var out []rankedPref
	for _, t := range w.roster {
		for i, p := range t.Top(limit) {
			if a, ok := w.e.cat.Get(p); ok && match(a) {
				out = append(out, rankedPref{troop: t.Name, activity: p, rank: i + 1})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].rank < out[j].rank })
	return out
}

// leavesRoomBefore rejects entries that start at the first slot of the week
// while the troop still wants an activity that must precede them.
func (w *Week) leavesRoomBefore(e model.Entry) bool {
	first := model.TimeSlot{Day: model.Monday, Slot: 1}
	if e.Start() != first {
		return true
	}
	t := w.troops[e.Troop]
	for _, dep := range w.e.v.Rules().Dependencies {
		if dep.After == e.Activity && t.Rank(dep.Before) > 0 && !w.s.Has(e.Troop, dep.Before) {
			return false
		}
	}
	return true
}

func (w *Week) unknown(d Demand) bool {
	if _, ok := w.e.cat.Get(d.Activity); ok {
		return false
	}
	w.flag(Unresolved{Kind: UnresolvedUnknown, Troop: d.Troop, Activity: d.Activity, Rank: d.Rank, Detail: "activity not in catalog"})
	return true
}

func (w *Week) satisfiedCount(t model.Troop, limit int) int {
	n := 0
	for _, p := range t.Top(limit) {
		if w.satisfied(t.Name, p) {
			n++
		}
	}
	return n
}

func (w *Week) anchorCount(troop string, a constraints.Anchor) int {
	n := 0
	for _, e := range w.s.TroopEntries(troop) {
		if e.Activity == a.Activity && (a.Day == 0 || e.Day == a.Day) {
			n++
		}
	}
	return n
}

func (w *Week) flagged(troop, activity string) bool {
	for _, u := range w.unresolved {
		if u.Troop == troop && u.Activity == activity {
			return true
		}
	}
	return false
}

func (w *Week) mustActivity(name string) *model.Activity {
	a, ok := w.e.cat.Get(name)
	if !ok {
		panic("engine: activity vanished from catalog: " + name)
	}
	return a
}
