package engine

import (
	"github.com/kilianp07/troopsched/core/model"
	"github.com/kilianp07/troopsched/core/schedule"
)

// Week is the working state of one run. It owns the schedule and is only
// touched by the goroutine running the week.
type Week struct {
	e      *Engine
	runID  string
	week   int
	s      *schedule.Schedule
	troops map[string]model.Troop
	roster []model.Troop
	ledger float64
	placed int

	unresolved  []Unresolved
	escalations map[string]int
}

func (e *Engine) newWeek(runID string, week int, roster []model.Troop) *Week {
	w := &Week{
		e:           e,
		runID:       runID,
		week:        week,
		s:           schedule.New(week, roster),
		troops:      make(map[string]model.Troop, len(roster)),
		roster:      roster,
		escalations: make(map[string]int),
	}
	for _, t := range roster {
		w.troops[t.Name] = t
	}
	w.ledger = e.sc.Score(w.s).Total
	return w
}

// View exposes the current schedule read-only.
func (w *Week) View() schedule.View { return w.s }

// add validates and commits e, keeping the score ledger in step.
func (w *Week) add(e model.Entry) bool {
	if vi := w.e.v.CanPlace(w.s, e); vi != nil {
		return false
	}
	delta := w.e.sc.Delta(w.s, e)
	if err := w.s.Add(e); err != nil {
		return false
	}
	w.ledger += delta
	w.placed++
	return true
}

// place commits the best valid entry for d and reports success.
func (w *Week) place(d Demand) bool {
	if w.satisfied(d.Troop, d.Activity) {
		return true
	}
	e, _, ok := w.best(w.s, d, nil)
	if !ok {
		return false
	}
	return w.add(e)
}

// satisfied reports whether the troop already holds the activity. A
// troop holding any 3-hour block counts as holding every other one.
func (w *Week) satisfied(troop, activity string) bool {
	if w.s.Has(troop, activity) {
		return true
	}
	a, ok := w.e.cat.Get(activity)
	if !ok || !a.IsLongBlock() {
		return false
	}
	for _, e := range w.s.TroopEntries(troop) {
		if o, ok := w.e.cat.Get(e.Activity); ok && o.IsLongBlock() {
			return true
		}
	}
	return false
}

func (w *Week) flag(u Unresolved) {
	u.Week = w.week
	w.unresolved = append(w.unresolved, u)
}

// positions enumerates every in-bounds entry for the troop doing a on days,
// without validating them.
func (w *Week) positions(t model.Troop, a *model.Activity, days []model.Day) []model.Entry {
	if len(days) == 0 {
		days = model.Days
	}
	var out []model.Entry
	for _, d := range days {
		if !a.AllowedOn(d) {
			continue
		}
		span := a.SpanOn(t, d)
		for slot := 1; slot+span-1 <= d.Slots(); slot++ {
			out = append(out, model.NewEntry(a, t, d, slot))
		}
	}
	return out
}

// best returns the valid entry for d with the highest score delta on s.
// With ordered days the first day offering any valid entry is used. keep,
// when set, filters candidates further.
func (w *Week) best(s *schedule.Schedule, d Demand, keep func(model.Entry) bool) (model.Entry, float64, bool) {
	a, ok := w.e.cat.Get(d.Activity)
	if !ok {
		return model.Entry{}, 0, false
	}
	t := w.troops[d.Troop]
	groups := [][]model.Day{nil}
	if len(d.Days) > 0 {
		groups = groups[:0]
		for _, day := range d.Days {
			groups = append(groups, []model.Day{day})
		}
	}
	for _, days := range groups {
		var (
			found bool
			top   model.Entry
			gain  float64
		)
		for _, e := range w.positions(t, a, days) {
			if keep != nil && !keep(e) {
				continue
			}
			if vi := w.e.v.CanPlace(s, e); vi != nil {
				continue
			}
			g := w.e.sc.Delta(s, e)
			if !found || g > gain {
				found, top, gain = true, e, g
			}
		}
		if found {
			return top, gain, true
		}
	}
	return model.Entry{}, 0, false
}

// tx simulates a sequence of mutations on a copy of the week schedule.
// Nothing reaches the week until commit, so an abandoned tx leaves no
// trace.
type tx struct {
	w         *Week
	s         *schedule.Schedule
	gain      float64
	added     int
	displaced []Unresolved
}

func (w *Week) begin() *tx {
	return &tx{w: w, s: w.s.Clone()}
}

func (t *tx) add(e model.Entry) bool {
	if vi := t.w.e.v.CanPlace(t.s, e); vi != nil {
		return false
	}
	g := t.w.e.sc.Delta(t.s, e)
	if err := t.s.Add(e); err != nil {
		return false
	}
	t.gain += g
	t.added++
	return true
}

func (t *tx) remove(e model.Entry) bool {
	g := t.w.e.sc.DeltaRemove(t.s, e)
	if !t.s.Remove(e) {
		return false
	}
	t.gain += g
	return true
}

// relocate places e's troop and activity at the best valid position of the
// whole week.
func (t *tx) relocate(e model.Entry) bool {
	d := Demand{Troop: e.Troop, Activity: e.Activity}
	top, _, ok := t.w.best(t.s, d, nil)
	if !ok {
		return false
	}
	return t.add(top)
}

// fillAt closes ts for troop with the best fill activity.
func (t *tx) fillAt(troop string, ts model.TimeSlot) bool {
	e, ok := t.w.bestFill(t.s, troop, ts)
	if !ok {
		return false
	}
	return t.add(e)
}

func (t *tx) commit() {
	t.w.s = t.s
	t.w.ledger += t.gain
	t.w.placed += t.added
	for _, u := range t.displaced {
		t.w.flag(u)
	}
}

// bestFill returns the best valid fill entry starting at ts. Activities of
// the fill category may repeat; other fill activities are given once.
func (w *Week) bestFill(s *schedule.Schedule, troop string, ts model.TimeSlot) (model.Entry, bool) {
	t := w.troops[troop]
	var (
		found bool
		top   model.Entry
		gain  float64
	)
	for _, name := range w.e.cfg.FillOrder {
		a, ok := w.e.cat.Get(name)
		if !ok || !a.AllowedOn(ts.Day) {
			continue
		}
		if a.Category != model.CategoryFill && s.Has(troop, name) {
			continue
		}
		e := model.NewEntry(a, t, ts.Day, ts.Slot)
		if vi := w.e.v.CanPlace(s, e); vi != nil {
			continue
		}
		g := w.e.sc.Delta(s, e)
		if !found || g > gain {
			found, top, gain = true, e, g
		}
	}
	return top, found
}
