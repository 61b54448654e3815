package schedule

import (
	"sort"

	"github.com/kilianp07/troopsched/core/model"
)

// Overlay presents a base view with entries added or dropped, without
// touching the base. It lets callers evaluate a hypothetical state.
type Overlay struct {
	base View
	add  []model.Entry
	drop []model.Entry
}

// With returns a view of base plus e.
func With(base View, e model.Entry) *Overlay {
	return &Overlay{base: base, add: []model.Entry{e}}
}

// Without returns a view of base minus e.
func Without(base View, e model.Entry) *Overlay {
	return &Overlay{base: base, drop: []model.Entry{e}}
}

func (o *Overlay) Week() int                             { return o.base.Week() }
func (o *Overlay) Troops() []model.Troop                 { return o.base.Troops() }
func (o *Overlay) Troop(name string) (model.Troop, bool) { return o.base.Troop(name) }

func (o *Overlay) Entries() []model.Entry {
	out := o.apply(o.base.Entries(), func(model.Entry) bool { return true })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func (o *Overlay) TroopEntries(troop string) []model.Entry {
	out := o.apply(o.base.TroopEntries(troop), func(e model.Entry) bool { return e.Troop == troop })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start().Before(out[j].Start()) })
	return out
}

func (o *Overlay) SlotEntries(ts model.TimeSlot) []model.Entry {
	return o.apply(o.base.SlotEntries(ts), func(e model.Entry) bool { return e.Covers(ts) })
}

func (o *Overlay) apply(list []model.Entry, keep func(model.Entry) bool) []model.Entry {
	out := make([]model.Entry, 0, len(list)+len(o.add))
	for _, e := range list {
		if !o.dropped(e) {
			out = append(out, e)
		}
	}
	for _, e := range o.add {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func (o *Overlay) dropped(e model.Entry) bool {
	for _, d := range o.drop {
		if d == e {
			return true
		}
	}
	return false
}
