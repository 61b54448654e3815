package schedule

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kilianp07/troopsched/core/model"
)

var (
	// ErrFrozen is returned when mutating a completed schedule.
	ErrFrozen = errors.New("schedule is frozen")
	// ErrUnknownTroop is returned for entries of troops outside the roster.
	ErrUnknownTroop = errors.New("unknown troop")
	// ErrOutOfBounds is returned for entries outside the day grid.
	ErrOutOfBounds = errors.New("entry outside day grid")
	// ErrOccupied is returned when the troop already holds one of the slots.
	ErrOccupied = errors.New("troop slot occupied")
)

// View is read access to schedule state.
type View interface {
	Week() int
	Troops() []model.Troop
	Troop(name string) (model.Troop, bool)
	Entries() []model.Entry
	// TroopEntries returns the troop entries in timeline order.
	TroopEntries(troop string) []model.Entry
	// SlotEntries returns the entries holding ts.
	SlotEntries(ts model.TimeSlot) []model.Entry
}

// Schedule is the single owner of the entries of one camp week. It keeps a
// per-slot and a per-troop index in sync on every mutation. A Schedule is not
// safe for concurrent mutation.
type Schedule struct {
	week    int
	troops  []model.Troop
	byName  map[string]int
	bySlot  map[model.TimeSlot][]model.Entry
	byTroop map[string][]model.Entry
	count   int
	frozen  bool
}

// New creates an empty schedule for the roster.
func New(week int, troops []model.Troop) *Schedule {
	s := &Schedule{
		week:    week,
		troops:  append([]model.Troop(nil), troops...),
		byName:  make(map[string]int, len(troops)),
		bySlot:  make(map[model.TimeSlot][]model.Entry),
		byTroop: make(map[string][]model.Entry, len(troops)),
	}
	for i, t := range s.troops {
		s.byName[t.Name] = i
	}
	return s
}

func (s *Schedule) Week() int { return s.week }

func (s *Schedule) Troops() []model.Troop { return s.troops }

func (s *Schedule) Troop(name string) (model.Troop, bool) {
	i, ok := s.byName[name]
	if !ok {
		return model.Troop{}, false
	}
	return s.troops[i], true
}

// Len returns the number of entries.
func (s *Schedule) Len() int { return s.count }

// Entries returns all entries ordered by troop then timeline.
func (s *Schedule) Entries() []model.Entry {
	out := make([]model.Entry, 0, s.count)
	for _, t := range s.troops {
		out = append(out, s.byTroop[t.Name]...)
	}
	return out
}

func (s *Schedule) TroopEntries(troop string) []model.Entry {
	return append([]model.Entry(nil), s.byTroop[troop]...)
}

func (s *Schedule) SlotEntries(ts model.TimeSlot) []model.Entry {
	return append([]model.Entry(nil), s.bySlot[ts]...)
}

// EntryAt returns the troop entry holding ts.
func (s *Schedule) EntryAt(troop string, ts model.TimeSlot) (model.Entry, bool) {
	for _, e := range s.byTroop[troop] {
		if e.Covers(ts) {
			return e, true
		}
	}
	return model.Entry{}, false
}

// FreeSlots lists the slots of the troop that no entry holds.
func (s *Schedule) FreeSlots(troop string) []model.TimeSlot {
	var out []model.TimeSlot
	for _, ts := range model.AllSlots() {
		if _, ok := s.EntryAt(troop, ts); !ok {
			out = append(out, ts)
		}
	}
	return out
}

// Has reports whether the troop holds an entry of the activity.
func (s *Schedule) Has(troop, activity string) bool {
	for _, e := range s.byTroop[troop] {
		if e.Activity == activity {
			return true
		}
	}
	return false
}

// Add inserts e and updates both indexes. It only guards the structural
// properties of the aggregate; placement rules belong to the validator.
func (s *Schedule) Add(e model.Entry) error {
	if s.frozen {
		return ErrFrozen
	}
	if _, ok := s.byName[e.Troop]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTroop, e.Troop)
	}
	if !e.Day.Valid() || e.Span < 1 || e.Slot < 1 || e.Last() > e.Day.Slots() {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, e)
	}
	for _, o := range s.byTroop[e.Troop] {
		if o.Overlaps(e) {
			return fmt.Errorf("%w: %s overlaps %s", ErrOccupied, e, o)
		}
	}
	list := append(s.byTroop[e.Troop], e)
	sort.Slice(list, func(i, j int) bool { return list[i].Start().Before(list[j].Start()) })
	s.byTroop[e.Troop] = list
	for _, ts := range e.Slots() {
		s.bySlot[ts] = append(s.bySlot[ts], e)
	}
	s.count++
	return nil
}

// Remove deletes e from both indexes and reports whether it was present.
func (s *Schedule) Remove(e model.Entry) bool {
	if s.frozen {
		return false
	}
	list := s.byTroop[e.Troop]
	idx := -1
	for i, o := range list {
		if o == e {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	s.byTroop[e.Troop] = append(list[:idx:idx], list[idx+1:]...)
	for _, ts := range e.Slots() {
		s.bySlot[ts] = without(s.bySlot[ts], e)
		if len(s.bySlot[ts]) == 0 {
			delete(s.bySlot, ts)
		}
	}
	s.count--
	return true
}

// Freeze marks the schedule read-only.
func (s *Schedule) Freeze() { s.frozen = true }

// Frozen reports whether the schedule is read-only.
func (s *Schedule) Frozen() bool { return s.frozen }

// Clone returns an unfrozen deep copy used for simulation.
func (s *Schedule) Clone() *Schedule {
	c := New(s.week, s.troops)
	for t, list := range s.byTroop {
		c.byTroop[t] = append([]model.Entry(nil), list...)
	}
	for ts, list := range s.bySlot {
		c.bySlot[ts] = append([]model.Entry(nil), list...)
	}
	c.count = s.count
	return c
}

func without(list []model.Entry, e model.Entry) []model.Entry {
	out := list[:0:0]
	for _, o := range list {
		if o != e {
			out = append(out, o)
		}
	}
	return out
}
