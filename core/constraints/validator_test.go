package constraints

import (
	"testing"

	"github.com/kilianp07/troopsched/core/model"
	"github.com/kilianp07/troopsched/core/schedule"
)

var cat = model.DefaultCatalog()

func troops() []model.Troop {
	return []model.Troop{
		{Name: "Tecumseh", Commissioner: "A", Scouts: 10, Adults: 2},
		{Name: "Massasoit", Commissioner: "A", Scouts: 10, Adults: 2},
		{Name: "Samoset", Commissioner: "B", Scouts: 12, Adults: 2},
		{Name: "Cochise", Commissioner: "C", Scouts: 16, Adults: 3},
		{Name: "Pontiac", Commissioner: "C", Scouts: 8, Adults: 2},
	}
}

func entry(s *schedule.Schedule, troop, activity string, d model.Day, slot int) model.Entry {
	t, _ := s.Troop(troop)
	a, ok := cat.Get(activity)
	if !ok {
		panic("unknown activity " + activity)
	}
	return model.NewEntry(a, t, d, slot)
}

func mustAdd(t *testing.T, v *Validator, s *schedule.Schedule, e model.Entry) {
	t.Helper()
	if vi := v.CanPlace(s, e); vi != nil {
		t.Fatalf("can place %s: %s", e, vi)
	}
	if err := s.Add(e); err != nil {
		t.Fatalf("add %s: %v", e, err)
	}
}

func expectKind(t *testing.T, vi *Violation, want Kind) {
	t.Helper()
	if vi == nil {
		t.Fatalf("expected %s violation, got none", want)
	}
	if vi.Kind != want {
		t.Fatalf("expected %s got %s (%s)", want, vi.Kind, vi.Detail)
	}
	if vi.Severity != Hard {
		t.Fatalf("placement violations must be HARD")
	}
}

func TestCanPlaceDayRestriction(t *testing.T) {
	v := NewValidator(cat, DefaultRules())
	s := schedule.New(1, troops())
	expectKind(t, v.CanPlace(s, entry(s, "Tecumseh", "History Center", model.Monday, 1)), KindDayRestriction)
	expectKind(t, v.CanPlace(s, entry(s, "Tecumseh", model.Reflection, model.Thursday, 1)), KindDayRestriction)
	if vi := v.CanPlace(s, entry(s, "Tecumseh", "History Center", model.Tuesday, 1)); vi != nil {
		t.Fatalf("tuesday should be legal: %s", vi)
	}
}

func TestCanPlaceContinuity(t *testing.T) {
	v := NewValidator(cat, DefaultRules())
	s := schedule.New(1, troops())
	bad := model.Entry{Troop: "Tecumseh", Activity: model.Sailing, Day: model.Thursday, Slot: 1, Span: 2, Duration: 1.5}
	expectKind(t, v.CanPlace(s, bad), KindContinuity)

	good := entry(s, "Tecumseh", model.Sailing, model.Thursday, 1)
	if good.Duration != 2 {
		t.Fatalf("expected thursday duration 2.0 got %v", good.Duration)
	}
	if vi := v.CanPlace(s, good); vi != nil {
		t.Fatalf("unexpected violation: %s", vi)
	}
	expectKind(t, v.CanPlace(s, entry(s, "Tecumseh", model.Sailing, model.Monday, 3)), KindContinuity)
	expectKind(t, v.CanPlace(s, entry(s, "Tecumseh", "Itasca State Park", model.Thursday, 1)), KindContinuity)
}

func TestCanPlaceExclusiveArea(t *testing.T) {
	v := NewValidator(cat, DefaultRules())
	s := schedule.New(1, troops())
	mustAdd(t, v, s, entry(s, "Tecumseh", "Tie Dye", model.Monday, 1))
	expectKind(t, v.CanPlace(s, entry(s, "Samoset", "Hemp Craft", model.Monday, 1)), KindExclusiveArea)
	expectKind(t, v.CanPlace(s, entry(s, "Samoset", "Tie Dye", model.Monday, 1)), KindExclusiveArea)
	if vi := v.CanPlace(s, entry(s, "Samoset", "Hemp Craft", model.Monday, 2)); vi != nil {
		t.Fatalf("other slot should be free: %s", vi)
	}
}

func TestCanPlaceAquaTrampolineSharing(t *testing.T) {
	v := NewValidator(cat, DefaultRules())
	s := schedule.New(1, troops())
	mustAdd(t, v, s, entry(s, "Tecumseh", model.AquaTrampoline, model.Monday, 1))
	mustAdd(t, v, s, entry(s, "Massasoit", model.AquaTrampoline, model.Monday, 1))
	expectKind(t, v.CanPlace(s, entry(s, "Pontiac", model.AquaTrampoline, model.Monday, 1)), KindExclusiveArea)

	mustAdd(t, v, s, entry(s, "Pontiac", model.AquaTrampoline, model.Monday, 3))
	expectKind(t, v.CanPlace(s, entry(s, "Cochise", model.AquaTrampoline, model.Monday, 3)), KindExclusiveArea)
}

func TestCanPlaceSuperTroopPerCommissioner(t *testing.T) {
	v := NewValidator(cat, DefaultRules())
	s := schedule.New(1, troops())
	mustAdd(t, v, s, entry(s, "Tecumseh", model.SuperTroop, model.Tuesday, 1))
	if vi := v.CanPlace(s, entry(s, "Samoset", model.SuperTroop, model.Tuesday, 1)); vi != nil {
		t.Fatalf("other commissioner should be free: %s", vi)
	}
	expectKind(t, v.CanPlace(s, entry(s, "Massasoit", model.SuperTroop, model.Tuesday, 1)), KindExclusiveArea)
}

func TestCanPlaceCapacity(t *testing.T) {
	v := NewValidator(cat, DefaultRules())
	s := schedule.New(1, troops())
	mustAdd(t, v, s, entry(s, "Tecumseh", "Trading Post", model.Wednesday, 2))
	mustAdd(t, v, s, entry(s, "Samoset", "Trading Post", model.Wednesday, 2))
	expectKind(t, v.CanPlace(s, entry(s, "Pontiac", "Trading Post", model.Wednesday, 2)), KindCapacity)
}

func TestCanPlaceBeachCap(t *testing.T) {
	v := NewValidator(cat, DefaultRules())
	s := schedule.New(1, troops())
	mustAdd(t, v, s, entry(s, "Tecumseh", "Troop Canoe", model.Monday, 1))
	mustAdd(t, v, s, entry(s, "Massasoit", "Troop Kayak", model.Monday, 1))
	mustAdd(t, v, s, entry(s, "Samoset", "Greased Watermelon", model.Monday, 1))
	mustAdd(t, v, s, entry(s, "Cochise", "Troop Swim", model.Monday, 1))
	expectKind(t, v.CanPlace(s, entry(s, "Pontiac", "Water Polo", model.Monday, 1)), KindBeachCap)
}

func TestCanPlaceStaffCap(t *testing.T) {
	rules := DefaultRules()
	rules.StaffHardCap = 2
	v := NewValidator(cat, rules)
	s := schedule.New(1, troops())
	mustAdd(t, v, s, entry(s, "Tecumseh", "Tie Dye", model.Monday, 1))
	mustAdd(t, v, s, entry(s, "Samoset", "Archery", model.Monday, 1))
	expectKind(t, v.CanPlace(s, entry(s, "Pontiac", "Loon Lore", model.Monday, 1)), KindStaffCap)
	if vi := v.CanPlace(s, entry(s, "Pontiac", model.CampsiteFreeTime, model.Monday, 1)); vi != nil {
		t.Fatalf("staff free activity should fit: %s", vi)
	}
}

func TestCanPlaceDoubleBookingAndConflicts(t *testing.T) {
	v := NewValidator(cat, DefaultRules())
	s := schedule.New(1, troops())
	mustAdd(t, v, s, entry(s, "Tecumseh", "Troop Rifle", model.Monday, 1))
	expectKind(t, v.CanPlace(s, entry(s, "Tecumseh", "Tie Dye", model.Monday, 1)), KindDoubleBooking)
	expectKind(t, v.CanPlace(s, entry(s, "Tecumseh", "Troop Shotgun", model.Monday, 3)), KindConflictGroup)
	expectKind(t, v.CanPlace(s, entry(s, "Tecumseh", "Archery", model.Monday, 2)), KindConflictGroup)
	if vi := v.CanPlace(s, entry(s, "Tecumseh", "Troop Shotgun", model.Tuesday, 1)); vi != nil {
		t.Fatalf("other day should be allowed: %s", vi)
	}

	mustAdd(t, v, s, entry(s, "Samoset", "Trading Post", model.Friday, 1))
	expectKind(t, v.CanPlace(s, entry(s, "Samoset", model.CampsiteFreeTime, model.Friday, 3)), KindConflictGroup)
}

func TestCanPlaceDependencyOrder(t *testing.T) {
	v := NewValidator(cat, DefaultRules())
	s := schedule.New(1, troops())
	mustAdd(t, v, s, entry(s, "Tecumseh", model.SuperTroop, model.Tuesday, 2))
	expectKind(t, v.CanPlace(s, entry(s, "Tecumseh", model.Delta, model.Tuesday, 3)), KindDependency)
	expectKind(t, v.CanPlace(s, entry(s, "Tecumseh", model.Delta, model.Wednesday, 1)), KindDependency)
	if vi := v.CanPlace(s, entry(s, "Tecumseh", model.Delta, model.Tuesday, 1)); vi != nil {
		t.Fatalf("earlier delta should be legal: %s", vi)
	}

	other := schedule.New(1, troops())
	mustAdd(t, v, other, entry(other, "Samoset", model.Delta, model.Wednesday, 1))
	expectKind(t, v.CanPlace(other, entry(other, "Samoset", model.SuperTroop, model.Monday, 1)), KindDependency)
}

func TestValidateAllEmptySchedule(t *testing.T) {
	v := NewValidator(cat, DefaultRules())
	s := schedule.New(1, troops()[:1])
	vs := v.ValidateAll(s)
	idle, anchors := 0, 0
	for _, vi := range vs {
		switch vi.Kind {
		case KindIdleSlot:
			idle++
		case KindAnchorCount:
			anchors++
		}
	}
	if idle != model.WeekSlots {
		t.Fatalf("expected %d idle slots got %d", model.WeekSlots, idle)
	}
	if anchors != 2 {
		t.Fatalf("expected 2 anchor violations got %d", anchors)
	}
	if CountHard(vs) != idle+anchors {
		t.Fatalf("unexpected hard count %d", CountHard(vs))
	}
}

func TestValidatePlacementDetectsBypassedCommit(t *testing.T) {
	v := NewValidator(cat, DefaultRules())
	s := schedule.New(1, troops())
	_ = s.Add(entry(s, "Tecumseh", "Troop Rifle", model.Monday, 1))
	_ = s.Add(entry(s, "Tecumseh", "Troop Shotgun", model.Monday, 2))
	vs := v.ValidatePlacement(s)
	if len(vs) != 2 {
		t.Fatalf("expected both entries flagged got %v", vs)
	}
	for _, vi := range vs {
		if vi.Kind != KindConflictGroup {
			t.Fatalf("unexpected kind %s", vi.Kind)
		}
	}
}

func TestSoftViolations(t *testing.T) {
	v := NewValidator(cat, DefaultRules())
	s := schedule.New(1, troops())
	mustAdd(t, v, s, entry(s, "Tecumseh", "Troop Swim", model.Monday, 1))
	mustAdd(t, v, s, entry(s, "Tecumseh", "Tie Dye", model.Monday, 2))
	mustAdd(t, v, s, entry(s, "Tecumseh", "Troop Canoe", model.Monday, 3))
	mustAdd(t, v, s, entry(s, "Samoset", "Troop Kayak", model.Tuesday, 1))
	mustAdd(t, v, s, entry(s, "Samoset", "Climbing Tower", model.Tuesday, 2))
	mustAdd(t, v, s, entry(s, "Pontiac", "Water Polo", model.Wednesday, 2))

	kinds := map[Kind]int{}
	for _, vi := range v.SoftViolations(s) {
		if vi.Severity != Soft {
			t.Fatalf("expected soft severity for %s", vi.Kind)
		}
		kinds[vi.Kind]++
	}
	checks := []struct {
		kind Kind
		want int
	}{
		{KindWetDryWet, 1},
		{KindClusterGap, 1},
		{KindStrenuousAfterWet, 1},
		{KindBeachSlotTwo, 1},
		{KindStaffTarget, 0},
	}
	for _, c := range checks {
		if kinds[c.kind] != c.want {
			t.Errorf("%s: expected %d got %d", c.kind, c.want, kinds[c.kind])
		}
	}
}

func TestStaffDemandCountsSharedSessionOnce(t *testing.T) {
	v := NewValidator(cat, DefaultRules())
	s := schedule.New(1, troops())
	mustAdd(t, v, s, entry(s, "Tecumseh", model.AquaTrampoline, model.Monday, 1))
	mustAdd(t, v, s, entry(s, "Massasoit", model.AquaTrampoline, model.Monday, 1))
	ts := model.TimeSlot{Day: model.Monday, Slot: 1}
	if n := StaffAt(cat, s, ts); n != 2 {
		t.Fatalf("expected 2 staff got %d", n)
	}
	if n := BeachSessions(cat, s, s.SlotEntries(ts)); n != 1 {
		t.Fatalf("expected 1 beach session got %d", n)
	}
}
