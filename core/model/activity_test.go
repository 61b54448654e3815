package model

import (
	"encoding/json"
	"testing"
)

func TestSailingDurationByDay(t *testing.T) {
	cat := DefaultCatalog()
	sailing, _ := cat.Get(Sailing)
	troop := Troop{Name: "T1", Scouts: 10}
	if d := sailing.DurationOn(troop, Thursday); d != 2 {
		t.Fatalf("expected 2.0 on Thursday got %v", d)
	}
	if d := sailing.DurationOn(troop, Monday); d != 1.5 {
		t.Fatalf("expected 1.5 on Monday got %v", d)
	}
	if s := sailing.SpanOn(troop, Thursday); s != 2 {
		t.Fatalf("expected span 2 got %d", s)
	}
	if s := sailing.SpanOn(troop, Wednesday); s != 2 {
		t.Fatalf("expected span 2 got %d", s)
	}
}

func TestClimbingTowerLargeTroop(t *testing.T) {
	cat := DefaultCatalog()
	tower, _ := cat.Get("Climbing Tower")
	if s := tower.SpanOn(Troop{Scouts: 12}, Monday); s != 1 {
		t.Fatalf("small troop span got %d", s)
	}
	if s := tower.SpanOn(Troop{Scouts: 16}, Monday); s != 2 {
		t.Fatalf("large troop span got %d", s)
	}
}

func TestConflictGroups(t *testing.T) {
	cat := DefaultCatalog()
	rifle, _ := cat.Get("Troop Rifle")
	shotgun, _ := cat.Get("Troop Shotgun")
	tie, _ := cat.Get("Tie Dye")
	if !rifle.ConflictsWith(shotgun) {
		t.Fatalf("rifle and shotgun should conflict")
	}
	if rifle.ConflictsWith(rifle) {
		t.Fatalf("activity should not conflict with itself")
	}
	if rifle.ConflictsWith(tie) {
		t.Fatalf("rifle and tie dye should not conflict")
	}
}

func TestSessionLimit(t *testing.T) {
	cat := DefaultCatalog()
	checks := []struct {
		name string
		want int
	}{
		{AquaTrampoline, 2},
		{"Troop Canoe", 1},
		{Reflection, 0},
		{CampsiteFreeTime, 0},
	}
	for _, c := range checks {
		a, _ := cat.Get(c.name)
		if got := a.SessionLimit(); got != c.want {
			t.Errorf("%s: expected %d got %d", c.name, c.want, got)
		}
	}
}

func TestAllSlots(t *testing.T) {
	slots := AllSlots()
	if len(slots) != WeekSlots {
		t.Fatalf("expected %d slots got %d", WeekSlots, len(slots))
	}
	for i := 1; i < len(slots); i++ {
		if !slots[i-1].Before(slots[i]) {
			t.Fatalf("slots not ordered at %d", i)
		}
	}
}

func TestDayText(t *testing.T) {
	var d Day
	if err := json.Unmarshal([]byte(`"thu"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d != Thursday {
		t.Fatalf("expected Thursday got %v", d)
	}
	b, err := json.Marshal(Friday)
	if err != nil || string(b) != `"Friday"` {
		t.Fatalf("marshal got %s %v", b, err)
	}
	if _, err := ParseDay("Someday"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCatalogDuplicate(t *testing.T) {
	_, err := NewCatalog([]Activity{{Name: "A"}, {Name: "A"}})
	if err == nil {
		t.Fatalf("expected duplicate error")
	}
}

func TestTroopRank(t *testing.T) {
	tr := Troop{Preferences: []string{"A", "B", "C"}}
	if tr.Rank("B") != 2 || tr.Rank("Z") != 0 {
		t.Fatalf("unexpected ranks")
	}
	if len(tr.Top(5)) != 3 {
		t.Fatalf("top should clamp")
	}
}
