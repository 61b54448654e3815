package engine

import (
	"testing"

	"github.com/kilianp07/troopsched/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// weekFor builds a week with resolved commissioner groups.
func weekFor(t *testing.T, e *Engine, troops ...model.Troop) *Week {
	t.Helper()
	roster, err := e.resolveGroups(troops)
	require.NoError(t, err)
	return e.newWeek("test-run", 1, roster)
}

func mustAdd(t *testing.T, w *Week, troop, activity string, d model.Day, slot int) model.Entry {
	t.Helper()
	a := w.mustActivity(activity)
	en := model.NewEntry(a, w.troops[troop], d, slot)
	require.Truef(t, w.add(en), "add %s", en)
	return en
}

func assertSound(t *testing.T, w *Week) {
	t.Helper()
	assert.Empty(t, w.e.v.ValidatePlacement(w.s))
	assert.InDelta(t, w.e.sc.Score(w.s).Total, w.ledger, 1e-6)
}

// sailingBlocked holds the sailing area on every weekday but Thursday.
func sailingBlocked(t *testing.T, e *Engine) *Week {
	w := weekFor(t, e,
		model.Troop{Name: "Tecumseh", Scouts: 9, Adults: 2, Preferences: []string{model.Sailing}},
		model.Troop{Name: "Samoset", Scouts: 9, Adults: 2},
		model.Troop{Name: "Cochise", Scouts: 9, Adults: 2},
		model.Troop{Name: "Pontiac", Scouts: 9, Adults: 2},
		model.Troop{Name: "Joseph", Scouts: 9, Adults: 2},
	)
	for i, troop := range []string{"Samoset", "Cochise", "Pontiac", "Joseph"} {
		day := []model.Day{model.Monday, model.Tuesday, model.Wednesday, model.Friday}[i]
		mustAdd(t, w, troop, model.Sailing, day, 2)
		mustAdd(t, w, troop, model.CampsiteFreeTime, model.Thursday, 1)
		mustAdd(t, w, troop, model.CampsiteFreeTime, model.Thursday, 2)
	}
	return w
}

func TestSailingTakesThursdayWhenOnlyOpening(t *testing.T) {
	w := sailingBlocked(t, newEngine(t))
	d := w.demand(w.troops["Tecumseh"], model.Sailing, 1)
	require.True(t, w.place(d))

	got := w.s.TroopEntries("Tecumseh")
	require.Len(t, got, 1)
	assert.Equal(t, model.Thursday, got[0].Day)
	assert.Equal(t, 2, got[0].Span)
	assert.Equal(t, 2.0, got[0].Duration)
	assertSound(t, w)
}

func TestSwapRelocatesBlockerForThursdaySailing(t *testing.T) {
	w := sailingBlocked(t, newEngine(t))
	gaga := mustAdd(t, w, "Tecumseh", "Gaga Ball", model.Thursday, 1)
	d := w.demand(w.troops["Tecumseh"], model.Sailing, 1)
	require.False(t, w.place(d))

	require.True(t, SwapStrategy{MaxBlockers: 2}.Attempt(w, d))
	sailing, ok := w.s.EntryAt("Tecumseh", model.TimeSlot{Day: model.Thursday, Slot: 1})
	require.True(t, ok)
	assert.Equal(t, model.Sailing, sailing.Activity)
	assert.Equal(t, 2.0, sailing.Duration)
	assert.True(t, w.s.Has("Tecumseh", "Gaga Ball"), "blocker relocated")
	assert.False(t, containsEntry(w.s.TroopEntries("Tecumseh"), gaga))
	assertSound(t, w)
}

func TestSwapLeavesWeekUntouchedOnFailure(t *testing.T) {
	e := newEngine(t)
	w := weekFor(t, e, model.Troop{Name: "Tecumseh", Scouts: 9, Adults: 2, Preferences: []string{"Tie Dye"}})
	for _, ts := range model.AllSlots() {
		mustAdd(t, w, "Tecumseh", model.CampsiteFreeTime, ts.Day, ts.Slot)
	}
	before := w.s.Entries()
	ledger := w.ledger
	d := w.demand(w.troops["Tecumseh"], "Tie Dye", 1)
	assert.False(t, SwapStrategy{MaxBlockers: 2}.Attempt(w, d))
	assert.Equal(t, before, w.s.Entries())
	assert.Equal(t, ledger, w.ledger)
}

func TestForceDropsFillForRankedPreference(t *testing.T) {
	e := newEngine(t)
	w := weekFor(t, e, model.Troop{Name: "Tecumseh", Scouts: 9, Adults: 2, Preferences: []string{"Tie Dye"}})
	for _, ts := range model.AllSlots() {
		mustAdd(t, w, "Tecumseh", model.CampsiteFreeTime, ts.Day, ts.Slot)
	}
	d := w.demand(w.troops["Tecumseh"], "Tie Dye", 1)
	require.True(t, ForceStrategy{MaxBlockers: 2}.Attempt(w, d))
	assert.True(t, w.s.Has("Tecumseh", "Tie Dye"))
	assert.Equal(t, model.WeekSlots, w.s.Len())
	assert.Empty(t, w.unresolved, "dropped fill is not flagged")
	assertSound(t, w)
}

func TestForceNeverDisplacesHigherRank(t *testing.T) {
	e := newEngine(t)
	w := weekFor(t, e, model.Troop{Name: "Tecumseh", Scouts: 9, Adults: 2, Preferences: []string{"Tie Dye", "Loon Lore"}})
	for _, ts := range model.AllSlots() {
		mustAdd(t, w, "Tecumseh", "Tie Dye", ts.Day, ts.Slot)
	}
	d := w.demand(w.troops["Tecumseh"], "Loon Lore", 2)
	assert.False(t, ForceStrategy{MaxBlockers: 2}.Attempt(w, d))
	assert.False(t, w.s.Has("Tecumseh", "Loon Lore"))
}

func TestEmergencyDropsUnrankedAndFlagsIt(t *testing.T) {
	e := newEngine(t)
	w := weekFor(t, e, model.Troop{Name: "Tecumseh", Scouts: 9, Adults: 2, Preferences: []string{"Tie Dye"}})
	for _, ts := range model.AllSlots() {
		mustAdd(t, w, "Tecumseh", "Shower House", ts.Day, ts.Slot)
	}
	d := w.demand(w.troops["Tecumseh"], "Tie Dye", 1)
	assert.False(t, EmergencyStrategy{DropUnranked: false}.Attempt(w, d))

	require.True(t, EmergencyStrategy{DropUnranked: true}.Attempt(w, d))
	assert.True(t, w.s.Has("Tecumseh", "Tie Dye"))
	require.Len(t, w.unresolved, 1)
	assert.Equal(t, UnresolvedDisplaced, w.unresolved[0].Kind)
	assert.Equal(t, "Shower House", w.unresolved[0].Activity)
	assertSound(t, w)
}

func TestEscalateRecordsUnsatisfiable(t *testing.T) {
	e := newEngine(t)
	e.SetChain(Chain{NoopStrategy{}})
	w := weekFor(t, e, model.Troop{Name: "Tecumseh", Scouts: 9, Adults: 2, Preferences: []string{"Tie Dye"}})
	d := w.demand(w.troops["Tecumseh"], "Tie Dye", 1)
	assert.False(t, w.escalate(d, len(e.chain)))
	require.Len(t, w.unresolved, 1)
	assert.Equal(t, UnresolvedUnsatisfiable, w.unresolved[0].Kind)
	assert.Equal(t, 1, w.unresolved[0].Week)
}

func TestMergeSharedJoinsLoneSessions(t *testing.T) {
	e := newEngine(t)
	w := weekFor(t, e,
		model.Troop{Name: "Tecumseh", Scouts: 8, Adults: 2, Preferences: []string{model.AquaTrampoline}},
		model.Troop{Name: "Samoset", Scouts: 9, Adults: 2, Preferences: []string{model.AquaTrampoline}},
	)
	mustAdd(t, w, "Tecumseh", model.AquaTrampoline, model.Monday, 1)
	mustAdd(t, w, "Samoset", model.AquaTrampoline, model.Tuesday, 1)
	require.Zero(t, e.sc.Score(w.s).SharedSessions)

	w.mergeShared()
	b := e.sc.Score(w.s)
	assert.Equal(t, 1, b.SharedSessions)
	assert.InDelta(t, 4.0, b.Sharing, 1e-9)
	assertSound(t, w)
}

func TestMergeSharedRespectsGroupSize(t *testing.T) {
	e := newEngine(t)
	w := weekFor(t, e,
		model.Troop{Name: "Tecumseh", Scouts: 15, Adults: 4, Preferences: []string{model.AquaTrampoline}},
		model.Troop{Name: "Samoset", Scouts: 9, Adults: 2, Preferences: []string{model.AquaTrampoline}},
	)
	mustAdd(t, w, "Tecumseh", model.AquaTrampoline, model.Monday, 1)
	mustAdd(t, w, "Samoset", model.AquaTrampoline, model.Tuesday, 1)
	w.mergeShared()
	assert.Zero(t, e.sc.Score(w.s).SharedSessions)
}

func TestRepairMovesEntryIntoConflictedSlot(t *testing.T) {
	e := newEngine(t)
	e.cfg.FillOrder = []string{model.CampsiteFreeTime}
	w := weekFor(t, e, model.Troop{Name: "Tecumseh", Scouts: 9, Adults: 2, Preferences: []string{"Tie Dye"}})
	mustAdd(t, w, "Tecumseh", "Trading Post", model.Monday, 1)
	mustAdd(t, w, "Tecumseh", "Tie Dye", model.Tuesday, 1)
	mustAdd(t, w, "Tecumseh", "Loon Lore", model.Tuesday, 2)
	mustAdd(t, w, "Tecumseh", "Archery", model.Tuesday, 3)
	w.fillOpen()
	free := w.s.FreeSlots("Tecumseh")
	require.Len(t, free, 2, "free time conflicts with trading post")

	for _, ts := range free {
		require.Truef(t, w.repair("Tecumseh", ts), "repair %s", ts)
	}
	assert.Empty(t, w.s.FreeSlots("Tecumseh"))
	assert.True(t, w.s.Has("Tecumseh", "Trading Post"))
	assert.True(t, w.s.Has("Tecumseh", "Tie Dye"))
	assertSound(t, w)
}

func containsEntry(list []model.Entry, e model.Entry) bool {
	for _, o := range list {
		if o == e {
			return true
		}
	}
	return false
}
