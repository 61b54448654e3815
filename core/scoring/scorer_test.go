package scoring

import (
	"testing"

	"github.com/kilianp07/troopsched/core/constraints"
	"github.com/kilianp07/troopsched/core/model"
	"github.com/kilianp07/troopsched/core/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cat = model.DefaultCatalog()

func setup() (*Scorer, *constraints.Validator, *schedule.Schedule) {
	v := constraints.NewValidator(cat, constraints.DefaultRules())
	troops := []model.Troop{
		{Name: "Tecumseh", Commissioner: "A", Scouts: 8, Adults: 2,
			Preferences: []string{model.AquaTrampoline, "Tie Dye", "Itasca State Park", "Troop Rifle", "Archery", "Fishing"}},
		{Name: "Samoset", Commissioner: "B", Scouts: 9, Adults: 2,
			Preferences: []string{"Tie Dye", model.AquaTrampoline, "Back of the Moon"}},
	}
	return New(v, DefaultWeights()), v, schedule.New(1, troops)
}

func entry(s *schedule.Schedule, troop, activity string, d model.Day, slot int) model.Entry {
	t, _ := s.Troop(troop)
	a, _ := cat.Get(activity)
	return model.NewEntry(a, t, d, slot)
}

func TestScoreEmptyChargesTopMisses(t *testing.T) {
	sc, _, s := setup()
	b := sc.Score(s)
	assert.InDelta(t, -3.2*8, b.TopMiss, 1e-9)
	assert.Zero(t, b.Preference)
	assert.Zero(t, b.HardViolations)
	assert.InDelta(t, b.TopMiss, b.Total, 1e-9)
}

func TestPreferencePointsByRank(t *testing.T) {
	sc, _, s := setup()
	require.NoError(t, s.Add(entry(s, "Tecumseh", model.AquaTrampoline, model.Monday, 1)))
	require.NoError(t, s.Add(entry(s, "Tecumseh", "Fishing", model.Monday, 2)))
	b := sc.Score(s)
	assert.InDelta(t, 5.4+2.6, b.Preference, 1e-9)
	assert.InDelta(t, -3.2*7, b.TopMiss, 1e-9)
}

func TestLongBlockSatisfiesTopLongBlockPreference(t *testing.T) {
	sc, _, s := setup()
	require.NoError(t, s.Add(entry(s, "Tecumseh", "Back of the Moon", model.Wednesday, 1)))
	b := sc.Score(s)
	// Itasca is still unplaced but no longer counts as a top miss.
	assert.InDelta(t, -3.2*4-3.2*3, b.TopMiss, 1e-9)
}

func TestSharingBonusCountedOncePerSession(t *testing.T) {
	sc, v, s := setup()
	for _, e := range []model.Entry{
		entry(s, "Tecumseh", model.AquaTrampoline, model.Monday, 1),
		entry(s, "Samoset", model.AquaTrampoline, model.Monday, 1),
	} {
		require.Nil(t, v.CanPlace(s, e))
		require.NoError(t, s.Add(e))
	}
	b := sc.Score(s)
	assert.Equal(t, 1, b.SharedSessions)
	assert.InDelta(t, 4.0, b.Sharing, 1e-9)
}

func TestDeltaMatchesFullRecomputation(t *testing.T) {
	sc, v, s := setup()
	ledger := sc.Score(s).Total
	steps := []model.Entry{
		entry(s, "Tecumseh", model.AquaTrampoline, model.Monday, 1),
		entry(s, "Samoset", model.AquaTrampoline, model.Monday, 1),
		entry(s, "Tecumseh", "Tie Dye", model.Monday, 2),
		entry(s, "Tecumseh", "Troop Canoe", model.Monday, 3),
		entry(s, "Samoset", "Tie Dye", model.Tuesday, 1),
		entry(s, "Samoset", "Hemp Craft", model.Tuesday, 3),
		entry(s, "Samoset", "Troop Kayak", model.Tuesday, 2),
		entry(s, "Tecumseh", "Back of the Moon", model.Wednesday, 1),
		entry(s, "Tecumseh", model.Sailing, model.Thursday, 1),
		entry(s, "Samoset", model.Reflection, model.Friday, 1),
	}
	for _, e := range steps {
		require.Nilf(t, v.CanPlace(s, e), "step %s", e)
		ledger += sc.Delta(s, e)
		require.NoError(t, s.Add(e))
		assert.InDeltaf(t, sc.Score(s).Total, ledger, 1e-9, "after adding %s", e)
	}
	for _, e := range []model.Entry{steps[1], steps[6]} {
		ledger += sc.DeltaRemove(s, e)
		require.True(t, s.Remove(e))
		assert.InDeltaf(t, sc.Score(s).Total, ledger, 1e-9, "after removing %s", e)
	}
}

func TestDeltaPenalisesInvalidCandidate(t *testing.T) {
	sc, _, s := setup()
	require.NoError(t, s.Add(entry(s, "Tecumseh", "Troop Rifle", model.Monday, 1)))
	d := sc.Delta(s, entry(s, "Tecumseh", "Archery", model.Monday, 2))
	assert.Less(t, d, -900.0)
}

func TestStaffStats(t *testing.T) {
	sc, _, s := setup()
	require.NoError(t, s.Add(entry(s, "Tecumseh", "Troop Canoe", model.Monday, 1)))
	st := sc.StaffStats(s)
	assert.Equal(t, 2, st.PerSlot["Monday-1"])
	assert.InDelta(t, 2.0/14.0, st.Mean, 1e-9)
	assert.Equal(t, 2.0, st.Max)
	assert.Zero(t, st.OverTarget)
}

func TestWeightsValidate(t *testing.T) {
	w := DefaultWeights()
	assert.NoError(t, w.Validate())
	w.ClusterSessionsPerDay = 0
	assert.Error(t, w.Validate())
}
