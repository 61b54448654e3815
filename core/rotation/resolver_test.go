package rotation

import (
	"errors"
	"testing"

	"github.com/kilianp07/troopsched/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupOf(t *testing.T) {
	r, err := New(DefaultConfig())
	require.NoError(t, err)

	g, err := r.GroupOf(model.Troop{Name: "Troop 12", Campsite: "Samoset"})
	require.NoError(t, err)
	assert.Equal(t, "B", g)

	g, err = r.GroupOf(model.Troop{Name: "Cochise"})
	require.NoError(t, err)
	assert.Equal(t, "C", g)

	g, err = r.GroupOf(model.Troop{Name: "Troop 7", Campsite: "Samoset", Commissioner: "A"})
	require.NoError(t, err)
	assert.Equal(t, "A", g)

	_, err = r.GroupOf(model.Troop{Name: "Nowhere"})
	assert.True(t, errors.Is(err, ErrUnknownGroup))
	_, err = r.GroupOf(model.Troop{Name: "Nowhere", Commissioner: "Z"})
	assert.True(t, errors.Is(err, ErrUnknownGroup))
}

func TestDayRotatesByWeek(t *testing.T) {
	r, err := New(DefaultConfig())
	require.NoError(t, err)

	checks := []struct {
		group string
		week  int
		want  model.Day
	}{
		{"A", 1, model.Tuesday},
		{"B", 1, model.Wednesday},
		{"C", 1, model.Thursday},
		{"A", 2, model.Wednesday},
		{"C", 2, model.Tuesday},
		{"B", 4, model.Wednesday},
	}
	for _, c := range checks {
		got, ok := r.Day(model.SuperTroop, c.group, c.week)
		require.True(t, ok)
		assert.Equalf(t, c.want, got, "group %s week %d", c.group, c.week)
	}
	_, ok := r.Day("Tie Dye", "A", 1)
	assert.False(t, ok)
}

func TestDeltaPrecedesSuperTroopInTable(t *testing.T) {
	r, err := New(DefaultConfig())
	require.NoError(t, err)
	for week := 1; week <= 6; week++ {
		for _, g := range r.Groups() {
			d, _ := r.Day(model.Delta, g, week)
			st, _ := r.Day(model.SuperTroop, g, week)
			assert.Lessf(t, int(d), int(st), "group %s week %d", g, week)
		}
	}
}

func TestOverrideSupersedesTable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Overrides = []Override{
		{Activity: model.SuperTroop, Group: "C", Day: "Monday"},
		{Activity: model.Delta, Week: 3, Day: "Monday"},
	}
	r, err := New(cfg)
	require.NoError(t, err)

	d, _ := r.Day(model.SuperTroop, "C", 1)
	assert.Equal(t, model.Monday, d)
	d, _ = r.Day(model.SuperTroop, "A", 1)
	assert.Equal(t, model.Tuesday, d)
	d, _ = r.Day(model.Delta, "B", 3)
	assert.Equal(t, model.Monday, d)
	d, _ = r.Day(model.Delta, "B", 2)
	assert.Equal(t, model.Wednesday, d)
}

func TestCandidateDays(t *testing.T) {
	r, err := New(DefaultConfig())
	require.NoError(t, err)

	got := r.CandidateDays(model.SuperTroop, "C", 1)
	assert.Equal(t, []model.Day{model.Thursday, model.Monday, model.Tuesday, model.Wednesday, model.Friday}, got)

	got = r.CandidateDays("Archery", "A", 1)
	assert.Equal(t, []model.Day{model.Wednesday, model.Tuesday, model.Thursday, model.Monday, model.Friday}, got)

	got = r.CandidateDays("Tie Dye", "A", 1)
	assert.Equal(t, model.Days, got)
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tables["Archery"] = []string{"Someday"}
	_, err := New(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.Groups = append(cfg.Groups, Group{ID: "D", Campsites: []string{"Samoset"}})
	_, err = New(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.Overrides = []Override{{Activity: model.Delta, Group: "Q", Day: "Monday"}}
	_, err = New(cfg)
	assert.True(t, errors.Is(err, ErrUnknownGroup))
}
