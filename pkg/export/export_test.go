package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/kilianp07/troopsched/core/engine"
	"github.com/kilianp07/troopsched/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var cat = model.DefaultCatalog()

func sample(t *testing.T) Snapshot {
	t.Helper()
	troops := []model.Troop{
		{Name: "Tecumseh", Commissioner: "A", Scouts: 8, Adults: 2},
		{Name: "Samoset", Commissioner: "B", Scouts: 9, Adults: 2},
	}
	at := func(troop int, activity string, d model.Day, slot int) model.Entry {
		a, err := cat.Lookup(activity)
		require.NoError(t, err)
		return model.NewEntry(a, troops[troop], d, slot)
	}
	return Snapshot{
		RunID:  "run-1",
		Week:   2,
		Troops: troops,
		Entries: []model.Entry{
			at(0, model.AquaTrampoline, model.Monday, 1),
			at(1, model.AquaTrampoline, model.Monday, 1),
			at(0, "Back of the Moon", model.Wednesday, 1),
			at(1, model.Reflection, model.Friday, 1),
		},
		Unscheduled: []engine.Unresolved{{Kind: engine.UnresolvedIdle, Week: 2, Troop: "Samoset", Day: model.Thursday, Slot: 2}},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	snap := sample(t)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, snap))
	assert.Contains(t, buf.String(), `"day": "Monday"`)

	back, err := ReadSnapshot(&buf)
	require.NoError(t, err)
	assert.Equal(t, snap, back)

	s, err := back.Schedule()
	require.NoError(t, err)
	assert.True(t, s.Frozen())
	assert.Equal(t, 4, s.Len())
	assert.True(t, s.Has("Tecumseh", "Back of the Moon"))
}

func TestSnapshotScheduleRejectsOverlap(t *testing.T) {
	snap := sample(t)
	dup := snap.Entries[0]
	dup.Activity = "Tie Dye"
	snap.Entries = append(snap.Entries, dup)
	_, err := snap.Schedule()
	assert.Error(t, err)
}

func TestReadSnapshotRejectsUnknownFields(t *testing.T) {
	_, err := ReadSnapshot(strings.NewReader(`{"week": 1, "bogus": true}`))
	assert.Error(t, err)
}

func TestTroopBoardMarksContinuation(t *testing.T) {
	b, err := TroopBoard(sample(t), "Tecumseh")
	require.NoError(t, err)
	require.Len(t, b.Rows, len(model.AllSlots()))
	assert.Equal(t, []string{"Monday", "1", model.AquaTrampoline}, b.Rows[0])
	assert.Equal(t, []string{"Wednesday", "1", "Back of the Moon"}, b.Rows[6])
	assert.Equal(t, []string{"Wednesday", "2", "Back of the Moon (cont.)"}, b.Rows[7])
	assert.Equal(t, "", b.Rows[1][2])

	_, err = TroopBoard(sample(t), "Nobody")
	assert.Error(t, err)
}

func TestAreaBoardGroupsSharedSessions(t *testing.T) {
	b, err := AreaBoard(sample(t), cat, "beach")
	require.NoError(t, err)
	require.Len(t, b.Rows, 1)
	assert.Equal(t, []string{"Monday", "1", model.AquaTrampoline, "Samoset, Tecumseh"}, b.Rows[0])

	_, err = AreaBoard(sample(t), cat, "Moon Base")
	assert.Error(t, err)
}

func TestWeekBoard(t *testing.T) {
	b := WeekBoard(sample(t))
	assert.Len(t, b.Headers, 1+len(model.AllSlots()))
	require.Len(t, b.Rows, 2)
	assert.Equal(t, "Samoset", b.Rows[1][0])
	assert.Equal(t, model.Reflection, b.Rows[1][len(b.Headers)-3])
}

func TestCommissionerBoard(t *testing.T) {
	b, err := CommissionerBoard(sample(t), "b")
	require.NoError(t, err)
	assert.Equal(t, "Week 2 - Commissioner B", b.Title)
	require.Len(t, b.Rows, 1)
	assert.Equal(t, "Samoset", b.Rows[0][0])
	assert.Equal(t, model.AquaTrampoline, b.Rows[0][1])

	_, err = CommissionerBoard(sample(t), "C")
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample(t)))
	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 5)
	assert.Equal(t, []string{"week", "troop", "activity", "day", "slot", "span", "duration"}, recs[0])
	assert.Equal(t, []string{"2", "Tecumseh", "Back of the Moon", "Wednesday", "1", "3", "3"}, recs[3])
}

func TestWriteFormats(t *testing.T) {
	for _, name := range []string{"json", "CSV", " pdf ", "XLSX"} {
		f, err := ParseFormat(name)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoErrorf(t, Write(&buf, f, sample(t)), "format %s", f)
		assert.NotZero(t, buf.Len())
	}
	_, err := ParseFormat("docx")
	assert.Error(t, err)
	assert.Equal(t, ".pdf", FormatPDF.Ext())
}

func TestRenderPDF(t *testing.T) {
	data, err := RenderPDF(WeekBoard(sample(t)))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	_, err = RenderPDF()
	assert.Error(t, err)
	_, err = RenderPDF(Board{Title: "empty"})
	assert.Error(t, err)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sample(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{"Week", "Commissioner A", "Commissioner B", "Entries"}, f.GetSheetList())

	rows, err := f.GetRows("Week")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Troop", rows[0][0])
	assert.Equal(t, "Tecumseh", rows[1][0])

	rows, err = f.GetRows("Commissioner B")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Samoset", rows[1][0])

	rows, err = f.GetRows("Entries")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"2", "Tecumseh", "Back of the Moon", "Wednesday", "1", "3", "3"}, rows[3])
	assert.Equal(t, ".xlsx", FormatXLSX.Ext())
}
