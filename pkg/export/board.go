package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kilianp07/troopsched/core/model"
)

// Board is a printable table of one view over a week.
type Board struct {
	Title   string     `json:"title"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// TroopBoard lists every slot of the week for one troop. Slots held by a
// multi-slot entry after its start are marked as continued.
func TroopBoard(s Snapshot, troop string) (Board, error) {
	if !s.hasTroop(troop) {
		return Board{}, fmt.Errorf("week %d: unknown troop %q", s.Week, troop)
	}
	b := Board{
		Title:   fmt.Sprintf("Week %d - %s", s.Week, troop),
		Headers: []string{"Day", "Slot", "Activity"},
	}
	for _, ts := range model.AllSlots() {
		b.Rows = append(b.Rows, []string{ts.Day.String(), strconv.Itoa(ts.Slot), s.activityAt(troop, ts)})
	}
	return b, nil
}

// AreaBoard lists the sessions run in one camp zone, one row per session.
func AreaBoard(s Snapshot, cat *model.Catalog, zone string) (Board, error) {
	b := Board{
		Title:   fmt.Sprintf("Week %d - %s", s.Week, zone),
		Headers: []string{"Day", "Slot", "Activity", "Troops"},
	}
	type key struct {
		start    model.TimeSlot
		activity string
	}
	sessions := make(map[key][]string)
	var order []key
	known := false
	for _, a := range cat.All() {
		if strings.EqualFold(string(a.Zone), zone) {
			known = true
			break
		}
	}
	if !known {
		return Board{}, fmt.Errorf("unknown area %q", zone)
	}
	for _, e := range s.Entries {
		a, ok := cat.Get(e.Activity)
		if !ok || !strings.EqualFold(string(a.Zone), zone) {
			continue
		}
		k := key{start: e.Start(), activity: e.Activity}
		if _, seen := sessions[k]; !seen {
			order = append(order, k)
		}
		sessions[k] = append(sessions[k], e.Troop)
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].start != order[j].start {
			return order[i].start.Before(order[j].start)
		}
		return order[i].activity < order[j].activity
	})
	for _, k := range order {
		troops := sessions[k]
		sort.Strings(troops)
		b.Rows = append(b.Rows, []string{
			k.start.Day.String(), strconv.Itoa(k.start.Slot), k.activity, strings.Join(troops, ", "),
		})
	}
	return b, nil
}

// CommissionerBoard is the week grid restricted to the troops of one
// commissioner group.
func CommissionerBoard(s Snapshot, group string) (Board, error) {
	in := make(map[string]bool)
	for _, t := range s.Troops {
		if strings.EqualFold(t.Commissioner, group) {
			in[t.Name] = true
		}
	}
	if len(in) == 0 {
		return Board{}, fmt.Errorf("week %d: no troops in commissioner group %q", s.Week, group)
	}
	b := WeekBoard(s)
	b.Title = fmt.Sprintf("Week %d - Commissioner %s", s.Week, strings.ToUpper(group))
	rows := b.Rows[:0]
	for _, row := range b.Rows {
		if in[row[0]] {
			rows = append(rows, row)
		}
	}
	b.Rows = rows
	return b, nil
}

// WeekBoard is the master grid: one row per troop and one column per slot.
func WeekBoard(s Snapshot) Board {
	slots := model.AllSlots()
	b := Board{Title: fmt.Sprintf("Week %d", s.Week), Headers: []string{"Troop"}}
	for _, ts := range slots {
		b.Headers = append(b.Headers, ts.String())
	}
	for _, t := range s.Troops {
		row := []string{t.Name}
		for _, ts := range slots {
			row = append(row, s.activityAt(t.Name, ts))
		}
		b.Rows = append(b.Rows, row)
	}
	return b
}

func (s Snapshot) hasTroop(name string) bool {
	for _, t := range s.Troops {
		if t.Name == name {
			return true
		}
	}
	return false
}

func (s Snapshot) activityAt(troop string, ts model.TimeSlot) string {
	for _, e := range s.Entries {
		if e.Troop != troop || !e.Covers(ts) {
			continue
		}
		if e.Slot == ts.Slot {
			return e.Activity
		}
		return e.Activity + " (cont.)"
	}
	return ""
}
