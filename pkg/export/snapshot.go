package export

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/kilianp07/troopsched/core/engine"
	"github.com/kilianp07/troopsched/core/model"
	"github.com/kilianp07/troopsched/core/schedule"
)

// Snapshot is the persisted form of a completed week.
type Snapshot struct {
	RunID       string              `json:"run_id"`
	Week        int                 `json:"week"`
	Troops      []model.Troop       `json:"troops"`
	Entries     []model.Entry       `json:"entries"`
	Unscheduled []engine.Unresolved `json:"unscheduled"`
}

// FromResult captures res. Entries are ordered by troop then timeline.
func FromResult(res *engine.Result) Snapshot {
	snap := Snapshot{
		RunID:       res.RunID,
		Week:        res.Week,
		Unscheduled: append([]engine.Unresolved(nil), res.Report.Unresolved...),
	}
	if res.Schedule != nil {
		snap.Troops = append([]model.Troop(nil), res.Schedule.Troops()...)
		snap.Entries = res.Schedule.Entries()
	}
	sort.Slice(snap.Entries, func(i, j int) bool { return snap.Entries[i].Less(snap.Entries[j]) })
	return snap
}

// Schedule rebuilds a frozen schedule from the snapshot. Only structural
// checks apply; placement rules are left to the validator.
func (s Snapshot) Schedule() (*schedule.Schedule, error) {
	out := schedule.New(s.Week, s.Troops)
	for _, e := range s.Entries {
		if err := out.Add(e); err != nil {
			return nil, fmt.Errorf("snapshot week %d: %w", s.Week, err)
		}
	}
	out.Freeze()
	return out, nil
}

// ReadSnapshot decodes a JSON snapshot.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

// WriteJSON writes the snapshot to w in indented JSON.
func WriteJSON(w io.Writer, s Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
