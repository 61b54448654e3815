package engine

import (
	"github.com/kilianp07/troopsched/core/constraints"
	"github.com/kilianp07/troopsched/core/model"
	"github.com/kilianp07/troopsched/core/scoring"
)

// UnresolvedKind classifies a reported problem.
type UnresolvedKind string

const (
	UnresolvedUnsatisfiable UnresolvedKind = "unsatisfiable"
	UnresolvedDisplaced     UnresolvedKind = "displaced"
	UnresolvedIdle          UnresolvedKind = "idle_slot"
	UnresolvedAnchor        UnresolvedKind = "anchor"
	UnresolvedUnknown       UnresolvedKind = "unknown_activity"
)

// Unresolved is a demand or slot the engine could not satisfy.
type Unresolved struct {
	Kind     UnresolvedKind `json:"kind"`
	Week     int            `json:"week"`
	Troop    string         `json:"troop"`
	Activity string         `json:"activity,omitempty"`
	Rank     int            `json:"rank,omitempty"`
	Day      model.Day      `json:"day,omitempty"`
	Slot     int            `json:"slot,omitempty"`
	Detail   string         `json:"detail"`
}

// TroopReport counts how well one troop was served.
type TroopReport struct {
	Troop        string   `json:"troop"`
	Commissioner string   `json:"commissioner"`
	Filled       int      `json:"filled_slots"`
	TopCore      int      `json:"top_core_satisfied"`
	TopCoreOf    int      `json:"top_core_requested"`
	TopExtended  int      `json:"top_extended_satisfied"`
	Ranked       int      `json:"ranked_satisfied"`
	RankedOf     int      `json:"ranked_requested"`
	Missing      []string `json:"missing_top,omitempty"`
}

// Report is the quality summary of a run.
type Report struct {
	Troops         []TroopReport           `json:"troops"`
	Score          scoring.Breakdown       `json:"score"`
	Staff          scoring.StaffLoad       `json:"staff"`
	Unresolved     []Unresolved            `json:"unresolved"`
	Violations     []constraints.Violation `json:"violations"`
	HardViolations int                     `json:"hard_violations"`
	Escalations    map[string]int          `json:"escalations"`
}

func (w *Week) report() Report {
	r := Report{
		Score:       w.e.sc.Score(w.s),
		Staff:       w.e.sc.StaffStats(w.s),
		Unresolved:  append([]Unresolved(nil), w.unresolved...),
		Violations:  w.e.v.ValidateAll(w.s),
		Escalations: make(map[string]int, len(w.escalations)),
	}
	r.HardViolations = constraints.CountHard(r.Violations)
	for k, v := range w.escalations {
		r.Escalations[k] = v
	}
	for _, t := range w.roster {
		r.Troops = append(r.Troops, w.troopReport(t))
	}
	return r
}

func (w *Week) troopReport(t model.Troop) TroopReport {
	tr := TroopReport{
		Troop:        t.Name,
		Commissioner: t.Commissioner,
		TopCoreOf:    len(t.Top(w.e.cfg.TopCore)),
		RankedOf:     len(t.Preferences),
	}
	for _, e := range w.s.TroopEntries(t.Name) {
		tr.Filled += e.Span
	}
	for i, p := range t.Preferences {
		if !w.satisfied(t.Name, p) {
			if i < w.e.cfg.TopCore {
				tr.Missing = append(tr.Missing, p)
			}
			continue
		}
		tr.Ranked++
		if i < w.e.cfg.TopCore {
			tr.TopCore++
		}
		if i < w.e.cfg.TopExtended {
			tr.TopExtended++
		}
	}
	return tr
}
