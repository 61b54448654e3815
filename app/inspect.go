package app

import (
	"github.com/kilianp07/troopsched/core/constraints"
	"github.com/kilianp07/troopsched/core/scoring"
	"github.com/kilianp07/troopsched/pkg/export"
)

// Inspection is the read-back of a stored snapshot.
type Inspection struct {
	Week           int                     `json:"week"`
	Violations     []constraints.Violation `json:"violations"`
	HardViolations int                     `json:"hard_violations"`
	Score          scoring.Breakdown       `json:"score"`
	Staff          scoring.StaffLoad       `json:"staff"`
}

// Inspect validates and scores a snapshot with the service rules.
func (s *Service) Inspect(snap export.Snapshot) (Inspection, error) {
	sched, err := snap.Schedule()
	if err != nil {
		return Inspection{}, err
	}
	vs := s.Validator.ValidateAll(sched)
	return Inspection{
		Week:           snap.Week,
		Violations:     vs,
		HardViolations: constraints.CountHard(vs),
		Score:          s.Scorer.Score(sched),
		Staff:          s.Scorer.StaffStats(sched),
	}, nil
}
