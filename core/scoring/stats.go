package scoring

import (
	"github.com/kilianp07/troopsched/core/constraints"
	"github.com/kilianp07/troopsched/core/model"
	"github.com/kilianp07/troopsched/core/schedule"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// StaffLoad summarises staff demand across the slots of a week.
type StaffLoad struct {
	PerSlot    map[string]int `json:"per_slot"`
	Mean       float64        `json:"mean"`
	StdDev     float64        `json:"std_dev"`
	Max        float64        `json:"max"`
	OverTarget int            `json:"slots_over_target"`
}

// StaffStats computes the staff load distribution of view.
func (s *Scorer) StaffStats(view schedule.View) StaffLoad {
	slots := model.AllSlots()
	loads := make([]float64, len(slots))
	out := StaffLoad{PerSlot: make(map[string]int, len(slots))}
	target := s.v.Rules().StaffTarget
	for i, ts := range slots {
		n := constraints.StaffAt(s.cat, view, ts)
		loads[i] = float64(n)
		out.PerSlot[ts.String()] = n
		if target > 0 && n > target {
			out.OverTarget++
		}
	}
	out.Mean, out.StdDev = stat.MeanStdDev(loads, nil)
	out.Max = floats.Max(loads)
	return out
}
