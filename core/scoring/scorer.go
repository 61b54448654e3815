package scoring

import (
	"sort"

	"github.com/kilianp07/troopsched/core/constraints"
	"github.com/kilianp07/troopsched/core/model"
	"github.com/kilianp07/troopsched/core/schedule"
)

// Breakdown splits a score into its components. Penalty components are
// negative.
type Breakdown struct {
	Preference     float64 `json:"preference"`
	TopMiss        float64 `json:"top_miss"`
	Sharing        float64 `json:"sharing"`
	ClusterExcess  float64 `json:"cluster_excess"`
	ClusterGap     float64 `json:"cluster_gap"`
	Soft           float64 `json:"soft"`
	Staff          float64 `json:"staff"`
	Hard           float64 `json:"hard"`
	Total          float64 `json:"total"`
	SharedSessions int     `json:"shared_sessions"`
	HardViolations int     `json:"hard_violations"`
}

func (b *Breakdown) add(o Breakdown) {
	b.Preference += o.Preference
	b.TopMiss += o.TopMiss
	b.Sharing += o.Sharing
	b.ClusterExcess += o.ClusterExcess
	b.ClusterGap += o.ClusterGap
	b.Soft += o.Soft
	b.Staff += o.Staff
	b.Hard += o.Hard
	b.SharedSessions += o.SharedSessions
	b.HardViolations += o.HardViolations
}

func (b Breakdown) sum() float64 {
	return b.Preference + b.TopMiss + b.Sharing + b.ClusterExcess + b.ClusterGap + b.Soft + b.Staff + b.Hard
}

// Scorer computes schedule quality. It never mutates a schedule.
type Scorer struct {
	v        *constraints.Validator
	cat      *model.Catalog
	w        Weights
	clusters []string
}

// New creates a scorer sharing the validator's catalog and rules.
func New(v *constraints.Validator, w Weights) *Scorer {
	seen := make(map[string]bool)
	var clusters []string
	for _, a := range v.Catalog().All() {
		if a.Cluster != "" && !seen[a.Cluster] {
			seen[a.Cluster] = true
			clusters = append(clusters, a.Cluster)
		}
	}
	sort.Strings(clusters)
	return &Scorer{v: v, cat: v.Catalog(), w: w, clusters: clusters}
}

// Weights returns the configured weights.
func (s *Scorer) Weights() Weights { return s.w }

// Score computes the full breakdown of view from scratch.
func (s *Scorer) Score(view schedule.View) Breakdown {
	var b Breakdown
	for _, t := range view.Troops() {
		b.add(s.troopTerm(view, t.Name))
		entries := view.TroopEntries(t.Name)
		for _, d := range model.Days {
			b.add(s.troopDayTerm(constraints.OnDay(entries, d)))
		}
	}
	for _, ts := range model.AllSlots() {
		b.add(s.slotTerm(view, ts))
	}
	for _, c := range s.clusters {
		b.add(s.clusterTerm(view, c))
	}
	hard := len(s.v.ValidatePlacement(view))
	b.HardViolations = hard
	b.Hard = -s.w.HardPenalty * float64(hard)
	b.Total = b.sum()
	return b
}

// Delta returns the change in total score from inserting e into view. Only
// the troop, troop day, slots and cluster touched by e are re-evaluated. A
// candidate the validator rejects carries one HARD penalty.
func (s *Scorer) Delta(view schedule.View, e model.Entry) float64 {
	d := s.local(schedule.With(view, e), e) - s.local(view, e)
	if vi := s.v.CanPlace(view, e); vi != nil {
		d -= s.w.HardPenalty
	}
	return d
}

// DeltaRemove returns the change in total score from removing e from view.
func (s *Scorer) DeltaRemove(view schedule.View, e model.Entry) float64 {
	return s.local(schedule.Without(view, e), e) - s.local(view, e)
}

func (s *Scorer) local(view schedule.View, e model.Entry) float64 {
	b := s.troopTerm(view, e.Troop)
	b.add(s.troopDayTerm(constraints.OnDay(view.TroopEntries(e.Troop), e.Day)))
	for _, ts := range e.Slots() {
		b.add(s.slotTerm(view, ts))
	}
	if a, ok := s.cat.Get(e.Activity); ok && a.Cluster != "" {
		b.add(s.clusterTerm(view, a.Cluster))
	}
	return b.sum()
}

func (s *Scorer) troopTerm(view schedule.View, troop string) Breakdown {
	var b Breakdown
	t, ok := view.Troop(troop)
	if !ok {
		return b
	}
	have := make(map[string]bool)
	longBlock := false
	for _, e := range view.TroopEntries(troop) {
		have[e.Activity] = true
		if a, ok := s.cat.Get(e.Activity); ok && a.IsLongBlock() {
			longBlock = true
		}
	}
	for i, p := range t.Preferences {
		if have[p] {
			if i < len(s.w.RankPoints) {
				b.Preference += s.w.RankPoints[i]
			}
			continue
		}
		if i >= s.w.TopCount {
			continue
		}
		if a, ok := s.cat.Get(p); ok && a.IsLongBlock() && longBlock {
			continue
		}
		b.TopMiss -= s.w.TopMissPenalty
	}
	return b
}

func (s *Scorer) troopDayTerm(entries []model.Entry) Breakdown {
	var b Breakdown
	for _, vi := range s.v.TroopDaySoft(entries) {
		switch vi.Kind {
		case constraints.KindBeachSlotTwo:
			b.Soft -= s.w.BeachSlotTwoPenalty
		case constraints.KindClusterGap:
			b.ClusterGap -= s.w.ClusterGapPenalty
		default:
			b.Soft -= s.w.SoftPenalty
		}
	}
	return b
}

func (s *Scorer) slotTerm(view schedule.View, ts model.TimeSlot) Breakdown {
	var b Breakdown
	entries := view.SlotEntries(ts)
	if n := s.v.StaffExcess(view, ts); n > 0 {
		b.Staff -= s.w.StaffOverTarget * float64(n)
	}
	for _, sess := range constraints.Sessions(s.cat, view, entries) {
		if sess.Start == ts && sess.Activity.Shareable() && len(sess.Troops) > 1 {
			b.SharedSessions++
			b.Sharing += s.w.SharingBonus
		}
	}
	return b
}

func (s *Scorer) clusterTerm(view schedule.View, cluster string) Breakdown {
	var b Breakdown
	var entries []model.Entry
	for _, e := range view.Entries() {
		if a, ok := s.cat.Get(e.Activity); ok && a.Cluster == cluster {
			entries = append(entries, e)
		}
	}
	sessions := constraints.Sessions(s.cat, view, entries)
	if len(sessions) == 0 {
		return b
	}
	days := make(map[model.Day]bool)
	for _, sess := range sessions {
		days[sess.Start.Day] = true
	}
	per := s.w.ClusterSessionsPerDay
	if per <= 0 {
		per = 1
	}
	minDays := (len(sessions) + per - 1) / per
	if excess := len(days) - minDays; excess > 0 {
		b.ClusterExcess -= s.w.ClusterExcessPenalty * float64(excess)
	}
	return b
}
