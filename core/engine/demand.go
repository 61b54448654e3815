package engine

import (
	"math"

	"github.com/kilianp07/troopsched/core/model"
)

// DemandKind classifies why an activity is requested.
type DemandKind int

const (
	DemandPreference DemandKind = iota
	DemandAnchor
	DemandFill
)

func (k DemandKind) String() string {
	switch k {
	case DemandAnchor:
		return "anchor"
	case DemandFill:
		return "fill"
	default:
		return "preference"
	}
}

// Demand is a request to give one troop one activity.
type Demand struct {
	Troop    string
	Activity string
	// Rank is the troop's 1-based preference rank, 0 when unranked.
	Rank int
	// Days lists the acceptable days in order of preference. The first day
	// offering a valid slot wins. Empty means any day, best score first.
	Days []model.Day
	Kind DemandKind
}

// Entry priorities used when deciding what may be displaced.
const (
	priorityFill     = 0
	priorityUnranked = 1
	priorityRanked   = 1000
	priorityAnchor   = math.MaxInt
)

// Priority returns how hard the demand outranks existing entries.
func (d Demand) Priority() int {
	switch {
	case d.Kind == DemandAnchor:
		return priorityAnchor
	case d.Rank > 0:
		return priorityRanked - d.Rank
	case d.Kind == DemandFill:
		return priorityFill
	}
	return priorityUnranked
}

func (w *Week) demand(t model.Troop, activity string, rank int) Demand {
	d := Demand{Troop: t.Name, Activity: activity, Rank: rank}
	if day, ok := t.DayRequests[activity]; ok && day.Valid() {
		d.Days = []model.Day{day}
		for _, o := range model.Days {
			if o != day {
				d.Days = append(d.Days, o)
			}
		}
		return d
	}
	if w.e.rot.HasRotation(activity) {
		d.Days = w.e.rot.CandidateDays(activity, t.Commissioner, w.week)
	}
	return d
}

// priority ranks an existing entry: anchors are never displaced, then
// ranked preferences by rank, unranked entries, and fill last.
func (w *Week) priority(e model.Entry) int {
	if w.e.anchors[e.Activity] {
		return priorityAnchor
	}
	t := w.troops[e.Troop]
	if r := t.Rank(e.Activity); r > 0 {
		return priorityRanked - r
	}
	if a, ok := w.e.cat.Get(e.Activity); ok && a.Category == model.CategoryFill {
		return priorityFill
	}
	if w.e.fill[e.Activity] {
		return priorityFill
	}
	return priorityUnranked
}
