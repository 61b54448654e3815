package engine

import (
	"fmt"

	"github.com/kilianp07/troopsched/core/constraints"
	"github.com/kilianp07/troopsched/core/events"
	"github.com/kilianp07/troopsched/core/factory"
	"github.com/kilianp07/troopsched/core/model"
)

// Strategy is one tier of the preference guarantee chain. Attempt either
// commits a valid placement for d or leaves the week untouched.
type Strategy interface {
	Name() string
	Attempt(w *Week, d Demand) bool
}

// Chain is an ordered list of tiers tried until one succeeds.
type Chain []Strategy

// Names lists the tier names in order.
func (c Chain) Names() []string {
	out := make([]string, len(c))
	for i, s := range c {
		out[i] = s.Name()
	}
	return out
}

// NoopStrategy never places anything.
type NoopStrategy struct{}

func (NoopStrategy) Name() string               { return "noop" }
func (NoopStrategy) Attempt(*Week, Demand) bool { return false }

// Escalation outcomes.
const (
	OutcomePlaced        = "placed"
	OutcomeFailed        = "failed"
	OutcomeUnsatisfiable = "unsatisfiable"
)

var strategies = factory.NewRegistry[Strategy]()

func init() {
	strategies.MustRegister("noop", func(map[string]any) (Strategy, error) { return NoopStrategy{}, nil })
	strategies.MustRegister("swap", func(conf map[string]any) (Strategy, error) {
		s := SwapStrategy{MaxBlockers: defaultMaxBlockers}
		if err := factory.Decode(conf, &s); err != nil {
			return nil, err
		}
		return s, nil
	})
	strategies.MustRegister("force", func(conf map[string]any) (Strategy, error) {
		s := ForceStrategy{MaxBlockers: defaultMaxBlockers}
		if err := factory.Decode(conf, &s); err != nil {
			return nil, err
		}
		return s, nil
	})
	strategies.MustRegister("emergency", func(conf map[string]any) (Strategy, error) {
		s := EmergencyStrategy{DropUnranked: true}
		if err := factory.Decode(conf, &s); err != nil {
			return nil, err
		}
		return s, nil
	})
}

// RegisterStrategy adds a tier factory under name.
func RegisterStrategy(name string, f factory.Factory[Strategy]) error {
	return strategies.Register(name, f)
}

// StrategyNames lists the registered tier names.
func StrategyNames() []string { return strategies.Names() }

// NewChain builds a chain from configuration, in order.
func NewChain(cfgs []factory.ModuleConfig) (Chain, error) {
	out := make(Chain, 0, len(cfgs))
	for i, c := range cfgs {
		s, err := strategies.Create(c)
		if err != nil {
			return nil, fmt.Errorf("tier %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// DefaultChain returns swap, force and emergency with default settings.
func DefaultChain() Chain {
	return Chain{
		SwapStrategy{MaxBlockers: defaultMaxBlockers},
		ForceStrategy{MaxBlockers: defaultMaxBlockers},
		EmergencyStrategy{DropUnranked: true},
	}
}

// escalate tries the first tiers of the chain for d. When the whole chain
// was tried and failed the demand is recorded as unresolved.
func (w *Week) escalate(d Demand, tiers int) bool {
	chain := w.e.chain
	if tiers < len(chain) {
		chain = chain[:tiers]
	}
	for _, s := range chain {
		ok := s.Attempt(w, d)
		outcome := OutcomeFailed
		if ok {
			outcome = OutcomePlaced
			w.escalations[s.Name()]++
		}
		w.recordEscalation(d, s.Name(), outcome)
		if ok {
			return true
		}
	}
	if len(chain) < len(w.e.chain) {
		return false
	}
	kind := UnresolvedUnsatisfiable
	if d.Kind == DemandAnchor {
		kind = UnresolvedAnchor
	}
	w.flag(Unresolved{Kind: kind, Troop: d.Troop, Activity: d.Activity, Rank: d.Rank, Detail: "every guarantee tier failed"})
	w.recordEscalation(d, "chain", OutcomeUnsatisfiable)
	w.e.log.Warnf("week %d: %s rank %d for %s is unsatisfiable", w.week, d.Activity, d.Rank, d.Troop)
	return false
}

func (w *Week) recordEscalation(d Demand, tier, outcome string) {
	escalationsTotal.WithLabelValues(tier, outcome).Inc()
	w.e.log.Debugw("escalation", map[string]any{
		"week": w.week, "troop": d.Troop, "activity": d.Activity,
		"rank": d.Rank, "tier": tier, "outcome": outcome,
	})
	w.e.publish(events.EscalationEvent{
		Run: w.runID, Week: w.week, Troop: d.Troop, Activity: d.Activity,
		Rank: d.Rank, Tier: tier, Outcome: outcome,
	})
}

// clear simulates freeing target for its troop: the troop's overlapping
// and same-day conflicting entries are removed, then, if the area or
// capacity is still taken, the other troops holding it. allow vetoes the
// removal of an entry. On success target is placed in the returned tx.
func (w *Week) clear(target model.Entry, a *model.Activity, allow func(model.Entry) bool, maxBlockers int) (*tx, []model.Entry) {
	x := w.begin()
	var blockers []model.Entry
	for _, o := range x.s.TroopEntries(target.Troop) {
		oa, ok := w.e.cat.Get(o.Activity)
		if !ok {
			continue
		}
		if !o.Overlaps(target) && !(o.Day == target.Day && a.ConflictsWith(oa)) {
			continue
		}
		if !allow(o) || !x.remove(o) {
			return nil, nil
		}
		blockers = append(blockers, o)
	}
	if vi := w.e.v.CanPlace(x.s, target); vi != nil {
		if vi.Kind != constraints.KindExclusiveArea && vi.Kind != constraints.KindCapacity {
			return nil, nil
		}
		t := w.troops[target.Troop]
		seen := make(map[model.Entry]bool)
		for _, ts := range target.Slots() {
			for _, o := range x.s.SlotEntries(ts) {
				if o.Troop == target.Troop || seen[o] || !w.sameResource(o, a, t) {
					continue
				}
				seen[o] = true
				if !allow(o) || !x.remove(o) {
					return nil, nil
				}
				blockers = append(blockers, o)
			}
		}
	}
	if len(blockers) > maxBlockers || !x.add(target) {
		return nil, nil
	}
	return x, blockers
}

func (w *Week) sameResource(o model.Entry, a *model.Activity, t model.Troop) bool {
	oa, ok := w.e.cat.Get(o.Activity)
	if !ok {
		return false
	}
	if a.IsExclusive() && oa.IsExclusive() {
		ot := w.troops[o.Troop]
		return oa.AreaKey(ot.Commissioner) == a.AreaKey(t.Commissioner)
	}
	return a.Category == model.CategoryCapacity && o.Activity == a.Name
}
