package engine

import "github.com/kilianp07/troopsched/core/model"

const defaultMaxBlockers = 2

// SwapStrategy frees a position by relocating the entries in the way. Every
// relocated entry must find a new valid position; nothing is dropped.
type SwapStrategy struct {
	MaxBlockers int `json:"max_blockers"`
}

func (SwapStrategy) Name() string { return "swap" }

func (s SwapStrategy) Attempt(w *Week, d Demand) bool {
	a, ok := w.e.cat.Get(d.Activity)
	if !ok || w.satisfied(d.Troop, d.Activity) {
		return ok
	}
	movable := func(e model.Entry) bool { return w.priority(e) != priorityAnchor }
	var best *tx
	for _, pos := range w.positions(w.troops[d.Troop], a, d.Days) {
		x, blockers := w.clear(pos, a, movable, s.MaxBlockers)
		if x == nil || len(blockers) == 0 {
			continue
		}
		moved := true
		for _, b := range blockers {
			if !x.relocate(b) {
				moved = false
				break
			}
		}
		if moved && (best == nil || x.gain > best.gain) {
			best = x
		}
	}
	if best == nil {
		return false
	}
	best.commit()
	return true
}
