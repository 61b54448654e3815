package config

import (
	"errors"
	"fmt"

	"github.com/kilianp07/troopsched/core/constraints"
	"github.com/kilianp07/troopsched/core/engine"
	"github.com/kilianp07/troopsched/core/factory"
	"github.com/kilianp07/troopsched/core/rotation"
	"github.com/kilianp07/troopsched/core/scoring"
)

// EngineConfig tunes the placement phases and the guarantee chain.
type EngineConfig struct {
	TopCore     int      `json:"top_n_core"`
	TopExtended int      `json:"top_n_extended"`
	MinExtended int      `json:"min_extended"`
	FillOrder   []string `json:"fill_order"`
	// Tiers are the guarantee strategies tried in order.
	Tiers []factory.ModuleConfig `json:"tiers"`
}

func (c *EngineConfig) SetDefaults() {
	def := engine.DefaultConfig()
	if c.TopCore == 0 {
		c.TopCore = def.TopCore
	}
	if c.TopExtended == 0 {
		c.TopExtended = def.TopExtended
	}
	if c.MinExtended == 0 {
		c.MinExtended = def.MinExtended
	}
	if len(c.FillOrder) == 0 {
		c.FillOrder = def.FillOrder
	}
	if len(c.Tiers) == 0 {
		c.Tiers = []factory.ModuleConfig{{Type: "swap"}, {Type: "force"}, {Type: "emergency"}}
	}
}

// Validate checks what can be checked without the catalog.
func (c EngineConfig) Validate() error {
	if c.TopCore < 0 || c.TopExtended < c.TopCore {
		return fmt.Errorf("need 0 <= top_n_core <= top_n_extended, got %d and %d", c.TopCore, c.TopExtended)
	}
	for i, t := range c.Tiers {
		if t.Type == "" {
			return fmt.Errorf("tiers[%d]: type is required", i)
		}
	}
	return nil
}

// Phases returns the engine phase settings.
func (c EngineConfig) Phases() engine.Config {
	return engine.Config{
		TopCore:     c.TopCore,
		TopExtended: c.TopExtended,
		MinExtended: c.MinExtended,
		FillOrder:   append([]string(nil), c.FillOrder...),
	}
}

// StaffConfig holds the per-slot staff limits.
type StaffConfig struct {
	HardCap int `json:"hard_cap"`
	Target  int `json:"target"`
}

func (c *StaffConfig) SetDefaults() {
	def := constraints.DefaultRules()
	if c.HardCap == 0 {
		c.HardCap = def.StaffHardCap
	}
	if c.Target == 0 {
		c.Target = def.StaffTarget
	}
}

func (c StaffConfig) Validate() error {
	if c.HardCap <= 0 {
		return errors.New("hard_cap must be > 0")
	}
	if c.Target > c.HardCap {
		return fmt.Errorf("target %d above hard_cap %d", c.Target, c.HardCap)
	}
	return nil
}

// BeachConfig limits staffed beach sessions.
type BeachConfig struct {
	MaxStaffedPerSlot int `json:"max_staffed_per_slot"`
}

func (c *BeachConfig) SetDefaults() {
	if c.MaxStaffedPerSlot == 0 {
		c.MaxStaffedPerSlot = constraints.DefaultRules().BeachMaxStaffed
	}
}

func (c BeachConfig) Validate() error {
	if c.MaxStaffedPerSlot <= 0 {
		return errors.New("max_staffed_per_slot must be > 0")
	}
	return nil
}

// Rules returns the validator limits from the staff and beach sections.
func (c Config) Rules() constraints.Rules {
	r := constraints.DefaultRules()
	r.StaffHardCap = c.Staff.HardCap
	r.StaffTarget = c.Staff.Target
	r.BeachMaxStaffed = c.Beach.MaxStaffedPerSlot
	return r
}

// ScoringConfig overrides the scoring weights. Zero fields keep defaults.
type ScoringConfig struct {
	scoring.Weights `json:",squash"`
}

func (c *ScoringConfig) SetDefaults() {
	def := scoring.DefaultWeights()
	w := &c.Weights
	if len(w.RankPoints) == 0 {
		w.RankPoints = def.RankPoints
	}
	if w.TopCount == 0 {
		w.TopCount = def.TopCount
	}
	setFloat(&w.TopMissPenalty, def.TopMissPenalty)
	setFloat(&w.HardPenalty, def.HardPenalty)
	setFloat(&w.SoftPenalty, def.SoftPenalty)
	setFloat(&w.BeachSlotTwoPenalty, def.BeachSlotTwoPenalty)
	setFloat(&w.ClusterGapPenalty, def.ClusterGapPenalty)
	setFloat(&w.ClusterExcessPenalty, def.ClusterExcessPenalty)
	setFloat(&w.StaffOverTarget, def.StaffOverTarget)
	setFloat(&w.SharingBonus, def.SharingBonus)
	if w.ClusterSessionsPerDay == 0 {
		w.ClusterSessionsPerDay = def.ClusterSessionsPerDay
	}
}

func setFloat(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

// RotationConfig holds commissioner groups and rotation tables.
type RotationConfig struct {
	rotation.Config `json:",squash"`
}

func (c *RotationConfig) SetDefaults() {
	def := rotation.DefaultConfig()
	if len(c.Groups) == 0 {
		c.Groups = def.Groups
	}
	if len(c.Tables) == 0 {
		c.Tables = def.Tables
	}
	if c.EarlyWeek == nil {
		c.EarlyWeek = def.EarlyWeek
	}
}

// CatalogConfig points at an activity file. Empty uses the built-in catalog.
type CatalogConfig struct {
	Path string `json:"path"`
}
