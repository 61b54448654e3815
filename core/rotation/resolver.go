package rotation

import (
	"errors"
	"fmt"

	"github.com/kilianp07/troopsched/core/model"
)

// ErrUnknownGroup is returned when a troop cannot be mapped to a
// commissioner group.
var ErrUnknownGroup = errors.New("unknown commissioner group")

// Group is one geography-based commissioner partition.
type Group struct {
	ID        string   `json:"id" yaml:"id"`
	Campsites []string `json:"campsites" yaml:"campsites"`
}

// Override pins an activity to a day, superseding the rotation table.
// Empty Group or zero Week match every group or week.
type Override struct {
	Activity string `json:"activity" yaml:"activity"`
	Group    string `json:"group,omitempty" yaml:"group,omitempty"`
	Week     int    `json:"week,omitempty" yaml:"week,omitempty"`
	Day      string `json:"day" yaml:"day"`
}

// Config is the rotation reference data supplied at engine start.
type Config struct {
	Groups []Group `json:"groups" yaml:"groups"`
	// Tables lists, per activity, the day of each group position.
	Tables    map[string][]string `json:"tables" yaml:"tables"`
	Overrides []Override          `json:"overrides" yaml:"overrides"`
	// EarlyWeek activities fall back to the earliest days first.
	EarlyWeek []string `json:"early_week" yaml:"early_week"`
}

// DefaultConfig returns the standard three-commissioner rotation.
func DefaultConfig() Config {
	return Config{
		Groups: []Group{
			{ID: "A", Campsites: []string{"Tecumseh", "Red Cloud", "Massasoit", "Joseph", "Skenandoa"}},
			{ID: "B", Campsites: []string{"Tamanend", "Samoset", "Black Hawk", "Sequoyah"}},
			{ID: "C", Campsites: []string{"Taskalusa", "Powhatan", "Cochise", "Pontiac"}},
		},
		Tables: map[string][]string{
			model.SuperTroop: {"Tuesday", "Wednesday", "Thursday"},
			model.Delta:      {"Monday", "Tuesday", "Wednesday"},
			"Archery":        {"Wednesday", "Friday", "Monday"},
			"Climbing Tower": {"Thursday", "Monday", "Tuesday"},
		},
		EarlyWeek: []string{model.SuperTroop, model.Delta},
	}
}

type override struct {
	group string
	week  int
	day   model.Day
}

// Resolver is a deterministic, stateless lookup over Config. It is safe for
// concurrent use.
type Resolver struct {
	groups    []string
	position  map[string]int
	campsites map[string]string
	tables    map[string][]model.Day
	overrides map[string][]override
	early     map[string]bool
}

// New validates cfg and builds a resolver.
func New(cfg Config) (*Resolver, error) {
	r := &Resolver{
		position:  make(map[string]int),
		campsites: make(map[string]string),
		tables:    make(map[string][]model.Day),
		overrides: make(map[string][]override),
		early:     make(map[string]bool),
	}
	if len(cfg.Groups) == 0 {
		return nil, errors.New("rotation: at least one commissioner group is required")
	}
	for i, g := range cfg.Groups {
		if g.ID == "" {
			return nil, fmt.Errorf("rotation: group %d has no id", i)
		}
		if _, dup := r.position[g.ID]; dup {
			return nil, fmt.Errorf("rotation: duplicate group %q", g.ID)
		}
		r.position[g.ID] = i
		r.groups = append(r.groups, g.ID)
		for _, c := range g.Campsites {
			if prev, ok := r.campsites[c]; ok {
				return nil, fmt.Errorf("rotation: campsite %q in groups %s and %s", c, prev, g.ID)
			}
			r.campsites[c] = g.ID
		}
	}
	for act, days := range cfg.Tables {
		parsed, err := parseDays(days)
		if err != nil {
			return nil, fmt.Errorf("rotation: table %q: %w", act, err)
		}
		if len(parsed) == 0 {
			return nil, fmt.Errorf("rotation: table %q is empty", act)
		}
		r.tables[act] = parsed
	}
	for _, o := range cfg.Overrides {
		d, err := model.ParseDay(o.Day)
		if err != nil {
			return nil, fmt.Errorf("rotation: override %q: %w", o.Activity, err)
		}
		if o.Group != "" {
			if _, ok := r.position[o.Group]; !ok {
				return nil, fmt.Errorf("rotation: override %q: %w %q", o.Activity, ErrUnknownGroup, o.Group)
			}
		}
		r.overrides[o.Activity] = append(r.overrides[o.Activity], override{group: o.Group, week: o.Week, day: d})
	}
	for _, a := range cfg.EarlyWeek {
		r.early[a] = true
	}
	return r, nil
}

// Groups returns the group identifiers in configuration order.
func (r *Resolver) Groups() []string { return append([]string(nil), r.groups...) }

// GroupOf returns the commissioner group of t. An explicit, known
// Commissioner field wins over the campsite lookup.
func (r *Resolver) GroupOf(t model.Troop) (string, error) {
	if t.Commissioner != "" {
		if _, ok := r.position[t.Commissioner]; ok {
			return t.Commissioner, nil
		}
		return "", fmt.Errorf("%w %q for troop %s", ErrUnknownGroup, t.Commissioner, t.Name)
	}
	for _, key := range []string{t.Campsite, t.Name} {
		if g, ok := r.campsites[key]; ok {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w for troop %s", ErrUnknownGroup, t.Name)
}

// Day returns the day responsible for the group's turn at activity in the
// given week. Overrides take precedence over the rotation table; the table
// shifts by one position each week.
func (r *Resolver) Day(activity, group string, week int) (model.Day, bool) {
	pos, ok := r.position[group]
	if !ok {
		return 0, false
	}
	for _, o := range r.overrides[activity] {
		if (o.group == "" || o.group == group) && (o.week == 0 || o.week == week) {
			return o.day, true
		}
	}
	table, ok := r.tables[activity]
	if !ok {
		return 0, false
	}
	shift := 0
	if week > 1 {
		shift = week - 1
	}
	return table[(pos+shift)%len(table)], true
}

// CandidateDays orders every weekday for placing activity for the group:
// the resolved day first, then early-week order for early-week activities
// or nearest day first otherwise. Activities without rotation data keep
// calendar order.
func (r *Resolver) CandidateDays(activity, group string, week int) []model.Day {
	first, ok := r.Day(activity, group, week)
	if !ok {
		return append([]model.Day(nil), model.Days...)
	}
	out := []model.Day{first}
	if r.early[activity] {
		for _, d := range model.Days {
			if d != first {
				out = append(out, d)
			}
		}
		return out
	}
	for dist := 1; dist < len(model.Days); dist++ {
		for _, d := range []model.Day{first - model.Day(dist), first + model.Day(dist)} {
			if d.Valid() {
				out = append(out, d)
			}
		}
	}
	return out
}

// HasRotation reports whether the activity has rotation data.
func (r *Resolver) HasRotation(activity string) bool {
	_, ok := r.tables[activity]
	return ok || len(r.overrides[activity]) > 0
}

func parseDays(in []string) ([]model.Day, error) {
	out := make([]model.Day, 0, len(in))
	for _, s := range in {
		d, err := model.ParseDay(s)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
