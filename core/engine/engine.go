// Package engine fills a camp week with activities. A run goes through four
// phases in order (foundation, core requests, optimization, cleanup) over a
// single-writer schedule, validating every entry before it is committed and
// escalating top preferences through an ordered chain of guarantee tiers.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kilianp07/troopsched/core/constraints"
	"github.com/kilianp07/troopsched/core/events"
	"github.com/kilianp07/troopsched/core/logger"
	"github.com/kilianp07/troopsched/core/model"
	"github.com/kilianp07/troopsched/core/rotation"
	"github.com/kilianp07/troopsched/core/schedule"
	"github.com/kilianp07/troopsched/core/scoring"
	"github.com/kilianp07/troopsched/internal/eventbus"
)

var (
	// ErrInvariantBreach reports a produced schedule holding a HARD
	// placement violation. The output must not be trusted.
	ErrInvariantBreach = errors.New("schedule breaks a hard invariant")
	// ErrIncomplete reports idle slots or missing anchors left after
	// cleanup.
	ErrIncomplete = errors.New("schedule incomplete")
)

// Config tunes the placement phases.
type Config struct {
	// TopCore preferences per troop go through the full guarantee chain.
	TopCore int `json:"top_n_core"`
	// TopExtended bounds the second pass of Phase B.
	TopExtended int `json:"top_n_extended"`
	// MinExtended is the number of satisfied top-extended preferences below
	// which the swap tier is tried for the second pass.
	MinExtended int `json:"min_extended"`
	// FillOrder lists the activities used to close open slots, by
	// preference on ties.
	FillOrder []string `json:"fill_order"`
}

// DefaultConfig returns the standard phase settings.
func DefaultConfig() Config {
	return Config{
		TopCore:     5,
		TopExtended: 10,
		MinExtended: 7,
		FillOrder:   append([]string(nil), model.DefaultFillOrder...),
	}
}

// Validate checks the settings against the catalog.
func (c Config) Validate(cat *model.Catalog) error {
	if c.TopCore < 0 || c.TopExtended < c.TopCore {
		return fmt.Errorf("need 0 <= top_n_core <= top_n_extended, got %d and %d", c.TopCore, c.TopExtended)
	}
	if c.MinExtended < 0 || c.MinExtended > c.TopExtended {
		return fmt.Errorf("min_extended %d outside 0..%d", c.MinExtended, c.TopExtended)
	}
	if len(c.FillOrder) == 0 {
		return errors.New("fill_order is empty")
	}
	for _, name := range c.FillOrder {
		if _, err := cat.Lookup(name); err != nil {
			return fmt.Errorf("fill_order: %w", err)
		}
	}
	return nil
}

// Engine schedules weeks. It holds only read-only collaborators, so one
// Engine may run several weeks concurrently.
type Engine struct {
	cat   *model.Catalog
	v     *constraints.Validator
	sc    *scoring.Scorer
	rot   *rotation.Resolver
	cfg   Config
	chain Chain
	log   logger.Logger
	bus   eventbus.Publisher[events.Event]

	anchors map[string]bool
	fill    map[string]bool
}

// NewEngine creates an engine using the default guarantee chain.
func NewEngine(v *constraints.Validator, sc *scoring.Scorer, rot *rotation.Resolver, cfg Config, log logger.Logger) (*Engine, error) {
	if err := cfg.Validate(v.Catalog()); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	e := &Engine{
		cat:     v.Catalog(),
		v:       v,
		sc:      sc,
		rot:     rot,
		cfg:     cfg,
		chain:   DefaultChain(),
		log:     logger.OrNop(log),
		anchors: make(map[string]bool),
		fill:    make(map[string]bool),
	}
	for _, a := range v.Rules().Anchors {
		e.anchors[a.Activity] = true
	}
	for _, name := range cfg.FillOrder {
		e.fill[name] = true
	}
	return e, nil
}

// SetChain replaces the guarantee chain. It must be called before Run.
func (e *Engine) SetChain(c Chain) {
	if len(c) > 0 {
		e.chain = c
	}
}

// SetBus configures the bus receiving phase, escalation and week events.
func (e *Engine) SetBus(bus eventbus.Publisher[events.Event]) { e.bus = bus }

// Chain returns the configured guarantee chain.
func (e *Engine) Chain() Chain { return e.chain }

// Result is the outcome of one week run.
type Result struct {
	RunID    string             `json:"run_id"`
	Week     int                `json:"week"`
	Schedule *schedule.Schedule `json:"-"`
	Report   Report             `json:"report"`
	// Ledger is the sum of every incremental score change committed during
	// the run, starting from the score of the empty week.
	Ledger   float64       `json:"ledger"`
	Duration time.Duration `json:"duration"`
}

// Run schedules one week. The schedule is frozen on return. A run that ends
// with idle slots or a broken invariant returns the Result alongside
// ErrIncomplete or ErrInvariantBreach so the report can still be surfaced.
func (e *Engine) Run(ctx context.Context, week int, troops []model.Troop) (*Result, error) {
	start := time.Now()
	roster, err := e.resolveGroups(troops)
	if err != nil {
		return nil, err
	}
	w := e.newWeek(uuid.NewString(), week, roster)
	e.log.Infof("week %d: scheduling %d troops (run %s)", week, len(roster), w.runID)

	phases := []struct {
		name string
		fn   func()
	}{
		{PhaseFoundation, w.foundation},
		{PhaseCore, w.coreRequests},
		{PhaseOptimize, w.optimize},
		{PhaseCleanup, w.cleanup},
	}
	for _, p := range phases {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("week %d: %w", week, err)
		}
		w.runPhase(p.name, p.fn)
	}

	w.s.Freeze()
	res := &Result{RunID: w.runID, Week: week, Schedule: w.s, Ledger: w.ledger}
	res.Report = w.report()
	res.Duration = time.Since(start)
	runErr := w.verdict(res.Report)
	e.finish(res, runErr)
	return res, runErr
}

func (e *Engine) resolveGroups(troops []model.Troop) ([]model.Troop, error) {
	out := make([]model.Troop, len(troops))
	seen := make(map[string]bool, len(troops))
	for i, t := range troops {
		if seen[t.Name] {
			return nil, fmt.Errorf("duplicate troop %q", t.Name)
		}
		seen[t.Name] = true
		g, err := e.rot.GroupOf(t)
		if err != nil {
			return nil, fmt.Errorf("troop %s: %w", t.Name, err)
		}
		t.Commissioner = g
		out[i] = t
	}
	return out, nil
}

func (w *Week) verdict(r Report) error {
	if n := constraints.CountHard(w.e.v.ValidatePlacement(w.s)); n > 0 {
		w.e.log.Errorf("week %d: %d hard placement violations in produced schedule", w.week, n)
		return fmt.Errorf("week %d: %w (%d violations)", w.week, ErrInvariantBreach, n)
	}
	if n := r.HardViolations; n > 0 {
		return fmt.Errorf("week %d: %w (%d idle slots or anchor gaps)", w.week, ErrIncomplete, n)
	}
	return nil
}

func (e *Engine) finish(res *Result, err error) {
	weekScore.WithLabelValues(fmt.Sprint(res.Week)).Set(res.Report.Score.Total)
	runDuration.Observe(res.Duration.Seconds())
	for _, u := range res.Report.Unresolved {
		unresolvedTotal.WithLabelValues(string(u.Kind)).Inc()
	}
	e.publish(events.WeekEvent{
		Run: res.RunID, Week: res.Week, Score: res.Report.Score.Total,
		Unresolved: len(res.Report.Unresolved), Err: err, Duration: res.Duration,
	})
	if err == nil {
		e.log.Infof("week %d: done, score %.1f, %d unresolved", res.Week, res.Report.Score.Total, len(res.Report.Unresolved))
	}
}

func (e *Engine) publish(ev events.Event) {
	if e.bus != nil {
		e.bus.Publish(ev)
	}
}
