package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/troopsched/config"
	"github.com/kilianp07/troopsched/core/constraints"
	"github.com/kilianp07/troopsched/core/engine"
	"github.com/kilianp07/troopsched/core/events"
	coremetrics "github.com/kilianp07/troopsched/core/metrics"
	"github.com/kilianp07/troopsched/core/model"
	coremon "github.com/kilianp07/troopsched/core/monitoring"
	"github.com/kilianp07/troopsched/core/rotation"
	"github.com/kilianp07/troopsched/core/scoring"
	"github.com/kilianp07/troopsched/infra/logger"
	"github.com/kilianp07/troopsched/infra/monitoring"
	"github.com/kilianp07/troopsched/infra/store"
	"github.com/kilianp07/troopsched/internal/eventbus"
	"github.com/kilianp07/troopsched/internal/loader"
	"github.com/kilianp07/troopsched/pkg/export"

	// registers the prometheus and influx sinks
	_ "github.com/kilianp07/troopsched/infra/metrics"
)

// Service wires the engine to its inputs, the run store and the metrics
// sinks.
type Service struct {
	Engine    *engine.Engine
	Loader    *loader.Loader
	Catalog   *model.Catalog
	Validator *constraints.Validator
	Scorer    *scoring.Scorer
	Store     store.RunStore
	Sink      coremetrics.RunSink

	bus         *eventbus.Bus[events.Event]
	log         logger.Logger
	parallelism int
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.SetDriver(cfg.Logging.Driver); err != nil {
		return nil, err
	}
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	logg := logger.New("service")
	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)
	cat := model.DefaultCatalog()
	if cfg.Catalog.Path != "" {
		if cat, err = loader.LoadCatalog(cfg.Catalog.Path); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
	}
	if err := cfg.Scoring.Validate(); err != nil {
		return nil, fmt.Errorf("scoring: %w", err)
	}
	v := constraints.NewValidator(cat, cfg.Rules())
	sc := scoring.New(v, cfg.Scoring.Weights)
	rot, err := rotation.New(cfg.Rotation.Config)
	if err != nil {
		return nil, fmt.Errorf("rotation: %w", err)
	}
	eng, err := engine.NewEngine(v, sc, rot, cfg.Engine.Phases(), logger.New("engine"))
	if err != nil {
		return nil, err
	}
	chain, err := engine.NewChain(cfg.Engine.Tiers)
	if err != nil {
		return nil, fmt.Errorf("guarantee chain: %w", err)
	}
	eng.SetChain(chain)
	bus := eventbus.New[events.Event](256)
	eng.SetBus(bus)

	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sinks: %w", err)
	}
	st, err := store.New(cfg.Logging.Store())
	if err != nil {
		return nil, fmt.Errorf("run store: %w", err)
	}
	logg.Infof("guarantee chain %v, store %s", chain.Names(), cfg.Logging.Backend)
	return &Service{
		Engine:      eng,
		Loader:      loader.New(cat, nil),
		Catalog:     cat,
		Validator:   v,
		Scorer:      sc,
		Store:       st,
		Sink:        sink,
		bus:         bus,
		log:         logg,
		parallelism: cfg.Weeks.Parallelism,
	}, nil
}

// Bus exposes the scheduling event bus.
func (s *Service) Bus() *eventbus.Bus[events.Event] { return s.bus }

// LoadWeeks reads and validates week files.
func (s *Service) LoadWeeks(paths []string) ([]loader.Week, error) {
	weeks := make([]loader.Week, 0, len(paths))
	for _, p := range paths {
		w, err := s.Loader.LoadWeek(p)
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, w)
	}
	return weeks, nil
}

// RunWeek schedules one week and records the outcome. The engine verdict
// is returned with the result; store failures are returned alone.
func (s *Service) RunWeek(ctx context.Context, w loader.Week) (*engine.Result, error) {
	res, runErr := s.Engine.Run(ctx, w.Number, w.Troops)
	if res == nil {
		return nil, runErr
	}
	if runErr != nil {
		coremon.CaptureException(runErr, map[string]string{
			"week":   fmt.Sprint(res.Week),
			"run_id": res.RunID,
		})
	}
	if err := s.record(ctx, res, runErr); err != nil {
		return nil, err
	}
	return res, runErr
}

// RunWeeks schedules independent weeks in parallel. Results follow the
// input order. Engine verdicts of individual weeks are joined in the
// returned error and never stop the other weeks.
func (s *Service) RunWeeks(ctx context.Context, weeks []loader.Week) ([]*engine.Result, error) {
	stop := s.forwardEscalations()
	defer stop()

	results := make([]*engine.Result, len(weeks))
	verdicts := make([]error, len(weeks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, w := range weeks {
		g.Go(func() error {
			defer coremon.Recover()
			res, err := s.RunWeek(gctx, w)
			if res == nil {
				return err
			}
			results[i], verdicts[i] = res, err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, errors.Join(verdicts...)
}

func (s *Service) record(ctx context.Context, res *engine.Result, runErr error) error {
	now := time.Now()
	b := res.Report.Score
	rec := store.RunRecord{
		RunID:          res.RunID,
		Week:           res.Week,
		Timestamp:      now,
		Score:          b.Total,
		Unresolved:     len(res.Report.Unresolved),
		HardViolations: res.Report.HardViolations,
		DurationMS:     res.Duration.Milliseconds(),
		Snapshot:       export.FromResult(res),
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}
	if err := s.Store.Append(ctx, rec); err != nil {
		return fmt.Errorf("store week %d: %w", res.Week, err)
	}
	wr := coremetrics.WeekRecord{
		RunID:  res.RunID,
		Week:   res.Week,
		Troops: len(rec.Snapshot.Troops),
		Score:  b.Total,
		Components: map[string]float64{
			"preference":     b.Preference,
			"top_miss":       b.TopMiss,
			"sharing":        b.Sharing,
			"cluster_excess": b.ClusterExcess,
			"cluster_gap":    b.ClusterGap,
			"soft":           b.Soft,
			"staff":          b.Staff,
			"hard":           b.Hard,
		},
		Entries:        len(rec.Snapshot.Entries),
		SharedSessions: b.SharedSessions,
		HardViolations: res.Report.HardViolations,
		Unresolved:     rec.Unresolved,
		StaffMean:      res.Report.Staff.Mean,
		StaffStdDev:    res.Report.Staff.StdDev,
		Duration:       res.Duration,
		Time:           now,
	}
	if err := s.Sink.RecordWeek(wr); err != nil {
		s.log.Warnf("metrics sink week %d: %v", res.Week, err)
	}
	return nil
}

// forwardEscalations relays escalation events to the sink until the
// returned stop function is called. stop drains pending events first.
func (s *Service) forwardEscalations() (stop func()) {
	rec, ok := s.Sink.(coremetrics.EscalationRecorder)
	if !ok {
		return func() {}
	}
	ch := s.bus.Subscribe()
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	handle := func(ev events.Event) {
		e, ok := ev.(events.EscalationEvent)
		if !ok {
			return
		}
		if err := rec.RecordEscalation(coremetrics.EscalationRecord{
			RunID: e.Run, Week: e.Week, Troop: e.Troop, Activity: e.Activity,
			Tier: e.Tier, Outcome: e.Outcome, Time: time.Now(),
		}); err != nil {
			s.log.Warnf("metrics sink escalation: %v", err)
		}
	}
	go func() {
		defer wg.Done()
		for {
			select {
			case ev, ok := <-ch:
				if !ok {
					return
				}
				handle(ev)
			case <-done:
				for {
					select {
					case ev, ok := <-ch:
						if !ok {
							return
						}
						handle(ev)
					default:
						return
					}
				}
			}
		}
	}()
	return func() {
		close(done)
		wg.Wait()
		s.bus.Unsubscribe(ch)
	}
}

// Close releases the store and the bus and flushes error reports.
func (s *Service) Close() error {
	s.bus.Close()
	coremon.Flush(2 * time.Second)
	return s.Store.Close()
}
