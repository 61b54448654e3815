package scenarios

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/troopsched/app"
	"github.com/kilianp07/troopsched/config"
	"github.com/kilianp07/troopsched/core/constraints"
	"github.com/kilianp07/troopsched/core/engine"
	"github.com/kilianp07/troopsched/core/model"
	"github.com/kilianp07/troopsched/infra/metrics"
)

func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	cfg := config.Default()
	cfg.Logging.Backend = "memory"
	cfg.Logging.Path = ""
	svc, err := app.New(cfg)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	defer func() { _ = svc.Close() }()
	svc.Sink = sink

	week, err := svc.Loader.Week(sc.Week)
	if err != nil {
		t.Fatalf("week input: %v", err)
	}
	res, err := svc.RunWeek(context.Background(), week)
	if errors.Is(err, engine.ErrInvariantBreach) || res == nil {
		t.Fatalf("scenario %s: %v", sc.Name, err)
	}
	if sc.Expected.Complete && err != nil {
		t.Errorf("scenario %s expected a complete week: %v", sc.Name, err)
	}
	if n := testutil.CollectAndCount(reg, "troopsched_week_score"); n != 1 {
		t.Errorf("scenario %s recorded %d score series", sc.Name, n)
	}
	checkWeek(t, sc, res)
}

func checkWeek(t *testing.T, sc *Scenario, res *engine.Result) {
	t.Helper()
	exp := sc.Expected
	s := res.Schedule
	if hard := constraints.CountHard(res.Report.Violations); hard != 0 {
		t.Errorf("scenario %s has %d hard violations", sc.Name, hard)
	}
	for _, tr := range res.Report.Troops {
		if exp.FilledSlots > 0 && tr.Filled != exp.FilledSlots {
			t.Errorf("troop %s filled %d slots, want %d", tr.Troop, tr.Filled, exp.FilledSlots)
		}
		if exp.TopCore > 0 && tr.TopCore < min(exp.TopCore, tr.TopCoreOf) {
			t.Errorf("troop %s got %d of its top preferences, want %d", tr.Troop, tr.TopCore, exp.TopCore)
		}
	}
	for _, tr := range s.Troops() {
		held := make(map[string]int)
		for _, e := range s.TroopEntries(tr.Name) {
			held[e.Activity]++
			if want, ok := exp.FixedDays[e.Activity]; ok && e.Day.String() != want {
				t.Errorf("troop %s has %s on %s, want %s", tr.Name, e.Activity, e.Day, want)
			}
		}
		for _, a := range exp.Anchors {
			if held[a] != 1 {
				t.Errorf("troop %s holds %s %d times", tr.Name, a, held[a])
			}
		}
	}
	if exp.MaxStaff > 0 {
		for _, ts := range model.AllSlots() {
			if n := res.Report.Staff.PerSlot[ts.String()]; n > exp.MaxStaff {
				t.Errorf("slot %s needs %d staff, cap %d", ts, n, exp.MaxStaff)
			}
		}
	}
	if exp.SharedSessions > 0 && res.Report.Score.SharedSessions != exp.SharedSessions {
		t.Errorf("scenario %s shared %d sessions, want %d", sc.Name, res.Report.Score.SharedSessions, exp.SharedSessions)
	}
}
