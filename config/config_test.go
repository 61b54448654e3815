package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kilianp07/troopsched/core/constraints"
	"github.com/kilianp07/troopsched/core/scoring"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `engine:
  top_n_core: 4
  fill_order: ["Campsite Free Time"]
  tiers:
    - type: swap
      conf:
        max_blockers: 3
    - type: emergency
staff:
  hard_cap: 12
  target: 10
scoring:
  sharing_bonus: 6
rotation:
  overrides:
    - activity: Super Troop
      group: C
      day: Monday
logging:
  backend: sqlite
  path: runs.db
  level: debug
  driver: logrus
sentry:
  dsn: "https://key@sentry.example/1"
  environment: camp
metrics:
  prometheus_addr: ":9100"
  sinks:
    - type: "nop"
weeks:
  parallelism: 2
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"top_n_core", cfg.Engine.TopCore, 4},
		{"top_n_extended default", cfg.Engine.TopExtended, 10},
		{"fill_order", len(cfg.Engine.FillOrder), 1},
		{"tiers", len(cfg.Engine.Tiers), 2},
		{"tier conf", cfg.Engine.Tiers[0].Conf["max_blockers"], 3},
		{"hard_cap", cfg.Staff.HardCap, 12},
		{"beach default", cfg.Beach.MaxStaffedPerSlot, 4},
		{"sharing_bonus", cfg.Scoring.SharingBonus, 6.0},
		{"hard_penalty default", cfg.Scoring.HardPenalty, 1000.0},
		{"rotation groups default", len(cfg.Rotation.Groups), 3},
		{"rotation override", len(cfg.Rotation.Overrides), 1},
		{"logging.backend", cfg.Logging.Backend, "sqlite"},
		{"logging.level", cfg.Logging.Level, "debug"},
		{"logging.driver", cfg.Logging.Driver, "logrus"},
		{"sentry.environment", cfg.Sentry.Environment, "camp"},
		{"metrics.addr", cfg.Metrics.PrometheusAddr, ":9100"},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"api default", cfg.API.Addr, ":8080"},
		{"parallelism", cfg.Weeks.Parallelism, 2},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %v (%T), want %v (%T)", c.name, c.got, c.got, c.want, c.want)
		}
	}
	rules := cfg.Rules()
	if rules.StaffHardCap != 12 || rules.StaffTarget != 10 || len(rules.Anchors) != 2 {
		t.Errorf("unexpected rules: %+v", rules)
	}
	phases := cfg.Engine.Phases()
	if phases.TopCore != 4 || phases.MinExtended != 7 {
		t.Errorf("unexpected phases: %+v", phases)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"api": {"addr": ":1"}}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("K_API__ADDR", ":2")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.API.Addr != ":2" {
		t.Fatalf("expected env override, got %s", cfg.API.Addr)
	}
}

func TestLoadEnvOverridesNestedSections(t *testing.T) {
	t.Setenv("K_STAFF__HARD_CAP", "12")
	t.Setenv("K_API__ADDR", ":9999")
	t.Setenv("K_LOGGING__BACKEND", "memory")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Staff.HardCap != 12 {
		t.Errorf("staff.hard_cap: got %d, want 12", cfg.Staff.HardCap)
	}
	if cfg.API.Addr != ":9999" {
		t.Errorf("api.addr: got %s, want :9999", cfg.API.Addr)
	}
	if cfg.Logging.Backend != "memory" {
		t.Errorf("logging.backend: got %s, want memory", cfg.Logging.Backend)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Logging.Backend != "jsonl" || cfg.Logging.Path != "runs.jsonl" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Scoring.Weights.TopCount != scoring.DefaultWeights().TopCount {
		t.Fatalf("scoring defaults not applied")
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	if _, err := Load("config.toml"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"staff target above cap": func(c *Config) { c.Staff.Target = 20 },
		"bad backend":            func(c *Config) { c.Logging.Backend = "postgres" },
		"no path":                func(c *Config) { c.Logging.Path = "" },
		"bad log driver":         func(c *Config) { c.Logging.Driver = "glog" },
		"core above extended":    func(c *Config) { c.Engine.TopCore = 12 },
		"unnamed tier":           func(c *Config) { c.Engine.Tiers[0].Type = "" },
		"parallelism":            func(c *Config) { c.Weeks.Parallelism = 0 },
		"cluster sessions":       func(c *Config) { c.Scoring.ClusterSessionsPerDay = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if Default().Rules().BeachMaxStaffed != constraints.DefaultRules().BeachMaxStaffed {
		t.Fatalf("beach default mismatch")
	}
}
