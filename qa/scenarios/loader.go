package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/troopsched/internal/loader"
)

// Expected lists what a scheduled scenario week must satisfy. Zero values
// are not checked.
type Expected struct {
	Complete       bool              `yaml:"complete"`
	FilledSlots    int               `yaml:"filled_slots"`
	Anchors        []string          `yaml:"anchors,omitempty"`
	FixedDays      map[string]string `yaml:"fixed_days,omitempty"`
	MaxStaff       int               `yaml:"max_staff,omitempty"`
	SharedSessions int               `yaml:"shared_sessions,omitempty"`
	TopCore        int               `yaml:"top_core,omitempty"`
}

// Scenario is one week of troops and its expectations.
type Scenario struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Week        loader.WeekInput `yaml:"week"`
	Expected    Expected         `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
