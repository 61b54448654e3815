// Package loader reads and validates week inputs and activity catalogs
// before they reach the engine.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/troopsched/core/model"
)

// ErrInvalidInput wraps every rejection of malformed input.
var ErrInvalidInput = errors.New("invalid input")

// TroopInput is one troop as written in a week file.
type TroopInput struct {
	Name         string            `json:"name" yaml:"name" validate:"required"`
	Scouts       int               `json:"scouts" yaml:"scouts" validate:"gte=0"`
	Adults       int               `json:"adults" yaml:"adults" validate:"gte=0"`
	Campsite     string            `json:"campsite,omitempty" yaml:"campsite,omitempty"`
	Commissioner string            `json:"commissioner,omitempty" yaml:"commissioner,omitempty"`
	Preferences  []string          `json:"preferences" yaml:"preferences" validate:"dive,required"`
	DayRequests  map[string]string `json:"day_requests,omitempty" yaml:"day_requests,omitempty" validate:"dive,keys,required,endkeys,required"`
}

// WeekInput is the content of a week file.
type WeekInput struct {
	Week   int          `json:"week" yaml:"week" validate:"required,gte=1"`
	Troops []TroopInput `json:"troops" yaml:"troops" validate:"required,min=1,dive"`
}

// Week is a validated roster ready for the engine.
type Week struct {
	Number int
	Troops []model.Troop
}

// Loader validates inputs against a catalog.
type Loader struct {
	cat      *model.Catalog
	validate *validator.Validate
}

// New creates a loader. A nil validator gets a default one.
func New(cat *model.Catalog, validate *validator.Validate) *Loader {
	if validate == nil {
		validate = validator.New()
	}
	return &Loader{cat: cat, validate: validate}
}

// LoadWeek reads a week file. The format follows the extension: .yaml and
// .yml are YAML, anything else JSON.
func (l *Loader) LoadWeek(path string) (Week, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Week{}, fmt.Errorf("read week %s: %w", path, err)
	}
	w, err := l.DecodeWeek(bytes.NewReader(data), formatOf(path))
	if err != nil {
		return Week{}, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// DecodeWeek decodes and validates a week in format "json" or "yaml".
func (l *Loader) DecodeWeek(r io.Reader, format string) (Week, error) {
	var in WeekInput
	if err := decode(r, format, &in); err != nil {
		return Week{}, err
	}
	return l.Week(in)
}

// Week validates in and converts it to engine types.
func (l *Loader) Week(in WeekInput) (Week, error) {
	if err := l.validate.Struct(in); err != nil {
		return Week{}, fmt.Errorf("%w: %s", ErrInvalidInput, describe(err))
	}
	out := Week{Number: in.Week}
	seen := make(map[string]bool, len(in.Troops))
	var problems []string
	for _, ti := range in.Troops {
		if seen[ti.Name] {
			problems = append(problems, fmt.Sprintf("troop %q listed twice", ti.Name))
			continue
		}
		seen[ti.Name] = true
		t, errs := l.troop(ti)
		problems = append(problems, errs...)
		out.Troops = append(out.Troops, t)
	}
	if len(problems) > 0 {
		return Week{}, fmt.Errorf("%w: week %d: %s", ErrInvalidInput, in.Week, strings.Join(problems, "; "))
	}
	return out, nil
}

func (l *Loader) troop(in TroopInput) (model.Troop, []string) {
	var problems []string
	t := model.Troop{
		Name:         in.Name,
		Campsite:     in.Campsite,
		Commissioner: in.Commissioner,
		Scouts:       in.Scouts,
		Adults:       in.Adults,
	}
	if t.People() == 0 {
		problems = append(problems, fmt.Sprintf("troop %q has no people", in.Name))
	}
	ranked := make(map[string]bool, len(in.Preferences))
	for _, p := range in.Preferences {
		if ranked[p] {
			problems = append(problems, fmt.Sprintf("troop %q ranks %q twice", in.Name, p))
			continue
		}
		if _, ok := l.cat.Get(p); !ok {
			problems = append(problems, fmt.Sprintf("troop %q ranks unknown activity %q", in.Name, p))
			continue
		}
		ranked[p] = true
		t.Preferences = append(t.Preferences, p)
	}
	requested := make([]string, 0, len(in.DayRequests))
	for activity := range in.DayRequests {
		requested = append(requested, activity)
	}
	sort.Strings(requested)
	for _, activity := range requested {
		day := in.DayRequests[activity]
		d, err := model.ParseDay(day)
		if err != nil {
			problems = append(problems, fmt.Sprintf("troop %q: %v", in.Name, err))
			continue
		}
		a, ok := l.cat.Get(activity)
		if !ok {
			problems = append(problems, fmt.Sprintf("troop %q requests a day for unknown activity %q", in.Name, activity))
			continue
		}
		if !a.AllowedOn(d) {
			problems = append(problems, fmt.Sprintf("troop %q requests %s on %s", in.Name, activity, d))
			continue
		}
		if t.DayRequests == nil {
			t.DayRequests = make(map[string]model.Day)
		}
		t.DayRequests[activity] = d
	}
	return t, problems
}

// LoadCatalog reads an activity list and builds a catalog from it.
func LoadCatalog(path string) (*model.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return DecodeCatalog(f, formatOf(path))
}

// DecodeCatalog decodes a list of activities.
func DecodeCatalog(r io.Reader, format string) (*model.Catalog, error) {
	var acts []model.Activity
	if err := decode(r, format, &acts); err != nil {
		return nil, err
	}
	cat, err := model.NewCatalog(acts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return cat, nil
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

func decode(r io.Reader, format string, out any) error {
	switch format {
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(out); err != nil {
			return fmt.Errorf("%w: decode yaml: %v", ErrInvalidInput, err)
		}
	case "json", "":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(out); err != nil {
			return fmt.Errorf("%w: decode json: %v", ErrInvalidInput, err)
		}
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(msgs, ", ")
}
