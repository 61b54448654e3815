package model

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownActivity is returned when a name is missing from the catalog.
var ErrUnknownActivity = errors.New("unknown activity")

// Catalog indexes the activities available for a run. It is read-only once
// built and safe for concurrent use.
type Catalog struct {
	byName map[string]*Activity
	order  []string
}

// NewCatalog builds a catalog, rejecting duplicate or unnamed activities.
func NewCatalog(acts []Activity) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]*Activity, len(acts))}
	for i := range acts {
		a := acts[i]
		if a.Name == "" {
			return nil, fmt.Errorf("activity %d has no name", i)
		}
		if _, dup := c.byName[a.Name]; dup {
			return nil, fmt.Errorf("duplicate activity %q", a.Name)
		}
		if a.Duration <= 0 {
			a.Duration = 1
		}
		c.byName[a.Name] = &a
		c.order = append(c.order, a.Name)
	}
	return c, nil
}

// Get returns the activity with the given name.
func (c *Catalog) Get(name string) (*Activity, bool) {
	a, ok := c.byName[name]
	return a, ok
}

// Lookup is Get with an error for unknown names.
func (c *Catalog) Lookup(name string) (*Activity, error) {
	a, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownActivity, name)
	}
	return a, nil
}

// All returns the activities in insertion order.
func (c *Catalog) All() []*Activity {
	out := make([]*Activity, 0, len(c.order))
	for _, n := range c.order {
		out = append(out, c.byName[n])
	}
	return out
}

// Names returns the sorted activity names.
func (c *Catalog) Names() []string {
	out := append([]string(nil), c.order...)
	sort.Strings(out)
	return out
}

// Len returns the number of activities.
func (c *Catalog) Len() int { return len(c.order) }
