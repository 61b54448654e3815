// Package store persists completed week runs.
package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kilianp07/troopsched/pkg/export"
)

// RunRecord captures one completed week run.
type RunRecord struct {
	RunID          string          `json:"run_id"`
	Week           int             `json:"week"`
	Timestamp      time.Time       `json:"timestamp"`
	Score          float64         `json:"score"`
	Unresolved     int             `json:"unresolved"`
	HardViolations int             `json:"hard_violations"`
	DurationMS     int64           `json:"duration_ms"`
	Error          string          `json:"error,omitempty"`
	Snapshot       export.Snapshot `json:"snapshot"`
}

// RunQuery filters stored records. Zero fields match everything.
type RunQuery struct {
	Start time.Time
	End   time.Time
	Week  int
	RunID string
}

func (q RunQuery) match(r RunRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Week != 0 && r.Week != q.Week {
		return false
	}
	return q.RunID == "" || r.RunID == q.RunID
}

// RunStore persists RunRecords and supports querying. Query returns
// records in append order.
type RunStore interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q RunQuery) ([]RunRecord, error)
	Close() error
}

// Latest returns the most recent record stored for week.
func Latest(ctx context.Context, s RunStore, week int) (RunRecord, bool, error) {
	recs, err := s.Query(ctx, RunQuery{Week: week})
	if err != nil || len(recs) == 0 {
		return RunRecord{}, false, err
	}
	return recs[len(recs)-1], true, nil
}

// Weeks lists the distinct weeks with at least one stored record.
func Weeks(ctx context.Context, s RunStore) ([]int, error) {
	recs, err := s.Query(ctx, RunQuery{})
	if err != nil {
		return nil, err
	}
	seen := make(map[int]bool)
	var out []int
	for _, r := range recs {
		if !seen[r.Week] {
			seen[r.Week] = true
			out = append(out, r.Week)
		}
	}
	sort.Ints(out)
	return out, nil
}

// Config selects and tunes the store backend.
type Config struct {
	// Backend is one of memory, jsonl, rotating or sqlite.
	Backend    string `json:"backend"`
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// New opens the configured backend.
func New(cfg Config) (RunStore, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "jsonl":
		return NewJSONLStore(cfg.Path)
	case "rotating":
		return NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}
