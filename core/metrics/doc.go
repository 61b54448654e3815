// Package metrics defines the sinks that receive per-week run records.
// Implementations live in infra/metrics and register themselves by name;
// NewSink builds a MultiSink automatically when several are configured.
package metrics
