// Package factory provides the generic registry used to build pluggable
// modules (guarantee tiers, metrics sinks, run stores) from configuration.
// A module is named by a type string and configured by a raw map that the
// factory decodes into its own settings struct with Decode.
package factory
