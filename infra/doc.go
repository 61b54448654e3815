// Package infra contains technical adapters such as run stores, log
// drivers, metrics sinks and error reporting. These packages should depend
// only on the interfaces defined in the core packages.
package infra
