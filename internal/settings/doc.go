// Package settings defines the per-run scan policy and the rules for merging
// it from built-in defaults, configuration file values, and persisted
// overrides.
//
// A ScanSettings value is immutable for the duration of a run. Callers merge
// it once with Resolve and pass the result down explicitly; nothing in the
// scan pipeline reads settings from ambient state.
package settings
