// Package logging assembles structured slog loggers and formatting helpers used
// across vidsweep.
//
// It owns the configurable console/JSON handlers and centralizes level and
// output plumbing. Sink adapts a logger into the informational/error sink the
// scan pipeline writes to; a sink never lets a failed log write reach the
// caller. The package also provides a no-op logger for tests and wiring code
// that cannot fail.
package logging
