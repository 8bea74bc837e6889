// Package schedule runs full scans on the interval named by the persisted
// scan_frequency while auto_scan_enabled is set.
//
// Settings are re-read on every tick so changes made through the CLI or the
// HTTP API take effect without a restart. The next due time is derived from
// the last persisted report, so restarts do not reset the cadence.
package schedule
