// Package preflight provides readiness checks for the directories and
// services vidsweep depends on.
//
// `vidsweep status` runs RunAll and prints one line per check. Checks for
// optional features (ntfy) are skipped when the feature is not configured.
package preflight
