// Package config loads, normalizes, and validates vidsweep configuration.
//
// It defines the TOML-backed Config struct, supplies repository defaults,
// expands user paths, and enforces invariants so the CLI, API server, and
// scan pipeline can assume a consistent runtime environment. Helpers here
// also create sample config files and ensure the data and log directories
// exist before work starts.
//
// The [scan] section only seeds the scan policy; values persisted through
// `vidsweep settings set` or the API take precedence at run time.
package config
