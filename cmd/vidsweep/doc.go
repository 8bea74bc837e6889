// Package main hosts the vidsweep CLI entrypoint and command graph.
//
// Every command opens the configured content store directly; there is no
// daemon to talk to. `vidsweep serve` is the long-running mode: it exposes
// the HTTP API and runs the auto-scan scheduler in the same process. Scan
// commands share a file lock with `serve`, so a manual scan and a scheduled
// one never overlap.
//
// Keep this package lean: behaviour lives in internal/api and below, and
// commands here only parse flags and render results.
package main
