// Package api is the application layer shared by the CLI, the HTTP server
// and the scheduler.
//
// Service resolves the effective scan settings (config defaults overlaid with
// the persisted overrides), builds a scan.Runner per invocation, persists the
// last report, publishes notifications and serialises runs across processes
// with a file lock in the data directory. OpenStore picks the content store
// backend named in the configuration.
package api
