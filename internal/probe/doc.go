// Package probe decides whether a media URL is reachable.
//
// A Checker issues a HEAD request and, only when that fails at the transport
// level or yields no status, exactly one GET with the same parameters. A URL
// is broken when it is malformed, when both requests fail, or when the final
// status is in the configured broken status code set. TLS certificates are not
// verified and at most three redirects are followed. Request counts and
// latencies are exported as Prometheus metrics.
package probe
