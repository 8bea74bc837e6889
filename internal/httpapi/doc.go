// Package httpapi serves the administrative HTTP API.
//
// Routes (chi):
//
//	POST /api/scan             run a full scan and return the report
//	POST /api/batches/{index}  run one page with the effective batch size
//	GET  /api/report           last persisted report
//	GET  /api/settings         effective scan settings
//	PUT  /api/settings         persist settings overrides
//	GET  /api/videos/count     video total and page count
//	GET  /metrics              Prometheus metrics
//	GET  /healthz              liveness
//
// When a token is configured every /api route requires
// "Authorization: Bearer <token>".
package httpapi
