// Package content describes the content store the scan pipeline reads from
// and remediates.
//
// A Store pages video media records in stable id order, reads and rewrites
// document bodies, clears the parent relation between a media record and its
// owning document, and soft-deletes (quarantines) media records. It also keeps
// a small table of named option blobs used for persisted scan settings and the
// last scan report.
//
// Backends live in subpackages: sqlite (default, single file), postgres (pgx
// pool) and memstore (in-memory, used by tests).
package content
