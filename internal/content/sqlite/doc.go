// Package sqlite implements content.Store on a single SQLite file using the
// pure-Go modernc driver.
//
// The schema is created on first open and guarded by a schema_version row;
// opening a database written by a different schema version fails with
// ErrSchemaMismatch. Writes retry briefly on SQLITE_BUSY so a CLI run and a
// running server can share the file.
package sqlite
