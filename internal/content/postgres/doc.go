// Package postgres implements content.Store on PostgreSQL through a pgx pool.
//
// Queries run against the DBTX interface so a Store can be built from a pool
// or from an open transaction. EnsureSchema creates the tables when missing;
// there is no migration history.
package postgres
