package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"vidsweep/internal/content"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements content.Store on PostgreSQL.
type Store struct {
	db   DBTX
	pool *pgxpool.Pool
}

var _ content.Store = (*Store)(nil)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS documents (
  id BIGSERIAL PRIMARY KEY,
  title TEXT NOT NULL DEFAULT '',
  body TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'publish',
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS media (
  id BIGSERIAL PRIMARY KEY,
  url TEXT NOT NULL DEFAULT '',
  parent_id BIGINT NOT NULL DEFAULT 0,
  mime_type TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'inherit',
  trashed_at TIMESTAMPTZ,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_media_mime ON media (mime_type, id);
CREATE TABLE IF NOT EXISTS options (
  name TEXT PRIMARY KEY,
  value BYTEA NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// NewDB opens a pgx pool with small, steady defaults and pings it.
func NewDB(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	cfg.MaxConns = 4
	cfg.MinConns = 1
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the content tables if they are missing.
func EnsureSchema(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("create content schema: %w", err)
	}
	return nil
}

// Open connects to dsn, ensures the schema and returns a pool-backed Store.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := NewDB(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{db: pool, pool: pool}, nil
}

// New wraps an existing connection, pool or transaction.
func New(db DBTX) *Store {
	return &Store{db: db}
}

// Close releases the pool when the Store owns one.
func (s *Store) Close() error {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// ListVideos pages video media records in id order.
func (s *Store) ListVideos(ctx context.Context, offset, limit int) ([]content.MediaRecord, error) {
	offset, limit = content.NormalizePage(offset, limit)
	query := `SELECT id, url, parent_id, mime_type, status FROM media
WHERE mime_type = ANY($1) ORDER BY id ASC OFFSET $2`
	args := []any{content.VideoMimeTypes, offset}
	if limit > 0 {
		query += " LIMIT $3"
		args = append(args, limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var records []content.MediaRecord
	for rows.Next() {
		var rec content.MediaRecord
		if err := rows.Scan(&rec.ID, &rec.URL, &rec.ParentID, &rec.MimeType, &rec.Status); err != nil {
			return nil, fmt.Errorf("scan media row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate media rows: %w", err)
	}
	return records, nil
}

// CountVideos returns the number of video media records.
func (s *Store) CountVideos(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM media WHERE mime_type = ANY($1)", content.VideoMimeTypes).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count videos: %w", err)
	}
	return count, nil
}

// GetDocument loads a document by id.
func (s *Store) GetDocument(ctx context.Context, id int64) (content.Document, error) {
	var doc content.Document
	err := s.db.QueryRow(ctx, "SELECT id, title, body, status FROM documents WHERE id = $1", id).
		Scan(&doc.ID, &doc.Title, &doc.Body, &doc.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return content.Document{}, fmt.Errorf("document %d: %w", id, content.ErrNotFound)
	}
	if err != nil {
		return content.Document{}, fmt.Errorf("get document %d: %w", id, err)
	}
	return doc, nil
}

// UpdateDocumentBody replaces a document body.
func (s *Store) UpdateDocumentBody(ctx context.Context, id int64, body string) error {
	tag, err := s.db.Exec(ctx, "UPDATE documents SET body = $1, updated_at = now() WHERE id = $2", body, id)
	if err != nil {
		return fmt.Errorf("update document %d: %w", id, err)
	}
	return requireRow(tag, "document", id)
}

// ClearParent detaches a media record from its document.
func (s *Store) ClearParent(ctx context.Context, mediaID int64) error {
	tag, err := s.db.Exec(ctx, "UPDATE media SET parent_id = 0, updated_at = now() WHERE id = $1", mediaID)
	if err != nil {
		return fmt.Errorf("clear parent of media %d: %w", mediaID, err)
	}
	return requireRow(tag, "media", mediaID)
}

// Quarantine soft-deletes a media record.
func (s *Store) Quarantine(ctx context.Context, mediaID int64) error {
	tag, err := s.db.Exec(ctx,
		"UPDATE media SET status = $1, trashed_at = COALESCE(trashed_at, now()), updated_at = now() WHERE id = $2",
		content.StatusTrash, mediaID)
	if err != nil {
		return fmt.Errorf("quarantine media %d: %w", mediaID, err)
	}
	return requireRow(tag, "media", mediaID)
}

// Restore reverses Quarantine.
func (s *Store) Restore(ctx context.Context, mediaID int64) error {
	tag, err := s.db.Exec(ctx,
		"UPDATE media SET status = $1, trashed_at = NULL, updated_at = now() WHERE id = $2",
		content.StatusInherit, mediaID)
	if err != nil {
		return fmt.Errorf("restore media %d: %w", mediaID, err)
	}
	return requireRow(tag, "media", mediaID)
}

// LoadOption returns a stored option value.
func (s *Store) LoadOption(ctx context.Context, name string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(ctx, "SELECT value FROM options WHERE name = $1", name).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("option %q: %w", name, content.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load option %q: %w", name, err)
	}
	return value, nil
}

// SaveOption overwrites an option value.
func (s *Store) SaveOption(ctx context.Context, name string, value []byte) error {
	const query = `
INSERT INTO options (name, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := s.db.Exec(ctx, query, name, value); err != nil {
		return fmt.Errorf("save option %q: %w", name, err)
	}
	return nil
}

func requireRow(tag pgconn.CommandTag, kind string, id int64) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, content.ErrNotFound)
	}
	return nil
}
