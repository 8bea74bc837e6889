package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"vidsweep/internal/config"
	"vidsweep/internal/content"
)

// Store implements content.Store backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

var _ content.Store = (*Store)(nil)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// Open opens the SQLite database configured in cfg.Store.SQLitePath.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.Store.SQLitePath)
}

// OpenPath opens or creates the database at path.
func OpenPath(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func mimePlaceholders() (string, []any) {
	marks := make([]string, len(content.VideoMimeTypes))
	args := make([]any, len(content.VideoMimeTypes))
	for i, mime := range content.VideoMimeTypes {
		marks[i] = "?"
		args[i] = mime
	}
	return strings.Join(marks, ", "), args
}

// ListVideos pages video media records in id order.
func (s *Store) ListVideos(ctx context.Context, offset, limit int) ([]content.MediaRecord, error) {
	offset, limit = content.NormalizePage(offset, limit)
	marks, args := mimePlaceholders()
	query := "SELECT id, url, parent_id, mime_type, status FROM media WHERE mime_type IN (" + marks + ") ORDER BY id ASC"
	if limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
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
	marks, args := mimePlaceholders()
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM media WHERE mime_type IN ("+marks+")", args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count videos: %w", err)
	}
	return count, nil
}

// GetDocument loads a document by id.
func (s *Store) GetDocument(ctx context.Context, id int64) (content.Document, error) {
	var doc content.Document
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, body, status FROM documents WHERE id = ?", id,
	).Scan(&doc.ID, &doc.Title, &doc.Body, &doc.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Document{}, fmt.Errorf("document %d: %w", id, content.ErrNotFound)
	}
	if err != nil {
		return content.Document{}, fmt.Errorf("get document %d: %w", id, err)
	}
	return doc, nil
}

// UpdateDocumentBody replaces a document body.
func (s *Store) UpdateDocumentBody(ctx context.Context, id int64, body string) error {
	res, err := s.exec(ctx, "UPDATE documents SET body = ?, updated_at = ? WHERE id = ?", body, now(), id)
	if err != nil {
		return fmt.Errorf("update document %d: %w", id, err)
	}
	return requireRow(res, "document", id)
}

// ClearParent detaches a media record from its document.
func (s *Store) ClearParent(ctx context.Context, mediaID int64) error {
	res, err := s.exec(ctx, "UPDATE media SET parent_id = 0, updated_at = ? WHERE id = ?", now(), mediaID)
	if err != nil {
		return fmt.Errorf("clear parent of media %d: %w", mediaID, err)
	}
	return requireRow(res, "media", mediaID)
}

// Quarantine soft-deletes a media record. Already quarantined records keep
// their original trashed_at.
func (s *Store) Quarantine(ctx context.Context, mediaID int64) error {
	ts := now()
	res, err := s.exec(ctx,
		"UPDATE media SET status = ?, trashed_at = COALESCE(trashed_at, ?), updated_at = ? WHERE id = ?",
		content.StatusTrash, ts, ts, mediaID,
	)
	if err != nil {
		return fmt.Errorf("quarantine media %d: %w", mediaID, err)
	}
	return requireRow(res, "media", mediaID)
}

// Restore reverses Quarantine.
func (s *Store) Restore(ctx context.Context, mediaID int64) error {
	res, err := s.exec(ctx,
		"UPDATE media SET status = ?, trashed_at = NULL, updated_at = ? WHERE id = ?",
		content.StatusInherit, now(), mediaID,
	)
	if err != nil {
		return fmt.Errorf("restore media %d: %w", mediaID, err)
	}
	return requireRow(res, "media", mediaID)
}

// LoadOption returns a stored option value.
func (s *Store) LoadOption(ctx context.Context, name string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM options WHERE name = ?", name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("option %q: %w", name, content.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load option %q: %w", name, err)
	}
	return value, nil
}

// SaveOption overwrites an option value.
func (s *Store) SaveOption(ctx context.Context, name string, value []byte) error {
	_, err := s.exec(ctx,
		`INSERT INTO options (name, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		name, value, now(),
	)
	if err != nil {
		return fmt.Errorf("save option %q: %w", name, err)
	}
	return nil
}

// InsertDocument adds a document and returns its id.
func (s *Store) InsertDocument(ctx context.Context, doc content.Document) (int64, error) {
	status := doc.Status
	if status == "" {
		status = content.StatusPublish
	}
	args := []any{doc.Title, doc.Body, status, now()}
	query := "INSERT INTO documents (title, body, status, updated_at) VALUES (?, ?, ?, ?)"
	if doc.ID > 0 {
		query = "INSERT INTO documents (id, title, body, status, updated_at) VALUES (?, ?, ?, ?, ?)"
		args = append([]any{doc.ID}, args...)
	}
	res, err := s.exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert document: %w", err)
	}
	return res.LastInsertId()
}

// InsertMedia adds a media record and returns its id.
func (s *Store) InsertMedia(ctx context.Context, rec content.MediaRecord) (int64, error) {
	status := rec.Status
	if status == "" {
		status = content.StatusInherit
	}
	args := []any{rec.URL, rec.ParentID, rec.MimeType, status, now()}
	query := "INSERT INTO media (url, parent_id, mime_type, status, updated_at) VALUES (?, ?, ?, ?, ?)"
	if rec.ID > 0 {
		query = "INSERT INTO media (id, url, parent_id, mime_type, status, updated_at) VALUES (?, ?, ?, ?, ?, ?)"
		args = append([]any{rec.ID}, args...)
	}
	res, err := s.exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert media: %w", err)
	}
	return res.LastInsertId()
}

// GetMedia loads a media record by id.
func (s *Store) GetMedia(ctx context.Context, id int64) (content.MediaRecord, error) {
	var rec content.MediaRecord
	err := s.db.QueryRowContext(ctx,
		"SELECT id, url, parent_id, mime_type, status FROM media WHERE id = ?", id,
	).Scan(&rec.ID, &rec.URL, &rec.ParentID, &rec.MimeType, &rec.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return content.MediaRecord{}, fmt.Errorf("media %d: %w", id, content.ErrNotFound)
	}
	if err != nil {
		return content.MediaRecord{}, fmt.Errorf("get media %d: %w", id, err)
	}
	return rec, nil
}

func requireRow(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %d rows affected: %w", kind, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, content.ErrNotFound)
	}
	return nil
}
