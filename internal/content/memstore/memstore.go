// Package memstore is an in-memory content.Store used by tests and dry runs.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"vidsweep/internal/content"
)

// Operation names passed to Store.Fail.
const (
	OpListVideos     = "list_videos"
	OpCountVideos    = "count_videos"
	OpGetDocument    = "get_document"
	OpUpdateDocument = "update_document"
	OpClearParent    = "clear_parent"
	OpQuarantine     = "quarantine"
	OpRestore        = "restore"
	OpLoadOption     = "load_option"
	OpSaveOption     = "save_option"
)

// Store keeps documents, media and options in maps guarded by a mutex.
type Store struct {
	// Fail, when set, runs before every call. A non-nil return fails the call
	// with that error. id is the document or media id, or 0.
	Fail func(op string, id int64) error

	mu      sync.Mutex
	docs    map[int64]content.Document
	media   map[int64]content.MediaRecord
	options map[string][]byte
	updates int
}

var _ content.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		docs:    make(map[int64]content.Document),
		media:   make(map[int64]content.MediaRecord),
		options: make(map[string][]byte),
	}
}

// PutDocument inserts or replaces a document. An empty status becomes publish.
func (s *Store) PutDocument(doc content.Document) {
	if doc.Status == "" {
		doc.Status = content.StatusPublish
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
}

// PutMedia inserts or replaces a media record. An empty status becomes inherit.
func (s *Store) PutMedia(rec content.MediaRecord) {
	if rec.Status == "" {
		rec.Status = content.StatusInherit
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.media[rec.ID] = rec
}

// Document returns a copy of the stored document.
func (s *Store) Document(id int64) (content.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	return doc, ok
}

// Media returns a copy of the stored media record.
func (s *Store) Media(id int64) (content.MediaRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.media[id]
	return rec, ok
}

// DocumentUpdates counts successful UpdateDocumentBody calls.
func (s *Store) DocumentUpdates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

// Clone returns an independent copy of the store contents. Fail is not copied.
func (s *Store) Clone() *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := New()
	for id, doc := range s.docs {
		out.docs[id] = doc
	}
	for id, rec := range s.media {
		out.media[id] = rec
	}
	for name, value := range s.options {
		out.options[name] = slices.Clone(value)
	}
	return out
}

func (s *Store) fail(op string, id int64) error {
	if s.Fail == nil {
		return nil
	}
	return s.Fail(op, id)
}

func (s *Store) videos() []content.MediaRecord {
	var out []content.MediaRecord
	for _, rec := range s.media {
		if content.IsVideoMime(rec.MimeType) {
			out = append(out, rec)
		}
	}
	slices.SortFunc(out, func(a, b content.MediaRecord) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// ListVideos pages video media records in id order.
func (s *Store) ListVideos(_ context.Context, offset, limit int) ([]content.MediaRecord, error) {
	if err := s.fail(OpListVideos, 0); err != nil {
		return nil, err
	}
	offset, limit = content.NormalizePage(offset, limit)
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.videos()
	if offset >= len(all) {
		return nil, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return slices.Clone(all[offset:end]), nil
}

// CountVideos returns the number of video media records.
func (s *Store) CountVideos(context.Context) (int, error) {
	if err := s.fail(OpCountVideos, 0); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.videos()), nil
}

// GetDocument loads a document by id.
func (s *Store) GetDocument(_ context.Context, id int64) (content.Document, error) {
	if err := s.fail(OpGetDocument, id); err != nil {
		return content.Document{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return content.Document{}, fmt.Errorf("document %d: %w", id, content.ErrNotFound)
	}
	return doc, nil
}

// UpdateDocumentBody replaces a document body.
func (s *Store) UpdateDocumentBody(_ context.Context, id int64, body string) error {
	if err := s.fail(OpUpdateDocument, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return fmt.Errorf("document %d: %w", id, content.ErrNotFound)
	}
	doc.Body = body
	s.docs[id] = doc
	s.updates++
	return nil
}

// ClearParent detaches a media record from its document.
func (s *Store) ClearParent(_ context.Context, mediaID int64) error {
	return s.mutateMedia(OpClearParent, mediaID, func(rec *content.MediaRecord) {
		rec.ParentID = 0
	})
}

// Quarantine soft-deletes a media record.
func (s *Store) Quarantine(_ context.Context, mediaID int64) error {
	return s.mutateMedia(OpQuarantine, mediaID, func(rec *content.MediaRecord) {
		rec.Status = content.StatusTrash
	})
}

// Restore reverses Quarantine.
func (s *Store) Restore(_ context.Context, mediaID int64) error {
	return s.mutateMedia(OpRestore, mediaID, func(rec *content.MediaRecord) {
		rec.Status = content.StatusInherit
	})
}

func (s *Store) mutateMedia(op string, id int64, apply func(*content.MediaRecord)) error {
	if err := s.fail(op, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.media[id]
	if !ok {
		return fmt.Errorf("media %d: %w", id, content.ErrNotFound)
	}
	apply(&rec)
	s.media[id] = rec
	return nil
}

// LoadOption returns a stored option value.
func (s *Store) LoadOption(_ context.Context, name string) ([]byte, error) {
	if err := s.fail(OpLoadOption, 0); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.options[name]
	if !ok {
		return nil, fmt.Errorf("option %q: %w", name, content.ErrNotFound)
	}
	return slices.Clone(value), nil
}

// SaveOption overwrites an option value.
func (s *Store) SaveOption(_ context.Context, name string, value []byte) error {
	if err := s.fail(OpSaveOption, 0); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options[name] = slices.Clone(value)
	return nil
}
