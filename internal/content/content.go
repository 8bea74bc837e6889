package content

import (
	"context"
	"errors"
	"slices"
	"strings"
)

// ErrNotFound is returned when a document, media record or option row does not exist.
var ErrNotFound = errors.New("content: not found")

// Status values shared by documents and media records.
const (
	StatusPublish   = "publish"
	StatusDraft     = "draft"
	StatusPrivate   = "private"
	StatusPending   = "pending"
	StatusFuture    = "future"
	StatusAutoDraft = "auto-draft"
	StatusInherit   = "inherit"
	StatusTrash     = "trash"
)

// VideoMimeTypes lists the MIME types treated as video, canonical types and
// legacy aliases alike.
var VideoMimeTypes = []string{
	"video/mp4",
	"video/quicktime",
	"video/x-ms-wmv",
	"video/x-flv",
	"video/webm",
	"video/ogg",
	"application/ogg",
	"video/x-matroska",
	"video/avi",
	"video/mov",
	"video/wmv",
	"video/3gp",
	"video/mkv",
}

// IsVideoMime reports whether mime is one of VideoMimeTypes.
func IsVideoMime(mime string) bool {
	return slices.Contains(VideoMimeTypes, strings.ToLower(strings.TrimSpace(mime)))
}

// MediaRecord is a media attachment. ParentID is zero when the record has no
// owning document.
type MediaRecord struct {
	ID       int64
	URL      string
	ParentID int64
	MimeType string
	Status   string
}

// HasParent reports whether the record is attached to a document.
func (m MediaRecord) HasParent() bool {
	return m.ParentID > 0
}

// Quarantined reports whether the record has been soft-deleted.
func (m MediaRecord) Quarantined() bool {
	return m.Status == StatusTrash
}

// Document is an owning document whose body may embed media references.
type Document struct {
	ID     int64
	Title  string
	Body   string
	Status string
}

// Live reports whether the document exists with a non-deleted status.
func (d Document) Live() bool {
	return d.Status != StatusTrash
}

// Store is the content store consumed by the scan pipeline.
type Store interface {
	// ListVideos returns video media records ordered by id ascending.
	// A limit of zero or less returns every record and ignores offset.
	ListVideos(ctx context.Context, offset, limit int) ([]MediaRecord, error)
	CountVideos(ctx context.Context) (int, error)
	GetDocument(ctx context.Context, id int64) (Document, error)
	UpdateDocumentBody(ctx context.Context, id int64, body string) error
	// ClearParent and Quarantine succeed when the change was already applied.
	ClearParent(ctx context.Context, mediaID int64) error
	Quarantine(ctx context.Context, mediaID int64) error
	Restore(ctx context.Context, mediaID int64) error

	OptionStore
}

// OptionStore persists named opaque values.
type OptionStore interface {
	// LoadOption returns ErrNotFound when the option has never been saved.
	LoadOption(ctx context.Context, name string) ([]byte, error)
	SaveOption(ctx context.Context, name string, value []byte) error
}

// NormalizePage clamps negative offsets to zero. Without a positive limit
// there is no paging, so the offset is dropped.
func NormalizePage(offset, limit int) (int, int) {
	if limit <= 0 {
		return 0, 0
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
