package testsupport

import (
	"context"
	"testing"

	"vidsweep/internal/config"
	"vidsweep/internal/content"
	"vidsweep/internal/content/sqlite"
)

// MustOpenStore opens a sqlite content store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *sqlite.Store {
	t.Helper()

	store, err := sqlite.Open(cfg)
	if err != nil {
		t.Fatalf("sqlite.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedDocument inserts a published document with the given body.
func SeedDocument(t testing.TB, store *sqlite.Store, id int64, body string) int64 {
	t.Helper()

	docID, err := store.InsertDocument(context.Background(), content.Document{ID: id, Title: "Doc", Body: body})
	if err != nil {
		t.Fatalf("store.InsertDocument: %v", err)
	}
	return docID
}

// SeedVideo inserts an mp4 media record attached to parentID (0 for none).
func SeedVideo(t testing.TB, store *sqlite.Store, id int64, url string, parentID int64) int64 {
	t.Helper()

	mediaID, err := store.InsertMedia(context.Background(), content.MediaRecord{
		ID:       id,
		URL:      url,
		ParentID: parentID,
		MimeType: "video/mp4",
	})
	if err != nil {
		t.Fatalf("store.InsertMedia: %v", err)
	}
	return mediaID
}
