package memstore_test

import (
	"context"
	"errors"
	"testing"

	"vidsweep/internal/content"
	"vidsweep/internal/content/memstore"
)

func TestListVideosPaging(t *testing.T) {
	store := memstore.New()
	for id := int64(1); id <= 5; id++ {
		mime := "video/webm"
		if id == 2 {
			mime = "image/png"
		}
		store.PutMedia(content.MediaRecord{ID: id, URL: "https://a/x", MimeType: mime})
	}
	ctx := context.Background()

	page, err := store.ListVideos(ctx, 1, 2)
	if err != nil {
		t.Fatalf("ListVideos: %v", err)
	}
	if len(page) != 2 || page[0].ID != 3 || page[1].ID != 4 {
		t.Fatalf("unexpected page %#v", page)
	}
	if unpaged, _ := store.ListVideos(ctx, 3, 0); len(unpaged) != 4 {
		t.Fatalf("offset without limit must list everything, got %#v", unpaged)
	}
	if past, _ := store.ListVideos(ctx, 10, 2); len(past) != 0 {
		t.Fatalf("expected empty page past end, got %#v", past)
	}
	if count, _ := store.CountVideos(ctx); count != 4 {
		t.Fatalf("CountVideos = %d", count)
	}
}

func TestFailHookAndClone(t *testing.T) {
	store := memstore.New()
	store.PutDocument(content.Document{ID: 7, Body: "a"})
	boom := errors.New("boom")
	store.Fail = func(op string, id int64) error {
		if op == memstore.OpUpdateDocument && id == 7 {
			return boom
		}
		return nil
	}
	ctx := context.Background()

	if err := store.UpdateDocumentBody(ctx, 7, "b"); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
	clone := store.Clone()
	if err := clone.UpdateDocumentBody(ctx, 7, "b"); err != nil {
		t.Fatalf("clone should not inherit Fail: %v", err)
	}
	if doc, _ := store.Document(7); doc.Body != "a" {
		t.Fatalf("clone mutated original: %#v", doc)
	}
	if clone.DocumentUpdates() != 1 || store.DocumentUpdates() != 0 {
		t.Fatalf("unexpected update counters")
	}
}
