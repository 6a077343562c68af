package remote

import (
	"context"
	"encoding/json"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	f, err := OpenFile(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := UserDataPath("u1", "timeBlocks")
	ch, err := f.Subscribe(ctx, path)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	waitSnapshot(t, ch, 0)

	if err := f.Upsert(ctx, path, "b1", json.RawMessage(`{"id":"b1","date":"2026-03-02"}`)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	snap := waitSnapshot(t, ch, 1)
	if snap.Docs[0].ID != "b1" {
		t.Fatalf("unexpected doc id %q", snap.Docs[0].ID)
	}

	docs, err := f.Query(ctx, path, "date", "2026-03-02")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected one match, got %d", len(docs))
	}

	if err := f.Delete(ctx, path, "b1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	waitSnapshot(t, ch, 0)

	// Deleting again must not fail.
	if err := f.Delete(ctx, path, "b1"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestFileStoreSeparatesPaths(t *testing.T) {
	f, err := OpenFile(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()

	_ = f.Upsert(ctx, UserDataPath("u1", "todos"), "t1", json.RawMessage(`{"id":"t1"}`))
	_ = f.Upsert(ctx, UserDataPath("u2", "todos"), "t2", json.RawMessage(`{"id":"t2"}`))

	snap := f.snapshot(UserDataPath("u1", "todos"))
	if len(snap.Docs) != 1 || snap.Docs[0].ID != "t1" {
		t.Fatalf("u1 snapshot leaked: %+v", snap.Docs)
	}
}
