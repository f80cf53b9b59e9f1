package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"irgsh/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(context.Background(), filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndListNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	first, err := store.Record(ctx, history.Entry{
		RequestID:   "req-1",
		Chief:       "http://chief",
		PackageURL:  "http://pkg/one",
		SubmittedAt: base,
	})
	if err != nil {
		t.Fatalf("Record first: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("expected ID to be assigned")
	}
	if _, err := store.Record(ctx, history.Entry{
		RequestID:    "req-2",
		PipelineID:   "pipe-2",
		Chief:        "http://chief",
		PackageURL:   "http://pkg/two",
		SourceURL:    "http://src/two",
		Experimental: true,
		SubmittedAt:  base.Add(time.Minute),
	}); err != nil {
		t.Fatalf("Record second: %v", err)
	}

	entries, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	newest := entries[0]
	if newest.RequestID != "req-2" || newest.PipelineID != "pipe-2" || newest.SourceURL != "http://src/two" || !newest.Experimental {
		t.Fatalf("unexpected newest entry %+v", newest)
	}
	if !newest.SubmittedAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("unexpected timestamp %s", newest.SubmittedAt)
	}
	if entries[1].PipelineID != "" || entries[1].SourceURL != "" {
		t.Fatalf("expected empty optional fields, got %+v", entries[1])
	}

	limited, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List limit: %v", err)
	}
	if len(limited) != 1 || limited[0].RequestID != "req-2" {
		t.Fatalf("unexpected limited list %+v", limited)
	}
}

func TestLatestOnEmptyStore(t *testing.T) {
	store := openStore(t)
	if _, err := store.Latest(context.Background()); !errors.Is(err, history.ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestRecordRequiresPackageURL(t *testing.T) {
	store := openStore(t)
	if _, err := store.Record(context.Background(), history.Entry{Chief: "http://chief"}); err == nil {
		t.Fatal("expected error for missing package url")
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := history.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.Record(ctx, history.Entry{RequestID: "r", Chief: "c", PackageURL: "p"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := history.Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	latest, err := reopened.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.PackageURL != "p" {
		t.Fatalf("unexpected entry %+v", latest)
	}
	if reopened.Path() != path {
		t.Fatalf("unexpected path %q", reopened.Path())
	}
}

func TestLatestPipelineSkipsUnsentSubmissions(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.LatestPipeline(ctx); !errors.Is(err, history.ErrEmpty) {
		t.Fatalf("expected ErrEmpty on empty store, got %v", err)
	}

	for _, e := range []history.Entry{
		{RequestID: "req-1", PipelineID: "pipe-1", Chief: "http://chief", PackageURL: "http://pkg/one"},
		{RequestID: "req-2", PipelineID: "pipe-2", Chief: "http://chief", PackageURL: "http://pkg/two"},
		{RequestID: "req-3", Chief: "http://chief", PackageURL: "http://pkg/three"},
	} {
		if _, err := store.Record(ctx, e); err != nil {
			t.Fatalf("Record %s: %v", e.RequestID, err)
		}
	}

	latest, err := store.LatestPipeline(ctx)
	if err != nil {
		t.Fatalf("LatestPipeline: %v", err)
	}
	if latest.PipelineID != "pipe-2" || latest.RequestID != "req-2" {
		t.Fatalf("expected pipe-2, got %+v", latest)
	}
}
