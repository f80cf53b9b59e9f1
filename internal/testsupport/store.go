package testsupport

import (
	"context"
	"testing"

	"irgsh/internal/config"
	"irgsh/internal/history"
)

// MustOpenHistory opens the history database under home and registers cleanup.
func MustOpenHistory(t testing.TB, home config.StaticHome) *history.Store {
	t.Helper()

	path, err := config.NewStore(home).HistoryPath()
	if err != nil {
		t.Fatalf("history path: %v", err)
	}
	store, err := history.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
