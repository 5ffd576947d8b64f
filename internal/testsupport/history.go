package testsupport

import (
	"context"
	"testing"

	"slowmovie/internal/config"
	"slowmovie/internal/history"
)

// MustOpenHistory opens the config's cycle journal and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(context.Background(), cfg.History.Path, cfg.History.Keep)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
