package testsupport

import (
	"testing"

	"mlsimport/internal/config"
	"mlsimport/internal/ledger"
)

// MustOpenStore opens a ledger store for the given config and registers
// cleanup with the test.
func MustOpenStore(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()
	store, err := ledger.Open(cfg)
	if err != nil {
		t.Fatalf("open ledger store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
