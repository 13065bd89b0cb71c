package testsupport

import (
	"context"
	"testing"
	"time"

	"curator/internal/config"
	"curator/internal/inventory"
)

// MustOpenStore opens an inventory.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *inventory.Store {
	t.Helper()

	store, err := inventory.Open(cfg)
	if err != nil {
		t.Fatalf("inventory.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustUpsertAsset writes one asset and fails the test on rejection.
func MustUpsertAsset(t testing.TB, store *inventory.Store, asset inventory.Asset) {
	t.Helper()

	rejected, err := store.UpsertAssets(context.Background(), []inventory.Asset{asset})
	if err != nil {
		t.Fatalf("UpsertAssets: %v", err)
	}
	if len(rejected) > 0 {
		t.Fatalf("asset rejected: %v", rejected[0])
	}
}

// NewAsset builds a minimal valid asset for tests.
func NewAsset(uuid, path string) inventory.Asset {
	return inventory.Asset{
		UUID:         uuid,
		FileName:     fileBase(path),
		FilePath:     path,
		Brand:        inventory.BrandWSOP,
		AssetType:    inventory.AssetGeneric,
		Year:         2024,
		Confidence:   0.5,
		ParseMethod:  "default",
		SourceOrigin: "nas",
		ModifiedAt:   time.Now().UTC(),
	}
}

func fileBase(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
