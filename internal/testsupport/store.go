package testsupport

import (
	"context"
	"testing"

	"rackscope/internal/config"
	"rackscope/internal/fileutil"
	"rackscope/internal/library"
	"rackscope/internal/rack"
)

// MustOpenLibrary opens a library.Store for tests and registers cleanup.
func MustOpenLibrary(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SaveFixture decodes fixture and stores the result under sourcePath.
func SaveFixture(t testing.TB, store *library.Store, sourcePath string, fixture RackFixture) *library.Analysis {
	t.Helper()

	data := fixture.Gzip(t)
	doc, err := rack.Decode(sourcePath, data)
	if err != nil {
		t.Fatalf("rack.Decode: %v", err)
	}
	analysis := library.NewAnalysis(doc, sourcePath, fileutil.SHA256Hex(data))
	if err := store.Save(context.Background(), analysis); err != nil {
		t.Fatalf("store.Save: %v", err)
	}
	return analysis
}
