package importer

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/stretchr/testify/require"
	"github.com/vmunix/shelfarr/internal/config"
	"github.com/vmunix/shelfarr/internal/library"
	"github.com/vmunix/shelfarr/internal/migrations"
	"github.com/vmunix/shelfarr/internal/rootfolder"
)

func setupTestStore(t *testing.T) *library.Store {
	t.Helper()
	store, _ := setupTestStoreDB(t)
	return store
}

// setupTestStoreDB additionally exposes the database handle for tests that
// need to break it.
func setupTestStoreDB(t *testing.T) (*library.Store, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	require.NoError(t, err, "open db")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Apply(db), "apply migrations")
	return library.NewStore(db), db
}

func testProfiles() map[string]library.Profile {
	return map[string]library.Profile{
		"ebook": {Name: "ebook", Accept: []string{"AZW3", "EPUB", "MOBI", "PDF"}},
	}
}

func newTestMaker(t *testing.T, store *library.Store, roots ...string) *Maker {
	t.Helper()
	log := discardLogger()
	cfg := make([]config.RootFolder, len(roots))
	for i, r := range roots {
		cfg[i] = config.RootFolder{Path: r, QualityProfile: "ebook"}
	}
	return NewMaker(
		NewReader(),
		NewIdentificationService(store, log),
		store,
		rootfolder.NewService(cfg, "ebook"),
		DefaultEditionSpecifications(store, testProfiles()),
		DefaultBookSpecifications(store),
		log,
	)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// writeBookFile creates a file of the given size.
func writeBookFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755), "mkdir")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{'x'}, size), 0o644), "write %s", path)
}
