package library

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vmunix/shelfarr/internal/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	require.NoError(t, err, "open db")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Apply(db), "apply migrations")
	return db
}

// addTestAuthor inserts a minimal author and returns it with ID set.
func addTestAuthor(t *testing.T, store *Store, foreignID string) *Author {
	t.Helper()
	a := &Author{
		ForeignAuthorID: foreignID,
		Name:            "Frank Herbert",
		Path:            "/books/Frank Herbert",
		RootFolderPath:  "/books",
		QualityProfile:  "ebook",
		Monitored:       true,
	}
	require.NoError(t, store.AddAuthor(a), "AddAuthor")
	return a
}

// addTestBook inserts a minimal book under author and returns it with ID set.
func addTestBook(t *testing.T, store *Store, authorID int64, foreignID, title string) *Book {
	t.Helper()
	b := &Book{ForeignBookID: foreignID, AuthorID: authorID, Title: title}
	require.NoError(t, store.InsertBooks([]*Book{b}), "InsertBooks")
	return b
}

// ptr is a helper to create pointer to value
func ptr[T any](v T) *T {
	return &v
}
