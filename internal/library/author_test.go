package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AddAuthor(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	a := &Author{
		ForeignAuthorID: "gr-58",
		Name:            "Frank Herbert",
		Path:            "/books/Frank Herbert",
		RootFolderPath:  "/books",
		QualityProfile:  "ebook",
		MetadataProfile: "standard",
		Monitored:       true,
		Tags:            []string{"scifi", "classics"},
	}

	before := time.Now()
	require.NoError(t, store.AddAuthor(a))
	after := time.Now()

	assert.NotZero(t, a.ID, "ID should be set after AddAuthor")
	assert.False(t, a.Added.Before(before) || a.Added.After(after),
		"Added %v not in expected range [%v, %v]", a.Added, before, after)
}

func TestStore_AddAuthor_DuplicateForeignID(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	addTestAuthor(t, store, "gr-58")

	dup := &Author{ForeignAuthorID: "gr-58", Name: "Frank Herbert"}
	assert.ErrorIs(t, store.AddAuthor(dup), ErrDuplicate)
}

func TestStore_GetAuthor(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	original := addTestAuthor(t, store, "gr-58")
	original.Tags = nil

	retrieved, err := store.GetAuthor(original.ID)
	require.NoError(t, err)

	assert.Equal(t, original.ForeignAuthorID, retrieved.ForeignAuthorID)
	assert.Equal(t, original.Name, retrieved.Name)
	assert.Equal(t, original.Path, retrieved.Path)
	assert.Equal(t, original.QualityProfile, retrieved.QualityProfile)
	assert.True(t, retrieved.Monitored, "Monitored should round-trip true")
}

func TestStore_GetAuthor_NotFound(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	_, err := store.GetAuthor(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_AuthorTagsRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	a := &Author{ForeignAuthorID: "gr-1077326", Name: "J.K. Rowling", Tags: []string{"fantasy", "ya"}}
	require.NoError(t, store.AddAuthor(a))

	retrieved, err := store.GetAuthor(a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"fantasy", "ya"}, retrieved.Tags)

	// Empty tags come back nil, not [""].
	b := &Author{ForeignAuthorID: "gr-957894", Name: "Ursula K. Le Guin"}
	require.NoError(t, store.AddAuthor(b))
	retrieved, err = store.GetAuthor(b.ID)
	require.NoError(t, err)
	assert.Nil(t, retrieved.Tags)
}

func TestStore_FindAuthorByForeignID(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	original := addTestAuthor(t, store, "gr-58")

	found, err := store.FindAuthorByForeignID("gr-58")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, original.ID, found.ID)

	// Unknown foreign id is not an error.
	missing, err := store.FindAuthorByForeignID("gr-0")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_ListAuthors(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	for _, a := range []*Author{
		{ForeignAuthorID: "gr-1455", Name: "Stephen King"},
		{ForeignAuthorID: "gr-1221698", Name: "Agatha Christie"},
		{ForeignAuthorID: "gr-58", Name: "Frank Herbert"},
	} {
		require.NoError(t, store.AddAuthor(a))
	}

	authors, err := store.ListAuthors()
	require.NoError(t, err)
	require.Len(t, authors, 3)
	// Ordered by name.
	assert.Equal(t, "Agatha Christie", authors[0].Name)
	assert.Equal(t, "Stephen King", authors[2].Name)
}

func TestTx_AddAuthor(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	tx, err := store.Begin()
	require.NoError(t, err)

	a := &Author{ForeignAuthorID: "gr-58", Name: "Frank Herbert"}
	require.NoError(t, tx.AddAuthor(a))
	assert.NotZero(t, a.ID, "ID should be set")

	// Visible inside the transaction.
	_, err = tx.GetAuthor(a.ID)
	require.NoError(t, err)

	require.NoError(t, tx.Rollback())

	// Gone after rollback.
	_, err = store.GetAuthor(a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
