package library

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

func addAuthor(q querier, a *Author) error {
	now := time.Now()
	result, err := q.Exec(`
		INSERT INTO authors (foreign_author_id, name, path, root_folder_path, quality_profile, metadata_profile, monitored, tags, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ForeignAuthorID, a.Name, a.Path, a.RootFolderPath, a.QualityProfile, a.MetadataProfile, a.Monitored, joinTags(a.Tags), now,
	)
	if err != nil {
		return fmt.Errorf("insert author: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	a.ID = id
	a.Added = now
	return nil
}

// AddAuthor inserts a new author. Sets ID and Added on the struct.
// Returns ErrDuplicate when the foreign id already exists, which callers
// use to re-fetch after losing a concurrent-insert race.
func (s *Store) AddAuthor(a *Author) error { return addAuthor(s.db, a) }

// AddAuthor inserts a new author within a transaction.
func (t *Tx) AddAuthor(a *Author) error { return addAuthor(t.tx, a) }

func scanAuthor(row *sql.Row) (*Author, error) {
	a := &Author{}
	var tags string
	err := row.Scan(&a.ID, &a.ForeignAuthorID, &a.Name, &a.Path, &a.RootFolderPath,
		&a.QualityProfile, &a.MetadataProfile, &a.Monitored, &tags, &a.Added)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	a.Tags = splitTags(tags)
	return a, nil
}

const authorColumns = `id, foreign_author_id, name, path, root_folder_path, quality_profile, metadata_profile, monitored, tags, added_at`

func getAuthor(q querier, id int64) (*Author, error) {
	a, err := scanAuthor(q.QueryRow(`SELECT `+authorColumns+` FROM authors WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get author %d: %w", id, err)
	}
	return a, nil
}

// GetAuthor retrieves an author by ID. Returns ErrNotFound if absent.
func (s *Store) GetAuthor(id int64) (*Author, error) { return getAuthor(s.db, id) }

// GetAuthor retrieves an author by ID within a transaction.
func (t *Tx) GetAuthor(id int64) (*Author, error) { return getAuthor(t.tx, id) }

// FindAuthorByForeignID looks an author up by the metadata provider's stable
// identifier. Returns nil, nil when no author matches; this is the existence
// probe the import pipeline runs before creating a new author.
func (s *Store) FindAuthorByForeignID(foreignID string) (*Author, error) {
	a, err := scanAuthor(s.db.QueryRow(`SELECT `+authorColumns+` FROM authors WHERE foreign_author_id = ?`, foreignID))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find author %q: %w", foreignID, err)
	}
	return a, nil
}

// ListAuthors returns all authors ordered by name.
func (s *Store) ListAuthors() ([]*Author, error) {
	rows, err := s.db.Query(`SELECT ` + authorColumns + ` FROM authors ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", mapSQLiteError(err))
	}
	defer func() { _ = rows.Close() }()

	var authors []*Author
	for rows.Next() {
		a := &Author{}
		var tags string
		if err := rows.Scan(&a.ID, &a.ForeignAuthorID, &a.Name, &a.Path, &a.RootFolderPath,
			&a.QualityProfile, &a.MetadataProfile, &a.Monitored, &tags, &a.Added); err != nil {
			return nil, fmt.Errorf("scan author: %w", err)
		}
		a.Tags = splitTags(tags)
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
