package library

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const fileColumns = `id, book_id, edition_id, path, size_bytes, modified_at, added_at, quality, release_group, scene_name, calibre_id`

func scanFile(row *sql.Row) (*BookFile, error) {
	f := &BookFile{}
	err := row.Scan(&f.ID, &f.BookID, &f.EditionID, &f.Path, &f.Size, &f.Modified,
		&f.DateAdded, &f.Quality, &f.ReleaseGroup, &f.SceneName, &f.CalibreID)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	return f, nil
}

// AddFiles bulk-inserts file records in one transaction, after the per-file
// import loop completes, so imported events carry real database ids.
func (s *Store) AddFiles(files []*BookFile) error {
	if len(files) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	for _, f := range files {
		result, err := tx.Exec(`
			INSERT INTO book_files (book_id, edition_id, path, size_bytes, modified_at, added_at, quality, release_group, scene_name, calibre_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.BookID, f.EditionID, f.Path, f.Size, f.Modified, now, f.Quality, f.ReleaseGroup, f.SceneName, f.CalibreID,
		)
		if err != nil {
			return fmt.Errorf("insert file %q: %w", f.Path, mapSQLiteError(err))
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("get last insert id: %w", err)
		}
		f.ID = id
		f.DateAdded = now
	}

	return tx.Commit()
}

// GetFilesByBook returns all file records for a book.
func (s *Store) GetFilesByBook(bookID int64) ([]*BookFile, error) {
	rows, err := s.db.Query(`SELECT `+fileColumns+` FROM book_files WHERE book_id = ?`, bookID)
	if err != nil {
		return nil, fmt.Errorf("files by book %d: %w", bookID, mapSQLiteError(err))
	}
	defer func() { _ = rows.Close() }()

	var files []*BookFile
	for rows.Next() {
		f := &BookFile{}
		if err := rows.Scan(&f.ID, &f.BookID, &f.EditionID, &f.Path, &f.Size, &f.Modified,
			&f.DateAdded, &f.Quality, &f.ReleaseGroup, &f.SceneName, &f.CalibreID); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// GetFileWithPath returns the file record at path, or nil, nil when the path
// is untracked.
func (s *Store) GetFileWithPath(path string) (*BookFile, error) {
	f, err := scanFile(s.db.QueryRow(`SELECT `+fileColumns+` FROM book_files WHERE path = ?`, path))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file with path %q: %w", path, err)
	}
	return f, nil
}

// DeleteFile removes a file record.
func (s *Store) DeleteFile(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM book_files WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete file %d: %w", id, mapSQLiteError(err))
	}
	return nil
}
