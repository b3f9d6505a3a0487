package library

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const bookColumns = `id, foreign_book_id, author_id, title, series_title, series_index, release_date, added_at`

func scanBook(row *sql.Row) (*Book, error) {
	b := &Book{}
	err := row.Scan(&b.ID, &b.ForeignBookID, &b.AuthorID, &b.Title, &b.SeriesTitle, &b.SeriesIndex, &b.ReleaseDate, &b.Added)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	return b, nil
}

// InsertBooks bulk-inserts books in one transaction. Sets ID and Added on
// each struct. Returns ErrDuplicate if any foreign id already exists.
func (s *Store) InsertBooks(books []*Book) error {
	if len(books) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	for _, b := range books {
		result, err := tx.Exec(`
			INSERT INTO books (foreign_book_id, author_id, title, series_title, series_index, release_date, added_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			b.ForeignBookID, b.AuthorID, b.Title, b.SeriesTitle, b.SeriesIndex, b.ReleaseDate, now,
		)
		if err != nil {
			return fmt.Errorf("insert book %q: %w", b.Title, mapSQLiteError(err))
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("get last insert id: %w", err)
		}
		b.ID = id
		b.Added = now
	}

	return tx.Commit()
}

// GetBook retrieves a book by ID. Returns ErrNotFound if absent.
func (s *Store) GetBook(id int64) (*Book, error) {
	b, err := scanBook(s.db.QueryRow(`SELECT `+bookColumns+` FROM books WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return b, nil
}

// FindBookByForeignID looks a book up by the metadata provider's stable
// identifier. Returns nil, nil when no book matches.
func (s *Store) FindBookByForeignID(foreignID string) (*Book, error) {
	b, err := scanBook(s.db.QueryRow(`SELECT `+bookColumns+` FROM books WHERE foreign_book_id = ?`, foreignID))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find book %q: %w", foreignID, err)
	}
	return b, nil
}

// ListBooksByAuthor returns all books for an author ordered by series index
// then title.
func (s *Store) ListBooksByAuthor(authorID int64) ([]*Book, error) {
	rows, err := s.db.Query(`SELECT `+bookColumns+` FROM books WHERE author_id = ? ORDER BY series_index, title`, authorID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", mapSQLiteError(err))
	}
	defer func() { _ = rows.Close() }()

	var books []*Book
	for rows.Next() {
		b := &Book{}
		if err := rows.Scan(&b.ID, &b.ForeignBookID, &b.AuthorID, &b.Title, &b.SeriesTitle, &b.SeriesIndex, &b.ReleaseDate, &b.Added); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// ListEditionsByBook returns all editions of a book.
func (s *Store) ListEditionsByBook(bookID int64) ([]*Edition, error) {
	rows, err := s.db.Query(`
		SELECT id, foreign_edition_id, book_id, title, isbn, language, monitored
		FROM editions WHERE book_id = ?`, bookID)
	if err != nil {
		return nil, fmt.Errorf("list editions: %w", mapSQLiteError(err))
	}
	defer func() { _ = rows.Close() }()

	var editions []*Edition
	for rows.Next() {
		e := &Edition{}
		if err := rows.Scan(&e.ID, &e.ForeignEditionID, &e.BookID, &e.Title, &e.ISBN, &e.Language, &e.Monitored); err != nil {
			return nil, fmt.Errorf("scan edition: %w", err)
		}
		editions = append(editions, e)
	}
	return editions, rows.Err()
}

// AddEdition inserts a new edition. Sets ID on the struct.
func (s *Store) AddEdition(e *Edition) error {
	result, err := s.db.Exec(`
		INSERT INTO editions (foreign_edition_id, book_id, title, isbn, language, monitored)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ForeignEditionID, e.BookID, e.Title, e.ISBN, e.Language, e.Monitored,
	)
	if err != nil {
		return fmt.Errorf("insert edition: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	e.ID = id
	return nil
}
