package importer

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/vmunix/shelfarr/internal/download"
	"github.com/vmunix/shelfarr/internal/library"
)

// Mover places approved files at their library destination and retires the
// files they replace.
type Mover struct {
	renamer *Renamer
	recycle *RecycleBin
	store   *library.Store
	log     *slog.Logger
}

// NewMover creates a mover.
func NewMover(renamer *Renamer, recycle *RecycleBin, store *library.Store, log *slog.Logger) *Mover {
	return &Mover{renamer: renamer, recycle: recycle, store: store, log: log}
}

// DestinationPath computes where the candidate belongs inside the library.
func (m *Mover) DestinationPath(lb *LocalBook) (string, error) {
	if lb.Author == nil || lb.Book == nil {
		return "", fmt.Errorf("candidate %s has no resolved book", lb)
	}

	root := lb.Author.RootFolderPath
	if root == "" && lb.Author.Path != "" {
		root = filepath.Dir(lb.Author.Path)
	}
	if root == "" {
		return "", fmt.Errorf("author %q has no root folder", lb.Author.Name)
	}

	ext := strings.TrimPrefix(filepath.Ext(lb.Path), ".")

	var rel string
	if lb.Book.SeriesTitle != "" {
		rel = m.renamer.SeriesPath(lb.Author.Name, lb.Book.SeriesTitle, lb.Book.SeriesIndex, lb.Book.Title, lb.Quality, ext)
	} else {
		rel = m.renamer.BookPath(lb.Author.Name, lb.Book.Title, lb.Quality, ext)
	}

	dst := filepath.Join(root, rel)
	if err := ValidatePath(dst, root); err != nil {
		return "", err
	}
	return dst, nil
}

// RetireExisting recycles the files the book already has, returning their
// paths so callers can report what was replaced.
func (m *Mover) RetireExisting(book *library.Book, root string) ([]string, error) {
	existing, err := m.store.GetFilesByBook(book.ID)
	if err != nil {
		return nil, err
	}

	var old []string
	for _, f := range existing {
		if err := m.recycle.Remove(f.Path, root); err != nil {
			return old, err
		}
		if err := m.store.DeleteFile(f.ID); err != nil {
			return old, err
		}
		old = append(old, f.Path)
	}
	return old, nil
}

// Upgrade retires the book's current files, then puts the new one at dst.
// The returned paths are the files the new one superseded; a book with no
// files yet retires nothing and imports cleanly.
func (m *Mover) Upgrade(lb *LocalBook, dst string, mode ImportMode, dl *download.ClientItem) (int64, []string, error) {
	old, err := m.RetireExisting(lb.Book, lb.Author.RootFolderPath)
	if err != nil {
		return 0, old, err
	}
	if len(old) > 0 {
		m.log.Debug("superseded existing files", "book", lb.Book.Title, "files", len(old))
	}

	size, err := m.Transfer(lb, dst, mode, dl)
	return size, old, err
}

// Transfer puts the file at dst, copying or moving per the import mode. In
// auto mode the download client's ownership decides: clients still seeding
// keep their copy.
func (m *Mover) Transfer(lb *LocalBook, dst string, mode ImportMode, dl *download.ClientItem) (int64, error) {
	copyFile := false
	switch mode {
	case ImportCopy:
		copyFile = true
	case ImportMove:
		copyFile = false
	default:
		copyFile = dl != nil && !dl.CanMoveFiles
	}

	if copyFile {
		return CopyFile(lb.Path, dst)
	}
	return MoveFile(lb.Path, dst)
}
