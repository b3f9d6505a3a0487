package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/vmunix/shelfarr/internal/library"
)

// Scanner rescans an author's folder and reconciles the library with what
// is actually on disk.
type Scanner struct {
	store    *library.Store
	maker    *Maker
	approver *Approver
	log      *slog.Logger
}

// NewScanner creates a scanner.
func NewScanner(store *library.Store, maker *Maker, approver *Approver, log *slog.Logger) *Scanner {
	return &Scanner{store: store, maker: maker, approver: approver, log: log}
}

// RescanAuthor walks the author's folder and re-imports what it finds.
// Files already tracked with unchanged size and mtime are left alone.
func (s *Scanner) RescanAuthor(ctx context.Context, authorID int64) error {
	start := time.Now()

	author, err := s.store.GetAuthor(authorID)
	if err != nil {
		return fmt.Errorf("author %d: %w", authorID, err)
	}

	root := author.Path
	if root == "" {
		root = author.RootFolderPath
	}
	if root == "" {
		return fmt.Errorf("author %s has no path to scan", author.Name)
	}
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("scan %s: %w", root, err)
	}

	paths, err := FindBookFiles(root)
	if err != nil {
		return err
	}

	decisions, err := s.maker.GetImportDecisions(ctx, paths, BatchInfo{}, Overrides{Author: author}, MakerConfig{
		Filter:        FilterNew,
		NewDownload:   false,
		AddNewAuthors: true,
	})
	if err != nil {
		return err
	}

	results := s.approver.Import(ctx, decisions, ImportAuto, false, nil)

	imported := 0
	for _, r := range results {
		if r.Result() == ResultImported {
			imported++
		}
	}
	s.log.Info("author rescanned",
		"author", author.Name,
		"files", len(paths),
		"imported", imported,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}
