package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CopyFile copies a file from src to dst.
// Creates destination directory if it doesn't exist.
// Returns ErrDestinationExists if dst already exists.
func CopyFile(src, dst string) (int64, error) {
	if _, err := os.Stat(dst); err == nil {
		return 0, ErrDestinationExists
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, fmt.Errorf("%w: create directory: %v", ErrCopyFailed, err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("%w: open source: %v", ErrCopyFailed, err)
	}
	defer func() { _ = srcFile.Close() }()

	dstFile, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("%w: create destination: %v", ErrCopyFailed, err)
	}
	defer func() { _ = dstFile.Close() }()

	size, err := io.Copy(dstFile, srcFile)
	if err != nil {
		// Clean up partial file on error
		_ = os.Remove(dst)
		return 0, fmt.Errorf("%w: copy content: %v", ErrCopyFailed, err)
	}

	if err := dstFile.Sync(); err != nil {
		return 0, fmt.Errorf("%w: sync: %v", ErrCopyFailed, err)
	}

	return size, nil
}

// MoveFile moves a file from src to dst, falling back to copy-and-delete
// when rename crosses a filesystem boundary.
// Returns ErrDestinationExists if dst already exists.
func MoveFile(src, dst string) (int64, error) {
	fi, err := os.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("%w: stat source: %v", ErrMoveFailed, err)
	}

	if _, err := os.Stat(dst); err == nil {
		return 0, ErrDestinationExists
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, fmt.Errorf("%w: create directory: %v", ErrMoveFailed, err)
	}

	if err := os.Rename(src, dst); err == nil {
		return fi.Size(), nil
	}

	size, err := CopyFile(src, dst)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMoveFailed, err)
	}
	if err := os.Remove(src); err != nil {
		return size, fmt.Errorf("%w: remove source: %v", ErrMoveFailed, err)
	}
	return size, nil
}

// FindBookFiles finds all book files in a directory tree.
// Skips files with "sample" in the name.
func FindBookFiles(root string) ([]string, error) {
	var books []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !IsBookFile(path) {
			return nil
		}

		// Skip sample files
		name := strings.ToLower(info.Name())
		if strings.Contains(name, "sample") {
			return nil
		}

		books = append(books, path)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	return books, nil
}
