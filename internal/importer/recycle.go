package importer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

// RecycleBin moves replaced files out of the library instead of deleting
// them outright. An empty bin path means permanent deletion.
type RecycleBin struct {
	path string
	log  *slog.Logger
}

// NewRecycleBin creates a recycle bin rooted at path.
func NewRecycleBin(path string, log *slog.Logger) *RecycleBin {
	return &RecycleBin{path: path, log: log}
}

// Remove disposes of a library file. With a bin configured the file moves
// under the bin keeping its path relative to root; otherwise it is deleted.
func (b *RecycleBin) Remove(path, root string) error {
	if b.path == "" {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("delete file: %w", err)
		}
		b.log.Debug("file deleted", "path", path)
		return nil
	}

	rel, err := filepath.Rel(root, path)
	if err != nil || filepath.IsAbs(rel) {
		rel = filepath.Base(path)
	}
	dst := filepath.Join(b.path, rel)
	dst = uniquePath(dst)

	if _, err := MoveFile(path, dst); err != nil {
		return fmt.Errorf("recycle file: %w", err)
	}
	b.log.Debug("file recycled", "path", path, "recycled_to", dst)
	return nil
}

// uniquePath appends a numeric suffix until the path doesn't collide with a
// previously recycled file.
func uniquePath(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path
	}
	ext := filepath.Ext(path)
	base := path[:len(path)-len(ext)]
	for i := 1; ; i++ {
		candidate := base + "_" + strconv.Itoa(i) + ext
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
	}
}
