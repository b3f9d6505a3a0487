package importer

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// extraExtensions are companion files worth carrying alongside a book.
var extraExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".opf": true, ".nfo": true, ".cue": true,
}

// ImportExtraFiles copies cover art and metadata companions from the source
// folder next to the imported file. Failures are logged, never fatal: extras
// are best-effort.
func ImportExtraFiles(srcFile, dstFile string, log *slog.Logger) []string {
	srcDir := filepath.Dir(srcFile)
	dstDir := filepath.Dir(dstFile)

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		log.Debug("extras scan failed", "dir", srcDir, "error", err)
		return nil
	}

	var copied []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !extraExtensions[ext] {
			continue
		}

		dst := filepath.Join(dstDir, entry.Name())
		if _, err := CopyFile(filepath.Join(srcDir, entry.Name()), dst); err != nil {
			if !errors.Is(err, ErrDestinationExists) {
				log.Debug("extra copy failed", "file", entry.Name(), "error", err)
			}
			continue
		}
		copied = append(copied, dst)
	}
	return copied
}
