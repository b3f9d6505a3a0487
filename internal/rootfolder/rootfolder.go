// Package rootfolder resolves library root folders and the defaults they
// apply to newly created authors.
package rootfolder

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/vmunix/shelfarr/internal/config"
	"github.com/vmunix/shelfarr/internal/library"
)

// ErrNoRootFolder is returned when a path is under none of the configured
// root folders. The importer records this as a per-file failure.
var ErrNoRootFolder = errors.New("no root folder contains path")

// RootFolder is a configured library root with author-creation defaults.
type RootFolder struct {
	Path            string
	QualityProfile  string
	MetadataProfile string
	Monitor         library.MonitorType
	Calibre         bool
	Tags            []string
}

// Service resolves the best root folder for a path.
type Service struct {
	folders []RootFolder
}

// NewService builds a service from the configured root folders.
func NewService(cfg []config.RootFolder, defaultProfile string) *Service {
	folders := make([]RootFolder, 0, len(cfg))
	for _, rf := range cfg {
		profile := rf.QualityProfile
		if profile == "" {
			profile = defaultProfile
		}
		monitor := library.MonitorType(rf.Monitor)
		if rf.Monitor == "" {
			monitor = library.MonitorAll
		}
		folders = append(folders, RootFolder{
			Path:            filepath.Clean(rf.Path),
			QualityProfile:  profile,
			MetadataProfile: rf.MetadataProfile,
			Monitor:         monitor,
			Calibre:         rf.Calibre,
			Tags:            rf.Tags,
		})
	}
	return &Service{folders: folders}
}

// All returns the configured root folders.
func (s *Service) All() []RootFolder {
	return s.folders
}

// GetBestRootFolder returns the root folder containing path, preferring the
// longest matching prefix when roots nest. Returns ErrNoRootFolder when no
// root contains the path.
func (s *Service) GetBestRootFolder(path string) (*RootFolder, error) {
	path = filepath.Clean(path)

	var best *RootFolder
	for i := range s.folders {
		rf := &s.folders[i]
		if !containsPath(rf.Path, path) {
			continue
		}
		if best == nil || len(rf.Path) > len(best.Path) {
			best = rf
		}
	}

	if best == nil {
		return nil, ErrNoRootFolder
	}
	return best, nil
}

// containsPath reports whether child is root or lives under root.
func containsPath(root, child string) bool {
	if root == child {
		return true
	}
	return strings.HasPrefix(child, root+string(filepath.Separator))
}
