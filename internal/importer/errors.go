package importer

import "errors"

var (
	// ErrAugmentingFailed indicates no usable metadata could be assembled
	// for a file from tags, folder name or download-client title.
	ErrAugmentingFailed = errors.New("unable to assemble metadata for file")

	// ErrUnsupportedFormat indicates the file extension is not a known
	// book or audiobook format.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrCopyFailed indicates the file copy operation failed.
	ErrCopyFailed = errors.New("failed to copy file")

	// ErrMoveFailed indicates the file move operation failed.
	ErrMoveFailed = errors.New("failed to move file")

	// ErrDestinationExists indicates the destination file already exists.
	ErrDestinationExists = errors.New("destination file already exists")

	// ErrPathTraversal indicates a destination escaping its root folder.
	ErrPathTraversal = errors.New("path traversal detected")
)
