package events

// FileImported is emitted per imported file, deferred until the bulk insert
// assigns database ids so the payload carries the real file id.
type FileImported struct {
	BaseEvent
	FileID      int64    `json:"file_id"`
	BookID      int64    `json:"book_id"`
	Path        string   `json:"path"`
	Quality     string   `json:"quality"`
	NewDownload bool     `json:"new_download"`
	OldFiles    []string `json:"old_files,omitempty"` // paths this file superseded
}

// NewFileImported creates a FileImported event.
func NewFileImported(fileID, bookID int64, path, quality string, newDownload bool, oldFiles []string) *FileImported {
	return &FileImported{
		BaseEvent:   NewBaseEvent(EventFileImported, EntityFile, fileID),
		FileID:      fileID,
		BookID:      bookID,
		Path:        path,
		Quality:     quality,
		NewDownload: newDownload,
		OldFiles:    oldFiles,
	}
}

// ImportFailed is emitted when a single file fails to import. The batch
// continues; this only reports the failure.
type ImportFailed struct {
	BaseEvent
	Path        string `json:"path"`
	Reason      string `json:"reason"`
	NewDownload bool   `json:"new_download"`
}

// NewImportFailed creates an ImportFailed event.
func NewImportFailed(bookID int64, path, reason string, newDownload bool) *ImportFailed {
	return &ImportFailed{
		BaseEvent:   NewBaseEvent(EventImportFailed, EntityBook, bookID),
		Path:        path,
		Reason:      reason,
		NewDownload: newDownload,
	}
}

// ReleaseGrabbed is emitted when a searched release is handed to the
// download client.
type ReleaseGrabbed struct {
	BaseEvent
	GUID    string `json:"guid"`
	Title   string `json:"title"`
	Indexer string `json:"indexer"`
	BookID  int64  `json:"book_id"`
}

// NewReleaseGrabbed creates a ReleaseGrabbed event.
func NewReleaseGrabbed(bookID int64, guid, title, indexer string) *ReleaseGrabbed {
	return &ReleaseGrabbed{
		BaseEvent: NewBaseEvent(EventReleaseGrabbed, EntityRelease, bookID),
		GUID:      guid,
		Title:     title,
		Indexer:   indexer,
		BookID:    bookID,
	}
}
