// Package download holds the download-client context consumed by the import
// decision pipeline. Talking to the actual client (SABnzbd, qBittorrent) is a
// collaborator concern; the completed-download glue fills one of these in
// before handing files to the importer.
package download

// ClientItem describes the download-client item a batch of files came from.
type ClientItem struct {
	ID    string
	Title string

	// OutputPath is where the client left the finished download.
	OutputPath string

	// CanMoveFiles is false when the client still seeds or otherwise owns
	// the files, forcing the importer to copy instead of move.
	CanMoveFiles bool
}
