// Package release parses book release names and matches titles against
// library candidates.
package release

// Quality represents the file format of a book release, ordered roughly
// worst to best within each media kind.
type Quality int

const (
	QualityUnknown Quality = iota

	// Text formats
	QualityPDF
	QualityMOBI
	QualityEPUB
	QualityAZW3

	// Audio formats
	QualityMP3
	QualityM4B
	QualityFLAC
)

func (q Quality) String() string {
	switch q {
	case QualityPDF:
		return "pdf"
	case QualityMOBI:
		return "mobi"
	case QualityEPUB:
		return "epub"
	case QualityAZW3:
		return "azw3"
	case QualityMP3:
		return "mp3"
	case QualityM4B:
		return "m4b"
	case QualityFLAC:
		return "flac"
	default:
		return "unknown"
	}
}

// IsAudio reports whether the quality is an audiobook format.
func (q Quality) IsAudio() bool {
	return q == QualityMP3 || q == QualityM4B || q == QualityFLAC
}

// ParseQuality maps a format token or file extension to a Quality.
func ParseQuality(s string) Quality {
	switch normalizeToken(s) {
	case "pdf":
		return QualityPDF
	case "mobi", "azw":
		return QualityMOBI
	case "epub":
		return QualityEPUB
	case "azw3", "kf8":
		return QualityAZW3
	case "mp3":
		return QualityMP3
	case "m4b", "m4a", "aac":
		return QualityM4B
	case "flac":
		return QualityFLAC
	default:
		return QualityUnknown
	}
}

// Info contains parsed information from a book release name.
type Info struct {
	Author     string // empty when the name carries no author segment
	Title      string
	Year       int
	Quality    Quality
	Group      string // release group, empty if absent
	Retail     bool   // retail rip as opposed to ARC/web conversion
	Unabridged bool

	// CleanTitle is the normalized Title for matching.
	CleanTitle string
}
