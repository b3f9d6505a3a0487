package release

import (
	"regexp"
	"strings"
)

var (
	yearRegex  = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	groupRegex = regexp.MustCompile(`-([A-Za-z0-9]+)$`)

	// formatRegex matches a format token surrounded by separators so that
	// words like "epublishing" don't trip it.
	formatRegex = regexp.MustCompile(`(?i)\b(epub|mobi|azw3|azw|pdf|m4b|m4a|mp3|flac)\b`)

	bracketRegex = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)
	flagRegex    = regexp.MustCompile(`(?i)\b(retail|unabridged|abridged|ebook|audiobook)\b`)
)

// Parse extracts information from a book release name.
// Handles both scene-style names ("Author.Name-Book.Title.2020.Retail.EPUB-GROUP")
// and human-readable names ("Author Name - Book Title (2020) [EPUB]").
func Parse(name string) *Info {
	info := &Info{}

	working := strings.TrimSpace(name)

	// Release group comes last, after the final hyphen, and only when it
	// looks like a scene tag rather than part of the title.
	if m := groupRegex.FindStringSubmatch(working); m != nil {
		tail := m[1]
		if !formatRegex.MatchString(tail) && !yearRegex.MatchString(tail) {
			info.Group = tail
			working = strings.TrimSuffix(working, m[0])
		}
	}

	// Scene names carry no spaces; the bare hyphen splits author from
	// title there. Human names use " - ".
	author, title := splitAuthorTitle(working)

	// Dots and underscores are separators in scene names.
	author = despace(author)
	title = despace(title)
	working = despace(working)

	if m := formatRegex.FindString(working); m != "" {
		info.Quality = ParseQuality(m)
	}

	if m := yearRegex.FindString(working); m != "" {
		info.Year = atoiSafe(m)
	}

	lower := strings.ToLower(working)
	info.Retail = strings.Contains(lower, "retail")
	info.Unabridged = strings.Contains(lower, "unabridged")

	info.Author = author
	info.Title = stripReleaseTokens(title)
	info.CleanTitle = CleanTitle(info.Title)

	return info
}

// splitAuthorTitle splits "Author - Title ..." names on the first hyphen
// separator, or on a bare hyphen for space-less scene names. Names without
// a separator are all title.
func splitAuthorTitle(s string) (author, title string) {
	if idx := strings.Index(s, " - "); idx > 0 {
		return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+3:])
	}
	if !strings.Contains(s, " ") {
		if idx := strings.Index(s, "-"); idx > 0 && idx < len(s)-1 {
			return s[:idx], s[idx+1:]
		}
	}
	return "", strings.TrimSpace(s)
}

// despace turns scene separators into spaces and collapses runs.
func despace(s string) string {
	s = strings.ReplaceAll(s, ".", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

// stripReleaseTokens removes year, format, bracket groups and release flags
// from a title segment, leaving the human title.
func stripReleaseTokens(s string) string {
	s = bracketRegex.ReplaceAllString(s, " ")
	s = yearRegex.ReplaceAllString(s, " ")
	s = formatRegex.ReplaceAllString(s, " ")
	s = flagRegex.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, " -")
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(s), "[]()."))
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
