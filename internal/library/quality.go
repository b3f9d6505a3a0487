package library

import "github.com/vmunix/shelfarr/pkg/release"

// Profile is an ordered quality accept list. The first entry is the most
// wanted quality; qualities not listed are not allowed at all.
type Profile struct {
	Name   string
	Accept []string
}

// Rank returns the preference rank of a quality within the profile: the
// first accept entry scores len(Accept), the last scores 1, and a quality
// not in the list scores 0 (not allowed).
func (p Profile) Rank(quality string) int {
	q := release.ParseQuality(quality)
	for i, accept := range p.Accept {
		if release.ParseQuality(accept) == q && q != release.QualityUnknown {
			return len(p.Accept) - i
		}
	}
	return 0
}

// Allows reports whether the profile accepts the quality at all.
func (p Profile) Allows(quality string) bool {
	return p.Rank(quality) > 0
}

// IsUpgrade reports whether quality strictly beats existing within the
// profile, i.e. whether a file of this quality is an upgrade worth taking.
func (p Profile) IsUpgrade(quality, existing string) bool {
	return p.Rank(quality) > p.Rank(existing)
}
