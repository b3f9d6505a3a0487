package release

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Info
	}{
		{
			name: "scene style",
			in:   "Frank.Herbert-Dune.1965.Retail.EPUB-GROUP",
			want: Info{Author: "Frank Herbert", Title: "Dune", Year: 1965, Quality: QualityEPUB, Group: "GROUP", Retail: true},
		},
		{
			name: "human readable",
			in:   "Ursula K. Le Guin - The Dispossessed (1974) [EPUB]",
			want: Info{Author: "Ursula K Le Guin", Title: "The Dispossessed", Year: 1974, Quality: QualityEPUB},
		},
		{
			name: "audiobook unabridged",
			in:   "Frank Herbert - Dune Messiah Unabridged M4B-GRP",
			want: Info{Author: "Frank Herbert", Title: "Dune Messiah", Quality: QualityM4B, Group: "GRP", Unabridged: true},
		},
		{
			name: "no author segment",
			in:   "The Left Hand of Darkness 1969 MOBI",
			want: Info{Title: "The Left Hand of Darkness", Year: 1969, Quality: QualityMOBI},
		},
		{
			name: "underscores as separators",
			in:   "Kim_Stanley_Robinson_-_Red_Mars_1992_EPUB",
			want: Info{Author: "Kim Stanley Robinson", Title: "Red Mars", Year: 1992, Quality: QualityEPUB},
		},
		{
			name: "format suffix not mistaken for group",
			in:   "Author Name - Some Title-EPUB",
			want: Info{Author: "Author Name", Title: "Some Title", Quality: QualityEPUB},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.in)
			assert.Equal(t, tt.want.Author, got.Author)
			assert.Equal(t, tt.want.Title, got.Title)
			assert.Equal(t, tt.want.Year, got.Year)
			assert.Equal(t, tt.want.Quality, got.Quality)
			assert.Equal(t, tt.want.Group, got.Group)
			assert.Equal(t, tt.want.Retail, got.Retail)
			assert.Equal(t, tt.want.Unabridged, got.Unabridged)
		})
	}
}

func TestParse_CleanTitleFilled(t *testing.T) {
	got := Parse("Frank Herbert - Dune (1965) EPUB-GRP")
	assert.Equal(t, "dune", got.CleanTitle)
}

func TestParseQuality(t *testing.T) {
	tests := []struct {
		in   string
		want Quality
	}{
		{"epub", QualityEPUB},
		{"EPUB", QualityEPUB},
		{"mobi", QualityMOBI},
		{"azw", QualityMOBI},
		{"azw3", QualityAZW3},
		{"pdf", QualityPDF},
		{"mp3", QualityMP3},
		{"m4b", QualityM4B},
		{"m4a", QualityM4B},
		{"flac", QualityFLAC},
		{"mkv", QualityUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuality(tt.in))
		})
	}
}

func TestQuality_IsAudio(t *testing.T) {
	assert.True(t, QualityM4B.IsAudio())
	assert.True(t, QualityMP3.IsAudio())
	assert.True(t, QualityFLAC.IsAudio())
	assert.False(t, QualityEPUB.IsAudio())
	assert.False(t, QualityUnknown.IsAudio())
}
