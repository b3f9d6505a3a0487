package search_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/shelfarr/internal/config"
	"github.com/vmunix/shelfarr/internal/search"
	"github.com/vmunix/shelfarr/pkg/release"
)

const emptyFeed = `<?xml version="1.0"?><rss version="2.0"><channel></channel></rss>`

func feedWith(titles ...string) string {
	items := ""
	for i, title := range titles {
		items += fmt.Sprintf(
			`<item><title>%s</title><guid>guid-%d</guid><link>https://indexer.test/get/%d</link><size>2048576</size></item>`,
			title, i, i)
	}
	return `<?xml version="1.0"?><rss version="2.0"><channel>` + items + `</channel></rss>`
}

func newTestIndexer(t *testing.T, handler http.HandlerFunc) *search.NewznabIndexer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return search.NewNewznabIndexer(config.NewznabConfig{
		Name:      "nzbtest",
		URL:       srv.URL,
		APIKey:    "secret",
		Automatic: true,
	}, testLogger())
}

func TestNewznabIndexer_Search(t *testing.T) {
	idx := newTestIndexer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "book", r.URL.Query().Get("t"))
		assert.Equal(t, "Frank Herbert", r.URL.Query().Get("author"))
		assert.Equal(t, "Dune", r.URL.Query().Get("title"))
		fmt.Fprint(w, feedWith("Frank Herbert - Dune (1965) Retail EPUB"))
	})

	releases, err := idx.Search(context.Background(), testCriteria())
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.Equal(t, "Frank Herbert - Dune (1965) Retail EPUB", releases[0].Title)
	assert.Equal(t, "nzbtest", releases[0].Indexer)
	require.NotNil(t, releases[0].Parsed)
	assert.Equal(t, release.QualityEPUB, releases[0].Parsed.Quality)
}

func TestNewznabIndexer_Search_FreeTextFallback(t *testing.T) {
	// Indexers without t=book support answer the book query with an empty
	// feed; the indexer must retry with a free-text search.
	var queries []string
	idx := newTestIndexer(t, func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("t"))
		if r.URL.Query().Get("t") == "book" {
			fmt.Fprint(w, emptyFeed)
			return
		}
		assert.Equal(t, "Frank Herbert Dune", r.URL.Query().Get("q"))
		fmt.Fprint(w, feedWith("Frank Herbert - Dune - AZW3"))
	})

	releases, err := idx.Search(context.Background(), testCriteria())
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.Equal(t, "Frank Herbert - Dune - AZW3", releases[0].Title)
	assert.Equal(t, []string{"book", "search"}, queries)
}

func TestNewznabIndexer_Search_NoFallbackWhenBookSearchHits(t *testing.T) {
	var calls int
	idx := newTestIndexer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, feedWith("Frank Herbert - Dune - EPUB"))
	})

	releases, err := idx.Search(context.Background(), testCriteria())
	require.NoError(t, err)
	assert.Len(t, releases, 1)
	assert.Equal(t, 1, calls, "a successful book search should not trigger a free-text retry")
}

func TestNewznabIndexer_Test(t *testing.T) {
	idx := newTestIndexer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "caps", r.URL.Query().Get("t"))
		assert.Equal(t, "secret", r.URL.Query().Get("apikey"))
		fmt.Fprint(w, `<?xml version="1.0"?><caps></caps>`)
	})

	require.NoError(t, idx.Test(context.Background()))
}

func TestNewznabIndexer_Test_Failure(t *testing.T) {
	idx := newTestIndexer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	require.Error(t, idx.Test(context.Background()))
}
