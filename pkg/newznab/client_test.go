package newznab

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testXMLResponse = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:newznab="http://www.newznab.com/DTD/2010/feeds/attributes/">
  <channel>
    <item>
      <title>Frank Herbert - Dune (1965) Retail EPUB-GRP</title>
      <guid>abc123</guid>
      <link>http://example.com/download/abc123</link>
      <pubDate>Sat, 18 Jan 2026 12:00:00 +0000</pubDate>
      <enclosure url="http://example.com/download/abc123" length="2500000" type="application/x-nzb" />
      <newznab:attr name="category" value="7020" />
    </item>
    <item>
      <title>Frank Herbert - Dune Messiah (1969) EPUB</title>
      <guid>def456</guid>
      <link>http://example.com/download/def456</link>
      <pubDate>Fri, 17 Jan 2026 10:30:00 +0000</pubDate>
      <enclosure url="http://example.com/download/def456" length="1800000" type="application/x-nzb" />
    </item>
  </channel>
</rss>`

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api", r.URL.Path, "unexpected path")
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"), "unexpected apikey")
		assert.Equal(t, "frank herbert dune", r.URL.Query().Get("q"), "unexpected query")
		assert.Equal(t, "search", r.URL.Query().Get("t"), "unexpected type")

		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(testXMLResponse))
	}))
	defer server.Close()

	client := NewClient("TestIndexer", server.URL, "test-key", nil)

	releases, err := client.Search(context.Background(), "frank herbert dune", []int{CategoryBooks})
	require.NoError(t, err, "Search failed")
	require.Len(t, releases, 2, "expected 2 releases")

	assert.Equal(t, "Frank Herbert - Dune (1965) Retail EPUB-GRP", releases[0].Title, "unexpected title")
	assert.Equal(t, int64(2500000), releases[0].Size, "unexpected size")
	assert.Equal(t, "TestIndexer", releases[0].Indexer, "unexpected indexer")
	assert.Equal(t, "abc123", releases[0].GUID, "unexpected GUID")
	assert.Equal(t, "http://example.com/download/abc123", releases[0].DownloadURL, "unexpected download URL")
}

func TestClient_SearchBooks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "book", r.URL.Query().Get("t"), "unexpected type")
		assert.Equal(t, "Frank Herbert", r.URL.Query().Get("author"), "unexpected author")
		assert.Equal(t, "Dune", r.URL.Query().Get("title"), "unexpected title")
		assert.Empty(t, r.URL.Query().Get("q"), "book search should not set q")

		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(testXMLResponse))
	}))
	defer server.Close()

	client := NewClient("TestIndexer", server.URL, "test-key", nil)
	releases, err := client.SearchBooks(context.Background(), "Frank Herbert", "Dune", []int{CategoryEbook})
	require.NoError(t, err, "SearchBooks failed")
	require.Len(t, releases, 2, "expected 2 releases")
}

func TestClient_SearchBooks_OmitsEmptyFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("author"), "empty author should not add param")
		assert.Equal(t, "Dune", r.URL.Query().Get("title"), "unexpected title")
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(testXMLResponse))
	}))
	defer server.Close()

	client := NewClient("Test", server.URL, "key", nil)
	_, err := client.SearchBooks(context.Background(), "", "Dune", nil)
	require.NoError(t, err, "SearchBooks failed")
}

func TestClient_SearchWithCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cat := r.URL.Query().Get("cat")
		assert.Equal(t, "7000,7020,3030", cat, "unexpected categories")
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(testXMLResponse))
	}))
	defer server.Close()

	client := NewClient("Test", server.URL, "key", nil)
	_, err := client.Search(context.Background(), "test", []int{CategoryBooks, CategoryEbook, CategoryAudiobook})
	require.NoError(t, err, "Search failed")
}

func TestClient_SearchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient("Test", server.URL, "bad-key", nil)
	_, err := client.Search(context.Background(), "test", nil)
	assert.Error(t, err, "expected error for 401 response")
}

func TestClient_Name(t *testing.T) {
	client := NewClient("MyIndexer", "http://example.com", "key", nil)
	assert.Equal(t, "MyIndexer", client.Name(), "unexpected name")
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client := NewClient("Test", "http://example.com/", "key", nil)
	assert.Equal(t, "http://example.com", client.baseURL, "expected trailing slash trimmed")
}

func TestSearch_MalformedXML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0"?><rss><channel><item><title>broken`))
	}))
	defer server.Close()

	client := NewClient("Test", server.URL, "key", nil)
	_, err := client.Search(context.Background(), "test", nil)
	require.Error(t, err, "expected error for malformed XML")
	assert.Contains(t, err.Error(), "parse response", "error should mention parsing")
}

func TestSearch_EmptyResponse(t *testing.T) {
	const emptyXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:newznab="http://www.newznab.com/DTD/2010/feeds/attributes/">
  <channel>
  </channel>
</rss>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(emptyXML))
	}))
	defer server.Close()

	client := NewClient("Test", server.URL, "key", nil)
	releases, err := client.Search(context.Background(), "no results", nil)
	require.NoError(t, err, "empty response should not error")
	assert.Empty(t, releases, "expected empty results")
}

func TestSearch_ErrorResponse(t *testing.T) {
	// Newznab API error responses have a different root element (<error> instead of <rss>).
	// The XML parser returns an error because it expects <rss>.
	const errorXML = `<?xml version="1.0" encoding="UTF-8"?>
<error code="100" description="Incorrect user credentials"/>
`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(errorXML))
	}))
	defer server.Close()

	client := NewClient("Test", server.URL, "key", nil)
	_, err := client.Search(context.Background(), "test", nil)
	require.Error(t, err, "error response should cause parsing error")
	assert.Contains(t, err.Error(), "parse response", "error should indicate parsing issue")
}

func TestSearch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient("Test", server.URL, "key", nil)
	_, err := client.Search(context.Background(), "test", nil)
	require.Error(t, err, "expected error for 500 response")
	assert.Contains(t, err.Error(), "500", "error should contain status code")
}

func TestSearch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(testXMLResponse))
	}))
	defer server.Close()

	client := NewClient("Test", server.URL, "key", nil)
	client.httpClient.Timeout = 50 * time.Millisecond

	_, err := client.Search(context.Background(), "test", nil)
	require.Error(t, err, "expected timeout error")
	assert.Contains(t, err.Error(), "request failed", "error should indicate request failure")
}

func TestSearch_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(testXMLResponse))
	}))
	defer server.Close()

	client := NewClient("Test", server.URL, "key", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, "test", nil)
	require.Error(t, err, "expected error for canceled context")
	assert.Contains(t, err.Error(), "request failed", "error should indicate request failure")
}

func TestSearch_MissingFields(t *testing.T) {
	const minimalXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:newznab="http://www.newznab.com/DTD/2010/feeds/attributes/">
  <channel>
    <item>
      <title>Minimal Release EPUB</title>
      <guid>minimal123</guid>
      <link>http://example.com/download/minimal123</link>
    </item>
  </channel>
</rss>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(minimalXML))
	}))
	defer server.Close()

	client := NewClient("Test", server.URL, "key", nil)
	releases, err := client.Search(context.Background(), "test", nil)
	require.NoError(t, err, "missing fields should not cause error")
	require.Len(t, releases, 1, "expected 1 release")

	rel := releases[0]
	assert.Equal(t, "Minimal Release EPUB", rel.Title, "title should be set")
	assert.Equal(t, "minimal123", rel.GUID, "GUID should be set")
	assert.Equal(t, "http://example.com/download/minimal123", rel.DownloadURL, "download URL should be set")
	assert.Equal(t, int64(0), rel.Size, "size should default to 0")
	assert.True(t, rel.PublishDate.IsZero(), "publish date should be zero value")
}

func TestSearch_InvalidDate(t *testing.T) {
	const invalidDateXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:newznab="http://www.newznab.com/DTD/2010/feeds/attributes/">
  <channel>
    <item>
      <title>Release With Bad Date EPUB</title>
      <guid>baddate123</guid>
      <link>http://example.com/download/baddate123</link>
      <pubDate>not-a-valid-date-format</pubDate>
      <enclosure url="http://example.com/download/baddate123" length="5000000" type="application/x-nzb" />
    </item>
  </channel>
</rss>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(invalidDateXML))
	}))
	defer server.Close()

	client := NewClient("Test", server.URL, "key", nil)
	releases, err := client.Search(context.Background(), "test", nil)
	require.NoError(t, err, "invalid date should not cause error")
	require.Len(t, releases, 1, "expected 1 release")

	rel := releases[0]
	assert.True(t, rel.PublishDate.IsZero(), "invalid date should result in zero time")
	assert.Equal(t, int64(5000000), rel.Size, "size should still be parsed")
}

func TestCaps_Success(t *testing.T) {
	const capsXML = `<?xml version="1.0" encoding="UTF-8"?>
<caps>
  <server version="0.1" title="Test Indexer"/>
  <limits max="100" default="100"/>
  <searching>
    <search available="yes"/>
    <book-search available="yes" supportedParams="author,title"/>
  </searching>
  <categories>
    <category id="7000" name="Books"/>
  </categories>
</caps>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "caps", r.URL.Query().Get("t"), "expected caps request type")
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"), "expected apikey")
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(capsXML))
	}))
	defer server.Close()

	client := NewClient("Test", server.URL, "test-key", nil)
	err := client.Caps(context.Background())
	require.NoError(t, err, "Caps should succeed")
}

func TestCaps_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("Service Unavailable"))
	}))
	defer server.Close()

	client := NewClient("Test", server.URL, "key", nil)
	err := client.Caps(context.Background())
	require.Error(t, err, "expected error for 503 response")
	assert.Contains(t, err.Error(), "503", "error should contain status code")
}

func TestClient_URL(t *testing.T) {
	client := NewClient("TestIndexer", "http://example.com/newznab", "key", nil)
	assert.Equal(t, "http://example.com/newznab", client.URL(), "URL should return base URL")
}

func TestSearch_SizeFromNewznabAttr(t *testing.T) {
	const sizeAttrXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:newznab="http://www.newznab.com/DTD/2010/feeds/attributes/">
  <channel>
    <item>
      <title>Release With Attr Size EPUB</title>
      <guid>attrsize123</guid>
      <link>http://example.com/download/attrsize123</link>
      <newznab:attr name="size" value="2000000" />
      <newznab:attr name="category" value="7020" />
    </item>
  </channel>
</rss>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(sizeAttrXML))
	}))
	defer server.Close()

	client := NewClient("Test", server.URL, "key", nil)
	releases, err := client.Search(context.Background(), "test", nil)
	require.NoError(t, err, "should handle size from newznab attr")
	require.Len(t, releases, 1, "expected 1 release")
	assert.Equal(t, int64(2000000), releases[0].Size, "size should be parsed from newznab:attr")
}

func TestSearch_DownloadURLFromEnclosure(t *testing.T) {
	const enclosureURLXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:newznab="http://www.newznab.com/DTD/2010/feeds/attributes/">
  <channel>
    <item>
      <title>Release Enclosure URL EPUB</title>
      <guid>encurl123</guid>
      <enclosure url="http://example.com/nzb/encurl123.nzb" length="1000000" type="application/x-nzb" />
    </item>
  </channel>
</rss>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(enclosureURLXML))
	}))
	defer server.Close()

	client := NewClient("Test", server.URL, "key", nil)
	releases, err := client.Search(context.Background(), "test", nil)
	require.NoError(t, err, "should handle URL from enclosure")
	require.Len(t, releases, 1, "expected 1 release")
	assert.Equal(t, "http://example.com/nzb/encurl123.nzb", releases[0].DownloadURL, "URL should come from enclosure")
}

func TestSearch_ItemSize(t *testing.T) {
	const itemSizeXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:newznab="http://www.newznab.com/DTD/2010/feeds/attributes/">
  <channel>
    <item>
      <title>Release Item Size EPUB</title>
      <guid>itemsize123</guid>
      <link>http://example.com/download/itemsize123</link>
      <size>3000000</size>
    </item>
  </channel>
</rss>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(itemSizeXML))
	}))
	defer server.Close()

	client := NewClient("Test", server.URL, "key", nil)
	releases, err := client.Search(context.Background(), "test", nil)
	require.NoError(t, err, "should handle size from item element")
	require.Len(t, releases, 1, "expected 1 release")
	assert.Equal(t, int64(3000000), releases[0].Size, "size should be parsed from item element")
}

func TestSearch_AlternateDateFormats(t *testing.T) {
	tests := []struct {
		name     string
		dateStr  string
		wantZero bool
	}{
		{"RFC1123Z", "Mon, 18 Jan 2026 12:00:00 -0700", false},
		{"RFC1123", "Mon, 18 Jan 2026 12:00:00 UTC", false},
		{"RFC1123 with MST", "Mon, 18 Jan 2026 12:00:00 EST", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xmlResp := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <item>
      <title>Date Test Release</title>
      <guid>date123</guid>
      <link>http://example.com/download/date123</link>
      <pubDate>` + tt.dateStr + `</pubDate>
    </item>
  </channel>
</rss>`

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/xml")
				_, _ = w.Write([]byte(xmlResp))
			}))
			defer server.Close()

			client := NewClient("Test", server.URL, "key", nil)
			releases, err := client.Search(context.Background(), "test", nil)
			require.NoError(t, err, "date parsing should not error")
			require.Len(t, releases, 1, "expected 1 release")

			if tt.wantZero {
				assert.True(t, releases[0].PublishDate.IsZero(), "expected zero time for %s", tt.name)
			} else {
				assert.False(t, releases[0].PublishDate.IsZero(), "expected non-zero time for %s", tt.name)
			}
		})
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("q"), "empty query should not add q param")
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(testXMLResponse))
	}))
	defer server.Close()

	client := NewClient("Test", server.URL, "key", nil)
	releases, err := client.Search(context.Background(), "", []int{CategoryBooks})
	require.NoError(t, err, "empty query search should succeed")
	assert.Len(t, releases, 2, "expected 2 releases")
}
