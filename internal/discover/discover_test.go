// ABOUTME: Unit tests for podcast feed discovery
// ABOUTME: Tests direct feeds, HTML link extraction, and common path probing against httptest servers

package discover

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/harper/podfeed/internal/fetch"
)

const testRSSFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">
  <channel>
    <title>Test Podcast</title>
    <link>https://example.com</link>
    <description>A test podcast</description>
    <item>
      <title>Episode 1</title>
      <guid>ep-1</guid>
      <enclosure url="https://cdn.example.com/ep1.mp3" type="audio/mpeg" length="100"/>
    </item>
  </channel>
</rss>`

const testUntitledFeed = `<?xml version="1.0"?><rss version="2.0"><channel></channel></rss>`

const testAtomFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Test Atom Podcast</title>
  <id>urn:test</id>
  <updated>2025-01-15T10:00:00Z</updated>
  <entry>
    <title>Episode 1</title>
    <id>entry-1</id>
    <updated>2025-01-15T10:00:00Z</updated>
  </entry>
</feed>`

const testHTMLWithFeedLink = `<!DOCTYPE html>
<html>
<head>
  <title>Test Site</title>
  <link rel="alternate" type="application/rss+xml" title="RSS Feed" href="/feed.xml">
  <link rel="alternate" type="application/atom+xml" title="Atom Feed" href="/atom.xml">
</head>
<body>
  <h1>Test Site</h1>
</body>
</html>`

const testHTMLNoFeedLinks = `<!DOCTYPE html>
<html>
<head>
  <title>Test Site</title>
</head>
<body>
  <h1>No podcasts here</h1>
</body>
</html>`

func discover(t *testing.T, inputURL string) (*DiscoveredFeed, error) {
	t.Helper()
	return Discover(context.Background(), fetch.NewClient(5*time.Second), inputURL)
}

func serve(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestDiscover_DirectFeed(t *testing.T) {
	server := serve(t, map[string]string{"/": testRSSFeed})

	feed, err := discover(t, server.URL)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if feed.URL != server.URL {
		t.Errorf("expected URL %s, got %s", server.URL, feed.URL)
	}
	if feed.Title != "Test Podcast" {
		t.Errorf("expected title 'Test Podcast', got '%s'", feed.Title)
	}
}

func TestDiscover_DirectAtomFeed(t *testing.T) {
	server := serve(t, map[string]string{"/": testAtomFeed})

	feed, err := discover(t, server.URL)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if feed.Title != "Test Atom Podcast" {
		t.Errorf("expected title 'Test Atom Podcast', got '%s'", feed.Title)
	}
}

func TestDiscover_HTMLWithFeedLink(t *testing.T) {
	server := serve(t, map[string]string{
		"/":         testHTMLWithFeedLink,
		"/feed.xml": testRSSFeed,
		"/atom.xml": testAtomFeed,
	})

	feed, err := discover(t, server.URL)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if want := server.URL + "/feed.xml"; feed.URL != want {
		t.Errorf("expected URL %s, got %s", want, feed.URL)
	}
	if feed.Title != "Test Podcast" {
		t.Errorf("expected title 'Test Podcast', got '%s'", feed.Title)
	}
}

func TestDiscover_LinkTitleFallback(t *testing.T) {
	server := serve(t, map[string]string{
		"/":         `<html><head><link rel="alternate" type="application/rss+xml" title="Site Podcast" href="/feed.xml"></head></html>`,
		"/feed.xml": testUntitledFeed,
	})

	feed, err := discover(t, server.URL)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if feed.Title != "Site Podcast" {
		t.Errorf("expected link title 'Site Podcast', got '%s'", feed.Title)
	}
}

func TestDiscover_RelativeLinks(t *testing.T) {
	tests := []struct {
		name     string
		page     string
		href     string
		feedPath string
	}{
		{"sibling", "/blog/", "feed.xml", "/blog/feed.xml"},
		{"dot dot", "/blog/posts/", "../feed.xml", "/blog/feed.xml"},
		{"absolute path", "/blog/", "/podcast/rss", "/podcast/rss"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := serve(t, map[string]string{
				tt.page:     `<html><head><link rel="alternate" type="application/rss+xml" href="` + tt.href + `"></head></html>`,
				tt.feedPath: testRSSFeed,
			})

			feed, err := discover(t, server.URL+tt.page)
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if want := server.URL + tt.feedPath; feed.URL != want {
				t.Errorf("expected URL %s, got %s", want, feed.URL)
			}
		})
	}
}

func TestDiscover_SkipsBrokenCandidates(t *testing.T) {
	server := serve(t, map[string]string{
		"/": `<!DOCTYPE html>
<html>
<head>
  <link rel="alternate" type="application/rss+xml">
  <link href="/feed.xml">
  <link rel="alternate" type="application/rss+xml" href="ht!tp://invalid">
  <link rel="alternate" type="application/rss+xml" href="/missing.xml">
  <link rel="alternate" type="application/rss+xml" href="/valid-feed.xml">
</head>
<body></body>
</html>`,
		"/valid-feed.xml": testRSSFeed,
	})

	feed, err := discover(t, server.URL)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if want := server.URL + "/valid-feed.xml"; feed.URL != want {
		t.Errorf("expected URL %s, got %s", want, feed.URL)
	}
}

func TestDiscover_MalformedHTML(t *testing.T) {
	server := serve(t, map[string]string{
		"/":         `<html><head><link rel="alternate" type="application/rss+xml" href="/feed.xml"</head><body>broken`,
		"/feed.xml": testRSSFeed,
	})

	feed, err := discover(t, server.URL)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if want := server.URL + "/feed.xml"; feed.URL != want {
		t.Errorf("expected URL %s, got %s", want, feed.URL)
	}
}

func TestDiscover_ProbeCommonPaths(t *testing.T) {
	server := serve(t, map[string]string{
		"/about/":      testHTMLNoFeedLinks,
		"/feed.xml":    "<html><body>Not a feed</body></html>",
		"/rss.xml":     "<html><body>Not a feed</body></html>",
		"/podcast.xml": testRSSFeed,
	})

	feed, err := discover(t, server.URL+"/about/")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if want := server.URL + "/podcast.xml"; feed.URL != want {
		t.Errorf("expected URL %s, got %s", want, feed.URL)
	}
}

func TestDiscover_NoFeedFound(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		if r.URL.Path == "/" {
			w.Write([]byte(testHTMLNoFeedLinks))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	feed, err := discover(t, server.URL)
	if !errors.Is(err, ErrNoFeedFound) {
		t.Errorf("expected ErrNoFeedFound, got: %v", err)
	}
	if feed != nil {
		t.Errorf("expected nil feed, got: %+v", feed)
	}
	if got := atomic.LoadInt32(&requests); got != int32(1+len(commonFeedPaths)) {
		t.Errorf("expected %d requests, got %d", 1+len(commonFeedPaths), got)
	}
}

func TestDiscover_RootUnreachable(t *testing.T) {
	server := serve(t, map[string]string{})

	if _, err := discover(t, server.URL); err == nil || errors.Is(err, ErrNoFeedFound) {
		t.Errorf("expected fetch error for 404 root, got: %v", err)
	}
}

func TestDiscover_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "not-a-valid-url", "example.com/feed", "http://", "http://[invalid-host"} {
		if _, err := discover(t, raw); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("Discover(%q): expected ErrInvalidURL, got %v", raw, err)
		}
	}
}

func TestExtractFeedLinks(t *testing.T) {
	base, _ := url.Parse("https://example.com/shows/")
	links := extractFeedLinks([]byte(testHTMLWithFeedLink), base)

	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}
	if links[0].URL != "https://example.com/feed.xml" || links[0].Title != "RSS Feed" {
		t.Errorf("unexpected first link: %+v", links[0])
	}
	if links[1].URL != "https://example.com/atom.xml" {
		t.Errorf("unexpected second link: %+v", links[1])
	}
}

func TestIsFeedContentType(t *testing.T) {
	tests := []struct {
		contentType string
		expected    bool
	}{
		{"application/rss+xml", true},
		{"application/atom+xml", true},
		{"application/xml", true},
		{"text/xml", true},
		{"text/html", false},
		{"application/json", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := isFeedContentType(tc.contentType); got != tc.expected {
			t.Errorf("isFeedContentType(%q) = %v, expected %v", tc.contentType, got, tc.expected)
		}
	}
}
