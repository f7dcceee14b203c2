// ABOUTME: Tests for the subscription orchestrator and OPML import
// ABOUTME: Uses an in-memory loader and a YAML store in a temp dir

package subscribe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/podfeed/internal/models"
	"github.com/harper/podfeed/internal/opml"
	"github.com/harper/podfeed/internal/parse"
	"github.com/harper/podfeed/internal/storage"
)

type fakeLoader struct {
	mu    sync.Mutex
	feeds map[string]string
	calls int32
}

func (f *fakeLoader) Load(ctx context.Context, url string) ([]byte, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.feeds[url]
	if !ok {
		return nil, fmt.Errorf("unexpected status 404 for %s", url)
	}
	return []byte(body), nil
}

func (f *fakeLoader) set(url, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feeds[url] = body
}

func feedXML(title string, items ...string) string {
	return `<?xml version="1.0"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">
<channel><title>` + title + `</title><link>https://example.com</link>` +
		strings.Join(items, "") + `</channel></rss>`
}

func item(title, audio string) string {
	enc := ""
	if audio != "" {
		enc = `<enclosure url="` + audio + `" type="audio/mpeg" length="1"/>`
	}
	return `<item><title>` + title + `</title><guid>` + title + `</guid>` + enc + `</item>`
}

var fixedNow = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, opts ...Option) (*Service, *fakeLoader, storage.Store) {
	t.Helper()
	store, err := storage.NewYAMLStore(t.TempDir())
	require.NoError(t, err)

	loader := &fakeLoader{feeds: map[string]string{}}
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewService(loader, store, opts...), loader, store
}

func TestSubscribe(t *testing.T) {
	svc, loader, store := newTestService(t)
	url := "https://example.com/feed.xml"
	loader.set(url, feedXML("My Show", item("One", "https://cdn.example.com/1.mp3"), item("Two", "")))

	var warnings []models.Warning
	svc.sink = models.Collect(&warnings)

	p, err := svc.Subscribe(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, "My Show", p.Title)
	assert.True(t, p.IsSubscribed)
	require.NotNil(t, p.DateAdded)
	assert.True(t, p.DateAdded.Equal(fixedNow))

	stored, err := store.GetPodcast(url)
	require.NoError(t, err)
	assert.True(t, stored.IsSubscribed)
	require.Len(t, stored.Episodes, 2)
	assert.Equal(t, "One", stored.Episodes[0].Title)
	assert.Nil(t, stored.Episodes[1].AudioURL)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].String(), "missing audio URL")
	assert.Contains(t, warnings[0].String(), "Two")
}

func TestService_With(t *testing.T) {
	svc, loader, store := newTestService(t)
	url := "https://example.com/feed.xml"
	loader.set(url, feedXML("My Show",
		item("Bonus", ""),
		`<item><title>Broken</title><guid>b</guid><enclosure url="ht!tp://bad url" type="audio/mpeg"/></item>`,
	))

	var base []models.Warning
	svc.sink = models.Collect(&base)

	var collected []models.Warning
	scoped := svc.With(WithWarningSink(models.Collect(&collected)))
	_, err := scoped.Subscribe(context.Background(), url)
	require.NoError(t, err)

	require.Len(t, collected, 2)
	assert.Equal(t, models.MissingAudio, collected[0].Kind)
	assert.Equal(t, models.InvalidAudio, collected[1].Kind)
	assert.Contains(t, collected[1].String(), "ht!tp://bad url")
	assert.Empty(t, base, "the original service keeps its own sink")
	assert.True(t, scoped.now().Equal(fixedNow), "the copy keeps the clock")

	_, err = store.GetPodcast(url)
	assert.NoError(t, err, "the copy writes to the shared store")
}

func TestSubscribe_InvalidURL(t *testing.T) {
	svc, loader, _ := newTestService(t)

	for _, raw := range []string{"", "ftp://example.com/feed", "not a url", "https://", "://missing"} {
		_, err := svc.Subscribe(context.Background(), raw)
		assert.ErrorIs(t, err, ErrInvalidURL, "url %q", raw)
	}
	assert.Zero(t, atomic.LoadInt32(&loader.calls), "loader must not be called for invalid URLs")
}

func TestSubscribe_Duplicate(t *testing.T) {
	svc, loader, _ := newTestService(t)
	url := "https://example.com/feed.xml"
	loader.set(url, feedXML("My Show"))

	_, err := svc.Subscribe(context.Background(), url)
	require.NoError(t, err)

	_, err = svc.Subscribe(context.Background(), url)
	assert.ErrorIs(t, err, ErrDuplicateSubscription)
	assert.Equal(t, int32(1), atomic.LoadInt32(&loader.calls), "duplicate check happens before loading")
}

func TestSubscribe_LoadFailed(t *testing.T) {
	svc, _, store := newTestService(t)

	_, err := svc.Subscribe(context.Background(), "https://example.com/missing.xml")
	assert.ErrorIs(t, err, ErrDataLoadFailed)

	podcasts, err := store.ListPodcasts()
	require.NoError(t, err)
	assert.Empty(t, podcasts)
}

func TestSubscribe_ParseFailed(t *testing.T) {
	svc, loader, store := newTestService(t)
	url := "https://example.com/broken.xml"
	loader.set(url, "<rss><channel><title>oops</channel>")

	_, err := svc.Subscribe(context.Background(), url)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParseFailed)

	assert.False(t, errors.Is(err, parse.ErrMalformed), "parser error must not leak through the chain")
	assert.Contains(t, err.Error(), "malformed feed")

	_, err = store.GetPodcast(url)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRefresh(t *testing.T) {
	svc, loader, store := newTestService(t)
	url := "https://example.com/feed.xml"
	loader.set(url, feedXML("My Show", item("One", "https://cdn.example.com/1.mp3")))

	_, err := svc.Subscribe(context.Background(), url)
	require.NoError(t, err)

	loader.set(url, feedXML("My Show Renamed",
		item("Two", "https://cdn.example.com/2.mp3"),
		item("One", "https://cdn.example.com/1.mp3"),
	))
	svc.now = func() time.Time { return fixedNow.Add(48 * time.Hour) }

	p, err := svc.Refresh(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, "My Show Renamed", p.Title)

	stored, err := store.GetPodcast(url)
	require.NoError(t, err)
	assert.Equal(t, "My Show Renamed", stored.Title)
	assert.True(t, stored.IsSubscribed)
	require.NotNil(t, stored.DateAdded)
	assert.True(t, stored.DateAdded.Equal(fixedNow), "refresh keeps the original DateAdded")
	require.Len(t, stored.Episodes, 2)
	assert.Equal(t, "Two", stored.Episodes[0].Title)
}

func TestRefresh_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Refresh(context.Background(), "https://example.com/nope.xml")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUnsubscribe(t *testing.T) {
	svc, loader, store := newTestService(t)
	url := "https://example.com/feed.xml"
	loader.set(url, feedXML("My Show"))

	_, err := svc.Subscribe(context.Background(), url)
	require.NoError(t, err)
	require.NoError(t, svc.Unsubscribe(url))

	_, err = store.GetPodcast(url)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, svc.Unsubscribe(url), storage.ErrNotFound)
}

func TestPreview_DoesNotStore(t *testing.T) {
	svc, loader, store := newTestService(t)
	url := "https://example.com/feed.xml"
	loader.set(url, feedXML("My Show", item("One", "")))

	var warnings []models.Warning
	p, err := svc.Preview(context.Background(), url, models.Collect(&warnings))
	require.NoError(t, err)
	assert.Len(t, warnings, 1)
	assert.False(t, p.IsSubscribed)
	assert.Nil(t, p.DateAdded)

	podcasts, err := store.ListPodcasts()
	require.NoError(t, err)
	assert.Empty(t, podcasts)
}

func TestImport(t *testing.T) {
	var mu sync.Mutex
	var warnings []models.Warning
	svc, loader, store := newTestService(t, WithWarningSink(func(w models.Warning) {
		mu.Lock()
		defer mu.Unlock()
		warnings = append(warnings, w)
	}))

	urls := []string{
		"https://a.example.com/feed",
		"https://b.example.com/feed",
		"https://c.example.com/feed",
	}
	for i, u := range urls {
		loader.set(u, feedXML(fmt.Sprintf("Show %d", i), item("Ep", "")))
	}

	doc := opml.NewDocument("subs")
	require.NoError(t, doc.AddFeed(urls[0], "A", ""))
	require.NoError(t, doc.AddFeed(urls[1], "B", "Tech"))
	require.NoError(t, doc.AddFeed(urls[2], "C", "Tech"))
	require.NoError(t, doc.AddFeed("https://gone.example.com/feed", "Gone", "Tech"))

	results := svc.Import(context.Background(), doc, 2)
	require.Len(t, results, 4)
	for i, u := range urls {
		assert.Equal(t, u, results[i].URL, "results follow document order")
		assert.NoError(t, results[i].Err)
	}
	assert.ErrorIs(t, results[3].Err, ErrDataLoadFailed)

	summary := Summarize(results)
	assert.Equal(t, ImportSummary{Added: 3, Failed: 1}, summary)

	podcasts, err := store.ListPodcasts()
	require.NoError(t, err)
	assert.Len(t, podcasts, 3)
	assert.Len(t, warnings, 3)

	// Importing again reports duplicates without failing.
	again := Summarize(svc.Import(context.Background(), doc, 0))
	assert.Equal(t, ImportSummary{Skipped: 3, Failed: 1}, again)
}

func TestUniqueFeedURLs(t *testing.T) {
	doc := &opml.Document{Outlines: []opml.Outline{
		{Text: "Folder", Children: []opml.Outline{
			{Text: "A", XMLURL: "https://a.example.com/feed"},
			{Text: "B", XMLURL: "https://b.example.com/feed"},
		}},
		{Text: "A again", XMLURL: "https://a.example.com/feed"},
	}}

	assert.Equal(t, []string{"https://a.example.com/feed", "https://b.example.com/feed"}, UniqueFeedURLs(doc))
	assert.Len(t, doc.AllFeedURLs(), 3, "the extractor itself keeps repeats")
}

func TestExport_RoundTrip(t *testing.T) {
	svc, loader, _ := newTestService(t)
	urls := []string{"https://a.example.com/feed", "https://b.example.com/feed"}
	for i, u := range urls {
		loader.set(u, feedXML(fmt.Sprintf("Show %d", i)))
		_, err := svc.Subscribe(context.Background(), u)
		require.NoError(t, err)
	}

	doc, err := svc.Export("podfeed subscriptions")
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, doc.Write(&buf))

	parsed, err := opml.ParseBytes([]byte(buf.String()))
	require.NoError(t, err)
	assert.ElementsMatch(t, urls, parsed.AllFeedURLs())
}
