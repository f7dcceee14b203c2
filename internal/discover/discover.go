// ABOUTME: Podcast feed discovery from website URLs
// ABOUTME: Tries the URL as a feed, then HTML alternate links, then common feed paths

package discover

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/harper/podfeed/internal/models"
	"github.com/harper/podfeed/internal/parse"
)

// Common feed paths to probe when other discovery methods fail
var commonFeedPaths = []string{
	"/feed.xml",
	"/feed",
	"/rss.xml",
	"/rss",
	"/podcast.xml",
	"/podcast",
	"/feed/podcast",
	"/atom.xml",
	"/index.xml",
}

// Errors returned by discovery functions
var (
	ErrNoFeedFound = errors.New("no podcast feed found at URL")
	ErrInvalidURL  = errors.New("invalid URL")
)

// Loader fetches the raw bytes behind a URL.
type Loader interface {
	Load(ctx context.Context, url string) ([]byte, error)
}

// DiscoveredFeed represents a feed found during discovery
type DiscoveredFeed struct {
	URL   string // Absolute URL of the feed
	Title string // Podcast title (from the feed or the link element)
}

// Discover attempts to find a podcast feed from the given URL.
// It tries the following strategies in order:
//  1. Parse URL as a direct feed
//  2. Parse URL as HTML and extract <link rel="alternate"> headers
//  3. Probe common feed URL patterns
func Discover(ctx context.Context, loader Loader, inputURL string) (*DiscoveredFeed, error) {
	parsedURL, err := url.Parse(inputURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("%w: missing scheme or host", ErrInvalidURL)
	}

	// Strategy 1: Try direct feed
	feed, body, err := tryDirectFeed(ctx, loader, inputURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	if feed != nil {
		return feed, nil
	}

	// Strategy 2: Extract feed links from HTML
	for _, candidate := range extractFeedLinks(body, parsedURL) {
		verified, _, verifyErr := tryDirectFeed(ctx, loader, candidate.URL)
		if verifyErr != nil || verified == nil {
			continue
		}
		if verified.Title == models.UnknownPodcastTitle && candidate.Title != "" {
			verified.Title = candidate.Title
		}
		return verified, nil
	}

	// Strategy 3: Probe common paths
	if feed := probeCommonPaths(ctx, loader, parsedURL); feed != nil {
		return feed, nil
	}

	return nil, ErrNoFeedFound
}

// tryDirectFeed loads feedURL and parses it as a feed. A body that does not
// parse is returned with a nil feed for HTML inspection.
func tryDirectFeed(ctx context.Context, loader Loader, feedURL string) (*DiscoveredFeed, []byte, error) {
	body, err := loader.Load(ctx, feedURL)
	if err != nil {
		return nil, nil, err
	}

	podcast, parseErr := parse.Feed(body, feedURL, nil)
	if parseErr != nil {
		return nil, body, nil //nolint:nilerr // not a feed, which is expected for HTML pages
	}

	return &DiscoveredFeed{URL: feedURL, Title: podcast.Title}, body, nil
}

// extractFeedLinks parses HTML and returns feed URLs from <link rel="alternate"> elements
func extractFeedLinks(htmlBody []byte, baseURL *url.URL) []DiscoveredFeed {
	doc, err := html.Parse(bytes.NewReader(htmlBody))
	if err != nil {
		return nil
	}

	var feeds []DiscoveredFeed
	var findLinks func(*html.Node)
	findLinks = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "link" {
			var rel, linkType, href, title string
			for _, a := range n.Attr {
				switch strings.ToLower(a.Key) {
				case "rel":
					rel = strings.ToLower(a.Val)
				case "type":
					linkType = a.Val
				case "href":
					href = strings.TrimSpace(a.Val)
				case "title":
					title = a.Val
				}
			}

			if rel == "alternate" && isFeedContentType(linkType) && href != "" {
				if resolved, err := resolveURL(href, baseURL); err == nil {
					feeds = append(feeds, DiscoveredFeed{URL: resolved, Title: title})
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findLinks(c)
		}
	}

	findLinks(doc)
	return feeds
}

// probeCommonPaths tries common feed URL patterns against the site root
func probeCommonPaths(ctx context.Context, loader Loader, baseURL *url.URL) *DiscoveredFeed {
	probeBase := &url.URL{Scheme: baseURL.Scheme, Host: baseURL.Host}

	for _, path := range commonFeedPaths {
		if ctx.Err() != nil {
			return nil
		}
		feed, _, err := tryDirectFeed(ctx, loader, probeBase.String()+path)
		if err == nil && feed != nil {
			return feed
		}
	}
	return nil
}

func resolveURL(href string, baseURL *url.URL) (string, error) {
	refURL, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(refURL).String(), nil
}

// isFeedContentType checks if the content type indicates a feed
func isFeedContentType(contentType string) bool {
	contentType = strings.ToLower(contentType)
	return strings.Contains(contentType, "rss") ||
		strings.Contains(contentType, "atom") ||
		strings.Contains(contentType, "xml")
}
