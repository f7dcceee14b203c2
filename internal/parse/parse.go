// ABOUTME: Podcast feed parsing entry point
// ABOUTME: Routes RSS/RDF to the streaming walker and Atom/JSON through gofeed

package parse

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/harper/podfeed/internal/content"
	"github.com/harper/podfeed/internal/models"
)

// ErrMalformed is returned when a document cannot be read as a feed, either
// because it is not well-formed XML or because it has no channel.
var ErrMalformed = errors.New("malformed feed")

// Feed parses a feed document into a Podcast with its episodes in document
// order. sourceURL becomes the podcast ID and feed URL. Degraded episodes are
// kept and reported through sink, which may be nil.
func Feed(data []byte, sourceURL string, sink models.WarningSink) (*models.Podcast, error) {
	switch gofeed.DetectFeedType(bytes.NewReader(data)) {
	case gofeed.FeedTypeAtom, gofeed.FeedTypeJSON:
		return parseWithGofeed(data, sourceURL, sink)
	default:
		return parseRSS(bytes.NewReader(data), sourceURL, sink)
	}
}

// malformed wraps a tokenizer or structure failure in ErrMalformed.
func malformed(err error) error {
	return fmt.Errorf("%w: %v", ErrMalformed, err)
}

// pickDescription returns the first usable description: the iTunes summary
// verbatim, then each fallback with its markup stripped.
func pickDescription(summary string, fallbacks ...string) *string {
	if s := strings.TrimSpace(summary); s != "" {
		return &s
	}
	for _, f := range fallbacks {
		if s := content.Sanitize(f); s != "" {
			return &s
		}
	}
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
