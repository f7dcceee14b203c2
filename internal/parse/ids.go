// ABOUTME: Deterministic episode identifiers for items without a GUID
// ABOUTME: Name-based UUIDs keep IDs stable across refreshes of the same feed

package parse

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

var episodeNamespace = uuid.MustParse("5b0f7c3e-9d2a-4c61-8e4f-1a7d3b9c2e60")

// episodeID derives an ID from title and publish date, or from the feed URL,
// title and item position when there is no date.
func episodeID(sourceURL, title string, pubDate *time.Time, index int) string {
	var key string
	if pubDate != nil {
		key = title + "\x00" + pubDate.UTC().Format(time.RFC3339)
	} else {
		key = sourceURL + "\x00" + title + "\x00" + strconv.Itoa(index)
	}
	return uuid.NewSHA1(episodeNamespace, []byte(key)).String()
}
