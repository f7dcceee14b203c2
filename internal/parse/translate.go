// ABOUTME: Atom and JSON Feed support through gofeed
// ABOUTME: Maps gofeed's universal feed onto podcasts with the same normalization rules as RSS

package parse

import (
	"bytes"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"github.com/harper/podfeed/internal/enclosure"
	"github.com/harper/podfeed/internal/models"
	"github.com/harper/podfeed/internal/timeutil"
)

func parseWithGofeed(data []byte, sourceURL string, sink models.WarningSink) (*models.Podcast, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, malformed(err)
	}

	feedURL := strings.TrimSpace(sourceURL)
	if feedURL == "" {
		feedURL = strings.TrimSpace(feed.FeedLink)
	}
	if feedURL == "" {
		feedURL = strings.TrimSpace(feed.Link)
	}

	podcast := models.NewPodcast(feedURL)
	if title := strings.TrimSpace(feed.Title); title != "" {
		podcast.Title = title
	}
	podcast.Link = optional(feed.Link)

	var itunesSummary string
	if feed.ITunesExt != nil {
		podcast.Author = optional(feed.ITunesExt.Author)
		podcast.ArtworkURL = optional(feed.ITunesExt.Image)
		itunesSummary = feed.ITunesExt.Summary
	}
	if podcast.Author == nil && len(feed.Authors) > 0 && feed.Authors[0] != nil {
		podcast.Author = optional(feed.Authors[0].Name)
	}
	if podcast.ArtworkURL == nil && feed.Image != nil {
		podcast.ArtworkURL = optional(feed.Image.URL)
	}
	podcast.Description = pickDescription(itunesSummary, feed.Description)
	podcast.Categories = feedCategories(feed)

	podcast.Episodes = make([]models.Episode, 0, len(feed.Items))
	for i, item := range feed.Items {
		ep := translateItem(item, sourceURL, i, sink)
		ep.PodcastID = podcast.ID
		podcast.Episodes = append(podcast.Episodes, ep)
	}

	return podcast, nil
}

func feedCategories(feed *gofeed.Feed) []string {
	var categories []string
	for _, c := range feed.Categories {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, c)
		}
	}
	if feed.ITunesExt != nil {
		for _, c := range feed.ITunesExt.Categories {
			categories = appendITunesCategory(categories, c)
		}
	}
	return categories
}

func appendITunesCategory(dst []string, c *ext.ITunesCategory) []string {
	for c != nil {
		if text := strings.TrimSpace(c.Text); text != "" {
			dst = append(dst, text)
		}
		c = c.Subcategory
	}
	return dst
}

func translateItem(item *gofeed.Item, sourceURL string, index int, sink models.WarningSink) models.Episode {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = models.UntitledEpisodeTitle
	}

	var candidates []string
	for _, enc := range item.Enclosures {
		if enc != nil {
			candidates = append(candidates, enc.URL)
		}
	}
	audio, warnings := enclosure.Resolve(candidates, title)
	for _, warning := range warnings {
		sink.Emit(warning)
	}

	ep := models.Episode{
		Title:    title,
		AudioURL: audio,
		PubDate:  itemDate(item),
	}

	var summary, artwork string
	if item.ITunesExt != nil {
		summary = item.ITunesExt.Summary
		artwork = item.ITunesExt.Image
		if secs, ok := timeutil.ParseDuration(item.ITunesExt.Duration); ok {
			ep.Duration = &secs
		}
	}
	if artwork == "" && item.Image != nil {
		artwork = item.Image.URL
	}
	ep.ArtworkURL = optional(artwork)
	ep.Description = pickDescription(summary, item.Description, item.Content)

	ep.ID = strings.TrimSpace(item.GUID)
	if ep.ID == "" {
		ep.ID = episodeID(sourceURL, title, ep.PubDate, index)
	}

	return ep
}

func itemDate(item *gofeed.Item) *time.Time {
	if t, ok := timeutil.ParsePubDate(item.Published); ok {
		return &t
	}
	for _, parsed := range []*time.Time{item.PublishedParsed, item.UpdatedParsed} {
		if parsed != nil {
			t := parsed.UTC()
			return &t
		}
	}
	return nil
}
