// ABOUTME: Podcast model representing a parsed feed and its subscription state
// ABOUTME: Holds channel metadata, ordered categories, and the ordered episode list

package models

import "time"

// UnknownPodcastTitle is used when a channel carries no usable title.
const UnknownPodcastTitle = "Unknown Podcast"

// Podcast represents a podcast channel built from a feed document
type Podcast struct {
	ID           string     // Stable identifier, defaults to the feed URL
	Title        string     // Channel title, never empty after parsing
	Author       *string    // itunes:author or managingEditor
	Description  *string    // Sanitized channel description
	ArtworkURL   *string    // Channel-level artwork
	Link         *string    // Channel website link
	FeedURL      string     // URL the feed was loaded from
	Categories   []string   // Category labels in document order, duplicates kept
	Episodes     []Episode  // Episodes in document order
	IsSubscribed bool       // Set by the subscription flow, never by the parser
	DateAdded    *time.Time // Set by the subscription flow, never by the parser
}

// NewPodcast creates a Podcast for feedURL with the ID defaulted to the URL
func NewPodcast(feedURL string) *Podcast {
	return &Podcast{
		ID:      feedURL,
		Title:   UnknownPodcastTitle,
		FeedURL: feedURL,
	}
}

// MarkSubscribed flags the podcast as subscribed and stamps DateAdded
func (p *Podcast) MarkSubscribed(at time.Time) {
	p.IsSubscribed = true
	p.DateAdded = &at
}

// Episode returns the episode with the given ID, or nil
func (p *Podcast) Episode(id string) *Episode {
	for i := range p.Episodes {
		if p.Episodes[i].ID == id {
			return &p.Episodes[i]
		}
	}
	return nil
}
