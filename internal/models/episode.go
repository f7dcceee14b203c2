// ABOUTME: Episode model representing a single item of a podcast feed
// ABOUTME: Optional fields are pointers so "absent" and "empty" stay distinguishable

package models

import (
	"fmt"
	"time"
)

// UntitledEpisodeTitle is used when an item carries no usable title.
const UntitledEpisodeTitle = "Untitled Episode"

// Episode represents a single podcast episode (an RSS item)
type Episode struct {
	ID          string
	PodcastID   string
	Title       string
	AudioURL    *string // nil only when no enclosure candidate validated
	Duration    *int    // seconds
	PubDate     *time.Time
	Description *string
	ArtworkURL  *string // episode-level artwork only
}

// HasAudio reports whether the episode resolved a playable enclosure
func (e *Episode) HasAudio() bool {
	return e.AudioURL != nil
}

// DurationString formats the duration as H:MM:SS or M:SS, empty when unknown
func (e *Episode) DurationString() string {
	if e.Duration == nil {
		return ""
	}
	total := *e.Duration
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
