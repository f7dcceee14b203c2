// ABOUTME: Picks the audio URL for an episode from its enclosure candidates
// ABOUTME: First valid candidate wins; invalid candidates seen before it become warnings

package enclosure

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/harper/podfeed/internal/models"
)

// Resolve walks candidates in document order and returns the first valid
// URL. Every invalid candidate reached before the winner yields an
// InvalidAudio warning carrying the raw string. An empty candidate list
// yields a single MissingAudio warning.
func Resolve(candidates []string, title string) (*string, []models.Warning) {
	if len(candidates) == 0 {
		return nil, []models.Warning{{Kind: models.MissingAudio, Episode: title}}
	}

	var warnings []models.Warning
	for _, raw := range candidates {
		if u, ok := Validate(raw); ok {
			return &u, warnings
		}
		warnings = append(warnings, models.Warning{
			Kind:    models.InvalidAudio,
			Episode: title,
			Value:   raw,
		})
	}
	return nil, warnings
}

// Validate reports whether raw is a usable absolute URL and returns it
// without surrounding whitespace.
func Validate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return "", false
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", false
	}
	if u.Scheme == "" || u.Host == "" {
		return "", false
	}
	return s, true
}
