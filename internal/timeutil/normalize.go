// ABOUTME: Total normalizers for feed durations and publish dates
// ABOUTME: Never fail loudly; unparseable input simply yields no value

package timeutil

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseDuration converts an itunes:duration value into seconds.
// Accepted forms: "SSSS", "MM:SS", "H:MM:SS" (one or more hour digits).
// Every component must be plain ASCII digits; negatives and overflow are rejected.
func ParseDuration(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	parts := strings.Split(raw, ":")
	if len(parts) > 3 {
		return 0, false
	}

	var total int64
	for _, part := range parts {
		n, ok := parseDigits(part)
		if !ok {
			return 0, false
		}
		if total > (math.MaxInt64-n)/60 {
			return 0, false
		}
		total = total*60 + n
	}

	if total > math.MaxInt {
		return 0, false
	}
	return int(total), true
}

// parseDigits accepts only non-empty runs of 0-9 so "+5", "-5" and " 5" fail.
func parseDigits(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// rfc822Layouts are tried in order before falling back to ISO-8601.
var rfc822Layouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 02 Jan 2006 15:04 -0700",
	"Mon, 02 Jan 2006 15:04 MST",
	"02 Jan 2006 15:04:05 -0700",
	"02 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 MST",
}

var iso8601Layouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
}

// rfc822Zones are the named zones RFC 822 defines. Go parses unknown
// abbreviations with a zero offset, so they are re-anchored here.
var rfc822Zones = map[string]int{
	"UT":  0,
	"GMT": 0,
	"Z":   0,
	"EST": -5 * 3600,
	"EDT": -4 * 3600,
	"CST": -6 * 3600,
	"CDT": -5 * 3600,
	"MST": -7 * 3600,
	"MDT": -6 * 3600,
	"PST": -8 * 3600,
	"PDT": -7 * 3600,
}

// ParsePubDate parses an RFC 822 style date, then ISO-8601. The result is UTC.
func ParsePubDate(raw string) (time.Time, bool) {
	raw = strings.Join(strings.Fields(raw), " ")
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range rfc822Layouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		return anchorZone(t).UTC(), true
	}

	for _, layout := range iso8601Layouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		return t.UTC(), true
	}

	return time.Time{}, false
}

func anchorZone(t time.Time) time.Time {
	name, offset := t.Zone()
	if offset != 0 {
		return t
	}
	known, ok := rfc822Zones[strings.ToUpper(name)]
	if !ok || known == 0 {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.FixedZone(name, known))
}
