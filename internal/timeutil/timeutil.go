// ABOUTME: Time utility functions for episode date range filtering
// ABOUTME: Resolves --since style periods (today, week, month) and calendar dates

package timeutil

import (
	"fmt"
	"time"
)

// StartOfToday returns midnight (00:00:00) of the current day in local time
func StartOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// StartOfYesterday returns midnight (00:00:00) of yesterday in local time
func StartOfYesterday() time.Time {
	return StartOfToday().AddDate(0, 0, -1)
}

// StartOfWeek returns midnight of the most recent Sunday in local time
func StartOfWeek() time.Time {
	today := StartOfToday()
	return today.AddDate(0, 0, -int(today.Weekday()))
}

// StartOfMonth returns midnight of the first day of the current month in local time
func StartOfMonth() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// ParsePeriod converts a period name to the start of that period.
// Supported values: "today", "yesterday", "week", "month"
func ParsePeriod(period string) (time.Time, bool) {
	switch period {
	case "today":
		return StartOfToday(), true
	case "yesterday":
		return StartOfYesterday(), true
	case "week":
		return StartOfWeek(), true
	case "month":
		return StartOfMonth(), true
	default:
		return time.Time{}, false
	}
}

// ParseSince accepts a period name or a YYYY-MM-DD date in local time
func ParseSince(value string) (time.Time, error) {
	if t, ok := ParsePeriod(value); ok {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use today, yesterday, week, month, or YYYY-MM-DD", value)
	}
	return t, nil
}
