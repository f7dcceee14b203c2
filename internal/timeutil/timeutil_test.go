// ABOUTME: Tests for period helpers used by episode date filters
// ABOUTME: Verifies period resolution and YYYY-MM-DD parsing

package timeutil

import (
	"testing"
	"time"
)

func TestStartOfToday(t *testing.T) {
	result := StartOfToday()
	now := time.Now()

	if result.Year() != now.Year() || result.Month() != now.Month() || result.Day() != now.Day() {
		t.Errorf("StartOfToday() date mismatch: got %v, expected date %v", result, now)
	}
	if result.Hour() != 0 || result.Minute() != 0 || result.Second() != 0 {
		t.Errorf("StartOfToday() should be midnight, got %v", result)
	}
}

func TestStartOfWeek(t *testing.T) {
	result := StartOfWeek()

	if result.Weekday() != time.Sunday {
		t.Errorf("StartOfWeek() weekday = %v, expected Sunday", result.Weekday())
	}
	if result.After(StartOfToday()) {
		t.Errorf("StartOfWeek() = %v, should not be after today", result)
	}
}

func TestStartOfMonth(t *testing.T) {
	result := StartOfMonth()
	if result.Day() != 1 {
		t.Errorf("StartOfMonth() day = %d, expected 1", result.Day())
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		period string
		want   func() time.Time
		ok     bool
	}{
		{"today", StartOfToday, true},
		{"yesterday", StartOfYesterday, true},
		{"week", StartOfWeek, true},
		{"month", StartOfMonth, true},
		{"fortnight", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			got, ok := ParsePeriod(tt.period)
			if ok != tt.ok {
				t.Fatalf("ParsePeriod(%q) ok = %v, want %v", tt.period, ok, tt.ok)
			}
			if tt.ok && !got.Equal(tt.want()) {
				t.Errorf("ParsePeriod(%q) = %v, want %v", tt.period, got, tt.want())
			}
		})
	}
}

func TestParseSince(t *testing.T) {
	got, err := ParseSince("2025-01-15")
	if err != nil {
		t.Fatalf("ParseSince() error = %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.January || got.Day() != 15 {
		t.Errorf("ParseSince() = %v, want 2025-01-15", got)
	}

	if _, err := ParseSince("week"); err != nil {
		t.Errorf("ParseSince(week) error = %v", err)
	}

	if _, err := ParseSince("15/01/2025"); err == nil {
		t.Error("expected error for unsupported date format")
	}
}
