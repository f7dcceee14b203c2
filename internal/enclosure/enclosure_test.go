// ABOUTME: Tests for enclosure candidate resolution
// ABOUTME: Checks winner selection order and the warnings each case produces

package enclosure

import (
	"strings"
	"testing"

	"github.com/harper/podfeed/internal/models"
)

func TestResolve_NoCandidates(t *testing.T) {
	got, warnings := Resolve(nil, "Episode 1")

	if got != nil {
		t.Errorf("Resolve() = %q, want nil", *got)
	}
	if len(warnings) != 1 {
		t.Fatalf("len(warnings) = %d, want 1", len(warnings))
	}
	msg := warnings[0].String()
	if !strings.Contains(msg, "missing audio URL") || !strings.Contains(msg, "Episode 1") {
		t.Errorf("warning = %q, want missing audio URL for Episode 1", msg)
	}
}

func TestResolve_FirstValidWins(t *testing.T) {
	got, warnings := Resolve([]string{"https://x/a.mp3", "ht!tp://bad url"}, "Episode 1")

	if got == nil || *got != "https://x/a.mp3" {
		t.Errorf("Resolve() = %v, want https://x/a.mp3", got)
	}
	if len(warnings) != 0 {
		t.Errorf("len(warnings) = %d, want 0", len(warnings))
	}
}

func TestResolve_InvalidThenValid(t *testing.T) {
	got, warnings := Resolve([]string{"ht!tp://bad url", "https://x/b.mp3", "also bad"}, "Episode 2")

	if got == nil || *got != "https://x/b.mp3" {
		t.Errorf("Resolve() = %v, want https://x/b.mp3", got)
	}
	if len(warnings) != 1 {
		t.Fatalf("len(warnings) = %d, want 1", len(warnings))
	}
	if warnings[0].Kind != models.InvalidAudio || warnings[0].Value != "ht!tp://bad url" {
		t.Errorf("warning = %+v, want InvalidAudio for the first candidate", warnings[0])
	}
}

func TestResolve_AllInvalid(t *testing.T) {
	got, warnings := Resolve([]string{"ht!tp://bad url"}, "Episode 3")

	if got != nil {
		t.Errorf("Resolve() = %q, want nil", *got)
	}
	if len(warnings) != 1 {
		t.Fatalf("len(warnings) = %d, want 1", len(warnings))
	}
	msg := warnings[0].String()
	if !strings.Contains(msg, "ht!tp://bad url") || !strings.Contains(msg, "invalid audio URL") {
		t.Errorf("warning = %q, want invalid audio URL with raw value", msg)
	}
	if strings.Contains(msg, "missing audio URL") {
		t.Errorf("warning = %q, must not mention missing audio URL", msg)
	}
}

func TestResolve_EveryInvalidCandidateWarns(t *testing.T) {
	_, warnings := Resolve([]string{"", "relative/path.mp3", "https://"}, "Episode 4")
	if len(warnings) != 3 {
		t.Fatalf("len(warnings) = %d, want 3", len(warnings))
	}
	for _, w := range warnings {
		if w.Kind != models.InvalidAudio {
			t.Errorf("warning kind = %v, want InvalidAudio", w.Kind)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"https://cdn.example.com/ep1.mp3", "https://cdn.example.com/ep1.mp3", true},
		{"  http://example.com/a.mp3\n", "http://example.com/a.mp3", true},
		{"https://example.com/a.mp3?token=abc&x=1", "https://example.com/a.mp3?token=abc&x=1", true},
		{"ht!tp://bad url", "", false},
		{"https://example.com/my episode.mp3", "", false},
		{"/relative.mp3", "", false},
		{"example.com/a.mp3", "", false},
		{"https://", "", false},
		{"", "", false},
		{"http://[::1", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Validate(tt.raw)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Validate(%q) = %q, %v; want %q, %v", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}
