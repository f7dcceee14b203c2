// ABOUTME: Non-fatal parse warnings reported while building podcast records
// ABOUTME: Rendered messages carry stable category substrings that callers match on

package models

import "fmt"

// WarningKind categorizes a degraded-but-kept record.
type WarningKind int

const (
	// MissingAudio means an item declared no enclosure at all.
	MissingAudio WarningKind = iota
	// InvalidAudio means an enclosure URL failed validation.
	InvalidAudio
)

// String returns the category substring embedded in rendered warnings.
func (k WarningKind) String() string {
	switch k {
	case MissingAudio:
		return "missing audio URL"
	case InvalidAudio:
		return "invalid audio URL"
	default:
		return "unknown warning"
	}
}

// Warning is a single degraded-record report from one parse call.
type Warning struct {
	Kind    WarningKind
	Episode string // title of the episode the warning is about
	Value   string // offending raw value, empty for MissingAudio
}

// String renders the warning. The kind's category text is always included.
func (w Warning) String() string {
	switch w.Kind {
	case InvalidAudio:
		return fmt.Sprintf("%s \"%s\" in episode \"%s\"", w.Kind, w.Value, w.Episode)
	default:
		return fmt.Sprintf("%s for episode \"%s\"", w.Kind, w.Episode)
	}
}

// WarningSink receives warnings as they are produced. It is called on the
// parsing goroutine; callers aggregating across goroutines must synchronize.
type WarningSink func(Warning)

// Emit calls the sink when it is set.
func (s WarningSink) Emit(w Warning) {
	if s != nil {
		s(w)
	}
}

// Collect returns a sink that appends into dst.
func Collect(dst *[]Warning) WarningSink {
	return func(w Warning) {
		*dst = append(*dst, w)
	}
}
