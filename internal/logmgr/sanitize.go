package logmgr

import (
	"errors"
	"strings"
)

// Sanitizer renders an error's unwrap chain for two different audiences:
// Full, the complete chain always written to the on-disk bad-record file,
// and Display, a frame-filtered, depth-truncated chain for user-facing
// output (spec §4.5: "filters frames matching configured prefixes ... and
// truncates at a configurable depth").
type Sanitizer struct {
	prefixes []string
	depth    int
}

// NewSanitizer builds a Sanitizer. depth <= 0 means unbounded.
func NewSanitizer(prefixes []string, depth int) *Sanitizer {
	return &Sanitizer{prefixes: prefixes, depth: depth}
}

// Full renders every frame in err's chain, unfiltered.
func (s *Sanitizer) Full(err error) string {
	var b strings.Builder
	for e := err; e != nil; e = errors.Unwrap(e) {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Error())
	}
	return b.String()
}

// Display renders err's chain with configured-prefix frames dropped and
// the remainder truncated at depth. Each frame is the error's own text:
// when a message ends with the message of the error it wraps, that
// repeated suffix (and a separating ": ") is removed.
func (s *Sanitizer) Display(err error) string {
	var frames []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		msg := e.Error()
		if next := errors.Unwrap(e); next != nil {
			msg = strings.TrimSuffix(strings.TrimSuffix(msg, next.Error()), ": ")
		}
		if s.filtered(msg) {
			continue
		}
		frames = append(frames, msg)
		if s.depth > 0 && len(frames) >= s.depth {
			break
		}
	}
	return strings.Join(frames, "\n")
}

func (s *Sanitizer) filtered(msg string) bool {
	for _, p := range s.prefixes {
		if strings.HasPrefix(msg, p) {
			return true
		}
	}
	return false
}
