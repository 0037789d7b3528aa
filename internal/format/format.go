// Package format cleans raw model replies for plain-text display.
package format

import (
	"regexp"
	"strings"
)

var (
	emphasisRe = regexp.MustCompile(`\*\*|__`)
	headingRe  = regexp.MustCompile(`(?m)^(?:#+\s+)+`)
	tagRe      = regexp.MustCompile(`</?[^>]+(>|$)`)
)

// Response strips markdown emphasis markers, leading heading markers, and
// HTML-like tags from a reply, then trims surrounding whitespace. Stripping
// repeats until the text is stable, so the result is a fixed point:
// Response(Response(x)) == Response(x).
func Response(raw string) string {
	clean := raw
	for {
		next := stripOnce(clean)
		if next == clean {
			return next
		}
		clean = next
	}
}

func stripOnce(s string) string {
	s = emphasisRe.ReplaceAllString(s, "")
	s = headingRe.ReplaceAllString(s, "")
	s = tagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
