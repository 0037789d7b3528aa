// Package typewriter paces the word-by-word reveal of a finished reply.
package typewriter

import (
	"math/rand"
	"strings"
	"time"
)

// Reveal steps through the words of a completed reply, producing the text
// visible after each step. It never sleeps itself; the caller schedules the
// next step after Delay. The visible text only ever grows.
type Reveal struct {
	targetID int64
	words    []string
	shown    int
	base     time.Duration
	jitter   time.Duration
}

// New prepares a reveal of text into the message identified by targetID.
// Splitting is on single spaces; empty text reveals nothing.
func New(targetID int64, text string, base, jitter time.Duration) *Reveal {
	var words []string
	if text != "" {
		words = strings.Split(text, " ")
	}
	return &Reveal{
		targetID: targetID,
		words:    words,
		base:     base,
		jitter:   jitter,
	}
}

// TargetID is the ID of the message being revealed into.
func (r *Reveal) TargetID() int64 { return r.targetID }

// Next reveals one more word and returns the now-visible text, plus whether
// any words remain. Once exhausted it keeps returning the full text.
func (r *Reveal) Next() (string, bool) {
	if r.shown < len(r.words) {
		r.shown++
	}
	return strings.Join(r.words[:r.shown], " "), r.shown < len(r.words)
}

// Full returns the complete text, regardless of how much has been revealed.
func (r *Reveal) Full() string {
	return strings.Join(r.words, " ")
}

// Done reports whether every word has been revealed.
func (r *Reveal) Done() bool { return r.shown >= len(r.words) }

// Delay returns the pause before the next step: the base delay plus a bounded
// random jitter.
func (r *Reveal) Delay() time.Duration {
	if r.jitter <= 0 {
		return r.base
	}
	return r.base + time.Duration(rand.Int63n(int64(r.jitter)))
}
