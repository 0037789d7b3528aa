package typewriter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReveal_WordByWord(t *testing.T) {
	r := New(42, "hello world", 0, 0)

	visible, more := r.Next()
	assert.Equal(t, "hello", visible)
	assert.True(t, more)

	visible, more = r.Next()
	assert.Equal(t, "hello world", visible)
	assert.False(t, more)
	assert.True(t, r.Done())
}

func TestReveal_OnlyGrows(t *testing.T) {
	r := New(1, "one two three four", 0, 0)
	prev := ""
	for {
		visible, more := r.Next()
		assert.True(t, len(visible) > len(prev), "visible text must grow")
		assert.True(t, len(prev) == 0 || visible[:len(prev)] == prev, "earlier words must not change")
		prev = visible
		if !more {
			break
		}
	}
	assert.Equal(t, "one two three four", prev)
}

func TestReveal_EmptyText(t *testing.T) {
	r := New(7, "", 0, 0)
	assert.True(t, r.Done())

	visible, more := r.Next()
	assert.Equal(t, "", visible)
	assert.False(t, more)
	assert.Equal(t, "", r.Full())
}

func TestReveal_Full(t *testing.T) {
	r := New(9, "a b c", 0, 0)
	r.Next()
	assert.Equal(t, "a b c", r.Full())
}

func TestReveal_DelayBounds(t *testing.T) {
	base := 30 * time.Millisecond
	jitter := 20 * time.Millisecond
	r := New(1, "x", base, jitter)

	for i := 0; i < 100; i++ {
		d := r.Delay()
		assert.GreaterOrEqual(t, d, base)
		assert.Less(t, d, base+jitter)
	}
}

func TestReveal_NoJitter(t *testing.T) {
	r := New(1, "x", 30*time.Millisecond, 0)
	assert.Equal(t, 30*time.Millisecond, r.Delay())
}
