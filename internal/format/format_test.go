package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponse_StripsEmphasis(t *testing.T) {
	assert.Equal(t, "bold", Response("**bold**"))
	assert.Equal(t, "bold", Response("__bold__"))
	assert.Equal(t, "a b", Response("**a** __b__"))
}

func TestResponse_StripsHeadings(t *testing.T) {
	assert.Equal(t, "Heading\ntext", Response("# Heading\ntext"))
	assert.Equal(t, "Deep\ntext", Response("### Deep\ntext"))
	// Only markers at the start of a line are headings.
	assert.Equal(t, "a # b", Response("a # b"))
}

func TestResponse_StripsTags(t *testing.T) {
	assert.Equal(t, "hi", Response("<b>hi</b>"))
	assert.Equal(t, "hi", Response("hi<br"))
	assert.Equal(t, "text", Response(`<div class="x">text</div>`))
}

func TestResponse_Empty(t *testing.T) {
	assert.Equal(t, "", Response(""))
	assert.Equal(t, "", Response("   \n\t  "))
}

func TestResponse_TrimsWhitespace(t *testing.T) {
	assert.Equal(t, "hello", Response("  hello  \n"))
}

func TestResponse_Idempotent(t *testing.T) {
	inputs := []string{
		"**bold** and __underline__",
		"# Heading\n## Another\nbody",
		"<b>hi</b> there<br",
		"plain text",
		"##  # nested marker",
		"*<b>*", // tag removal exposes an emphasis pair
		"",
	}
	for _, in := range inputs {
		once := Response(in)
		assert.Equal(t, once, Response(once), "input %q", in)
	}
}
