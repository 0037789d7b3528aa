package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/list"
)

// DefaultTitle is used when a conversation's first message has no text.
const DefaultTitle = "New Chat"

// titleRuneLimit is how much of the first message a title keeps.
const titleRuneLimit = 30

// Conversation is a named, ordered list of messages. The title is fixed at
// creation and never recomputed.
type Conversation struct {
	ID        int64     `json:"id"`
	Name      string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DeriveTitle builds a conversation title from the first message of its first
// turn: the leading 30 characters plus an ellipsis.
func DeriveTitle(first string) string {
	if strings.TrimSpace(first) == "" {
		return DefaultTitle
	}
	runes := []rune(first)
	if len(runes) > titleRuneLimit {
		runes = runes[:titleRuneLimit]
	}
	return string(runes) + "..."
}

// FilterValue implements list.Item for the conversation sidebar.
func (c Conversation) FilterValue() string { return c.Name }

// Title implements list.DefaultItem for the conversation sidebar.
func (c Conversation) Title() string { return c.Name }

// Description implements list.DefaultItem for the conversation sidebar.
func (c Conversation) Description() string {
	if len(c.Messages) == 0 {
		return "Empty conversation"
	}
	lastMsg := c.Messages[len(c.Messages)-1]
	preview := lastMsg.Text
	if utf8.RuneCountInString(preview) > 50 {
		preview = string([]rune(preview)[:47]) + "..."
	}
	return strings.ReplaceAll(preview, "\n", " ")
}

var _ list.DefaultItem = Conversation{}
