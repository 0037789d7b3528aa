package models

import (
	"sync"
	"time"
)

// Role identifies the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat message. A message is immutable once its turn is
// committed; the only exception is the in-flight assistant message, whose Text
// grows while the reply is being revealed.
type Message struct {
	ID     int64  `json:"id"`
	Sender Role   `json:"sender"`
	Text   string `json:"text"`
}

var (
	idMu   sync.Mutex
	lastID int64
)

// NextID returns a unique, monotonically increasing identifier. IDs are
// millisecond timestamps, bumped by one when two are minted in the same
// millisecond, so a message's ID doubles as its creation time.
func NextID() int64 {
	idMu.Lock()
	defer idMu.Unlock()

	id := time.Now().UnixMilli()
	if id <= lastID {
		id = lastID + 1
	}
	lastID = id
	return id
}

// CreatedAt recovers a message's creation time from its ID.
func (m Message) CreatedAt() time.Time {
	return time.UnixMilli(m.ID)
}
