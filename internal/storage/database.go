// Package storage persists the conversation collection.
//
// The whole collection lives under a single key in a sqlite key/value table,
// serialized as one JSON document. It is read once at startup and rewritten
// wholesale on every mutation; there are no incremental writes.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"gemchat/internal/models"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// collectionKey is the storage key holding the serialized collection.
const collectionKey = "conversations"

// Store owns the durable list of conversations. All mutations go through
// CommitTurn and Remove, each of which rewrites storage as a side effect.
// It is not safe for concurrent use; the event loop serializes access.
type Store struct {
	db            *sql.DB
	log           zerolog.Logger
	conversations []models.Conversation
}

// Open opens (creating if needed) the store at the given sqlite path.
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS storage (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, log: log}, nil
}

// Load reads the collection from storage. Absent or malformed payloads
// degrade to an empty collection; they never fail.
func (s *Store) Load() []models.Conversation {
	var payload string
	err := s.db.QueryRow("SELECT value FROM storage WHERE key = ?", collectionKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		s.conversations = nil
		return nil
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("reading stored conversations failed, starting empty")
		s.conversations = nil
		return nil
	}

	var conversations []models.Conversation
	if err := json.Unmarshal([]byte(payload), &conversations); err != nil {
		s.log.Warn().Err(err).Msg("stored conversations are malformed, starting empty")
		s.conversations = nil
		return nil
	}

	s.conversations = conversations
	return s.conversations
}

// Conversations returns the in-memory collection, newest first.
func (s *Store) Conversations() []models.Conversation {
	return s.conversations
}

// Find returns the conversation with the given ID, if it exists.
func (s *Store) Find(id int64) (models.Conversation, bool) {
	for _, conv := range s.conversations {
		if conv.ID == id {
			return conv, true
		}
	}
	return models.Conversation{}, false
}

// CommitTurn writes a finished turn's messages into the collection and
// returns the active conversation ID. If activeID names an existing
// conversation its messages are replaced and its updated timestamp bumped;
// otherwise a new conversation is created lazily (ID, derived title, current
// timestamps) and prepended. activeID zero means a fresh unsaved session.
func (s *Store) CommitTurn(activeID int64, messages []models.Message) int64 {
	msgs := append([]models.Message(nil), messages...)
	now := time.Now()

	if activeID != 0 {
		for i := range s.conversations {
			if s.conversations[i].ID == activeID {
				s.conversations[i].Messages = msgs
				s.conversations[i].UpdatedAt = now
				s.persist()
				return activeID
			}
		}
	}

	first := ""
	if len(msgs) > 0 {
		first = msgs[0].Text
	}
	conv := models.Conversation{
		ID:        models.NextID(),
		Name:      models.DeriveTitle(first),
		Messages:  msgs,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.conversations = append([]models.Conversation{conv}, s.conversations...)
	s.persist()
	return conv.ID
}

// Remove deletes the conversation with the given ID. If it was the active
// conversation the caller is responsible for resetting its session.
func (s *Store) Remove(id int64) {
	kept := s.conversations[:0]
	for _, conv := range s.conversations {
		if conv.ID != id {
			kept = append(kept, conv)
		}
	}
	s.conversations = kept
	s.persist()
}

// persist rewrites storage with the whole collection. An empty collection is
// never written: it would clobber existing content at boot, and deleting the
// last conversation deliberately leaves the previous payload behind.
func (s *Store) persist() {
	if len(s.conversations) == 0 {
		return
	}

	payload, err := json.Marshal(s.conversations)
	if err != nil {
		s.log.Error().Err(err).Msg("serializing conversations failed")
		return
	}

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO storage (key, value) VALUES (?, ?)",
		collectionKey, string(payload),
	)
	if err != nil {
		s.log.Error().Err(err).Msg("writing conversations failed")
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
