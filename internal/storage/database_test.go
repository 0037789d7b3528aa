package storage

import (
	"path/filepath"
	"strings"
	"testing"

	"gemchat/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	store, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func turnMessages(userText, assistantText string) []models.Message {
	return []models.Message{
		{ID: models.NextID(), Sender: models.RoleUser, Text: userText},
		{ID: models.NextID(), Sender: models.RoleAssistant, Text: assistantText},
	}
}

func TestStore_LoadEmpty(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "conversations.db"))
	assert.Empty(t, store.Load())
}

func TestStore_CommitTurn_CreatesConversation(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "conversations.db"))
	store.Load()

	first := strings.Repeat("x", 40)
	id := store.CommitTurn(0, turnMessages(first, "reply"))
	require.NotZero(t, id)

	conversations := store.Conversations()
	require.Len(t, conversations, 1)
	assert.Equal(t, strings.Repeat("x", 30)+"...", conversations[0].Name)
	assert.Len(t, conversations[0].Messages, 2)
	assert.False(t, conversations[0].CreatedAt.IsZero())
	assert.Equal(t, conversations[0].CreatedAt, conversations[0].UpdatedAt)
}

func TestStore_CommitTurn_UpdatesExisting(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "conversations.db"))
	store.Load()

	msgs := turnMessages("hello", "hi")
	id := store.CommitTurn(0, msgs)

	msgs = append(msgs, turnMessages("more", "sure")...)
	again := store.CommitTurn(id, msgs)
	assert.Equal(t, id, again)

	conversations := store.Conversations()
	require.Len(t, conversations, 1)
	assert.Len(t, conversations[0].Messages, 4)
	assert.True(t, conversations[0].UpdatedAt.After(conversations[0].CreatedAt) ||
		conversations[0].UpdatedAt.Equal(conversations[0].CreatedAt))
	// Title stays fixed at creation.
	assert.Equal(t, "hello...", conversations[0].Name)
}

func TestStore_CommitTurn_PrependsNewConversations(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "conversations.db"))
	store.Load()

	firstID := store.CommitTurn(0, turnMessages("first", "a"))
	secondID := store.CommitTurn(0, turnMessages("second", "b"))

	conversations := store.Conversations()
	require.Len(t, conversations, 2)
	assert.Equal(t, secondID, conversations[0].ID)
	assert.Equal(t, firstID, conversations[1].ID)
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversations.db")

	store := openTestStore(t, path)
	store.Load()
	store.CommitTurn(0, turnMessages("hello there", "general reply"))
	store.CommitTurn(0, turnMessages("second conversation", "another reply"))
	saved := store.Conversations()
	require.NoError(t, store.Close())

	reopened := openTestStore(t, path)
	loaded := reopened.Load()

	require.Len(t, loaded, len(saved))
	for i := range saved {
		assert.Equal(t, saved[i].ID, loaded[i].ID)
		assert.Equal(t, saved[i].Name, loaded[i].Name)
		assert.Equal(t, saved[i].Messages, loaded[i].Messages)
		assert.True(t, saved[i].CreatedAt.Equal(loaded[i].CreatedAt))
		assert.True(t, saved[i].UpdatedAt.Equal(loaded[i].UpdatedAt))
	}
}

func TestStore_Remove(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "conversations.db"))
	store.Load()

	keepID := store.CommitTurn(0, turnMessages("keep", "a"))
	dropID := store.CommitTurn(0, turnMessages("drop", "b"))

	store.Remove(dropID)

	conversations := store.Conversations()
	require.Len(t, conversations, 1)
	assert.Equal(t, keepID, conversations[0].ID)

	_, found := store.Find(dropID)
	assert.False(t, found)
}

func TestStore_RemovingLastConversationLeavesStorage(t *testing.T) {
	// Deleting the last conversation must not clear durable storage: an
	// empty collection is never written, so the previous payload survives
	// a restart.
	path := filepath.Join(t.TempDir(), "conversations.db")

	store := openTestStore(t, path)
	store.Load()
	id := store.CommitTurn(0, turnMessages("only", "one"))
	store.Remove(id)
	assert.Empty(t, store.Conversations())
	require.NoError(t, store.Close())

	reopened := openTestStore(t, path)
	loaded := reopened.Load()
	require.Len(t, loaded, 1)
	assert.Equal(t, id, loaded[0].ID)
}

func TestStore_LoadMalformedPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversations.db")

	store := openTestStore(t, path)
	_, err := store.db.Exec(
		"INSERT OR REPLACE INTO storage (key, value) VALUES (?, ?)",
		collectionKey, "{not valid json",
	)
	require.NoError(t, err)

	assert.Empty(t, store.Load())
}

func TestStore_Find(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "conversations.db"))
	store.Load()

	id := store.CommitTurn(0, turnMessages("findable", "yes"))

	conv, found := store.Find(id)
	require.True(t, found)
	assert.Equal(t, "findable...", conv.Name)

	_, found = store.Find(999)
	assert.False(t, found)
}
