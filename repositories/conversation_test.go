package repositories

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_GetOrCreate_Returns_Existing_Conversation(t *testing.T) {
	req := require.New(t)
	repository := NewConversationRepository(openTestDB(t), slog.Default())

	first, err := repository.GetOrCreate("alice", "bob")
	req.NoError(err)
	req.True(first.HasParticipant("alice"))
	req.True(first.HasParticipant("bob"))

	again, err := repository.GetOrCreate("alice", "bob")
	req.NoError(err)
	req.Equal(first.ID, again.ID)

	// The pair is unordered, so the reverse lookup lands on the same row.
	reversed, err := repository.GetOrCreate("bob", "alice")
	req.NoError(err)
	req.Equal(first.ID, reversed.ID)
}

func Test_GetOrCreate_Concurrent_Single_Winner(t *testing.T) {
	req := require.New(t)
	repository := NewConversationRepository(openTestDB(t), slog.Default())

	const racers = 16
	ids := make([]string, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			caller, other := "alice", "bob"
			if slot%2 == 1 {
				caller, other = other, caller
			}
			conv, err := repository.GetOrCreate(caller, other)
			require.NoError(t, err)
			ids[slot] = conv.ID.String()
		}(i)
	}
	wg.Wait()

	for _, id := range ids[1:] {
		req.Equal(ids[0], id)
	}

	conversations, err := repository.ListForUser("alice")
	req.NoError(err)
	req.Len(conversations, 1)
}

func Test_GetByID_Missing_Conversation(t *testing.T) {
	req := require.New(t)
	repository := NewConversationRepository(openTestDB(t), slog.Default())

	_, err := repository.GetByID(uuid.New())
	req.ErrorIs(err, badger.ErrKeyNotFound)
}

func Test_ListForUser_Orders_By_Latest_Activity(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	conversations := NewConversationRepository(db, slog.Default())
	messages := NewMessageRepository(db, slog.Default())

	withBob, err := conversations.GetOrCreate("alice", "bob")
	req.NoError(err)
	withClara, err := conversations.GetOrCreate("alice", "clara")
	req.NoError(err)

	// Activity in the older conversation moves it back to the front.
	_, err = messages.Append(withBob.ID, "bob", "you there?")
	req.NoError(err)

	listed, err := conversations.ListForUser("alice")
	req.NoError(err)
	req.Len(listed, 2)
	req.Equal(withBob.ID, listed[0].ID)
	req.Equal(withClara.ID, listed[1].ID)
	req.NotNil(listed[0].LastMessage)
	req.Equal("you there?", listed[0].LastMessage.Text)

	listed, err = conversations.ListForUser("dave")
	req.NoError(err)
	req.Empty(listed)
}
