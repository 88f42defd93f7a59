package repositories

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"chat-core/domain"
	"chat-core/errors"
)

func Test_Profile_Upsert_And_Get(t *testing.T) {
	req := require.New(t)
	profiles := NewProfileRepository(openTestDB(t))

	err := profiles.Upsert(domain.UserProfile{
		ID:          "u-1",
		Email:       "alice@example.com",
		DisplayName: "Alice",
	})
	req.NoError(err)

	profile, err := profiles.GetByID("u-1")
	req.NoError(err)
	req.Equal("Alice", profile.DisplayName)
	req.False(profile.SyncedAt.IsZero())

	_, err = profiles.GetByID("u-unknown")
	req.ErrorIs(err, badger.ErrKeyNotFound)
}

func Test_Profile_SetOnline(t *testing.T) {
	req := require.New(t)
	profiles := NewProfileRepository(openTestDB(t))

	req.NoError(profiles.Upsert(domain.UserProfile{ID: "u-1", DisplayName: "Alice"}))
	req.NoError(profiles.SetOnline("u-1", true))

	profile, err := profiles.GetByID("u-1")
	req.NoError(err)
	req.True(profile.Online)

	req.NoError(profiles.SetOnline("u-1", false))
	profile, err = profiles.GetByID("u-1")
	req.NoError(err)
	req.False(profile.Online)

	// Presence for a user the directory never synced is silently dropped.
	req.NoError(profiles.SetOnline("u-unknown", true))
}

func Test_User_Create_And_Lookup(t *testing.T) {
	req := require.New(t)
	users := NewUserRepository(openTestDB(t))

	id, err := users.CreateUser("alice@example.com", "Alice", "hashed")
	req.NoError(err)
	req.NotEmpty(id)

	byEmail, err := users.GetUserByEmail("alice@example.com")
	req.NoError(err)
	req.Equal(id, byEmail.ID)
	req.Equal("Alice", byEmail.DisplayName)

	byID, err := users.GetUserByID(id)
	req.NoError(err)
	req.Equal(byEmail, byID)

	_, err = users.CreateUser("alice@example.com", "Alice Again", "hashed2")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}
