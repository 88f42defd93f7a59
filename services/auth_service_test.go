package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-core/auth"
	"chat-core/errors"
	"chat-core/mocks"
	"chat-core/repositories"
	"chat-core/services"
)

func Test_Register_Issues_Verifiable_Token(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	users := mocks.NewMockIUserRepository(ctrl)
	service := services.NewAuthService(users, time.Hour)

	users.EXPECT().CreateUser("alice@example.com", "Alice", gomock.Any()).
		DoAndReturn(func(_, _, hashedPassword string) (string, error) {
			// The repository must never see the plain password.
			require.NotEqual(t, "Str0ng!Passw0rd", hashedPassword)
			return "u-1", nil
		})

	token, err := service.Register("alice@example.com", "Alice", "Str0ng!Passw0rd")
	req.NoError(err)

	identity, err := auth.NewJWTVerifier().Verify(context.Background(), string(token))
	req.NoError(err)
	req.Equal("u-1", identity.UserID)
	req.Equal("Alice", identity.DisplayName)
}

func Test_Register_Rejects_Weak_Password(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	users := mocks.NewMockIUserRepository(ctrl)
	service := services.NewAuthService(users, time.Hour)

	_, err := service.Register("alice@example.com", "Alice", "short")
	req.ErrorIs(err, errors.ErrInvalidPassword)
}

func Test_Login_Collapses_Failures(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	users := mocks.NewMockIUserRepository(ctrl)
	service := services.NewAuthService(users, time.Hour)

	hash, err := auth.HashPassword("Str0ng!Passw0rd")
	req.NoError(err)
	account := repositories.User{
		ID:           "u-1",
		Email:        "alice@example.com",
		DisplayName:  "Alice",
		PasswordHash: hash,
	}

	// Unknown account and wrong password are indistinguishable.
	users.EXPECT().GetUserByEmail("ghost@example.com").
		Return(repositories.User{}, badger.ErrKeyNotFound)
	_, err = service.Login("ghost@example.com", "whatever")
	req.ErrorIs(err, errors.ErrInvalidCredentials)

	users.EXPECT().GetUserByEmail("alice@example.com").Return(account, nil)
	_, err = service.Login("alice@example.com", "wrong password")
	req.ErrorIs(err, errors.ErrInvalidCredentials)

	users.EXPECT().GetUserByEmail("alice@example.com").Return(account, nil)
	token, err := service.Login("alice@example.com", "Str0ng!Passw0rd")
	req.NoError(err)
	req.NotEmpty(token)
}

func Test_StoreResolver_Maps_User_To_Profile(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	users := mocks.NewMockIUserRepository(ctrl)
	resolver := services.NewStoreResolver(users)

	users.EXPECT().GetUserByID("u-1").Return(repositories.User{
		ID:          "u-1",
		Email:       "alice@example.com",
		DisplayName: "Alice",
	}, nil)

	profile, err := resolver.ResolveProfile(context.Background(), "u-1")
	req.NoError(err)
	req.Equal("Alice", profile.DisplayName)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = resolver.ResolveProfile(cancelled, "u-1")
	req.ErrorIs(err, errors.ErrDependencyUnavailable)
}
