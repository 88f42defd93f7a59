package services_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-core/domain"
	"chat-core/mocks"
	"chat-core/services"
)

func Test_Resolve_Serves_Fresh_Profile_From_Store(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	profiles := mocks.NewMockIProfileRepository(ctrl)
	resolver := mocks.NewMockIProfileResolver(ctrl)
	directory := services.NewDirectoryService(profiles, resolver, time.Second, slog.New(slog.DiscardHandler))

	profiles.EXPECT().GetByID("u-1").Return(domain.UserProfile{
		ID:          "u-1",
		DisplayName: "Alice",
		SyncedAt:    time.Now().UTC(),
	}, nil)

	profile := directory.Resolve(context.Background(), "u-1")
	req.Equal("Alice", profile.DisplayName)
}

func Test_Resolve_Syncs_Missing_Profile(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	profiles := mocks.NewMockIProfileRepository(ctrl)
	resolver := mocks.NewMockIProfileResolver(ctrl)
	directory := services.NewDirectoryService(profiles, resolver, time.Second, slog.New(slog.DiscardHandler))

	resolved := domain.UserProfile{ID: "u-1", DisplayName: "Alice"}
	profiles.EXPECT().GetByID("u-1").Return(domain.UserProfile{}, badger.ErrKeyNotFound)
	resolver.EXPECT().ResolveProfile(gomock.Any(), "u-1").Return(resolved, nil)
	profiles.EXPECT().Upsert(resolved).Return(nil)

	profile := directory.Resolve(context.Background(), "u-1")
	req.Equal("Alice", profile.DisplayName)
}

func Test_Resolve_Prefers_Stale_Over_Placeholder(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	profiles := mocks.NewMockIProfileRepository(ctrl)
	resolver := mocks.NewMockIProfileResolver(ctrl)
	directory := services.NewDirectoryService(profiles, resolver, time.Second, slog.New(slog.DiscardHandler))

	stale := domain.UserProfile{
		ID:          "u-1",
		DisplayName: "Alice",
		SyncedAt:    time.Now().UTC().Add(-time.Hour),
	}
	profiles.EXPECT().GetByID("u-1").Return(stale, nil)
	resolver.EXPECT().ResolveProfile(gomock.Any(), "u-1").
		Return(domain.UserProfile{}, fmt.Errorf("directory unavailable"))

	profile := directory.Resolve(context.Background(), "u-1")
	req.Equal("Alice", profile.DisplayName)
}

func Test_Resolve_Falls_Back_To_Placeholder(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	profiles := mocks.NewMockIProfileRepository(ctrl)
	resolver := mocks.NewMockIProfileResolver(ctrl)
	directory := services.NewDirectoryService(profiles, resolver, time.Second, slog.New(slog.DiscardHandler))

	profiles.EXPECT().GetByID("u-ghost").Return(domain.UserProfile{}, badger.ErrKeyNotFound)
	resolver.EXPECT().ResolveProfile(gomock.Any(), "u-ghost").
		Return(domain.UserProfile{}, fmt.Errorf("directory unavailable"))

	profile := directory.Resolve(context.Background(), "u-ghost")
	req.Equal("u-ghost", profile.ID)
	req.NotEmpty(profile.DisplayName)
}
