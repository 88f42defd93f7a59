//go:generate go run go.uber.org/mock/mockgen -source=directory_service.go -destination=../mocks/mock_directory_service.go -package=mocks
package services

import (
	"context"
	"log/slog"
	"time"

	"chat-core/domain"
	"chat-core/repositories"
)

// profileStaleAfter bounds how long a synced profile is served without
// consulting the resolver again.
const profileStaleAfter = 15 * time.Minute

// IProfileResolver is the external directory this core backfills from.
type IProfileResolver interface {
	ResolveProfile(ctx context.Context, userID string) (domain.UserProfile, error)
}

type IDirectoryService interface {
	Resolve(ctx context.Context, userID string) domain.UserProfile
	SetPresence(userID string, online bool)
}

// DirectoryService resolves participant identifiers to display data. Lookups
// are served from the durable directory store; absent or stale entries
// trigger a best-effort sync against the resolver. Resolution never fails a
// caller: when both store and resolver come up empty, a placeholder profile
// degrades the display without degrading access.
type DirectoryService struct {
	profiles    repositories.IProfileRepository
	resolver    IProfileResolver
	syncTimeout time.Duration
	log         *slog.Logger
}

func NewDirectoryService(profiles repositories.IProfileRepository, resolver IProfileResolver,
	syncTimeout time.Duration, log *slog.Logger) *DirectoryService {
	return &DirectoryService{
		profiles:    profiles,
		resolver:    resolver,
		syncTimeout: syncTimeout,
		log:         log,
	}
}

func (d *DirectoryService) Resolve(ctx context.Context, userID string) domain.UserProfile {
	profile, err := d.profiles.GetByID(userID)
	if err == nil && time.Since(profile.SyncedAt) < profileStaleAfter {
		return profile
	}

	synced, syncErr := d.sync(ctx, userID)
	if syncErr == nil {
		return synced
	}

	// Sync failed: a stale profile still beats a placeholder.
	if err == nil {
		return profile
	}
	d.log.Warn("profile resolution degraded",
		"user_id", userID, "error", syncErr)
	return domain.PlaceholderProfile(userID)
}

// sync pulls the profile from the resolver under a bounded timeout and
// persists it in the directory store.
func (d *DirectoryService) sync(ctx context.Context, userID string) (domain.UserProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, d.syncTimeout)
	defer cancel()

	profile, err := d.resolver.ResolveProfile(ctx, userID)
	if err != nil {
		return domain.UserProfile{}, err
	}
	if err = d.profiles.Upsert(profile); err != nil {
		// The resolved data is still good for this call.
		d.log.Warn("profile backfill write failed", "user_id", userID, "error", err)
	}
	return profile, nil
}

// SetPresence flips the best-effort online flag in the directory store.
func (d *DirectoryService) SetPresence(userID string, online bool) {
	if err := d.profiles.SetOnline(userID, online); err != nil {
		d.log.Debug("presence update dropped", "user_id", userID, "error", err)
	}
}
