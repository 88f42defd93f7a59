//go:generate go run go.uber.org/mock/mockgen -source=profile.go -destination=../mocks/mock_profile_repository.go -package=mocks
package repositories

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/dgraph-io/badger/v4"

	"chat-core/domain"
)

type IProfileRepository interface {
	Upsert(profile domain.UserProfile) error
	GetByID(userID string) (domain.UserProfile, error)
	SetOnline(userID string, online bool) error
}

// ProfileRepository is the durable directory of participant display data.
// Profiles are written by the directory sync and never deleted.
type ProfileRepository struct {
	db *badger.DB
}

func NewProfileRepository(db *badger.DB) IProfileRepository {
	return &ProfileRepository{db: db}
}

type DiskProfile struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Online      bool   `json:"online"`
	SyncedAt    int64  `json:"synced_at"`
}

func profileKey(userID string) []byte {
	return []byte("profile:" + userID)
}

func (p *ProfileRepository) Upsert(profile domain.UserProfile) error {
	profile.SyncedAt = time.Now().UTC()
	bytes, err := sonic.Marshal(fromProfile(profile))
	if err != nil {
		return err
	}
	return p.db.Update(func(txn *badger.Txn) error {
		return txn.Set(profileKey(profile.ID), bytes)
	})
}

func (p *ProfileRepository) GetByID(userID string) (domain.UserProfile, error) {
	var disk DiskProfile
	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(userID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return sonic.Unmarshal(val, &disk)
		})
	})
	if err != nil {
		return domain.UserProfile{}, err
	}
	return toProfile(disk), nil
}

// SetOnline flips the best-effort presence flag. A missing profile is not an
// error: presence for an unsynced user is simply dropped.
func (p *ProfileRepository) SetOnline(userID string, online bool) error {
	err := p.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(userID))
		if err != nil {
			return err
		}
		var disk DiskProfile
		if err = item.Value(func(val []byte) error {
			return sonic.Unmarshal(val, &disk)
		}); err != nil {
			return err
		}
		disk.Online = online
		bytes, err := sonic.Marshal(disk)
		if err != nil {
			return err
		}
		return txn.Set(profileKey(userID), bytes)
	})
	if err == badger.ErrKeyNotFound {
		return nil
	}
	return err
}

func fromProfile(profile domain.UserProfile) DiskProfile {
	return DiskProfile{
		ID:          profile.ID,
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
		AvatarURL:   profile.AvatarURL,
		Online:      profile.Online,
		SyncedAt:    profile.SyncedAt.UnixNano(),
	}
}

func toProfile(disk DiskProfile) domain.UserProfile {
	return domain.UserProfile{
		ID:          disk.ID,
		Email:       disk.Email,
		DisplayName: disk.DisplayName,
		AvatarURL:   disk.AvatarURL,
		Online:      disk.Online,
		SyncedAt:    time.Unix(0, disk.SyncedAt).UTC(),
	}
}
